package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"duper-mart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrderFromCart(ctx context.Context, userID uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) PlaceOrderFromLines(ctx context.Context, userID uuid.UUID, lines []model.OrderLineRequest) (*model.OrderDetail, error) {
	args := m.Called(ctx, userID, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) GetDetail(ctx context.Context, orderID uuid.UUID) (*model.OrderDetail, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) GetAll(ctx context.Context) ([]model.OrderDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func TestOrderHandler_Place_FromCart(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	userID := uuid.New()
	detail := &model.OrderDetail{
		Order: model.Order{ID: uuid.New(), UserID: userID, Status: model.StatusProcessing, DatePlaced: time.Now()},
	}
	mockService.On("PlaceOrderFromCart", mock.Anything, userID).Return(detail, nil)

	body := `{"userId":"` + userID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Place(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertNotCalled(t, "PlaceOrderFromLines", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_Place_FromLines(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	userID := uuid.New()
	productID := uuid.New()
	detail := &model.OrderDetail{
		Order: model.Order{ID: uuid.New(), UserID: userID, Status: model.StatusProcessing, DatePlaced: time.Now()},
	}
	mockService.On("PlaceOrderFromLines", mock.Anything, userID, mock.AnythingOfType("[]model.OrderLineRequest")).Return(detail, nil)

	body := `{"userId":"` + userID.String() + `","lines":[{"productId":"` + productID.String() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.Place(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	mockService.AssertNotCalled(t, "PlaceOrderFromCart", mock.Anything, mock.Anything)
}

func TestOrderHandler_Place_DomainErrorStatusCodes(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"insufficient stock", model.ErrInsufficientStock, http.StatusConflict},
		{"missing price", model.ErrMissingPrice, http.StatusConflict},
		{"empty cart", model.ErrEmptyCart, http.StatusBadRequest},
		{"cart not found", model.ErrCartNotFound, http.StatusNotFound},
		{"user not found", model.ErrUserNotFound, http.StatusNotFound},
		{"product not found", model.ErrProductNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOrderService)
			h := NewOrderHandler(mockService, zerolog.Nop())

			userID := uuid.New()
			mockService.On("PlaceOrderFromCart", mock.Anything, userID).Return(nil, tt.err)

			body := `{"userId":"` + userID.String() + `"}`
			req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
			rec := httptest.NewRecorder()

			h.Place(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestOrderHandler_Place_InvalidBody(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	h.Place(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusCompleted, DatePlaced: time.Now()}
	mockService.On("UpdateStatus", mock.Anything, orderID, "Completed").Return(order, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"Completed"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), model.StatusCompleted)
}

func TestOrderHandler_UpdateStatus_IllegalTransition(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	orderID := uuid.New()
	mockService.On("UpdateStatus", mock.Anything, orderID, "Canceled").Return(nil, model.ErrIllegalTransition)

	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{"status":"Canceled"}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), model.ErrCodeIllegalTransition)
}

func TestOrderHandler_UpdateStatus_MissingStatus(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	orderID := uuid.New()
	req := httptest.NewRequest(http.MethodPatch, "/api/orders/"+orderID.String()+"/status", strings.NewReader(`{}`))
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	orderID := uuid.New()
	mockService.On("GetDetail", mock.Anything, orderID).Return(nil, model.ErrOrderNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/"+orderID.String(), nil)
	req.SetPathValue("id", orderID.String())
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderHandler_GetByID_InvalidID(t *testing.T) {
	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockService.AssertNotCalled(t, "GetDetail", mock.Anything, mock.Anything)
}
