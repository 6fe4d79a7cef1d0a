package service

import (
	"context"
	"testing"
	"time"

	"duper-mart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ndec(value string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(value), Valid: true}
}

type orderServiceMocks struct {
	orderRepo   *MockOrderRepository
	productRepo *MockProductRepository
	cartRepo    *MockCartRepository
	userRepo    *MockUserRepository
	tx          *MockTx
}

func newOrderService(strict bool) (OrderService, *orderServiceMocks) {
	m := &orderServiceMocks{
		orderRepo:   new(MockOrderRepository),
		productRepo: new(MockProductRepository),
		cartRepo:    new(MockCartRepository),
		userRepo:    new(MockUserRepository),
		tx:          new(MockTx),
	}
	svc := NewOrderService(m.orderRepo, m.productRepo, m.cartRepo, m.userRepo, strict, zerolog.Nop())
	return svc, m
}

func testUser(id uuid.UUID) *model.User {
	return &model.User{ID: id, Username: "customer", Role: model.RoleRegular, CreatedAt: time.Now()}
}

func TestOrderService_PlaceOrderFromCart_Success(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	productID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := model.Product{
		ID:             productID,
		Name:           "Keyboard",
		Stock:          5,
		RetailPrice:    ndec("100.00"),
		WholesalePrice: ndec("60.00"),
	}

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.cartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	m.cartRepo.On("GetLines", ctx, cart.ID).Return([]model.CartLine{
		{ID: uuid.New(), CartID: cart.ID, ProductID: productID, Quantity: 2},
	}, nil)
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.productRepo.On("GetForUpdate", ctx, m.tx, []uuid.UUID{productID}).Return([]model.Product{product}, nil)
	m.productRepo.On("AdjustStock", ctx, m.tx, productID, -2).Return(nil)
	m.orderRepo.On("Create", ctx, m.tx, mock.AnythingOfType("*model.Order")).Return(nil)
	m.orderRepo.On("CreateLines", ctx, m.tx, mock.AnythingOfType("[]model.OrderLine")).Return(nil)
	m.cartRepo.On("DeleteLinesTx", ctx, m.tx, cart.ID).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	detail, err := svc.PlaceOrderFromCart(ctx, userID)

	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, model.StatusProcessing, detail.Order.Status)
	assert.Equal(t, userID, detail.Order.UserID)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, 2, detail.Lines[0].Quantity)
	assert.True(t, detail.Lines[0].PurchasedPrice.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, detail.Lines[0].WholesalePrice.Equal(decimal.RequireFromString("60.00")))
	assert.Equal(t, "Keyboard", detail.Lines[0].ProductName)

	m.orderRepo.AssertExpectations(t)
	m.productRepo.AssertExpectations(t)
	m.cartRepo.AssertExpectations(t)
	m.tx.AssertExpectations(t)
}

func TestOrderService_PlaceOrderFromCart_InsufficientStock(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	productID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := model.Product{
		ID:             productID,
		Name:           "Keyboard",
		Stock:          1,
		RetailPrice:    ndec("100.00"),
		WholesalePrice: ndec("60.00"),
	}

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.cartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	m.cartRepo.On("GetLines", ctx, cart.ID).Return([]model.CartLine{
		{ID: uuid.New(), CartID: cart.ID, ProductID: productID, Quantity: 2},
	}, nil)
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.productRepo.On("GetForUpdate", ctx, m.tx, []uuid.UUID{productID}).Return([]model.Product{product}, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	detail, err := svc.PlaceOrderFromCart(ctx, userID)

	assert.ErrorIs(t, err, model.ErrInsufficientStock)
	assert.Nil(t, detail)

	// A failed checkout must not touch stock or persist anything.
	m.productRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.orderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	m.tx.AssertCalled(t, "Rollback", ctx)
	assert.False(t, m.tx.committed)
}

func TestOrderService_PlaceOrderFromCart_MissingPrice(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	productID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}
	product := model.Product{ID: productID, Name: "Mystery Box", Stock: 10}

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.cartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	m.cartRepo.On("GetLines", ctx, cart.ID).Return([]model.CartLine{
		{ID: uuid.New(), CartID: cart.ID, ProductID: productID, Quantity: 1},
	}, nil)
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.productRepo.On("GetForUpdate", ctx, m.tx, []uuid.UUID{productID}).Return([]model.Product{product}, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.PlaceOrderFromCart(ctx, userID)

	assert.ErrorIs(t, err, model.ErrMissingPrice)
	m.productRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrderFromCart_EmptyCart(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	cart := &model.Cart{ID: uuid.New(), UserID: userID}

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.cartRepo.On("GetByUser", ctx, userID).Return(cart, nil)
	m.cartRepo.On("GetLines", ctx, cart.ID).Return([]model.CartLine{}, nil)

	_, err := svc.PlaceOrderFromCart(ctx, userID)

	assert.ErrorIs(t, err, model.ErrEmptyCart)
	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_PlaceOrderFromCart_CartNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.cartRepo.On("GetByUser", ctx, userID).Return(nil, nil)

	_, err := svc.PlaceOrderFromCart(ctx, userID)

	assert.ErrorIs(t, err, model.ErrCartNotFound)
}

func TestOrderService_PlaceOrderFromCart_UserNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	m.userRepo.On("GetByID", ctx, userID).Return(nil, nil)

	_, err := svc.PlaceOrderFromCart(ctx, userID)

	assert.ErrorIs(t, err, model.ErrUserNotFound)
	m.cartRepo.AssertNotCalled(t, "GetByUser", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrderFromLines_InvalidQuantity(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)

	_, err := svc.PlaceOrderFromLines(ctx, userID, []model.OrderLineRequest{
		{ProductID: uuid.New(), Quantity: 0},
	})

	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
}

func TestOrderService_PlaceOrderFromLines_NoLines(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)

	_, err := svc.PlaceOrderFromLines(ctx, userID, nil)

	assert.ErrorIs(t, err, model.ErrEmptyCart)
}

func TestOrderService_PlaceOrderFromLines_ProductNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	productID := uuid.New()

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.productRepo.On("GetForUpdate", ctx, m.tx, []uuid.UUID{productID}).Return([]model.Product{}, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.PlaceOrderFromLines(ctx, userID, []model.OrderLineRequest{
		{ProductID: productID, Quantity: 1},
	})

	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestOrderService_PlaceOrderFromLines_MergesDuplicates(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	userID := uuid.New()
	productID := uuid.New()
	product := model.Product{
		ID:             productID,
		Name:           "Mug",
		Stock:          10,
		RetailPrice:    ndec("5.00"),
		WholesalePrice: ndec("2.00"),
	}

	m.userRepo.On("GetByID", ctx, userID).Return(testUser(userID), nil)
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.productRepo.On("GetForUpdate", ctx, m.tx, []uuid.UUID{productID}).Return([]model.Product{product}, nil)
	m.productRepo.On("AdjustStock", ctx, m.tx, productID, -3).Return(nil)
	m.orderRepo.On("Create", ctx, m.tx, mock.AnythingOfType("*model.Order")).Return(nil)
	m.orderRepo.On("CreateLines", ctx, m.tx, mock.AnythingOfType("[]model.OrderLine")).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	detail, err := svc.PlaceOrderFromLines(ctx, userID, []model.OrderLineRequest{
		{ProductID: productID, Quantity: 1},
		{ProductID: productID, Quantity: 2},
	})

	require.NoError(t, err)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, 3, detail.Lines[0].Quantity)
	m.cartRepo.AssertNotCalled(t, "DeleteLinesTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_CancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	productID := uuid.New()
	order := &model.Order{ID: orderID, UserID: uuid.New(), Status: model.StatusProcessing, DatePlaced: time.Now()}
	lines := []model.OrderLine{{ID: uuid.New(), OrderID: orderID, ProductID: productID, Quantity: 2}}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, lines, nil)
	m.productRepo.On("AdjustStock", ctx, m.tx, productID, 2).Return(nil)
	m.orderRepo.On("UpdateStatus", ctx, m.tx, orderID, model.StatusCanceled).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	updated, err := svc.UpdateStatus(ctx, orderID, "Canceled")

	require.NoError(t, err)
	assert.Equal(t, model.StatusCanceled, updated.Status)
	m.productRepo.AssertExpectations(t)
	m.orderRepo.AssertExpectations(t)
}

func TestOrderService_UpdateStatus_SecondCancelDoesNotRestoreStock(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusCanceled, DatePlaced: time.Now()}
	lines := []model.OrderLine{{ID: uuid.New(), OrderID: orderID, ProductID: uuid.New(), Quantity: 2}}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, lines, nil)
	m.orderRepo.On("UpdateStatus", ctx, m.tx, orderID, model.StatusCanceled).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, orderID, "canceled")

	require.NoError(t, err)
	m.productRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_CompletedCannotBeCanceled(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusCompleted, DatePlaced: time.Now()}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, []model.OrderLine{}, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, orderID, "Canceled")

	assert.ErrorIs(t, err, model.ErrIllegalTransition)
	m.productRepo.AssertNotCalled(t, "AdjustStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.orderRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_UpdateStatus_CanceledCannotBeCompleted(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusCanceled, DatePlaced: time.Now()}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, []model.OrderLine{}, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, orderID, "COMPLETED")

	assert.ErrorIs(t, err, model.ErrIllegalTransition)
}

func TestOrderService_UpdateStatus_CaseInsensitiveCanonicalSpelling(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusProcessing, DatePlaced: time.Now()}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, []model.OrderLine{}, nil)
	m.orderRepo.On("UpdateStatus", ctx, m.tx, orderID, model.StatusCompleted).Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	updated, err := svc.UpdateStatus(ctx, orderID, "completed")

	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
}

func TestOrderService_UpdateStatus_UnknownStatusStoredVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	order := &model.Order{ID: orderID, Status: model.StatusProcessing, DatePlaced: time.Now()}

	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(order, []model.OrderLine{}, nil)
	m.orderRepo.On("UpdateStatus", ctx, m.tx, orderID, "Shipped").Return(nil)
	m.tx.On("Commit", ctx).Return(nil)

	updated, err := svc.UpdateStatus(ctx, orderID, "Shipped")

	require.NoError(t, err)
	assert.Equal(t, "Shipped", updated.Status)
}

func TestOrderService_UpdateStatus_UnknownStatusRejectedWhenStrict(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(true)

	_, err := svc.UpdateStatus(ctx, uuid.New(), "Shipped")

	assert.ErrorIs(t, err, model.ErrUnknownStatus)
	m.orderRepo.AssertNotCalled(t, "BeginTx", mock.Anything)
}

func TestOrderService_UpdateStatus_OrderNotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	m.orderRepo.On("BeginTx", ctx).Return(m.tx, nil)
	m.orderRepo.On("GetByIDForUpdate", ctx, m.tx, orderID).Return(nil, nil, nil)
	m.tx.On("Rollback", ctx).Return(nil)

	_, err := svc.UpdateStatus(ctx, orderID, "Completed")

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}

func TestOrderService_GetDetail_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, m := newOrderService(false)

	orderID := uuid.New()
	m.orderRepo.On("GetByID", ctx, orderID).Return(nil, nil, nil)

	_, err := svc.GetDetail(ctx, orderID)

	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
