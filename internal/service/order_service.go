package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo      repository.OrderRepository
	productRepo    repository.ProductRepository
	cartRepo       repository.CartRepository
	userRepo       repository.UserRepository
	strictStatuses bool
	logger         zerolog.Logger
}

// NewOrderService creates a new order service. With strictStatuses enabled,
// status updates outside the canonical set are rejected instead of stored
// verbatim.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	strictStatuses bool,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		cartRepo:       cartRepo,
		userRepo:       userRepo,
		strictStatuses: strictStatuses,
		logger:         logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrderFromCart places an order from the user's cart and clears the cart.
func (s *orderService) PlaceOrderFromCart(ctx context.Context, userID uuid.UUID) (*model.OrderDetail, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	cartLines, err := s.cartRepo.GetLines(ctx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to get cart lines")
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}
	if len(cartLines) == 0 {
		return nil, model.ErrEmptyCart
	}

	requested := make([]model.OrderLineRequest, len(cartLines))
	for i, line := range cartLines {
		requested[i] = model.OrderLineRequest{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	return s.placeOrder(ctx, userID, requested, &cart.ID)
}

// PlaceOrderFromLines places an order from explicit lines.
func (s *orderService) PlaceOrderFromLines(ctx context.Context, userID uuid.UUID, lines []model.OrderLineRequest) (*model.OrderDetail, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, model.ErrEmptyCart
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, model.ErrInvalidQuantity
		}
	}

	return s.placeOrder(ctx, userID, lines, nil)
}

// placeOrder runs the checkout transaction. Every requested line is
// validated against locked stock before any decrement; clearCartID, when
// set, empties that cart in the same transaction.
func (s *orderService) placeOrder(ctx context.Context, userID uuid.UUID, requested []model.OrderLineRequest, clearCartID *uuid.UUID) (*model.OrderDetail, error) {
	// Duplicate product IDs collapse into a single line.
	quantities := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0, len(requested))
	for _, line := range requested {
		if _, ok := quantities[line.ProductID]; !ok {
			ids = append(ids, line.ProductID)
		}
		quantities[line.ProductID] += line.Quantity
	}
	sortIDs(ids)

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	products, err := s.productRepo.GetForUpdate(ctx, tx, ids)
	if err != nil {
		s.logger.Error().Err(err).Int("product_count", len(ids)).Msg("failed to lock products")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	if len(products) != len(ids) {
		err = model.ErrProductNotFound
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	// Validate every line before touching any stock.
	for id, qty := range quantities {
		product := byID[id]
		if !product.RetailPrice.Valid || !product.WholesalePrice.Valid {
			s.logger.Warn().
				Str("product_id", id.String()).
				Msg("product has no price set")
			err = model.ErrMissingPrice
			return nil, err
		}
		if product.Stock < qty {
			s.logger.Warn().
				Str("product_id", id.String()).
				Int("stock", product.Stock).
				Int("requested", qty).
				Msg("insufficient stock")
			err = model.ErrInsufficientStock
			return nil, err
		}
	}

	for _, id := range ids {
		if err = s.productRepo.AdjustStock(ctx, tx, id, -quantities[id]); err != nil {
			s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to decrement stock")
			return nil, err
		}
	}

	order := &model.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     model.StatusProcessing,
		DatePlaced: time.Now(),
	}

	if err = s.orderRepo.Create(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	orderLines := make([]model.OrderLine, len(ids))
	for i, id := range ids {
		product := byID[id]
		orderLines[i] = model.OrderLine{
			ID:             uuid.New(),
			OrderID:        order.ID,
			ProductID:      id,
			Quantity:       quantities[id],
			PurchasedPrice: product.RetailPrice.Decimal,
			WholesalePrice: product.WholesalePrice.Decimal,
			ProductName:    product.Name,
		}
	}

	if err = s.orderRepo.CreateLines(ctx, tx, orderLines); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order lines")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if clearCartID != nil {
		if err = s.cartRepo.DeleteLinesTx(ctx, tx, *clearCartID); err != nil {
			s.logger.Error().Err(err).Str("cart_id", clearCartID.String()).Msg("failed to clear cart")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("line_count", len(orderLines)).
		Msg("order placed")

	return &model.OrderDetail{Order: *order, Lines: orderLines}, nil
}

// GetDetail retrieves an order with its lines.
func (s *orderService) GetDetail(ctx context.Context, orderID uuid.UUID) (*model.OrderDetail, error) {
	order, lines, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return &model.OrderDetail{Order: *order, Lines: lines}, nil
}

// GetByUser retrieves a user's orders, newest first.
func (s *orderService) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.OrderDetail, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	details, err := s.orderRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	if details == nil {
		details = []model.OrderDetail{}
	}

	return details, nil
}

// GetAll retrieves every order, newest first.
func (s *orderService) GetAll(ctx context.Context) ([]model.OrderDetail, error) {
	details, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	if details == nil {
		details = []model.OrderDetail{}
	}

	return details, nil
}

// UpdateStatus moves an order to a new status.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	target, canonical := canonicalStatus(status)
	if !canonical && s.strictStatuses {
		s.logger.Warn().Str("status", status).Msg("unknown order status rejected")
		return nil, model.ErrUnknownStatus
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	order, lines, err := s.orderRepo.GetByIDForUpdate(ctx, tx, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		err = model.ErrOrderNotFound
		return nil, err
	}

	switch target {
	case model.StatusCanceled:
		if order.Status == model.StatusCompleted {
			err = model.ErrIllegalTransition
			return nil, err
		}
		// A second cancel must not restore stock again.
		if order.Status != model.StatusCanceled {
			for _, line := range lines {
				if err = s.productRepo.AdjustStock(ctx, tx, line.ProductID, line.Quantity); err != nil {
					s.logger.Error().Err(err).
						Str("order_id", orderID.String()).
						Str("product_id", line.ProductID.String()).
						Msg("failed to restore stock")
					return nil, fmt.Errorf("failed to update order status: %w", err)
				}
			}
		}
	case model.StatusCompleted:
		if order.Status == model.StatusCanceled {
			err = model.ErrIllegalTransition
			return nil, err
		}
	}

	if err = s.orderRepo.UpdateStatus(ctx, tx, orderID, target); err != nil {
		s.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("status", target).
			Msg("failed to update order status")
		return nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info().
		Str("order_id", orderID.String()).
		Str("from", order.Status).
		Str("to", target).
		Msg("order status updated")

	order.Status = target
	return order, nil
}

func (s *orderService) checkUser(ctx context.Context, userID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user")
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return model.ErrUserNotFound
	}
	return nil
}

// canonicalStatus matches a requested status case-insensitively against the
// canonical spellings. Unrecognised statuses come back verbatim with
// canonical false.
func canonicalStatus(status string) (string, bool) {
	for _, known := range []string{model.StatusProcessing, model.StatusCompleted, model.StatusCanceled} {
		if strings.EqualFold(status, known) {
			return known, true
		}
	}
	return status, false
}

// sortIDs keeps lock acquisition in a stable order across transactions.
func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return strings.Compare(ids[i].String(), ids[j].String()) < 0
	})
}
