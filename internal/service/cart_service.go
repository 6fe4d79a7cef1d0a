package service

import (
	"context"
	"fmt"
	"time"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetLines retrieves a user's cart lines.
func (s *cartService) GetLines(ctx context.Context, userID uuid.UUID) ([]model.CartLine, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return []model.CartLine{}, nil
	}

	lines, err := s.cartRepo.GetLines(ctx, cart.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to get cart lines")
		return nil, fmt.Errorf("failed to get cart lines: %w", err)
	}

	if lines == nil {
		lines = []model.CartLine{}
	}

	return lines, nil
}

// AddProduct adds a product to a user's cart.
func (s *cartService) AddProduct(ctx context.Context, req *model.AddToCartRequest) (*model.CartLine, error) {
	if req == nil {
		return nil, fmt.Errorf("add to cart request is nil")
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	cart, err := s.cartRepo.GetByUser(ctx, req.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart == nil {
		cart = &model.Cart{
			ID:        uuid.New(),
			UserID:    req.UserID,
			CreatedAt: time.Now(),
		}
		if err := s.cartRepo.Create(ctx, cart); err != nil {
			s.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to create cart")
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		s.logger.Debug().
			Str("cart_id", cart.ID.String()).
			Str("user_id", req.UserID.String()).
			Msg("cart created")
	}

	line, err := s.cartRepo.GetLineByProduct(ctx, cart.ID, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to get cart line")
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}

	if line != nil {
		newQuantity := line.Quantity + req.Quantity
		if err := s.cartRepo.UpdateLineQuantity(ctx, line.ID, newQuantity); err != nil {
			s.logger.Error().Err(err).Str("line_id", line.ID.String()).Msg("failed to update cart line")
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
		line.Quantity = newQuantity
	} else {
		line = &model.CartLine{
			ID:        uuid.New(),
			CartID:    cart.ID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
		}
		if err := s.cartRepo.CreateLine(ctx, line); err != nil {
			s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to create cart line")
			return nil, fmt.Errorf("failed to create cart line: %w", err)
		}
	}

	line.ProductName = product.Name
	line.RetailPrice = product.RetailPrice

	s.logger.Info().
		Str("cart_id", cart.ID.String()).
		Str("product_id", req.ProductID.String()).
		Int("quantity", line.Quantity).
		Msg("product added to cart")

	return line, nil
}

// UpdateQuantity sets the quantity of the cart line for a product.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return model.ErrInvalidQuantity
	}

	line, err := s.findLine(ctx, userID, productID)
	if err != nil {
		return err
	}

	if quantity == 0 {
		if err := s.cartRepo.DeleteLine(ctx, line.ID); err != nil {
			s.logger.Error().Err(err).Str("line_id", line.ID.String()).Msg("failed to delete cart line")
			return fmt.Errorf("failed to delete cart line: %w", err)
		}
		return nil
	}

	if err := s.cartRepo.UpdateLineQuantity(ctx, line.ID, quantity); err != nil {
		s.logger.Error().Err(err).Str("line_id", line.ID.String()).Msg("failed to update cart line")
		return fmt.Errorf("failed to update cart line: %w", err)
	}

	return nil
}

// RemoveProduct removes the cart line for a product.
func (s *cartService) RemoveProduct(ctx context.Context, userID, productID uuid.UUID) error {
	line, err := s.findLine(ctx, userID, productID)
	if err != nil {
		return err
	}

	if err := s.cartRepo.DeleteLine(ctx, line.ID); err != nil {
		s.logger.Error().Err(err).Str("line_id", line.ID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	return nil
}

// Clear removes every line from a user's cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}

	if err := s.cartRepo.DeleteLines(ctx, cart.ID); err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info().Str("cart_id", cart.ID.String()).Msg("cart cleared")

	return nil
}

// findCart checks the user exists and returns their cart, which may be nil.
func (s *cartService) findCart(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	cart, err := s.cartRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// findLine resolves the cart line a user holds for a product.
func (s *cartService) findLine(ctx context.Context, userID, productID uuid.UUID) (*model.CartLine, error) {
	cart, err := s.findCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, model.ErrCartNotFound
	}

	line, err := s.cartRepo.GetLineByProduct(ctx, cart.ID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("cart_id", cart.ID.String()).Msg("failed to get cart line")
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	if line == nil {
		return nil, model.ErrProductNotFound
	}

	return line, nil
}
