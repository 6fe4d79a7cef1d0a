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

// watchlistService implements WatchlistService.
type watchlistService struct {
	watchlistRepo repository.WatchlistRepository
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	logger        zerolog.Logger
}

// NewWatchlistService creates a new watchlist service.
func NewWatchlistService(
	watchlistRepo repository.WatchlistRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) WatchlistService {
	return &watchlistService{
		watchlistRepo: watchlistRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		logger:        logger.With().Str("service", "watchlist").Logger(),
	}
}

// GetByUser retrieves a user's watchlist entries.
func (s *watchlistService) GetByUser(ctx context.Context, userID uuid.UUID) ([]model.WatchlistEntry, error) {
	if err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}

	entries, err := s.watchlistRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get watchlist")
		return nil, fmt.Errorf("failed to get watchlist: %w", err)
	}

	if entries == nil {
		entries = []model.WatchlistEntry{}
	}

	return entries, nil
}

// Add puts a product on a user's watchlist.
func (s *watchlistService) Add(ctx context.Context, req *model.WatchlistRequest) (*model.WatchlistEntry, bool, error) {
	if req == nil {
		return nil, false, fmt.Errorf("watchlist request is nil")
	}

	if err := s.checkUser(ctx, req.UserID); err != nil {
		return nil, false, err
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", req.ProductID.String()).Msg("failed to get product")
		return nil, false, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, false, model.ErrProductNotFound
	}

	existing, err := s.watchlistRepo.GetByUserAndProduct(ctx, req.UserID, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", req.UserID.String()).Msg("failed to get watchlist entry")
		return nil, false, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	if existing != nil {
		existing.ProductName = product.Name
		return existing, false, nil
	}

	entry := &model.WatchlistEntry{
		ID:          uuid.New(),
		UserID:      req.UserID,
		ProductID:   req.ProductID,
		CreatedAt:   time.Now(),
		ProductName: product.Name,
	}

	if err := s.watchlistRepo.Add(ctx, entry); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", req.UserID.String()).
			Str("product_id", req.ProductID.String()).
			Msg("failed to add watchlist entry")
		return nil, false, fmt.Errorf("failed to add watchlist entry: %w", err)
	}

	s.logger.Info().
		Str("user_id", req.UserID.String()).
		Str("product_id", req.ProductID.String()).
		Msg("product added to watchlist")

	return entry, true, nil
}

// Remove takes a product off a user's watchlist.
func (s *watchlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.checkUser(ctx, userID); err != nil {
		return err
	}

	if err := s.watchlistRepo.Remove(ctx, userID, productID); err != nil {
		s.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove watchlist entry")
		return fmt.Errorf("failed to remove watchlist entry: %w", err)
	}

	return nil
}

func (s *watchlistService) checkUser(ctx context.Context, userID uuid.UUID) error {
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
