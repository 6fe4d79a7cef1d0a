package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// mostPopularLimit is the fixed size of the best sellers ranking.
const mostPopularLimit = 5

// statsService implements StatsService. Rankings are computed from order
// line snapshots, so later price changes never rewrite history.
type statsService struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	logger    zerolog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) StatsService {
	return &statsService{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		logger:    logger.With().Str("service", "stats").Logger(),
	}
}

// productAccum accumulates per-product figures during an order scan.
type productAccum struct {
	name       string
	totalSold  int64
	revenue    decimal.Decimal
	profit     decimal.Decimal
	lastPlaced time.Time
}

// MostFrequentlyPurchased ranks the top N products a user has purchased by
// total quantity, ignoring cancelled orders.
func (s *statsService) MostFrequentlyPurchased(ctx context.Context, userID uuid.UUID, topN int) ([]model.ProductStats, error) {
	accums, err := s.scanUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := rank(accums, func(a, b *productAccum) bool {
		if a.totalSold != b.totalSold {
			return a.totalSold > b.totalSold
		}
		return a.name < b.name
	})

	return toStats(top(ranked, topN)), nil
}

// MostRecentlyPurchased ranks the top N products a user has purchased by
// most recent order date, ignoring cancelled orders.
func (s *statsService) MostRecentlyPurchased(ctx context.Context, userID uuid.UUID, topN int) ([]model.ProductStats, error) {
	accums, err := s.scanUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ranked := rank(accums, func(a, b *productAccum) bool {
		if !a.lastPlaced.Equal(b.lastPlaced) {
			return a.lastPlaced.After(b.lastPlaced)
		}
		return a.name < b.name
	})

	return toStats(top(ranked, topN)), nil
}

// MostProfitable ranks the top N products by profit over completed orders.
func (s *statsService) MostProfitable(ctx context.Context, topN int) ([]model.ProductProfit, error) {
	accums, err := s.scanCompleted(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rank(accums, func(a, b *productAccum) bool {
		if !a.profit.Equal(b.profit) {
			return a.profit.GreaterThan(b.profit)
		}
		return a.name < b.name
	})

	ranked = top(ranked, topN)
	result := make([]model.ProductProfit, len(ranked))
	for i, a := range ranked {
		result[i] = model.ProductProfit{
			ProductStats: model.ProductStats{
				ProductName:  a.name,
				TotalSold:    a.totalSold,
				TotalRevenue: a.revenue,
			},
			Profit: a.profit,
		}
	}

	return result, nil
}

// MostPopular returns the five best selling products over completed orders.
func (s *statsService) MostPopular(ctx context.Context) ([]model.ProductStats, error) {
	accums, err := s.scanCompleted(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rank(accums, func(a, b *productAccum) bool {
		if a.totalSold != b.totalSold {
			return a.totalSold > b.totalSold
		}
		return a.name < b.name
	})

	return toStats(top(ranked, mostPopularLimit)), nil
}

// TopSellingProduct returns the single best selling product over completed
// orders, or nil when nothing has sold.
func (s *statsService) TopSellingProduct(ctx context.Context) (*model.ProductStats, error) {
	popular, err := s.MostPopular(ctx)
	if err != nil {
		return nil, err
	}
	if len(popular) == 0 {
		return nil, nil
	}
	return &popular[0], nil
}

// ProductSales returns units sold per product name over completed orders.
func (s *statsService) ProductSales(ctx context.Context) (map[string]int64, error) {
	accums, err := s.scanCompleted(ctx)
	if err != nil {
		return nil, err
	}

	sales := make(map[string]int64, len(accums))
	for name, a := range accums {
		sales[name] = a.totalSold
	}

	return sales, nil
}

// TotalOrderCount returns the number of orders ever placed, in any status.
func (s *statsService) TotalOrderCount(ctx context.Context) (int, error) {
	details, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return len(details), nil
}

// scanUser accumulates figures over a user's non-cancelled orders.
func (s *statsService) scanUser(ctx context.Context, userID uuid.UUID) (map[string]*productAccum, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get user")
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}

	details, err := s.orderRepo.GetByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	accums := make(map[string]*productAccum)
	for _, detail := range details {
		if detail.Order.Status == model.StatusCanceled {
			continue
		}
		accumulate(accums, detail)
	}

	return accums, nil
}

// scanCompleted accumulates figures over all completed orders.
func (s *statsService) scanCompleted(ctx context.Context) (map[string]*productAccum, error) {
	details, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get orders")
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	accums := make(map[string]*productAccum)
	for _, detail := range details {
		if detail.Order.Status != model.StatusCompleted {
			continue
		}
		accumulate(accums, detail)
	}

	return accums, nil
}

func accumulate(accums map[string]*productAccum, detail model.OrderDetail) {
	for _, line := range detail.Lines {
		a, ok := accums[line.ProductName]
		if !ok {
			a = &productAccum{name: line.ProductName}
			accums[line.ProductName] = a
		}

		qty := decimal.NewFromInt(int64(line.Quantity))
		a.totalSold += int64(line.Quantity)
		a.revenue = a.revenue.Add(line.PurchasedPrice.Mul(qty))
		a.profit = a.profit.Add(line.PurchasedPrice.Sub(line.WholesalePrice).Mul(qty))
		if detail.Order.DatePlaced.After(a.lastPlaced) {
			a.lastPlaced = detail.Order.DatePlaced
		}
	}
}

func rank(accums map[string]*productAccum, less func(a, b *productAccum) bool) []*productAccum {
	ranked := make([]*productAccum, 0, len(accums))
	for _, a := range accums {
		ranked = append(ranked, a)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	return ranked
}

func top(ranked []*productAccum, n int) []*productAccum {
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

func toStats(ranked []*productAccum) []model.ProductStats {
	stats := make([]model.ProductStats, len(ranked))
	for i, a := range ranked {
		stats[i] = model.ProductStats{
			ProductName:  a.name,
			TotalSold:    a.totalSold,
			TotalRevenue: a.revenue,
		}
	}
	return stats
}
