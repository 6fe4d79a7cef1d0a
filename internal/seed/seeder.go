package seed

import (
	"context"
	"fmt"
	"time"

	"duper-mart/internal/model"
	"duper-mart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Seeder populates an empty product catalogue from a catalogue file.
type Seeder struct {
	productRepo repository.ProductRepository
	loader      Loader
	logger      zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(productRepo repository.ProductRepository, loader Loader, logger zerolog.Logger) *Seeder {
	return &Seeder{
		productRepo: productRepo,
		loader:      loader,
		logger:      logger.With().Str("component", "seeder").Logger(),
	}
}

// Seed loads the catalogue file at path and creates its products. A store
// that already has products is left untouched.
func (s *Seeder) Seed(ctx context.Context, path string) error {
	count, err := s.productRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		s.logger.Info().Int("existing_products", count).Msg("catalogue already populated, skipping seed")
		return nil
	}

	records, err := s.loader.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load catalogue: %w", err)
	}

	for _, record := range records {
		product := &model.Product{
			ID:             uuid.New(),
			Name:           record.Name,
			Description:    record.Description,
			Stock:          record.Stock,
			RetailPrice:    record.RetailPrice,
			WholesalePrice: record.WholesalePrice,
			CreatedAt:      time.Now(),
		}
		if err := s.productRepo.Create(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", record.Name, err)
		}
	}

	s.logger.Info().Int("products_seeded", len(records)).Msg("catalogue seeded")

	return nil
}
