package service

import (
	"context"
	"fmt"

	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CatalogSeeder inserts demo products on first run so a fresh install has
// something to sell. Best-effort: callers log failures and continue.
type CatalogSeeder struct {
	products ports.ProductRepository
	log      zerolog.Logger
}

// NewCatalogSeeder creates a new CatalogSeeder.
func NewCatalogSeeder(products ports.ProductRepository, log zerolog.Logger) *CatalogSeeder {
	return &CatalogSeeder{products: products, log: log}
}

// Seed populates the catalog when it is empty.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	count, err := s.products.Count(ctx)
	if err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	demo := []domain.Product{
		{ID: uuid.New(), Name: "Water", Price: 500, Active: true},
		{ID: uuid.New(), Name: "Bread", Price: 800, Active: true},
		{ID: uuid.New(), Name: "Notebook", Price: 1500, Active: true},
	}
	if err := s.products.CreateBatch(ctx, demo); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	s.log.Info().Int("count", len(demo)).Msg("seeded demo product catalog")
	return nil
}
