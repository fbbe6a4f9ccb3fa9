package service

import (
	"context"
	"testing"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSeeder_SeedsEmptyCatalog(t *testing.T) {
	products := newFakeProductRepo()
	seeder := NewCatalogSeeder(products, zerolog.Nop())

	require.NoError(t, seeder.Seed(context.Background()))

	got, err := products.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	prices := map[string]int64{}
	for _, p := range got {
		prices[p.Name] = p.Price
		assert.True(t, p.Active)
	}
	assert.Equal(t, int64(500), prices["Water"])
	assert.Equal(t, int64(800), prices["Bread"])
	assert.Equal(t, int64(1500), prices["Notebook"])
}

func TestCatalogSeeder_SkipsNonEmptyCatalog(t *testing.T) {
	products := newFakeProductRepo()
	products.add(domain.Product{ID: uuid.New(), Name: "Existing", Price: 42, Active: true})
	seeder := NewCatalogSeeder(products, zerolog.Nop())

	require.NoError(t, seeder.Seed(context.Background()))

	count, err := products.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "seeding must not touch a populated catalog")
}

func TestCatalogSeeder_CountFailure(t *testing.T) {
	products := newFakeProductRepo()
	products.countErr = assert.AnError
	seeder := NewCatalogSeeder(products, zerolog.Nop())

	err := seeder.Seed(context.Background())
	require.Error(t, err)
}
