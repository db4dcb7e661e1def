package services

import (
	"context"
	"errors"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNumberSearch struct {
	result *search.ProductNumberSearchResult
	err    error
}

func (f *fakeNumberSearch) Search(context.Context, *search.Criteria, *models.ShopContext) (*search.ProductNumberSearchResult, error) {
	return f.result, f.err
}

func TestSearchService_KeepsGatewayOrderAndCount(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]func() *pricing.ProductRules{
		"SW-1": catalogProduct(1, "SW-1", 10),
		"SW-2": catalogProduct(2, "SW-2", 20),
	}}
	products, _ := newListProductService(t, catalog)
	gateway := &fakeNumberSearch{result: &search.ProductNumberSearchResult{
		Products: []*models.BaseProduct{
			{ID: 2, Number: "SW-2"},
			{ID: 5, Number: "SW-5"},
			{ID: 1, Number: "SW-1"},
		},
		TotalCount: 42,
	}}
	svc := NewSearchService(gateway, products, logger.NewNop())

	result, err := svc.Search(context.Background(), search.NewCriteria(), shopContext())
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	assert.Equal(t, "SW-2", result.Products[0].Number)
	assert.Equal(t, "SW-1", result.Products[1].Number)
	assert.Equal(t, 42, result.TotalCount)
	assert.NotNil(t, result.Facets)
}

func TestSearchService_GatewayError(t *testing.T) {
	products, _ := newListProductService(t, &fakeCatalog{})
	svc := NewSearchService(&fakeNumberSearch{err: errors.New("timeout")}, products, logger.NewNop())

	_, err := svc.Search(context.Background(), search.NewCriteria(), shopContext())
	assert.ErrorContains(t, err, "timeout")
}
