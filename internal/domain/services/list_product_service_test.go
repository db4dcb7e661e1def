package services

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/cache"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shopContext() *models.ShopContext {
	return &models.ShopContext{
		Shop:                  &models.Shop{ID: 1},
		Currency:              &models.Currency{ID: 1, Currency: "EUR", Factor: 1},
		CurrentCustomerGroup:  &models.CustomerGroup{ID: 1, Key: "EK", DisplayGrossPrices: true},
		FallbackCustomerGroup: &models.CustomerGroup{ID: 1, Key: "EK", DisplayGrossPrices: true},
		Taxes:                 map[int]*models.Tax{1: {ID: 1, Tax: 19}},
	}
}

type productOption func(p *models.ListProduct, v *pricing.VariantRules)

func withGroup(key string) productOption {
	return func(_ *models.ListProduct, v *pricing.VariantRules) {
		for _, r := range v.Rules {
			r.CustomerGroup = &models.CustomerGroup{Key: key}
		}
	}
}

func blockedFor(groupIDs ...int) productOption {
	return func(p *models.ListProduct, _ *pricing.VariantRules) {
		p.BlockedCustomerGroups = groupIDs
	}
}

func sold(sales int) productOption {
	return func(p *models.ListProduct, _ *pricing.VariantRules) {
		p.Sales = sales
	}
}

func catalogProduct(id int, number string, price float64, opts ...productOption) func() *pricing.ProductRules {
	return func() *pricing.ProductRules {
		unit := &models.Unit{MinPurchase: 1}
		product := &models.ListProduct{
			BaseProduct: models.BaseProduct{ID: id, VariantID: id * 10, Number: number},
			Name:        "Product " + number,
			Tax:         &models.Tax{ID: 1, Tax: 19},
			Unit:        unit,
		}
		variant := pricing.VariantRules{
			VariantID: id * 10,
			Number:    number,
			Unit:      unit,
			Rules: []*models.PriceRule{{
				VariantID:     id * 10,
				From:          1,
				Price:         price,
				CustomerGroup: &models.CustomerGroup{Key: "EK"},
			}},
		}
		for _, opt := range opts {
			opt(product, &variant)
		}
		return &pricing.ProductRules{Product: product, Variants: []pricing.VariantRules{variant}}
	}
}

func newListProductService(t *testing.T, catalog *fakeCatalog) (*ListProductService, *cache.MemoryCache) {
	t.Helper()
	memory, err := cache.NewMemoryCache(100)
	require.NoError(t, err)
	svc := NewListProductService(catalog, pricing.NewService(nil), memory, time.Hour,
		MarketingConfig{MarkAsNewDays: 30, TopSellerSales: 100}, logger.NewNop())
	return svc, memory
}

func TestListProductService_GetListKeepsOrderAndSkips(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]func() *pricing.ProductRules{
		"SW-1": catalogProduct(1, "SW-1", 10),
		"SW-2": catalogProduct(2, "SW-2", 20),
		"SW-3": catalogProduct(3, "SW-3", 30, blockedFor(1)),
		"SW-4": catalogProduct(4, "SW-4", 40, withGroup("H")),
	}}
	svc, _ := newListProductService(t, catalog)

	products, err := svc.GetList(context.Background(), []string{"SW-2", "SW-3", "SW-9", "SW-4", "SW-1"}, shopContext())
	require.NoError(t, err)

	require.Len(t, products, 2)
	assert.Equal(t, "SW-2", products[0].Number)
	assert.Equal(t, "SW-1", products[1].Number)
	assert.NotNil(t, products[0].CheapestPrice)
	assert.NotEmpty(t, products[0].Prices)
}

func TestListProductService_UsesCache(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]func() *pricing.ProductRules{
		"SW-1": catalogProduct(1, "SW-1", 10),
		"SW-2": catalogProduct(2, "SW-2", 20),
	}}
	svc, memory := newListProductService(t, catalog)
	ctx := context.Background()

	_, err := svc.GetList(ctx, []string{"SW-1"}, shopContext())
	require.NoError(t, err)
	assert.Equal(t, 1, memory.Len())

	products, err := svc.GetList(ctx, []string{"SW-1", "SW-2"}, shopContext())
	require.NoError(t, err)
	require.Len(t, products, 2)

	require.Len(t, catalog.loads, 2)
	assert.Equal(t, []string{"SW-2"}, catalog.loads[1])

	require.NoError(t, svc.Invalidate(ctx, []string{"SW-1"}))
	assert.Equal(t, 1, memory.Len())

	require.NoError(t, svc.Flush(ctx))
	assert.Equal(t, 0, memory.Len())
}

func TestListProductService_InvalidateFreeTextNumbers(t *testing.T) {
	svc, memory := newListProductService(t, &fakeCatalog{})
	ctx := context.Background()
	other := shopContext()
	other.CurrentCustomerGroup = &models.CustomerGroup{ID: 2, Key: "H"}

	for _, number := range []string{"AB[1", "AB1", "SW-100/2", "SW-100"} {
		require.NoError(t, memory.Set(ctx, listProductKey(shopContext(), number), []byte("{}"), 0))
	}
	require.NoError(t, memory.Set(ctx, listProductKey(other, "AB[1"), []byte("{}"), 0))

	require.NoError(t, svc.Invalidate(ctx, []string{"AB[1"}))
	assert.Equal(t, 3, memory.Len())
	_, err := memory.Get(ctx, listProductKey(shopContext(), "AB1"))
	assert.NoError(t, err)

	require.NoError(t, svc.Invalidate(ctx, []string{"SW-100/2"}))
	_, err = memory.Get(ctx, listProductKey(shopContext(), "SW-100"))
	assert.NoError(t, err)
	assert.Equal(t, 2, memory.Len())

	require.NoError(t, svc.Flush(ctx))
	assert.Equal(t, 0, memory.Len())
}

func TestListProductService_MarketingFlags(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	recent := now.AddDate(0, 0, -5)
	release := now.AddDate(0, 1, 0)

	catalog := &fakeCatalog{products: map[string]func() *pricing.ProductRules{
		"SW-1": catalogProduct(1, "SW-1", 10, sold(150), func(p *models.ListProduct, _ *pricing.VariantRules) {
			p.CreatedAt = &recent
			p.ReleaseDate = &release
		}),
		"SW-2": catalogProduct(2, "SW-2", 10, sold(3)),
	}}
	svc, _ := newListProductService(t, catalog)
	svc.now = func() time.Time { return now }

	products, err := svc.GetList(context.Background(), []string{"SW-1", "SW-2"}, shopContext())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, &models.Marketing{IsNew: true, ComingSoon: true, IsTopSeller: true}, products[0].Marketing)
	assert.Equal(t, &models.Marketing{}, products[1].Marketing)
}

func TestListProductService_GetProduct(t *testing.T) {
	catalog := &fakeCatalog{
		products: map[string]func() *pricing.ProductRules{
			"SW-1": catalogProduct(1, "SW-1", 10),
			"SW-2": catalogProduct(2, "SW-2", 20),
		},
		associations: &models.ProductAssociations{
			RelatedNumbers: []string{"SW-2", "SW-404"},
			CategoryIDs:    []int{3},
		},
		categories: []*models.Category{{ID: 3, Name: "Shirts"}},
	}
	svc, _ := newListProductService(t, catalog)
	ctx := context.Background()

	product, err := svc.GetProduct(ctx, "SW-1", shopContext())
	require.NoError(t, err)
	assert.Equal(t, "SW-1", product.Number)
	require.Len(t, product.RelatedProducts, 1)
	assert.Equal(t, "SW-2", product.RelatedProducts[0].Number)
	assert.Empty(t, product.SimilarProducts)
	require.Len(t, product.Categories, 1)

	_, err = svc.GetProduct(ctx, "SW-404", shopContext())
	assert.ErrorIs(t, err, utils.ErrNotFound)
}
