package main

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/cache"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (interfaces.MessageHandler, *cache.MemoryCache) {
	t.Helper()
	mem, err := cache.NewMemoryCache(16)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, "list_product:1:EUR:EK:SW10001", []byte("a"), time.Minute))
	require.NoError(t, mem.Set(ctx, "list_product:1:EUR:H:SW10001", []byte("b"), time.Minute))
	require.NoError(t, mem.Set(ctx, "list_product:1:EUR:EK:SW10002", []byte("c"), time.Minute))

	log := logger.NewNop()
	products := services.NewListProductService(nil, nil, mem, time.Hour, services.MarketingConfig{}, log)
	return catalogEventHandler(services.NewCacheInvalidator(products, nil, log), log), mem
}

func message(t *testing.T, event models.CatalogEvent) *interfaces.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &interfaces.Message{ID: "m-1", Topic: "storefront.catalog", Value: payload}
}

func TestCatalogEventHandlerEvictsVariants(t *testing.T) {
	handler, mem := newHandler(t)

	err := handler(context.Background(), message(t, models.CatalogEvent{
		ID:       "e-1",
		Type:     models.ArticleUpdated,
		EntityID: 7,
		Numbers:  []string{"SW10001"},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())

	_, err = mem.Get(context.Background(), "list_product:1:EUR:EK:SW10002")
	assert.NoError(t, err)
}

func TestCatalogEventHandlerFlushesOnCategoryEvents(t *testing.T) {
	handler, mem := newHandler(t)

	err := handler(context.Background(), message(t, models.CatalogEvent{ID: "e-2", Type: models.CategoryDeleted, EntityID: 3}))
	require.NoError(t, err)
	assert.Equal(t, 0, mem.Len())
}

func TestCatalogEventHandlerRejectsBadMessages(t *testing.T) {
	handler, mem := newHandler(t)

	err := handler(context.Background(), &interfaces.Message{ID: "m-2", Value: []byte("{broken")})
	assert.Error(t, err)

	err = handler(context.Background(), message(t, models.CatalogEvent{ID: "e-3", Type: "price_changed"}))
	assert.Error(t, err)

	assert.Equal(t, 3, mem.Len())
}
