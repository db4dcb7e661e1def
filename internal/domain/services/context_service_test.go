package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextService_AppliesDefaultsAndCaches(t *testing.T) {
	loader := &fakeContextLoader{}
	svc := NewContextService(loader, ContextDefaults{
		ShopID:                1,
		Currency:              "EUR",
		DefaultCustomerGroup:  "EK",
		FallbackCustomerGroup: "EK",
	}, time.Minute, logger.NewNop())
	ctx := context.Background()

	shopCtx, err := svc.Get(ctx, 0, "", "")
	require.NoError(t, err)
	assert.Equal(t, 1, shopCtx.Shop.ID)
	assert.Equal(t, "EUR", shopCtx.Currency.Currency)
	assert.Equal(t, "EK", shopCtx.CurrentCustomerGroup.Key)

	_, err = svc.Get(ctx, 1, "eur", "EK")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	_, err = svc.Get(ctx, 1, "EUR", "H")
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)

	svc.Flush()
	_, err = svc.Get(ctx, 1, "EUR", "EK")
	require.NoError(t, err)
	assert.Equal(t, 3, loader.calls)
}

func TestContextService_LoaderError(t *testing.T) {
	loader := &fakeContextLoader{err: errors.New("shop 9: entity not found")}
	svc := NewContextService(loader, ContextDefaults{ShopID: 1}, time.Minute, logger.NewNop())

	_, err := svc.Get(context.Background(), 9, "EUR", "EK")
	assert.Error(t, err)
}
