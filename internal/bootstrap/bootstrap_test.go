package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/cache"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{AppName: "storefront-service", LogLevel: "info"}
	c.Security.JWTSecret = "secret"
	c.Security.JWTExpirationMin = time.Hour
	c.Cache.LocalSize = 8
	c.Cache.LocalTTL = time.Second
	c.Media.Adapter = "memory"
	c.Media.BaseURL = "https://cdn.example.com"
	c.Shop.MaxPurchase = 100
	return c
}

func TestNewProductCacheWithoutRedis(t *testing.T) {
	productCache, err := NewProductCache(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &cache.MemoryCache{}, productCache)
}

func TestNewAuthFallsBackToJWT(t *testing.T) {
	authPort, err := NewAuth(context.Background(), testConfig())
	require.NoError(t, err)
	assert.IsType(t, &security.JWTManager{}, authPort)

	c := testConfig()
	c.Security.JWTSecret = ""
	_, err = NewAuth(context.Background(), c)
	assert.ErrorIs(t, err, security.ErrEmptySecret)
}

func TestNewMediaAndConverter(t *testing.T) {
	c := testConfig()
	mediaService, err := NewMedia(c)
	require.NoError(t, err)

	url, ok := mediaService.GetURL("media/image/a.jpg")
	require.True(t, ok)
	assert.Contains(t, url, "https://cdn.example.com/media/image/")

	assert.NotNil(t, NewConverter(c, mediaService))
}
