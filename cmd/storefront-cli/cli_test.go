package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/cache"
	logadapter "github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{AppName: "storefront-service"}
	c.Security.JWTSecret = "cli-secret"
	c.Security.JWTExpirationMin = time.Hour
	c.Security.AdminRole = "shop_admin"
	return c
}

func TestIssueToken(t *testing.T) {
	c := testConfig()
	var out bytes.Buffer

	require.NoError(t, issueToken(&out, c, " jdoe ", nil))

	manager, err := bootstrap.NewJWTManager(c)
	require.NoError(t, err)
	principal, err := manager.ValidateToken(context.Background(), strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "jdoe", principal.Username)
	assert.Equal(t, []string{"shop_admin"}, principal.Roles)
}

func TestIssueTokenRejects(t *testing.T) {
	c := testConfig()
	var out bytes.Buffer

	assert.Error(t, issueToken(&out, c, "  ", nil))

	c.Security.Keycloak.Enabled = true
	assert.Error(t, issueToken(&out, c, "jdoe", nil))
	assert.Empty(t, out.String())
}

type recordingPublisher struct {
	types []models.CatalogEventType
	err   error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType models.CatalogEventType, _ int, _ []string) error {
	p.types = append(p.types, eventType)
	return p.err
}

func TestFlushCaches(t *testing.T) {
	ctx := context.Background()
	mem, err := cache.NewMemoryCache(8)
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, "list_product:1:EUR:EK:SW1", []byte("x"), 0))
	require.NoError(t, mem.Set(ctx, "context:1", []byte("y"), 0))

	publisher := &recordingPublisher{}
	require.NoError(t, flushCaches(ctx, mem, publisher, logadapter.NewNop()))

	assert.Equal(t, 1, mem.Len())
	assert.Equal(t, []models.CatalogEventType{models.CacheFlushed}, publisher.types)
}

func TestFlushCachesWithoutRedis(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}

	err := flushCaches(context.Background(), nil, publisher, logadapter.NewNop())
	assert.ErrorContains(t, err, "broker down")
}
