package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/patrickmn/go-cache"
)

// ContextLoader builds a shop context from storage.
type ContextLoader interface {
	ShopContext(ctx context.Context, shopID int, currencyISO, groupKey, fallbackKey string) (*models.ShopContext, error)
}

// ContextDefaults fill the parts of a context request left empty.
type ContextDefaults struct {
	ShopID                int
	Currency              string
	DefaultCustomerGroup  string
	FallbackCustomerGroup string
}

// ContextService hands out shop contexts, keeping them in process for ttl.
type ContextService struct {
	loader   ContextLoader
	defaults ContextDefaults
	contexts *cache.Cache
	logger   interfaces.LoggerPort
}

func NewContextService(loader ContextLoader, defaults ContextDefaults, ttl time.Duration, logger interfaces.LoggerPort) *ContextService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ContextService{
		loader:   loader,
		defaults: defaults,
		contexts: cache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// Get returns the context for the shop, currency and customer group. Zero
// values fall back to the configured defaults.
func (s *ContextService) Get(ctx context.Context, shopID int, currencyISO, groupKey string) (*models.ShopContext, error) {
	if shopID <= 0 {
		shopID = s.defaults.ShopID
	}
	currencyISO = strings.ToUpper(strings.TrimSpace(currencyISO))
	if currencyISO == "" {
		currencyISO = s.defaults.Currency
	}
	if groupKey == "" {
		groupKey = s.defaults.DefaultCustomerGroup
	}
	fallbackKey := s.defaults.FallbackCustomerGroup

	key := strconv.Itoa(shopID) + ":" + currencyISO + ":" + groupKey + ":" + fallbackKey
	if cached, ok := s.contexts.Get(key); ok {
		return cached.(*models.ShopContext), nil
	}

	shopCtx, err := s.loader.ShopContext(ctx, shopID, currencyISO, groupKey, fallbackKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop context: %w", err)
	}
	s.contexts.SetDefault(key, shopCtx)

	s.logger.DebugWithContext(ctx, "shop context loaded", interfaces.LogField{Key: "context", Value: shopCtx.CacheKey()})
	return shopCtx, nil
}

// Flush forgets every cached context.
func (s *ContextService) Flush() {
	s.contexts.Flush()
}
