package services

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	eventmodels "github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
)

// CacheInvalidator evicts cached storefront data for catalog events.
type CacheInvalidator struct {
	products *ListProductService
	contexts *ContextService
	logger   interfaces.LoggerPort
}

// NewCacheInvalidator accepts a nil contexts service; the worker has none.
func NewCacheInvalidator(products *ListProductService, contexts *ContextService, logger interfaces.LoggerPort) *CacheInvalidator {
	return &CacheInvalidator{products: products, contexts: contexts, logger: logger}
}

// Handle evicts the variants of article events. Category changes move
// products between listings and facets, so they flush everything.
func (c *CacheInvalidator) Handle(ctx context.Context, event *eventmodels.CatalogEvent) error {
	start := time.Now()
	defer func() {
		invalidationDuration.WithLabelValues(string(event.Type)).Observe(time.Since(start).Seconds())
	}()

	switch event.Type {
	case eventmodels.ArticleCreated:
		// new numbers cannot be cached yet
		return nil
	case eventmodels.ArticleUpdated, eventmodels.ArticleDeleted:
		if err := c.products.Invalidate(ctx, event.Numbers); err != nil {
			return err
		}
	case eventmodels.CategoryCreated, eventmodels.CategoryUpdated, eventmodels.CategoryDeleted, eventmodels.CacheFlushed:
		if err := c.products.Flush(ctx); err != nil {
			return err
		}
		if event.Type == eventmodels.CacheFlushed && c.contexts != nil {
			c.contexts.Flush()
		}
	default:
		return fmt.Errorf("unsupported catalog event type %q", event.Type)
	}

	c.logger.InfoWithContext(ctx, "caches invalidated",
		interfaces.LogField{Key: "event", Value: string(event.Type)},
		interfaces.LogField{Key: "entity_id", Value: event.EntityID},
		interfaces.LogField{Key: "numbers", Value: len(event.Numbers)})
	return nil
}

// InvalidatingPublisher evicts the caches of the local process before the
// event is forwarded to the other instances.
type InvalidatingPublisher struct {
	next        EventPublisher
	invalidator *CacheInvalidator
	logger      interfaces.LoggerPort
}

func NewInvalidatingPublisher(next EventPublisher, invalidator *CacheInvalidator, logger interfaces.LoggerPort) *InvalidatingPublisher {
	return &InvalidatingPublisher{next: next, invalidator: invalidator, logger: logger}
}

func (p *InvalidatingPublisher) Publish(ctx context.Context, eventType eventmodels.CatalogEventType, entityID int, numbers []string) error {
	event := &eventmodels.CatalogEvent{
		Type:       eventType,
		EntityID:   entityID,
		Numbers:    numbers,
		OccurredAt: time.Now().UTC(),
	}
	if err := p.invalidator.Handle(ctx, event); err != nil {
		p.logger.WarnWithContext(ctx, "local cache invalidation failed",
			interfaces.LogField{Key: "event", Value: string(eventType)},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
	if p.next == nil {
		return nil
	}
	return p.next.Publish(ctx, eventType, entityID, numbers)
}
