package main

import (
	"context"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/messaging"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/models"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the storefront caches",
}

var cacheFlushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Drop every cached list product",
	Long: `Drop every cached list product from redis and announce the flush on the
catalog topic so running instances also clear their local tiers and shop
contexts.`,
	RunE: runCacheFlush,
}

func runCacheFlush(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var shared interfaces.CachePort
	if cfg.Redis.Enabled {
		redisCache, err := bootstrap.NewRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		shared = redisCache
	}

	var publisher services.EventPublisher = messaging.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaClient, err := bootstrap.NewKafka(cfg, logger)
		if err != nil {
			return err
		}
		defer kafkaClient.Close()
		publisher = messaging.NewCatalogPublisher(kafkaClient, cfg.Kafka.CatalogTopic)
	}

	if err := flushCaches(ctx, shared, publisher, logger); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "caches flushed")
	return nil
}

// flushCaches очищает shared (может быть nil) и публикует CacheFlushed.
func flushCaches(ctx context.Context, shared interfaces.CachePort, publisher services.EventPublisher, log interfaces.LoggerPort) error {
	products := services.NewListProductService(nil, nil, shared, 0, services.MarketingConfig{}, log)
	if err := products.Flush(ctx); err != nil {
		return err
	}
	if err := publisher.Publish(ctx, models.CacheFlushed, 0, nil); err != nil {
		return fmt.Errorf("failed to publish cache flush: %w", err)
	}
	return nil
}
