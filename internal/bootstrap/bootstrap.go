// Package bootstrap создает адаптеры и сервисы, общие для api, worker
// и утилиты командной строки, по загруженной конфигурации.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/cache"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/media"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/messaging"
	storage "github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/storage"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/storage/dbal"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/legacy"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/infrastructure/postgres"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/security"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/auth"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/tx"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewLogger(cfg *config.Config) (interfaces.LoggerPort, error) {
	return logger.NewZapLogger(cfg.LogLevel, cfg.IsProduction())
}

func NewPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	return postgres.NewPool(ctx, postgres.PoolConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		DBName:   cfg.Postgres.DBName,
		SSLMode:  cfg.Postgres.SSLMode,
		Timeout:  cfg.Postgres.Timeout,
		PoolSize: cfg.Postgres.PoolSize,
	})
}

func NewMedia(cfg *config.Config) (*media.Service, error) {
	if cfg.Media.Adapter == "memory" {
		return media.NewMemoryService(cfg.Media.BaseURL), nil
	}
	return media.NewLocalService(cfg.Media.Root, cfg.Media.BaseURL)
}

func NewRedis(ctx context.Context, cfg *config.Config) (*cache.RedisCache, error) {
	return cache.NewRedisCache(ctx, cache.RedisOptions{
		Host:            cfg.Redis.Host,
		Port:            cfg.Redis.Port,
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		MaxRetries:      cfg.Redis.MaxRetries,
		DialTimeout:     cfg.Redis.ConnectTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolTimeout:     cfg.Redis.PoolTimeout,
		IdleTimeout:     cfg.Redis.IdleTimeout,
		IdleCheckFreq:   cfg.Redis.IdleCheckFreq,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
	})
}

// NewProductCache возвращает кэш товаров с ценами: локальный LRU перед redis
// или только LRU, если redis выключен.
func NewProductCache(ctx context.Context, cfg *config.Config, log interfaces.LoggerPort) (interfaces.CachePort, error) {
	local, err := cache.NewMemoryCache(cfg.Cache.LocalSize)
	if err != nil {
		return nil, err
	}
	if !cfg.Redis.Enabled {
		log.Warn("Redis выключен, кэш товаров локален для процесса")
		return local, nil
	}

	shared, err := NewRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return cache.NewTieredCache(local, shared, cfg.Cache.LocalTTL, log), nil
}

func NewKafka(cfg *config.Config, log interfaces.LoggerPort) (*messaging.KafkaMessaging, error) {
	return messaging.NewKafkaMessaging(messaging.KafkaOptions{
		Brokers:           cfg.Kafka.Brokers,
		GroupID:           cfg.Kafka.GroupID,
		ClientID:          cfg.AppName,
		DeadLetterTopic:   cfg.Kafka.DeadLetterTopic,
		AutoOffsetReset:   cfg.Kafka.AutoOffsetReset,
		SessionTimeout:    cfg.Kafka.SessionTimeout,
		HeartbeatTimeout:  cfg.Kafka.HeartbeatTimeout,
		PollTimeout:       cfg.Kafka.PollTimeout,
		MaxRetries:        cfg.Kafka.MaxRetries,
		LingerMs:          cfg.Kafka.LingerMs,
		EnableIdempotence: cfg.Kafka.EnableIdempotence,
		CompressionType:   cfg.Kafka.CompressionType,
	}, log)
}

// NewAuth проверяет токены через keycloak, если он включен, и общим
// HMAC секретом иначе.
func NewAuth(ctx context.Context, cfg *config.Config) (interfaces.AuthPort, error) {
	if cfg.Security.Keycloak.Enabled {
		client, err := auth.NewKeycloakClient(ctx, cfg.Security.Keycloak.GetKeycloakConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to init keycloak: %w", err)
		}
		return client, nil
	}
	return NewJWTManager(cfg)
}

func NewJWTManager(cfg *config.Config) (*security.JWTManager, error) {
	return security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpirationMin, cfg.AppName)
}

func NewConverter(cfg *config.Config, resolver legacy.URLResolver) *legacy.Converter {
	return legacy.NewConverter(legacy.Config{
		BaseFile:                              cfg.Shop.BaseFile,
		MaxPurchase:                           cfg.Shop.MaxPurchase,
		CalculateCheapestPriceWithMinPurchase: cfg.Shop.CalculateCheapestPriceWithMinPurchase,
	}, resolver)
}

// Services - сценарии использования storefront.
type Services struct {
	Articles     *services.ArticleService
	Categories   *services.CategoryService
	Contexts     *services.ContextService
	Products     *services.ListProductService
	Search       *services.SearchService
	Risk         *services.RiskService
	Translations *services.TranslationService
	Invalidator  *services.CacheInvalidator
	Publisher    services.EventPublisher
	TxManager    tx.TxManager
	NumberSearch *dbal.ProductNumberSearch
}

// NewServices собирает сервисы поверх store. Запись через admin API очищает
// кэши текущего процесса до отправки события в publisher.
func NewServices(
	cfg *config.Config,
	pool *pgxpool.Pool,
	store *storage.Storage,
	productCache interfaces.CachePort,
	publisher services.EventPublisher,
	log interfaces.LoggerPort,
) *Services {
	s := &Services{
		TxManager:    tx.NewTxManager(pool, log),
		NumberSearch: dbal.NewProductNumberSearch(pool, cfg.Shop.RootCategoryID),
	}

	s.Contexts = services.NewContextService(store, services.ContextDefaults{
		ShopID:                cfg.Shop.ID,
		Currency:              cfg.Shop.Currency,
		DefaultCustomerGroup:  cfg.Shop.DefaultCustomerGroup,
		FallbackCustomerGroup: cfg.Shop.FallbackCustomerGroup,
	}, cfg.Cache.ContextTTL, log)

	s.Products = services.NewListProductService(
		store,
		pricing.NewService(pricing.NewCalculator()),
		productCache,
		cfg.Cache.ListProductTTL,
		services.MarketingConfig{
			MarkAsNewDays:  cfg.Shop.MarkAsNewDays,
			TopSellerSales: cfg.Shop.TopSellerSales,
		},
		log,
	)
	s.Search = services.NewSearchService(s.NumberSearch, s.Products, log)
	s.Invalidator = services.NewCacheInvalidator(s.Products, s.Contexts, log)
	s.Publisher = services.NewInvalidatingPublisher(publisher, s.Invalidator, log)

	s.Articles = services.NewArticleService(store, s.TxManager, s.Publisher, log)
	s.Categories = services.NewCategoryService(store, s.TxManager, s.Publisher, log)
	s.Risk = services.NewRiskService(store, risk.NewEvaluator(log), log)
	s.Translations = services.NewTranslationService(store, s.Publisher, log)
	return s
}
