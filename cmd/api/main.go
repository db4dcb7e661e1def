package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/messaging"
	storage "github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/storage"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/api"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/api/handlers"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
)

// @title        Storefront Service API
// @version      1.0
// @description  Storefront search, pricing and catalog administration.
// @BasePath     /
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := bootstrap.NewLogger(cfg)
	if err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
		os.Exit(1)
	}
	log.Info("Запуск storefront api",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	pool, err := bootstrap.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal("Ошибка подключения к postgres", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer pool.Close()

	store, err := storage.NewStorage(ctx, pool)
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища", interfaces.LogField{Key: "error", Value: err.Error()})
	}

	mediaService, err := bootstrap.NewMedia(cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации медиа", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	store.SetMediaResolver(mediaService)
	log.Info("Хранилище инициализировано", interfaces.LogField{Key: "media_adapter", Value: cfg.Media.Adapter})

	productCache, err := bootstrap.NewProductCache(ctx, cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации кэша", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer productCache.Close()

	var publisher services.EventPublisher = messaging.NopPublisher{}
	var kafkaClient *messaging.KafkaMessaging
	if cfg.Kafka.Enabled {
		kafkaClient, err = bootstrap.NewKafka(cfg, log)
		if err != nil {
			log.Fatal("Ошибка инициализации kafka", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		publisher = messaging.NewCatalogPublisher(kafkaClient, cfg.Kafka.CatalogTopic)
		log.Info("События каталога включены", interfaces.LogField{Key: "topic", Value: cfg.Kafka.CatalogTopic})
	} else {
		log.Warn("Kafka выключена, другие экземпляры не увидят очистку кэша")
	}

	svc := bootstrap.NewServices(cfg, pool, store, productCache, publisher, log)

	authPort, err := bootstrap.NewAuth(ctx, cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации аутентификации", interfaces.LogField{Key: "error", Value: err.Error()})
	}

	router := api.SetupRouter(api.Handlers{
		Articles:     handlers.NewArticleHandler(svc.Articles, log),
		Categories:   handlers.NewCategoryHandler(svc.Categories, log),
		RiskRules:    handlers.NewRiskRuleHandler(svc.Risk, log),
		Translations: handlers.NewTranslationHandler(svc.Translations, log),
		Storefront: handlers.NewStorefrontHandler(
			svc.Contexts,
			svc.Search,
			svc.Products,
			svc.Categories,
			svc.Risk,
			bootstrap.NewConverter(cfg, mediaService),
			log,
		),
		Media: handlers.NewMediaHandler(mediaService, log),
	}, authPort, log, api.Options{
		CORSAllowedOrigins: cfg.Security.CORSAllowOrigins,
		AdminRole:          cfg.Security.AdminRole,
		RequestTimeout:     cfg.Server.WriteTimeout,
		BodyLimitMB:        cfg.Server.BodyLimit,
		MetricsEnabled:     cfg.Metrics.Enabled,
		HealthCheck: func(r *http.Request) error {
			return store.Ping(r.Context())
		},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Сервер запущен", interfaces.LogField{Key: "address", Value: server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Ошибка сервера", interfaces.LogField{Key: "error", Value: err.Error()})
		}
	}()

	go func() {
		<-quit
		log.Info("Получен сигнал завершения")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("Ошибка graceful shutdown", interfaces.LogField{Key: "error", Value: err.Error()})
		}
		log.Info("HTTP сервер остановлен")

		if kafkaClient != nil {
			if err := kafkaClient.Close(); err != nil {
				log.Error("Ошибка закрытия kafka", interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}
		cancel()
		close(done)
	}()

	<-done
	log.Info("Storefront api остановлен")
}
