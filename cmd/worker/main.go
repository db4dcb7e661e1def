package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/config"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/messaging"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/bootstrap"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/services"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	eventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_worker_events_total",
		Help: "Catalog events handled by the worker",
	}, []string{"type", "status"})

	activeWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_worker_active_handlers",
		Help: "Catalog events currently being handled",
	})
)

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
	log.Info("Запуск worker очистки кэша",
		interfaces.LogField{Key: "app_name", Value: cfg.AppName + "-worker"},
		interfaces.LogField{Key: "version", Value: cfg.Version},
		interfaces.LogField{Key: "env", Value: cfg.ENV},
	)

	if !cfg.Kafka.Enabled || !cfg.Redis.Enabled {
		log.Fatal("Для worker должны быть включены kafka и redis")
	}

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte("OK"))
			})

			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			log.Info("Сервер метрик запущен", interfaces.LogField{Key: "addr", Value: addr})
			if err := http.ListenAndServe(addr, mux); err != nil {
				log.Error("Ошибка сервера метрик", interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()
	}

	shared, err := bootstrap.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации redis", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer shared.Close()

	kafkaClient, err := bootstrap.NewKafka(cfg, log)
	if err != nil {
		log.Fatal("Ошибка инициализации kafka", interfaces.LogField{Key: "error", Value: err.Error()})
	}
	defer kafkaClient.Close()

	// здесь используется только кэш сервиса товаров
	products := services.NewListProductService(nil, nil, shared, cfg.Cache.ListProductTTL, services.MarketingConfig{}, log)
	invalidator := services.NewCacheInvalidator(products, nil, log)

	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup
	subscribeToCatalogEvents(ctx, kafkaClient, cfg.Kafka.CatalogTopic, invalidator, log, &wg)

	go func() {
		<-quit
		log.Info("Получен сигнал завершения")
		cancel()
		wg.Wait()
		close(done)
	}()

	log.Info("Worker обрабатывает события каталога", interfaces.LogField{Key: "topic", Value: cfg.Kafka.CatalogTopic})
	<-done
	log.Info("Worker остановлен")
}

// catalogEventHandler очищает общий кэш для каждого события каталога.
// При ошибке сообщение уходит в dead letter топик.
func catalogEventHandler(invalidator *services.CacheInvalidator, logger interfaces.LoggerPort) interfaces.MessageHandler {
	return func(ctx context.Context, msg *interfaces.Message) error {
		activeWorkers.Inc()
		defer activeWorkers.Dec()

		event, err := messaging.DecodeCatalogEvent(msg)
		if err != nil {
			eventsProcessed.WithLabelValues("unknown", "invalid").Inc()
			return err
		}

		start := time.Now()
		if err := invalidator.Handle(ctx, event); err != nil {
			eventsProcessed.WithLabelValues(string(event.Type), "failed").Inc()
			return err
		}
		eventsProcessed.WithLabelValues(string(event.Type), "ok").Inc()

		logger.DebugWithContext(ctx, "catalog event handled",
			interfaces.LogField{Key: "event_id", Value: event.ID},
			interfaces.LogField{Key: "message_id", Value: msg.ID},
			interfaces.LogField{Key: "duration", Value: time.Since(start).Seconds()},
		)
		return nil
	}
}

func subscribeToCatalogEvents(ctx context.Context, messagingClient interfaces.MessagingPort, topic string,
	invalidator *services.CacheInvalidator, logger interfaces.LoggerPort, wg *sync.WaitGroup) {

	wg.Add(1)
	go func() {
		defer wg.Done()

		unsubscribe, err := messagingClient.Subscribe(ctx, topic, catalogEventHandler(invalidator, logger))
		if err != nil {
			logger.Error("Ошибка подписки на события каталога",
				interfaces.LogField{Key: "topic", Value: topic},
				interfaces.LogField{Key: "error", Value: err.Error()})
			return
		}
		defer func() {
			if err := unsubscribe(); err != nil {
				logger.Warn("Ошибка остановки потребителя", interfaces.LogField{Key: "error", Value: err.Error()})
			}
		}()

		logger.Info("Подписка на события каталога установлена", interfaces.LogField{Key: "topic", Value: topic})
		<-ctx.Done()
	}()
}
