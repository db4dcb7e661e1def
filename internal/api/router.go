package api

import (
	"net/http"
	"time"

	_ "github.com/athebyme/gomarket-platform/storefront-service/internal/api/docs"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/api/handlers"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/api/middleware"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/auth"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers объединяет все обработчики роутера.
type Handlers struct {
	Articles     *handlers.ArticleHandler
	Categories   *handlers.CategoryHandler
	RiskRules    *handlers.RiskRuleHandler
	Translations *handlers.TranslationHandler
	Storefront   *handlers.StorefrontHandler
	Media        *handlers.MediaHandler
}

// Options задают параметры роутера.
type Options struct {
	CORSAllowedOrigins []string
	AdminRole          string
	RequestTimeout     time.Duration
	BodyLimitMB        int
	MetricsEnabled     bool
	HealthCheck        func(r *http.Request) error
}

// SetupRouter настраивает публичный storefront API и admin API,
// для которого нужен bearer токен с ролью администратора.
func SetupRouter(h Handlers, authPort interfaces.AuthPort, logger interfaces.LoggerPort, opts Options) *chi.Mux {
	r := chi.NewRouter()

	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.AdminRole == "" {
		opts.AdminRole = "admin"
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-Customer-Group"},
		ExposedHeaders:   []string{"Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.BodyLimit(opts.BodyLimitMB))

	health := func(w http.ResponseWriter, req *http.Request) {
		if opts.HealthCheck != nil {
			if err := opts.HealthCheck(req); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		if req.Method == http.MethodGet {
			_, _ = w.Write([]byte("OK"))
		}
	}
	r.Get("/health", health)
	r.Head("/health", health)

	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/storefront", func(r chi.Router) {
			r.Get("/listing", h.Storefront.Listing)
			r.Get("/listing/legacy", h.Storefront.LegacyListing)
			r.Get("/products/{number}", h.Storefront.Product)
			r.Get("/products/{number}/legacy", h.Storefront.LegacyProduct)
			r.Get("/categories/{id}/legacy", h.Storefront.LegacyCategory)
			r.Post("/payments/{paymentID}/risk", h.Storefront.Risk)
			r.Get("/media/*", h.Media.Resolve)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(authPort, logger))
			r.Use(auth.RequireRole(authPort, opts.AdminRole))

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", h.Articles.List)
				r.Post("/", h.Articles.Create)
				r.Put("/", h.Articles.Batch)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Articles.Get)
					r.Put("/", h.Articles.Update)
					r.Delete("/", h.Articles.Delete)
					r.Get("/history", h.Articles.History)
				})
			})

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", h.Categories.List)
				r.Post("/", h.Categories.Create)
				r.Put("/", h.Categories.Batch)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Categories.Get)
					r.Put("/", h.Categories.Update)
					r.Delete("/", h.Categories.Delete)
				})
			})

			r.Route("/payments/{paymentID}/rules", func(r chi.Router) {
				r.Get("/", h.RiskRules.List)
				r.Put("/", h.RiskRules.Replace)
			})

			r.Route("/translations/{type}/{id}/{shopID}", func(r chi.Router) {
				r.Get("/", h.Translations.Get)
				r.Put("/", h.Translations.Put)
				r.Delete("/", h.Translations.Delete)
			})
		})
	})

	return r
}
