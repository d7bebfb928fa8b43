// Package handler exposes the marketplace over HTTP: chi routes under /api,
// bearer authentication and the operational endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/boddenberg/rentease-api-go/internal/infra/observability"
	"github.com/boddenberg/rentease-api-go/internal/infra/resilience"
	"github.com/boddenberg/rentease-api-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services bundles the use cases served by the router.
type Services struct {
	Properties *service.PropertyService
	Rentals    *service.RentalService
	Saved      *service.SavedService
	Contact    *service.ContactService
	Auth       *service.AuthService
}

// Probe is a dependency check reported by /healthz.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// RouterConfig carries the HTTP policies.
type RouterConfig struct {
	// Backend names the active store in /healthz.
	Backend string
	// Production restricts CORS to AllowedOrigins; otherwise any origin passes.
	Production     bool
	AllowedOrigins []string
	// MaxConcurrency bounds in-flight /api requests.
	MaxConcurrency int
	Probes         []Probe
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, cfg RouterConfig, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(observability.TracingMiddleware)
	r.Use(recoverer(logger))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(corsHandler(cfg))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Endpoint not found")
	})

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(cfg.Backend, cfg.Probes, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- API ---
	r.Route("/api", func(r chi.Router) {
		r.Use(bulkhead.Middleware(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("bulkhead full, request rejected", zap.String("path", r.URL.Path))
			writeError(w, http.StatusServiceUnavailable, "Server is busy, please retry")
		}))

		r.Get("/health", apiHealthHandler())

		requireUser := RequireUser(svc.Auth, logger)

		// Auth
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", signUpHandler(svc.Auth, logger))
			r.Post("/signin", signInHandler(svc.Auth, logger))
			r.Group(func(r chi.Router) {
				r.Use(requireUser)
				r.Get("/me", meHandler(logger))
				r.Post("/signout", signOutHandler(svc.Auth, logger))
			})
		})

		// Properties
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", listPropertiesHandler(svc.Properties, logger))
			r.Get("/featured", featuredPropertiesHandler(svc.Properties, logger))
			r.Get("/{id}", getPropertyHandler(svc.Properties, logger))
			r.With(requireUser).Post("/", createPropertyHandler(svc.Properties, logger))
		})

		// Rentals
		r.Route("/rentals", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", listRentalsHandler(svc.Rentals, logger))
			r.Post("/", createRentalHandler(svc.Rentals, logger))
			r.Patch("/{id}", updateRentalHandler(svc.Rentals, logger))
		})

		// Saved properties
		r.Route("/saved", func(r chi.Router) {
			r.Use(requireUser)
			r.Get("/", listSavedHandler(svc.Saved, logger))
			r.Get("/check/{propertyId}", checkSavedHandler(svc.Saved, logger))
			r.Post("/", saveHandler(svc.Saved, logger))
			r.Delete("/{propertyId}", unsaveHandler(svc.Saved, logger))
		})

		// Contact
		r.Post("/contact", contactHandler(svc.Contact, logger))
	})

	return r
}

func corsHandler(cfg RouterConfig) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		allowed[o] = true
	}
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return !cfg.Production || allowed[origin]
		},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           int((10 * time.Minute).Seconds()),
	})
}
