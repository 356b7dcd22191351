package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/kailas-cloud/laptopmatch/internal/metrics"
)

// APIPrefix is the mount point of the versioned API.
const APIPrefix = "/api/v1"

// RouterConfig holds cross-cutting HTTP settings.
type RouterConfig struct {
	APIKeys        []string
	AllowedOrigins []string
	// GenerationPerMinute limits AI routes per client IP. Zero disables the limit.
	GenerationPerMinute int
}

// NewRouter mounts the API with its middleware stack.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Generation-Tokens", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/recommendations", s.Recommend)
		r.Get("/laptops", s.ListLaptops)
		r.Get("/laptops/{id}", s.GetLaptop)
		r.Get("/deals", s.Deals)
		r.Post("/comparisons", s.Compare)

		r.Group(func(r chi.Router) {
			r.Use(generationRateLimit(cfg.GenerationPerMinute))
			r.Post("/laptops/{id}/story", s.Story)
			r.Post("/laptops/{id}/compatibility", s.Compatibility)
			r.Post("/speech", s.Speech)
		})

		r.Post("/sessions", s.CreateSession)
		r.Route("/sessions/{session}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/starred/{id}", s.Star)
			r.Delete("/starred/{id}", s.Unstar)
			r.Put("/notes/{id}", s.SetNote)
			r.Get("/comparison", s.SessionComparison)
			r.Put("/comparison/{id}", s.AddToComparison)
			r.Delete("/comparison/{id}", s.RemoveFromComparison)
		})

		r.Get("/usage", s.GetUsage)
		r.Post("/admin/catalog/reload", s.ReloadCatalog)
	})

	return r
}

// generationRateLimit caps AI calls per client IP. A zero limit is a no-op.
func generationRateLimit(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limited")
		}),
	)
}
