package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhandler "carehub/internal/auth/handler"
	medhandler "carehub/internal/medication/handler"
	"carehub/internal/platform/health"
	"carehub/pkg/platform/middleware/auth"
	"carehub/pkg/platform/middleware/request"
	"carehub/pkg/platform/middleware/requesttime"
)

// Options configures the outer middleware stack.
type Options struct {
	CORSOrigins    []string
	BodyLimitBytes int64
	RequestTimeout time.Duration
}

// Routes are the handlers mounted by NewRouter. Metrics and Gatherer are optional.
type Routes struct {
	Auth        *authhandler.Handler
	Medications *medhandler.Handler
	Gate        *auth.Gate
	Health      *health.Handler
	Latency     *request.Metrics
	Gatherer    prometheus.Gatherer
}

// NewRouter wires all public endpoints with middleware.
func NewRouter(routes Routes, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.ClientIP)
	r.Use(requesttime.Middleware)
	r.Use(request.Logger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(request.Timeout(opts.RequestTimeout))
	}
	r.Use(request.BodyLimit(opts.BodyLimitBytes))
	r.Use(request.ContentTypeJSON)
	r.Use(request.LatencyMiddleware(routes.Latency, routePattern))

	if routes.Health != nil {
		routes.Health.Register(r)
	}
	if routes.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(routes.Gatherer, promhttp.HandlerOpts{}))
	}

	routes.Auth.Register(r, routes.Gate)
	routes.Medications.Register(r, routes.Gate)

	return r
}

// routePattern labels latency by chi route pattern so path ids do not explode
// label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
