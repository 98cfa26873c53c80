package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m-mizutani/releasewatch/pkg/domain/interfaces"
)

// config holds internal HTTP server configuration
type config struct {
	addr     string
	gatherer prometheus.Gatherer
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithGatherer sets the registry exported on /metrics
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *config) {
		c.gatherer = g
	}
}

// Server exposes health and Prometheus metrics
type Server struct {
	*http.Server
}

// NewServer creates the metrics/health HTTP server
func NewServer(
	ctx context.Context,
	status interfaces.CycleStatus,
	opts ...Option,
) *Server {
	cfg := &config{
		addr:     ":9090",
		gatherer: prometheus.DefaultGatherer,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	router.Get("/health", newHealthHandler(status))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))

	return &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}
}
