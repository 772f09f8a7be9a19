package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Job is the polling pipeline invoked by the trigger endpoint
type Job func(ctx context.Context) error

// config holds internal HTTP server configuration
type config struct {
	addr string
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server exposing the health check and the
// on-demand run trigger
func NewServer(
	ctx context.Context,
	job Job,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", handleHealth)

	// On-demand run trigger
	trigger := NewTriggerHandler(job)
	router.Post("/run", trigger.Handle)

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
