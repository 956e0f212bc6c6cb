package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
)

// Options configure the HTTP router.
type Options struct {
	Logger  *slog.Logger
	Tokens  TokenParser
	Metrics *Metrics
	// RateLimit of zero disables throttling.
	RateLimit float64
	RateBurst int
	Version   string
}

// NewRouter assembles the middleware stack, the operational endpoints and
// the authenticated API.
func NewRouter(svc Services, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics("agencyhub")
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(otelchi.Middleware("agencyhub", otelchi.WithChiRoutes(router)))
	router.Use(RequestLogger(logger))
	router.Use(metrics.Middleware)
	router.Use(middleware.Recoverer)
	if opts.RateLimit > 0 {
		router.Use(NewRateLimiter(opts.RateLimit, opts.RateBurst, "/healthz", "/metrics").Middleware)
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	config := huma.DefaultConfig("agencyhub", version)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
	}
	config.Security = []map[string][]string{{"bearer": {}}}

	api := humachi.New(router, config)
	api.UseMiddleware(Authenticate(api, opts.Tokens))
	Register(api, svc)

	return router
}
