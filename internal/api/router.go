package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/clublink/usersync/internal/api/handler"
	"github.com/clublink/usersync/internal/api/middleware"
	"github.com/clublink/usersync/internal/core/ports"
)

const DefaultPath = "/api/test-db"

// Options configures the sandbox router.
type Options struct {
	// Path is where the user resource is mounted. Defaults to DefaultPath.
	Path string
	// Registry receives HTTP metrics and backs /metrics. Nil uses the
	// Prometheus default registry.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc ports.UserService, store handler.Pinger, opts Options) *echo.Echo {
	path := opts.Path
	if path == "" {
		path = DefaultPath
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Logger)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "sandbox",
		Registerer: registerer,
	}))

	// --- Users ---
	users := handler.NewUserHandler(svc)
	e.GET(path, users.List)
	e.POST(path, users.Create)
	e.PUT(path, users.Update)
	e.DELETE(path, users.Delete)

	// --- Probes & metrics ---
	health := handler.NewHealthHandler(store)
	e.GET("/health", health.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", health.Readiness) // readiness – is the store reachable?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}
