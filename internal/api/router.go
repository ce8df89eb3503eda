package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/walletreg/accounts-api/docs"
	"github.com/walletreg/accounts-api/internal/api/handler"
	"github.com/walletreg/accounts-api/internal/api/middleware"
	"github.com/walletreg/accounts-api/internal/core/ports"
	"github.com/walletreg/accounts-api/internal/pkg/config"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Accounts  ports.AccountService
	Tokens    middleware.TokenParser
	Readiness *handler.HealthDependenciesHandler
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// HTTP metrics get their own registry so building several routers in one
	// process does not register the same collectors twice.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSOrigins,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
	}))

	accountHandler := handler.NewAccountHandler(deps.Accounts, log)
	limit := middleware.RateLimit(cfg.HTTP.RateLimitRPS)

	// --- Account routes ---
	e.POST("/accounts", accountHandler.Register, limit)
	e.GET("/accounts", accountHandler.List)
	e.POST("/accounts/nonce", accountHandler.Nonce, limit)
	e.GET("/accounts/me", accountHandler.Me, middleware.Auth(deps.Tokens))

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	if deps.Readiness != nil {
		e.GET("/health/ready", deps.Readiness.Readiness)
	}

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
