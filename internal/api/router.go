package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/webcore/auth-system/internal/api/handler"
	"github.com/webcore/auth-system/internal/api/middleware"
	"github.com/webcore/auth-system/internal/core/ports"
	"github.com/webcore/auth-system/internal/core/service"
	"github.com/webcore/auth-system/internal/infrastructure/config"
	"github.com/webcore/auth-system/internal/infrastructure/db/postgres"
	redisdb "github.com/webcore/auth-system/internal/infrastructure/db/redis"
	"github.com/webcore/auth-system/internal/infrastructure/session"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// cache may be nil, in which case sessions are cached in process memory.
func NewRouter(db *sql.DB, cache *redisdb.SessionCache, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	hasher := service.NewBcryptHasher()

	var sessions ports.SessionCache
	if cache != nil {
		sessions = cache
	} else {
		sessions = session.NewMemoryCache()
	}

	authService := service.NewAuthService(userRepo, hasher, sessions, cfg.SessionTTL, log)

	// The identity strategy is selected once at startup; there is no
	// per-request switching.
	var resolver middleware.IdentityResolver
	var accessSecret []byte
	switch cfg.AuthType {
	case config.AuthTypeBasic:
		resolver = middleware.NewBasicStrategy(userRepo, hasher)
	case config.AuthTypeBearer:
		accessSecret = []byte(cfg.JWTSecret)
		resolver = middleware.NewBearerStrategy(userRepo, accessSecret)
	default:
		resolver = middleware.NewSessionStrategy(authService, cfg.SessionName)
	}
	e.Use(middleware.RequireAuth(resolver, cfg.ExemptPaths, cfg.SessionName))

	authHandler := handler.NewAuthHandler(authService, cfg.SessionName, cfg.SessionTTL, accessSecret)

	// --- Auth routes ---
	e.POST("/api/v1/users", authHandler.Register)
	e.POST("/api/v1/sessions", authHandler.Login)
	e.DELETE("/api/v1/sessions", authHandler.Logout)
	e.GET("/api/v1/profile", authHandler.Profile)
	e.POST("/api/v1/reset_password", authHandler.IssueResetToken)
	e.PUT("/api/v1/reset_password", authHandler.UpdatePassword)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, cache)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
