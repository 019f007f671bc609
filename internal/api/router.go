package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rolegate/auth-api/internal/api/handler"
	"github.com/rolegate/auth-api/internal/api/middleware"
	"github.com/rolegate/auth-api/internal/auth"
	"github.com/rolegate/auth-api/internal/core/domain"
	"github.com/rolegate/auth-api/internal/core/service"
	mongodb "github.com/rolegate/auth-api/internal/infrastructure/db/mongo"
	redisdb "github.com/rolegate/auth-api/internal/infrastructure/db/redis"
)

// Options carries the auth tunables the router wires into its components.
type Options struct {
	JWTSecret        string
	TokenTTL         time.Duration
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, log zerolog.Logger, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("authapi"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	tokenIssuer := auth.NewIssuer(opts.JWTSecret, opts.TokenTTL)
	throttle := redisdb.NewLoginThrottle(rdb, opts.LoginMaxAttempts, opts.LoginWindow)
	authService := service.NewAuthService(userRepo, tokenIssuer, throttle, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)
	authMiddleware := middleware.Auth(tokenIssuer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware, middleware.RBAC())

	// --- Role-gated routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", userHandler.ListUsers)

	moderator := e.Group("/moderator", authMiddleware, middleware.RBAC(domain.RoleModerator))
	moderator.GET("/users", userHandler.ListUsers)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
