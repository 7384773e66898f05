package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Balerman2/CallShift/internal/infra/config"
	"github.com/Balerman2/CallShift/internal/infra/security"
	"github.com/Balerman2/CallShift/internal/transport/http/handlers"
	"github.com/Balerman2/CallShift/internal/transport/http/middleware"
	"github.com/Balerman2/CallShift/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Assignments *usecase.AssignmentService
	OnCall      *usecase.OnCallService
	Users       *usecase.UserService
	Audit       *usecase.AuditService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	AdminTokens *security.AdminTokenManager
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		deps.Logger.Warn("failed to register http metrics collectors", zap.Error(err))
	} else {
		r.Use(httpMetrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("postgres", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}

	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Assignments, deps.Logger)
	oncallHandler := handlers.NewOnCallHandler(deps.Services.OnCall, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Logger)
	auditHandler := handlers.NewAuditHandler(deps.Services.Audit, deps.Logger)
	tokenHandler := handlers.NewTokenHandler(deps.Config.Admin, deps.AdminTokens, deps.Logger)

	authenticateMiddlewares := buildAuthenticateMiddlewares(deps)
	authenticateChain := append([]gin.HandlerFunc{}, authenticateMiddlewares...)
	authenticateChain = append(authenticateChain, authHandler.Authenticate)
	r.POST("/authenticate", authenticateChain...)

	adminAuth := middleware.RequireAdmin(deps.AdminTokens)

	api := r.Group("/api")
	{
		api.GET("/oncall", oncallHandler.Current)
		api.POST("/token", tokenHandler.Issue)
		api.GET("/users", adminAuth, userHandler.List)
		api.POST("/users", adminAuth, userHandler.Create)
	}

	admin := r.Group("/admin")
	admin.Use(adminAuth)
	{
		admin.GET("/users", userHandler.List)
		admin.PATCH("/users/:id", userHandler.Update)
		admin.GET("/audit", auditHandler.Recent)
	}

	return r
}

func buildAuthenticateMiddlewares(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	limit := deps.Config.RateLimit.AuthenticateMaxAttempts
	if limit <= 0 {
		return nil
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		return nil
	}

	rule := middleware.RateLimitRule{
		Name:       "authenticate_ip",
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule)}
}
