package router

import (
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/training/practice/internal/config"
	"github.com/training/practice/internal/handler"
	"github.com/training/practice/internal/middleware"
	"github.com/training/practice/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	User    *handler.UserHandler
	Subject *handler.SubjectHandler
	Postman *handler.PostmanHandler
	Config  *handler.ConfigHandler
	Health  *handler.HealthHandler
}

// Options carries the shared runtime state the middleware chain needs.
type Options struct {
	Log            zerolog.Logger
	LoggingEnabled *atomic.Bool
	// ExternalLimiter throttles /api/external. Nil disables throttling.
	ExternalLimiter *middleware.RateLimiter
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config, opts Options) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	if len(cfg.AllowedMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowedMethods
	}
	corsConfig.AllowHeaders = []string{
		"Origin", "Content-Type", "Authorization",
		response.HeaderRequestID, middleware.HeaderClientVersion, "X-Confirm-Delete",
	}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope can read it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(opts.Log, opts.LoggingEnabled))
	router.Use(middleware.Brotli())

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", handlers.Health.Health)

	api := router.Group("/api")
	api.Use(middleware.NoStore())

	// ─── 1. Users ──────────────────────────────────────────────────────
	users := api.Group("/users")
	{
		users.POST("", handlers.User.Create)
		users.GET("", handlers.User.List)
		users.GET("/search", handlers.User.Search)
		users.GET("/department", handlers.User.ListByDepartment)
		users.GET("/department/:department/status/:status", handlers.User.ListByDepartmentAndStatus)
		users.GET("/status/:status", handlers.User.ListByStatus)
		users.GET("/stats/count", handlers.User.CountByStatus)
		users.GET("/v2/:id", handlers.User.GetByIDV2)
		users.GET("/:id", handlers.User.GetByID)
		users.PUT("/:id", handlers.User.Update)
		users.PATCH("/:id/status", handlers.User.UpdateStatus)
		users.PATCH("/:id/subject", handlers.User.AddSubject)
		users.DELETE("/:id", handlers.User.Delete)
	}

	// ─── 2. Subjects ───────────────────────────────────────────────────
	subjects := api.Group("/subjects")
	{
		subjects.GET("", handlers.Subject.List)
		subjects.GET("/search", handlers.Subject.Search)
		subjects.GET("/code/:code", handlers.Subject.ListByCode)
		subjects.GET("/:id", handlers.Subject.GetByID)
		subjects.PUT("/:id", handlers.Subject.Update)
		subjects.PATCH("/:id", handlers.Subject.Update)
		subjects.DELETE("/:id", handlers.Subject.Delete)
	}

	// ─── 3. External (Rate Limited) ────────────────────────────────────
	external := api.Group("/external")
	if opts.ExternalLimiter != nil {
		external.Use(opts.ExternalLimiter.Middleware())
	}
	postman := external.Group("/postman/users")
	{
		postman.GET("", handlers.Postman.ListUsers)
		postman.POST("", handlers.Postman.CreateUser)
		postman.GET("/by-role", handlers.Postman.ListUsersByRole)
		postman.GET("/:id", handlers.Postman.GetUser)
		postman.PUT("/:id", handlers.Postman.UpdateUser)
		postman.PATCH("/:id", handlers.Postman.PatchUser)
		postman.DELETE("/:id", handlers.Postman.DeleteUser)
		postman.GET("/:id/permissions", handlers.Postman.GetUserPermissions)
		postman.POST("/:id/roles", handlers.Postman.AssignRole)
	}

	// ─── 4. Config ─────────────────────────────────────────────────────
	cfgGroup := api.Group("/config")
	{
		cfgGroup.GET("/features", handlers.Config.GetFeatures)
		cfgGroup.POST("/features/logging", handlers.Config.ToggleLogging)
	}

	return router
}
