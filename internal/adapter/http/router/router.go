package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/karlgroves/openai-content-moderator/internal/adapter/http/handler"
	"github.com/karlgroves/openai-content-moderator/internal/adapter/http/middleware"
	"github.com/karlgroves/openai-content-moderator/internal/infrastructure/config"
	"github.com/karlgroves/openai-content-moderator/internal/usecase"
)

// Dependencies holds what the router wires into handlers
type Dependencies struct {
	Config       *config.Config
	ModerationUC usecase.ModerationUsecase
	ProviderIDs  []string
	Redis        *redis.Client
	Logger       *zap.Logger
}

// Setup creates and configures the Gin router
func Setup(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(middleware.Recovery(deps.Logger))
	router.Use(middleware.CORS(deps.Config.CORS.Origin))

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Redis, deps.ProviderIDs)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	moderationHandler := handler.NewModerationHandler(deps.ModerationUC, deps.Config.IsDevelopment())

	moderate := []gin.HandlerFunc{moderationHandler.ModerateText}
	if deps.Config.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(deps.Config.RateLimit.Requests, deps.Config.RateLimit.Window)
		moderate = append([]gin.HandlerFunc{limiter.Middleware()}, moderate...)
	}

	// API routes
	api := router.Group("/api/moderation")
	{
		api.POST("/text", moderate...)
		api.GET("/models", moderationHandler.ListModels)
	}

	// Legacy endpoint
	router.POST("/moderate", moderate...)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorBody{
			Error:   "Not found",
			Message: "The requested endpoint " + c.Request.URL.Path + " does not exist",
		})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorBody{Error: "Method not allowed"})
	})

	return router
}
