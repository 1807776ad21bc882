package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/http/handler"
	"github.com/ressKim-io/hatecheck/internal/adapter/http/middleware"
	"github.com/ressKim-io/hatecheck/internal/domain/service"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

// Setup creates and configures the Gin router
func Setup(sessionUC usecase.SessionUsecase, classifier service.HealthChecker, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	router.SetHTMLTemplate(handler.PageTemplates())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(classifier)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Page routes
	pageHandler := handler.NewPageHandler(sessionUC, logger)
	router.GET("/", pageHandler.Index)
	router.POST("/submit", pageHandler.Submit)
	router.POST("/reset", pageHandler.Reset)

	sessionHandler := handler.NewSessionHandler(sessionUC)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", sessionHandler.CreateSession)
			sessions.GET("/:id", sessionHandler.GetSession)
			sessions.PUT("/:id/input", sessionHandler.SetInput)
			sessions.POST("/:id/submit", sessionHandler.Submit)
			sessions.POST("/:id/reset", sessionHandler.Reset)
			sessions.DELETE("/:id", sessionHandler.DeleteSession)
		}
	}

	return router
}
