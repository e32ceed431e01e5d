package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/olla-del-barrio/dish-sync/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, serviceToken string) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/healthz", handler.HealthCheck)

	v1 := router.Group("/v1")
	{
		v1.GET("/sync/status", handler.GetSyncStatus)
		v1.POST("/sync", middleware.ServiceTokenAuth(serviceToken), handler.TriggerSync)
		v1.GET("/dishes/:id", middleware.ServiceTokenAuth(serviceToken), handler.GetDish)
	}
}
