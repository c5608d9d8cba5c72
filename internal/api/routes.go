package api

import (
	"github.com/asapbuyco-source/Katika-sub000/internal/api/handlers"
	"github.com/asapbuyco-source/Katika-sub000/internal/config"
	"github.com/asapbuyco-source/Katika-sub000/internal/game"
	"github.com/asapbuyco-source/Katika-sub000/internal/middleware"
	"github.com/asapbuyco-source/Katika-sub000/internal/ws"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, hub *ws.Hub, orch *game.Orchestrator, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		v1.GET("/ws", hub.HandleWebSocket)

		matches := v1.Group("/match")
		{
			matches.GET("/queue/status", handlers.GetQueueStatus(orch))
			matches.GET("/session/:id", handlers.GetSessionState(orch))
		}
	}
}
