package handlers

import (
	"net/http"

	"github.com/asapbuyco-source/Katika-sub000/internal/game"
	"github.com/gin-gonic/gin"
)

// GetQueueStatus returns the number of players waiting per bucket
func GetQueueStatus(orch *game.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"queues":          orch.QueueDepths(),
			"active_sessions": orch.ActiveSessionCount(),
		})
	}
}

// GetSessionState returns the current snapshot for a live session
func GetSessionState(orch *game.Orchestrator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")
		snap := orch.SessionSnapshot(sessionID)
		if snap == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusOK, snap)
	}
}
