package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/forhonor-db/internal/database"
)

// HealthHandler handles health check requests
func HealthHandler(gw *database.Gateway, conn *database.Conn) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gw.Ping(conn); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
		})
	}
}
