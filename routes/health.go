package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"medmind-server/repository"
)

const healthPingTimeout = 2 * time.Second

func healthCheck(store repository.Pinger, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "connected"
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if store == nil || store.Ping(ctx) != nil {
			status = "disconnected"
		}

		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   "MedMind API is running",
			"version":   version,
			"database":  status,
			"timestamp": time.Now().UTC(),
		})
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"message": "Route " + c.Request.URL.Path + " not found",
		"path":    c.Request.URL.Path,
	})
}
