package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports backend reachability.
type HealthChecker interface {
	GatewayHealthy(ctx context.Context) bool
	CoreHealthy(ctx context.Context) bool
}

// Health always answers 200; the backend flags say what is reachable.
func Health(checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "banking-ui",
			"gateway": checker.GatewayHealthy(ctx),
			"core":    checker.CoreHealthy(ctx),
		})
	}
}
