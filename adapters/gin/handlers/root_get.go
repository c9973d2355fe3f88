package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleRootGET serves the API information envelope.
func HandleRootGET(version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "Research Assistant Pro API",
			"version": version,
			"status":  "running",
			"endpoints": gin.H{
				"health":             "/health",
				"verifySubscription": "/api/verify-subscription",
				"redeemCode":         "/api/redeem-code",
				"aiRequest":          "/api/ai-request",
			},
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
