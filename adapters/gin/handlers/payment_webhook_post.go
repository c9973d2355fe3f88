package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlePaymentWebhookPOST accepts payment webhooks as a pass-through
// stub. Signature verification and entitlement grants happen out of band.
func HandlePaymentWebhookPOST() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
