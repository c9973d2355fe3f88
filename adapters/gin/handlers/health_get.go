package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func HandleHealthGET() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
