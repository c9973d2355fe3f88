package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sharpeagle50/AI-Research-Assistant/adapters/ginutil"
	"github.com/sharpeagle50/AI-Research-Assistant/gateway"
)

func HandleRedeemCodePOST(gw *gateway.Gateway) gin.HandlerFunc {
	type redeemReq struct {
		Code string `json:"code"`
	}
	return func(c *gin.Context) {
		var req redeemReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid redeem code",
			})
			return
		}

		sess, err := gw.Redeem(c.Request.Context(), strings.TrimSpace(req.Code))
		if errors.Is(err, gateway.ErrInvalidCode) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"message": "Invalid redeem code",
			})
			return
		}
		if err != nil {
			ginutil.ServerErr(c, "Internal server error")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"plan":         sess.Plan,
			"sessionToken": sess.Token,
			"message":      "Admin access granted successfully!",
		})
	}
}
