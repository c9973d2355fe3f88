package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sharpeagle50/AI-Research-Assistant/adapters/ginutil"
	"github.com/sharpeagle50/AI-Research-Assistant/entitlement"
	"github.com/sharpeagle50/AI-Research-Assistant/gateway"
)

func HandleVerifySubscriptionPOST(gw *gateway.Gateway) gin.HandlerFunc {
	type verifyReq struct {
		SessionToken string `json:"sessionToken"`
		UserPlan     string `json:"userPlan"`
	}
	return func(c *gin.Context) {
		var req verifyReq
		if err := c.ShouldBindJSON(&req); err != nil {
			ginutil.BadRequest(c, "invalid_request")
			return
		}

		// UserPlan is accepted for wire compatibility but never trusted;
		// the stored session decides.
		sess, ok, err := gw.Verify(c.Request.Context(), strings.TrimSpace(req.SessionToken))
		if err != nil {
			ginutil.ServerErr(c, "Internal server error")
			return
		}
		if !ok {
			c.JSON(http.StatusOK, gin.H{
				"plan":         entitlement.PlanFree,
				"sessionToken": nil,
				"valid":        false,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"plan":         sess.Plan,
			"sessionToken": sess.Token,
			"valid":        sess.Plan == entitlement.PlanPro,
			"expiresAt":    sess.ExpiresAt,
		})
	}
}
