package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sharpeagle50/AI-Research-Assistant/adapters/ginutil"
	"github.com/sharpeagle50/AI-Research-Assistant/gateway"
)

func HandleAIRequestPOST(gw *gateway.Gateway, upgradeURL string) gin.HandlerFunc {
	type aiReq struct {
		Prompt       string `json:"prompt"`
		Model        string `json:"model"`
		UserPlan     string `json:"userPlan"`
		SessionToken string `json:"sessionToken"`
	}
	return func(c *gin.Context) {
		var req aiReq
		if err := c.ShouldBindJSON(&req); err != nil {
			ginutil.BadRequest(c, "invalid_request")
			return
		}

		// The Authorization header and userPlan claim are advisory only;
		// entitlement derives from the stored session.
		res, err := gw.HandleRequest(c.Request.Context(), req.SessionToken, req.Model, req.Prompt)
		switch {
		case errors.Is(err, gateway.ErrUnauthorized):
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{
				"error":      "Pro subscription required",
				"upgradeUrl": upgradeURL,
			})
		case errors.Is(err, gateway.ErrQuotaExceeded):
			ginutil.TooMany(c, "Daily request limit exceeded")
		case errors.Is(err, gateway.ErrInvalidModel):
			ginutil.BadRequest(c, "Invalid model specified")
		case err != nil:
			ginutil.ServerErr(c, "AI request failed: "+err.Error())
		default:
			c.JSON(http.StatusOK, gin.H{
				"response": res.ResponseText,
				"model":    req.Model,
				"usage":    res.Usage,
			})
		}
	}
}
