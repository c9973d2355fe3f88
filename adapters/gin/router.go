// Package apigin wires the HTTP surface consumed by the browser extension:
// health, subscription verification, code redemption, AI request routing,
// and the payment webhook stub.
package apigin

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sharpeagle50/AI-Research-Assistant/adapters/gin/handlers"
	"github.com/sharpeagle50/AI-Research-Assistant/gateway"
)

// Options configures the router.
type Options struct {
	Gateway        *gateway.Gateway
	Log            *logrus.Logger
	Version        string
	UpgradeURL     string
	AllowedOrigins []string
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(opts Options) *gin.Engine {
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(opts.Log))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	r.GET("/", handlers.HandleRootGET(opts.Version))
	r.GET("/health", handlers.HandleHealthGET())

	api := r.Group("/api")
	{
		api.POST("/verify-subscription", handlers.HandleVerifySubscriptionPOST(opts.Gateway))
		api.POST("/redeem-code", handlers.HandleRedeemCodePOST(opts.Gateway))
		api.POST("/ai-request", handlers.HandleAIRequestPOST(opts.Gateway, opts.UpgradeURL))
		api.POST("/webhook/payment", handlers.HandlePaymentWebhookPOST())
	}

	return r
}

// corsConfig allows the extension origins. Credentials only go with an
// explicit origin list; wildcard entries like "chrome-extension://*" need
// AllowWildcard.
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
		cfg.AllowWildcard = true
		cfg.AllowCredentials = true
	} else {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
