package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	checkoutPath = "/create-checkout-session"
	webhookPath  = "/stripe-webhook"

	allowMethods = "POST, OPTIONS"

	checkoutAllowHeaders = "authorization, x-client-info, apikey, content-type"
	webhookAllowHeaders  = "authorization, x-client-info, apikey, content-type, stripe-signature"
)

var allowHeadersByPath = map[string]string{
	checkoutPath: checkoutAllowHeaders,
	webhookPath:  webhookAllowHeaders,
}

// CORS echoes the request Origin, or allows any origin when none is sent.
func CORS(allowHeaders string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", allowMethods)
		c.Header("Access-Control-Allow-Headers", allowHeaders)
		c.Next()
	}
}

func preflight(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func methodNotAllowed(c *gin.Context) {
	c.String(http.StatusMethodNotAllowed, "Method Not Allowed")
}
