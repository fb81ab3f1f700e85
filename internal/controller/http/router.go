package http

import (
	"PaymentIntake/internal/controller/http/handlers"
	"PaymentIntake/pkg/health"
	"PaymentIntake/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	checkout       *handlers.CheckoutHandler
	webhook        *handlers.WebhookHandler
	healthRegistry *health.Registry
}

func NewRouter(
	checkout *handlers.CheckoutHandler,
	webhook *handlers.WebhookHandler,
	healthRegistry *health.Registry,
) *Router {
	return &Router{
		checkout:       checkout,
		webhook:        webhook,
		healthRegistry: healthRegistry,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	mountPost(engine, checkoutPath, checkoutAllowHeaders, r.checkout.Create)
	mountPost(engine, webhookPath, webhookAllowHeaders, r.webhook.Receive)

	engine.HandleMethodNotAllowed = true
	engine.NoMethod(noMethodCORS, methodNotAllowed)
}

// mountPost registers a POST-only endpoint with its CORS preflight.
func mountPost(engine *gin.Engine, path, allowHeaders string, handler gin.HandlerFunc) {
	g := engine.Group(path, CORS(allowHeaders))
	g.POST("", handler)
	g.OPTIONS("", preflight)
}

// noMethodCORS keeps CORS headers on 405 responses, which gin serves outside
// of route groups.
func noMethodCORS(c *gin.Context) {
	allowHeaders, ok := allowHeadersByPath[c.Request.URL.Path]
	if !ok {
		c.Next()
		return
	}
	CORS(allowHeaders)(c)
}
