package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/checkout-system/checkout-orchestrator/internal/handlers"
	"github.com/checkout-system/checkout-orchestrator/internal/telemetry"
)

func NewRouter(checkout *handlers.CheckoutHandler, sec *handlers.SecurityHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.TracingMiddleware())

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "checkout-orchestrator"})
	})

	// Checkout routes
	r.POST("/checkout/sessions", checkout.CreateSession)
	r.GET("/checkout/sessions/:id", checkout.GetSession)
	r.POST("/checkout/sessions/:id/customer", checkout.SubmitCustomer)
	r.POST("/checkout/sessions/:id/pay", checkout.SubmitPayment)
	r.POST("/checkout/sessions/:id/retry", checkout.Retry)
	r.GET("/localization", checkout.Localization)

	// Security monitor routes
	r.GET("/security/config", sec.GetConfig)
	r.PUT("/security/config", sec.PutConfig)
	r.POST("/security/events", sec.PostEvent)
	r.GET("/security/alerts/recent", sec.RecentAlerts)

	return r
}
