package http

import (
	"net/http"

	"github.com/bgoldmann/darkstore/internal/delivery/http/handlers"
	"github.com/bgoldmann/darkstore/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterDeps struct {
	EscrowHandler   *handlers.EscrowHandler
	CheckoutHandler *handlers.CheckoutHandler
	JWTSecret       []byte
	RateLimiter     *middleware.ActorRateLimiter
	MetricsHandler  http.Handler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.GET("/metrics", gin.WrapH(metricsHandler))
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", middleware.AuthMiddleware(deps.JWTSecret))
	mutate := deps.RateLimiter.Middleware()

	api.POST("/checkout", mutate, deps.CheckoutHandler.Checkout)

	orders := api.Group("/orders")
	{
		orders.GET("", deps.EscrowHandler.ListOrders)
		orders.GET("/:ref", deps.EscrowHandler.GetOrder)
		orders.POST("/:ref/report-payment", mutate, deps.EscrowHandler.ReportPayment)
		orders.POST("/:ref/confirm-release", mutate, deps.EscrowHandler.ConfirmRelease)
		orders.POST("/:ref/dispute", mutate, deps.EscrowHandler.OpenDispute)
	}

	operator := api.Group("/operator/orders", mutate)
	{
		operator.POST("/:ref/mark-funded", deps.EscrowHandler.MarkFunded)
		operator.POST("/:ref/resolve", deps.EscrowHandler.ResolveDispute)
		operator.POST("/:ref/cancel", deps.EscrowHandler.CancelEscrow)
		operator.PUT("/:ref/fulfillment", deps.EscrowHandler.SetFulfillmentStatus)
		operator.PUT("/:ref/notes", deps.EscrowHandler.SetOperatorNotes)
	}

	return r
}
