package handler

import (
	"time"

	"mockpay/internal/adapter/http/middleware"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports"
	"mockpay/pkg/logger"
	"mockpay/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps request bodies on both servers.
const maxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up one provider server.
type RouterDeps struct {
	Provider       domain.Provider
	Payments       ports.PaymentService
	Outcomes       ports.OutcomeController
	Webhooks       ports.WebhookService
	Control        ports.ControlService
	Logs           LogSource
	HealthCheckers []ports.HealthChecker
	Checkout       CheckoutLinks
	TimeoutDelay   time.Duration
	DropDelay      time.Duration
	LogKeepAlive   time.Duration
	Shutdown       func() // nil = /__shutdown disabled
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine for one provider server: the
// provider API behind the fault gate plus the shared control plane.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	style := styleFor(deps.Provider)
	log := logger.WithSource(deps.Logger, string(deps.Provider))

	// Global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MaxBodySize(maxBodyBytes))
	r.Use(middleware.FaultGate(deps.Outcomes, middleware.FaultGateConfig{
		TimeoutDelay: deps.TimeoutDelay,
		DropDelay:    deps.DropDelay,
		Style:        style,
	}, logger.WithSource(deps.Logger, "gate")))

	// Liveness
	r.GET("/", Root(deps.Provider))
	r.GET("/__health", HealthCheck(deps.Provider, deps.HealthCheckers...))

	// --- Control plane (never gated) ---
	logsHandler := NewLogsHandler(deps.Logs, deps.LogKeepAlive)
	r.GET("/__logs", logsHandler.Stream)

	controlHandler := NewControlHandler(deps.Outcomes, deps.Webhooks, deps.Control, deps.Shutdown)
	control := r.Group("/__control")
	{
		control.POST("/outcome", controlHandler.SetOutcome)
		control.POST("/fault", controlHandler.SetFault)
		control.GET("/webhook-config", controlHandler.GetWebhookConfig)
		control.PATCH("/webhook-config", controlHandler.UpdateWebhookConfig)
		control.POST("/webhook/resend", controlHandler.ResendWebhook)
		control.GET("/webhooks", controlHandler.ListWebhooks)
		control.POST("/reset", controlHandler.Reset)
	}
	r.POST("/__shutdown", controlHandler.Shutdown)

	// --- Hosted checkout completion ---
	checkoutHandler := NewCheckoutHandler(deps.Payments, deps.Provider, style)
	r.POST("/mock/complete", checkoutHandler.Complete)

	// --- Provider API ---
	switch deps.Provider {
	case domain.ProviderPaystack:
		h := NewPaystackHandler(deps.Payments, deps.Checkout)
		tx := r.Group("/transaction")
		{
			tx.POST("/initialize", h.Initialize)
			tx.GET("/verify/:reference", h.Verify)
			tx.POST("/verify/:reference", h.Verify)
		}
		r.POST("/transfer", h.CreateTransfer)
		r.GET("/banks", h.ListBanks)

	case domain.ProviderFlutterwave:
		h := NewFlutterwaveHandler(deps.Payments, deps.Checkout)
		r.POST("/payments", h.Initialize)
		txs := r.Group("/transactions")
		{
			txs.GET("/verify_by_reference", h.VerifyByReference)
			txs.GET("/:id/verify", h.VerifyByID)
		}
		r.POST("/transfers", h.CreateTransfer)
		r.GET("/banks/:country", h.ListBanks)
	}

	return r
}

func styleFor(p domain.Provider) response.Style {
	if p == domain.ProviderFlutterwave {
		return response.StyleFlutterwave
	}
	return response.StylePaystack
}
