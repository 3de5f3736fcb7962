package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"mockpay/config"
	"mockpay/internal/adapter/http/handler"
	"mockpay/internal/adapter/logstream"
	"mockpay/internal/cli"
	"mockpay/internal/core/domain"
	"mockpay/internal/service"
	"mockpay/pkg/logger"

	"github.com/gin-gonic/gin"
)

var version = "dev"

const (
	shutdownTimeout = 10 * time.Second
	drainTimeout    = 5 * time.Second
)

func main() {
	if err := cli.Execute(cli.Options{Version: version, Serve: serve}); err != nil {
		os.Exit(1)
	}
}

// serve runs both provider servers until ctx is done or a client calls
// POST /__shutdown.
func serve(ctx context.Context, cfg *config.Config) error {
	bootLog := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	bootLog.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Str("settings", cfg.Storage.SettingsBackend()).
		Str("data_dir", cfg.DataDir).
		Msg("Starting mockpay")

	st, err := openStorage(ctx, cfg, bootLog)
	if err != nil {
		bootLog.Error().Err(err).Msg("Failed to open storage")
		return err
	}
	defer st.close()

	// Every log line from here on is also streamed to /__logs and persisted.
	hub := logstream.NewHub(st.logs)
	defer hub.Close()
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty, hub)

	// Initialize services
	dispatcher := service.NewDispatcher(log)
	outcomeSvc := service.NewOutcomeService(st.settings, log)
	webhookSvc := service.NewWebhookService(
		st.settings,
		st.webhooks,
		&http.Client{Timeout: cfg.Webhook.AttemptTimeout},
		dispatcher,
		service.WebhookSettings{
			DefaultURL: cfg.Webhook.DefaultURL,
			Defaults: domain.WebhookPolicy{
				DelayMs:      cfg.Webhook.DelayMs,
				RetryCount:   cfg.Webhook.RetryCount,
				RetryDelayMs: cfg.Webhook.RetryDelayMs,
				Duplicate:    cfg.Webhook.Duplicate,
				Drop:         cfg.Webhook.Drop,
			},
			AttemptTimeout: cfg.Webhook.AttemptTimeout,
			Signer:         service.NewWebhookSigner(cfg.Webhook.PaystackSecret, cfg.Webhook.FlutterwaveHash),
		},
		log,
	)
	paymentSvc := service.NewPaymentService(
		st.transactions,
		st.transfers,
		outcomeSvc,
		webhookSvc,
		service.PaymentSettings{DefaultWebhookURL: cfg.Webhook.DefaultURL},
		log,
	)
	controlSvc := service.NewControlService(st.settings, st.transactions, st.transfers, st.webhooks, st.logs, log)

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	requestShutdown := func() {
		log.Info().Msg("Shutdown requested")
		stop()
	}

	gin.SetMode(cfg.Server.Mode)

	listeners := []struct {
		provider domain.Provider
		addr     string
		port     int
	}{
		{domain.ProviderPaystack, cfg.Server.PaystackAddr(), cfg.Server.PaystackPort},
		{domain.ProviderFlutterwave, cfg.Server.FlutterwaveAddr(), cfg.Server.FlutterwavePort},
	}

	servers := make([]*http.Server, 0, len(listeners))
	errCh := make(chan error, len(listeners))

	for _, l := range listeners {
		router := handler.SetupRouter(handler.RouterDeps{
			Provider:       l.provider,
			Payments:       paymentSvc,
			Outcomes:       outcomeSvc,
			Webhooks:       webhookSvc,
			Control:        controlSvc,
			Logs:           hub,
			HealthCheckers: st.checkers,
			Checkout: handler.CheckoutLinks{
				FrontendURL: cfg.Server.FrontendURL,
				APIBase:     fmt.Sprintf("http://localhost:%d", l.port),
			},
			TimeoutDelay: cfg.Fault.TimeoutDelay,
			DropDelay:    cfg.Fault.DropDelay,
			Shutdown:     requestShutdown,
			Logger:       log,
		})

		srv := &http.Server{
			Addr:              l.addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// request contexts end with the server so open log streams close
			BaseContext: func(net.Listener) context.Context { return runCtx },
		}
		servers = append(servers, srv)

		provider := l.provider
		go func() {
			log.Info().Str("addr", srv.Addr).Str("provider", string(provider)).Msg("HTTP server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("%s server: %w", provider, err)
			}
		}()
	}

	var runErr error
	select {
	case <-runCtx.Done():
	case runErr = <-errCh:
		log.Error().Err(runErr).Msg("HTTP server failed")
		stop()
	}

	log.Info().Msg("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("Server forced to shutdown")
		}
	}

	if !dispatcher.Shutdown(drainTimeout) {
		log.Warn().Msg("Cancelled webhook deliveries still in flight")
	}

	log.Info().Msg("Server exited")
	return runErr
}
