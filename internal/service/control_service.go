package service

import (
	"context"
	"errors"
	"fmt"

	"mockpay/internal/core/ports"
	"mockpay/pkg/apperror"
	"mockpay/pkg/logger"

	"github.com/rs/zerolog"
)

// ControlServiceImpl implements ports.ControlService.
type ControlServiceImpl struct {
	settings  ports.SettingsStore
	txRepo    ports.TransactionRepository
	transfers ports.TransferRepository
	webhooks  ports.WebhookRepository
	logs      ports.LogRepository
	log       zerolog.Logger
}

// NewControlService creates a new ControlServiceImpl.
func NewControlService(
	settings ports.SettingsStore,
	txRepo ports.TransactionRepository,
	transfers ports.TransferRepository,
	webhooks ports.WebhookRepository,
	logs ports.LogRepository,
	log zerolog.Logger,
) *ControlServiceImpl {
	return &ControlServiceImpl{
		settings:  settings,
		txRepo:    txRepo,
		transfers: transfers,
		webhooks:  webhooks,
		logs:      logs,
		log:       logger.WithSource(log, "controller"),
	}
}

// Reset clears every collection. A failing collection does not stop the
// others; all failures are reported together.
func (s *ControlServiceImpl) Reset(ctx context.Context) error {
	steps := []struct {
		name  string
		clear func(context.Context) error
	}{
		{"settings", s.settings.DeleteAll},
		{"transactions", s.txRepo.DeleteAll},
		{"transfers", s.transfers.DeleteAll},
		{"webhooks", s.webhooks.DeleteAll},
		{"logs", s.logs.DeleteAll},
	}

	var errs []error
	for _, step := range steps {
		if err := step.clear(ctx); err != nil {
			s.log.Error().Err(err).Str("collection", step.name).Msg("reset failed")
			errs = append(errs, fmt.Errorf("%s: %w", step.name, err))
		}
	}
	if len(errs) > 0 {
		return apperror.ErrDatabaseError(errors.Join(errs...))
	}

	s.log.Info().Msg("Mock data reset")
	return nil
}
