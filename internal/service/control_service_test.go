package service

import (
	"context"
	"errors"
	"testing"

	"mockpay/internal/adapter/storage/memory"
	"mockpay/internal/core/domain"
	"mockpay/internal/core/ports/mocks"
	"mockpay/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestControlService_ResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	settings := memory.NewSettingsStore()
	txRepo := memory.NewTransactionRepo()
	transfers := memory.NewTransferRepo()
	webhooks := memory.NewWebhookRepo()
	logs := memory.NewLogRepo(10)

	require.NoError(t, settings.Set(ctx, domain.SettingNextOutcome, []byte(`"failed"`)))
	tx := &domain.Transaction{ID: uuid.New(), Provider: domain.ProviderPaystack, Reference: "PSK_1",
		Status: domain.TransactionStatusPending, Amount: decimal.NewFromInt(1)}
	require.NoError(t, txRepo.Create(ctx, tx))
	require.NoError(t, webhooks.Create(ctx, &domain.WebhookDelivery{ID: uuid.New()}))
	require.NoError(t, logs.Create(ctx, &domain.LogEntry{ID: uuid.New(), Message: "hello"}))

	svc := NewControlService(settings, txRepo, transfers, webhooks, logs, zerolog.Nop())
	require.NoError(t, svc.Reset(ctx))

	v, err := settings.Get(ctx, domain.SettingNextOutcome)
	require.NoError(t, err)
	assert.Nil(t, v)

	got, err := txRepo.GetByReference(ctx, domain.ProviderPaystack, "PSK_1")
	require.NoError(t, err)
	assert.Nil(t, got)

	list, err := webhooks.List(ctx, domain.WebhookFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	entries, err := logs.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestControlService_ResetContinuesPastFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mocks.NewMockSettingsStore(ctrl)
	txRepo := mocks.NewMockTransactionRepository(ctrl)
	transfers := mocks.NewMockTransferRepository(ctrl)
	webhooks := mocks.NewMockWebhookRepository(ctrl)
	logs := mocks.NewMockLogRepository(ctrl)

	settings.EXPECT().DeleteAll(gomock.Any()).Return(errors.New("redis down"))
	txRepo.EXPECT().DeleteAll(gomock.Any()).Return(nil)
	transfers.EXPECT().DeleteAll(gomock.Any()).Return(nil)
	webhooks.EXPECT().DeleteAll(gomock.Any()).Return(errors.New("table locked"))
	logs.EXPECT().DeleteAll(gomock.Any()).Return(nil)

	svc := NewControlService(settings, txRepo, transfers, webhooks, logs, zerolog.Nop())
	err := svc.Reset(context.Background())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
	assert.Contains(t, err.Error(), "settings: redis down")
	assert.Contains(t, err.Error(), "webhooks: table locked")
}
