package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery() *domain.WebhookDelivery {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WebhookDelivery{
		ID:        uuid.New(),
		Provider:  domain.ProviderPaystack,
		Event:     "charge.success",
		URL:       "http://localhost:3000/webhook",
		Status:    domain.WebhookStatusPending,
		Attempts:  0,
		Payload:   json.RawMessage(`{"event":"charge.success","data":{}}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func webhookCols() []string {
	return []string{"id", "provider", "event", "url", "status", "attempts", "payload",
		"last_http_status", "last_error", "last_attempt_at", "created_at", "updated_at"}
}

func webhookRow(rows *pgxmock.Rows, d *domain.WebhookDelivery) *pgxmock.Rows {
	return rows.AddRow(
		d.ID, d.Provider, d.Event, d.URL, d.Status, d.Attempts, d.Payload,
		d.LastHTTPStatus, d.LastError, d.LastAttemptAt, d.CreatedAt, d.UpdatedAt,
	)
}

func TestWebhookRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := newTestDelivery()
	mock.ExpectExec("INSERT INTO webhooks").
		WithArgs(
			d.ID, d.Provider, d.Event, d.URL, d.Status, d.Attempts, d.Payload,
			d.LastHTTPStatus, d.LastError, d.LastAttemptAt, d.CreatedAt, d.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewWebhookRepo(mock).Create(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := newTestDelivery()
	now := time.Now().UTC()
	status := 200
	d.Status = domain.WebhookStatusSent
	d.Attempts = 1
	d.LastHTTPStatus = &status
	d.LastAttemptAt = &now

	mock.ExpectExec("UPDATE webhooks SET status").
		WithArgs(d.Status, d.Attempts, d.LastHTTPStatus, d.LastError, d.LastAttemptAt, d.UpdatedAt, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, NewWebhookRepo(mock).Update(context.Background(), d))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := newTestDelivery()
	mock.ExpectExec("UPDATE webhooks").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), d.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = NewWebhookRepo(mock).Update(context.Background(), d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "webhook delivery not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	d := newTestDelivery()
	mock.ExpectQuery("SELECT .+ FROM webhooks WHERE id").
		WithArgs(d.ID).
		WillReturnRows(webhookRow(pgxmock.NewRows(webhookCols()), d))

	got, err := NewWebhookRepo(mock).GetByID(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "charge.success", got.Event)
	assert.JSONEq(t, string(d.Payload), string(got.Payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM webhooks WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(webhookCols()))

	got, err := NewWebhookRepo(mock).GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_List_WithFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a, b := newTestDelivery(), newTestDelivery()
	a.Status, b.Status = domain.WebhookStatusFailed, domain.WebhookStatusFailed

	rows := pgxmock.NewRows(webhookCols())
	webhookRow(rows, a)
	webhookRow(rows, b)

	mock.ExpectQuery("SELECT .+ FROM webhooks WHERE provider = \\$1 AND status = \\$2 ORDER BY created_at DESC LIMIT \\$3").
		WithArgs(domain.ProviderPaystack, domain.WebhookStatusFailed, 20).
		WillReturnRows(rows)

	got, err := NewWebhookRepo(mock).List(context.Background(), domain.WebhookFilter{
		Provider: domain.ProviderPaystack,
		Status:   domain.WebhookStatusFailed,
		Limit:    20,
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_List_NoFilter(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM webhooks ORDER BY created_at DESC$").
		WillReturnRows(pgxmock.NewRows(webhookCols()))

	got, err := NewWebhookRepo(mock).List(context.Background(), domain.WebhookFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM webhooks").WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, NewWebhookRepo(mock).DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
