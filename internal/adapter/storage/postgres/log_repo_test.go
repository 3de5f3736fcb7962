package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := &domain.LogEntry{
		ID:        uuid.New(),
		Level:     domain.LogLevelInfo,
		Message:   "Transaction initialized",
		Source:    "paystack",
		Timestamp: time.Now().UTC(),
	}
	mock.ExpectExec("INSERT INTO logs").
		WithArgs(e.ID, e.Level, e.Message, e.Source, e.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewLogRepo(mock).Create(context.Background(), e))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepo_ListDefaultsLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	first, second := uuid.New(), uuid.New()
	ts := time.Now().UTC()
	rows := pgxmock.NewRows([]string{"id", "level", "message", "source", "timestamp"}).
		AddRow(first, "info", "Server started", "server", ts).
		AddRow(second, "warn", "Webhook dropped (simulated)", "webhook", ts.Add(time.Second))
	mock.ExpectQuery("SELECT id, level, message, source, timestamp FROM").
		WithArgs(1000).
		WillReturnRows(rows)

	out, err := NewLogRepo(mock).List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, first, out[0].ID)
	assert.Equal(t, "webhook", out[1].Source)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogRepo_ListError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, level, message, source, timestamp FROM").
		WithArgs(50).
		WillReturnError(errors.New("connection reset"))

	_, err = NewLogRepo(mock).List(context.Background(), 50)
	assert.ErrorContains(t, err, "list logs")
}

func TestLogRepo_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM logs").WillReturnResult(pgxmock.NewResult("DELETE", 12))

	require.NoError(t, NewLogRepo(mock).DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
