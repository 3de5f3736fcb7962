package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStore_Get(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectQuery("SELECT value FROM settings WHERE key").
		WithArgs("webhook_config").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`{"delay_ms":0}`)))

	val, err := store.Get(context.Background(), "webhook_config")
	require.NoError(t, err)
	assert.JSONEq(t, `{"delay_ms":0}`, string(val))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Get_Missing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectQuery("SELECT value FROM settings WHERE key").
		WithArgs("next_error").
		WillReturnRows(pgxmock.NewRows([]string{"value"}))

	val, err := store.Get(context.Background(), "next_error")
	assert.NoError(t, err)
	assert.Nil(t, val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Set(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectExec("INSERT INTO settings").
		WithArgs("last_webhook", []byte(`{}`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.Set(context.Background(), "last_webhook", []byte(`{}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Swap(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("next_payment_result").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT value FROM settings WHERE key = \\$1 FOR UPDATE").
		WithArgs("next_payment_result").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow([]byte(`"failed"`)))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("next_payment_result", []byte(`"success"`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	prev, err := store.Swap(context.Background(), "next_payment_result", []byte(`"success"`))
	require.NoError(t, err)
	assert.Equal(t, `"failed"`, string(prev))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Swap_Absent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("next_error").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("next_error").
		WillReturnRows(pgxmock.NewRows([]string{"value"}))
	mock.ExpectExec("INSERT INTO settings").
		WithArgs("next_error", []byte(`"none"`)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	prev, err := store.Swap(context.Background(), "next_error", []byte(`"none"`))
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Swap_RollsBackOnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("next_error").
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectQuery("SELECT value FROM settings").
		WithArgs("next_error").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = store.Swap(context.Background(), "next_error", []byte(`"none"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock setting")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Swap_LockFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").
		WithArgs("next_payment_result").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err = store.Swap(context.Background(), "next_payment_result", []byte(`"success"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lock setting key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_Swap_BeginFails(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := NewSettingsStore(mock)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err = store.Swap(context.Background(), "next_error", []byte(`"none"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin tx")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSettingsStore_DeleteAll(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM settings").WillReturnResult(pgxmock.NewResult("DELETE", 4))

	require.NoError(t, NewSettingsStore(mock).DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
