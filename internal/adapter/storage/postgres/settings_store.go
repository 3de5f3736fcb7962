package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SettingsStore implements ports.SettingsStore on the settings table.
type SettingsStore struct {
	pool       Pool
	transactor *Transactor
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(pool Pool) *SettingsStore {
	return &SettingsStore{pool: pool, transactor: NewTransactor(pool)}
}

const upsertSetting = `INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`

// Get returns nil, nil if the key does not exist.
func (s *SettingsStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setting: %w", err)
	}
	return value, nil
}

func (s *SettingsStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.pool.Exec(ctx, upsertSetting, key, value); err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

// Swap reads the old value and writes the new one in a single transaction.
// The key is serialized through a transaction-scoped advisory lock because
// FOR UPDATE locks nothing while the row does not exist yet.
func (s *SettingsStore) Swap(ctx context.Context, key string, value []byte) ([]byte, error) {
	var prev []byte
	err := s.transactor.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
			return fmt.Errorf("lock setting key: %w", err)
		}
		err := tx.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1 FOR UPDATE`, key).Scan(&prev)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("lock setting: %w", err)
		}
		if _, err := tx.Exec(ctx, upsertSetting, key, value); err != nil {
			return fmt.Errorf("swap setting: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

func (s *SettingsStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM settings`); err != nil {
		return fmt.Errorf("delete settings: %w", err)
	}
	return nil
}
