package postgres

import (
	"context"
	"fmt"

	"mockpay/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// NewPool creates a PostgreSQL connection pool using pgx.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("dbname", cfg.DBName).
		Int32("max_conns", cfg.MaxConns).
		Msg("PostgreSQL connection pool established")

	return pool, nil
}

// schema creates every collection table. All statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id             UUID PRIMARY KEY,
		provider       TEXT NOT NULL,
		reference      TEXT NOT NULL,
		status         TEXT NOT NULL,
		amount         NUMERIC(20,2) NOT NULL,
		currency       TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_name  TEXT,
		callback_url   TEXT,
		metadata       JSONB,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (provider, reference)
	)`,
	`CREATE TABLE IF NOT EXISTS transfers (
		id             UUID PRIMARY KEY,
		provider       TEXT NOT NULL,
		reference      TEXT NOT NULL,
		transfer_code  TEXT,
		status         TEXT NOT NULL,
		amount         NUMERIC(20,2) NOT NULL,
		currency       TEXT NOT NULL,
		bank_code      TEXT,
		account_number TEXT,
		narration      TEXT,
		metadata       JSONB,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (provider, reference)
	)`,
	`CREATE TABLE IF NOT EXISTS webhooks (
		id               UUID PRIMARY KEY,
		provider         TEXT NOT NULL,
		event            TEXT NOT NULL,
		url              TEXT NOT NULL,
		status           TEXT NOT NULL,
		attempts         INT NOT NULL DEFAULT 0,
		payload          JSONB NOT NULL,
		last_http_status INT,
		last_error       TEXT,
		last_attempt_at  TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_webhooks_created_at ON webhooks (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id        UUID PRIMARY KEY,
		level     TEXT NOT NULL,
		message   TEXT NOT NULL,
		source    TEXT,
		timestamp TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs (timestamp DESC)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
