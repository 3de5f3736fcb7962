package main

import (
	"context"
	"fmt"

	"mockpay/config"
	fileStorage "mockpay/internal/adapter/storage/file"
	"mockpay/internal/adapter/storage/memory"
	pgStorage "mockpay/internal/adapter/storage/postgres"
	redisStorage "mockpay/internal/adapter/storage/redis"
	"mockpay/internal/core/ports"

	"github.com/rs/zerolog"
)

const memoryLogCapacity = 5000

// storage bundles the repositories serve runs on.
type storage struct {
	settings     ports.SettingsStore
	transactions ports.TransactionRepository
	transfers    ports.TransferRepository
	webhooks     ports.WebhookRepository
	logs         ports.LogRepository
	checkers     []ports.HealthChecker
	closers      []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage builds the backends selected by storage.driver and
// storage.settings_driver.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	st := &storage{}

	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		st.closers = append(st.closers, pool.Close)

		if err := pgStorage.EnsureSchema(ctx, pool); err != nil {
			st.close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}

		st.transactions = pgStorage.NewTransactionRepo(pool)
		st.transfers = pgStorage.NewTransferRepo(pool)
		st.webhooks = pgStorage.NewWebhookRepo(pool)
		st.logs = pgStorage.NewLogRepo(pool)
		st.settings = pgStorage.NewSettingsStore(pool)
		st.checkers = append(st.checkers, pgStorage.NewHealthCheck(pool))

	case "file":
		fs, err := fileStorage.Open(cfg.DataDir, memoryLogCapacity, log)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		st.closers = append(st.closers, func() { _ = fs.Close() })

		st.transactions = fs.Transactions
		st.transfers = fs.Transfers
		st.webhooks = fs.Webhooks
		st.logs = fs.Logs
		st.settings = fs.Settings
		st.checkers = append(st.checkers, fs.HealthCheck())

	default:
		st.transactions = memory.NewTransactionRepo()
		st.transfers = memory.NewTransferRepo()
		st.webhooks = memory.NewWebhookRepo()
		st.logs = memory.NewLogRepo(memoryLogCapacity)
	}

	switch cfg.Storage.SettingsBackend() {
	case "memory":
		st.settings = memory.NewSettingsStore()
	case "redis":
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			st.close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		st.closers = append(st.closers, func() { _ = rdb.Close() })

		st.settings = redisStorage.NewSettingsStore(rdb)
		st.checkers = append(st.checkers, redisStorage.NewHealthCheck(rdb))
	}

	return st, nil
}
