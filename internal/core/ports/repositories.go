package ports

import (
	"context"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
)

// SettingsStore is the durable key/value store behind the control-plane flags.
// Values are opaque JSON documents; a nil value means the key is absent.
type SettingsStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Swap atomically replaces the value at key and returns the previous one.
	// Concurrent swaps on the same key are serialized.
	Swap(ctx context.Context, key string, value []byte) ([]byte, error)
	DeleteAll(ctx context.Context) error
}

// TransactionRepository defines persistence operations for mock transactions.
// Lookups return (nil, nil) when no row matches.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error)
	// Resolve moves a pending transaction to status. It reports false, without
	// error, when the transaction had already left pending.
	Resolve(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (bool, error)
	DeleteAll(ctx context.Context) error
}

// TransferRepository defines persistence operations for queued transfers.
type TransferRepository interface {
	Create(ctx context.Context, t *domain.Transfer) error
	GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transfer, error)
	DeleteAll(ctx context.Context) error
}

// WebhookRepository records webhook deliveries and their attempts.
type WebhookRepository interface {
	Create(ctx context.Context, d *domain.WebhookDelivery) error
	Update(ctx context.Context, d *domain.WebhookDelivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error)
	// List returns deliveries newest first.
	List(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error)
	DeleteAll(ctx context.Context) error
}

// LogRepository persists log lines.
type LogRepository interface {
	Create(ctx context.Context, entry *domain.LogEntry) error
	// List returns the newest limit entries, oldest first.
	List(ctx context.Context, limit int) ([]domain.LogEntry, error)
	DeleteAll(ctx context.Context) error
}
