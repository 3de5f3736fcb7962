package file

import (
	"context"
	"fmt"

	"mockpay/internal/adapter/storage/memory"
	"mockpay/internal/core/domain"

	"github.com/google/uuid"
)

// SettingsStore implements ports.SettingsStore. Swap keeps the memory
// store's atomicity; the file is rewritten afterwards.
type SettingsStore struct {
	mem  *memory.SettingsStore
	file *jsonFile
}

func (s *SettingsStore) persist() error {
	if err := s.file.save(func() interface{} { return s.mem.Snapshot() }); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

func (s *SettingsStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.mem.Get(ctx, key)
}

func (s *SettingsStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.mem.Set(ctx, key, value); err != nil {
		return err
	}
	return s.persist()
}

func (s *SettingsStore) Swap(ctx context.Context, key string, value []byte) ([]byte, error) {
	prev, err := s.mem.Swap(ctx, key, value)
	if err != nil {
		return nil, err
	}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return prev, nil
}

func (s *SettingsStore) DeleteAll(ctx context.Context) error {
	if err := s.mem.DeleteAll(ctx); err != nil {
		return err
	}
	return s.persist()
}

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	mem  *memory.TransactionRepo
	file *jsonFile
}

func (r *TransactionRepo) persist() error {
	if err := r.file.save(func() interface{} { return r.mem.Snapshot() }); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	if err := r.mem.Create(ctx, t); err != nil {
		return err
	}
	return r.persist()
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	return r.mem.GetByID(ctx, id)
}

func (r *TransactionRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error) {
	return r.mem.GetByReference(ctx, provider, reference)
}

func (r *TransactionRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (bool, error) {
	changed, err := r.mem.Resolve(ctx, id, status)
	if err != nil || !changed {
		return changed, err
	}
	if err := r.persist(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *TransactionRepo) DeleteAll(ctx context.Context) error {
	if err := r.mem.DeleteAll(ctx); err != nil {
		return err
	}
	return r.persist()
}

// TransferRepo implements ports.TransferRepository.
type TransferRepo struct {
	mem  *memory.TransferRepo
	file *jsonFile
}

func (r *TransferRepo) persist() error {
	if err := r.file.save(func() interface{} { return r.mem.Snapshot() }); err != nil {
		return fmt.Errorf("persist transfers: %w", err)
	}
	return nil
}

func (r *TransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	if err := r.mem.Create(ctx, t); err != nil {
		return err
	}
	return r.persist()
}

func (r *TransferRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transfer, error) {
	return r.mem.GetByReference(ctx, provider, reference)
}

func (r *TransferRepo) DeleteAll(ctx context.Context) error {
	if err := r.mem.DeleteAll(ctx); err != nil {
		return err
	}
	return r.persist()
}

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	mem  *memory.WebhookRepo
	file *jsonFile
}

func (r *WebhookRepo) persist() error {
	if err := r.file.save(func() interface{} { return r.mem.Snapshot() }); err != nil {
		return fmt.Errorf("persist webhooks: %w", err)
	}
	return nil
}

func (r *WebhookRepo) Create(ctx context.Context, d *domain.WebhookDelivery) error {
	if err := r.mem.Create(ctx, d); err != nil {
		return err
	}
	return r.persist()
}

func (r *WebhookRepo) Update(ctx context.Context, d *domain.WebhookDelivery) error {
	if err := r.mem.Update(ctx, d); err != nil {
		return err
	}
	return r.persist()
}

func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error) {
	return r.mem.GetByID(ctx, id)
}

func (r *WebhookRepo) List(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error) {
	return r.mem.List(ctx, filter)
}

func (r *WebhookRepo) DeleteAll(ctx context.Context) error {
	if err := r.mem.DeleteAll(ctx); err != nil {
		return err
	}
	return r.persist()
}
