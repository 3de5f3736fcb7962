package memory

import (
	"context"
	"fmt"
	"sync"

	"mockpay/internal/core/domain"
)

// TransferRepo implements ports.TransferRepository in memory.
type TransferRepo struct {
	mu        sync.RWMutex
	transfers map[referenceKey]*domain.Transfer
}

// NewTransferRepo creates an empty TransferRepo.
func NewTransferRepo() *TransferRepo {
	return &TransferRepo{transfers: make(map[referenceKey]*domain.Transfer)}
}

func (r *TransferRepo) Create(ctx context.Context, t *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := referenceKey{t.Provider, t.Reference}
	if _, exists := r.transfers[key]; exists {
		return fmt.Errorf("transfer reference %s already exists", t.Reference)
	}
	cp := *t
	r.transfers[key] = &cp
	return nil
}

func (r *TransferRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transfers[referenceKey{provider, reference}]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TransferRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = make(map[referenceKey]*domain.Transfer)
	return nil
}
