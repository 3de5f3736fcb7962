package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
)

type referenceKey struct {
	provider  domain.Provider
	reference string
}

// TransactionRepo implements ports.TransactionRepository in memory.
// Records are copied in and out so callers never share state with the store.
type TransactionRepo struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*domain.Transaction
	byRef map[referenceKey]uuid.UUID
}

// NewTransactionRepo creates an empty TransactionRepo.
func NewTransactionRepo() *TransactionRepo {
	return &TransactionRepo{
		byID:  make(map[uuid.UUID]*domain.Transaction),
		byRef: make(map[referenceKey]uuid.UUID),
	}
}

func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := referenceKey{t.Provider, t.Reference}
	if _, exists := r.byRef[key]; exists {
		return fmt.Errorf("transaction reference %s already exists", t.Reference)
	}
	cp := *t
	r.byID[t.ID] = &cp
	r.byRef[key] = t.ID
	return nil
}

func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *TransactionRepo) GetByReference(ctx context.Context, provider domain.Provider, reference string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byRef[referenceKey{provider, reference}]
	if !ok {
		return nil, nil
	}
	cp := *r.byID[id]
	return &cp, nil
}

// Resolve sets status only while the transaction is still pending.
func (r *TransactionRepo) Resolve(ctx context.Context, id uuid.UUID, status domain.TransactionStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return false, fmt.Errorf("transaction not found: %s", id)
	}
	if t.Status != domain.TransactionStatusPending {
		return false, nil
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *TransactionRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[uuid.UUID]*domain.Transaction)
	r.byRef = make(map[referenceKey]uuid.UUID)
	return nil
}
