package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
)

// WebhookRepo implements ports.WebhookRepository in memory.
type WebhookRepo struct {
	mu         sync.RWMutex
	deliveries map[uuid.UUID]*domain.WebhookDelivery
}

// NewWebhookRepo creates an empty WebhookRepo.
func NewWebhookRepo() *WebhookRepo {
	return &WebhookRepo{deliveries: make(map[uuid.UUID]*domain.WebhookDelivery)}
}

func (r *WebhookRepo) Create(ctx context.Context, d *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.deliveries[d.ID] = &cp
	return nil
}

func (r *WebhookRepo) Update(ctx context.Context, d *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deliveries[d.ID]; !ok {
		return fmt.Errorf("webhook delivery not found: %s", d.ID)
	}
	cp := *d
	r.deliveries[d.ID] = &cp
	return nil
}

func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deliveries[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *WebhookRepo) List(ctx context.Context, filter domain.WebhookFilter) ([]domain.WebhookDelivery, error) {
	r.mu.RLock()
	out := make([]domain.WebhookDelivery, 0, len(r.deliveries))
	for _, d := range r.deliveries {
		if filter.Provider != "" && d.Provider != filter.Provider {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, *d)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *WebhookRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = make(map[uuid.UUID]*domain.WebhookDelivery)
	return nil
}
