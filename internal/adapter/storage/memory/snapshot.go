package memory

import (
	"sort"

	"mockpay/internal/core/domain"

	"github.com/google/uuid"
)

// Snapshot and Load let a persistent backend keep these stores as its
// working set. Load replaces the current contents.

func (s *SettingsStore) Snapshot() map[string][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]byte, len(s.values))
	for k, v := range s.values {
		out[k] = clone(v)
	}
	return out
}

func (s *SettingsStore) Load(values map[string][]byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string][]byte, len(values))
	for k, v := range values {
		s.values[k] = clone(v)
	}
}

// Snapshot returns every transaction ordered by creation time.
func (r *TransactionRepo) Snapshot() []domain.Transaction {
	r.mu.RLock()
	out := make([]domain.Transaction, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, *t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *TransactionRepo) Load(txns []domain.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[uuid.UUID]*domain.Transaction, len(txns))
	r.byRef = make(map[referenceKey]uuid.UUID, len(txns))
	for i := range txns {
		t := txns[i]
		r.byID[t.ID] = &t
		r.byRef[referenceKey{t.Provider, t.Reference}] = t.ID
	}
}

func (r *TransferRepo) Snapshot() []domain.Transfer {
	r.mu.RLock()
	out := make([]domain.Transfer, 0, len(r.transfers))
	for _, t := range r.transfers {
		out = append(out, *t)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *TransferRepo) Load(transfers []domain.Transfer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transfers = make(map[referenceKey]*domain.Transfer, len(transfers))
	for i := range transfers {
		t := transfers[i]
		r.transfers[referenceKey{t.Provider, t.Reference}] = &t
	}
}

func (r *WebhookRepo) Snapshot() []domain.WebhookDelivery {
	r.mu.RLock()
	out := make([]domain.WebhookDelivery, 0, len(r.deliveries))
	for _, d := range r.deliveries {
		out = append(out, *d)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *WebhookRepo) Load(deliveries []domain.WebhookDelivery) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = make(map[uuid.UUID]*domain.WebhookDelivery, len(deliveries))
	for i := range deliveries {
		d := deliveries[i]
		r.deliveries[d.ID] = &d
	}
}

// Load keeps only the newest entries that fit the capacity.
func (r *LogRepo) Load(entries []domain.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(entries) > r.capacity {
		entries = entries[len(entries)-r.capacity:]
	}
	r.entries = append([]domain.LogEntry(nil), entries...)
}
