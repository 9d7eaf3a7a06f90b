package memory

import (
	"context"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

// StatusChangeRepository is append-only; entries are kept in insertion order.
type StatusChangeRepository struct {
	mu      sync.RWMutex
	ids     sequence
	entries []model.StatusChange
}

var _ repo.StatusChangeRepository = (*StatusChangeRepository)(nil)

func NewStatusChangeRepository() *StatusChangeRepository {
	return &StatusChangeRepository{}
}

func (r *StatusChangeRepository) Create(ctx context.Context, c *model.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.ids.NextID()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.entries = append(r.entries, *c)
	return nil
}

func (r *StatusChangeRepository) List(ctx context.Context, f repo.StatusChangeFilter) ([]model.StatusChange, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.StatusChange, 0)
	skipped := 0
	for _, c := range r.entries {
		if f.OrderID != nil && c.OrderID != *f.OrderID {
			continue
		}
		if f.Resource != nil && c.Resource != *f.Resource {
			continue
		}
		if f.CreatedFrom != nil && c.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		if f.CreatedTo != nil && c.CreatedAt.After(*f.CreatedTo) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		out = append(out, c)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
