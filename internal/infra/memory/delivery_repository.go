package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type DeliveryRepository struct {
	mu  sync.RWMutex
	ids sequence
	m   map[int64]model.Delivery
}

var _ repo.DeliveryRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository() *DeliveryRepository {
	return &DeliveryRepository{m: make(map[int64]model.Delivery)}
}

func (r *DeliveryRepository) Create(ctx context.Context, d *model.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	d.ID = r.ids.NextID()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = d.CreatedAt
	r.m[d.ID] = *d
	return nil
}

func (r *DeliveryRepository) FindByID(ctx context.Context, id int64) (*model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &d, nil
}

func (r *DeliveryRepository) Update(ctx context.Context, d *model.Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[d.ID]; !ok {
		return repo.ErrNotFound
	}
	d.UpdatedAt = time.Now()
	r.m[d.ID] = *d
	return nil
}

func (r *DeliveryRepository) List(ctx context.Context, f repo.DeliveryFilter) ([]model.Delivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Delivery, 0)
	for _, d := range r.m {
		if f.OrderID != nil && d.OrderID != *f.OrderID {
			continue
		}
		if f.ActiveOnly && !d.Active() {
			continue
		}
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b model.Delivery) int { return compareID(a.ID, b.ID) })
	return out, nil
}
