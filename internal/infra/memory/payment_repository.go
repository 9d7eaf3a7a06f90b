package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type PaymentRepository struct {
	mu  sync.RWMutex
	ids sequence
	m   map[int64]model.Payment
}

var _ repo.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{m: make(map[int64]model.Payment)}
}

func (r *PaymentRepository) Create(ctx context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.ids.NextID()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = p.CreatedAt
	r.m[p.ID] = *p
	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *model.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[p.ID]; !ok {
		return repo.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.m[p.ID] = *p
	return nil
}

func (r *PaymentRepository) List(ctx context.Context, f repo.PaymentFilter) ([]model.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Payment, 0)
	for _, p := range r.m {
		if f.OrderID != nil && p.OrderID != *f.OrderID {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.From != nil && p.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && p.CreatedAt.After(*f.To) {
			continue
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b model.Payment) int { return compareID(a.ID, b.ID) })
	return out, nil
}
