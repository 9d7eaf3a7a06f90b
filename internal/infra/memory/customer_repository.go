package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type CustomerRepository struct {
	mu  sync.RWMutex
	ids sequence
	m   map[int64]model.Customer
}

var _ repo.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{m: make(map[int64]model.Customer)}
}

func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.ids.NextID()
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.m[c.ID] = *c
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range all {
		if c.Phone == phone {
			return &c, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *CustomerRepository) List(ctx context.Context) ([]model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Customer, 0, len(r.m))
	for _, c := range r.m {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b model.Customer) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.m[c.ID]; !ok {
		return repo.ErrNotFound
	}
	c.UpdatedAt = time.Now()
	r.m[c.ID] = *c
	return nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.m)), nil
}
