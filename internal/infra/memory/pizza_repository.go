package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type PizzaRepository struct {
	mu  sync.RWMutex
	ids sequence
	m   map[int64]model.Pizza
}

var _ repo.PizzaRepository = (*PizzaRepository)(nil)

func NewPizzaRepository() *PizzaRepository {
	return &PizzaRepository{m: make(map[int64]model.Pizza)}
}

func (r *PizzaRepository) Create(ctx context.Context, p *model.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.ids.NextID()
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	r.m[p.ID] = p.Clone()
	return nil
}

func (r *PizzaRepository) FindByID(ctx context.Context, id int64) (*model.Pizza, error) {
	p, err := r.FindByIDUnscoped(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Removed() {
		return nil, repo.ErrNotFound
	}
	return p, nil
}

func (r *PizzaRepository) FindByIDUnscoped(ctx context.Context, id int64) (*model.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.m[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := p.Clone()
	return &cp, nil
}

func (r *PizzaRepository) List(ctx context.Context) ([]model.Pizza, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Pizza, 0, len(r.m))
	for _, p := range r.m {
		if p.Removed() {
			continue
		}
		out = append(out, p.Clone())
	}
	slices.SortFunc(out, func(a, b model.Pizza) int { return compareID(a.ID, b.ID) })
	return out, nil
}

func (r *PizzaRepository) Update(ctx context.Context, p *model.Pizza) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.m[p.ID]
	if !ok || cur.Removed() {
		return repo.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	r.m[p.ID] = p.Clone()
	return nil
}

func (r *PizzaRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.m[id]
	if !ok || p.Removed() {
		return repo.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	r.m[id] = p
	return nil
}

func (r *PizzaRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, p := range r.m {
		if !p.Removed() {
			n++
		}
	}
	return n, nil
}

func compareID(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
