package memory

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

// OrderRepository keeps orders with bare references and hydrates the
// customer and item pizzas from the sibling repositories on every load.
type OrderRepository struct {
	mu        sync.RWMutex
	ids       sequence
	itemIDs   sequence
	m         map[int64]model.Order
	pizzas    *PizzaRepository
	customers *CustomerRepository
}

var _ repo.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(pizzas *PizzaRepository, customers *CustomerRepository) *OrderRepository {
	return &OrderRepository{
		m:         make(map[int64]model.Order),
		pizzas:    pizzas,
		customers: customers,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o.ID = r.ids.NextID()
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	r.assignItemIDs(o)
	r.m[o.ID] = detach(*o)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	r.mu.RLock()
	o, ok := r.m[id]
	r.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}

	out, err := r.hydrate(ctx, o)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OrderRepository) Save(ctx context.Context, o *model.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.m[o.ID]
	if !ok {
		return repo.ErrNotFound
	}
	o.UpdatedAt = time.Now()
	r.assignItemIDs(o)

	next := detach(*o)
	next.CustomerID = cur.CustomerID
	next.CreatedAt = cur.CreatedAt
	r.m[o.ID] = next
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.m[id]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.m[id] = o
	return nil
}

func (r *OrderRepository) List(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	r.mu.RLock()
	matched := make([]model.Order, 0, len(r.m))
	for _, o := range r.m {
		if matchOrder(o, f) {
			matched = append(matched, o.Clone())
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(matched, func(a, b model.Order) int { return compareID(a.ID, b.ID) })

	out := make([]model.Order, 0, len(matched))
	for _, o := range matched {
		h, err := r.hydrate(ctx, o)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

func matchOrder(o model.Order, f repo.OrderFilter) bool {
	if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && o.CreatedAt.After(*f.To) {
		return false
	}
	return true
}

func (r *OrderRepository) assignItemIDs(o *model.Order) {
	for i := range o.Items {
		if o.Items[i].ID == 0 {
			o.Items[i].ID = r.itemIDs.NextID()
		}
		if o.Items[i].CreatedAt.IsZero() {
			o.Items[i].CreatedAt = o.UpdatedAt
		}
		o.Items[i].OrderID = o.ID
	}
}

// detach strips the hydrated pointers so stored orders never share state
// with callers.
func detach(o model.Order) model.Order {
	o = o.Clone()
	o.Customer = nil
	for i := range o.Items {
		o.Items[i].Pizza = nil
	}
	return o
}

func (r *OrderRepository) hydrate(ctx context.Context, o model.Order) (model.Order, error) {
	o = o.Clone()

	c, err := r.customers.FindByID(ctx, o.CustomerID)
	switch {
	case err == nil:
		o.Customer = c
	case !errors.Is(err, repo.ErrNotFound):
		return model.Order{}, err
	}

	for i := range o.Items {
		p, err := r.pizzas.FindByIDUnscoped(ctx, o.Items[i].PizzaID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue
			}
			return model.Order{}, err
		}
		o.Items[i].Pizza = p
	}
	return o, nil
}
