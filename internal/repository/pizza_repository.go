package repository

import (
	"context"
	"errors"

	"pizzeria/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// Catalog storage. Removed pizzas stay loadable through FindByIDUnscoped so
// existing order lines keep their pricing.
type PizzaRepository interface {
	Create(ctx context.Context, p *model.Pizza) error
	FindByID(ctx context.Context, id int64) (*model.Pizza, error)
	FindByIDUnscoped(ctx context.Context, id int64) (*model.Pizza, error)
	List(ctx context.Context) ([]model.Pizza, error)
	Update(ctx context.Context, p *model.Pizza) error
	SoftDelete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
