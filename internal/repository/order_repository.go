package repository

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
)

type OrderFilter struct {
	CustomerID *int64
	Status     *model.OrderStatus
	From       *time.Time
	To         *time.Time
}

// Orders are loaded with their customer and item pizzas hydrated.
type OrderRepository interface {
	Create(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id int64) (*model.Order, error)
	// Save replaces status and the full item list.
	Save(ctx context.Context, o *model.Order) error
	UpdateStatus(ctx context.Context, id int64, status model.OrderStatus) error
	List(ctx context.Context, f OrderFilter) ([]model.Order, error)
}
