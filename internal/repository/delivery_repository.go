package repository

import (
	"context"

	"pizzeria/internal/domain/model"
)

type DeliveryFilter struct {
	OrderID    *int64
	ActiveOnly bool
}

type DeliveryRepository interface {
	Create(ctx context.Context, d *model.Delivery) error
	FindByID(ctx context.Context, id int64) (*model.Delivery, error)
	Update(ctx context.Context, d *model.Delivery) error
	List(ctx context.Context, f DeliveryFilter) ([]model.Delivery, error)
}
