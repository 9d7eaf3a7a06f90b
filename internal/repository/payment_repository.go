package repository

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
)

type PaymentFilter struct {
	OrderID *int64
	Status  *model.PaymentStatus
	From    *time.Time
	To      *time.Time
}

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	FindByID(ctx context.Context, id int64) (*model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	List(ctx context.Context, f PaymentFilter) ([]model.Payment, error)
}
