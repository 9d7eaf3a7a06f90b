package repository

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
)

// Status history filter. Zero Limit means no limit.
type StatusChangeFilter struct {
	OrderID     *int64
	Resource    *model.StatusResource
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// Append-only status history.
type StatusChangeRepository interface {
	Create(ctx context.Context, c *model.StatusChange) error
	List(ctx context.Context, f StatusChangeFilter) ([]model.StatusChange, error)
}
