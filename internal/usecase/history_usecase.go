package usecase

import (
	"context"
	"fmt"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type HistoryUsecase struct {
	changes repo.StatusChangeRepository
	orders  *OrderUsecase
}

func NewHistoryUsecase(changes repo.StatusChangeRepository, orders *OrderUsecase) *HistoryUsecase {
	return &HistoryUsecase{changes: changes, orders: orders}
}

type HistoryQuery struct {
	Resource *model.StatusResource
	Limit    int
	Offset   int
}

// ForOrder lists the status changes of an order and of its payments and
// deliveries, oldest first.
func (u *HistoryUsecase) ForOrder(ctx context.Context, orderID int64, q HistoryQuery) ([]model.StatusChange, error) {
	if q.Limit < 0 || q.Offset < 0 {
		return nil, model.NewValidationError("limit", "limit and offset must not be negative")
	}
	if _, err := u.orders.load(ctx, orderID); err != nil {
		return nil, err
	}

	changes, err := u.changes.List(ctx, repo.StatusChangeFilter{
		OrderID:  &orderID,
		Resource: q.Resource,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list status changes of order %d: %w", orderID, err)
	}
	return changes, nil
}
