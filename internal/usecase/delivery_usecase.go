package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type DeliveryUsecase struct {
	deliveries repo.DeliveryRepository
	orders     *OrderUsecase
	notifier   StatusNotifier
	clock      Clock
}

func NewDeliveryUsecase(deliveries repo.DeliveryRepository, orders *OrderUsecase, notifier StatusNotifier, clock Clock) *DeliveryUsecase {
	return &DeliveryUsecase{
		deliveries: deliveries,
		orders:     orders,
		notifier:   notifierOrNop(notifier),
		clock:      clock,
	}
}

// Create dispatches the order to its customer's current address.
func (u *DeliveryUsecase) Create(ctx context.Context, order *model.Order) (*model.Delivery, error) {
	now := u.clock.Now()
	d, err := model.NewDelivery(order, now)
	if err != nil {
		return nil, err
	}
	if err := u.deliveries.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create delivery: %w", err)
	}

	u.notifier.StatusChanged(ctx, model.DeliveryStatusChanged(d, "", now))
	return d, nil
}

// AssignCourier reports false when the delivery does not exist. The status
// goes back to ASSIGNED whatever it was.
func (u *DeliveryUsecase) AssignCourier(ctx context.Context, deliveryID int64, courier string) (bool, error) {
	if strings.TrimSpace(courier) == "" {
		return false, model.NewValidationError("courier", "must not be empty")
	}

	d, unlock, err := u.lockDelivery(ctx, deliveryID)
	if err != nil || d == nil {
		return false, err
	}
	defer unlock()

	prev := d.Status
	if err := d.AssignCourier(courier); err != nil {
		return false, err
	}
	if err := u.deliveries.Update(ctx, d); err != nil {
		return false, fmt.Errorf("update delivery %d: %w", deliveryID, err)
	}

	u.notifier.StatusChanged(ctx, model.DeliveryStatusChanged(d, prev, u.clock.Now()))
	return true, nil
}

// UpdateStatus assigns any status. DELIVERED stamps the actual minutes and
// marks the owning order DELIVERED too.
func (u *DeliveryUsecase) UpdateStatus(ctx context.Context, deliveryID int64, status model.DeliveryStatus) (bool, error) {
	if !status.Valid() {
		return false, model.NewValidationError("status", "unknown delivery status "+string(status))
	}

	d, unlock, err := u.lockDelivery(ctx, deliveryID)
	if err != nil || d == nil {
		return false, err
	}
	defer unlock()

	now := u.clock.Now()
	prev := d.SetStatus(status, now)
	if err := u.deliveries.Update(ctx, d); err != nil {
		return false, fmt.Errorf("update delivery %d: %w", deliveryID, err)
	}
	u.notifier.StatusChanged(ctx, model.DeliveryStatusChanged(d, prev, now))

	if status != model.DeliveryStatusDelivered {
		return true, nil
	}
	o, err := u.orders.load(ctx, d.OrderID)
	if errors.Is(err, ErrNotFound) {
		return true, nil
	}
	if err == nil {
		err = u.orders.setStatusLocked(ctx, o, model.OrderStatusDelivered)
	}
	if err != nil {
		return true, fmt.Errorf("mark order %d delivered: %w", d.OrderID, err)
	}
	return true, nil
}

// lockDelivery takes the owning order's lock and reads the delivery under it.
// A nil delivery with a nil error means it does not exist.
func (u *DeliveryUsecase) lockDelivery(ctx context.Context, deliveryID int64) (*model.Delivery, func(), error) {
	d, ok, err := found(u.deliveries.FindByID(ctx, deliveryID))
	if err != nil {
		return nil, nil, fmt.Errorf("find delivery %d: %w", deliveryID, err)
	}
	if !ok {
		return nil, nil, nil
	}

	unlock := u.orders.locks.Lock(d.OrderID)
	d, ok, err = found(u.deliveries.FindByID(ctx, deliveryID))
	if err != nil || !ok {
		unlock()
		if err != nil {
			err = fmt.Errorf("find delivery %d: %w", deliveryID, err)
		}
		return nil, nil, err
	}
	return d, unlock, nil
}

func (u *DeliveryUsecase) ActiveDeliveries(ctx context.Context) ([]model.Delivery, error) {
	deliveries, err := u.deliveries.List(ctx, repo.DeliveryFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list active deliveries: %w", err)
	}
	return deliveries, nil
}

func (u *DeliveryUsecase) ListDeliveries(ctx context.Context) ([]model.Delivery, error) {
	deliveries, err := u.deliveries.List(ctx, repo.DeliveryFilter{})
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}

func (u *DeliveryUsecase) FindDelivery(ctx context.Context, id int64) (*model.Delivery, bool, error) {
	return found(u.deliveries.FindByID(ctx, id))
}

func (u *DeliveryUsecase) ListForOrder(ctx context.Context, orderID int64) ([]model.Delivery, error) {
	deliveries, err := u.deliveries.List(ctx, repo.DeliveryFilter{OrderID: &orderID})
	if err != nil {
		return nil, fmt.Errorf("list deliveries for order %d: %w", orderID, err)
	}
	return deliveries, nil
}
