package usecase

import (
	"context"
	"errors"
	"fmt"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type OrderUsecase struct {
	orders    repo.OrderRepository
	customers repo.CustomerRepository
	pizzas    repo.PizzaRepository
	locks     *OrderLocks
	notifier  StatusNotifier
	clock     Clock
}

func NewOrderUsecase(
	orders repo.OrderRepository,
	customers repo.CustomerRepository,
	pizzas repo.PizzaRepository,
	locks *OrderLocks,
	notifier StatusNotifier,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{
		orders:    orders,
		customers: customers,
		pizzas:    pizzas,
		locks:     locks,
		notifier:  notifierOrNop(notifier),
		clock:     clock,
	}
}

type AddItemInput struct {
	PizzaID int64
	// Empty means the pizza's catalog size.
	Size     model.PizzaSize
	Quantity int64
}

func (u *OrderUsecase) CreateOrder(ctx context.Context, customerID int64) (*model.Order, error) {
	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, model.NewValidationError("customer_id", fmt.Sprintf("customer %d does not exist", customerID))
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", customerID, err)
	}

	now := u.clock.Now()
	o, err := model.NewOrder(c, now)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	u.notifier.StatusChanged(ctx, model.OrderStatusChanged(o, "", now))
	return o, nil
}

// AddItem merges into an existing line with the same pizza and size.
func (u *OrderUsecase) AddItem(ctx context.Context, orderID int64, in AddItemInput) (*model.Order, error) {
	if in.Quantity <= 0 {
		return nil, model.NewValidationError("quantity", "must be greater than 0")
	}

	unlock := u.locks.Lock(orderID)
	defer unlock()

	o, err := u.loadPending(ctx, orderID)
	if err != nil {
		return nil, err
	}

	p, err := u.pizzas.FindByID(ctx, in.PizzaID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, model.NewValidationError("pizza_id", fmt.Sprintf("pizza %d is not on the menu", in.PizzaID))
	}
	if err != nil {
		return nil, fmt.Errorf("find pizza %d: %w", in.PizzaID, err)
	}

	size := in.Size
	if size == "" {
		size = p.Size
	}
	if err := o.AddSizedItem(p, size, in.Quantity); err != nil {
		return nil, err
	}

	if err := u.orders.Save(ctx, o); err != nil {
		return nil, fmt.Errorf("save order %d: %w", orderID, err)
	}
	return o, nil
}

// RemoveItem reports false, without error, when the order has no such line.
func (u *OrderUsecase) RemoveItem(ctx context.Context, orderID, pizzaID int64, size model.PizzaSize) (*model.Order, bool, error) {
	unlock := u.locks.Lock(orderID)
	defer unlock()

	o, err := u.loadPending(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	if !o.RemoveItem(pizzaID, size) {
		return o, false, nil
	}

	if err := u.orders.Save(ctx, o); err != nil {
		return nil, false, fmt.Errorf("save order %d: %w", orderID, err)
	}
	return o, true, nil
}

// SetStatus assigns any status; no transition is refused.
func (u *OrderUsecase) SetStatus(ctx context.Context, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.NewValidationError("status", "unknown order status "+string(status))
	}

	unlock := u.locks.Lock(orderID)
	defer unlock()

	o, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := u.setStatusLocked(ctx, o, status); err != nil {
		return nil, err
	}
	return o, nil
}

// setStatusLocked expects the caller to hold the order's lock.
func (u *OrderUsecase) setStatusLocked(ctx context.Context, o *model.Order, status model.OrderStatus) error {
	prev := o.SetStatus(status)
	if err := u.orders.UpdateStatus(ctx, o.ID, status); err != nil {
		o.SetStatus(prev)
		return fmt.Errorf("update order %d status: %w", o.ID, err)
	}
	u.notifier.StatusChanged(ctx, model.OrderStatusChanged(o, prev, u.clock.Now()))
	return nil
}

func (u *OrderUsecase) FindOrder(ctx context.Context, id int64) (*model.Order, bool, error) {
	return found(u.orders.FindByID(ctx, id))
}

func (u *OrderUsecase) ListOrders(ctx context.Context, f repo.OrderFilter) ([]model.Order, error) {
	orders, err := u.orders.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (u *OrderUsecase) ListCustomerOrders(ctx context.Context, customerID int64) ([]model.Order, error) {
	if _, err := u.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, notFound("customer", customerID)
		}
		return nil, fmt.Errorf("find customer %d: %w", customerID, err)
	}
	return u.ListOrders(ctx, repo.OrderFilter{CustomerID: &customerID})
}

func (u *OrderUsecase) load(ctx context.Context, orderID int64) (*model.Order, error) {
	o, err := u.orders.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", orderID, err)
	}
	return o, nil
}

// Items only change before the kitchen has the order.
func (u *OrderUsecase) loadPending(ctx context.Context, orderID int64) (*model.Order, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status != model.OrderStatusPending {
		return nil, model.NewValidationError("status", fmt.Sprintf("order %d is %s, items can only change while PENDING", orderID, o.Status))
	}
	return o, nil
}
