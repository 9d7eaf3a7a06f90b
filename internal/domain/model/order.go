package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCooking   OrderStatus = "COOKING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusCooking, OrderStatusReady, OrderStatusDelivered:
		return true
	}
	return false
}

type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64       `gorm:"not null;index" json:"customer_id"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt  time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func NewOrder(customer *Customer, now time.Time) (*Order, error) {
	if customer == nil {
		return nil, NewValidationError("customer", "is required")
	}
	return &Order{
		CustomerID: customer.ID,
		Customer:   customer,
		Items:      []OrderItem{},
		Status:     OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddItem adds the pizza in its catalog size.
func (o *Order) AddItem(p *Pizza, qty int64) error {
	if p == nil {
		return NewValidationError("pizza", "is required")
	}
	return o.AddSizedItem(p, p.Size, qty)
}

// AddSizedItem merges into an existing line with the same pizza and size
// instead of appending a second one.
func (o *Order) AddSizedItem(p *Pizza, size PizzaSize, qty int64) error {
	if p == nil {
		return NewValidationError("pizza", "is required")
	}
	if qty <= 0 {
		return NewValidationError("quantity", "must be greater than 0")
	}
	if !size.Valid() {
		return NewValidationError("size", "unknown size "+string(size))
	}

	for i := range o.Items {
		if o.Items[i].PizzaID == p.ID && o.Items[i].Size == size {
			o.Items[i].Quantity += qty
			return nil
		}
	}

	o.Items = append(o.Items, OrderItem{
		OrderID:  o.ID,
		PizzaID:  p.ID,
		Pizza:    p,
		Size:     size,
		Quantity: qty,
	})
	return nil
}

// RemoveItem drops the line for pizza+size. Absent lines are a no-op.
func (o *Order) RemoveItem(pizzaID int64, size PizzaSize) bool {
	for i := range o.Items {
		if o.Items[i].PizzaID == pizzaID && o.Items[i].Size == size {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return true
		}
	}
	return false
}

func (o *Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// Total is recomputed on every call; prices are not snapshotted.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (o *Order) MaxCookingTime() int {
	longest := 0
	for _, it := range o.Items {
		longest = max(longest, it.CookingTime())
	}
	return longest
}

// SetStatus assigns any status unconditionally and returns the previous one.
func (o *Order) SetStatus(next OrderStatus) OrderStatus {
	prev := o.Status
	o.Status = next
	return prev
}

// Clone deep-copies the item slice; pizzas and customer are shared.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}
