package model

import (
	"strings"
	"time"
)

type DeliveryStatus string

const (
	DeliveryStatusAssigned   DeliveryStatus = "ASSIGNED"
	DeliveryStatusInProgress DeliveryStatus = "IN_PROGRESS"
	DeliveryStatusDelivered  DeliveryStatus = "DELIVERED"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusAssigned, DeliveryStatusInProgress, DeliveryStatusDelivered:
		return true
	}
	return false
}

// BaseDeliveryMinutes is added to the longest cooking time of an order.
const BaseDeliveryMinutes = 20

type Delivery struct {
	ID               int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64          `gorm:"not null;index" json:"order_id"`
	Courier          string         `gorm:"type:varchar(255)" json:"courier,omitempty"`
	Address          string         `gorm:"type:text;not null" json:"address"`
	EstimatedMinutes int            `gorm:"not null" json:"estimated_minutes"`
	ActualMinutes    int            `gorm:"not null;default:0" json:"actual_minutes"`
	Status           DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt        time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func EstimateDeliveryMinutes(order *Order) int {
	return BaseDeliveryMinutes + order.MaxCookingTime()
}

// NewDelivery copies the customer's current address; later address changes
// do not reach the delivery.
func NewDelivery(order *Order, now time.Time) (*Delivery, error) {
	if order == nil {
		return nil, NewValidationError("order", "is required")
	}
	if order.Customer == nil {
		return nil, NewValidationError("order", "has no customer")
	}
	return &Delivery{
		OrderID:          order.ID,
		Address:          order.Customer.Address,
		EstimatedMinutes: EstimateDeliveryMinutes(order),
		Status:           DeliveryStatusAssigned,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// AssignCourier always resets the status to Assigned.
func (d *Delivery) AssignCourier(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError("courier", "must not be empty")
	}
	d.Courier = name
	d.Status = DeliveryStatusAssigned
	return nil
}

// SetStatus assigns any status. Delivered stamps the whole minutes elapsed
// since creation.
func (d *Delivery) SetStatus(next DeliveryStatus, now time.Time) DeliveryStatus {
	prev := d.Status
	d.Status = next
	if next == DeliveryStatusDelivered {
		d.ActualMinutes = int(now.Sub(d.CreatedAt).Minutes())
	}
	return prev
}

func (d *Delivery) Active() bool {
	return d.Status != DeliveryStatusDelivered
}
