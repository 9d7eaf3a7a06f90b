package model

import "time"

// Which entity a status change belongs to.
type StatusResource string

const (
	StatusResourceOrder    StatusResource = "order"
	StatusResourcePayment  StatusResource = "payment"
	StatusResourceDelivery StatusResource = "delivery"
)

// StatusChange records one status assignment ("what", "on which entity",
// "from", "to"). Assignments to the same value are recorded too.
type StatusChange struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Resource   StatusResource `gorm:"type:varchar(20);not null;index" json:"resource"`
	ResourceID int64          `gorm:"not null;index" json:"resource_id"`
	OrderID    int64          `gorm:"not null;index" json:"order_id"`
	From       string         `gorm:"type:varchar(20)" json:"from"`
	To         string         `gorm:"type:varchar(20);not null" json:"to"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func OrderStatusChanged(o *Order, from OrderStatus, at time.Time) StatusChange {
	return StatusChange{
		Resource:   StatusResourceOrder,
		ResourceID: o.ID,
		OrderID:    o.ID,
		From:       string(from),
		To:         string(o.Status),
		CreatedAt:  at,
	}
}

func PaymentStatusChanged(p *Payment, from PaymentStatus, at time.Time) StatusChange {
	return StatusChange{
		Resource:   StatusResourcePayment,
		ResourceID: p.ID,
		OrderID:    p.OrderID,
		From:       string(from),
		To:         string(p.Status),
		CreatedAt:  at,
	}
}

func DeliveryStatusChanged(d *Delivery, from DeliveryStatus, at time.Time) StatusChange {
	return StatusChange{
		Resource:   StatusResourceDelivery,
		ResourceID: d.ID,
		OrderID:    d.OrderID,
		From:       string(from),
		To:         string(d.Status),
		CreatedAt:  at,
	}
}
