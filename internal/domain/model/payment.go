package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodOnline PaymentMethod = "ONLINE"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

func ParsePaymentMethod(v string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(v)))
	return m, m.Valid()
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	// Failed also covers refunded payments.
	PaymentStatusFailed PaymentStatus = "FAILED"
)

type Payment struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Method        PaymentMethod   `gorm:"type:varchar(20);not null" json:"method"`
	Status        PaymentStatus   `gorm:"type:varchar(20);not null;index" json:"status"`
	TransactionID string          `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// NewPayment fixes the amount to the order total at this instant.
func NewPayment(order *Order, method PaymentMethod, now time.Time) (*Payment, error) {
	if order == nil {
		return nil, NewValidationError("order", "is required")
	}
	if order.IsEmpty() {
		return nil, NewValidationError("order", "has no items")
	}
	if !method.Valid() {
		return nil, NewValidationError("payment_method", "unknown method "+string(method))
	}
	amount := order.Total()
	if !amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than 0")
	}
	return &Payment{
		OrderID:   order.ID,
		Amount:    amount,
		Method:    method,
		Status:    PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Resolve moves a pending payment to Completed or Failed. It reports false
// when the payment was already resolved.
func (p *Payment) Resolve(success bool, transactionID string) bool {
	if p.Status != PaymentStatusPending {
		return false
	}
	if success {
		p.Status = PaymentStatusCompleted
		p.TransactionID = transactionID
	} else {
		p.Status = PaymentStatusFailed
	}
	return true
}

// Refund reverses a completed payment. The refunded state is stored as Failed.
func (p *Payment) Refund() bool {
	if p.Status != PaymentStatusCompleted {
		return false
	}
	p.Status = PaymentStatusFailed
	return true
}
