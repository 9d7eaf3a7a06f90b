package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. Pizza is hydrated by the store on load
// so the subtotal always follows the current catalog price.
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	PizzaID   int64     `gorm:"not null;index" json:"pizza_id"`
	Pizza     *Pizza    `gorm:"foreignKey:PizzaID" json:"pizza,omitempty"`
	Size      PizzaSize `gorm:"type:varchar(20);not null" json:"size"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (i OrderItem) UnitPrice() decimal.Decimal {
	if i.Pizza == nil {
		return decimal.Zero
	}
	return i.Pizza.PriceFor(i.Size)
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(i.Quantity))
}

func (i OrderItem) CookingTime() int {
	if i.Pizza == nil {
		return 0
	}
	return i.Pizza.CookingTime
}
