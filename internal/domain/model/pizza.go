package model

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PizzaSize string

const (
	PizzaSizeSmall  PizzaSize = "SMALL"
	PizzaSizeMedium PizzaSize = "MEDIUM"
	PizzaSizeLarge  PizzaSize = "LARGE"
)

var sizeMultipliers = map[PizzaSize]decimal.Decimal{
	PizzaSizeSmall:  decimal.RequireFromString("0.8"),
	PizzaSizeMedium: decimal.RequireFromString("1.0"),
	PizzaSizeLarge:  decimal.RequireFromString("1.3"),
}

func (s PizzaSize) Valid() bool {
	_, ok := sizeMultipliers[s]
	return ok
}

// ParsePizzaSize accepts any letter case.
func ParsePizzaSize(v string) (PizzaSize, bool) {
	s := PizzaSize(strings.ToUpper(strings.TrimSpace(v)))
	return s, s.Valid()
}

// PriceFor applies the size multiplier to a base price. Unknown sizes are
// priced at the base price.
func PriceFor(base decimal.Decimal, size PizzaSize) decimal.Decimal {
	m, ok := sizeMultipliers[size]
	if !ok {
		return base
	}
	return base.Mul(m)
}

type Pizza struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Ingredients []string        `gorm:"serializer:json" json:"ingredients"`
	Size        PizzaSize       `gorm:"type:varchar(20);not null" json:"size"`
	BasePrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"base_price"`
	CookingTime int             `gorm:"not null" json:"cooking_time_minutes"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// NewPizza validates the catalog invariants and returns an unsaved pizza.
func NewPizza(name string, ingredients []string, size PizzaSize, basePrice decimal.Decimal, cookingTime int) (*Pizza, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "must not be empty")
	}
	if !size.Valid() {
		return nil, NewValidationError("size", "unknown size "+string(size))
	}
	if !basePrice.IsPositive() {
		return nil, NewValidationError("base_price", "must be greater than 0")
	}
	if cookingTime <= 0 {
		return nil, NewValidationError("cooking_time", "must be greater than 0")
	}

	list := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			return nil, NewValidationError("ingredients", "must not contain empty entries")
		}
		if slices.Contains(list, ing) {
			return nil, NewValidationError("ingredients", "duplicate ingredient "+ing)
		}
		list = append(list, ing)
	}

	return &Pizza{
		Name:        name,
		Ingredients: list,
		Size:        size,
		BasePrice:   basePrice,
		CookingTime: cookingTime,
	}, nil
}

// Price is the catalog price of the pizza in its own size.
func (p *Pizza) Price() decimal.Decimal {
	return PriceFor(p.BasePrice, p.Size)
}

// PriceFor prices the pizza in another size.
func (p *Pizza) PriceFor(size PizzaSize) decimal.Decimal {
	return PriceFor(p.BasePrice, size)
}

// AddIngredient ignores empty and already present ingredients.
func (p *Pizza) AddIngredient(ingredient string) bool {
	ingredient = strings.TrimSpace(ingredient)
	if ingredient == "" || slices.Contains(p.Ingredients, ingredient) {
		return false
	}
	p.Ingredients = append(p.Ingredients, ingredient)
	return true
}

func (p *Pizza) RemoveIngredient(ingredient string) bool {
	i := slices.Index(p.Ingredients, strings.TrimSpace(ingredient))
	if i < 0 {
		return false
	}
	p.Ingredients = slices.Delete(p.Ingredients, i, i+1)
	return true
}

func (p *Pizza) Removed() bool {
	return p.DeletedAt.Valid
}

// Clone copies the ingredient slice so the copy can be mutated independently.
func (p Pizza) Clone() Pizza {
	p.Ingredients = slices.Clone(p.Ingredients)
	return p
}
