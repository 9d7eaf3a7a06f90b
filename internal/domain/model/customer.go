package model

import (
	"strings"
	"time"
)

type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(30);not null;index" json:"phone"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Address   string    `gorm:"type:text;not null" json:"address"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func NewCustomer(name, phone, email, address string) (*Customer, error) {
	c := &Customer{
		Name:    strings.TrimSpace(name),
		Phone:   strings.TrimSpace(phone),
		Email:   strings.TrimSpace(email),
		Address: strings.TrimSpace(address),
	}
	switch {
	case c.Name == "":
		return nil, NewValidationError("name", "must not be empty")
	case c.Phone == "":
		return nil, NewValidationError("phone", "must not be empty")
	case c.Email == "":
		return nil, NewValidationError("email", "must not be empty")
	case c.Address == "":
		return nil, NewValidationError("address", "must not be empty")
	}
	return c, nil
}

// Update overwrites only the fields given a non-empty replacement.
func (c *Customer) Update(name, phone, email, address string) {
	if v := strings.TrimSpace(name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(email); v != "" {
		c.Email = v
	}
	if v := strings.TrimSpace(address); v != "" {
		c.Address = v
	}
}
