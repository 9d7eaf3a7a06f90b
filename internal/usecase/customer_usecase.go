package usecase

import (
	"context"
	"errors"
	"fmt"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
)

type CustomerUsecase struct {
	customers repo.CustomerRepository
}

func NewCustomerUsecase(customers repo.CustomerRepository) *CustomerUsecase {
	return &CustomerUsecase{customers: customers}
}

type RegisterCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Empty fields keep their current value.
type UpdateCustomerInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Register does not enforce unique phone numbers.
func (u *CustomerUsecase) Register(ctx context.Context, in RegisterCustomerInput) (*model.Customer, error) {
	c, err := model.NewCustomer(in.Name, in.Phone, in.Email, in.Address)
	if err != nil {
		return nil, err
	}
	if err := u.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return c, nil
}

func (u *CustomerUsecase) FindByID(ctx context.Context, id int64) (*model.Customer, bool, error) {
	return found(u.customers.FindByID(ctx, id))
}

// FindByPhone returns the earliest registered customer with that phone.
func (u *CustomerUsecase) FindByPhone(ctx context.Context, phone string) (*model.Customer, bool, error) {
	return found(u.customers.FindByPhone(ctx, phone))
}

func (u *CustomerUsecase) Update(ctx context.Context, id int64, in UpdateCustomerInput) (*model.Customer, error) {
	c, err := u.customers.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("customer", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find customer %d: %w", id, err)
	}

	c.Update(in.Name, in.Phone, in.Email, in.Address)
	if err := u.customers.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return c, nil
}

func (u *CustomerUsecase) List(ctx context.Context) ([]model.Customer, error) {
	customers, err := u.customers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// found turns a repository lookup into the (value, found, error) shape.
func found[T any](v *T, err error) (*T, bool, error) {
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
