package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
)

type CatalogUsecase struct {
	pizzas repo.PizzaRepository
}

func NewCatalogUsecase(pizzas repo.PizzaRepository) *CatalogUsecase {
	return &CatalogUsecase{pizzas: pizzas}
}

type AddPizzaInput struct {
	Name        string
	Ingredients []string
	Size        model.PizzaSize
	BasePrice   decimal.Decimal
	CookingTime int
}

func (u *CatalogUsecase) AddPizza(ctx context.Context, in AddPizzaInput) (*model.Pizza, error) {
	p, err := model.NewPizza(in.Name, in.Ingredients, in.Size, in.BasePrice, in.CookingTime)
	if err != nil {
		return nil, err
	}
	if err := u.pizzas.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create pizza: %w", err)
	}
	return p, nil
}

// RemovePizza reports false when the pizza is not on the menu.
func (u *CatalogUsecase) RemovePizza(ctx context.Context, id int64) (bool, error) {
	err := u.pizzas.SoftDelete(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove pizza %d: %w", id, err)
	}
	return true, nil
}

func (u *CatalogUsecase) FindPizza(ctx context.Context, id int64) (*model.Pizza, bool, error) {
	p, err := u.pizzas.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find pizza %d: %w", id, err)
	}
	return p, true, nil
}

func (u *CatalogUsecase) ListMenu(ctx context.Context) ([]model.Pizza, error) {
	pizzas, err := u.pizzas.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	return pizzas, nil
}

// AddIngredient ignores empty and duplicate ingredients; the pizza is
// returned unchanged in that case.
func (u *CatalogUsecase) AddIngredient(ctx context.Context, pizzaID int64, ingredient string) (*model.Pizza, error) {
	return u.editIngredients(ctx, pizzaID, func(p *model.Pizza) bool {
		return p.AddIngredient(ingredient)
	})
}

func (u *CatalogUsecase) RemoveIngredient(ctx context.Context, pizzaID int64, ingredient string) (*model.Pizza, error) {
	return u.editIngredients(ctx, pizzaID, func(p *model.Pizza) bool {
		return p.RemoveIngredient(ingredient)
	})
}

func (u *CatalogUsecase) editIngredients(ctx context.Context, pizzaID int64, edit func(p *model.Pizza) bool) (*model.Pizza, error) {
	p, err := u.pizzas.FindByID(ctx, pizzaID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("pizza", pizzaID)
	}
	if err != nil {
		return nil, fmt.Errorf("find pizza %d: %w", pizzaID, err)
	}

	if !edit(p) {
		return p, nil
	}
	if err := u.pizzas.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update pizza %d: %w", pizzaID, err)
	}
	return p, nil
}

var defaultMenu = []AddPizzaInput{
	{Name: "Margherita", Ingredients: []string{"tomato sauce", "mozzarella", "basil"}, Size: model.PizzaSizeMedium, BasePrice: decimal.NewFromInt(150), CookingTime: 15},
	{Name: "Pepperoni", Ingredients: []string{"tomato sauce", "mozzarella", "pepperoni"}, Size: model.PizzaSizeMedium, BasePrice: decimal.NewFromInt(180), CookingTime: 18},
	{Name: "Hawaiian", Ingredients: []string{"tomato sauce", "mozzarella", "ham", "pineapple"}, Size: model.PizzaSizeMedium, BasePrice: decimal.NewFromInt(200), CookingTime: 20},
	{Name: "Four Cheese", Ingredients: []string{"mozzarella", "gorgonzola", "parmesan", "emmental"}, Size: model.PizzaSizeMedium, BasePrice: decimal.NewFromInt(220), CookingTime: 16},
}

// SeedDefaultMenu fills an empty catalog with the house pizzas. A catalog
// that already has pizzas is left alone.
func (u *CatalogUsecase) SeedDefaultMenu(ctx context.Context) (int, error) {
	n, err := u.pizzas.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count pizzas: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for _, in := range defaultMenu {
		if _, err := u.AddPizza(ctx, in); err != nil {
			return 0, err
		}
	}
	slog.InfoContext(ctx, "Seeded default menu", slog.Int("pizzas", len(defaultMenu)))
	return len(defaultMenu), nil
}
