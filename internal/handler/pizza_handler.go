package handler

import (
	"net/http"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /pizzas: the menu.
type PizzaHandler struct {
	uc *usecase.CatalogUsecase
}

func NewPizzaHandler(uc *usecase.CatalogUsecase) *PizzaHandler {
	return &PizzaHandler{uc: uc}
}

type CreatePizzaRequest struct {
	Name        string          `json:"name" validate:"required"`
	Ingredients []string        `json:"ingredients" validate:"dive,required"`
	Size        string          `json:"size" validate:"required,pizzasize"`
	BasePrice   decimal.Decimal `json:"base_price"`
	CookingTime int             `json:"cooking_time_minutes" validate:"gt=0"`
}

type IngredientRequest struct {
	Ingredient string `json:"ingredient" validate:"required"`
}

// PizzaResponse adds the price in every size to the catalog entry.
type PizzaResponse struct {
	model.Pizza
	Price  decimal.Decimal                     `json:"price"`
	Prices map[model.PizzaSize]decimal.Decimal `json:"prices"`
}

func toPizzaResponse(p *model.Pizza) PizzaResponse {
	return PizzaResponse{
		Pizza: *p,
		Price: p.Price(),
		Prices: map[model.PizzaSize]decimal.Decimal{
			model.PizzaSizeSmall:  p.PriceFor(model.PizzaSizeSmall),
			model.PizzaSizeMedium: p.PriceFor(model.PizzaSizeMedium),
			model.PizzaSizeLarge:  p.PriceFor(model.PizzaSizeLarge),
		},
	}
}

func (h *PizzaHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/pizzas", h.list)
	g.POST("/pizzas", h.create)

	one := g.Group("/pizzas/:id", middleware.PathID("id"))
	one.GET("", h.detail)
	one.DELETE("", h.remove)
	one.POST("/ingredients", h.addIngredient)
	one.DELETE("/ingredients/:name", h.removeIngredient)
}

func (h *PizzaHandler) list(c echo.Context) error {
	pizzas, err := h.uc.ListMenu(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	out := make([]PizzaResponse, 0, len(pizzas))
	for i := range pizzas {
		out = append(out, toPizzaResponse(&pizzas[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *PizzaHandler) create(c echo.Context) error {
	var req CreatePizzaRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	size, _ := model.ParsePizzaSize(req.Size)

	p, err := h.uc.AddPizza(c.Request().Context(), usecase.AddPizzaInput{
		Name:        req.Name,
		Ingredients: req.Ingredients,
		Size:        size,
		BasePrice:   req.BasePrice,
		CookingTime: req.CookingTime,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toPizzaResponse(p))
}

func (h *PizzaHandler) detail(c echo.Context) error {
	id, _ := pathID(c, "id")

	p, ok, err := h.uc.FindPizza(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "pizza not found")
	}
	return c.JSON(http.StatusOK, toPizzaResponse(p))
}

func (h *PizzaHandler) remove(c echo.Context) error {
	id, _ := pathID(c, "id")

	ok, err := h.uc.RemovePizza(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "pizza not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *PizzaHandler) addIngredient(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req IngredientRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.AddIngredient(c.Request().Context(), id, req.Ingredient)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPizzaResponse(p))
}

func (h *PizzaHandler) removeIngredient(c echo.Context) error {
	id, _ := pathID(c, "id")

	p, err := h.uc.RemoveIngredient(c.Request().Context(), id, c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPizzaResponse(p))
}
