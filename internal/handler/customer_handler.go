package handler

import (
	"net/http"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /customers
type CustomerHandler struct {
	uc     *usecase.CustomerUsecase
	orders *usecase.OrderUsecase
}

func NewCustomerHandler(uc *usecase.CustomerUsecase, orders *usecase.OrderUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc, orders: orders}
}

type RegisterCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required"`
}

// Omitted fields are left unchanged.
type UpdateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
}

func (h *CustomerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/customers", h.list)
	g.POST("/customers", h.register)

	one := g.Group("/customers/:id", middleware.PathID("id"))
	one.GET("", h.detail)
	one.PATCH("", h.update)
	one.GET("/orders", h.orderHistory)
}

// list returns every customer, or with ?phone= the first customer
// registered under that number.
func (h *CustomerHandler) list(c echo.Context) error {
	ctx := c.Request().Context()

	if phone := strings.TrimSpace(c.QueryParam("phone")); phone != "" {
		cust, ok, err := h.uc.FindByPhone(ctx, phone)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return c.JSON(http.StatusOK, []model.Customer{})
		}
		return c.JSON(http.StatusOK, []model.Customer{*cust})
	}

	customers, err := h.uc.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) register(c echo.Context) error {
	var req RegisterCustomerRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	cust, err := h.uc.Register(c.Request().Context(), usecase.RegisterCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cust)
}

func (h *CustomerHandler) detail(c echo.Context) error {
	id, _ := pathID(c, "id")

	cust, ok, err := h.uc.FindByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "customer not found")
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) update(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req UpdateCustomerRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	cust, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateCustomerInput{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

func (h *CustomerHandler) orderHistory(c echo.Context) error {
	id, _ := pathID(c, "id")

	orders, err := h.orders.ListCustomerOrders(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}
