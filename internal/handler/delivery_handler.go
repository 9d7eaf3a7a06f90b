package handler

import (
	"net/http"
	"strconv"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

type AssignCourierRequest struct {
	Courier string `json:"courier" validate:"required"`
}

type DeliveryStatusRequest struct {
	Status string `json:"status" validate:"required,deliverystatus"`
}

func (h *DeliveryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/deliveries", h.list)

	one := g.Group("/deliveries/:id", middleware.PathID("id"))
	one.GET("", h.detail)
	one.PUT("/courier", h.assignCourier)
	one.PATCH("/status", h.updateStatus)
}

// list honours ?active=true.
func (h *DeliveryHandler) list(c echo.Context) error {
	ctx := c.Request().Context()

	active := false
	if v := c.QueryParam("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return invalidParam(c, "active")
		}
		active = b
	}

	var (
		deliveries []model.Delivery
		err        error
	)
	if active {
		deliveries, err = h.uc.ActiveDeliveries(ctx)
	} else {
		deliveries, err = h.uc.ListDeliveries(ctx)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, deliveries)
}

func (h *DeliveryHandler) detail(c echo.Context) error {
	id, _ := pathID(c, "id")

	d, ok, err := h.uc.FindDelivery(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "delivery not found")
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DeliveryHandler) assignCourier(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req AssignCourierRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	ok, err := h.uc.AssignCourier(c.Request().Context(), id, req.Courier)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "delivery not found")
	}
	return h.detail(c)
}

func (h *DeliveryHandler) updateStatus(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req DeliveryStatusRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	ok, err := h.uc.UpdateStatus(c.Request().Context(), id, model.DeliveryStatus(strings.ToUpper(req.Status)))
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "delivery not found")
	}
	return h.detail(c)
}
