package handler

import (
	"net/http"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

type RefundResponse struct {
	Refunded bool           `json:"refunded"`
	Payment  *model.Payment `json:"payment"`
}

func (h *PaymentHandler) RegisterRoutes(g *echo.Group) {
	one := g.Group("/payments/:id", middleware.PathID("id"))
	one.GET("", h.detail)
	one.POST("/refund", h.refund)
}

func (h *PaymentHandler) detail(c echo.Context) error {
	id, _ := pathID(c, "id")

	p, ok, err := h.uc.FindPayment(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "payment not found")
	}
	return c.JSON(http.StatusOK, p)
}

// refund answers 200 with refunded=false when the payment was not COMPLETED.
func (h *PaymentHandler) refund(c echo.Context) error {
	ctx := c.Request().Context()
	id, _ := pathID(c, "id")

	refunded, err := h.uc.Refund(ctx, id)
	if err != nil {
		return writeError(c, err)
	}

	p, _, err := h.uc.FindPayment(ctx, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, RefundResponse{Refunded: refunded, Payment: p})
}
