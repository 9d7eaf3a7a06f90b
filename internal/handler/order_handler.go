package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	repo "pizzeria/internal/repository"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /orders: the aggregate, its processing and everything hanging off one order.
type OrderHandler struct {
	orders     *usecase.OrderUsecase
	processor  *usecase.OrderProcessor
	payments   *usecase.PaymentUsecase
	deliveries *usecase.DeliveryUsecase
	history    *usecase.HistoryUsecase
}

func NewOrderHandler(
	orders *usecase.OrderUsecase,
	processor *usecase.OrderProcessor,
	payments *usecase.PaymentUsecase,
	deliveries *usecase.DeliveryUsecase,
	history *usecase.HistoryUsecase,
) *OrderHandler {
	return &OrderHandler{
		orders:     orders,
		processor:  processor,
		payments:   payments,
		deliveries: deliveries,
		history:    history,
	}
}

type CreateOrderRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
}

type AddItemRequest struct {
	PizzaID int64 `json:"pizza_id" validate:"required,gt=0"`
	// empty means the pizza's catalog size
	Size     string `json:"size" validate:"omitempty,pizzasize"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,orderstatus"`
}

type ProcessOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,paymentmethod"`
}

type OrderItemResponse struct {
	ID        int64           `json:"id"`
	PizzaID   int64           `json:"pizza_id"`
	Name      string          `json:"name"`
	Size      model.PizzaSize `json:"size"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	CustomerID int64               `json:"customer_id"`
	Status     model.OrderStatus   `json:"status"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ProcessOrderResponse struct {
	Processed bool            `json:"processed"`
	Order     *OrderResponse  `json:"order"`
	Payment   *model.Payment  `json:"payment"`
	Delivery  *model.Delivery `json:"delivery"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		name := ""
		if it.Pizza != nil {
			name = it.Pizza.Name
		}
		items = append(items, OrderItemResponse{
			ID:        it.ID,
			PizzaID:   it.PizzaID,
			Name:      name,
			Size:      it.Size,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
			Subtotal:  it.Subtotal(),
		})
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		Status:     o.Status,
		Items:      items,
		Total:      o.Total(),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

func toOrderResponses(orders []model.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderResponse(&orders[i]))
	}
	return out
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/orders", h.list)
	g.POST("/orders", h.create)

	one := g.Group("/orders/:id", middleware.PathID("id"))
	one.GET("", h.detail)
	one.POST("/items", h.addItem)
	one.DELETE("/items/:pizzaId", h.removeItem)
	one.PATCH("/status", h.setStatus)
	one.POST("/process", h.process)
	one.GET("/payments", h.listPayments)
	one.GET("/deliveries", h.listDeliveries)
	one.GET("/history", h.statusHistory)
}

func (h *OrderHandler) list(c echo.Context) error {
	var f repo.OrderFilter

	if v := c.QueryParam("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return invalidParam(c, "customer_id")
		}
		f.CustomerID = &id
	}
	if v := c.QueryParam("status"); v != "" {
		s := model.OrderStatus(strings.ToUpper(v))
		if !s.Valid() {
			return invalidParam(c, "status")
		}
		f.Status = &s
	}
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return invalidParam(c, "from")
		}
		f.From = &tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return invalidParam(c, "to")
		}
		f.To = &tm
	}

	orders, err := h.orders.ListOrders(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

func (h *OrderHandler) create(c echo.Context) error {
	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.orders.CreateOrder(c.Request().Context(), req.CustomerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(o))
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, _ := pathID(c, "id")

	o, ok, err := h.orders.FindOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !ok {
		return notFound(c, "order not found")
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) addItem(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req AddItemRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	var size model.PizzaSize
	if req.Size != "" {
		size, _ = model.ParsePizzaSize(req.Size)
	}

	o, err := h.orders.AddItem(c.Request().Context(), id, usecase.AddItemInput{
		PizzaID:  req.PizzaID,
		Size:     size,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// removeItem needs ?size= since one pizza may be on the order in several sizes.
func (h *OrderHandler) removeItem(c echo.Context) error {
	id, _ := pathID(c, "id")

	pizzaID, ok := pathID(c, "pizzaId")
	if !ok {
		return invalidParam(c, "pizzaId")
	}
	size, ok := model.ParsePizzaSize(c.QueryParam("size"))
	if !ok {
		return invalidParam(c, "size")
	}

	o, removed, err := h.orders.RemoveItem(c.Request().Context(), id, pizzaID, size)
	if err != nil {
		return writeError(c, err)
	}
	if !removed {
		return notFound(c, "order item not found")
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

func (h *OrderHandler) setStatus(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req OrderStatusRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	o, err := h.orders.SetStatus(c.Request().Context(), id, model.OrderStatus(strings.ToUpper(req.Status)))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// process answers 200 whatever the outcome; the body says whether a
// delivery was created.
func (h *OrderHandler) process(c echo.Context) error {
	id, _ := pathID(c, "id")

	var req ProcessOrderRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	method, _ := model.ParsePaymentMethod(req.PaymentMethod)

	res := h.processor.Process(c.Request().Context(), id, method)
	if res.Order == nil && !res.Processed {
		// distinguish a missing order from a refused one
		_, ok, err := h.orders.FindOrder(c.Request().Context(), id)
		if err != nil {
			return writeError(c, err)
		}
		if !ok {
			return notFound(c, "order not found")
		}
	}

	out := ProcessOrderResponse{
		Processed: res.Processed,
		Payment:   res.Payment,
		Delivery:  res.Delivery,
	}
	if res.Order != nil {
		o := toOrderResponse(res.Order)
		out.Order = &o
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) listPayments(c echo.Context) error {
	id, ok, err := h.requireOrder(c)
	if !ok {
		return err
	}

	payments, err := h.payments.ListForOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *OrderHandler) listDeliveries(c echo.Context) error {
	id, ok, err := h.requireOrder(c)
	if !ok {
		return err
	}

	deliveries, err := h.deliveries.ListForOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, deliveries)
}

// statusHistory supports ?resource=order|payment|delivery&limit=&offset=.
func (h *OrderHandler) statusHistory(c echo.Context) error {
	id, _ := pathID(c, "id")

	var q usecase.HistoryQuery
	if v := c.QueryParam("resource"); v != "" {
		r := model.StatusResource(strings.ToLower(v))
		switch r {
		case model.StatusResourceOrder, model.StatusResourcePayment, model.StatusResourceDelivery:
		default:
			return invalidParam(c, "resource")
		}
		q.Resource = &r
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidParam(c, "limit")
		}
		q.Limit = n
	}
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidParam(c, "offset")
		}
		q.Offset = n
	}

	changes, err := h.history.ForOrder(c.Request().Context(), id, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, changes)
}

// requireOrder writes the 404 itself; callers return err when ok is false.
func (h *OrderHandler) requireOrder(c echo.Context) (int64, bool, error) {
	id, _ := pathID(c, "id")

	_, ok, err := h.orders.FindOrder(c.Request().Context(), id)
	if err != nil {
		return 0, false, writeError(c, err)
	}
	if !ok {
		return 0, false, notFound(c, "order not found")
	}
	return id, true, nil
}
