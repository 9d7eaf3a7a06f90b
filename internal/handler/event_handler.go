package handler

import (
	"log/slog"
	"strconv"

	"pizzeria/internal/infra/events"

	"github.com/labstack/echo/v4"
)

// /events/ws streams status changes; ?order_id= narrows it to one order.
type EventHandler struct {
	hub *events.Hub
}

func NewEventHandler(hub *events.Hub) *EventHandler {
	return &EventHandler{hub: hub}
}

func (h *EventHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/events/ws", h.stream)
}

func (h *EventHandler) stream(c echo.Context) error {
	var orderID int64
	if v := c.QueryParam("order_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return invalidParam(c, "order_id")
		}
		orderID = id
	}

	if err := h.hub.ServeWS(c.Response(), c.Request(), orderID); err != nil {
		// the upgrader has already answered the client
		slog.WarnContext(c.Request().Context(), "websocket upgrade failed", slog.Any("err", err))
	}
	return nil
}
