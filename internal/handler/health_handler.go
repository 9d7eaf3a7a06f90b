package handler

import (
	"net/http"

	healthgo "github.com/hellofresh/health-go/v5"
	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	health *healthgo.Health
}

func NewHealthHandler(health *healthgo.Health) *HealthHandler {
	return &HealthHandler{health: health}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.check)
}

func (h *HealthHandler) check(c echo.Context) error {
	check := h.health.Measure(c.Request().Context())

	code := http.StatusOK
	if check.Status != healthgo.StatusOK {
		code = http.StatusServiceUnavailable
	}
	return c.JSON(code, check)
}
