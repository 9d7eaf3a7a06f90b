package handler

import (
	"net/http"
	"strconv"
	"time"

	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

const defaultTopPizzas = 10

type ReportHandler struct {
	uc  *usecase.ReportUsecase
	now func() time.Time
}

func NewReportHandler(uc *usecase.ReportUsecase, clock usecase.Clock) *ReportHandler {
	return &ReportHandler{uc: uc, now: clock.Now}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports/sales", h.sales)
	g.GET("/reports/top-pizzas", h.topPizzas)
	g.GET("/reports/stats", h.stats)
}

// sales takes RFC3339 ?from= and ?to=; the window defaults to the last 24h.
func (h *ReportHandler) sales(c echo.Context) error {
	to := h.now()
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return invalidParam(c, "to")
		}
		to = tm
	}
	from := to.Add(-24 * time.Hour)
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return invalidParam(c, "from")
		}
		from = tm
	}

	report, err := h.uc.Sales(c.Request().Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) topPizzas(c echo.Context) error {
	limit := defaultTopPizzas
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return invalidParam(c, "limit")
		}
		limit = n
	}

	top, err := h.uc.TopPizzas(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, top)
}

func (h *ReportHandler) stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
