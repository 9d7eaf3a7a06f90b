package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/middleware"
	"pizzeria/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps usecase errors onto status codes: validation 400,
// missing target 404, anything else 500.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := model.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Error()})
	}
	if usecase.IsNotFound(err) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return c.JSON(he.Code, ErrorResponse{Error: http.StatusText(he.Code)})
	}

	slog.ErrorContext(c.Request().Context(), "request failed",
		slog.String("path", c.Path()),
		slog.Any("err", err),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: msg})
}

// bind decodes the JSON body and runs the echo validator. Both failures
// come back as validation errors for writeError.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return model.NewValidationError("body", "invalid json")
	}
	return c.Validate(req)
}

// pathID reads an id parsed by middleware.PathID, falling back to parsing
// the raw parameter.
func pathID(c echo.Context, param string) (int64, bool) {
	if id, ok := middleware.IDFromContext(c, param); ok {
		return id, true
	}
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidParam(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
}
