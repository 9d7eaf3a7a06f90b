package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const ctxPathIDPrefix = "path_id:"

// PathID parses a positive integer path parameter once and stores it in the
// context for IDFromContext. Anything else is rejected with 400.
func PathID(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseInt(c.Param(param), 10, 64)
			if err != nil || id <= 0 {
				return c.JSON(http.StatusBadRequest, errorJSON("invalid "+param))
			}
			c.Set(ctxPathIDPrefix+param, id)
			return next(c)
		}
	}
}

func IDFromContext(c echo.Context, param string) (int64, bool) {
	id, ok := c.Get(ctxPathIDPrefix + param).(int64)
	return id, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
