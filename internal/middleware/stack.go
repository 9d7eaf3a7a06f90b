package middleware

import (
	"log/slog"
	"net/http"

	"pizzeria/internal/config"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	slogecho "github.com/samber/slog-echo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
)

// Setup installs the common middleware chain: request id, access log,
// recover, CORS and tracing.
func Setup(e *echo.Echo, app config.AppSettings, cfg config.HTTPSettings, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(slogecho.NewWithConfig(logger, slogecho.Config{
		WithRequestID: true,
		WithSpanID:    true,
		WithTraceID:   true,
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORS.Origins,
		AllowMethods: cfg.CORS.Methods,
		AllowHeaders: cfg.CORS.Headers,
	}))
	e.Use(otelecho.Middleware(app.Name,
		otelecho.WithMetricAttributeFn(func(r *http.Request) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("client.ip", r.RemoteAddr),
				attribute.String("user.agent", r.UserAgent()),
			}
		}),
		otelecho.WithEchoMetricAttributeFn(func(c echo.Context) []attribute.KeyValue {
			return []attribute.KeyValue{
				attribute.String("handler.path", c.Path()),
				attribute.String("handler.method", c.Request().Method),
			}
		}),
	))
}
