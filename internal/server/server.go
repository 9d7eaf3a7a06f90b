package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"pizzeria/internal/config"
	"pizzeria/internal/handler"
	"pizzeria/internal/middleware"
	"pizzeria/internal/validator"

	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
)

// Handlers are mounted under the configured prefix (/v1 by default).
type Handlers struct {
	Health     *handler.HealthHandler
	Pizzas     *handler.PizzaHandler
	Customers  *handler.CustomerHandler
	Orders     *handler.OrderHandler
	Payments   *handler.PaymentHandler
	Deliveries *handler.DeliveryHandler
	Reports    *handler.ReportHandler
	Events     *handler.EventHandler
}

// New builds the echo instance with middleware and every route registered.
func New(cfg *config.Settings, h Handlers, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	middleware.Setup(e, cfg.App, cfg.HTTP, logger)

	if h.Health != nil {
		h.Health.RegisterRoutes(e)
	}

	v1 := e.Group(cfg.HTTP.Prefix, middleware.RequireJSON())
	h.Pizzas.RegisterRoutes(v1)
	h.Customers.RegisterRoutes(v1)
	h.Orders.RegisterRoutes(v1)
	h.Payments.RegisterRoutes(v1)
	h.Deliveries.RegisterRoutes(v1)
	h.Reports.RegisterRoutes(v1)
	if h.Events != nil {
		h.Events.RegisterRoutes(v1)
	}

	if cfg.Pprof.Enabled {
		pprof.Register(e)
	}
	return e
}

// Run serves until ctx is cancelled, then shuts down within the configured
// timeout.
func Run(ctx context.Context, e *echo.Echo, cfg config.HTTPSettings) error {
	errChan := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "listening for requests", slog.String("ip", cfg.IP), slog.String("port", cfg.Port))
		errChan <- e.Start(cfg.Addr())
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	slog.InfoContext(ctx, "shutting down http server")
	return e.Shutdown(shutdownCtx)
}
