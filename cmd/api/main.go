package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizzeria/internal/config"
	"pizzeria/internal/handler"
	"pizzeria/internal/infra/events"
	"pizzeria/internal/server"
	"pizzeria/internal/telemetry"
	"pizzeria/internal/usecase"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	retcode := 0
	defer func() {
		os.Exit(retcode)
	}()

	slog.InfoContext(ctx, "Loading config")
	settings, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", slog.Any("err", err))
		retcode = 1
		return
	}

	otelShutdown, err := telemetry.SetupOTelSDK(ctx, settings.App, settings.Log, settings.OpenTelemetry)
	if err != nil {
		slog.ErrorContext(ctx, "failed to setup telemetry", slog.Any("err", err))
		retcode = 1
		return
	}
	defer func() {
		if err := otelShutdown(context.Background()); err != nil {
			slog.ErrorContext(ctx, "failed to shutdown opentelemetry providers", slog.Any("err", err))
			retcode = 1
		}
	}()

	slog.InfoContext(ctx, "Launching pizzeria",
		slog.String("version", settings.App.Version),
		slog.String("store", settings.Store.Driver),
	)

	repos, err := openStore(ctx, settings.Store)
	if err != nil {
		slog.ErrorContext(ctx, "failed to open store", slog.Any("err", err))
		retcode = 1
		return
	}
	defer func() {
		if err := repos.Close(); err != nil {
			slog.ErrorContext(ctx, "failed to close store", slog.Any("err", err))
		}
	}()

	hub := events.NewHub()
	defer hub.Close()

	notifiers := []usecase.StatusNotifier{
		events.NewLogNotifier(slog.Default()),
		events.NewHistoryRecorder(repos.statusChanges),
		hub,
	}

	var nc *nats.Conn
	if settings.Nats.Enabled {
		slog.InfoContext(ctx, "Connecting to NATS server", slog.String("url", settings.Nats.URL))
		nc, err = events.Connect(settings.Nats.URL, settings.App.Name)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to NATS server", slog.Any("err", err))
			retcode = 1
			return
		}
		defer nc.Drain()
		notifiers = append(notifiers, events.NewNATSNotifier(nc, settings.Nats.SubjectPrefix))
	}
	notifier := events.Fanout(notifiers...)

	clock := &realClock{}
	locks := usecase.NewOrderLocks()

	catalog := usecase.NewCatalogUsecase(repos.pizzas)
	customers := usecase.NewCustomerUsecase(repos.customers)
	orders := usecase.NewOrderUsecase(repos.orders, repos.customers, repos.pizzas, locks, notifier, clock)
	payments := usecase.NewPaymentUsecase(
		repos.payments,
		locks,
		usecase.NewChaChaSource(settings.Payment.Seed),
		&uuidGenerator{},
		clock,
		notifier,
		settings.Payment.ProcessingDelay,
	)
	deliveries := usecase.NewDeliveryUsecase(repos.deliveries, orders, notifier, clock)
	processor, err := usecase.NewOrderProcessor(orders, payments, deliveries, locks)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create order processor", slog.Any("err", err))
		retcode = 1
		return
	}
	reports := usecase.NewReportUsecase(repos.orders, repos.payments, repos.deliveries, repos.customers, repos.pizzas)
	history := usecase.NewHistoryUsecase(repos.statusChanges, orders)

	if settings.Catalog.SeedDefaultMenu {
		if _, err := catalog.SeedDefaultMenu(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to seed menu", slog.Any("err", err))
			retcode = 1
			return
		}
	}

	health, err := server.NewHealth(settings.App.Name, settings.App.Version, repos.gormDB, nc)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create health checker", slog.Any("err", err))
		retcode = 1
		return
	}

	e := server.New(settings, server.Handlers{
		Health:     handler.NewHealthHandler(health),
		Pizzas:     handler.NewPizzaHandler(catalog),
		Customers:  handler.NewCustomerHandler(customers, orders),
		Orders:     handler.NewOrderHandler(orders, processor, payments, deliveries, history),
		Payments:   handler.NewPaymentHandler(payments),
		Deliveries: handler.NewDeliveryHandler(deliveries),
		Reports:    handler.NewReportHandler(reports, clock),
		Events:     handler.NewEventHandler(hub),
	}, slog.Default())

	if err := server.Run(ctx, e, settings.HTTP); err != nil && !errors.Is(err, context.Canceled) {
		slog.ErrorContext(ctx, "error when running server", slog.Any("err", err))
		retcode = 1
		return
	}
	slog.InfoContext(ctx, "Server stopped")
}
