package usecase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("pizzeria/usecase")
	meter  = otel.Meter("pizzeria/usecase")
)

type processorMetrics struct {
	ordersProcessed   metric.Int64Counter
	paymentsResolved  metric.Int64Counter
	deliveriesCreated metric.Int64Counter
}

func newProcessorMetrics() (*processorMetrics, error) {
	ordersProcessed, err := meter.Int64Counter(
		"pizzeria.orders.processed",
		metric.WithDescription("Number of ProcessOrder calls by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	paymentsResolved, err := meter.Int64Counter(
		"pizzeria.payments.resolved",
		metric.WithDescription("Number of payments resolved by status"),
		metric.WithUnit("{payment}"),
	)
	if err != nil {
		return nil, err
	}

	deliveriesCreated, err := meter.Int64Counter(
		"pizzeria.deliveries.created",
		metric.WithDescription("Number of deliveries dispatched"),
		metric.WithUnit("{delivery}"),
	)
	if err != nil {
		return nil, err
	}

	return &processorMetrics{
		ordersProcessed:   ordersProcessed,
		paymentsResolved:  paymentsResolved,
		deliveriesCreated: deliveriesCreated,
	}, nil
}
