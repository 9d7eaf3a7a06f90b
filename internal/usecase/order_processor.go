package usecase

import (
	"context"
	"log/slog"

	"pizzeria/internal/domain/model"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// OrderProcessor finalizes an order: charge, process the payment, send the
// order to the kitchen and dispatch a delivery.
type OrderProcessor struct {
	orders     *OrderUsecase
	payments   *PaymentUsecase
	deliveries *DeliveryUsecase
	locks      *OrderLocks
	metrics    *processorMetrics
}

func NewOrderProcessor(
	orders *OrderUsecase,
	payments *PaymentUsecase,
	deliveries *DeliveryUsecase,
	locks *OrderLocks,
) (*OrderProcessor, error) {
	m, err := newProcessorMetrics()
	if err != nil {
		return nil, err
	}
	return &OrderProcessor{
		orders:     orders,
		payments:   payments,
		deliveries: deliveries,
		locks:      locks,
		metrics:    m,
	}, nil
}

// ProcessResult carries whatever records the run produced. Payment is set
// once a charge was made, Delivery only on success.
type ProcessResult struct {
	Processed bool
	Order     *model.Order
	Payment   *model.Payment
	Delivery  *model.Delivery
}

// ProcessOrder reports whether a delivery was created. On false the order
// and payment keep whatever state they reached; nothing is rolled back.
func (p *OrderProcessor) ProcessOrder(ctx context.Context, orderID int64, method model.PaymentMethod) bool {
	return p.Process(ctx, orderID, method).Processed
}

// Process is ProcessOrder with the records attached. A second call for an
// order that is still being processed is refused; later calls charge again.
func (p *OrderProcessor) Process(ctx context.Context, orderID int64, method model.PaymentMethod) ProcessResult {
	ctx, span := tracer.Start(ctx, "OrderProcessor.Process", trace.WithAttributes(
		attribute.Int64("pizzeria.order_id", orderID),
		attribute.String("pizzeria.payment_method", string(method)),
	))
	defer span.End()

	// no cancellation once started
	ctx = context.WithoutCancel(ctx)

	var res ProcessResult
	outcome := "error"
	defer func() {
		span.SetAttributes(attribute.String("pizzeria.outcome", outcome))
		p.metrics.ordersProcessed.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}()

	unlock, ok := p.locks.TryLock(orderID)
	if !ok {
		outcome = "in_progress"
		slog.WarnContext(ctx, "Order is already being processed", slog.Int64("order-id", orderID))
		return res
	}
	defer unlock()

	o, err := p.orders.load(ctx, orderID)
	if err != nil {
		outcome = "not_found"
		if !IsNotFound(err) {
			outcome = "error"
			p.fail(ctx, span, "failed to load order", orderID, err)
		}
		return res
	}
	res.Order = o

	if o.IsEmpty() {
		outcome = "empty"
		slog.InfoContext(ctx, "Refusing to process empty order", slog.Int64("order-id", orderID))
		return res
	}

	payment, err := p.payments.Charge(ctx, o, method)
	if err != nil {
		p.fail(ctx, span, "failed to charge order", orderID, err)
		return res
	}
	res.Payment = payment

	paid, err := p.payments.Process(ctx, payment)
	if err != nil {
		p.fail(ctx, span, "failed to process payment", orderID, err)
		return res
	}
	p.metrics.paymentsResolved.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", string(payment.Status)),
		attribute.String("method", string(payment.Method)),
	))
	if !paid {
		outcome = "payment_failed"
		slog.InfoContext(ctx, "Payment declined", slog.Int64("order-id", orderID), slog.Int64("payment-id", payment.ID))
		return res
	}

	if err := p.orders.setStatusLocked(ctx, o, model.OrderStatusCooking); err != nil {
		p.fail(ctx, span, "failed to send order to the kitchen", orderID, err)
		return res
	}

	delivery, err := p.deliveries.Create(ctx, o)
	if err != nil {
		p.fail(ctx, span, "failed to create delivery", orderID, err)
		return res
	}
	p.metrics.deliveriesCreated.Add(ctx, 1)

	res.Delivery = delivery
	res.Processed = true
	outcome = "processed"
	slog.InfoContext(ctx, "Order processed",
		slog.Int64("order-id", orderID),
		slog.Int64("payment-id", payment.ID),
		slog.Int64("delivery-id", delivery.ID),
		slog.Int("estimated-minutes", delivery.EstimatedMinutes),
	)
	return res
}

func (p *OrderProcessor) fail(ctx context.Context, span trace.Span, msg string, orderID int64, err error) {
	slog.ErrorContext(ctx, msg, slog.Int64("order-id", orderID), slog.Any("err", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}
