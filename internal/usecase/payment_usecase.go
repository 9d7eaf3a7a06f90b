package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentOutcomes       = 10
	lastSuccessfulOutcome = 9
)

type PaymentUsecase struct {
	payments repo.PaymentRepository
	locks    *OrderLocks
	random   RandomSource
	ids      IDGenerator
	clock    Clock
	notifier StatusNotifier
	delay    time.Duration
}

func NewPaymentUsecase(
	payments repo.PaymentRepository,
	locks *OrderLocks,
	random RandomSource,
	ids IDGenerator,
	clock Clock,
	notifier StatusNotifier,
	delay time.Duration,
) *PaymentUsecase {
	return &PaymentUsecase{
		payments: payments,
		locks:    locks,
		random:   random,
		ids:      ids,
		clock:    clock,
		notifier: notifierOrNop(notifier),
		delay:    delay,
	}
}

// Charge creates a pending payment for the order total at this instant.
func (u *PaymentUsecase) Charge(ctx context.Context, order *model.Order, method model.PaymentMethod) (*model.Payment, error) {
	now := u.clock.Now()
	p, err := model.NewPayment(order, method, now)
	if err != nil {
		return nil, err
	}
	if err := u.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	u.notifier.StatusChanged(ctx, model.PaymentStatusChanged(p, "", now))
	return p, nil
}

// Process simulates the gateway round trip, then resolves the payment:
// outcomes 1 to 9 of 10 succeed. Once started it runs to completion even if
// ctx is cancelled.
func (u *PaymentUsecase) Process(ctx context.Context, p *model.Payment) (bool, error) {
	ctx, span := tracer.Start(ctx, "PaymentUsecase.Process", trace.WithAttributes(
		attribute.Int64("pizzeria.payment_id", p.ID),
		attribute.String("pizzeria.payment_method", string(p.Method)),
	))
	defer span.End()

	if p.Status != model.PaymentStatusPending {
		return false, model.NewValidationError("status", fmt.Sprintf("payment %d is already %s", p.ID, p.Status))
	}

	ctx = context.WithoutCancel(ctx)
	if u.delay > 0 {
		time.Sleep(u.delay)
	}

	outcome := u.random.IntN(paymentOutcomes) + 1
	success := outcome <= lastSuccessfulOutcome

	txID := ""
	if success {
		txID = u.ids.NewID()
	}

	prev := p.Status
	p.Resolve(success, txID)
	if err := u.payments.Update(ctx, p); err != nil {
		u.failUnsaved(ctx, p)
		return false, fmt.Errorf("update payment %d: %w", p.ID, err)
	}

	span.SetAttributes(attribute.String("pizzeria.payment_status", string(p.Status)))
	slog.InfoContext(ctx, "Payment resolved",
		slog.Int64("payment-id", p.ID),
		slog.Int64("order-id", p.OrderID),
		slog.String("status", string(p.Status)),
	)
	u.notifier.StatusChanged(ctx, model.PaymentStatusChanged(p, prev, u.clock.Now()))
	return success, nil
}

// failUnsaved marks a payment whose resolution could not be stored as Failed
// so the caller never holds an unsaved Completed payment.
func (u *PaymentUsecase) failUnsaved(ctx context.Context, p *model.Payment) {
	p.Status = model.PaymentStatusFailed
	p.TransactionID = ""
	if err := u.payments.Update(ctx, p); err != nil {
		slog.WarnContext(ctx, "Failed to store failed payment",
			slog.Int64("payment-id", p.ID),
			slog.Any("error", err),
		)
	}
}

// Refund reverses a completed payment. Any other status yields false and
// leaves the payment untouched.
func (u *PaymentUsecase) Refund(ctx context.Context, paymentID int64) (bool, error) {
	p, err := u.load(ctx, paymentID)
	if err != nil {
		return false, err
	}

	unlock := u.locks.Lock(p.OrderID)
	defer unlock()

	// A concurrent refund may have won while we waited.
	if p, err = u.load(ctx, paymentID); err != nil {
		return false, err
	}

	prev := p.Status
	if !p.Refund() {
		return false, nil
	}
	if err := u.payments.Update(ctx, p); err != nil {
		return false, fmt.Errorf("update payment %d: %w", paymentID, err)
	}

	u.notifier.StatusChanged(ctx, model.PaymentStatusChanged(p, prev, u.clock.Now()))
	return true, nil
}

func (u *PaymentUsecase) load(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := u.payments.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFound("payment", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find payment %d: %w", id, err)
	}
	return p, nil
}

func (u *PaymentUsecase) FindPayment(ctx context.Context, id int64) (*model.Payment, bool, error) {
	return found(u.payments.FindByID(ctx, id))
}

func (u *PaymentUsecase) ListForOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	payments, err := u.payments.List(ctx, repo.PaymentFilter{OrderID: &orderID})
	if err != nil {
		return nil, fmt.Errorf("list payments for order %d: %w", orderID, err)
	}
	return payments, nil
}
