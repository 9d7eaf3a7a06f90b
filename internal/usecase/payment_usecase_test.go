package usecase_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/infra/memory"
	"pizzeria/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentUsecase_Charge_EmptyOrder(t *testing.T) {
	f := newFixture(t, alwaysPays)
	o, err := f.orders.CreateOrder(context.Background(), f.customer(t, "+1").ID)
	require.NoError(t, err)

	_, err = f.payments.Charge(context.Background(), o, model.PaymentMethodCash)
	assert.True(t, model.IsValidationError(err))
}

func TestPaymentUsecase_Charge_FixesAmount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeLarge, 2, f.pizza(t, "Margherita", 150, 15))

	p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, p.Status)
	assert.True(t, p.Amount.Equal(dec("390")))

	// later order changes do not move the amount
	_, err = f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: o.Items[0].PizzaID, Size: model.PizzaSizeLarge, Quantity: 1})
	require.NoError(t, err)

	stored, ok, err := f.payments.FindPayment(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, stored.Amount.Equal(dec("390")))
}

func TestPaymentUsecase_Process_OutcomeTable(t *testing.T) {
	tests := []struct {
		draw int
		want bool
	}{
		{0, true}, {4, true}, {8, true}, {9, false},
	}
	for _, tt := range tests {
		f := newFixture(t, fixedRandom{v: tt.draw})
		o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
		p, err := f.payments.Charge(context.Background(), o, model.PaymentMethodCash)
		require.NoError(t, err)

		ok, err := f.payments.Process(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, tt.want, ok, "draw %d", tt.draw)
		if tt.want {
			assert.Equal(t, model.PaymentStatusCompleted, p.Status)
			assert.NotEmpty(t, p.TransactionID)
		} else {
			assert.Equal(t, model.PaymentStatusFailed, p.Status)
		}
	}
}

func TestPaymentUsecase_Process_OnlyOnce(t *testing.T) {
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
	p, err := f.payments.Charge(context.Background(), o, model.PaymentMethodCash)
	require.NoError(t, err)

	_, err = f.payments.Process(context.Background(), p)
	require.NoError(t, err)

	_, err = f.payments.Process(context.Background(), p)
	assert.True(t, model.IsValidationError(err))
}

func TestPaymentUsecase_Process_IgnoresCancellation(t *testing.T) {
	store := memory.NewStore()
	clock := &fixedClock{now: time.Now()}
	payments := usecase.NewPaymentUsecase(store.Payments, usecase.NewOrderLocks(), alwaysPays, &seqIDs{}, clock, nil, 20*time.Millisecond)

	p := &model.Payment{OrderID: 1, Amount: dec("10"), Method: model.PaymentMethodCash, Status: model.PaymentStatusPending}
	require.NoError(t, store.Payments.Create(context.Background(), p))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := payments.Process(ctx, p)
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := store.Payments.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, stored.Status)
}

func TestPaymentUsecase_Refund(t *testing.T) {
	ctx := context.Background()

	t.Run("completed payment is refunded", func(t *testing.T) {
		f := newFixture(t, alwaysPays)
		o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
		p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
		require.NoError(t, err)
		_, err = f.payments.Process(ctx, p)
		require.NoError(t, err)

		ok, err := f.payments.Refund(ctx, p.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, _, err := f.payments.FindPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, stored.Status)

		// a refunded payment cannot be refunded again
		ok, err = f.payments.Refund(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("pending payment is left alone", func(t *testing.T) {
		f := newFixture(t, alwaysPays)
		o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
		p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
		require.NoError(t, err)

		ok, err := f.payments.Refund(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, _, err := f.payments.FindPayment(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPending, stored.Status)
	})

	t.Run("failed payment is left alone", func(t *testing.T) {
		f := newFixture(t, alwaysDeclines)
		o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
		p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
		require.NoError(t, err)
		_, err = f.payments.Process(ctx, p)
		require.NoError(t, err)

		ok, err := f.payments.Refund(ctx, p.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t, alwaysPays)
		_, err := f.payments.Refund(ctx, 31)
		assert.ErrorIs(t, err, usecase.ErrNotFound)
	})
}

// =====================
// Repository wrappers
// =====================

// racingPayments lines up the first FindByID calls so both callers read the
// same row before either writes.
type racingPayments struct {
	*memory.PaymentRepository
	gate *rendezvous
}

func (r *racingPayments) FindByID(ctx context.Context, id int64) (*model.Payment, error) {
	p, err := r.PaymentRepository.FindByID(ctx, id)
	r.gate.arrive()
	return p, err
}

// flakyPayments fails the next failures calls to Update.
type flakyPayments struct {
	*memory.PaymentRepository
	failures atomic.Int32
}

func (r *flakyPayments) Update(ctx context.Context, p *model.Payment) error {
	if r.failures.Add(-1) >= 0 {
		return errors.New("connection reset")
	}
	return r.PaymentRepository.Update(ctx, p)
}

func TestPaymentUsecase_Refund_ConcurrentRefundsOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
	p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
	require.NoError(t, err)
	_, err = f.payments.Process(ctx, p)
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	racing := &racingPayments{PaymentRepository: f.store.Payments, gate: newRendezvous(2)}
	payments := usecase.NewPaymentUsecase(racing, f.locks, alwaysPays, &seqIDs{}, f.clock, notifier, 0)

	var (
		wg       sync.WaitGroup
		refunded atomic.Int32
	)
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := payments.Refund(ctx, p.ID)
			assert.NoError(t, err)
			if ok {
				refunded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, refunded.Load())
	changes := notifier.For(model.StatusResourcePayment)
	require.Len(t, changes, 1)
	assert.Equal(t, string(model.PaymentStatusCompleted), changes[0].From)
	assert.Equal(t, string(model.PaymentStatusFailed), changes[0].To)
}

func TestPaymentUsecase_Process_UpdateFailureLeavesFailed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))
	p, err := f.payments.Charge(ctx, o, model.PaymentMethodCard)
	require.NoError(t, err)

	flaky := &flakyPayments{PaymentRepository: f.store.Payments}
	flaky.failures.Store(1)
	payments := usecase.NewPaymentUsecase(flaky, f.locks, alwaysPays, &seqIDs{}, f.clock, nil, 0)

	ok, err := payments.Process(ctx, p)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, model.PaymentStatusFailed, p.Status)
	assert.Empty(t, p.TransactionID)

	stored, _, err := f.payments.FindPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusFailed, stored.Status)
	assert.Empty(t, stored.TransactionID)
}

func TestChaChaSource_SameSeedSameSequence(t *testing.T) {
	a := usecase.NewChaChaSource(7)
	b := usecase.NewChaChaSource(7)
	for range 20 {
		x := a.IntN(10)
		assert.Equal(t, x, b.IntN(10))
		assert.True(t, x >= 0 && x < 10)
	}
}
