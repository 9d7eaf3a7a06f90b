package usecase_test

import (
	"context"
	"sync"
	"testing"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderProcessor_ProcessOrder_Success(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeLarge, 2, p)

	assert.True(t, o.Items[0].UnitPrice().Equal(dec("195")))
	assert.True(t, o.Total().Equal(dec("390")))

	ok := f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard)
	require.True(t, ok)

	got, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCooking, got.Status)

	deliveries, err := f.deliveries.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, 20+15, deliveries[0].EstimatedMinutes)
	assert.Equal(t, model.DeliveryStatusAssigned, deliveries[0].Status)
	assert.Equal(t, "5 Khreshchatyk St", deliveries[0].Address)
	assert.Empty(t, deliveries[0].Courier)

	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, model.PaymentStatusCompleted, payments[0].Status)
	assert.True(t, payments[0].Amount.Equal(dec("390")))
	assert.Equal(t, "tx-1", payments[0].TransactionID)
}

func TestOrderProcessor_ProcessOrder_EstimateUsesLongestCookingTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	quick := f.pizza(t, "Margherita", 150, 15)
	slow := f.pizza(t, "Hawaiian", 200, 20)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, quick, slow)

	res := f.processor.Process(ctx, o.ID, model.PaymentMethodCash)
	require.True(t, res.Processed)
	require.NotNil(t, res.Delivery)
	assert.Equal(t, 40, res.Delivery.EstimatedMinutes)
}

func TestOrderProcessor_ProcessOrder_EmptyOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	o, err := f.orders.CreateOrder(ctx, f.customer(t, "+1").ID)
	require.NoError(t, err)

	ok := f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCash)
	assert.False(t, ok)

	payments, err := f.store.Payments.List(ctx, repo.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, payments)

	deliveries, err := f.store.Deliveries.List(ctx, repo.DeliveryFilter{})
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestOrderProcessor_ProcessOrder_UnknownOrder(t *testing.T) {
	f := newFixture(t, alwaysPays)

	assert.False(t, f.processor.ProcessOrder(context.Background(), 404, model.PaymentMethodCash))
}

func TestOrderProcessor_ProcessOrder_PaymentDeclined(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysDeclines)

	p := f.pizza(t, "Pepperoni", 180, 18)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, p)

	ok := f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodOnline)
	assert.False(t, ok)

	got, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)

	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, model.PaymentStatusFailed, payments[0].Status)
	assert.Empty(t, payments[0].TransactionID)

	deliveries, err := f.deliveries.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestOrderProcessor_ProcessOrder_FailedRetriesAccumulatePayments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &scriptedRandom{draws: []int{9, 9, 0}})
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Pepperoni", 180, 18))

	assert.False(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))
	assert.False(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))

	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	for _, p := range payments {
		assert.Equal(t, model.PaymentStatusFailed, p.Status)
	}
	got, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, got.Status)
	deliveries, err := f.deliveries.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, deliveries)

	assert.True(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))

	payments, err = f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 3)
	deliveries, err = f.deliveries.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 1)
	got, _, err = f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCooking, got.Status)
}

func TestOrderProcessor_ProcessOrder_UnknownMethod(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	p := f.pizza(t, "Pepperoni", 180, 18)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, p)

	assert.False(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethod("BITCOIN")))

	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	assert.True(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))
}

func TestOrderProcessor_ProcessOrder_RepeatedCallsChargeAgain(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeLarge, 2, p)

	assert.True(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))
	assert.True(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))

	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	deliveries, err := f.deliveries.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, deliveries, 2)
}

func TestOrderProcessor_ProcessOrder_ConcurrentSubmitsChargeOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)

	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, p)

	// an order already in flight refuses further submits
	unlock := f.locks.Lock(o.ID)

	var wg sync.WaitGroup
	results := make([]bool, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard)
		}(i)
	}
	wg.Wait()
	unlock()

	for _, r := range results {
		assert.False(t, r)
	}
	payments, err := f.payments.ListForOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	assert.True(t, f.processor.ProcessOrder(ctx, o.ID, model.PaymentMethodCard))
}
