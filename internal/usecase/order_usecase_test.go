package usecase_test

import (
	"context"
	"testing"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
	"pizzeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUsecase_CreateOrder_UnknownCustomer(t *testing.T) {
	f := newFixture(t, alwaysPays)

	_, err := f.orders.CreateOrder(context.Background(), 99)
	assert.True(t, model.IsValidationError(err))
	assertErrContains(t, err, "customer 99 does not exist")
}

func TestOrderUsecase_CreateOrder_StartsPending(t *testing.T) {
	f := newFixture(t, alwaysPays)
	c := f.customer(t, "+1")

	o, err := f.orders.CreateOrder(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.True(t, o.IsEmpty())
	assert.Equal(t, f.clock.Now(), o.CreatedAt)

	changes := f.notifier.For(model.StatusResourceOrder)
	require.Len(t, changes, 1)
	assert.Equal(t, "", changes[0].From)
	assert.Equal(t, "PENDING", changes[0].To)
}

func TestOrderUsecase_AddItem_MergesSamePizzaAndSize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeLarge, 1, p)

	o, err := f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: p.ID, Size: model.PizzaSizeLarge, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(3), o.Items[0].Quantity)

	// a different size is a separate line
	o, err = f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: p.ID, Size: model.PizzaSizeSmall, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)

	stored, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	// 3 x 195 + 1 x 120
	assert.True(t, stored.Total().Equal(dec("705")))
}

func TestOrderUsecase_AddItem_DefaultsToCatalogSize(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeLarge, 1, p)

	o, err := f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: p.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, o.Items, 2)
	assert.Equal(t, model.PizzaSizeMedium, o.Items[1].Size)
}

func TestOrderUsecase_AddItem_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, p)

	tests := []struct {
		name string
		in   usecase.AddItemInput
		want string
	}{
		{"zero quantity", usecase.AddItemInput{PizzaID: p.ID, Quantity: 0}, "quantity"},
		{"negative quantity", usecase.AddItemInput{PizzaID: p.ID, Quantity: -1}, "quantity"},
		{"unknown pizza", usecase.AddItemInput{PizzaID: 777, Quantity: 1}, "pizza 777 is not on the menu"},
		{"unknown size", usecase.AddItemInput{PizzaID: p.ID, Size: "HUGE", Quantity: 1}, "size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.orders.AddItem(ctx, o.ID, tt.in)
			assert.True(t, model.IsValidationError(err))
			assertErrContains(t, err, tt.want)
		})
	}
}

func TestOrderUsecase_AddItem_UnknownOrder(t *testing.T) {
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)

	_, err := f.orders.AddItem(context.Background(), 5, usecase.AddItemInput{PizzaID: p.ID, Quantity: 1})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestOrderUsecase_AddItem_OnlyWhilePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, p)

	_, err := f.orders.SetStatus(ctx, o.ID, model.OrderStatusCooking)
	require.NoError(t, err)

	_, err = f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: p.ID, Quantity: 1})
	assert.True(t, model.IsValidationError(err))

	_, _, err = f.orders.RemoveItem(ctx, o.ID, p.ID, model.PizzaSizeMedium)
	assert.True(t, model.IsValidationError(err))
}

func TestOrderUsecase_RemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 2, p)

	_, removed, err := f.orders.RemoveItem(ctx, o.ID, p.ID, model.PizzaSizeLarge)
	require.NoError(t, err)
	assert.False(t, removed)

	got, removed, err := f.orders.RemoveItem(ctx, o.ID, p.ID, model.PizzaSizeMedium)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, got.IsEmpty())
	assert.True(t, got.Total().Equal(decimal.Zero))
}

func TestOrderUsecase_Total_FollowsCatalogPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 2, p)

	p.BasePrice = decimal.NewFromInt(200)
	require.NoError(t, f.store.Pizzas.Update(ctx, p))

	got, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total().Equal(dec("400")))
}

func TestOrderUsecase_Total_RemovedPizzaStillPrices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	p := f.pizza(t, "Margherita", 150, 15)
	o := f.orderWith(t, model.PizzaSizeMedium, 2, p)

	removed, err := f.catalog.RemovePizza(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, removed)

	got, _, err := f.orders.FindOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Total().Equal(dec("300")))
}

func TestOrderUsecase_SetStatus_Unguarded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))

	for _, s := range []model.OrderStatus{model.OrderStatusDelivered, model.OrderStatusPending, model.OrderStatusReady, model.OrderStatusReady} {
		got, err := f.orders.SetStatus(ctx, o.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, got.Status)
	}

	// creation plus four assignments, repeats included
	changes := f.notifier.For(model.StatusResourceOrder)
	require.Len(t, changes, 5)
	assert.Equal(t, "READY", changes[4].From)
	assert.Equal(t, "READY", changes[4].To)
}

func TestOrderUsecase_SetStatus_Invalid(t *testing.T) {
	f := newFixture(t, alwaysPays)
	o := f.orderWith(t, model.PizzaSizeMedium, 1, f.pizza(t, "Margherita", 150, 15))

	_, err := f.orders.SetStatus(context.Background(), o.ID, "EATEN")
	assert.True(t, model.IsValidationError(err))
}

func TestOrderUsecase_ListCustomerOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, alwaysPays)
	a := f.customer(t, "+1")
	b := f.customer(t, "+2")

	for _, c := range []*model.Customer{a, a, b} {
		_, err := f.orders.CreateOrder(ctx, c.ID)
		require.NoError(t, err)
	}

	orders, err := f.orders.ListCustomerOrders(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = f.orders.ListCustomerOrders(ctx, 42)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}
