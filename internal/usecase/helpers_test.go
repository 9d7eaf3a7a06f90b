package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/infra/memory"
	"pizzeria/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =====================
// Stubs
// =====================

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("tx-%d", g.n)
}

// fixedRandom always draws v: 0 is outcome 1 (paid), 9 is outcome 10 (declined).
type fixedRandom struct{ v int }

func (r fixedRandom) IntN(int) int { return r.v }

var (
	alwaysPays     = fixedRandom{v: 0}
	alwaysDeclines = fixedRandom{v: 9}
)

// scriptedRandom hands out draws in order and repeats the last one.
type scriptedRandom struct {
	mu    sync.Mutex
	draws []int
}

func (r *scriptedRandom) IntN(int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := r.draws[0]
	if len(r.draws) > 1 {
		r.draws = r.draws[1:]
	}
	return v
}

// rendezvous holds its first n callers until all n have arrived; later
// callers pass straight through.
type rendezvous struct {
	n       int32
	calls   atomic.Int32
	arrived sync.WaitGroup
}

func newRendezvous(n int) *rendezvous {
	r := &rendezvous{n: int32(n)}
	r.arrived.Add(n)
	return r
}

func (r *rendezvous) arrive() {
	if r.calls.Add(1) > r.n {
		return
	}
	r.arrived.Done()
	r.arrived.Wait()
}

type recordingNotifier struct {
	mu      sync.Mutex
	changes []model.StatusChange
	// forward, when set, also receives every change
	forward usecase.StatusNotifier
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, c model.StatusChange) {
	n.mu.Lock()
	n.changes = append(n.changes, c)
	n.mu.Unlock()
	if n.forward != nil {
		n.forward.StatusChanged(ctx, c)
	}
}

func (n *recordingNotifier) For(resource model.StatusResource) []model.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []model.StatusChange
	for _, c := range n.changes {
		if c.Resource == resource {
			out = append(out, c)
		}
	}
	return out
}

// =====================
// Fixture: every usecase over one memory store
// =====================

type fixture struct {
	store      *memory.Store
	clock      *fixedClock
	locks      *usecase.OrderLocks
	notifier   *recordingNotifier
	catalog    *usecase.CatalogUsecase
	customers  *usecase.CustomerUsecase
	orders     *usecase.OrderUsecase
	payments   *usecase.PaymentUsecase
	deliveries *usecase.DeliveryUsecase
	processor  *usecase.OrderProcessor
	reports    *usecase.ReportUsecase
}

func newFixture(t *testing.T, random usecase.RandomSource) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := &fixedClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	notifier := &recordingNotifier{}
	locks := usecase.NewOrderLocks()

	orders := usecase.NewOrderUsecase(store.Orders, store.Customers, store.Pizzas, locks, notifier, clock)
	payments := usecase.NewPaymentUsecase(store.Payments, locks, random, &seqIDs{}, clock, notifier, 0)
	deliveries := usecase.NewDeliveryUsecase(store.Deliveries, orders, notifier, clock)
	processor, err := usecase.NewOrderProcessor(orders, payments, deliveries, locks)
	require.NoError(t, err)

	return &fixture{
		store:      store,
		clock:      clock,
		locks:      locks,
		notifier:   notifier,
		catalog:    usecase.NewCatalogUsecase(store.Pizzas),
		customers:  usecase.NewCustomerUsecase(store.Customers),
		orders:     orders,
		payments:   payments,
		deliveries: deliveries,
		processor:  processor,
		reports:    usecase.NewReportUsecase(store.Orders, store.Payments, store.Deliveries, store.Customers, store.Pizzas),
	}
}

func (f *fixture) pizza(t *testing.T, name string, base int64, cookingTime int) *model.Pizza {
	t.Helper()
	p, err := f.catalog.AddPizza(context.Background(), usecase.AddPizzaInput{
		Name:        name,
		Ingredients: []string{"tomato", "mozzarella"},
		Size:        model.PizzaSizeMedium,
		BasePrice:   decimal.NewFromInt(base),
		CookingTime: cookingTime,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) customer(t *testing.T, phone string) *model.Customer {
	t.Helper()
	c, err := f.customers.Register(context.Background(), usecase.RegisterCustomerInput{
		Name:    "Olena",
		Phone:   phone,
		Email:   "olena@example.com",
		Address: "5 Khreshchatyk St",
	})
	require.NoError(t, err)
	return c
}

// orderWith creates a pending order holding qty of each pizza in the given size.
func (f *fixture) orderWith(t *testing.T, size model.PizzaSize, qty int64, pizzas ...*model.Pizza) *model.Order {
	t.Helper()
	ctx := context.Background()

	o, err := f.orders.CreateOrder(ctx, f.customer(t, "+380000000").ID)
	require.NoError(t, err)
	for _, p := range pizzas {
		o, err = f.orders.AddItem(ctx, o.ID, usecase.AddItemInput{PizzaID: p.ID, Size: size, Quantity: qty})
		require.NoError(t, err)
	}
	return o
}

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
