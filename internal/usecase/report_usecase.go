package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"

	"github.com/shopspring/decimal"
)

// ReportUsecase only reads.
type ReportUsecase struct {
	orders     repo.OrderRepository
	payments   repo.PaymentRepository
	deliveries repo.DeliveryRepository
	customers  repo.CustomerRepository
	pizzas     repo.PizzaRepository
}

func NewReportUsecase(
	orders repo.OrderRepository,
	payments repo.PaymentRepository,
	deliveries repo.DeliveryRepository,
	customers repo.CustomerRepository,
	pizzas repo.PizzaRepository,
) *ReportUsecase {
	return &ReportUsecase{
		orders:     orders,
		payments:   payments,
		deliveries: deliveries,
		customers:  customers,
		pizzas:     pizzas,
	}
}

type MethodSales struct {
	Method   model.PaymentMethod `json:"method"`
	Payments int                 `json:"payments"`
	Revenue  decimal.Decimal     `json:"revenue"`
}

type SalesReport struct {
	From              time.Time       `json:"from"`
	To                time.Time       `json:"to"`
	Orders            int             `json:"orders"`
	Revenue           decimal.Decimal `json:"revenue"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	ByMethod          []MethodSales   `json:"by_method"`
}

type PizzaSales struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type SystemStats struct {
	Customers        int64 `json:"customers"`
	MenuItems        int64 `json:"menu_items"`
	Orders           int   `json:"orders"`
	ActiveOrders     int   `json:"active_orders"`
	Payments         int   `json:"payments"`
	Deliveries       int   `json:"deliveries"`
	ActiveDeliveries int   `json:"active_deliveries"`
}

var reportMethods = []model.PaymentMethod{model.PaymentMethodCash, model.PaymentMethodCard, model.PaymentMethodOnline}

// Sales counts orders created in [from, to] and the revenue of payments
// completed in the same window. Both bounds are inclusive.
func (u *ReportUsecase) Sales(ctx context.Context, from, to time.Time) (SalesReport, error) {
	if to.Before(from) {
		return SalesReport{}, model.NewValidationError("to", "must not be before from")
	}

	orders, err := u.orders.List(ctx, repo.OrderFilter{From: &from, To: &to})
	if err != nil {
		return SalesReport{}, fmt.Errorf("list orders: %w", err)
	}

	completed := model.PaymentStatusCompleted
	payments, err := u.payments.List(ctx, repo.PaymentFilter{Status: &completed, From: &from, To: &to})
	if err != nil {
		return SalesReport{}, fmt.Errorf("list payments: %w", err)
	}

	report := SalesReport{
		From:              from,
		To:                to,
		Orders:            len(orders),
		Revenue:           decimal.Zero,
		AverageOrderValue: decimal.Zero,
		ByMethod:          []MethodSales{},
	}

	byMethod := make(map[model.PaymentMethod]*MethodSales)
	for _, p := range payments {
		report.Revenue = report.Revenue.Add(p.Amount)
		ms, ok := byMethod[p.Method]
		if !ok {
			ms = &MethodSales{Method: p.Method, Revenue: decimal.Zero}
			byMethod[p.Method] = ms
		}
		ms.Payments++
		ms.Revenue = ms.Revenue.Add(p.Amount)
	}
	for _, m := range reportMethods {
		if ms, ok := byMethod[m]; ok {
			report.ByMethod = append(report.ByMethod, *ms)
		}
	}

	if report.Orders > 0 {
		report.AverageOrderValue = report.Revenue.DivRound(decimal.NewFromInt(int64(report.Orders)), 2)
	}
	return report, nil
}

// TopPizzas ranks pizzas by quantity ordered across all orders, grouped by
// name. Ties go to the alphabetically first name.
func (u *ReportUsecase) TopPizzas(ctx context.Context, n int) ([]PizzaSales, error) {
	if n <= 0 {
		return nil, model.NewValidationError("limit", "must be greater than 0")
	}

	orders, err := u.orders.List(ctx, repo.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	byName := make(map[string]*PizzaSales)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Pizza == nil {
				continue
			}
			ps, ok := byName[it.Pizza.Name]
			if !ok {
				ps = &PizzaSales{Name: it.Pizza.Name, Revenue: decimal.Zero}
				byName[it.Pizza.Name] = ps
			}
			ps.Quantity += it.Quantity
			ps.Revenue = ps.Revenue.Add(it.Subtotal())
		}
	}

	out := make([]PizzaSales, 0, len(byName))
	for _, ps := range byName {
		out = append(out, *ps)
	}
	slices.SortFunc(out, func(a, b PizzaSales) int {
		if a.Quantity != b.Quantity {
			if a.Quantity > b.Quantity {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})

	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (u *ReportUsecase) Stats(ctx context.Context) (SystemStats, error) {
	var s SystemStats
	var err error

	if s.Customers, err = u.customers.Count(ctx); err != nil {
		return SystemStats{}, fmt.Errorf("count customers: %w", err)
	}
	if s.MenuItems, err = u.pizzas.Count(ctx); err != nil {
		return SystemStats{}, fmt.Errorf("count pizzas: %w", err)
	}

	orders, err := u.orders.List(ctx, repo.OrderFilter{})
	if err != nil {
		return SystemStats{}, fmt.Errorf("list orders: %w", err)
	}
	s.Orders = len(orders)
	for _, o := range orders {
		if o.Status != model.OrderStatusDelivered {
			s.ActiveOrders++
		}
	}

	payments, err := u.payments.List(ctx, repo.PaymentFilter{})
	if err != nil {
		return SystemStats{}, fmt.Errorf("list payments: %w", err)
	}
	s.Payments = len(payments)

	deliveries, err := u.deliveries.List(ctx, repo.DeliveryFilter{})
	if err != nil {
		return SystemStats{}, fmt.Errorf("list deliveries: %w", err)
	}
	s.Deliveries = len(deliveries)
	for _, d := range deliveries {
		if d.Active() {
			s.ActiveDeliveries++
		}
	}
	return s, nil
}
