package memory

// Store bundles the process-resident repositories. Orders hydrate their
// customer and pizzas from the sibling repositories.
type Store struct {
	Pizzas        *PizzaRepository
	Customers     *CustomerRepository
	Orders        *OrderRepository
	Payments      *PaymentRepository
	Deliveries    *DeliveryRepository
	StatusChanges *StatusChangeRepository
}

func NewStore() *Store {
	pizzas := NewPizzaRepository()
	customers := NewCustomerRepository()
	return &Store{
		Pizzas:        pizzas,
		Customers:     customers,
		Orders:        NewOrderRepository(pizzas, customers),
		Payments:      NewPaymentRepository(),
		Deliveries:    NewDeliveryRepository(),
		StatusChanges: NewStatusChangeRepository(),
	}
}
