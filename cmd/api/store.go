package main

import (
	"context"
	"fmt"

	"pizzeria/internal/config"
	"pizzeria/internal/infra/db"
	"pizzeria/internal/infra/memory"
	infraRepo "pizzeria/internal/infra/repository"
	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

type repositories struct {
	pizzas        repo.PizzaRepository
	customers     repo.CustomerRepository
	orders        repo.OrderRepository
	payments      repo.PaymentRepository
	deliveries    repo.DeliveryRepository
	statusChanges repo.StatusChangeRepository

	// nil for the memory store
	gormDB *gorm.DB
}

func (r *repositories) Close() error {
	if r.gormDB == nil {
		return nil
	}
	return db.Close(r.gormDB)
}

func openStore(ctx context.Context, cfg config.StoreSettings) (*repositories, error) {
	if cfg.Driver != "postgres" {
		s := memory.NewStore()
		return &repositories{
			pizzas:        s.Pizzas,
			customers:     s.Customers,
			orders:        s.Orders,
			payments:      s.Payments,
			deliveries:    s.Deliveries,
			statusChanges: s.StatusChanges,
		}, nil
	}

	gormDB, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, gormDB); err != nil {
			_ = db.Close(gormDB)
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}

	return &repositories{
		pizzas:        infraRepo.NewPizzaGormRepository(gormDB),
		customers:     infraRepo.NewCustomerGormRepository(gormDB),
		orders:        infraRepo.NewOrderGormRepository(gormDB),
		payments:      infraRepo.NewPaymentGormRepository(gormDB),
		deliveries:    infraRepo.NewDeliveryGormRepository(gormDB),
		statusChanges: infraRepo.NewStatusChangeGormRepository(gormDB),
		gormDB:        gormDB,
	}, nil
}
