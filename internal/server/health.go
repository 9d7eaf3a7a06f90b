package server

import (
	"context"
	"errors"

	"github.com/hellofresh/health-go/v5"
	"github.com/nats-io/nats.go"
	"gorm.io/gorm"
)

// NewHealth registers a check per configured backend; nil backends are skipped.
func NewHealth(name, version string, db *gorm.DB, nc *nats.Conn) (*health.Health, error) {
	opts := []health.Option{
		health.WithComponent(health.Component{Name: name, Version: version}),
	}

	if db != nil {
		opts = append(opts, health.WithChecks(health.Config{
			Name: "postgres",
			Check: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}))
	}
	if nc != nil {
		opts = append(opts, health.WithChecks(health.Config{
			Name: "nats",
			Check: func(ctx context.Context) error {
				if !nc.IsConnected() {
					return errors.New("NATS connection is not active")
				}
				return nil
			},
		}))
	}

	return health.New(opts...)
}
