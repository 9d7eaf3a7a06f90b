package usecase

import (
	"context"
	"time"

	"pizzeria/internal/domain/model"
)

// Produces transaction ids.
type IDGenerator interface {
	NewID() string
}

type Clock interface {
	Now() time.Time
}

// RandomSource draws a uniform int in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// StatusNotifier receives every status assignment after it has been stored.
// Implementations must not fail the caller; delivery problems are theirs.
type StatusNotifier interface {
	StatusChanged(ctx context.Context, change model.StatusChange)
}

type NotifierFunc func(ctx context.Context, change model.StatusChange)

func (f NotifierFunc) StatusChanged(ctx context.Context, change model.StatusChange) {
	f(ctx, change)
}

type nopNotifier struct{}

func (nopNotifier) StatusChanged(context.Context, model.StatusChange) {}

func notifierOrNop(n StatusNotifier) StatusNotifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
