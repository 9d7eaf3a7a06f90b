package events

import (
	"context"
	"log/slog"

	"pizzeria/internal/domain/model"
	repo "pizzeria/internal/repository"
	"pizzeria/internal/usecase"
)

// EventStatusChanged is the event name carried on every outbound status message.
const EventStatusChanged = "status.changed"

// Event is the envelope written to websocket clients and NATS subscribers.
type Event struct {
	Event string             `json:"event"`
	Data  model.StatusChange `json:"data"`
}

type fanout []usecase.StatusNotifier

// Fanout delivers each change to every non-nil notifier in order.
func Fanout(notifiers ...usecase.StatusNotifier) usecase.StatusNotifier {
	out := make(fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (f fanout) StatusChanged(ctx context.Context, change model.StatusChange) {
	for _, n := range f {
		n.StatusChanged(ctx, change)
	}
}

type LogNotifier struct {
	logger *slog.Logger
}

var _ usecase.StatusNotifier = (*LogNotifier)(nil)

// NewLogNotifier falls back to slog.Default when logger is nil.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) StatusChanged(ctx context.Context, change model.StatusChange) {
	n.logger.InfoContext(ctx, "status changed",
		slog.String("resource", string(change.Resource)),
		slog.Int64("resource-id", change.ResourceID),
		slog.Int64("order-id", change.OrderID),
		slog.String("from", change.From),
		slog.String("to", change.To),
	)
}

// HistoryRecorder appends every change to the status history.
type HistoryRecorder struct {
	changes repo.StatusChangeRepository
}

var _ usecase.StatusNotifier = (*HistoryRecorder)(nil)

func NewHistoryRecorder(changes repo.StatusChangeRepository) *HistoryRecorder {
	return &HistoryRecorder{changes: changes}
}

func (r *HistoryRecorder) StatusChanged(ctx context.Context, change model.StatusChange) {
	if err := r.changes.Create(ctx, &change); err != nil {
		slog.ErrorContext(ctx, "failed to record status change",
			slog.String("resource", string(change.Resource)),
			slog.Int64("resource-id", change.ResourceID),
			slog.Any("err", err),
		)
	}
}
