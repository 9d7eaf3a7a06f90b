package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"pizzeria/internal/domain/model"
	"pizzeria/internal/usecase"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// MsgPublisher is the part of *nats.Conn the notifier needs.
type MsgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSNotifier publishes each change on <prefix>.<resource>.<status>, e.g.
// pizzeria.status.order.cooking.
type NATSNotifier struct {
	nc     MsgPublisher
	prefix string
}

var _ usecase.StatusNotifier = (*NATSNotifier)(nil)

func NewNATSNotifier(nc MsgPublisher, prefix string) *NATSNotifier {
	return &NATSNotifier{nc: nc, prefix: strings.TrimSuffix(prefix, ".")}
}

func Subject(prefix string, change model.StatusChange) string {
	return prefix + "." + string(change.Resource) + "." + strings.ToLower(change.To)
}

func (n *NATSNotifier) StatusChanged(ctx context.Context, change model.StatusChange) {
	ctx, span := tracer.Start(ctx, "NATSNotifier.StatusChanged")
	defer span.End()

	data, err := json.Marshal(Event{Event: EventStatusChanged, Data: change})
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal status change", slog.Any("err", err))
		return
	}

	msg := &nats.Msg{
		Subject: Subject(n.prefix, change),
		Header:  nats.Header{},
		Data:    data,
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	if err := n.nc.PublishMsg(msg); err != nil {
		span.RecordError(err)
		slog.ErrorContext(ctx, "failed to publish status change",
			slog.String("subject", msg.Subject),
			slog.Any("err", err),
		)
	}
}

// Connect dials NATS with a client name so the server can identify us.
func Connect(url, name string) (*nats.Conn, error) {
	return nats.Connect(url, nats.Name(name))
}
