package events

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("pizzeria/events")
