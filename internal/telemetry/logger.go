package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"pizzeria/internal/config"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogHandler is the stdout half of the default logger, usable on its own
// in tools and tests.
func NewLogHandler(w io.Writer, cfg config.LogSettings) slog.Handler {
	return pipeline().Handler(newBaseHandler(w, cfg))
}

func newBaseHandler(w io.Writer, cfg config.LogSettings) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(cfg.Level),
	}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func pipeline() *slogmulti.PipeBuilder {
	return slogmulti.Pipe(slogmulti.NewHandleInlineMiddleware(errorFormattingMiddleware))
}

// ParseLevel falls back to info for anything slog does not recognise.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// errorFormattingMiddleware expands error attributes into a group holding the
// message and the concrete type.
func errorFormattingMiddleware(ctx context.Context, record slog.Record, next func(context.Context, slog.Record) error) error {
	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(formatErrorAttr(a))
		return true
	})
	return next(ctx, out)
}

func formatErrorAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	err, ok := a.Value.Any().(error)
	if !ok || err == nil {
		return a
	}
	return slog.Group(a.Key,
		slog.String("message", err.Error()),
		slog.String("type", fmt.Sprintf("%T", err)),
	)
}
