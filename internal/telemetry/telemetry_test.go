package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"pizzeria/internal/config"
	"pizzeria/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"loud", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogHandler_FormatsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, config.LogSettings{Level: "info", Format: "json"}))

	err := fmt.Errorf("charge order 5: %w", model.NewValidationError("payment_method", "unknown"))
	logger.Error("failed to process order", slog.Int64("order-id", 5), slog.Any("err", err))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "failed to process order", line["msg"])
	assert.EqualValues(t, 5, line["order-id"])

	errAttr, ok := line["err"].(map[string]any)
	require.True(t, ok, "err is a group: %v", line["err"])
	assert.Equal(t, "charge order 5: invalid payment_method: unknown", errAttr["message"])
	assert.Equal(t, "*fmt.wrapError", errAttr["type"])
}

func TestLogHandler_LeavesOtherAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, config.LogSettings{Level: "info", Format: "json"}))

	logger.Info("status changed", slog.Any("to", "COOKING"), slog.Any("err", error(nil)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "COOKING", line["to"])
}

func TestLogHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewLogHandler(&buf, config.LogSettings{Level: "warn", Format: "text"}))

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown", slog.Any("err", errors.New("boom")))
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "err.message=boom")
}

func TestSetupOTelSDK_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := context.Background()
	shutdown, err := SetupOTelSDK(ctx,
		config.AppSettings{Name: "pizzeria", Version: "test", Env: "test"},
		config.LogSettings{Level: "error", Format: "json"},
		config.OpenTelemetrySettings{Enabled: false},
	)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.NoError(t, shutdown(ctx), "second shutdown is a no-op")
}
