package telemetry_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/royalcat/rquadtree/internal/telemetry"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_LOGS_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")

	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := telemetry.Setup(ctx, "rquadtree_test", "")
	if err != nil {
		t.Fatal(err)
	}
	if slog.Default() == defaultLogger {
		t.Fatalf("expected default logger to be replaced")
	}

	slog.Info("telemetry test message")

	if err := client.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	client.Shutdown(ctx)
}
