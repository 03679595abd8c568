package observability

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestInitMetrics_Noop(t *testing.T) {
	m, err := InitMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("InitMetrics: %v", err)
	}
	ctx := context.Background()
	m.Completions.Add(ctx, 1, metric.WithAttributes(attribute.String("backend", "mock")))
	m.BatchDuration.Record(ctx, 0.5)
}

func TestDefault_Singleton(t *testing.T) {
	a := Default()
	b := Default()
	if a == nil || a != b {
		t.Fatalf("Default() should return one shared instance")
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "batch", attribute.Int("batch.index", 1))
	defer span.End()
	if ctx == nil {
		t.Fatalf("nil context")
	}
}
