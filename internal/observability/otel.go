package observability

import (
	"context"
	"sync"

	"github.com/oukeidos/maintrans/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/oukeidos/maintrans"

// Metrics holds the pipeline instruments. Without a configured provider
// the global otel meter is a no-op, so recording is always safe.
type Metrics struct {
	Completions        metric.Int64Counter
	CompletionFailures metric.Int64Counter
	CompletionDuration metric.Float64Histogram
	CacheHits          metric.Int64Counter
	CacheMisses        metric.Int64Counter
	EchoFailures       metric.Int64Counter
	FieldFallbacks     metric.Int64Counter
	BatchDuration      metric.Float64Histogram
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// Default returns the process-wide instruments, creating them on first use.
func Default() *Metrics {
	metricsOnce.Do(func() {
		m, err := InitMetrics(otel.Meter(instrumentationName))
		if err != nil {
			logger.Warn("Failed to initialize metrics, recording disabled", "error", err)
			m, _ = InitMetrics(noop.NewMeterProvider().Meter(instrumentationName))
		}
		metrics = m
	})
	return metrics
}

// InitMetrics creates the instruments on meter.
func InitMetrics(meter metric.Meter) (*Metrics, error) {
	completions, err := meter.Int64Counter(
		"maintrans.completion.count",
		metric.WithDescription("Completion calls issued, including retries"),
	)
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter(
		"maintrans.completion.failures",
		metric.WithDescription("Completion calls that failed or reported success=false"),
	)
	if err != nil {
		return nil, err
	}
	callDuration, err := meter.Float64Histogram(
		"maintrans.completion.duration",
		metric.WithDescription("Completion call latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	hits, err := meter.Int64Counter(
		"maintrans.cache.hits",
		metric.WithDescription("Completions served from the response cache"),
	)
	if err != nil {
		return nil, err
	}
	misses, err := meter.Int64Counter(
		"maintrans.cache.misses",
		metric.WithDescription("Completions not found in the response cache"),
	)
	if err != nil {
		return nil, err
	}
	echoes, err := meter.Int64Counter(
		"maintrans.records.echo_failures",
		metric.WithDescription("Records whose translation equals their source text"),
	)
	if err != nil {
		return nil, err
	}
	fallbacks, err := meter.Int64Counter(
		"maintrans.fields.fallbacks",
		metric.WithDescription("Fields that kept their source text after a failed completion"),
	)
	if err != nil {
		return nil, err
	}
	batchDuration, err := meter.Float64Histogram(
		"maintrans.batch.duration",
		metric.WithDescription("Wall-clock duration of a scheduler batch"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}
	return &Metrics{
		Completions:        completions,
		CompletionFailures: failures,
		CompletionDuration: callDuration,
		CacheHits:          hits,
		CacheMisses:        misses,
		EchoFailures:       echoes,
		FieldFallbacks:     fallbacks,
		BatchDuration:      batchDuration,
	}, nil
}

// Tracer returns the pipeline tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a span with the given attributes.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
