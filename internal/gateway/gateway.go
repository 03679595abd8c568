package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/observability"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"
)

const (
	DefaultCallTimeout = 60 * time.Second
	DefaultMaxAttempts = 2
	DefaultQPS         = 3
)

// Options configures a Gateway.
type Options struct {
	// Name labels metrics and logs, e.g. "gemini".
	Name string
	// Model is part of the cache key.
	Model string
	// CallTimeout bounds each backend call. Zero selects DefaultCallTimeout.
	CallTimeout time.Duration
	// MaxAttempts is the number of backend calls per Complete. Zero selects DefaultMaxAttempts.
	MaxAttempts int
	// QPS caps the request rate across all workers. Zero or negative disables the limit.
	QPS float64
	// Cache, when set, serves repeated prompts without calling the backend.
	Cache Cache
}

// Gateway wraps a Completer with per-call timeouts, bounded retries,
// rate limiting and optional caching. It is safe for concurrent use.
type Gateway struct {
	backend Completer
	opts    Options
	limiter *rate.Limiter
	metrics *observability.Metrics
	attrs   metric.MeasurementOption

	usageMu sync.Mutex
	usage   Usage

	// decide is swapped in tests to avoid real backoff sleeps.
	decide func(ctx context.Context, err error, attempt, maxAttempts int) (bool, time.Duration)
}

// New builds a Gateway around backend.
func New(backend Completer, opts Options) *Gateway {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultCallTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Name == "" {
		opts.Name = "completion"
	}
	var limiter *rate.Limiter
	if opts.QPS > 0 {
		burst := int(opts.QPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), burst)
	}
	return &Gateway{
		backend: backend,
		opts:    opts,
		limiter: limiter,
		metrics: observability.Default(),
		attrs:   metric.WithAttributes(attribute.String("backend", opts.Name)),
		decide:  retryDecision,
	}
}

// MaxAttempts returns the configured per-call attempt budget.
func (g *Gateway) MaxAttempts() int { return g.opts.MaxAttempts }

// Usage returns token usage accumulated across all calls.
func (g *Gateway) Usage() Usage {
	g.usageMu.Lock()
	defer g.usageMu.Unlock()
	return g.usage
}

// Complete sends prompt to the backend, retrying retryable failures up to
// MaxAttempts times. The returned error is non-nil only when the last attempt
// raised one; a service-reported failure comes back as Success=false.
func (g *Gateway) Complete(ctx context.Context, prompt string) (Completion, error) {
	return g.complete(ctx, prompt, true)
}

// Uncached returns a Completer sharing g's backend, limits and usage that
// never answers from the cache. Fresh successful completions still replace
// the cached entry. Retry passes use it so a cached echo is not replayed.
func (g *Gateway) Uncached() Completer { return uncached{g} }

type uncached struct{ g *Gateway }

func (u uncached) Complete(ctx context.Context, prompt string) (Completion, error) {
	return u.g.complete(ctx, prompt, false)
}

func (g *Gateway) complete(ctx context.Context, prompt string, readCache bool) (Completion, error) {
	key := ""
	if g.opts.Cache != nil {
		key = CacheKey(g.opts.Model, prompt)
		if readCache {
			if text, ok := g.cacheGet(ctx, key); ok {
				return Completion{Success: true, Text: text, Cached: true}, nil
			}
		}
	}

	var (
		comp Completion
		err  error
	)
	for attempt := 1; attempt <= g.opts.MaxAttempts; attempt++ {
		if g.limiter != nil {
			if werr := g.limiter.Wait(ctx); werr != nil {
				return Completion{}, werr
			}
		}

		comp, err = g.call(ctx, prompt)
		if err == nil && comp.Success {
			g.addUsage(comp.Usage)
			if key != "" {
				g.cacheSet(ctx, key, comp.Text)
			}
			return comp, nil
		}
		g.metrics.CompletionFailures.Add(ctx, 1, g.attrs)
		if err == nil {
			g.addUsage(comp.Usage)
		}

		retry, backoff := g.decide(ctx, err, attempt, g.opts.MaxAttempts)
		if !retry {
			break
		}
		logger.Debug("Retrying completion", "backend", g.opts.Name, "attempt", attempt, "backoff", backoff, "error", err)
		if serr := sleepContext(ctx, backoff); serr != nil {
			return Completion{}, serr
		}
	}
	if err != nil {
		return Completion{}, err
	}
	return Completion{Success: false, Text: comp.Text, Usage: comp.Usage}, nil
}

// call runs one backend attempt under the per-call timeout. A panicking
// backend is reported as a transient error.
func (g *Gateway) call(ctx context.Context, prompt string) (comp Completion, err error) {
	callCtx, cancel := context.WithTimeout(ctx, g.opts.CallTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			comp = Completion{}
			err = apperrors.Transient(fmt.Errorf("completion backend panicked: %v", r))
		}
	}()

	start := time.Now()
	g.metrics.Completions.Add(ctx, 1, g.attrs)
	comp, err = g.backend.Complete(callCtx, prompt)
	g.metrics.CompletionDuration.Record(ctx, time.Since(start).Seconds(), g.attrs)
	if err != nil && callCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		err = apperrors.New(apperrors.KindTransient, "Completion call timed out.", err)
	}
	return comp, err
}

func (g *Gateway) addUsage(u Usage) {
	g.usageMu.Lock()
	g.usage.Add(u)
	g.usageMu.Unlock()
}

func (g *Gateway) cacheGet(ctx context.Context, key string) (string, bool) {
	text, ok, err := g.opts.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("Completion cache read failed", "backend", g.opts.Name, "error", err)
		return "", false
	}
	if ok {
		g.metrics.CacheHits.Add(ctx, 1, g.attrs)
		return text, true
	}
	g.metrics.CacheMisses.Add(ctx, 1, g.attrs)
	return "", false
}

func (g *Gateway) cacheSet(ctx context.Context, key, text string) {
	if err := g.opts.Cache.Set(ctx, key, text); err != nil {
		logger.Warn("Completion cache write failed", "backend", g.opts.Name, "error", err)
	}
}
