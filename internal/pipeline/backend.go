package pipeline

import (
	"context"
	"fmt"

	"github.com/oukeidos/maintrans/internal/compat"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/gemini"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/openai"
)

// Backend is a completion client plus what is needed to release it.
type Backend struct {
	Completer gateway.Completer
	Model     string
	close     func() error
}

// Close releases the client's resources.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// mockBackend is swapped in tests to script the "mock" provider.
var mockBackend = func() gateway.Completer { return &gateway.MockCompleter{} }

// NewCompleter builds the raw completion client selected by cfg.Provider.
// Retries, timeouts, rate limiting and caching are layered on by NewGateway.
func NewCompleter(ctx context.Context, cfg Config) (*Backend, error) {
	switch cfg.Provider {
	case "gemini":
		c, err := gemini.NewClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return &Backend{Completer: c, Model: c.Model(), close: c.Close}, nil
	case "openai":
		c := openai.NewClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		return &Backend{Completer: c, Model: c.Model()}, nil
	case "compat":
		c, err := compat.NewClient(ctx, compat.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.CallTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create compat client: %w", err)
		}
		return &Backend{Completer: c, Model: c.Model()}, nil
	case "mock":
		model := cfg.Model
		if model == "" {
			model = "mock"
		}
		return &Backend{Completer: mockBackend(), Model: model}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewGateway wraps backend with the configured call policy and cache. The
// returned cleanup closes any cache connection.
func NewGateway(ctx context.Context, cfg Config, backend *Backend) (*gateway.Gateway, func() error, error) {
	cache, closeCache, err := newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	gw := gateway.New(backend.Completer, gateway.Options{
		Name:        cfg.Provider,
		Model:       backend.Model,
		CallTimeout: cfg.CallTimeout,
		MaxAttempts: cfg.MaxCallAttempts,
		QPS:         cfg.QPS,
		Cache:       cache,
	})
	return gw, closeCache, nil
}

func newCache(ctx context.Context, cfg Config) (gateway.Cache, func() error, error) {
	noop := func() error { return nil }
	switch cfg.CacheBackend {
	case "off":
		return nil, noop, nil
	case "redis":
		client, err := gateway.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using redis completion cache", "ttl", cfg.CacheTTL)
		return gateway.NewRedisCache(client, "", cfg.CacheTTL), client.Close, nil
	default:
		return gateway.NewMemoryCache(), noop, nil
	}
}
