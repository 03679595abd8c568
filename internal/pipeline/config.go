package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/merge"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/scheduler"
	"github.com/oukeidos/maintrans/internal/store"
)

// Config holds all configuration required for a translation or repair run.
type Config struct {
	// Record store
	Driver      string
	DSN         string
	Table       string
	OutputTable string // Optional: defaults to Table (in-place update)

	// Completion service
	Provider    string // gemini, openai, compat or mock
	Model       string
	APIKey      string
	BaseURL     string
	QPS         float64
	CallTimeout time.Duration
	// MaxCallAttempts is the per-call retry budget inside the gateway.
	MaxCallAttempts int

	// Processing parameters
	BatchSize      int
	RetryBatchSize int
	Concurrency    int
	BatchTimeout   time.Duration
	Mode           string
	EnglishRewrite bool
	// CheckFields drive echo-failure detection. Empty selects observation and solution.
	CheckFields []string
	// MaxClassifierPasses bounds the retry stage. Zero selects one pass,
	// negative disables it.
	MaxClassifierPasses int

	// Overrides
	OverridesPath      string
	NoBuiltinOverrides bool
	OverrideScope      string

	// Cache
	CacheBackend string // memory (default), redis or off
	RedisURL     string
	CacheTTL     time.Duration

	// Outputs
	ReportPath  string // Optional: JSON run report
	RecoveryDir string // Optional: where session logs go on partial failure
	LogPath     string // Repair only: session log to resume

	// Callbacks
	// OnProgress is called with scheduler progress updates.
	OnProgress func(scheduler.Progress)

	// OnConfirmOverwrite is called when OutputTable differs from Table and
	// already exists. It should return true if the table may be replaced.
	OnConfirmOverwrite func(table string) bool
	Overwrite          bool
}

const (
	MinConcurrency  = 1
	MaxConcurrency  = 20
	MaxBatchSize    = 1000
	MaxCallAttempts = 5

	DefaultRetryBatchSize = 20
	DefaultProvider       = "gemini"
)

// Providers lists the completion backends NewCompleter accepts.
var Providers = []string{"gemini", "openai", "compat", "mock"}

// DefaultConfig returns the configuration used when neither a config file
// nor flags say otherwise.
func DefaultConfig() Config {
	return Config{
		Driver:          string(store.DriverSQLite),
		Provider:        DefaultProvider,
		QPS:             gateway.DefaultQPS,
		CallTimeout:     gateway.DefaultCallTimeout,
		MaxCallAttempts: gateway.DefaultMaxAttempts,
		BatchSize:       scheduler.DefaultBatchSize,
		RetryBatchSize:  DefaultRetryBatchSize,
		Concurrency:     scheduler.DefaultConcurrency,
		BatchTimeout:    scheduler.DefaultBatchTimeout,
		Mode:            string(prompt.ModeBasic),
		OverrideScope:   string(merge.ScopeBlank),
		CacheBackend:    "memory",
	}
}

func ClampConcurrency(value int) (int, bool) {
	if value < MinConcurrency {
		return MinConcurrency, true
	}
	if value > MaxConcurrency {
		return MaxConcurrency, true
	}
	return value, false
}

// Normalize applies safe bounds to config values and returns any adjustments.
func (c Config) Normalize() (Config, []string) {
	var notes []string
	if clamped, changed := ClampConcurrency(c.Concurrency); changed {
		notes = append(notes, fmt.Sprintf("concurrency clamped from %d to %d (max %d)", c.Concurrency, clamped, MaxConcurrency))
		c.Concurrency = clamped
	}
	if c.BatchSize > MaxBatchSize {
		notes = append(notes, fmt.Sprintf("batch-size clamped from %d to %d (max %d)", c.BatchSize, MaxBatchSize, MaxBatchSize))
		c.BatchSize = MaxBatchSize
	}
	if c.RetryBatchSize > MaxBatchSize {
		notes = append(notes, fmt.Sprintf("retry-batch-size clamped from %d to %d (max %d)", c.RetryBatchSize, MaxBatchSize, MaxBatchSize))
		c.RetryBatchSize = MaxBatchSize
	}
	if c.RetryBatchSize <= 0 {
		c.RetryBatchSize = DefaultRetryBatchSize
	}
	if c.MaxCallAttempts > MaxCallAttempts {
		notes = append(notes, fmt.Sprintf("max-attempts clamped from %d to %d (max %d)", c.MaxCallAttempts, MaxCallAttempts, MaxCallAttempts))
		c.MaxCallAttempts = MaxCallAttempts
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	return c, notes
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Table) == "" {
		return fmt.Errorf("table is required")
	}
	if _, err := store.ParseDriver(c.Driver); err != nil {
		return err
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("store DSN is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batchSize must be greater than 0, got %d", c.BatchSize)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be greater than 0, got %d", c.Concurrency)
	}
	if c.MaxCallAttempts < 0 {
		return fmt.Errorf("maxCallAttempts must be 0 or greater, got %d", c.MaxCallAttempts)
	}
	if c.CallTimeout < 0 || c.BatchTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if _, err := prompt.ParseMode(c.Mode); err != nil {
		return err
	}
	if _, err := merge.ParseScope(c.OverrideScope); err != nil {
		return err
	}
	if err := validateFields(c.CheckFields); err != nil {
		return err
	}
	switch c.CacheBackend {
	case "", "memory", "off":
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("redis cache requires a redis URL")
		}
	default:
		return fmt.Errorf("unknown cache backend %q (want memory, redis or off)", c.CacheBackend)
	}
	return c.validateProvider()
}

func (c Config) validateProvider() error {
	switch c.Provider {
	case "mock":
		return nil
	case "gemini", "openai":
		if c.APIKey == "" {
			return fmt.Errorf("API key is required")
		}
	case "compat":
		if c.BaseURL == "" {
			return fmt.Errorf("compat provider requires a base URL")
		}
		if c.Model == "" {
			return fmt.Errorf("compat provider requires a model")
		}
	default:
		return fmt.Errorf("unknown provider %q (want %s)", c.Provider, strings.Join(Providers, ", "))
	}
	return nil
}

func validateFields(fields []string) error {
	for _, f := range fields {
		known := false
		for _, t := range record.TranslatableFields {
			if f == t {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown field %q (want one of %s)", f, strings.Join(record.TranslatableFields, ", "))
		}
	}
	return nil
}

// ValidateRepairRuntime checks only runtime config required for repair.
// Run settings (provider, batch size, concurrency, model, mode) come from the
// session log and are checked once it is loaded.
func (c Config) ValidateRepairRuntime() error {
	if c.LogPath == "" {
		return fmt.Errorf("log file path is required for repair")
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("store DSN is required")
	}
	return nil
}
