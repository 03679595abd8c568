// Package config loads maintrans.yaml, the optional file that supplies
// defaults for the translate and preprocess commands. Command-line flags
// override anything set here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/preprocess"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "maintrans.yaml"

// File is the top-level maintrans.yaml structure.
type File struct {
	Store      Store             `yaml:"store"`
	Provider   Provider          `yaml:"provider"`
	Translate  Translate         `yaml:"translate"`
	Overrides  Overrides         `yaml:"overrides"`
	Cache      Cache             `yaml:"cache"`
	Output     Output            `yaml:"output"`
	Preprocess preprocess.Config `yaml:"preprocess"`

	// Path is where the file was loaded from.
	Path string `yaml:"-"`
}

// Store selects the record store.
type Store struct {
	Driver      string `yaml:"driver,omitempty"`
	DSN         string `yaml:"dsn,omitempty"`
	Table       string `yaml:"table,omitempty"`
	OutputTable string `yaml:"output_table,omitempty"`
}

// Provider selects the completion backend. API keys never live here; they
// come from the keychain or, when allowed, the environment.
type Provider struct {
	Name        string        `yaml:"name,omitempty"`
	Model       string        `yaml:"model,omitempty"`
	BaseURL     string        `yaml:"base_url,omitempty"`
	QPS         *float64      `yaml:"qps,omitempty"`
	CallTimeout time.Duration `yaml:"call_timeout,omitempty"`
	MaxAttempts int           `yaml:"max_attempts,omitempty"`
}

// Translate holds scheduler and retry settings.
type Translate struct {
	BatchSize           int           `yaml:"batch_size,omitempty"`
	RetryBatchSize      int           `yaml:"retry_batch_size,omitempty"`
	Concurrency         int           `yaml:"concurrency,omitempty"`
	BatchTimeout        time.Duration `yaml:"batch_timeout,omitempty"`
	Mode                string        `yaml:"mode,omitempty"`
	EnglishRewrite      *bool         `yaml:"english_rewrite,omitempty"`
	CheckFields         []string      `yaml:"check_fields,omitempty"`
	MaxClassifierPasses *int          `yaml:"max_classifier_passes,omitempty"`
}

// Overrides configures the manual dictionary.
type Overrides struct {
	Path    string `yaml:"path,omitempty"`
	Builtin *bool  `yaml:"builtin,omitempty"`
	Scope   string `yaml:"scope,omitempty"`
}

// Cache configures the completion cache.
type Cache struct {
	Backend  string        `yaml:"backend,omitempty"`
	RedisURL string        `yaml:"redis_url,omitempty"`
	TTL      time.Duration `yaml:"ttl,omitempty"`
}

// Output configures run artifacts.
type Output struct {
	Report      string `yaml:"report,omitempty"`
	RecoveryDir string `yaml:"recovery_dir,omitempty"`
}

// Default returns an empty file whose preprocess section carries the
// built-in preprocessing configuration.
func Default() *File {
	return &File{Preprocess: preprocess.DefaultConfig()}
}

// Load reads and validates the config file at path. Relative paths inside
// the file are resolved against its directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	f.resolvePaths(filepath.Dir(path))
	return f, nil
}

// Discover loads FileName from dir. It returns nil, nil if no file exists.
func Discover(dir string) (*File, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Load(path)
}

// Decode parses a config document. Unknown keys are rejected so typos do
// not silently fall back to defaults. Slices in the preprocess section
// replace the defaults; maps are merged into them.
func Decode(r io.Reader) (*File, error) {
	f := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate checks values that can be checked without the rest of the
// pipeline configuration.
func (f *File) Validate() error {
	if f.Provider.QPS != nil && *f.Provider.QPS < 0 {
		return fmt.Errorf("provider.qps must not be negative")
	}
	if f.Translate.BatchSize < 0 || f.Translate.RetryBatchSize < 0 || f.Translate.Concurrency < 0 {
		return fmt.Errorf("translate sizes must not be negative")
	}
	switch f.Cache.Backend {
	case "", "memory", "off", "redis":
	default:
		return fmt.Errorf("cache.backend %q is not one of memory, redis, off", f.Cache.Backend)
	}
	for name, pc := range f.Preprocess.Projects {
		for _, c := range append(append([]string{}, pc.TextualColumns...), pc.CodedColumns...) {
			if !contains(f.Preprocess.SplitColumns, c) {
				return fmt.Errorf("preprocess.projects[%q]: %q is not a split column", name, c)
			}
		}
	}
	return nil
}

func (f *File) resolvePaths(dir string) {
	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
	resolve(&f.Overrides.Path)
	resolve(&f.Output.Report)
	resolve(&f.Output.RecoveryDir)
	if f.Store.Driver == "" || f.Store.Driver == "sqlite" || f.Store.Driver == "sqlite3" {
		resolve(&f.Store.DSN)
	}
}

// Apply overlays the values set in the file onto cfg.
func (f *File) Apply(cfg pipeline.Config) pipeline.Config {
	setString(&cfg.Driver, f.Store.Driver)
	setString(&cfg.DSN, f.Store.DSN)
	setString(&cfg.Table, f.Store.Table)
	setString(&cfg.OutputTable, f.Store.OutputTable)

	setString(&cfg.Provider, f.Provider.Name)
	setString(&cfg.Model, f.Provider.Model)
	setString(&cfg.BaseURL, f.Provider.BaseURL)
	if f.Provider.QPS != nil {
		cfg.QPS = *f.Provider.QPS
	}
	setDuration(&cfg.CallTimeout, f.Provider.CallTimeout)
	setInt(&cfg.MaxCallAttempts, f.Provider.MaxAttempts)

	setInt(&cfg.BatchSize, f.Translate.BatchSize)
	setInt(&cfg.RetryBatchSize, f.Translate.RetryBatchSize)
	setInt(&cfg.Concurrency, f.Translate.Concurrency)
	setDuration(&cfg.BatchTimeout, f.Translate.BatchTimeout)
	setString(&cfg.Mode, f.Translate.Mode)
	if f.Translate.EnglishRewrite != nil {
		cfg.EnglishRewrite = *f.Translate.EnglishRewrite
	}
	if len(f.Translate.CheckFields) > 0 {
		cfg.CheckFields = append([]string(nil), f.Translate.CheckFields...)
	}
	if f.Translate.MaxClassifierPasses != nil {
		cfg.MaxClassifierPasses = *f.Translate.MaxClassifierPasses
	}

	setString(&cfg.OverridesPath, f.Overrides.Path)
	if f.Overrides.Builtin != nil {
		cfg.NoBuiltinOverrides = !*f.Overrides.Builtin
	}
	setString(&cfg.OverrideScope, f.Overrides.Scope)

	setString(&cfg.CacheBackend, f.Cache.Backend)
	setString(&cfg.RedisURL, f.Cache.RedisURL)
	setDuration(&cfg.CacheTTL, f.Cache.TTL)

	setString(&cfg.ReportPath, f.Output.Report)
	setString(&cfg.RecoveryDir, f.Output.RecoveryDir)
	return cfg
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
