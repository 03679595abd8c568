package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/oukeidos/maintrans/internal/config"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/scheduler"
	"github.com/spf13/cobra"
)

var runTranslationPipeline = pipeline.RunTranslation

type translateOptions struct {
	driver              string
	dsn                 string
	table               string
	outputTable         string
	provider            string
	model               string
	baseURL             string
	qps                 float64
	callTimeout         time.Duration
	maxCallAttempts     int
	batchSize           int
	retryBatchSize      int
	concurrency         int
	batchTimeout        time.Duration
	mode                string
	englishRewrite      bool
	checkFields         []string
	maxClassifierPasses int
	overridesPath       string
	noBuiltinOverrides  bool
	overrideScope       string
	cacheBackend        string
	redisURL            string
	cacheTTL            time.Duration
	reportPath          string
	recoveryDir         string
	yes                 bool
	allowEnv            bool
	envOnly             bool
}

func newTranslateCmd(global *globalOptions) *cobra.Command {
	opts := translateOptions{}
	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Translate the records of a working table to English",
		Example: "  maintrans translate --driver sqlite --dsn records.db --table working\n" +
			"  maintrans translate --provider openai --mode technical --output-table working_en",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, global, &opts)
		},
		SilenceUsage: true,
	}

	cmd.SetUsageTemplate(subcommandUsageTemplate)
	addTranslateFlags(cmd, &opts)
	return cmd
}

func addTranslateFlags(cmd *cobra.Command, opts *translateOptions) {
	d := pipeline.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&opts.driver, "driver", d.Driver, "Store driver (sqlite, mysql, postgres)")
	f.StringVar(&opts.dsn, "dsn", "", "Store data source name (sqlite: file path)")
	f.StringVar(&opts.table, "table", "", "Working table to translate")
	f.StringVar(&opts.outputTable, "output-table", "", "Write results to this table instead of updating in place")
	f.StringVar(&opts.provider, "provider", d.Provider, "Completion provider ("+strings.Join(pipeline.Providers, ", ")+")")
	f.StringVar(&opts.model, "model", "", "Model name (default: provider default)")
	f.StringVar(&opts.baseURL, "base-url", "", "Endpoint base URL (openai, compat)")
	f.Float64Var(&opts.qps, "qps", d.QPS, "Maximum completion requests per second (0 disables the limit)")
	f.DurationVar(&opts.callTimeout, "call-timeout", d.CallTimeout, "Timeout for one completion call")
	f.IntVar(&opts.maxCallAttempts, "max-call-attempts", d.MaxCallAttempts, "Attempts per completion call")
	f.IntVar(&opts.batchSize, "batch-size", d.BatchSize, "Records per batch")
	f.IntVar(&opts.retryBatchSize, "retry-batch-size", d.RetryBatchSize, "Records per batch when retrying failures")
	f.IntVar(&opts.concurrency, "concurrency", d.Concurrency, "Number of batches processed in parallel (1-20)")
	f.DurationVar(&opts.batchTimeout, "batch-timeout", d.BatchTimeout, "Timeout for one batch")
	f.StringVar(&opts.mode, "mode", d.Mode, "Prompt mode (basic, technical)")
	f.BoolVar(&opts.englishRewrite, "english-rewrite", false, "Rewrite English records instead of copying them")
	f.StringSliceVar(&opts.checkFields, "check-fields", nil, "Fields checked for echo failures (default: observation,solution)")
	f.IntVar(&opts.maxClassifierPasses, "max-classifier-passes", d.MaxClassifierPasses, "Retry passes over failed records (negative disables)")
	f.StringVar(&opts.overridesPath, "overrides", "", "Path to a YAML override dictionary")
	f.BoolVar(&opts.noBuiltinOverrides, "no-builtin-overrides", false, "Do not load the built-in override dictionary")
	f.StringVar(&opts.overrideScope, "override-scope", d.OverrideScope, "Where overrides apply (blank, echo, all)")
	f.StringVar(&opts.cacheBackend, "cache", d.CacheBackend, "Completion cache (memory, redis, off)")
	f.StringVar(&opts.redisURL, "redis-url", "", "Redis URL for --cache=redis")
	f.DurationVar(&opts.cacheTTL, "cache-ttl", 0, "Redis cache entry lifetime (0 keeps entries)")
	f.StringVar(&opts.reportPath, "report", "", "Write a JSON run report to this path")
	f.StringVar(&opts.recoveryDir, "recovery-dir", "", "Directory for recovery logs (default: current directory)")
	f.BoolVarP(&opts.yes, "yes", "y", false, "Overwrite the output table without asking")
	f.BoolVar(&opts.allowEnv, "allow-env", false, "Allow reading API key from environment variables")
	f.BoolVar(&opts.envOnly, "env-only", false, "Use only environment variables for API keys")
}

// translateConfig layers the built-in defaults, the config file and the
// flags the user actually set, in that order.
func translateConfig(cmd *cobra.Command, file *config.File, opts *translateOptions) pipeline.Config {
	cfg := file.Apply(pipeline.DefaultConfig())
	f := cmd.Flags()
	changed := f.Changed

	if changed("driver") {
		cfg.Driver = opts.driver
	}
	if changed("dsn") {
		cfg.DSN = opts.dsn
	}
	if changed("table") {
		cfg.Table = opts.table
	}
	if changed("output-table") {
		cfg.OutputTable = opts.outputTable
	}
	if changed("provider") {
		cfg.Provider = opts.provider
	}
	if changed("model") {
		cfg.Model = opts.model
	}
	if changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if changed("qps") {
		cfg.QPS = opts.qps
	}
	if changed("call-timeout") {
		cfg.CallTimeout = opts.callTimeout
	}
	if changed("max-call-attempts") {
		cfg.MaxCallAttempts = opts.maxCallAttempts
	}
	if changed("batch-size") {
		cfg.BatchSize = opts.batchSize
	}
	if changed("retry-batch-size") {
		cfg.RetryBatchSize = opts.retryBatchSize
	}
	if changed("concurrency") {
		cfg.Concurrency = opts.concurrency
	}
	if changed("batch-timeout") {
		cfg.BatchTimeout = opts.batchTimeout
	}
	if changed("mode") {
		cfg.Mode = opts.mode
	}
	if changed("english-rewrite") {
		cfg.EnglishRewrite = opts.englishRewrite
	}
	if changed("check-fields") {
		cfg.CheckFields = opts.checkFields
	}
	if changed("max-classifier-passes") {
		cfg.MaxClassifierPasses = opts.maxClassifierPasses
	}
	if changed("overrides") {
		cfg.OverridesPath = opts.overridesPath
	}
	if changed("no-builtin-overrides") {
		cfg.NoBuiltinOverrides = opts.noBuiltinOverrides
	}
	if changed("override-scope") {
		cfg.OverrideScope = opts.overrideScope
	}
	if changed("cache") {
		cfg.CacheBackend = opts.cacheBackend
	}
	if changed("redis-url") {
		cfg.RedisURL = opts.redisURL
	}
	if changed("cache-ttl") {
		cfg.CacheTTL = opts.cacheTTL
	}
	if changed("report") {
		cfg.ReportPath = opts.reportPath
	}
	if changed("recovery-dir") {
		cfg.RecoveryDir = opts.recoveryDir
	}
	cfg.Overwrite = opts.yes
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg
}

func runTranslate(cmd *cobra.Command, global *globalOptions, opts *translateOptions) error {
	startTime := time.Now()

	file, err := loadConfigFile(global.configPath)
	if err != nil {
		return err
	}
	if file.Path != "" {
		logger.Info("Using config file", "path", file.Path)
	}
	cfg := translateConfig(cmd, file, opts)

	key, source, err := resolveAPIKey(cfg.Provider, opts.allowEnv, opts.envOnly)
	if err != nil {
		return err
	}
	if cfg.Provider != "mock" {
		logger.Info("Using API Key", "provider", cfg.Provider, "source", source)
	}
	cfg.APIKey = key
	cfg.OnProgress = logProgress
	cfg.OnConfirmOverwrite = func(table string) bool {
		confirmed, err := newConfirmer().Overwrite("table", table, opts.yes)
		if err != nil {
			logger.Error("Overwrite confirmation failed", "error", err)
			return false
		}
		return confirmed
	}

	ctx, stop := signalContext()
	defer stop()
	result, err := runTranslationPipeline(ctx, cfg)

	// Stats are printed even for partial runs; tokens were spent either way.
	if result.Model != "" {
		printUsageStats(cmd.OutOrStdout(), result.Usage, time.Since(startTime), result.Provider, result.Model)
		printRunSummary(cmd.OutOrStdout(), result)
	}

	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("Translation canceled", "error", err)
			return nil
		}
		return err
	}
	return runStatusError(result)
}

func logProgress(p scheduler.Progress) {
	switch p.State {
	case scheduler.StateBatchCompleted:
		logger.Info("Batch completed", "batch", p.Batch, "total", p.TotalBatches, "records", p.BatchSize)
	case scheduler.StateCanceled:
		logger.Warn("Batch canceled", "batch", p.Batch, "completed", p.Completed, "error", p.Error)
	case scheduler.StateRecordCompleted:
		logger.Debug("Record completed", "batch", p.Batch, "record", p.RecordID)
	}
}

func printRunSummary(w io.Writer, r pipeline.RunResult) {
	fmt.Fprintf(w, "Status: %s", r.Status)
	if r.StatusReason != "" {
		fmt.Fprintf(w, " (%s)", r.StatusReason)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d (dropped %d), translated %d\n", r.Records, r.Dropped, r.Translated)
	fmt.Fprintf(w, "Failures: %d before retry, %d after retry\n", r.FailedBeforeRetry, r.FailedAfterRetry)
	fmt.Fprintf(w, "Overrides applied: %d, blank translations: %d, backfilled: %d\n", r.OverridesApplied, r.BlankTranslations, r.Backfilled)
	fmt.Fprintf(w, "Calls: %d (cached %d, parse failures %d)\n", r.Stats.Calls, r.Stats.Cached, r.Stats.ParseFailures)
}

func runStatusError(result pipeline.RunResult) error {
	switch result.Status {
	case pipeline.RunStatusSuccess:
		return nil
	case pipeline.RunStatusSkipped:
		fmt.Fprintln(os.Stderr, "Output table exists; nothing written.")
		return nil
	case pipeline.RunStatusPartialSuccess, pipeline.RunStatusFailure:
		if result.RecoveryLogPath != "" {
			return fmt.Errorf("translation finished with status: %s (recovery log: %s)", result.Status, result.RecoveryLogPath)
		}
		return fmt.Errorf("translation finished with status: %s", result.Status)
	default:
		return fmt.Errorf("translation finished with unknown status: %q", result.Status)
	}
}
