package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/maintrans/internal/classify"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/merge"
	"github.com/oukeidos/maintrans/internal/normalize"
	"github.com/oukeidos/maintrans/internal/overrides"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/recovery"
	"github.com/oukeidos/maintrans/internal/scheduler"
	"github.com/oukeidos/maintrans/internal/store"
)

// BackfillFields are filled from source, in this order, when their
// translation is still blank at the end of a run.
var BackfillFields = []string{
	record.FieldProblemCause,
	record.FieldProblemCode,
	record.FieldSolution,
	record.FieldObservation,
}

// RunTranslation executes the full translation pipeline: read the working
// table, normalize it, translate New records, retry echo failures, apply
// overrides and the final fill, then write the table back.
func RunTranslation(ctx context.Context, cfg Config) (RunResult, error) {
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.OutputTable == "" {
		cfg.OutputTable = cfg.Table
	}

	start := time.Now()
	runID := uuid.NewString()
	log := logger.With("run_id", runID)

	// 1. Store & input
	driver, _ := store.ParseDriver(cfg.Driver)
	st, err := store.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	if cfg.OutputTable != cfg.Table {
		proceed, err := confirmOutputTable(ctx, st, cfg)
		if err != nil {
			return RunResult{}, err
		}
		if !proceed {
			log.Info("Output table exists. Aborted by user.", "table", cfg.OutputTable)
			return RunResult{RunID: runID, Status: RunStatusSkipped}, nil
		}
	}

	dict, err := loadOverrides(cfg)
	if err != nil {
		return RunResult{}, err
	}

	t, err := st.ReadAll(ctx, cfg.Table)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to read table: %w", err)
	}
	log.Info("Loaded working table", "table", cfg.Table, "records", t.Len())

	result := RunResult{RunID: runID, Table: cfg.OutputTable, Provider: cfg.Provider}
	result.Dropped = prepare(t)
	result.Records = t.Len()
	if result.Dropped > 0 {
		log.Info("Dropped records with blank observation or solution", "dropped", result.Dropped)
	}

	// 2. Client & gateway
	backend, err := NewCompleter(ctx, cfg)
	if err != nil {
		return result, err
	}
	defer backend.Close()
	gw, closeCache, err := NewGateway(ctx, cfg, backend)
	if err != nil {
		return result, err
	}
	defer closeCache()
	result.Model = backend.Model

	// 3. Translate, retry, fill, write
	log.Info("Starting translation", "provider", cfg.Provider, "model", backend.Model, "mode", cfg.Mode)
	runErr := execute(ctx, cfg, gw, gw.Uncached(), dict, t, &result, log)
	result.Usage = gw.Usage()
	result.Duration = time.Since(start)
	if runErr != nil && ctx.Err() == nil {
		result.Status = RunStatusFailure
		return result, fmt.Errorf("fatal translation error: %w", runErr)
	}

	if err := st.WriteAll(context.WithoutCancel(ctx), cfg.OutputTable, t); err != nil {
		return result, fmt.Errorf("failed to write table: %w", err)
	}
	log.Info("Saved results", "table", cfg.OutputTable, "records", t.Len())
	log.Info("Translation finished", "status", result.Status, "remaining_failed", result.FailedAfterRetry)

	// 4. Recovery log for anything left
	if result.Status == RunStatusPartialSuccess || result.Status == RunStatusFailure {
		session := &recovery.SessionLog{
			LogVersion:     recovery.CurrentLogVersion,
			RunID:          runID,
			Driver:         string(driver),
			Table:          cfg.OutputTable,
			TableChecksum:  recovery.TableChecksumHex(t),
			Provider:       cfg.Provider,
			Model:          backend.Model,
			Mode:           cfg.Mode,
			EnglishRewrite: cfg.EnglishRewrite,
			BatchSize:      cfg.RetryBatchSize,
			Concurrency:    cfg.Concurrency,
			FailedIDs:      result.RemainingFailedIDs,
			TotalRecords:   t.Len(),
			Status:         string(result.Status),
			StatusReason:   result.StatusReason,
		}
		dir := cfg.RecoveryDir
		if dir == "" {
			dir = "."
		}
		logPath, err := recovery.WriteSessionLog(dir, cfg.OutputTable, session)
		if err != nil {
			log.Error("Failed to save recovery log", "error", err)
		} else {
			result.RecoveryLogPath = logPath
			if result.Status == RunStatusPartialSuccess {
				log.Warn("Partial success - recovery log saved", "path", logPath)
			} else {
				log.Error("Translation failed - recovery log saved", "path", logPath)
			}
		}
	}

	if cfg.ReportPath != "" {
		if err := WriteReport(cfg.ReportPath, result); err != nil {
			log.Error("Failed to save run report", "error", err)
		}
	}
	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	return result, nil
}

// prepare normalizes the source fields of New records, drops records with a
// blank primary field and makes sure the translated and status columns exist.
// It returns the number of dropped records.
func prepare(t *record.Table) int {
	t.EnsureColumn(record.ColumnStatus)
	for _, f := range record.TranslatableFields {
		t.EnsureColumn(f)
		t.EnsureColumn(record.TranslatedColumn(f))
	}
	for _, r := range t.Records {
		if r.Status() != record.StatusNew {
			continue
		}
		lang := r.Language()
		for _, f := range record.TranslatableFields {
			// Codes are often purely numeric; only free text gets placeholder cleaning.
			if f == record.FieldProblemCode {
				r.Set(f, normalize.Text(r.Source(f), lang))
				continue
			}
			r.Set(f, normalize.Value(r.Source(f), lang))
		}
	}
	return normalize.DropEmptyPrimary(t)
}

// execute runs the scheduler over gw, the retry controller over retryGW,
// the override pass and the final fill over t, recording counts in res. A canceled context stops
// translation early; whatever was translated is still merged and filled so
// the table can be written.
func execute(ctx context.Context, cfg Config, gw, retryGW gateway.Completer, dict *overrides.Table, t *record.Table, res *RunResult, log *slog.Logger) error {
	mode, _ := prompt.ParseMode(cfg.Mode)
	scope, _ := merge.ParseScope(cfg.OverrideScope)
	opts := scheduler.Options{
		BatchSize:      cfg.BatchSize,
		Concurrency:    cfg.Concurrency,
		BatchTimeout:   cfg.BatchTimeout,
		Mode:           mode,
		EnglishRewrite: cfg.EnglishRewrite,
		OnProgress:     cfg.OnProgress,
	}
	sched, err := scheduler.New(gw, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}

	results, stats, runErr := sched.Run(ctx, t.Records)
	res.Translated = merge.Apply(t, results)
	markProcessed(t, results)
	res.Stats.Add(stats)

	checkFields := cfg.CheckFields
	if len(checkFields) == 0 {
		checkFields = record.PrimaryFields
	}

	var remaining []int
	if runErr == nil {
		opts.BatchSize = cfg.RetryBatchSize
		retry, err := scheduler.New(retryGW, opts)
		if err != nil {
			return fmt.Errorf("failed to initialize retry scheduler: %w", err)
		}
		report, err := classify.NewController(retry, classify.Options{
			CheckFields: checkFields,
			MaxPasses:   cfg.MaxClassifierPasses,
		}).Run(ctx, t)
		res.FailedBeforeRetry = len(report.FailedBeforeRetry)
		res.Stats.Add(report.Stats)
		remaining = report.RemainingFailed
		runErr = err
	}
	if runErr != nil {
		if ctx.Err() == nil {
			return runErr
		}
		res.StatusReason = "canceled"
		log.Warn("Translation canceled, keeping partial results", "error", runErr)
		remaining = unfinished(t, checkFields, remaining)
	}

	res.OverridesApplied = merge.ApplyOverrides(t, dict, record.TranslatableFields, scope)
	if blank := classify.IdentifyBlank(t.Records, BackfillFields); len(blank) > 0 {
		res.BlankTranslations = len(blank)
		log.Warn("Blank translations before final fill", "records", len(blank), "ids", classify.SortedIDs(blank))
	}
	res.Backfilled = merge.Backfill(t, BackfillFields)
	log.Info("Applied overrides and final fill", "overrides", res.OverridesApplied, "backfilled", res.Backfilled)

	res.RemainingFailedIDs = remaining
	res.FailedAfterRetry = len(remaining)
	res.Status = statusFor(len(remaining), t.Len())
	return nil
}

// markProcessed flags every record the scheduler returned a result for.
// Records in batches that never ran stay New.
func markProcessed(t *record.Table, results scheduler.Results) {
	for _, r := range t.Records {
		if _, ok := results[r.ID]; ok {
			r.SetStatus(record.StatusProcessed)
		}
	}
}

// unfinished is the failure set of a canceled run: records still New, echo
// failures among the rest, and anything already known to have failed.
func unfinished(t *record.Table, checkFields []string, known []int) []int {
	set := classify.IdentifyFailed(t.Records, checkFields)
	for _, r := range t.Records {
		if r.Status() == record.StatusNew {
			set[r.ID] = true
		}
	}
	for _, id := range known {
		set[id] = true
	}
	return classify.SortedIDs(set)
}

func loadOverrides(cfg Config) (*overrides.Table, error) {
	dict := overrides.New()
	if !cfg.NoBuiltinOverrides {
		dict.Merge(overrides.Builtin())
	}
	if cfg.OverridesPath != "" {
		user, err := overrides.LoadFile(cfg.OverridesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
		dict.Merge(user)
		logger.Info("Loaded override dictionary", "entries", user.Len(), "path", cfg.OverridesPath)
	}
	return dict, nil
}

func confirmOutputTable(ctx context.Context, st *store.Store, cfg Config) (bool, error) {
	tables, err := st.Tables(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tables: %w", err)
	}
	if !slices.Contains(tables, cfg.OutputTable) {
		return true, nil
	}
	if cfg.Overwrite {
		logger.Info("Overwriting output table", "table", cfg.OutputTable)
		return true, nil
	}
	if cfg.OnConfirmOverwrite != nil && cfg.OnConfirmOverwrite(cfg.OutputTable) {
		logger.Info("Overwriting output table", "table", cfg.OutputTable)
		return true, nil
	}
	return false, nil
}
