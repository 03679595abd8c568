package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/recovery"
	"github.com/oukeidos/maintrans/internal/store"
)

// RunRepair resumes a partially failed run from its session log: the
// records it lists are reset to New and translated again with the run's
// original provider, model and mode. The log is removed once nothing is
// left, otherwise it is updated with the remaining failures.
func RunRepair(ctx context.Context, cfg Config) (RunResult, error) {
	// 1. Load & check the session log
	if err := cfg.ValidateRepairRuntime(); err != nil {
		return RunResult{}, fmt.Errorf("invalid configuration: %w", err)
	}
	session, origHash, err := recovery.LoadSessionLogWithHash(cfg.LogPath)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load recovery log: %w", err)
	}
	if err := session.Validate(); err != nil {
		return RunResult{}, fmt.Errorf("invalid recovery log: %w", err)
	}

	cfg = runtimeConfig(cfg, session)
	var notes []string
	cfg, notes = cfg.Normalize()
	for _, note := range notes {
		logger.Warn("Config normalized", "detail", note)
	}
	if err := cfg.validateProvider(); err != nil {
		return RunResult{}, fmt.Errorf("invalid configuration: %w", err)
	}

	start := time.Now()
	runID := uuid.NewString()
	log := logger.With("run_id", runID, "resumes", session.RunID)

	driver, err := store.ParseDriver(session.Driver)
	if err != nil {
		return RunResult{}, fmt.Errorf("invalid recovery log: %w", err)
	}
	st, err := store.Open(ctx, driver, cfg.DSN)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	t, err := st.ReadAll(ctx, session.Table)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to read table: %w", err)
	}
	if t.Len() != session.TotalRecords {
		return RunResult{}, fmt.Errorf("record count mismatch: expected %d, got %d", session.TotalRecords, t.Len())
	}
	if sum := recovery.TableChecksumHex(t); sum != session.TableChecksum {
		return RunResult{}, fmt.Errorf("table checksum mismatch: expected %s, got %s", session.TableChecksum, sum)
	}

	dict, err := loadOverrides(cfg)
	if err != nil {
		return RunResult{}, err
	}

	// 2. Reset the failed records
	failed := make(map[int]bool, len(session.FailedIDs))
	for _, id := range session.FailedIDs {
		failed[id] = true
	}
	for _, r := range t.Records {
		if failed[r.ID] {
			r.SetStatus(record.StatusNew)
		} else {
			r.SetStatus(record.StatusProcessed)
		}
	}

	backend, err := NewCompleter(ctx, cfg)
	if err != nil {
		return RunResult{}, err
	}
	defer backend.Close()
	gw, closeCache, err := NewGateway(ctx, cfg, backend)
	if err != nil {
		return RunResult{}, err
	}
	defer closeCache()

	// 3. Repair
	log.Info("Starting repair", "model", session.Model, "failed_records", len(session.FailedIDs))
	result := RunResult{RunID: runID, Table: session.Table, Provider: cfg.Provider, Model: backend.Model, Records: t.Len()}
	// Logged failures may be cached echoes from the failed run.
	fresh := gw.Uncached()
	runErr := execute(ctx, cfg, fresh, fresh, dict, t, &result, log)
	result.Usage = gw.Usage()
	result.Duration = time.Since(start)
	if runErr != nil && ctx.Err() == nil {
		return result, fmt.Errorf("repair failed: %w", runErr)
	}

	if err := st.WriteAll(context.WithoutCancel(ctx), session.Table, t); err != nil {
		return result, fmt.Errorf("failed to write table: %w", err)
	}
	log.Info("Repair finished", "status", result.Status, "remaining_failed", result.FailedAfterRetry)

	// 4. Update or retire the session log
	if result.FailedAfterRetry == 0 {
		if currentHash, err := recovery.HashFile(cfg.LogPath); err != nil {
			log.Warn("Failed to read session log for verification", "path", cfg.LogPath, "error", err)
		} else if currentHash != origHash {
			log.Warn("Session log content changed; skipping delete", "path", cfg.LogPath)
		} else if err := os.Remove(cfg.LogPath); err != nil {
			log.Warn("Failed to remove session log after success", "path", cfg.LogPath, "error", err)
		}
	} else {
		session.FailedIDs = result.RemainingFailedIDs
		session.Status = string(result.Status)
		session.StatusReason = result.StatusReason
		session.TableChecksum = recovery.TableChecksumHex(t)
		if err := recovery.UpdateSessionLog(cfg.LogPath, session); err != nil {
			log.Error("Failed to update recovery log", "error", err)
		} else {
			result.RecoveryLogPath = cfg.LogPath
			log.Warn("Partial repair - session log updated", "path", cfg.LogPath)
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
	if result.FailedAfterRetry > 0 {
		return result, fmt.Errorf("repair finished with %d failed records", result.FailedAfterRetry)
	}
	return result, nil
}

// runtimeConfig takes run settings from the session log and keeps only
// runtime values (credentials, store DSN, cache, outputs) from cfg.
func runtimeConfig(cfg Config, session *recovery.SessionLog) Config {
	cfg.Driver = session.Driver
	cfg.Table = session.Table
	cfg.OutputTable = session.Table
	cfg.Provider = session.Provider
	cfg.Model = session.Model
	cfg.Mode = session.Mode
	cfg.EnglishRewrite = session.EnglishRewrite
	cfg.BatchSize = session.BatchSize
	cfg.RetryBatchSize = session.BatchSize
	cfg.Concurrency = session.Concurrency
	return cfg
}
