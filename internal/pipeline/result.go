package pipeline

import (
	"fmt"
	"time"

	"github.com/oukeidos/maintrans/internal/files"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/recovery"
	"github.com/oukeidos/maintrans/internal/scheduler"
)

// RunStatus is the terminal state of a translation run.
type RunStatus string

const (
	RunStatusSuccess        RunStatus = "Success"
	RunStatusPartialSuccess RunStatus = "Partial Success"
	RunStatusFailure        RunStatus = "Failure"
	RunStatusSkipped        RunStatus = "Skipped"
)

// RunResult contains structured outputs from RunTranslation and RunRepair.
type RunResult struct {
	RunID              string          `json:"run_id"`
	Status             RunStatus       `json:"status"`
	StatusReason       string          `json:"status_reason,omitempty"`
	Table              string          `json:"table"`
	Provider           string          `json:"provider"`
	Model              string          `json:"model"`
	Records            int             `json:"records"`
	Dropped            int             `json:"dropped"`
	Translated         int             `json:"translated"`
	FailedBeforeRetry  int             `json:"failed_before_retry"`
	FailedAfterRetry   int             `json:"failed_after_retry"`
	RemainingFailedIDs []int           `json:"remaining_failed_ids"`
	BlankTranslations  int             `json:"blank_translations"`
	Backfilled         int             `json:"backfilled"`
	OverridesApplied   int             `json:"overrides_applied"`
	Stats              scheduler.Stats `json:"stats"`
	Usage              gateway.Usage   `json:"usage"`
	Duration           time.Duration   `json:"duration_ns"`
	RecoveryLogPath    string          `json:"recovery_log_path,omitempty"`
}

func runStatusFromRecovery(status string) RunStatus {
	switch status {
	case string(RunStatusSuccess):
		return RunStatusSuccess
	case string(RunStatusPartialSuccess):
		return RunStatusPartialSuccess
	case string(RunStatusFailure):
		return RunStatusFailure
	default:
		return RunStatusFailure
	}
}

// WriteReport saves r as indented JSON, replacing any existing file.
func WriteReport(path string, r RunResult) error {
	if err := files.WriteJSON(path, r, 0644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}

// statusFor maps the remaining failures onto a run status.
func statusFor(remaining, total int) RunStatus {
	return runStatusFromRecovery(recovery.CalculateStatus(remaining, total))
}
