package classify

import (
	"context"

	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/merge"
	"github.com/oukeidos/maintrans/internal/observability"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/scheduler"
)

const DefaultMaxPasses = 1

// Runner schedules translation for a set of records.
type Runner interface {
	Run(ctx context.Context, records []*record.Record) (scheduler.Results, scheduler.Stats, error)
}

// Options configures a Controller.
type Options struct {
	// CheckFields are compared against their translation to detect echoes.
	// Empty selects record.PrimaryFields.
	CheckFields []string
	// MaxPasses bounds the number of retry passes. Zero selects
	// DefaultMaxPasses; a negative value disables retries.
	MaxPasses int
}

// Report summarizes the retry stage.
type Report struct {
	Passes            int
	FailedBeforeRetry []int
	RemainingFailed   []int
	Stats             scheduler.Stats
}

// Controller retries echo failures through a Runner.
type Controller struct {
	runner Runner
	opts   Options
}

// NewController builds a Controller around runner.
func NewController(runner Runner, opts Options) *Controller {
	if len(opts.CheckFields) == 0 {
		opts.CheckFields = record.PrimaryFields
	}
	if opts.MaxPasses == 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	return &Controller{runner: runner, opts: opts}
}

// Run finds failed records in t, resets them to New, reschedules exactly that
// subset, merges the outcome and marks the subset Processed whether or not it
// succeeded. The remaining failures are reported but never retried beyond
// MaxPasses; only records that were retried can appear among them.
func (c *Controller) Run(ctx context.Context, t *record.Table) (Report, error) {
	pre := IdentifyFailed(t.Records, c.opts.CheckFields)
	report := Report{FailedBeforeRetry: SortedIDs(pre)}
	if len(pre) > 0 {
		observability.Default().EchoFailures.Add(ctx, int64(len(pre)))
	}
	logger.Info("Identified failed records", "failed", len(pre), "total", t.Len())

	pool := pre
	for pass := 0; pass < c.opts.MaxPasses && len(pool) > 0; pass++ {
		subset := make([]*record.Record, 0, len(pool))
		for _, r := range t.Records {
			if pool[r.ID] {
				r.SetStatus(record.StatusNew)
				subset = append(subset, r)
			}
		}

		results, stats, err := c.runner.Run(ctx, subset)
		merge.Apply(t, results)
		for _, r := range subset {
			r.SetStatus(record.StatusProcessed)
		}
		report.Passes++
		report.Stats.Add(stats)

		pool = intersect(IdentifyFailed(subset, c.opts.CheckFields), pool)
		logger.Info("Retry pass completed", "pass", pass+1, "retried", len(subset), "remaining_failed", len(pool))
		if err != nil {
			report.RemainingFailed = SortedIDs(pool)
			return report, err
		}
	}
	report.RemainingFailed = SortedIDs(pool)
	return report, nil
}
