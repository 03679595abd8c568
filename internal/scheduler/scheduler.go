// Package scheduler drives completion calls for New records in sequential,
// bounded batches with a fixed worker limit per batch.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/oukeidos/maintrans/internal/chunker"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/observability"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize    = 100
	DefaultConcurrency  = 4
	DefaultBatchTimeout = 10 * time.Minute
)

// Options configures a Scheduler.
type Options struct {
	BatchSize    int
	Concurrency  int
	BatchTimeout time.Duration
	Mode         prompt.Mode
	// EnglishRewrite sends English observation/solution pairs through the
	// rewrite prompt instead of copying them.
	EnglishRewrite bool
	// Fields to translate. Empty selects record.TranslatableFields.
	Fields     []string
	OnProgress func(Progress)
}

// Results maps record id to field to translated value.
type Results map[int]map[string]string

// Scheduler runs translation batches against a shared completer.
type Scheduler struct {
	gw      gateway.Completer
	opts    Options
	metrics *observability.Metrics
}

// New validates opts and builds a Scheduler.
func New(gw gateway.Completer, opts Options) (*Scheduler, error) {
	if gw == nil {
		return nil, fmt.Errorf("completer is required")
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.BatchTimeout == 0 {
		opts.BatchTimeout = DefaultBatchTimeout
	}
	if opts.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must be greater than 0, got %d", opts.BatchSize)
	}
	if opts.Concurrency < 0 {
		return nil, fmt.Errorf("concurrency must be greater than 0, got %d", opts.Concurrency)
	}
	if opts.Mode == "" {
		opts.Mode = prompt.ModeBasic
	}
	if len(opts.Fields) == 0 {
		opts.Fields = record.TranslatableFields
	}
	return &Scheduler{gw: gw, opts: opts, metrics: observability.Default()}, nil
}

// Run translates every New record among records. Records are not modified;
// results are returned for the merger. Batches run one after another. If ctx
// is canceled, remaining batches are skipped and ctx's error is returned
// alongside the results gathered so far.
func (s *Scheduler) Run(ctx context.Context, records []*record.Record) (Results, Stats, error) {
	var pending []*record.Record
	for _, r := range records {
		if r.Status() == record.StatusNew {
			pending = append(pending, r)
		}
	}

	results := make(Results, len(pending))
	var stats Stats
	batches := chunker.Split(pending, s.opts.BatchSize)
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			s.progress(Progress{Batch: b.Index, TotalBatches: len(batches), RecordID: -1, State: StateCanceled, Error: err})
			return results, stats, err
		}
		s.runBatch(ctx, b, len(batches), results, &stats)
		stats.Batches++
	}
	return results, stats, nil
}

func (s *Scheduler) runBatch(ctx context.Context, b chunker.Chunk[*record.Record], total int, results Results, stats *Stats) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "scheduler.batch",
		attribute.Int("batch.index", b.Index),
		attribute.Int("batch.size", len(b.Items)),
	)
	defer span.End()

	batchCtx, cancel := context.WithTimeout(ctx, s.opts.BatchTimeout)
	defer cancel()

	s.progress(Progress{Batch: b.Index, TotalBatches: total, RecordID: -1, BatchSize: len(b.Items), State: StateBatchStarted})

	outcomes := make(chan recordOutcome)
	go func() {
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for _, rec := range b.Items {
			g.Go(func() error {
				outcomes <- s.translateRecord(batchCtx, rec)
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	var batchStats Stats
	completed := 0
	for o := range outcomes {
		results[o.id] = o.fields
		batchStats.add(o)
		completed++
		s.progress(Progress{Batch: b.Index, TotalBatches: total, RecordID: o.id, Completed: completed, BatchSize: len(b.Items), State: StateRecordCompleted})
	}

	stats.Add(batchStats)

	elapsed := time.Since(start)
	s.metrics.BatchDuration.Record(ctx, elapsed.Seconds())
	if batchStats.Fallbacks > 0 {
		s.metrics.FieldFallbacks.Add(ctx, int64(batchStats.Fallbacks))
	}
	if batchCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		logger.Warn("Batch deadline reached, unfinished fields kept source text", "batch", b.Index, "timeout", s.opts.BatchTimeout)
	}
	logger.Info("Batch completed",
		"batch", b.Index+1,
		"total_batches", total,
		"records", len(b.Items),
		"calls", batchStats.Calls,
		"failures", batchStats.Failures,
		"duration", elapsed.Round(time.Millisecond),
	)
	s.progress(Progress{Batch: b.Index, TotalBatches: total, RecordID: -1, Completed: completed, BatchSize: len(b.Items), State: StateBatchCompleted})
}

func (s *Scheduler) progress(p Progress) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(p)
	}
}
