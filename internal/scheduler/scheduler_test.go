package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
)

func newRecord(id int, lang, obs, sol string) *record.Record {
	return record.New(id, map[string]string{
		record.ColumnLanguage:    lang,
		record.FieldObservation:  obs,
		record.FieldSolution:     sol,
		record.FieldProblemCause: "",
		record.FieldProblemCode:  "",
		record.ColumnStatus:      string(record.StatusNew),
	})
}

// dictionary answers basic prompts by looking up the quoted source text.
func dictionary(entries map[string]string) func(ctx context.Context, p string) (gateway.Completion, error) {
	return func(ctx context.Context, p string) (gateway.Completion, error) {
		for src, dst := range entries {
			if strings.Contains(p, "'"+src+"'") {
				return gateway.Completion{Success: true, Text: dst}, nil
			}
		}
		return gateway.Completion{Success: true, Text: "translated"}, nil
	}
}

func mustNew(t *testing.T, gw gateway.Completer, opts Options) *Scheduler {
	t.Helper()
	s, err := New(gw, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestRun_TranslatesFrenchRecord(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: dictionary(map[string]string{
		"Procedez a la lubrification des coupleurs": "Proceed with the lubrication of the couplers",
		"graissage effectue":                        "Greasing done",
	})}
	s := mustNew(t, mock, Options{})
	recs := []*record.Record{newRecord(0, "fr", "Procedez a la lubrification des coupleurs", "graissage effectue")}

	res, stats, err := s.Run(context.Background(), recs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := res[0][record.FieldObservation]; got != "Proceed with the lubrication of the couplers" {
		t.Errorf("observation = %q", got)
	}
	if got := res[0][record.FieldSolution]; got != "Greasing done" {
		t.Errorf("solution = %q", got)
	}
	if stats.Calls != 2 {
		t.Errorf("calls = %d, want 2 (blank optional fields must not be sent)", stats.Calls)
	}
	if res[0][record.FieldProblemCause] != "" || res[0][record.FieldProblemCode] != "" {
		t.Errorf("blank optional fields should stay blank: %+v", res[0])
	}
	if recs[0].Translated(record.FieldObservation) != "" {
		t.Errorf("scheduler must not modify records")
	}
}

func TestRun_EnglishIsIdentityWithoutCalls(t *testing.T) {
	mock := &gateway.MockCompleter{}
	s := mustNew(t, mock, Options{})
	recs := []*record.Record{newRecord(0, "en", "Door stuck", "Adjusted the latch")}

	res, _, _ := s.Run(context.Background(), recs)
	if res[0][record.FieldObservation] != "Door stuck" || res[0][record.FieldSolution] != "Adjusted the latch" {
		t.Fatalf("English record changed: %+v", res[0])
	}
	if mock.Calls() != 0 {
		t.Fatalf("English record triggered %d calls", mock.Calls())
	}
}

func TestRun_EnglishRewrite(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		return gateway.Completion{Success: true, Text: "Observation: The door is stuck.\nSolution: The latch was adjusted."}, nil
	}}
	s := mustNew(t, mock, Options{EnglishRewrite: true})
	res, _, _ := s.Run(context.Background(), []*record.Record{newRecord(0, "en", "door stuck", "adjust latch")})

	if res[0][record.FieldObservation] != "The door is stuck." || res[0][record.FieldSolution] != "The latch was adjusted." {
		t.Fatalf("unexpected rewrite: %+v", res[0])
	}
	if mock.Calls() != 1 {
		t.Fatalf("calls = %d, want 1", mock.Calls())
	}
}

func TestRun_AlphanumericBypass(t *testing.T) {
	mock := &gateway.MockCompleter{}
	s := mustNew(t, mock, Options{})
	rec := newRecord(0, "es", "shunt", "R1C3")
	rec.Set(record.FieldProblemCode, "PC042")

	res, _, _ := s.Run(context.Background(), []*record.Record{rec})
	if res[0][record.FieldObservation] != "shunt" || res[0][record.FieldSolution] != "R1C3" || res[0][record.FieldProblemCode] != "PC042" {
		t.Fatalf("alphanumeric values changed: %+v", res[0])
	}
	if mock.Calls() != 0 {
		t.Fatalf("alphanumeric values triggered %d calls", mock.Calls())
	}
}

func TestRun_FieldFailureFallsBackToSource(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		switch {
		case strings.Contains(p, "'usure du frein'"):
			return gateway.Completion{}, apperrors.Transient(errors.New("503"))
		case strings.Contains(p, "'remplacement'"):
			return gateway.Completion{Success: false}, nil
		default:
			return gateway.Completion{Success: true, Text: "Brake noise"}, nil
		}
	}}
	s := mustNew(t, mock, Options{})
	rec := newRecord(0, "fr", "bruit de frein", "remplacement")
	rec.Set(record.FieldProblemCause, "usure du frein")

	res, stats, _ := s.Run(context.Background(), []*record.Record{rec})
	if res[0][record.FieldObservation] != "Brake noise" {
		t.Errorf("observation = %q", res[0][record.FieldObservation])
	}
	if res[0][record.FieldProblemCause] != "usure du frein" {
		t.Errorf("failed cause should keep source, got %q", res[0][record.FieldProblemCause])
	}
	if res[0][record.FieldSolution] != "remplacement" {
		t.Errorf("failed solution should keep source, got %q", res[0][record.FieldSolution])
	}
	if stats.Failures != 2 || stats.Fallbacks != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestRun_SkipsProcessedRecords(t *testing.T) {
	mock := &gateway.MockCompleter{}
	s := mustNew(t, mock, Options{})
	done := newRecord(0, "fr", "porte", "fermer")
	done.SetStatus(record.StatusProcessed)

	res, stats, _ := s.Run(context.Background(), []*record.Record{done, newRecord(1, "fr", "fuite", "joint")})
	if _, ok := res[0]; ok {
		t.Fatalf("processed record was scheduled")
	}
	if _, ok := res[1]; !ok || stats.Records != 1 {
		t.Fatalf("new record not scheduled: %+v %+v", res, stats)
	}
}

func TestRun_TechnicalModeSharesOneCall(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		return gateway.Completion{Success: true, Text: "Observation: Pantograph damaged\nSolution: Pantograph replaced"}, nil
	}}
	s := mustNew(t, mock, Options{Mode: prompt.ModeTechnical})
	res, stats, _ := s.Run(context.Background(), []*record.Record{newRecord(0, "sv", "stromavtagare skadad", "bytt stromavtagare")})

	if res[0][record.FieldObservation] != "Pantograph damaged" || res[0][record.FieldSolution] != "Pantograph replaced" {
		t.Fatalf("unexpected result: %+v", res[0])
	}
	if stats.Calls != 1 {
		t.Fatalf("calls = %d, want 1", stats.Calls)
	}
	if !strings.Contains(mock.Prompts()[0], "Swedish") {
		t.Fatalf("technical prompt missing language branch")
	}
}

func TestRun_TechnicalParseFailureBlanksBoth(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		return gateway.Completion{Success: true, Text: "Pantograph damaged, replaced"}, nil
	}}
	s := mustNew(t, mock, Options{Mode: prompt.ModeTechnical})
	res, stats, _ := s.Run(context.Background(), []*record.Record{newRecord(0, "sv", "stromavtagare skadad", "bytt stromavtagare")})

	if res[0][record.FieldObservation] != "" || res[0][record.FieldSolution] != "" {
		t.Fatalf("parse failure should blank both fields: %+v", res[0])
	}
	if stats.ParseFailures != 1 {
		t.Fatalf("parse failures = %d", stats.ParseFailures)
	}
}

func TestRun_BatchesAreBoundedAndSequential(t *testing.T) {
	const n = 250
	var inFlight, peak int32
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return gateway.Completion{Success: true, Text: "ok"}, nil
	}}

	var mu sync.Mutex
	var events []Progress
	s := mustNew(t, mock, Options{BatchSize: 100, Concurrency: 4, OnProgress: func(p Progress) {
		mu.Lock()
		events = append(events, p)
		mu.Unlock()
	}})

	recs := make([]*record.Record, n)
	for i := range recs {
		recs[i] = newRecord(i, "it", fmt.Sprintf("guasto %d", i), fmt.Sprintf("riparato %d", i))
	}
	res, stats, err := s.Run(context.Background(), recs)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res) != n || stats.Batches != 3 || stats.Records != n {
		t.Fatalf("results = %d, stats = %+v", len(res), stats)
	}
	if peak > 4 {
		t.Fatalf("peak concurrency = %d, want <= 4", peak)
	}

	var sizes []int
	open := -1
	for _, e := range events {
		switch e.State {
		case StateBatchStarted:
			if open != -1 {
				t.Fatalf("batch %d started while batch %d was running", e.Batch, open)
			}
			open = e.Batch
			sizes = append(sizes, e.BatchSize)
		case StateRecordCompleted:
			if e.Batch != open {
				t.Fatalf("record event for batch %d outside its batch", e.Batch)
			}
		case StateBatchCompleted:
			open = -1
		}
	}
	if fmt.Sprint(sizes) != "[100 100 50]" {
		t.Fatalf("batch sizes = %v", sizes)
	}
}

func TestRun_BatchDeadlineFallsBack(t *testing.T) {
	mock := &gateway.MockCompleter{Fn: func(ctx context.Context, p string) (gateway.Completion, error) {
		<-ctx.Done()
		return gateway.Completion{}, ctx.Err()
	}}
	s := mustNew(t, mock, Options{BatchTimeout: 30 * time.Millisecond})
	res, stats, err := s.Run(context.Background(), []*record.Record{newRecord(0, "ru", "течь масла", "замена")})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res[0][record.FieldObservation] != "течь масла" || res[0][record.FieldSolution] != "замена" {
		t.Fatalf("deadline should keep source text: %+v", res[0])
	}
	if stats.Fallbacks != 2 {
		t.Fatalf("fallbacks = %d", stats.Fallbacks)
	}
}

func TestRun_CanceledContextStopsBeforeNextBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	mock := &gateway.MockCompleter{Fn: func(c context.Context, p string) (gateway.Completion, error) {
		cancel()
		return gateway.Completion{Success: true, Text: "ok"}, nil
	}}
	s := mustNew(t, mock, Options{BatchSize: 1, Concurrency: 1})
	recs := []*record.Record{newRecord(0, "fr", "a b", "c d"), newRecord(1, "fr", "e f", "g h")}

	res, stats, err := s.Run(ctx, recs)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if stats.Batches != 1 || len(res) != 1 {
		t.Fatalf("expected only the first batch, got stats %+v", stats)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(nil, Options{}); err == nil {
		t.Fatalf("expected error for nil completer")
	}
	if _, err := New(&gateway.MockCompleter{}, Options{BatchSize: -1}); err == nil {
		t.Fatalf("expected error for negative batch size")
	}
}

func TestCleanCompletion(t *testing.T) {
	tests := map[string]string{
		"  Door stuck \n": "Door stuck",
		"'Door stuck'":    "Door stuck",
		"it's fine":       "it's fine",
		"'":               "'",
	}
	for in, want := range tests {
		if got := cleanCompletion(in); got != want {
			t.Errorf("cleanCompletion(%q) = %q, want %q", in, got, want)
		}
	}
}
