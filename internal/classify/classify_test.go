package classify

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/merge"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/scheduler"
)

func row(lang, obs, obsTr, sol, solTr string) map[string]string {
	return map[string]string{
		"language":               lang,
		"observation":            obs,
		"observation_translated": obsTr,
		"solution":               sol,
		"solution_translated":    solTr,
		"status":                 string(record.StatusProcessed),
	}
}

func TestIdentifyFailed(t *testing.T) {
	tbl := record.NewTable("work", nil)
	tbl.Append(row("fr", "porte bloquee", "Door stuck", "graissage", "Greasing"))
	tbl.Append(row("fr", "porte bloquee", " porte bloquee ", "graissage", "Greasing"))
	tbl.Append(row("en", "Door stuck", "Door stuck", "Greased", "Greased"))
	tbl.Append(row("es", "shunt", "Shunt", "", ""))
	tbl.Append(row("ru", "течь", "Leak", "замена", "замена"))
	tbl.Append(row("unknown", "xyz abc", "xyz abc", "a", "b"))

	got := SortedIDs(IdentifyFailed(tbl.Records, record.PrimaryFields))
	want := []int{1, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("failed = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("failed = %v, want %v", got, want)
		}
	}
}

func TestIdentifyBlank(t *testing.T) {
	tbl := record.NewTable("work", nil)
	tbl.Append(row("fr", "porte", "", "graissage", "Greasing"))
	tbl.Append(row("fr", "porte", "Door", "", ""))
	tbl.Append(row("en", "Door", "Door", "Greased", "   "))

	got := IdentifyBlank(tbl.Records, record.PrimaryFields)
	if !got[0] || got[1] || !got[2] || len(got) != 2 {
		t.Fatalf("blank = %v", got)
	}
}

func newScheduler(t *testing.T, fn func(ctx context.Context, p string) (gateway.Completion, error)) (*scheduler.Scheduler, *gateway.MockCompleter) {
	t.Helper()
	mock := &gateway.MockCompleter{Fn: fn}
	s, err := scheduler.New(mock, scheduler.Options{BatchSize: 100, Concurrency: 2})
	if err != nil {
		t.Fatal(err)
	}
	return s, mock
}

func TestController_RetryConvergence(t *testing.T) {
	// The first call for each prompt fails, the second succeeds.
	var calls int32
	sched, mock := newScheduler(t, func(ctx context.Context, p string) (gateway.Completion, error) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			return gateway.Completion{}, apperrors.Transient(errors.New("503"))
		}
		switch {
		case strings.Contains(p, "'Procedez a la lubrification des coupleurs'"):
			return gateway.Completion{Success: true, Text: "Proceed with the lubrication of the couplers"}, nil
		default:
			return gateway.Completion{Success: true, Text: "Greasing done"}, nil
		}
	})

	tbl := record.NewTable("work", []string{"language", "observation", "solution", "status"})
	tbl.Append(map[string]string{"language": "fr", "observation": "Procedez a la lubrification des coupleurs", "solution": "graissage effectue", "status": "New"})
	tbl.Append(map[string]string{"language": "es", "observation": "shunt", "solution": "shunt", "status": "New"})
	tbl.Append(map[string]string{"language": "en", "observation": "Door stuck", "solution": "Adjusted", "status": "New"})

	res, _, err := sched.Run(context.Background(), tbl.Records)
	if err != nil {
		t.Fatal(err)
	}
	merge.Apply(tbl, res)
	for _, r := range tbl.Records {
		r.SetStatus(record.StatusProcessed)
	}

	report, err := NewController(sched, Options{}).Run(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(report.FailedBeforeRetry) != 2 || report.FailedBeforeRetry[0] != 0 || report.FailedBeforeRetry[1] != 1 {
		t.Fatalf("failed before retry = %v", report.FailedBeforeRetry)
	}
	if report.Passes != 1 {
		t.Fatalf("passes = %d", report.Passes)
	}
	if len(report.RemainingFailed) != 1 || report.RemainingFailed[0] != 1 {
		t.Fatalf("remaining failed = %v, want [1]", report.RemainingFailed)
	}

	fr := tbl.Records[0]
	if fr.Translated("observation") != "Proceed with the lubrication of the couplers" {
		t.Errorf("fr observation = %q", fr.Translated("observation"))
	}
	es := tbl.Records[1]
	if es.Translated("observation") != "shunt" {
		t.Errorf("es observation = %q", es.Translated("observation"))
	}
	for _, r := range tbl.Records {
		if r.Status() != record.StatusProcessed {
			t.Errorf("record %d status = %s", r.ID, r.Status())
		}
	}
	if mock.Calls() != 4 {
		t.Errorf("calls = %d, want 4 (2 failed + 2 retried)", mock.Calls())
	}
}

type stubRunner struct {
	got []int
	res scheduler.Results
	err error
}

func (s *stubRunner) Run(ctx context.Context, records []*record.Record) (scheduler.Results, scheduler.Stats, error) {
	for _, r := range records {
		if r.Status() != record.StatusNew {
			return nil, scheduler.Stats{}, errors.New("record not reset to New")
		}
		s.got = append(s.got, r.ID)
	}
	return s.res, scheduler.Stats{Records: len(records)}, s.err
}

func TestController_OnlyRetriesFailedSubset(t *testing.T) {
	tbl := record.NewTable("work", nil)
	tbl.Append(row("fr", "porte", "Door", "graissage", "Greasing"))
	tbl.Append(row("fr", "fuite", "fuite", "joint", "Seal"))

	runner := &stubRunner{res: scheduler.Results{
		1: {"observation": "Leak"},
		// A result for a record outside the pool turning into an echo must
		// not surface as a new failure.
		0: {"observation": "porte"},
	}}
	report, err := NewController(runner, Options{}).Run(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(runner.got) != 1 || runner.got[0] != 1 {
		t.Fatalf("retried ids = %v, want [1]", runner.got)
	}
	if len(report.RemainingFailed) != 0 {
		t.Fatalf("remaining failed = %v", report.RemainingFailed)
	}
	if report.Stats.Records != 1 {
		t.Fatalf("stats = %+v", report.Stats)
	}
}

func TestController_ErrorStillMarksProcessed(t *testing.T) {
	tbl := record.NewTable("work", nil)
	tbl.Append(row("fr", "fuite", "fuite", "joint", "Seal"))

	runner := &stubRunner{err: context.Canceled}
	report, err := NewController(runner, Options{}).Run(context.Background(), tbl)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if tbl.Records[0].Status() != record.StatusProcessed {
		t.Fatalf("status = %s", tbl.Records[0].Status())
	}
	if len(report.RemainingFailed) != 1 {
		t.Fatalf("remaining = %v", report.RemainingFailed)
	}
}

func TestController_RetriesDisabled(t *testing.T) {
	tbl := record.NewTable("work", nil)
	tbl.Append(row("fr", "fuite", "fuite", "joint", "Seal"))
	runner := &stubRunner{}
	report, err := NewController(runner, Options{MaxPasses: -1}).Run(context.Background(), tbl)
	if err != nil {
		t.Fatal(err)
	}
	if report.Passes != 0 || len(runner.got) != 0 || len(report.RemainingFailed) != 1 {
		t.Fatalf("unexpected report %+v, retried %v", report, runner.got)
	}
}
