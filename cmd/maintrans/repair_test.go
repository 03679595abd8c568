package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/oukeidos/maintrans/internal/gateway"
	"github.com/oukeidos/maintrans/internal/pipeline"
	"github.com/oukeidos/maintrans/internal/recovery"
)

func TestShouldPrintRepairStats(t *testing.T) {
	t.Run("empty_result", func(t *testing.T) {
		if shouldPrintRepairStats(pipeline.RunResult{}) {
			t.Fatalf("expected false for empty result")
		}
	})

	t.Run("model_present", func(t *testing.T) {
		if !shouldPrintRepairStats(pipeline.RunResult{Model: "gemini-2.5-flash"}) {
			t.Fatalf("expected true when model is present")
		}
	})

	t.Run("usage_present", func(t *testing.T) {
		result := pipeline.RunResult{Usage: gateway.Usage{TotalTokens: 42}}
		if !shouldPrintRepairStats(result) {
			t.Fatalf("expected true when usage is present")
		}
	})
}

func withRepairStubs(t *testing.T, provider string, result pipeline.RunResult, err error) (*pipeline.Config, *int) {
	t.Helper()
	prevRun, prevLoad, prevPrint := runRepairPipeline, loadSessionLog, printRepairStatsFunc
	t.Cleanup(func() {
		runRepairPipeline, loadSessionLog, printRepairStatsFunc = prevRun, prevLoad, prevPrint
	})

	loadSessionLog = func(string) (*recovery.SessionLog, error) {
		return &recovery.SessionLog{Provider: provider, Table: "working"}, nil
	}
	var got pipeline.Config
	runRepairPipeline = func(_ context.Context, cfg pipeline.Config) (pipeline.RunResult, error) {
		got = cfg
		return result, err
	}
	statsCalls := 0
	printRepairStatsFunc = func(_ io.Writer, _ gateway.Usage, _ time.Duration, _, _ string) {
		statsCalls++
	}
	return &got, &statsCalls
}

func TestRepairCmd_EarlyFailureSkipsStats(t *testing.T) {
	_, statsCalls := withRepairStubs(t, "mock", pipeline.RunResult{}, errors.New("invalid recovery log"))

	_, err := executeCommand(t, "repair", "/tmp/working_recovery.json", "--config", emptyConfig(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	if *statsCalls != 0 {
		t.Fatalf("expected stats to be skipped, got %d calls", *statsCalls)
	}
}

func TestRepairCmd_FailureWithUsagePrintsStats(t *testing.T) {
	_, statsCalls := withRepairStubs(t, "mock", pipeline.RunResult{
		Model: "mock",
		Usage: gateway.Usage{TotalTokens: 100},
	}, errors.New("repair finished with 1 failed records"))

	_, err := executeCommand(t, "repair", "/tmp/working_recovery.json", "--config", emptyConfig(t))
	if err == nil {
		t.Fatalf("expected error")
	}
	if *statsCalls != 1 {
		t.Fatalf("expected stats once, got %d calls", *statsCalls)
	}
}

func TestRepairCmd_PassesRuntimeSettings(t *testing.T) {
	_, restoreKeys := withKeyStubs(t, false, "", "", "env-key")
	defer restoreKeys()
	got, _ := withRepairStubs(t, "openai", pipeline.RunResult{Status: pipeline.RunStatusSuccess, Model: "gpt-4o-mini"}, nil)

	_, err := executeCommand(t, "repair", "/tmp/working_recovery.json", "--config", emptyConfig(t),
		"--dsn", "records.db", "--env-only", "--report", "/tmp/report.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LogPath != "/tmp/working_recovery.json" || got.DSN != "records.db" || got.ReportPath != "/tmp/report.json" {
		t.Fatalf("unexpected cfg: %+v", *got)
	}
	if got.APIKey != "env-key" {
		t.Fatalf("key for the logged provider not resolved: %q", got.APIKey)
	}
}

func TestRepairCmd_MissingKeyForLoggedProvider(t *testing.T) {
	_, restoreKeys := withKeyStubs(t, false, "", "", "")
	defer restoreKeys()
	withRepairStubs(t, "gemini", pipeline.RunResult{}, nil)

	if _, err := executeCommand(t, "repair", "/tmp/working_recovery.json", "--config", emptyConfig(t)); err == nil {
		t.Fatalf("expected missing key error")
	}
}

func TestRepairCmd_RequiresLogPath(t *testing.T) {
	if _, err := executeCommand(t, "repair"); err == nil {
		t.Fatalf("expected error without session log")
	}
}
