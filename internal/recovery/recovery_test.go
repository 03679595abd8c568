package recovery

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/oukeidos/maintrans/internal/record"
)

func validLog() SessionLog {
	return SessionLog{
		LogVersion:    CurrentLogVersion,
		RunID:         "run-1",
		Driver:        "sqlite",
		Table:         "working",
		TableChecksum: "sha256:dummy",
		Provider:      "gemini",
		Model:         "gemini-2.5-flash",
		Mode:          "basic",
		BatchSize:     100,
		Concurrency:   4,
		FailedIDs:     []int{0, 3},
		TotalRecords:  5,
		Status:        "Partial Success",
	}
}

func TestSaveSessionLog_Permissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("Skipping permission test on Windows")
	}

	path := filepath.Join(t.TempDir(), "working_recovery.json")
	log := validLog()
	log.StatusReason = "canceled"

	if err := SaveSessionLog(path, &log); err != nil {
		t.Fatalf("SaveSessionLog failed: %v", err)
	}

	loaded, err := LoadSessionLog(path)
	if err != nil {
		t.Fatalf("LoadSessionLog failed: %v", err)
	}
	if loaded.StatusReason != "canceled" {
		t.Fatalf("expected StatusReason to persist, got %q", loaded.StatusReason)
	}
	if len(loaded.FailedIDs) != 2 || loaded.FailedIDs[1] != 3 {
		t.Fatalf("failed ids = %v", loaded.FailedIDs)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("expected permission 0600, got %o", mode)
	}
}

func TestSaveSessionLog_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "working_recovery.json")
	log := validLog()

	if err := SaveSessionLog(path, &log); err != nil {
		t.Fatalf("SaveSessionLog failed: %v", err)
	}
	if err := SaveSessionLog(path, &log); !errors.Is(err, os.ErrExist) {
		t.Fatalf("second save = %v, want os.ErrExist", err)
	}
}

func TestWriteSessionLog_PicksFreshName(t *testing.T) {
	dir := t.TempDir()
	log := validLog()

	first, err := WriteSessionLog(dir, "working", &log)
	if err != nil {
		t.Fatalf("WriteSessionLog failed: %v", err)
	}
	second, err := WriteSessionLog(dir, "working", &log)
	if err != nil {
		t.Fatalf("WriteSessionLog failed: %v", err)
	}
	if first == second {
		t.Fatalf("both logs written to %s", first)
	}
	if filepath.Base(first) != "working_recovery.json" {
		t.Fatalf("first path = %s", first)
	}
	if _, err := LoadSessionLog(second); err != nil {
		t.Fatalf("LoadSessionLog(%s): %v", second, err)
	}
}

func TestUpdateSessionLog_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "working_recovery.json")
	log := validLog()
	if err := SaveSessionLog(path, &log); err != nil {
		t.Fatalf("SaveSessionLog failed: %v", err)
	}
	log.FailedIDs = []int{3}
	if err := UpdateSessionLog(path, &log); err != nil {
		t.Fatalf("UpdateSessionLog failed: %v", err)
	}
	loaded, err := LoadSessionLog(path)
	if err != nil {
		t.Fatalf("LoadSessionLog failed: %v", err)
	}
	if len(loaded.FailedIDs) != 1 {
		t.Fatalf("failed ids = %v, want [3]", loaded.FailedIDs)
	}
}

func TestGeneratePath(t *testing.T) {
	dir := t.TempDir()

	first := GeneratePath(dir, "working")
	if filepath.Base(first) != "working_recovery.json" {
		t.Fatalf("first path = %q", first)
	}
	if err := os.WriteFile(first, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	second := GeneratePath(dir, "working")
	if filepath.Base(second) != "working_recovery_0.json" {
		t.Fatalf("second path = %q", second)
	}

	odd := GeneratePath(dir, "a/b c")
	if filepath.Dir(odd) != dir || !strings.HasPrefix(filepath.Base(odd), "a_b_c_recovery") {
		t.Fatalf("unsafe table name not sanitized: %q", odd)
	}
}

func TestSessionLog_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SessionLog)
		wantErr string
	}{
		{"valid", func(*SessionLog) {}, ""},
		{"empty table", func(l *SessionLog) { l.Table = " " }, "table is empty"},
		{"bad checksum", func(l *SessionLog) { l.TableChecksum = "md5:x" }, "invalid table_checksum"},
		{"old version", func(l *SessionLog) { l.LogVersion = CurrentLogVersion + 1 }, "unsupported log_version"},
		{"no model", func(l *SessionLog) { l.Model = "" }, "model name is empty"},
		{"bad mode", func(l *SessionLog) { l.Mode = "poetic" }, "unknown prompt mode"},
		{"zero concurrency", func(l *SessionLog) { l.Concurrency = 0 }, "invalid concurrency"},
		{"no failures", func(l *SessionLog) { l.FailedIDs = nil }, "failed_ids list is empty"},
		{"id out of range", func(l *SessionLog) { l.FailedIDs = []int{5} }, "out of range"},
		{"bad reason", func(l *SessionLog) { l.StatusReason = "tired" }, "invalid status_reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := validLog()
			tt.mutate(&log)
			err := log.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestTableChecksumHex(t *testing.T) {
	build := func() *record.Table {
		tbl := record.NewTable("w", nil)
		tbl.Append(map[string]string{"language": "fr", "observation": "Fuite", "solution": "Joint"})
		tbl.Append(map[string]string{"language": "en", "observation": "Leak", "solution": "Seal"})
		return tbl
	}
	a, b := build(), build()
	if TableChecksumHex(a) != TableChecksumHex(b) {
		t.Fatalf("checksum not deterministic")
	}

	b.Records[0].Set(record.TranslatedColumn("observation"), "Leak")
	b.Records[0].SetStatus(record.StatusProcessed)
	if TableChecksumHex(a) != TableChecksumHex(b) {
		t.Fatalf("translated columns must not affect the checksum")
	}

	b.Records[1].Set("solution", "Replace seal")
	if TableChecksumHex(a) == TableChecksumHex(b) {
		t.Fatalf("source change must affect the checksum")
	}
}

func TestCalculateStatus(t *testing.T) {
	cases := []struct {
		failed, total int
		want          string
	}{
		{0, 10, "Success"},
		{3, 10, "Partial Success"},
		{10, 10, "Failure"},
		{0, 0, "Success"},
	}
	for _, tc := range cases {
		if got := CalculateStatus(tc.failed, tc.total); got != tc.want {
			t.Errorf("CalculateStatus(%d, %d) = %q, want %q", tc.failed, tc.total, got, tc.want)
		}
	}
}
