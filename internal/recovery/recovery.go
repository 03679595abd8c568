package recovery

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/oukeidos/maintrans/internal/files"
	"github.com/oukeidos/maintrans/internal/prompt"
	"github.com/oukeidos/maintrans/internal/record"
)

// SessionLog stores what a partially failed run needs to retry its
// remaining failed records later. Connection strings are never stored; the
// store is reopened from runtime configuration.
type SessionLog struct {
	LogVersion     int    `json:"log_version"`
	RunID          string `json:"run_id"`
	Driver         string `json:"driver"`
	Table          string `json:"table"`
	TableChecksum  string `json:"table_checksum"`
	Provider       string `json:"provider"`
	Model          string `json:"model"`
	Mode           string `json:"mode"`
	EnglishRewrite bool   `json:"english_rewrite"`
	BatchSize      int    `json:"batch_size"`
	Concurrency    int    `json:"concurrency"`
	FailedIDs      []int  `json:"failed_ids"`
	TotalRecords   int    `json:"total_records"`
	Status         string `json:"status"` // "Success", "Partial Success", "Failure"
	StatusReason   string `json:"status_reason,omitempty"`
}

const CurrentLogVersion = 1

// Validate checks if the session log is consistent and safe to resume.
func (log *SessionLog) Validate() error {
	if log.LogVersion == 0 {
		log.LogVersion = CurrentLogVersion
	}
	if log.LogVersion != CurrentLogVersion {
		return fmt.Errorf("unsupported log_version: %d", log.LogVersion)
	}
	if strings.TrimSpace(log.Table) == "" {
		return fmt.Errorf("table is empty")
	}
	if log.Driver == "" {
		return fmt.Errorf("driver is empty")
	}
	if !strings.HasPrefix(log.TableChecksum, "sha256:") {
		return fmt.Errorf("invalid table_checksum: %q", log.TableChecksum)
	}
	if log.Provider == "" {
		return fmt.Errorf("provider is empty")
	}
	if log.Model == "" {
		return fmt.Errorf("model name is empty")
	}
	if _, err := prompt.ParseMode(log.Mode); err != nil {
		return err
	}
	if log.BatchSize <= 0 {
		return fmt.Errorf("invalid batch_size: %d", log.BatchSize)
	}
	if log.Concurrency <= 0 {
		return fmt.Errorf("invalid concurrency: %d", log.Concurrency)
	}
	if log.TotalRecords <= 0 {
		return fmt.Errorf("invalid total_records: %d", log.TotalRecords)
	}
	if len(log.FailedIDs) == 0 {
		return fmt.Errorf("failed_ids list is empty")
	}
	for _, id := range log.FailedIDs {
		if id < 0 || id >= log.TotalRecords {
			return fmt.Errorf("failed record id out of range: %d", id)
		}
	}
	if log.Status == "" {
		return fmt.Errorf("session status is empty")
	}
	if log.StatusReason != "" && log.StatusReason != "canceled" {
		return fmt.Errorf("invalid status_reason: %s", log.StatusReason)
	}
	return nil
}

// SaveSessionLog writes a new session log at path. It fails with an error
// wrapping os.ErrExist rather than replace an existing file.
func SaveSessionLog(path string, log *SessionLog) error {
	if log.LogVersion == 0 {
		log.LogVersion = CurrentLogVersion
	}
	return files.CreateJSON(path, log, 0600)
}

// WriteSessionLog saves log under a fresh name in dir and returns the path
// it used. A name taken between GeneratePath and the write is skipped.
func WriteSessionLog(dir, table string, log *SessionLog) (string, error) {
	var err error
	for i := 0; i < 3; i++ {
		path := GeneratePath(dir, table)
		if err = SaveSessionLog(path, log); !errors.Is(err, os.ErrExist) {
			return path, err
		}
	}
	return "", err
}

// UpdateSessionLog rewrites an existing session log in place.
func UpdateSessionLog(path string, log *SessionLog) error {
	return files.WriteJSON(path, log, 0600)
}

// GeneratePath creates a unique filename for a session log in dir.
// Logic:
// 1. [table]_recovery.json
// 2. [table]_recovery_0.json ~ _9.json
// 3. [table]_recovery_[UUIDv7].json (with collision check)
func GeneratePath(dir, table string) string {
	base := sanitize(table)

	primary := filepath.Join(dir, fmt.Sprintf("%s_recovery.json", base))
	if _, err := os.Stat(primary); os.IsNotExist(err) {
		return primary
	}

	for i := 0; i <= 9; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_recovery_%d.json", base, i))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}

	for i := 0; i < 100; i++ {
		u, err := uuid.NewV7()
		var suffix string
		if err != nil {
			suffix = uuid.NewString()[:8]
		} else {
			suffix = u.String()
		}
		candidate := filepath.Join(dir, fmt.Sprintf("%s_recovery_%s.json", base, suffix))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}

	return filepath.Join(dir, fmt.Sprintf("%s_recovery_final_%d.json", base, os.Getpid()))
}

func sanitize(table string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(table))
	if s == "" {
		return "maintrans"
	}
	return s
}

// LoadSessionLog loads the session state from a JSON file.
func LoadSessionLog(path string) (*SessionLog, error) {
	log, _, err := LoadSessionLogWithHash(path)
	return log, err
}

// LoadSessionLogWithHash loads the session log and returns a content hash.
func LoadSessionLogWithHash(path string) (*SessionLog, [32]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, [32]byte{}, err
	}
	var log SessionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, [32]byte{}, err
	}
	if log.LogVersion == 0 {
		log.LogVersion = CurrentLogVersion
	}
	return &log, sha256.Sum256(data), nil
}

// HashFile returns a SHA-256 hash of the given file contents.
func HashFile(path string) ([32]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return [32]byte{}, err
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return [32]byte{}, err
	}
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum, nil
}

// TableChecksumHex hashes the source side of t: record ids, languages and
// the untranslated fields. Translated columns and statuses are ignored so the
// checksum survives a run.
func TableChecksumHex(t *record.Table) string {
	h := sha256.New()
	fields := append([]string{record.ColumnLanguage}, record.TranslatableFields...)
	sort.Strings(fields)
	for _, r := range t.Records {
		h.Write([]byte(strconv.Itoa(r.ID)))
		for _, f := range fields {
			h.Write([]byte{0})
			h.Write([]byte(r.Get(f)))
		}
		h.Write([]byte{'\n'})
	}
	return "sha256:" + hex.EncodeToString(h.Sum(nil))
}

// CalculateStatus determines the session status based on failed and total records.
func CalculateStatus(failedCount, totalCount int) string {
	if failedCount == 0 {
		return "Success"
	}
	if failedCount < totalCount {
		return "Partial Success"
	}
	return "Failure"
}
