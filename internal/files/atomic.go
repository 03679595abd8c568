// Package files writes run artifacts (reports, recovery logs, workbooks)
// so that a crash never leaves a half-written file behind and a write never
// follows a symlink.
package files

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oukeidos/maintrans/internal/logger"
)

const tempPattern = ".maintrans-*.tmp"

// AtomicWrite replaces path with data. The content is staged in a temp file
// in the same directory and renamed over the destination.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	return commit(path, data, perm, renameAtomic)
}

// CreateExclusive writes data to path only if nothing exists there yet. It
// returns an error wrapping os.ErrExist when path is taken.
func CreateExclusive(path string, data []byte, perm os.FileMode) error {
	return commit(path, data, perm, renameNoReplace)
}

// WriteJSON encodes v as indented JSON and writes it with AtomicWrite.
func WriteJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return AtomicWrite(path, append(data, '\n'), perm)
}

// CreateJSON encodes v as indented JSON and writes it with CreateExclusive.
func CreateJSON(path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	return CreateExclusive(path, append(data, '\n'), perm)
}

func commit(path string, data []byte, perm os.FileMode, publish func(tmp, dst string) error) (err error) {
	if err := RejectSymlinkPath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set temp file permissions: %w", err)
	}
	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = publish(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(path), err)
	}
	if serr := syncDir(dir); serr != nil {
		logger.Debug("Directory fsync failed", "path", dir, "error", serr)
	}
	return nil
}

func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
