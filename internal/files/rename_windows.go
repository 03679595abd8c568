//go:build windows

package files

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

func renameAtomic(oldPath, newPath string) error {
	return moveFile(oldPath, newPath, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH)
}

func renameNoReplace(oldPath, newPath string) error {
	err := moveFile(oldPath, newPath, windows.MOVEFILE_WRITE_THROUGH)
	if err == windows.ERROR_ALREADY_EXISTS || err == windows.ERROR_FILE_EXISTS {
		return &os.LinkError{Op: "move", Old: oldPath, New: newPath, Err: os.ErrExist}
	}
	return err
}

func moveFile(oldPath, newPath string, flags uint32) error {
	from, err := windows.UTF16PtrFromString(oldPath)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	to, err := windows.UTF16PtrFromString(newPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}
	return windows.MoveFileEx(from, to, flags)
}
