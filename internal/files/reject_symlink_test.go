package files

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink not permitted on Windows")
	}
}

func TestRejectSymlinkPath(t *testing.T) {
	skipOnWindows(t)
	tmp := t.TempDir()
	real := filepath.Join(tmp, "real", "nested")
	if err := os.MkdirAll(real, 0700); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(tmp, "target.xlsx")
	if err := os.WriteFile(target, []byte("keep"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(tmp, "out.xlsx")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(tmp, "real"), filepath.Join(tmp, "link")); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"plain new file", filepath.Join(tmp, "new.xlsx"), false},
		{"missing parents", filepath.Join(tmp, "a", "b", "c.json"), false},
		{"symlinked file", filepath.Join(tmp, "out.xlsx"), true},
		{"symlinked parent", filepath.Join(tmp, "link", "out.json"), true},
		{"symlinked ancestor", filepath.Join(tmp, "link", "nested", "out.json"), true},
		{"empty", "  ", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RejectSymlinkPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RejectSymlinkPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestWritesRefuseSymlinkTarget(t *testing.T) {
	skipOnWindows(t)
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target.txt")
	if err := os.WriteFile(target, []byte("original"), 0600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(tmp, "out.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	if err := AtomicWrite(link, []byte("new"), 0600); err == nil {
		t.Fatalf("expected AtomicWrite to reject symlink")
	}
	if err := CreateExclusive(link, []byte("new"), 0600); err == nil {
		t.Fatalf("expected CreateExclusive to reject symlink")
	}
	data, _ := os.ReadFile(target)
	if string(data) != "original" {
		t.Fatalf("target modified via symlink: %s", data)
	}
}

func TestAncestors(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}
	got := ancestors("/a/b/c")
	want := []string{"/a", "/a/b", "/a/b/c"}
	if len(got) != len(want) {
		t.Fatalf("ancestors = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ancestors = %v, want %v", got, want)
		}
	}
}
