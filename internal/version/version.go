// Package version reports what build of maintrans is running. Release
// builds stamp the values with
// -ldflags "-X github.com/oukeidos/maintrans/internal/version.Version=0.2.0".
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "0.1.0"
	Commit    = ""
	BuildDate = ""
)

// Info returns a multi-line version string for CLI output. Commit and
// build time fall back to the VCS stamp the Go toolchain records.
func Info() string {
	commit, date := Commit, BuildDate
	if commit == "" || date == "" {
		c, d := vcsStamp()
		if commit == "" {
			commit = c
		}
		if date == "" {
			date = d
		}
	}
	return fmt.Sprintf("maintrans %s\ncommit: %s\nbuild: %s", Version, orUnknown(commit), orUnknown(date))
}

var readBuildInfo = debug.ReadBuildInfo

func vcsStamp() (revision, modified string) {
	info, ok := readBuildInfo()
	if !ok {
		return "", ""
	}
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.time":
			modified = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && revision != "" {
		revision += "-dirty"
	}
	return revision, modified
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
