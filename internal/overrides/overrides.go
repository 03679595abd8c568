// Package overrides holds the manual translation dictionary consulted by the
// merger for source strings the completion service cannot handle.
package overrides

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry is one vetted translation.
type Entry struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

// Table maps folded source strings to their translation.
type Table struct {
	entries map[string]Entry
}

// New returns an empty table.
func New() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// Builtin returns a table seeded with the shipped dictionary.
func Builtin() *Table {
	t := New()
	for _, e := range builtin {
		t.Add(e.Source, e.Target)
	}
	return t
}

// Add registers source → target. Later additions for the same key win.
// Entries with a blank source or target are ignored.
func (t *Table) Add(source, target string) bool {
	key := Key(source)
	target = strings.TrimSpace(target)
	if key == "" || target == "" {
		return false
	}
	t.entries[key] = Entry{Source: source, Target: target}
	return true
}

// Merge copies every entry of o into t, overwriting on conflict.
func (t *Table) Merge(o *Table) {
	if o == nil {
		return
	}
	for k, e := range o.entries {
		t.entries[k] = e
	}
}

// Lookup returns the translation registered for source.
func (t *Table) Lookup(source string) (string, bool) {
	if t == nil || len(t.entries) == 0 {
		return "", false
	}
	e, ok := t.entries[Key(source)]
	return e.Target, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

var quoteFolder = strings.NewReplacer("’", "'", "‘", "'", "“", `"`, "”", `"`)

// Key folds s the way the preprocessing stage rewrites text, so a dictionary
// entry written with accents still matches a cleaned record: combining marks
// and control/symbol characters are removed, typographic quotes are
// straightened and whitespace is collapsed.
func Key(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, s)
	if err != nil {
		folded = s
	}
	folded = quoteFolder.Replace(folded)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || unicode.IsPunct(r) {
			return r
		}
		return -1
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}
