// Package merge folds scheduler results into the working table and applies
// the final fill and manual-override passes.
package merge

import (
	"fmt"
	"strings"

	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/overrides"
	"github.com/oukeidos/maintrans/internal/record"
)

// Apply writes each result into the matching <field>_translated column and
// returns the number of cells that changed. Applying the same results twice
// changes nothing the second time. Results for unknown record ids are skipped.
func Apply(t *record.Table, results map[int]map[string]string) int {
	byID := t.ByID()
	changed := 0
	for id, fields := range results {
		rec, ok := byID[id]
		if !ok {
			logger.Warn("Skipping result for unknown record", "id", id)
			continue
		}
		for field, value := range fields {
			col := record.TranslatedColumn(field)
			t.EnsureColumn(col)
			if cur, ok := rec.Lookup(col); ok && cur == value {
				continue
			}
			rec.Set(col, value)
			changed++
		}
	}
	return changed
}

// Backfill copies the source value into every blank translated cell whose
// source is non-blank and returns the number of cells filled.
func Backfill(t *record.Table, fields []string) int {
	filled := 0
	for _, field := range fields {
		col := record.TranslatedColumn(field)
		t.EnsureColumn(col)
		for _, rec := range t.Records {
			src := rec.Source(field)
			if record.IsBlank(src) || !record.IsBlank(rec.Get(col)) {
				continue
			}
			rec.Set(col, src)
			filled++
		}
	}
	return filled
}

// Scope selects which translated values an override may replace.
type Scope string

const (
	// ScopeBlank replaces only blank translated values.
	ScopeBlank Scope = "blank"
	// ScopeEcho also replaces values equal to their source.
	ScopeEcho Scope = "echo"
	// ScopeAll replaces any machine output.
	ScopeAll Scope = "all"
)

// ParseScope validates a scope name. The empty string selects ScopeBlank.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeBlank:
		return ScopeBlank, nil
	case ScopeEcho:
		return ScopeEcho, nil
	case ScopeAll:
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("unknown override scope %q (want blank, echo or all)", s)
	}
}

func (s Scope) allows(src, translated string) bool {
	switch s {
	case ScopeAll:
		return true
	case ScopeEcho:
		return record.IsBlank(translated) || strings.TrimSpace(translated) == strings.TrimSpace(src)
	default:
		return record.IsBlank(translated)
	}
}

// ApplyOverrides replaces translated values whose source has a dictionary
// entry, subject to scope. It returns the number of cells replaced.
func ApplyOverrides(t *record.Table, dict *overrides.Table, fields []string, scope Scope) int {
	if dict.Len() == 0 {
		return 0
	}
	applied := 0
	for _, field := range fields {
		col := record.TranslatedColumn(field)
		t.EnsureColumn(col)
		for _, rec := range t.Records {
			src := rec.Source(field)
			if record.IsBlank(src) {
				continue
			}
			target, ok := dict.Lookup(src)
			if !ok {
				continue
			}
			cur := rec.Get(col)
			if cur == target || !scope.allows(src, cur) {
				continue
			}
			rec.Set(col, target)
			applied++
		}
	}
	return applied
}
