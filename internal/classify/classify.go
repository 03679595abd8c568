// Package classify detects records whose translation failed and drives the
// bounded retry pass over them.
package classify

import (
	"sort"
	"strings"

	"github.com/oukeidos/maintrans/internal/record"
)

// IdentifyFailed returns the ids of non-English records for which any of
// fields has a non-blank source equal, after trimming, to its translation.
// Such echoes are how a failed completion shows up after the fallback.
func IdentifyFailed(records []*record.Record, fields []string) map[int]bool {
	failed := make(map[int]bool)
	for _, r := range records {
		if r.Language().IsEnglish() {
			continue
		}
		for _, f := range fields {
			src := strings.TrimSpace(r.Source(f))
			if src == "" {
				continue
			}
			if src == strings.TrimSpace(r.Translated(f)) {
				failed[r.ID] = true
				break
			}
		}
	}
	return failed
}

// IdentifyBlank returns the ids of records with a non-blank source and a
// blank translation in any of fields.
func IdentifyBlank(records []*record.Record, fields []string) map[int]bool {
	blank := make(map[int]bool)
	for _, r := range records {
		for _, f := range fields {
			if !record.IsBlank(r.Source(f)) && record.IsBlank(r.Translated(f)) {
				blank[r.ID] = true
				break
			}
		}
	}
	return blank
}

// SortedIDs returns the members of set in ascending order.
func SortedIDs(set map[int]bool) []int {
	ids := make([]int, 0, len(set))
	for id, ok := range set {
		if ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func intersect(a, b map[int]bool) map[int]bool {
	out := make(map[int]bool)
	for id := range a {
		if b[id] {
			out[id] = true
		}
	}
	return out
}
