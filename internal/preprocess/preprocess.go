// Package preprocess merges heterogeneous maintenance exports into one
// working table ready for translation.
package preprocess

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/language"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/normalize"
	"github.com/oukeidos/maintrans/internal/record"
)

// Report summarizes what preprocessing did to the input.
type Report struct {
	InputRows        map[string]int
	DroppedEmpty     int
	DroppedExcluded  int
	Duplicates       int
	UnknownLanguages map[string]int
	// UnconfiguredProjects have no ProjectConfig; their split columns are empty.
	UnconfiguredProjects []string
	OutputRows           int
}

// Run cleans each source table, concatenates them and reshapes the result
// into the working-table schema. Every output record has status New.
// Only the project grouping step can fail.
func Run(ctx context.Context, sources []*record.Table, cfg Config) (*record.Table, Report, error) {
	report := Report{
		InputRows:        make(map[string]int, len(sources)),
		UnknownLanguages: make(map[string]int),
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		report.InputRows[src.Name] = src.Len()
		cleanPlaceholders(src, cfg.CleanColumns)
		report.DroppedEmpty += dropEmptyPrimary(src)
		fillMetadata(src)
		applyValueFixes(src, cfg.ValueFixes)
		report.DroppedExcluded += dropExcluded(src, cfg.ExcludedDatabases)
		logger.Debug("Cleaned source table", "table", src.Name, "rows", src.Len())
	}

	combined := concat("working", sources)
	logger.Info("Merged source tables", "tables", len(sources), "rows", combined.Len(), "columns", len(combined.Columns))

	standardizeLanguages(combined, cfg.LanguageAliases, report.UnknownLanguages)
	normalizeText(combined, cfg.TextColumns)
	replaceValues(combined, record.ColumnDatabase, cfg.DatabaseMapping)
	for _, c := range cfg.MetadataColumns {
		combined.EnsureColumn(c)
	}
	renameColumns(combined, cfg.ColumnMapping)
	for _, c := range cfg.ExtraColumns {
		combined.EnsureColumn(c)
	}
	for _, r := range combined.Records {
		for k, v := range r.Values {
			r.Values[k] = record.Clean(v)
		}
	}
	if cfg.Deduplicate {
		report.Duplicates = dedup(combined)
	}

	out, unconfigured, err := splitByProject(combined, cfg.SplitColumns, cfg.Projects)
	if err != nil {
		logger.Error("Error in project grouping step", "rows", combined.Len(), "error", err)
		return nil, report, err
	}
	report.UnconfiguredProjects = unconfigured

	out.EnsureColumn(record.ColumnStatus)
	for _, r := range out.Records {
		r.SetStatus(record.StatusNew)
	}
	report.OutputRows = out.Len()
	logger.Info("Preprocessing complete",
		"rows", out.Len(),
		"dropped_empty", report.DroppedEmpty,
		"dropped_excluded", report.DroppedExcluded,
		"duplicates", report.Duplicates,
	)
	return out, report, nil
}

func cleanPlaceholders(t *record.Table, columns []string) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			continue
		}
		for _, r := range t.Records {
			r.Set(c, normalize.CleanPlaceholder(strings.TrimSpace(record.Clean(r.Get(c)))))
		}
	}
}

// dropEmptyPrimary only applies when both primary columns exist, so that
// auxiliary tables without them survive the merge.
func dropEmptyPrimary(t *record.Table) int {
	for _, f := range record.PrimaryFields {
		if !t.HasColumn(f) {
			return 0
		}
	}
	return normalize.DropEmptyPrimary(t)
}

var metadataFill = []string{record.ColumnProject, record.ColumnDatabase, record.ColumnLanguage}

// fillMetadata replaces blank project, database and language values with the
// column's most frequent value, or with the table name when the column is
// missing or entirely blank.
func fillMetadata(t *record.Table) {
	for _, c := range metadataFill {
		fill := t.Name
		if t.HasColumn(c) {
			if m := mode(t, c); m != "" {
				fill = m
			}
		}
		t.EnsureColumn(c)
		for _, r := range t.Records {
			if record.IsBlank(record.Clean(r.Get(c))) {
				r.Set(c, fill)
			}
		}
	}
}

// mode returns the most frequent non-blank value of column; ties go to the
// value seen first.
func mode(t *record.Table, column string) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range t.Records {
		v := record.Clean(r.Get(column))
		if record.IsBlank(v) {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best := ""
	for _, v := range order {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

func applyValueFixes(t *record.Table, fixes []ValueFix) {
	for _, fix := range fixes {
		if fix.Dataset != "" && fix.Dataset != t.Name {
			continue
		}
		if !t.HasColumn(fix.Column) {
			continue
		}
		if fix.Set != "" {
			for _, r := range t.Records {
				r.Set(fix.Column, fix.Set)
			}
			continue
		}
		replaceValues(t, fix.Column, fix.Replace)
	}
}

func replaceValues(t *record.Table, column string, mapping map[string]string) {
	if len(mapping) == 0 || !t.HasColumn(column) {
		return
	}
	for _, r := range t.Records {
		if to, ok := mapping[r.Get(column)]; ok {
			r.Set(column, to)
		}
	}
}

func dropExcluded(t *record.Table, databases []string) int {
	if len(databases) == 0 || !t.HasColumn(record.ColumnDatabase) {
		return 0
	}
	excluded := make(map[string]bool, len(databases))
	for _, d := range databases {
		excluded[d] = true
	}
	return t.Retain(func(r *record.Record) bool {
		return !excluded[r.Get(record.ColumnDatabase)]
	})
}

// concat appends every table's rows into a new table whose columns are the
// union of the inputs in first-seen order.
func concat(name string, tables []*record.Table) *record.Table {
	out := record.NewTable(name, nil)
	for _, t := range tables {
		for _, c := range t.Columns {
			out.EnsureColumn(c)
		}
	}
	for _, t := range tables {
		for _, r := range t.Records {
			out.Append(r.Values)
		}
	}
	return out
}

func standardizeLanguages(t *record.Table, aliases map[string]string, unknown map[string]int) {
	t.EnsureColumn(record.ColumnLanguage)
	for _, r := range t.Records {
		raw := strings.TrimSpace(record.Clean(r.Get(record.ColumnLanguage)))
		if to, ok := aliases[raw]; ok {
			raw = to
		}
		code, ok := language.Parse(raw)
		if !ok {
			if unknown[raw] == 0 {
				logger.Warn("Unknown language detected", "language", strings.ToLower(raw))
			}
			unknown[raw]++
			code = language.Unknown
		}
		r.Set(record.ColumnLanguage, string(code))
	}
}

func normalizeText(t *record.Table, columns []string) {
	for _, c := range columns {
		if !t.HasColumn(c) {
			continue
		}
		for _, r := range t.Records {
			r.Set(c, normalize.Text(r.Get(c), r.Language()))
		}
	}
}

// renameColumns applies mapping in sorted key order so the result does not
// depend on map iteration.
func renameColumns(t *record.Table, mapping map[string]string) {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, from := range keys {
		t.RenameColumn(from, mapping[from])
	}
}

// dedup drops rows repeating an earlier row's language, project and
// normalized observation and solution.
func dedup(t *record.Table) int {
	seen := make(map[string]bool, t.Len())
	return t.Retain(func(r *record.Record) bool {
		key := strings.Join([]string{
			r.Get(record.ColumnLanguage),
			r.Get(record.ColumnProject),
			r.Get(record.FieldObservation),
			r.Get(record.FieldSolution),
		}, "\x00")
		if seen[key] {
			return false
		}
		seen[key] = true
		return true
	})
}

// splitByProject groups rows by project (sorted by name, as the downstream
// exports expect) and fills <col>_text / <col>_code from each project's
// configuration. Rows of projects without configuration get empty split
// columns.
func splitByProject(t *record.Table, splitColumns []string, projects map[string]ProjectConfig) (*record.Table, []string, error) {
	if !t.HasColumn(record.ColumnProject) {
		return nil, nil, apperrors.DataShape(fmt.Errorf("column %q is missing", record.ColumnProject))
	}
	splittable := make(map[string]bool, len(splitColumns))
	for _, c := range splitColumns {
		splittable[c] = true
	}
	for name, pc := range projects {
		for _, c := range append(append([]string{}, pc.TextualColumns...), pc.CodedColumns...) {
			if !splittable[c] {
				return nil, nil, apperrors.New(apperrors.KindConfig,
					"Invalid project configuration.",
					fmt.Errorf("project %q references %q, which is not a split column", name, c))
			}
		}
	}

	groups := make(map[string][]*record.Record)
	var names []string
	for _, r := range t.Records {
		p := r.Get(record.ColumnProject)
		if _, ok := groups[p]; !ok {
			names = append(names, p)
		}
		groups[p] = append(groups[p], r)
	}
	sort.Strings(names)

	cols := append([]string{}, t.Columns...)
	for _, c := range splitColumns {
		cols = append(cols, c+"_text", c+"_code")
	}
	out := record.NewTable(t.Name, cols)

	var unconfigured []string
	for _, name := range names {
		pc, ok := projects[name]
		if ok {
			logger.Info("Processing project", "project", name, "rows", len(groups[name]))
		} else {
			logger.Warn("No configuration found for project", "project", name)
			unconfigured = append(unconfigured, name)
		}
		textual := toSet(pc.TextualColumns)
		coded := toSet(pc.CodedColumns)
		for _, r := range groups[name] {
			row := make(map[string]string, len(r.Values)+2*len(splitColumns))
			for k, v := range r.Values {
				row[k] = v
			}
			for _, c := range splitColumns {
				row[c+"_text"] = ""
				row[c+"_code"] = ""
				if textual[c] {
					row[c+"_text"] = r.Get(c)
				}
				if coded[c] {
					row[c+"_code"] = r.Get(c)
				}
			}
			out.Append(row)
		}
	}
	return out, unconfigured, nil
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, i := range items {
		m[i] = true
	}
	return m
}
