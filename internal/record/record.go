package record

import (
	"strings"

	"github.com/oukeidos/maintrans/internal/language"
)

// Status tracks whether a record still needs a scheduler pass.
type Status string

const (
	StatusNew       Status = "New"
	StatusProcessed Status = "Processed"
)

// Column names shared by every pipeline stage.
const (
	ColumnLanguage = "language"
	ColumnStatus   = "status"
	ColumnProject  = "project"
	ColumnDatabase = "database"

	FieldObservation  = "observation"
	FieldSolution     = "solution"
	FieldProblemCause = "problem_cause"
	FieldProblemCode  = "problem_code"

	translatedSuffix = "_translated"
)

// TranslatableFields lists the fields sent to the completion service, in the
// order they are attempted for a record.
var TranslatableFields = []string{FieldObservation, FieldProblemCause, FieldProblemCode, FieldSolution}

// PrimaryFields must be non-blank for a record to be worth translating.
var PrimaryFields = []string{FieldObservation, FieldSolution}

// TranslatedColumn returns the column holding the English value of field.
func TranslatedColumn(field string) string {
	return field + translatedSuffix
}

var missingValues = map[string]bool{
	"nan":    true,
	"<na>":   true,
	"none":   true,
	"null":   true,
	"<nil>":  true,
	"nat":    true,
	"#n/a":   true,
	"<null>": true,
}

// Clean maps null-like markers produced by upstream exports to "".
func Clean(v string) string {
	if missingValues[strings.ToLower(strings.TrimSpace(v))] {
		return ""
	}
	return v
}

// IsBlank reports whether v is empty after trimming whitespace.
func IsBlank(v string) bool {
	return strings.TrimSpace(v) == ""
}

// Record is one row of the working table. ID is its stable position.
type Record struct {
	ID     int
	Values map[string]string
}

// New returns a record with the given id and a copy of values.
func New(id int, values map[string]string) *Record {
	r := &Record{ID: id, Values: make(map[string]string, len(values)+4)}
	for k, v := range values {
		r.Values[k] = v
	}
	return r
}

// Get returns the value of column, or "" when absent.
func (r *Record) Get(column string) string {
	return r.Values[column]
}

// Lookup returns the value of column and whether the column is present.
func (r *Record) Lookup(column string) (string, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Set stores value in column.
func (r *Record) Set(column, value string) {
	if r.Values == nil {
		r.Values = make(map[string]string)
	}
	r.Values[column] = value
}

// Language returns the record's language code.
func (r *Record) Language() language.Code {
	return language.FromCode(r.Get(ColumnLanguage))
}

// Status returns the record status; records without one are New.
func (r *Record) Status() Status {
	switch Status(strings.TrimSpace(r.Get(ColumnStatus))) {
	case StatusProcessed:
		return StatusProcessed
	default:
		return StatusNew
	}
}

// SetStatus updates the record status.
func (r *Record) SetStatus(s Status) {
	r.Set(ColumnStatus, string(s))
}

// Source returns the original text of field.
func (r *Record) Source(field string) string {
	return r.Get(field)
}

// Translated returns the translated text of field.
func (r *Record) Translated(field string) string {
	return r.Get(TranslatedColumn(field))
}

