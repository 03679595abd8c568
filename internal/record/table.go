package record

// Table is an ordered collection of records sharing a column list.
// Column order is preserved so that written tables keep a stable schema.
type Table struct {
	Name    string
	Columns []string
	Records []*Record
	index   map[string]bool
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns []string) *Table {
	t := &Table{Name: name}
	for _, c := range columns {
		t.EnsureColumn(c)
	}
	return t
}

// EnsureColumn appends column to the schema if missing.
// Existing records are left untouched; absent values read as "".
func (t *Table) EnsureColumn(column string) {
	if t.index == nil {
		t.index = make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			t.index[c] = true
		}
	}
	if t.index[column] {
		return
	}
	t.index[column] = true
	t.Columns = append(t.Columns, column)
}

// HasColumn reports whether column is part of the schema.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Append adds a row. The record id is its position in the table.
func (t *Table) Append(values map[string]string) *Record {
	for k := range values {
		t.EnsureColumn(k)
	}
	r := New(len(t.Records), values)
	t.Records = append(t.Records, r)
	return r
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.Records) }

// ByID indexes the records by id.
func (t *Table) ByID() map[int]*Record {
	m := make(map[int]*Record, len(t.Records))
	for _, r := range t.Records {
		m[r.ID] = r
	}
	return m
}

// Filter returns the records for which keep returns true, in table order.
func (t *Table) Filter(keep func(*Record) bool) []*Record {
	var out []*Record
	for _, r := range t.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Retain drops every record for which keep returns false and renumbers the
// survivors so ids stay equal to row positions. It returns the number dropped.
func (t *Table) Retain(keep func(*Record) bool) int {
	kept := t.Records[:0]
	for _, r := range t.Records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	dropped := len(t.Records) - len(kept)
	for i := len(kept); i < len(t.Records); i++ {
		t.Records[i] = nil
	}
	t.Records = kept
	for i, r := range t.Records {
		r.ID = i
	}
	return dropped
}

// RenameColumn renames a column in the schema and in every record.
func (t *Table) RenameColumn(from, to string) bool {
	if from == to || !t.HasColumn(from) {
		return false
	}
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	t.rebuildIndex()
	for _, r := range t.Records {
		if v, ok := r.Values[from]; ok {
			delete(r.Values, from)
			r.Values[to] = v
		}
	}
	return true
}

func (t *Table) rebuildIndex() {
	t.index = make(map[string]bool, len(t.Columns))
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if t.index[c] {
			continue
		}
		t.index[c] = true
		cols = append(cols, c)
	}
	t.Columns = cols
}

// Row returns the values of r in column order.
func (t *Table) Row(r *Record) []string {
	row := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		row[i] = r.Get(c)
	}
	return row
}
