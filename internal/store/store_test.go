package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/oukeidos/maintrans/internal/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "work.db")
	s, err := Open(context.Background(), DriverSQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTable() *record.Table {
	t := record.NewTable("work", []string{"language", "observation", "solution", "status"})
	t.Append(map[string]string{"language": "fr", "observation": "porte bloquée", "solution": "graissage", "status": "New"})
	t.Append(map[string]string{"language": "es", "observation": "shunt", "solution": "", "status": "New"})
	t.Append(map[string]string{"language": "ru", "observation": "течь", "solution": "замена", "status": "Processed"})
	return t
}

func TestWriteAllReadAll_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	in := sampleTable()
	require.NoError(t, s.WriteAll(ctx, "work", in))

	out, err := s.ReadAll(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, in.Columns, out.Columns)
	require.Equal(t, in.Len(), out.Len())
	for i, rec := range out.Records {
		assert.Equal(t, i, rec.ID)
		assert.Equal(t, in.Row(in.Records[i]), out.Row(rec))
	}
}

func TestWriteAll_ReplacesTable(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.WriteAll(ctx, "work", sampleTable()))

	smaller := record.NewTable("work", []string{"observation", "observation_translated"})
	smaller.Append(map[string]string{"observation": "fuite", "observation_translated": "Leak"})
	require.NoError(t, s.WriteAll(ctx, "work", smaller))

	out, err := s.ReadAll(ctx, "work")
	require.NoError(t, err)
	assert.Equal(t, []string{"observation", "observation_translated"}, out.Columns)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, "Leak", out.Records[0].Get("observation_translated"))
}

func TestWriteAll_ManyRowsKeepOrder(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	in := record.NewTable("big", []string{"observation"})
	for i := 0; i < 2500; i++ {
		in.Append(map[string]string{"observation": time.Duration(i).String()})
	}
	require.NoError(t, s.WriteAll(ctx, "big", in))

	out, err := s.ReadAll(ctx, "big")
	require.NoError(t, err)
	require.Equal(t, in.Len(), out.Len())
	assert.Equal(t, in.Records[1234].Get("observation"), out.Records[1234].Get("observation"))
}

func TestReadAll_NullsAndTypes(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	db := s.db
	_, err := db.ExecContext(ctx, `CREATE TABLE raw (observation TEXT, problemcode INTEGER, score REAL, note TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO raw VALUES (?, ?, ?, ?)`, "porte", 42, 1.5, sql.NullString{})
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `INSERT INTO raw VALUES (?, ?, ?, ?)`, "NaN", nil, 2.0, "<NA>")
	require.NoError(t, err)

	out, err := s.ReadAll(ctx, "raw")
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())

	first := out.Records[0]
	assert.Equal(t, "porte", first.Get("observation"))
	assert.Equal(t, "42", first.Get("problemcode"))
	assert.Equal(t, "1.5", first.Get("score"))
	assert.Equal(t, "", first.Get("note"))

	second := out.Records[1]
	assert.Equal(t, "", second.Get("observation"))
	assert.Equal(t, "", second.Get("problemcode"))
	assert.Equal(t, "2", second.Get("score"))
	assert.Equal(t, "", second.Get("note"))
}

func TestTables(t *testing.T) {
	ctx := context.Background()
	s := openSQLite(t)

	require.NoError(t, s.WriteAll(ctx, "zeta", sampleTable()))
	require.NoError(t, s.WriteAll(ctx, "alpha", sampleTable()))

	names, err := s.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names)
}

func TestReadAll_MissingTable(t *testing.T) {
	s := openSQLite(t)
	_, err := s.ReadAll(context.Background(), "nope")
	require.Error(t, err)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"a""b"`, New(nil, DriverSQLite).quote(`a"b`))
	assert.Equal(t, "`a``b`", New(nil, DriverMySQL).quote("a`b"))
	assert.Equal(t, `"work"`, New(nil, DriverPostgres).quote("work"))
}

func TestParseDriver(t *testing.T) {
	tests := map[string]Driver{
		"":           DriverSQLite,
		"sqlite3":    DriverSQLite,
		"MySQL":      DriverMySQL,
		"postgresql": DriverPostgres,
	}
	for in, want := range tests {
		got, err := ParseDriver(in)
		require.NoError(t, err)
		assert.Equal(t, want, got, "ParseDriver(%q)", in)
	}
	_, err := ParseDriver("oracle")
	assert.Error(t, err)
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", toString(nil))
	assert.Equal(t, "abc", toString([]byte("abc")))
	assert.Equal(t, "7", toString(int64(7)))
	assert.Equal(t, "0.25", toString(0.25))
	assert.Equal(t, "true", toString(true))
	assert.Equal(t, "2024-04-29", toString(time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-04-29 06:49:05", toString(time.Date(2024, 4, 29, 6, 49, 5, 0, time.UTC)))
}
