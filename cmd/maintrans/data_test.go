package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oukeidos/maintrans/internal/record"
	"github.com/oukeidos/maintrans/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedStore(t *testing.T, tables ...*record.Table) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	st, err := store.Open(context.Background(), store.DriverSQLite, path)
	require.NoError(t, err)
	defer st.Close()
	for _, tbl := range tables {
		require.NoError(t, st.WriteAll(context.Background(), tbl.Name, tbl))
	}
	return path
}

func readTable(t *testing.T, dsn, table string) *record.Table {
	t.Helper()
	st, err := store.Open(context.Background(), store.DriverSQLite, dsn)
	require.NoError(t, err)
	defer st.Close()
	out, err := st.ReadAll(context.Background(), table)
	require.NoError(t, err)
	return out
}

func lmrcSource() *record.Table {
	src := record.NewTable("LMRC", []string{"project", "language", "observation", "solution", "observationcategory", "problemcause"})
	src.Append(map[string]string{"project": "LMRC", "language": "ENGLISH", "observation": "Door stuck", "solution": "Reset", "observationcategory": "D01", "problemcause": "Wear"})
	src.Append(map[string]string{"project": "LMRC", "language": "English", "observation": "NaN", "solution": "Seal", "observationcategory": "D02", "problemcause": "Gasket"})
	src.Append(map[string]string{"project": "LMRC", "language": "French", "observation": "Fuite d'huile", "solution": "Remplacer joint", "observationcategory": "D03", "problemcause": "Joint"})
	return src
}

func TestPreprocessCmd_WritesWorkingTable(t *testing.T) {
	dsn := seedStore(t, lmrcSource())

	out, err := executeCommand(t, "preprocess", "--config", emptyConfig(t), "--dsn", dsn, "--output-table", "working")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Input LMRC: 3 rows")
	assert.Contains(t, out, "Output: 2 rows")

	working := readTable(t, dsn, "working")
	require.Equal(t, 2, working.Len())
	assert.True(t, working.HasColumn("problem_cause_text"))
	assert.True(t, working.HasColumn("observation_category_code"))
	assert.Equal(t, "en", working.Records[0].Get("language"))
	assert.Equal(t, "fr", working.Records[1].Get("language"))
	assert.Equal(t, "D03", working.Records[1].Get("observation_category_code"))
	assert.Equal(t, record.StatusNew, working.Records[1].Status())
}

func TestPreprocessCmd_ExistingTableNeedsConfirmation(t *testing.T) {
	existing := record.NewTable("working", []string{"observation"})
	existing.Append(map[string]string{"observation": "keep me"})
	dsn := seedStore(t, lmrcSource(), existing)

	_, err := executeCommand(t, "preprocess", "--config", emptyConfig(t), "--dsn", dsn, "--tables", "LMRC", "--output-table", "working")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
	assert.Equal(t, "keep me", readTable(t, dsn, "working").Records[0].Get("observation"))

	_, err = executeCommand(t, "preprocess", "--config", emptyConfig(t), "--dsn", dsn, "--tables", "LMRC", "--output-table", "working", "-y")
	require.NoError(t, err)
	assert.Equal(t, 2, readTable(t, dsn, "working").Len())
}

func TestPreprocessCmd_FromWorkbook(t *testing.T) {
	dir := t.TempDir()
	book := filepath.Join(dir, "sources.xlsx")
	require.NoError(t, store.ExportXLSX(book, lmrcSource()))
	dsn := filepath.Join(dir, "records.db")

	_, err := executeCommand(t, "preprocess", "--config", emptyConfig(t), "--dsn", dsn, "--xlsx", book, "--output-table", "working")
	require.NoError(t, err)
	assert.Equal(t, 2, readTable(t, dsn, "working").Len())
}

func TestPreprocessCmd_RequiresOutputTable(t *testing.T) {
	_, err := executeCommand(t, "preprocess", "--config", emptyConfig(t), "--dsn", "x.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output table is required")
}

func TestExportCmd_WritesWorkbook(t *testing.T) {
	work := record.NewTable("working", []string{"language", "observation", "observation_translated", "status"})
	work.Append(map[string]string{"language": "fr", "observation": "Fuite", "observation_translated": "Leak", "status": "Processed"})
	dsn := seedStore(t, work)
	path := filepath.Join(t.TempDir(), "out.xlsx")

	out, err := executeCommand(t, "export", path, "--config", emptyConfig(t), "--dsn", dsn, "--table", "working")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 1 records")

	sheets, err := store.ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "working", sheets[0].Name)
	require.Equal(t, 1, sheets[0].Len())
	assert.Equal(t, "Leak", sheets[0].Records[0].Get("observation_translated"))
}

func TestExportCmd_RefusesOverwriteWithoutYes(t *testing.T) {
	work := record.NewTable("working", []string{"observation"})
	work.Append(map[string]string{"observation": "x"})
	dsn := seedStore(t, work)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	_, err := executeCommand(t, "export", path, "--config", emptyConfig(t), "--dsn", dsn, "--table", "working")
	require.Error(t, err)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "old", string(data))

	_, err = executeCommand(t, "export", path, "--config", emptyConfig(t), "--dsn", dsn, "--table", "working", "--yes")
	require.NoError(t, err)
}

func TestOverridesCmd_ExportAndCheck(t *testing.T) {
	out, err := executeCommand(t, "overrides", "export")
	require.NoError(t, err)
	assert.Contains(t, out, "source:")

	dict := filepath.Join(t.TempDir(), "dict.yaml")
	writeFile(t, dict, "Frein bloqué: Brake seized\nPorte: Door\n")
	out, err = executeCommand(t, "overrides", "check", dict)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "2 entries"), out)
}
