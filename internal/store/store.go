// Package store reads and writes working tables through database/sql.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/oukeidos/maintrans/internal/apperrors"
	"github.com/oukeidos/maintrans/internal/chunker"
	"github.com/oukeidos/maintrans/internal/logger"
	"github.com/oukeidos/maintrans/internal/record"
	_ "modernc.org/sqlite"
)

// Driver names a supported database backend.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// RowColumn keeps row order across a WriteAll/ReadAll round trip. It is
// stripped from tables returned by ReadAll.
const RowColumn = "_row"

// maxParams stays under the smallest bind-parameter limit of the backends.
const maxParams = 30000

// ParseDriver validates a driver name.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "mysql":
		return DriverMySQL, nil
	case "postgres", "postgresql", "pg":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported store driver %q (want sqlite, mysql or postgres)", s)
	}
}

func (d Driver) dialect() string {
	if d == DriverSQLite {
		return "sqlite3"
	}
	return string(d)
}

// Store is a record store backed by a SQL database.
type Store struct {
	db     *sql.DB
	driver Driver
	goqu   goqu.DialectWrapper
}

// Open connects to dsn with driver and verifies the connection.
func Open(ctx context.Context, driver Driver, dsn string) (*Store, error) {
	db, err := sql.Open(string(driver), dsn)
	if err != nil {
		return nil, apperrors.New(apperrors.KindStore, "Failed to open record store.", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, apperrors.New(apperrors.KindStore, "Failed to connect to record store.", err)
	}
	return New(db, driver), nil
}

// New wraps an open database handle.
func New(db *sql.DB, driver Driver) *Store {
	return &Store{db: db, driver: driver, goqu: goqu.Dialect(driver.dialect())}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver { return s.driver }

// Tables lists the tables in the current database, sorted by name.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	var ds *goqu.SelectDataset
	switch s.driver {
	case DriverSQLite:
		ds = s.goqu.From("sqlite_master").Select("name").
			Where(goqu.Ex{"type": "table"}, goqu.C("name").NotLike("sqlite_%"))
	case DriverMySQL:
		ds = s.goqu.From(goqu.S("information_schema").Table("tables")).Select(goqu.C("table_name").As("name")).
			Where(goqu.Ex{"table_schema": goqu.L("DATABASE()")})
	default:
		ds = s.goqu.From(goqu.S("information_schema").Table("tables")).Select(goqu.C("table_name").As("name")).
			Where(goqu.Ex{"table_schema": goqu.L("current_schema()")})
	}
	query, args, err := ds.Order(goqu.C("name").Asc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build table list query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to list tables: %w", err))
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, apperrors.Store(fmt.Errorf("failed to scan table name: %w", err))
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReadAll loads every row of table. Null and null-like values become "".
func (s *Store) ReadAll(ctx context.Context, table string) (*record.Table, error) {
	query, _, err := s.goqu.From(table).Limit(0).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build read query: %w", err)
	}
	cols, err := s.columns(ctx, query)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to read columns of %s: %w", table, err))
	}

	ds := s.goqu.From(table)
	ordered := false
	for _, c := range cols {
		if c == RowColumn {
			ordered = true
			ds = ds.Order(goqu.C(RowColumn).Asc())
		}
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build read query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Store(fmt.Errorf("failed to read table %s: %w", table, err))
	}
	defer rows.Close()

	cols, err = rows.Columns()
	if err != nil {
		return nil, apperrors.Store(err)
	}
	schema := make([]string, 0, len(cols))
	for _, c := range cols {
		if c != RowColumn {
			schema = append(schema, c)
		}
	}
	t := record.NewTable(table, schema)

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.Store(fmt.Errorf("failed to scan row of %s: %w", table, err))
		}
		row := make(map[string]string, len(cols))
		for i, c := range cols {
			if c == RowColumn {
				continue
			}
			row[c] = record.Clean(toString(values[i]))
		}
		t.Append(row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Store(err)
	}
	logger.Debug("Read table", "table", table, "rows", t.Len(), "ordered", ordered)
	return t, nil
}

func (s *Store) columns(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// WriteAll replaces table with the contents of t. Every column is stored as
// TEXT; the table is dropped and recreated inside one transaction where the
// backend supports transactional DDL.
func (s *Store) WriteAll(ctx context.Context, table string, t *record.Table) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Store(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+s.quote(table)); err != nil {
		return apperrors.Store(fmt.Errorf("failed to drop table %s: %w", table, err))
	}
	if _, err = tx.ExecContext(ctx, s.createTable(table, t.Columns)); err != nil {
		return apperrors.Store(fmt.Errorf("failed to create table %s: %w", table, err))
	}

	cols := make([]any, 0, len(t.Columns)+1)
	cols = append(cols, RowColumn)
	for _, c := range t.Columns {
		cols = append(cols, c)
	}
	perBatch := maxParams / len(cols)
	if perBatch < 1 {
		perBatch = 1
	}
	for _, batch := range chunker.Split(t.Records, perBatch) {
		vals := make([][]any, 0, len(batch.Items))
		for i, rec := range batch.Items {
			row := make([]any, 0, len(cols))
			row = append(row, batch.Offset+i)
			for _, c := range t.Columns {
				row = append(row, rec.Get(c))
			}
			vals = append(vals, row)
		}
		query, args, qerr := s.goqu.Insert(table).Prepared(true).Cols(cols...).Vals(vals...).ToSQL()
		if qerr != nil {
			err = fmt.Errorf("failed to build insert query: %w", qerr)
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.Store(fmt.Errorf("failed to insert rows into %s: %w", table, err))
		}
	}

	if err = tx.Commit(); err != nil {
		return apperrors.Store(fmt.Errorf("failed to commit table %s: %w", table, err))
	}
	logger.Info("Wrote table", "table", table, "rows", t.Len(), "columns", len(t.Columns))
	return nil
}

func (s *Store) createTable(table string, columns []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(s.quote(table))
	b.WriteString(" (")
	b.WriteString(s.quote(RowColumn))
	b.WriteString(" INTEGER")
	for _, c := range columns {
		b.WriteString(", ")
		b.WriteString(s.quote(c))
		b.WriteString(" TEXT")
	}
	b.WriteString(")")
	return b.String()
}

// quote renders an identifier for DDL, which goqu does not generate.
func (s *Store) quote(ident string) string {
	if s.driver == DriverMySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
