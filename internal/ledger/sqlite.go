package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jonathan/mindseye/internal/types"
)

const backendSQLite = "sqlite"

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLiteLedger keeps the ledger in a local SQLite file, mainly for offline work and
// tests. It has the same tables as the PostgreSQL backend.
type SQLiteLedger struct {
	db *sql.DB
}

// NewSQLiteLedger opens (creating if needed) the database at path and applies the schema.
func NewSQLiteLedger(ctx context.Context, path string) (*SQLiteLedger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, &Error{Backend: backendSQLite, Op: "ensure schema", Cause: err}
	}

	return &SQLiteLedger{db: db}, nil
}

// Close closes the database handle.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

// FetchNodeByID returns the first node row carrying id.
func (l *SQLiteLedger) FetchNodeByID(ctx context.Context, id string) (*types.Node, error) {
	grid, err := l.queryGrid(ctx, "fetch node "+id,
		`SELECT * FROM nodes WHERE node_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	return findNode(DecodeNodes(grid), id), nil
}

// FetchActiveNodes returns active nodes in insertion order.
func (l *SQLiteLedger) FetchActiveNodes(ctx context.Context, limit int) ([]types.Node, error) {
	grid, err := l.queryGrid(ctx, "fetch active nodes",
		`SELECT * FROM nodes WHERE status = ? ORDER BY seq`, types.NodeStatusActive)
	if err != nil {
		return nil, err
	}
	return selectActive(DecodeNodes(grid), limit), nil
}

var sqliteInsertRun = insertRunSQL(func(int) string { return "?" })

// AppendRun inserts one run row.
func (l *SQLiteLedger) AppendRun(ctx context.Context, run *types.Run) error {
	_, err := l.db.ExecContext(ctx, sqliteInsertRun, runRow(run)...)
	if err != nil {
		return &Error{Backend: backendSQLite, Op: "append run " + run.RunID, Cause: err}
	}
	return nil
}

// FetchRunIDs returns every recorded run_id in insertion order.
func (l *SQLiteLedger) FetchRunIDs(ctx context.Context) ([]string, error) {
	grid, err := l.queryGrid(ctx, "fetch run ids", `SELECT run_id FROM runs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return ColumnValues(grid, "run_id"), nil
}

func (l *SQLiteLedger) queryGrid(ctx context.Context, op, query string, args ...any) (Grid, error) {
	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &Error{Backend: backendSQLite, Op: op, Cause: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &Error{Backend: backendSQLite, Op: op, Cause: err}
	}

	grid := Grid{columns}
	for rows.Next() {
		cells := make([]sql.NullString, len(columns))
		dest := make([]any, len(columns))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, &Error{Backend: backendSQLite, Op: op, Cause: err}
		}

		row := make([]string, len(columns))
		for i, c := range cells {
			row[i] = c.String
		}
		grid = append(grid, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Backend: backendSQLite, Op: op, Cause: err}
	}

	return grid, nil
}
