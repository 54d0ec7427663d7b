package ledger

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/mindseye/internal/types"
)

const backendPostgres = "postgres"

//go:embed schema_postgres.sql
var postgresSchema string

// PostgresLedger keeps the nodes and runs tables in PostgreSQL. Ledger order is the
// insertion order recorded in each table's seq column.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger connects, verifies the connection and ensures the schema exists.
func NewPostgresLedger(ctx context.Context, databaseURL string) (*PostgresLedger, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l := &PostgresLedger{pool: pool}
	if err := l.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return l, nil
}

// EnsureSchema creates the ledger tables when they are missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, postgresSchema); err != nil {
		return &Error{Backend: backendPostgres, Op: "ensure schema", Cause: err}
	}
	return nil
}

// Close closes the connection pool.
func (l *PostgresLedger) Close() error {
	if l.pool != nil {
		l.pool.Close()
	}
	return nil
}

// FetchNodeByID returns the first node row carrying id.
func (l *PostgresLedger) FetchNodeByID(ctx context.Context, id string) (*types.Node, error) {
	grid, err := l.queryGrid(ctx, "fetch node "+id,
		`SELECT * FROM nodes WHERE node_id = $1 ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	return findNode(DecodeNodes(grid), id), nil
}

// FetchActiveNodes returns active nodes in insertion order.
func (l *PostgresLedger) FetchActiveNodes(ctx context.Context, limit int) ([]types.Node, error) {
	grid, err := l.queryGrid(ctx, "fetch active nodes",
		`SELECT * FROM nodes WHERE status = $1 ORDER BY seq`, types.NodeStatusActive)
	if err != nil {
		return nil, err
	}
	return selectActive(DecodeNodes(grid), limit), nil
}

var postgresInsertRun = insertRunSQL(func(n int) string { return fmt.Sprintf("$%d", n) })

// AppendRun inserts one run row.
func (l *PostgresLedger) AppendRun(ctx context.Context, run *types.Run) error {
	_, err := l.pool.Exec(ctx, postgresInsertRun, runRow(run)...)
	if err != nil {
		return &Error{Backend: backendPostgres, Op: "append run " + run.RunID, Cause: err}
	}
	return nil
}

// FetchRunIDs returns every recorded run_id in insertion order.
func (l *PostgresLedger) FetchRunIDs(ctx context.Context) ([]string, error) {
	grid, err := l.queryGrid(ctx, "fetch run ids", `SELECT run_id FROM runs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return ColumnValues(grid, "run_id"), nil
}

// queryGrid runs query and returns the result as a Grid headed by the column names.
func (l *PostgresLedger) queryGrid(ctx context.Context, op, query string, args ...any) (Grid, error) {
	rows, err := l.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &Error{Backend: backendPostgres, Op: op, Cause: err}
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	header := make([]any, len(fields))
	for i, fd := range fields {
		header[i] = fd.Name
	}

	values := [][]any{header}
	for rows.Next() {
		row, err := rows.Values()
		if err != nil {
			return nil, &Error{Backend: backendPostgres, Op: op, Cause: err}
		}
		values = append(values, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Backend: backendPostgres, Op: op, Cause: err}
	}

	return GridFromValues(values), nil
}
