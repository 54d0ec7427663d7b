// Package ledger reads nodes from and appends runs to the tabular ledger.
// Every backend exposes its tables as a header-plus-rows Grid so that column
// resolution and row filtering behave the same regardless of where the data lives.
package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/mindseye/internal/config"
	"github.com/jonathan/mindseye/internal/types"
)

// Ledger is the storage contract the orchestrator runs against.
type Ledger interface {
	// FetchNodeByID returns nil, nil when no row carries the id.
	FetchNodeByID(ctx context.Context, id string) (*types.Node, error)
	// FetchActiveNodes returns active nodes in ledger order; limit <= 0 means no cap.
	FetchActiveNodes(ctx context.Context, limit int) ([]types.Node, error)
	AppendRun(ctx context.Context, run *types.Run) error
	// FetchRunIDs returns every run_id recorded so far.
	FetchRunIDs(ctx context.Context) ([]string, error)
	Close() error
}

// Open connects to the backend selected by cfg.LedgerBackend.
func Open(ctx context.Context, cfg *config.Config) (Ledger, error) {
	switch cfg.LedgerBackend {
	case config.BackendSheets, "":
		return NewSheetsLedger(ctx, SheetsConfig{
			ProjectID:   cfg.GoogleProjectID,
			ClientEmail: cfg.GoogleClientEmail,
			PrivateKey:  cfg.GooglePrivateKey,
			SheetID:     cfg.LedgerSheetID,
			NodesRange:  cfg.NodesRange,
			RunsRange:   cfg.RunsRange,
		})
	case config.BackendPostgres:
		return NewPostgresLedger(ctx, cfg.DatabaseURL)
	case config.BackendSQLite:
		return NewSQLiteLedger(ctx, cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}

// runRow flattens a run into types.RunColumns order. Null annotations become nil.
func runRow(run *types.Run) []any {
	var score, notes any
	if run.Score != nil {
		score = *run.Score
	}
	if run.Notes != nil {
		notes = *run.Notes
	}

	values := map[string]any{
		"run_id":      run.RunID,
		"node_id":     run.NodeID,
		"model":       run.Model,
		"run_context": run.RunContext,
		"input_ref":   run.InputRef,
		"output_ref":  run.OutputRef,
		"score":       score,
		"notes":       notes,
		"run_time":    run.RunTime,
	}

	row := make([]any, len(types.RunColumns))
	for i, column := range types.RunColumns {
		row[i] = values[column]
	}
	return row
}

// insertRunSQL builds the runs INSERT for a SQL backend. placeholder renders the
// n-th (1-based) bind parameter in the driver's syntax.
func insertRunSQL(placeholder func(n int) string) string {
	params := make([]string, len(types.RunColumns))
	for i := range params {
		params[i] = placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO runs (%s) VALUES (%s)",
		strings.Join(types.RunColumns, ", "), strings.Join(params, ", "))
}
