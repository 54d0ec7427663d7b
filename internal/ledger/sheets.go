package ledger

import (
	"context"
	"fmt"

	"github.com/jonathan/mindseye/internal/types"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const backendSheets = "sheets"

// SheetsConfig identifies the spreadsheet and the service account used to reach it.
type SheetsConfig struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
	SheetID     string
	NodesRange  string
	RunsRange   string
}

// SheetsLedger stores nodes and runs in two ranges of a Google spreadsheet.
type SheetsLedger struct {
	svc        *sheets.Service
	sheetID    string
	nodesRange string
	runsRange  string
}

// NewSheetsLedger authenticates as the configured service account and returns a
// ledger bound to the spreadsheet.
func NewSheetsLedger(ctx context.Context, cfg SheetsConfig) (*SheetsLedger, error) {
	jwtCfg := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{sheets.SpreadsheetsScope},
		TokenURL:   google.JWTTokenURL,
	}

	opts := []option.ClientOption{option.WithTokenSource(jwtCfg.TokenSource(ctx))}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewSheetsLedgerWithService(svc, cfg), nil
}

// NewSheetsLedgerWithService binds an existing Sheets service to the configured ranges.
func NewSheetsLedgerWithService(svc *sheets.Service, cfg SheetsConfig) *SheetsLedger {
	return &SheetsLedger{
		svc:        svc,
		sheetID:    cfg.SheetID,
		nodesRange: cfg.NodesRange,
		runsRange:  cfg.RunsRange,
	}
}

// FetchNodeByID scans the nodes range for id.
func (l *SheetsLedger) FetchNodeByID(ctx context.Context, id string) (*types.Node, error) {
	nodes, err := l.allNodes(ctx)
	if err != nil {
		return nil, err
	}
	return findNode(nodes, id), nil
}

// FetchActiveNodes returns active nodes in sheet order.
func (l *SheetsLedger) FetchActiveNodes(ctx context.Context, limit int) ([]types.Node, error) {
	nodes, err := l.allNodes(ctx)
	if err != nil {
		return nil, err
	}
	return selectActive(nodes, limit), nil
}

// AppendRun appends one row to the runs range with RAW value input.
func (l *SheetsLedger) AppendRun(ctx context.Context, run *types.Run) error {
	row := runRow(run)
	// Sheets has no null cell; absent values are written as empty strings
	for i, v := range row {
		if v == nil {
			row[i] = ""
		}
	}

	_, err := l.svc.Spreadsheets.Values.Append(l.sheetID, l.runsRange, &sheets.ValueRange{
		Values: [][]interface{}{row},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return &Error{Backend: backendSheets, Op: "append run " + run.RunID, Cause: err}
	}
	return nil
}

// FetchRunIDs reads the run_id column of the runs range.
func (l *SheetsLedger) FetchRunIDs(ctx context.Context) ([]string, error) {
	grid, err := l.readRange(ctx, l.runsRange, "fetch run ids")
	if err != nil {
		return nil, err
	}
	return ColumnValues(grid, "run_id"), nil
}

// Close is a no-op; the Sheets service holds no pooled resources.
func (l *SheetsLedger) Close() error {
	return nil
}

func (l *SheetsLedger) allNodes(ctx context.Context) ([]types.Node, error) {
	grid, err := l.readRange(ctx, l.nodesRange, "fetch nodes")
	if err != nil {
		return nil, err
	}
	return DecodeNodes(grid), nil
}

func (l *SheetsLedger) readRange(ctx context.Context, readRange, op string) (Grid, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.sheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, &Error{Backend: backendSheets, Op: op, Cause: err}
	}
	return GridFromValues(resp.Values), nil
}
