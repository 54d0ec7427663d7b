// Package orchestrator turns ledger nodes into prompts, sends them to the generation
// backend and records each interaction as a run in the ledger.
//
// An Orchestrator is meant for sequential use: nodes are processed one at a time and
// the run counter it owns is not guarded against concurrent callers.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/mindseye/internal/logging"
	"github.com/jonathan/mindseye/internal/types"
)

const (
	// OutputPreviewChars is how many characters of generated text a run keeps.
	OutputPreviewChars = 120
	// TruncationMarker follows a preview that was cut short.
	TruncationMarker = "..."
	// RunTimeLayout is the ISO-8601 layout used for run_time (always UTC).
	RunTimeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Ledger is the part of the ledger gateway the orchestrator needs.
type Ledger interface {
	FetchNodeByID(ctx context.Context, id string) (*types.Node, error)
	FetchActiveNodes(ctx context.Context, limit int) ([]types.Node, error)
	AppendRun(ctx context.Context, run *types.Run) error
	FetchRunIDs(ctx context.Context) ([]string, error)
}

// Generator is the generation gateway.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// DocFetcher produces a plain-text excerpt of a node's referenced document.
type DocFetcher interface {
	Excerpt(ctx context.Context, url string) (string, error)
}

// Config holds the policy values an Orchestrator stamps onto runs.
type Config struct {
	// Model is recorded on every run.
	Model string
	// DefaultRunContext is used when RunNode is called without an explicit context.
	DefaultRunContext string
	// Docs enables doc_url excerpts in prompts when non-nil.
	Docs DocFetcher
	// Now defaults to time.Now.
	Now func() time.Time
}

// Orchestrator executes the node -> prompt -> generation -> run pipeline.
type Orchestrator struct {
	ledger    Ledger
	generator Generator
	config    Config
	counter   runCounter
}

// New creates an Orchestrator. Its run counter is seeded from the ledger on first use.
func New(ledger Ledger, generator Generator, config Config) *Orchestrator {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Orchestrator{
		ledger:    ledger,
		generator: generator,
		config:    config,
	}
}

// RunNode executes the node with the given id and appends the resulting run to the
// ledger. An unknown id is logged and yields nil, nil. Gateway errors are returned
// unchanged.
func (o *Orchestrator) RunNode(ctx context.Context, nodeID, runContext string) (*types.Run, error) {
	node, err := o.ledger.FetchNodeByID(ctx, nodeID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		logging.FromContext(ctx).Error("node not found", "node_id", nodeID)
		return nil, nil
	}

	return o.execute(ctx, *node, runContext)
}

// RunAllActive executes every active node, in ledger order, capped to limit when
// limit > 0. Nodes run strictly one after another. A failing node is logged and
// skipped; the successful runs are returned together with a *BatchError naming the
// failures. Only a failure to list the active nodes aborts the batch. When ctx is
// cancelled the remaining nodes are skipped and ctx.Err() is joined to the BatchError.
func (o *Orchestrator) RunAllActive(ctx context.Context, limit int) ([]types.Run, error) {
	logger := logging.FromContext(ctx)

	nodes, err := o.ledger.FetchActiveNodes(ctx, limit)
	if err != nil {
		return nil, err
	}
	logger.Info("running active nodes", "count", len(nodes), "limit", limit)

	runs := make([]types.Run, 0, len(nodes))
	var failures []NodeFailure
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			logger.Warn("batch interrupted", "completed", len(runs), "failed", len(failures), "error", err)
			return runs, batchResult(failures, err)
		}

		run, err := o.execute(ctx, node, "")
		if err != nil {
			logger.Error("node run failed", "node_id", node.NodeID, "error", err)
			failures = append(failures, NodeFailure{NodeID: node.NodeID, Err: err})
			continue
		}
		runs = append(runs, *run)
	}

	return runs, batchResult(failures, nil)
}

// batchResult combines the per-node failures with the error that stopped the batch early.
func batchResult(failures []NodeFailure, stopErr error) error {
	if len(failures) == 0 {
		return stopErr
	}
	batchErr := &BatchError{Failures: failures}
	if stopErr == nil {
		return batchErr
	}
	return errors.Join(batchErr, stopErr)
}

// PreviewPrompt returns the prompt RunNode would send for nodeID without calling the
// generator or touching the runs table. found is false for an unknown id.
func (o *Orchestrator) PreviewPrompt(ctx context.Context, nodeID string) (prompt string, found bool, err error) {
	node, err := o.ledger.FetchNodeByID(ctx, nodeID)
	if err != nil {
		return "", false, err
	}
	if node == nil {
		return "", false, nil
	}
	return o.promptFor(ctx, *node), true, nil
}

func (o *Orchestrator) execute(ctx context.Context, node types.Node, runContext string) (*types.Run, error) {
	logger := logging.FromContext(ctx).With("node_id", node.NodeID)

	if err := o.ensureSeeded(ctx); err != nil {
		return nil, err
	}

	prompt := o.promptFor(ctx, node)
	logger.Debug("generating", "prompt_type", node.PromptType, "prompt_chars", len(prompt))

	text, err := o.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	run := &types.Run{
		RunID:      o.counter.next(),
		NodeID:     node.NodeID,
		Model:      o.config.Model,
		RunContext: o.resolveContext(runContext),
		InputRef:   InputRef(node.NodeID),
		OutputRef:  PreviewOutput(text),
		Score:      nil,
		Notes:      nil,
		RunTime:    o.config.Now().UTC().Format(RunTimeLayout),
	}

	if err := o.ledger.AppendRun(ctx, run); err != nil {
		return nil, err
	}

	logger.Info("run completed", "run_id", run.RunID)
	return run, nil
}

func (o *Orchestrator) resolveContext(runContext string) string {
	if runContext != "" {
		return runContext
	}
	return o.config.DefaultRunContext
}

func (o *Orchestrator) promptFor(ctx context.Context, node types.Node) string {
	if o.config.Docs == nil || node.DocURL == "" {
		return BuildPromptFromNode(node)
	}

	excerpt, err := o.config.Docs.Excerpt(ctx, node.DocURL)
	if err != nil {
		logging.FromContext(ctx).Warn("could not fetch doc excerpt",
			"node_id", node.NodeID, "doc_url", node.DocURL, "error", err)
		return BuildPromptFromNode(node)
	}
	return buildPrompt(node, excerpt)
}

// InputRef is the pointer recorded as a run's input.
func InputRef(nodeID string) string {
	return "NODE:" + nodeID
}

// PreviewOutput keeps the first OutputPreviewChars characters of text, followed by
// TruncationMarker when anything was cut.
func PreviewOutput(text string) string {
	runes := []rune(text)
	if len(runes) <= OutputPreviewChars {
		return text
	}
	return string(runes[:OutputPreviewChars]) + TruncationMarker
}

// NodeFailure records why one node in a batch did not produce a run.
type NodeFailure struct {
	NodeID string
	Err    error
}

// BatchError reports the nodes that failed during RunAllActive.
type BatchError struct {
	Failures []NodeFailure
}

func (e *BatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.NodeID, f.Err)
	}
	return fmt.Sprintf("%d node(s) failed: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes the individual node errors to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
