package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jonathan/mindseye/internal/logging"
	"github.com/jonathan/mindseye/internal/types"
)

var errBoom = errors.New("boom")

type fakeLedger struct {
	nodes    []types.Node
	runIDs   []string
	appended []types.Run

	fetchErr       error
	appendErr      error
	appendFailures int
	runIDsErr      error
	runIDCalls     int
}

func (f *fakeLedger) FetchNodeByID(_ context.Context, id string) (*types.Node, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	for i := range f.nodes {
		if f.nodes[i].NodeID == id {
			node := f.nodes[i]
			return &node, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) FetchActiveNodes(_ context.Context, limit int) ([]types.Node, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	var active []types.Node
	for _, n := range f.nodes {
		if !n.IsActive() {
			continue
		}
		active = append(active, n)
		if limit > 0 && len(active) == limit {
			break
		}
	}
	return active, nil
}

func (f *fakeLedger) AppendRun(_ context.Context, run *types.Run) error {
	if f.appendErr != nil && f.appendFailures > 0 {
		f.appendFailures--
		return f.appendErr
	}
	f.appended = append(f.appended, *run)
	f.runIDs = append(f.runIDs, run.RunID)
	return nil
}

func (f *fakeLedger) FetchRunIDs(_ context.Context) ([]string, error) {
	f.runIDCalls++
	if f.runIDsErr != nil {
		return nil, f.runIDsErr
	}
	return append([]string(nil), f.runIDs...), nil
}

// fakeGenerator answers every prompt with text, except prompts for the node ids in failFor.
type fakeGenerator struct {
	text    string
	failFor map[string]error
	prompts []string
	// onGenerate runs before each answer.
	onGenerate func()
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.onGenerate != nil {
		g.onGenerate()
	}
	for id, err := range g.failFor {
		if strings.Contains(prompt, "- Node ID: "+id+"\n") {
			return "", err
		}
	}
	return g.text, nil
}

type fakeDocs struct {
	excerpt string
	err     error
	urls    []string
}

func (d *fakeDocs) Excerpt(_ context.Context, url string) (string, error) {
	d.urls = append(d.urls, url)
	return d.excerpt, d.err
}

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 45, 123_000_000, time.UTC)
}

func activeNode(id, title string, pt types.PromptType) types.Node {
	return types.Node{
		NodeID:     id,
		Title:      title,
		PromptType: pt,
		Status:     types.NodeStatusActive,
		Tags:       "daily",
	}
}

// testContext returns a context carrying a logger that writes into the returned buffer.
func testContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	return logging.WithLogger(context.Background(), logging.New("debug", "text", &buf)), &buf
}
