// Package observability renders runs and batch summaries for the CLI.
package observability

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/mindseye/internal/orchestrator"
	"github.com/jonathan/mindseye/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(clip(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRun outputs a summary of a recorded run.
func (p *Printer) PrintRun(run *types.Run) {
	if run == nil {
		return
	}
	p.printBox("RUN "+run.RunID, runSummary(run))
}

// PrintBatch outputs the runs produced by a batch and the nodes that failed, taken
// from err when it is an *orchestrator.BatchError.
func (p *Printer) PrintBatch(runs []types.Run, err error) {
	var sb strings.Builder

	var batchErr *orchestrator.BatchError
	hasFailures := errors.As(err, &batchErr) && len(batchErr.Failures) > 0

	if len(runs) == 0 && !hasFailures {
		p.printBox("ACTIVE NODES", "No active nodes to run.")
		return
	}

	sb.WriteString(fmt.Sprintf("Completed: %d\n", len(runs)))
	if hasFailures {
		sb.WriteString(fmt.Sprintf("Failed:    %d\n", len(batchErr.Failures)))
	}

	if len(runs) > 0 {
		sb.WriteString("\n")
		count := min(len(runs), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("✓ %s  %s\n", runs[i].RunID, runs[i].NodeID))
		}
		if len(runs) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more runs\n", len(runs)-maxItemsToShow))
		}
	}

	if hasFailures {
		sb.WriteString("\n")
		for _, f := range batchErr.Failures {
			sb.WriteString(fmt.Sprintf("⚠ %s\n", f.NodeID))
			sb.WriteString(fmt.Sprintf("  %v\n", f.Err))
		}
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPrompt outputs a prompt verbatim, without boxing, so it can be piped.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPrompt(prompt string) {
	fmt.Fprintln(p.out, prompt)
}

// Setting is one labelled line of PrintSettings output.
type Setting struct {
	Name  string
	Value string
}

// PrintSettings outputs labelled values, typically a redacted configuration.
func (p *Printer) PrintSettings(title string, settings []Setting) {
	width := 0
	for _, s := range settings {
		width = max(width, utf8.RuneCountInString(s.Name))
	}

	var sb strings.Builder
	for _, s := range settings {
		value := s.Value
		if value == "" {
			value = "(unset)"
		}
		sb.WriteString(fmt.Sprintf("%-*s  %s\n", width, s.Name, value))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runSummary(run *types.Run) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Node:     %s\n", run.NodeID))
	sb.WriteString(fmt.Sprintf("Model:    %s\n", run.Model))
	sb.WriteString(fmt.Sprintf("Context:  %s\n", run.RunContext))
	sb.WriteString(fmt.Sprintf("Input:    %s\n", run.InputRef))
	sb.WriteString(fmt.Sprintf("Time:     %s\n", run.RunTime))
	sb.WriteString("\n")
	sb.WriteString("Output:\n")
	sb.WriteString(run.OutputRef)
	return sb.String()
}

// clip shortens s to at most width runes, ending in "..." when cut.
func clip(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// pad right-pads s with spaces to the box's inner width, counting runes.
func pad(s string) string {
	s = clip(s, boxWidth-4)
	return s + strings.Repeat(" ", boxWidth-4-utf8.RuneCountInString(s))
}
