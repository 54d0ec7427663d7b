package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/mindseye/internal/logging"
)

const runIDPrefix = "RUN-"

// FormatRunID renders seq as RUN-NNNNN (at least five digits).
func FormatRunID(seq int) string {
	return fmt.Sprintf("%s%05d", runIDPrefix, seq)
}

// ParseRunID extracts the sequence number from an ID of the form RUN-<digits>.
func ParseRunID(id string) (int, bool) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(id), runIDPrefix)
	if !ok || digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxRunSeq returns the highest sequence among ids, ignoring IDs that do not parse.
func MaxRunSeq(ids []string) int {
	highest := 0
	for _, id := range ids {
		if n, ok := ParseRunID(id); ok && n > highest {
			highest = n
		}
	}
	return highest
}

// runCounter allocates run IDs, continuing from the highest ID already in the ledger.
type runCounter struct {
	last   int
	seeded bool
}

func (c *runCounter) next() string {
	c.last++
	return FormatRunID(c.last)
}

// ensureSeeded reads the existing run IDs once per Orchestrator.
func (o *Orchestrator) ensureSeeded(ctx context.Context) error {
	if o.counter.seeded {
		return nil
	}

	ids, err := o.ledger.FetchRunIDs(ctx)
	if err != nil {
		return err
	}

	o.counter.last = MaxRunSeq(ids)
	o.counter.seeded = true
	logging.FromContext(ctx).Debug("seeded run counter",
		"existing_runs", len(ids), "last_run_id", FormatRunID(o.counter.last))
	return nil
}
