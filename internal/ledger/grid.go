package ledger

import (
	"fmt"
	"strings"

	"github.com/jonathan/mindseye/internal/types"
)

// Grid is a header row followed by data rows. Rows may be ragged.
type Grid [][]string

// GridFromValues converts loosely typed cells (as returned by the Sheets API or a
// SQL driver) into a Grid.
func GridFromValues(values [][]any) Grid {
	grid := make(Grid, 0, len(values))
	for _, row := range values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = cellString(v)
		}
		grid = append(grid, cells)
	}
	return grid
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

// columnIndex resolves header names to positions. Unknown names map to -1.
type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

func (c columnIndex) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// DecodeNodes maps grid rows to nodes by header name. Rows with an empty node_id
// are dropped.
func DecodeNodes(grid Grid) []types.Node {
	if len(grid) <= 1 {
		return nil
	}

	cols := newColumnIndex(grid[0])
	nodes := make([]types.Node, 0, len(grid)-1)
	for _, row := range grid[1:] {
		node := types.Node{
			NodeID:       cols.get(row, "node_id"),
			ParentNodeID: cols.get(row, "parent_node_id"),
			Title:        cols.get(row, "title"),
			PromptType:   types.PromptType(cols.get(row, "prompt_type")),
			DocURL:       cols.get(row, "doc_url"),
			Status:       cols.get(row, "status"),
			Tags:         cols.get(row, "tags"),
			CreatedAt:    cols.get(row, "created_at"),
			UpdatedAt:    cols.get(row, "updated_at"),
		}
		if node.NodeID == "" {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// ColumnValues returns the values of the named column for every data row. When the
// header does not name the column, the first column of every row is returned,
// header row included.
func ColumnValues(grid Grid, name string) []string {
	if len(grid) == 0 {
		return nil
	}

	cols := newColumnIndex(grid[0])
	if _, ok := cols[name]; !ok {
		values := make([]string, 0, len(grid))
		for _, row := range grid {
			if len(row) > 0 {
				values = append(values, row[0])
			}
		}
		return values
	}

	values := make([]string, 0, len(grid)-1)
	for _, row := range grid[1:] {
		values = append(values, cols.get(row, name))
	}
	return values
}

func findNode(nodes []types.Node, id string) *types.Node {
	for i := range nodes {
		if nodes[i].NodeID == id {
			node := nodes[i]
			return &node
		}
	}
	return nil
}

func selectActive(nodes []types.Node, limit int) []types.Node {
	active := make([]types.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.IsActive() {
			active = append(active, n)
		}
	}
	if limit > 0 && len(active) > limit {
		active = active[:limit]
	}
	return active
}
