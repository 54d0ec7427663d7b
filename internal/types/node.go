// Package types provides type definitions for the records exchanged between the ledger,
// the orchestrator and the CLI.
package types

// NodeStatusActive marks a node that batch runs should pick up.
const NodeStatusActive = "active"

// PromptType is the categorical tag that drives prompt framing.
type PromptType string

// Known prompt types. Any other value is valid and receives no bespoke instruction.
const (
	PromptTypeWorkspaceAutomation PromptType = "workspace_automation"
	PromptTypeDevlog              PromptType = "devlog"
	PromptTypeAnalysis            PromptType = "analysis"
)

// Node describes a unit of work read from the ledger's nodes table.
// Empty ParentNodeID, DocURL and Tags mean the value is absent.
type Node struct {
	NodeID       string     `json:"node_id"`
	ParentNodeID string     `json:"parent_node_id,omitempty"`
	Title        string     `json:"title"`
	PromptType   PromptType `json:"prompt_type"`
	DocURL       string     `json:"doc_url,omitempty"`
	Status       string     `json:"status"`
	Tags         string     `json:"tags,omitempty"`
	CreatedAt    string     `json:"created_at"`
	UpdatedAt    string     `json:"updated_at"`
}

// IsActive reports whether the node is eligible for batch execution.
func (n Node) IsActive() bool {
	return n.Status == NodeStatusActive
}
