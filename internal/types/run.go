package types

// Run records one execution of a node against the generation backend.
// Score and Notes are always nil when the run is created; they are reserved for
// annotation made outside this tool.
type Run struct {
	RunID      string   `json:"run_id"`
	NodeID     string   `json:"node_id"`
	Model      string   `json:"model"`
	RunContext string   `json:"run_context"`
	InputRef   string   `json:"input_ref"`
	OutputRef  string   `json:"output_ref"`
	Score      *float64 `json:"score"`
	Notes      *string  `json:"notes"`
	RunTime    string   `json:"run_time"`
}

// RunColumns is the column order used when a run is appended to the ledger.
var RunColumns = []string{
	"run_id",
	"node_id",
	"model",
	"run_context",
	"input_ref",
	"output_ref",
	"score",
	"notes",
	"run_time",
}
