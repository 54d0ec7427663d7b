package orchestrator

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/mindseye/internal/types"
)

func TestBuildPromptFromNode_Golden(t *testing.T) {
	tests := []struct {
		name    string
		node    types.Node
		excerpt string
	}{
		{
			name: "devlog_without_doc",
			node: types.Node{
				NodeID:     "PET-00001",
				Title:      "Morning sync",
				PromptType: types.PromptTypeDevlog,
				Status:     types.NodeStatusActive,
				Tags:       "daily, sync",
			},
		},
		{
			name: "workspace_automation_with_doc",
			node: types.Node{
				NodeID:     "PET-00002",
				Title:      "Nightly export",
				PromptType: types.PromptTypeWorkspaceAutomation,
				DocURL:     "https://docs.example.com/export",
				Tags:       " export ,, sheets ",
			},
		},
		{
			name: "unrecognized_type_without_tags",
			node: types.Node{
				NodeID:     "PET-00003",
				Title:      "Loose idea",
				PromptType: "brainstorm",
			},
		},
		{
			name: "analysis_with_excerpt",
			node: types.Node{
				NodeID:     "PET-00004",
				Title:      "Quarterly review",
				PromptType: types.PromptTypeAnalysis,
				DocURL:     "https://docs.example.com/q3",
				Tags:       "q3",
			},
			excerpt: "Revenue grew.\nChurn fell.",
		},
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.Assert(t, tt.name, []byte(buildPrompt(tt.node, tt.excerpt)))
		})
	}
}

func TestBuildPromptFromNode_Deterministic(t *testing.T) {
	node := activeNode("PET-00010", "Same every time", types.PromptTypeAnalysis)
	assert.Equal(t, BuildPromptFromNode(node), BuildPromptFromNode(node))
}

func TestBuildPromptFromNode_DocURLLine(t *testing.T) {
	node := activeNode("PET-00011", "Docs", types.PromptTypeDevlog)
	assert.NotContains(t, BuildPromptFromNode(node), "Doc URL")

	node.DocURL = "https://example.com/doc"
	assert.Contains(t, BuildPromptFromNode(node), "\n- Doc URL: https://example.com/doc\n")
}

func TestBuildPromptFromNode_OnlyMatchingInstruction(t *testing.T) {
	for _, pt := range KnownPromptTypes() {
		t.Run(string(pt), func(t *testing.T) {
			prompt := BuildPromptFromNode(activeNode("PET-00012", "Typed", pt))
			for _, other := range KnownPromptTypes() {
				instruction, ok := InstructionFor(other)
				require.True(t, ok)
				if other == pt {
					assert.Contains(t, prompt, instruction)
				} else {
					assert.NotContains(t, prompt, instruction)
				}
			}
		})
	}
}

func TestBuildPromptFromNode_NoBlankLines(t *testing.T) {
	prompt := BuildPromptFromNode(types.Node{NodeID: "PET-00013"})
	assert.NotContains(t, prompt, "\n\n")
	assert.Contains(t, prompt, "- Title: \n")
}

func TestKnownPromptTypes(t *testing.T) {
	assert.Equal(t, []types.PromptType{
		types.PromptTypeAnalysis,
		types.PromptTypeDevlog,
		types.PromptTypeWorkspaceAutomation,
	}, KnownPromptTypes())

	_, ok := InstructionFor("brainstorm")
	assert.False(t, ok)
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "none"},
		{"solo", "solo"},
		{"a,b", "a, b"},
		{"a, b ,c", "a, b, c"},
		{" daily , sync ", "daily, sync"},
		{"a,,b", "a, , b"},
		{",", ", "},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTags(tt.in), "tags %q", tt.in)
	}
}
