package orchestrator

import (
	"sort"
	"strings"

	"github.com/jonathan/mindseye/internal/prompts"
	"github.com/jonathan/mindseye/internal/types"
)

// promptTypeInstructions maps each recognized prompt type to the key of its
// instruction fragment. Types missing from the table get no instruction.
var promptTypeInstructions = map[types.PromptType]prompts.Key{
	types.PromptTypeWorkspaceAutomation: prompts.InstructionWorkspaceAutomation,
	types.PromptTypeDevlog:              prompts.InstructionDevlog,
	types.PromptTypeAnalysis:            prompts.InstructionAnalysis,
}

// KnownPromptTypes lists the prompt types that receive a bespoke instruction, sorted.
func KnownPromptTypes() []types.PromptType {
	known := make([]types.PromptType, 0, len(promptTypeInstructions))
	for pt := range promptTypeInstructions {
		known = append(known, pt)
	}
	sort.Slice(known, func(i, j int) bool { return known[i] < known[j] })
	return known
}

// InstructionFor returns the instruction line for pt, if pt is recognized.
func InstructionFor(pt types.PromptType) (string, bool) {
	key, ok := promptTypeInstructions[pt]
	if !ok {
		return "", false
	}
	return prompts.MustFragment(key), true
}

// BuildPromptFromNode assembles the prompt for node. It has no side effects.
func BuildPromptFromNode(node types.Node) string {
	return buildPrompt(node, "")
}

// buildPrompt assembles the prompt, optionally embedding a document excerpt.
// Empty lines are dropped before joining, which is how optional lines disappear.
func buildPrompt(node types.Node, docExcerpt string) string {
	var docLine string
	if node.DocURL != "" {
		docLine = "- Doc URL: " + node.DocURL
	}

	instruction, _ := InstructionFor(node.PromptType)

	var excerptHeader string
	if docExcerpt != "" {
		excerptHeader = prompts.MustFragment(prompts.DocExcerptHeader)
	}

	lines := []string{
		prompts.MustFragment(prompts.Persona),
		"",
		prompts.MustFragment(prompts.MetadataHeader),
		"- Node ID: " + node.NodeID,
		"- Title: " + node.Title,
		"- Prompt type: " + string(node.PromptType),
		"- Tags: " + FormatTags(node.Tags),
		docLine,
		"",
		prompts.MustFragment(prompts.ResponseDirective),
		instruction,
		excerptHeader,
		docExcerpt,
		"",
		prompts.MustFragment(prompts.Closing),
	}

	kept := lines[:0]
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// FormatTags renders a comma-separated tag field as its trimmed pieces joined by
// ", ". An absent field renders as "none"; empty pieces are kept in place.
func FormatTags(tags string) string {
	if tags == "" {
		return "none"
	}
	pieces := strings.Split(tags, ",")
	for i, tag := range pieces {
		pieces[i] = strings.TrimSpace(tag)
	}
	return strings.Join(pieces, ", ")
}
