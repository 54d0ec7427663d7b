// Package prompts holds the fixed text fragments node prompts are assembled from.
// The fragments live in node.json, embedded at compile time.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
)

//go:embed node.json
var nodeJSON []byte

// Key names one fragment in node.json.
type Key string

const (
	Persona                        Key = "persona"
	MetadataHeader                 Key = "metadata-header"
	ResponseDirective              Key = "response-directive"
	InstructionWorkspaceAutomation Key = "instruction-workspace-automation"
	InstructionDevlog              Key = "instruction-devlog"
	InstructionAnalysis            Key = "instruction-analysis"
	DocExcerptHeader               Key = "doc-excerpt-header"
	Closing                        Key = "closing"
)

// Keys lists every fragment a node prompt may use.
var Keys = []Key{
	Persona,
	MetadataHeader,
	ResponseDirective,
	InstructionWorkspaceAutomation,
	InstructionDevlog,
	InstructionAnalysis,
	DocExcerptHeader,
	Closing,
}

var loadFragments = sync.OnceValues(func() (map[Key]string, error) {
	return parseFragments(nodeJSON)
})

// parseFragments decodes a fragment file and checks that every Key has text.
func parseFragments(data []byte) (map[Key]string, error) {
	var fragments map[Key]string
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("failed to parse prompt fragments: %w", err)
	}
	for _, key := range Keys {
		if fragments[key] == "" {
			return nil, fmt.Errorf("prompt fragment %q is missing or empty", key)
		}
	}
	return fragments, nil
}

// Fragment returns the text stored under key.
func Fragment(key Key) (string, error) {
	fragments, err := loadFragments()
	if err != nil {
		return "", err
	}
	text, ok := fragments[key]
	if !ok {
		return "", fmt.Errorf("prompt fragment %q not found", key)
	}
	return text, nil
}

// MustFragment is Fragment for keys known at compile time. It panics on a broken
// fragment file, which can only come from a bad build.
func MustFragment(key Key) string {
	text, err := Fragment(key)
	if err != nil {
		panic(err)
	}
	return text
}
