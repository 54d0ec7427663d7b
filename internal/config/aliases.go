package config

import (
	"encoding/json"
	"fmt"
)

// legacyKeys maps the camelCase keys of older config.json files to their current names.
var legacyKeys = []struct{ legacy, current string }{
	{"googleProjectId", "google_project_id"},
	{"googleClientEmail", "google_client_email"},
	{"googlePrivateKey", "google_private_key"},
	{"ledgerSheetId", "ledger_sheet_id"},
	{"nodesRange", "nodes_range"},
	{"runsRange", "runs_range"},
	{"geminiModelId", "gemini_model_id"},
	{"geminiApiKey", "gemini_api_key"},
	{"defaultRunContext", "default_run_context"},
}

// normalizeKeys renames legacy keys in a JSON object document. Documents that are
// not objects are returned as-is for the schema check to reject.
func normalizeKeys(document []byte) ([]byte, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(document, &raw); err != nil || raw == nil {
		return document, nil
	}

	renamed := false
	for _, k := range legacyKeys {
		value, ok := raw[k.legacy]
		if !ok {
			continue
		}
		if _, dup := raw[k.current]; dup {
			return nil, fmt.Errorf("both %q and %q are set", k.legacy, k.current)
		}
		raw[k.current] = value
		delete(raw, k.legacy)
		renamed = true
	}

	if !renamed {
		return document, nil
	}
	return json.Marshal(raw)
}
