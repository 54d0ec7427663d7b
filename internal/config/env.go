package config

import (
	"fmt"
	"strconv"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides fields with environment variables. Empty values count as unset.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return "", false
		}
		return v, true
	}

	stringVars := []struct {
		env string
		dst *string
	}{
		{"LEDGER_BACKEND", &c.LedgerBackend},
		{"GOOGLE_PROJECT_ID", &c.GoogleProjectID},
		{"GOOGLE_CLIENT_EMAIL", &c.GoogleClientEmail},
		{"GOOGLE_PRIVATE_KEY", &c.GooglePrivateKey},
		{"LEDGER_SHEET_ID", &c.LedgerSheetID},
		{"LEDGER_NODES_RANGE", &c.NodesRange},
		{"LEDGER_RUNS_RANGE", &c.RunsRange},
		{"DATABASE_URL", &c.DatabaseURL},
		{"LEDGER_SQLITE_PATH", &c.SQLitePath},
		{"GEMINI_MODEL_ID", &c.GeminiModelID},
		{"GEMINI_API_KEY", &c.GeminiAPIKey},
		{"DEFAULT_RUN_CONTEXT", &c.DefaultRunContext},
		{"LOG_LEVEL", &c.LogLevel},
		{"LOG_FORMAT", &c.LogFormat},
	}
	for _, s := range stringVars {
		if v, ok := get(s.env); ok {
			*s.dst = v
		}
	}

	bools := []struct {
		env string
		dst *bool
	}{
		{"FETCH_DOCS", &c.FetchDocs},
		{"USE_BROWSER", &c.UseBrowser},
	}
	for _, b := range bools {
		v, ok := get(b.env)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", b.env, err)
		}
		*b.dst = parsed
	}

	if v, ok := get("GEMINI_TEMPERATURE"); ok {
		parsed, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("invalid GEMINI_TEMPERATURE: %w", err)
		}
		temp := float32(parsed)
		c.GeminiTemperature = &temp
	}

	return nil
}
