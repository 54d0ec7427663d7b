// Package config provides configuration loading and validation for the CLI.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/mindseye/internal/logging"
	"gopkg.in/yaml.v3"
)

// Ledger backends.
const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// DefaultPath is the config file picked up when no --config flag is given.
var DefaultPath = filepath.Join("config", "config.json")

// Config holds every setting the orchestrator and its gateways need.
// File keys use the json/yaml tag names; environment variables are listed in env.go.
type Config struct {
	// Ledger
	LedgerBackend     string `json:"ledger_backend,omitempty" yaml:"ledger_backend,omitempty" validate:"required,oneof=sheets postgres sqlite"`
	GoogleProjectID   string `json:"google_project_id,omitempty" yaml:"google_project_id,omitempty"`
	GoogleClientEmail string `json:"google_client_email,omitempty" yaml:"google_client_email,omitempty" validate:"required_if=LedgerBackend sheets"`
	GooglePrivateKey  string `json:"google_private_key,omitempty" yaml:"google_private_key,omitempty" validate:"required_if=LedgerBackend sheets"`
	LedgerSheetID     string `json:"ledger_sheet_id,omitempty" yaml:"ledger_sheet_id,omitempty" validate:"required_if=LedgerBackend sheets"`
	NodesRange        string `json:"nodes_range,omitempty" yaml:"nodes_range,omitempty" validate:"required_if=LedgerBackend sheets"`
	RunsRange         string `json:"runs_range,omitempty" yaml:"runs_range,omitempty" validate:"required_if=LedgerBackend sheets"`
	DatabaseURL       string `json:"database_url,omitempty" yaml:"database_url,omitempty" validate:"required_if=LedgerBackend postgres"`
	SQLitePath        string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" validate:"required_if=LedgerBackend sqlite"`

	// Generation
	GeminiModelID     string   `json:"gemini_model_id,omitempty" yaml:"gemini_model_id,omitempty" validate:"required"`
	GeminiAPIKey      string   `json:"gemini_api_key,omitempty" yaml:"gemini_api_key,omitempty" validate:"required"`
	GeminiTemperature *float32 `json:"gemini_temperature,omitempty" yaml:"gemini_temperature,omitempty" validate:"omitempty,gte=0,lte=2"`

	// Behavior
	DefaultRunContext string `json:"default_run_context,omitempty" yaml:"default_run_context,omitempty"`
	FetchDocs         bool   `json:"fetch_docs,omitempty" yaml:"fetch_docs,omitempty"`
	UseBrowser        bool   `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`
	LogLevel          string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	LogFormat         string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`
}

// Defaults returns the built-in values used when neither the file nor the
// environment sets a key.
func Defaults() Config {
	return Config{
		LedgerBackend:     BackendSheets,
		NodesRange:        "nodes!A:I",
		RunsRange:         "runs!A:I",
		GeminiModelID:     "gemini-1.5-pro",
		DefaultRunContext: "cli",
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load assembles configuration from defaults, a config file and the environment.
// An explicit path must load cleanly. With an empty path, DefaultPath is used when it
// exists and a broken default file is logged and skipped.
func Load(ctx context.Context, path string) (*Config, error) {
	var fileCfg Config

	switch {
	case path != "":
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fileCfg = *loaded
	default:
		if _, err := os.Stat(DefaultPath); err == nil {
			loaded, err := LoadFile(DefaultPath)
			if err != nil {
				logging.FromContext(ctx).Warn("ignoring unreadable default config file",
					"path", DefaultPath, "error", err)
			} else {
				fileCfg = *loaded
			}
		}
	}

	cfg := fileCfg.MergeWithDefaults(Defaults())
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	cfg.GooglePrivateKey = NormalizePrivateKey(cfg.GooglePrivateKey)

	return &cfg, nil
}

// LoadFile loads configuration from a JSON or YAML file.
// Legacy camelCase keys are renamed, then the content is checked against the
// embedded schema before it is decoded.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, &FileError{Message: "config path is empty"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Message: "failed to read config file", Cause: err}
	}

	jsonData := data
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		jsonData, err = yamlToJSON(data)
		if err != nil {
			return nil, &FileError{Path: path, Message: "failed to parse config YAML", Cause: err}
		}
	default:
		if !json.Valid(data) {
			return nil, &FileError{Path: path, Message: "failed to parse config JSON"}
		}
	}

	jsonData, err = normalizeKeys(jsonData)
	if err != nil {
		return nil, &FileError{Path: path, Message: "conflicting config keys", Cause: err}
	}

	if err := validateSchema(jsonData); err != nil {
		return nil, &FileError{Path: path, Message: "config does not match schema", Cause: err}
	}

	var cfg Config
	if err := json.Unmarshal(jsonData, &cfg); err != nil {
		return nil, &FileError{Path: path, Message: "failed to decode config", Cause: err}
	}

	return &cfg, nil
}

func yamlToJSON(data []byte) ([]byte, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return json.Marshal(raw)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&result.LedgerBackend, defaults.LedgerBackend)
	fill(&result.GoogleProjectID, defaults.GoogleProjectID)
	fill(&result.GoogleClientEmail, defaults.GoogleClientEmail)
	fill(&result.GooglePrivateKey, defaults.GooglePrivateKey)
	fill(&result.LedgerSheetID, defaults.LedgerSheetID)
	fill(&result.NodesRange, defaults.NodesRange)
	fill(&result.RunsRange, defaults.RunsRange)
	fill(&result.DatabaseURL, defaults.DatabaseURL)
	fill(&result.SQLitePath, defaults.SQLitePath)
	fill(&result.GeminiModelID, defaults.GeminiModelID)
	fill(&result.GeminiAPIKey, defaults.GeminiAPIKey)
	fill(&result.DefaultRunContext, defaults.DefaultRunContext)
	fill(&result.LogLevel, defaults.LogLevel)
	fill(&result.LogFormat, defaults.LogFormat)

	if result.GeminiTemperature == nil {
		result.GeminiTemperature = defaults.GeminiTemperature
	}

	// Bool fields: cannot distinguish unset from false, so a true default wins
	result.FetchDocs = result.FetchDocs || defaults.FetchDocs
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser

	return result
}

// NormalizePrivateKey turns literal "\n" sequences into newlines, which is how
// PEM keys usually survive being placed in a single-line environment variable.
func NormalizePrivateKey(key string) string {
	return strings.ReplaceAll(key, `\n`, "\n")
}

// Redacted returns a copy safe to print: secrets are masked and the database
// password is stripped.
func (c Config) Redacted() Config {
	out := c
	if out.GooglePrivateKey != "" {
		out.GooglePrivateKey = "[redacted]"
	}
	if out.GeminiAPIKey != "" {
		out.GeminiAPIKey = maskSecret(out.GeminiAPIKey)
	}
	if out.DatabaseURL != "" {
		if u, err := url.Parse(out.DatabaseURL); err == nil {
			out.DatabaseURL = u.Redacted()
		} else {
			out.DatabaseURL = "[redacted]"
		}
	}
	return out
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// FileError reports a config file that could not be read, parsed or validated.
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("config file %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	if e.Path == "" {
		return fmt.Sprintf("config: %s", e.Message)
	}
	return fmt.Sprintf("config file %s: %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}
