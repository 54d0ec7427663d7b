package main

import (
	"fmt"
	"strconv"

	"github.com/jonathan/mindseye/internal/config"
	"github.com/jonathan/mindseye/internal/observability"
	"github.com/spf13/cobra"
)

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate configuration and print a redacted summary",
	Long:  "Load configuration from the config file, environment and flags, report every missing or invalid key, and print the resolved values with secrets masked.",
	Args:  cobra.NoArgs,
	RunE:  runCheckConfig,
}

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

func runCheckConfig(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	redacted := cfg.Redacted()
	printer := observability.NewPrinter(cmd.OutOrStdout())
	if jsonOutput() {
		return printer.PrintJSON(redacted)
	}
	printer.PrintSettings("CONFIGURATION OK", configSettings(redacted))
	return nil
}

func configSettings(cfg config.Config) []observability.Setting {
	settings := []observability.Setting{
		{Name: "ledger_backend", Value: cfg.LedgerBackend},
	}

	switch cfg.LedgerBackend {
	case config.BackendSheets:
		settings = append(settings,
			observability.Setting{Name: "google_project_id", Value: cfg.GoogleProjectID},
			observability.Setting{Name: "google_client_email", Value: cfg.GoogleClientEmail},
			observability.Setting{Name: "google_private_key", Value: cfg.GooglePrivateKey},
			observability.Setting{Name: "ledger_sheet_id", Value: cfg.LedgerSheetID},
			observability.Setting{Name: "nodes_range", Value: cfg.NodesRange},
			observability.Setting{Name: "runs_range", Value: cfg.RunsRange},
		)
	case config.BackendPostgres:
		settings = append(settings, observability.Setting{Name: "database_url", Value: cfg.DatabaseURL})
	case config.BackendSQLite:
		settings = append(settings, observability.Setting{Name: "sqlite_path", Value: cfg.SQLitePath})
	}

	var temperature string
	if cfg.GeminiTemperature != nil {
		temperature = fmt.Sprintf("%g", *cfg.GeminiTemperature)
	}

	return append(settings,
		observability.Setting{Name: "gemini_model_id", Value: cfg.GeminiModelID},
		observability.Setting{Name: "gemini_api_key", Value: cfg.GeminiAPIKey},
		observability.Setting{Name: "gemini_temperature", Value: temperature},
		observability.Setting{Name: "default_run_context", Value: cfg.DefaultRunContext},
		observability.Setting{Name: "fetch_docs", Value: strconv.FormatBool(cfg.FetchDocs)},
		observability.Setting{Name: "use_browser", Value: strconv.FormatBool(cfg.UseBrowser)},
		observability.Setting{Name: "log_level", Value: cfg.LogLevel},
		observability.Setting{Name: "log_format", Value: cfg.LogFormat},
	)
}
