// Package main provides the mindseye command line: it runs ledger nodes against
// Gemini and records every run back into the ledger.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	verbose       bool
	outputFormat  string
	backendOption string
)

var rootCmd = &cobra.Command{
	Use:               "mindseye",
	Short:             "MindsEye prompt-node orchestrator",
	Long:              "MindsEye reads prompt nodes from a tabular ledger, sends a prompt built from each node to Gemini, and appends the outcome to the ledger's runs table.",
	SilenceErrors:     true,
	PersistentPreRunE: validateGlobalFlags,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file (default config/config.json when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "Output format: text or json")
	rootCmd.PersistentFlags().StringVar(&backendOption, "backend", "", "Ledger backend override: sheets, postgres or sqlite")
}

func validateGlobalFlags(cmd *cobra.Command, _ []string) error {
	switch outputFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid --format %q (expected text or json)", outputFormat)
	}
	// Arguments are valid by now; runtime failures should not print usage.
	cmd.SilenceUsage = true
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
