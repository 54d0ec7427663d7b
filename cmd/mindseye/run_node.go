package main

import (
	"github.com/spf13/cobra"
)

var runNodeCmd = &cobra.Command{
	Use:   "run-node <NODE_ID>",
	Short: "Run a single prompt node and record the run",
	Long:  "Fetch the node with the given ID from the ledger, send its prompt to Gemini and append the resulting run to the ledger. An unknown node ID is logged and nothing is recorded.",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunNode,
}

var runNodeContext string

func init() {
	runNodeCmd.Flags().StringVar(&runNodeContext, "context", "", "Run context label (defaults to default_run_context)")

	rootCmd.AddCommand(runNodeCmd)
}

func runRunNode(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.orchestrator.RunNode(a.ctx, args[0], runNodeContext)
	if err != nil {
		return err
	}
	if run == nil {
		return nil
	}

	if jsonOutput() {
		return a.printer.PrintJSON(run)
	}
	a.printer.PrintRun(run)
	return nil
}
