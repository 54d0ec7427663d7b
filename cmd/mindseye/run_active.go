package main

import (
	"github.com/spf13/cobra"
)

var runActiveCmd = &cobra.Command{
	Use:   "run-active",
	Short: "Run every active prompt node",
	Long:  "Run all nodes whose status is active, one at a time in ledger order. Failing nodes are reported after the batch and make the command exit non-zero.",
	Args:  cobra.NoArgs,
	RunE:  runRunActive,
}

var runActiveLimit int

func init() {
	runActiveCmd.Flags().IntVar(&runActiveLimit, "limit", 0, "Maximum number of nodes to run (0 means all)")

	rootCmd.AddCommand(runActiveCmd)
}

func runRunActive(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	runs, batchErr := a.orchestrator.RunAllActive(a.ctx, runActiveLimit)
	if runs == nil && batchErr != nil {
		return batchErr
	}

	if jsonOutput() {
		if err := a.printer.PrintJSON(runs); err != nil {
			return err
		}
	} else {
		a.printer.PrintBatch(runs, batchErr)
	}

	return batchErr
}
