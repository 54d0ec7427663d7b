package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <NODE_ID>",
	Short: "Print the prompt a node would send",
	Long:  "Build the prompt for the given node exactly as run-node would, print it, and stop. Nothing is generated or recorded.",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

func runPrompt(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	prompt, found, err := a.orchestrator.PreviewPrompt(a.ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("node not found: %s", args[0])
	}

	if jsonOutput() {
		return a.printer.PrintJSON(map[string]string{"node_id": args[0], "prompt": prompt})
	}
	a.printer.PrintPrompt(prompt)
	return nil
}
