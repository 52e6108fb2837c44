package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report store reachability",
		Long: `Health pings the chunk catalog and reports the index state.
An unreachable store is a reported condition, not a command failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Output format: auto, text, json")
	return cmd
}

func runHealth(cmd *cobra.Command, format string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	status := app.service.Health(cmd.Context())

	out := cmd.OutOrStdout()
	if jsonOutput(out, format) {
		return json.NewEncoder(out).Encode(status)
	}

	fmt.Fprintf(out, "status:  %s\n", status.Status)
	fmt.Fprintf(out, "index:   %s\n", status.IndexName)
	fmt.Fprintf(out, "chunks:  %d\n", status.ChunkCount)
	fmt.Fprintf(out, "dense:   %v\n", status.DenseReady)
	if status.Detail != "" {
		fmt.Fprintf(out, "detail:  %s\n", status.Detail)
	}
	return nil
}
