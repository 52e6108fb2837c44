package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinge-ai/retrieval/pkg/version"
)

func newVersionCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Info()
			out := cmd.OutOrStdout()
			if jsonOutput(out, format) {
				return json.NewEncoder(out).Encode(info)
			}
			fmt.Fprintln(out, info.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", "Output format: auto, text, json")
	return cmd
}
