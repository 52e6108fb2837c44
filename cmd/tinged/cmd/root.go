// Package cmd provides the CLI commands for tinged.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinge-ai/retrieval/internal/config"
	rerrors "github.com/tinge-ai/retrieval/internal/errors"
	"github.com/tinge-ai/retrieval/internal/logging"
	"github.com/tinge-ai/retrieval/pkg/version"
)

var (
	configPath string
	logLevel   string
)

// NewRootCmd creates the root command for the tinged CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tinged",
		Short: "Hybrid retrieval service over a chunked document corpus",
		Long: `tinged indexes a newline-delimited JSON corpus into lexical (BM25)
and optional dense vector indices, then answers queries by fusing
both pathways with Reciprocal Rank Fusion.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("tinged version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	cmd := NewRootCmd()
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// ExitCode maps an error to a process exit code: validation and config
// problems are caller mistakes, dependency problems are environment
// ones, everything else is internal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch rerrors.GetCategory(err) {
	case rerrors.CategoryValidation, rerrors.CategoryConfig:
		return 2
	case rerrors.CategoryDependency, rerrors.CategoryNetwork:
		return 3
	default:
		return 1
	}
}

// loadConfig resolves configuration for a command invocation and
// installs the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.SetupDefault(cfg.LogLevel)
	return cfg, nil
}
