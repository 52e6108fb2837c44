// Package main provides the entry point for the tinged CLI.
package main

import (
	"os"

	"github.com/tinge-ai/retrieval/cmd/tinged/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCode(err))
	}
}
