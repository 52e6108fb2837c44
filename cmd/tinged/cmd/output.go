package cmd

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// jsonOutput decides between machine and human output. "auto" renders
// text on a terminal and JSON when piped.
func jsonOutput(w io.Writer, format string) bool {
	switch format {
	case "json":
		return true
	case "text":
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}
