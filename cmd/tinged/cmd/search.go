package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinge-ai/retrieval/internal/search"
)

type searchOptions struct {
	queryEN  string
	language string
	topK     int
	format   string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed corpus",
		Long: `Search runs the query through the lexical pathway and, when the
dense pathway is available, the vector pathway; branch results are
merged with Reciprocal Rank Fusion.

A pre-translated variant widens recall across languages:

  tinged search "arquitectura de Barcelona" --query-en "Barcelona architecture"
  tinged search "Gothic Quarter" --language en --top-k 3
  tinged search "city beaches" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringVar(&opts.queryEN, "query-en", "", "Pre-translated English query variant")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Filter results by language code")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "n", 0, "Maximum results (defaults to config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "auto", "Output format: auto, text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	resp, err := app.service.Search(cmd.Context(), &search.SearchRequest{
		QueryOriginal: query,
		QueryEN:       opts.queryEN,
		Language:      opts.language,
		TopK:          opts.topK,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput(out, opts.format) {
		return json.NewEncoder(out).Encode(resp)
	}

	if len(resp.Results) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}
	fmt.Fprintf(out, "%d result(s) from %s\n\n", len(resp.Results), resp.IndexName)
	for i, r := range resp.Results {
		fmt.Fprintf(out, "%2d. %s (%.4f)\n", i+1, r.Title, r.Score)
		fmt.Fprintf(out, "    %s [%s] %s\n", r.DocID, r.Language, r.URL)
		fmt.Fprintf(out, "    %s\n\n", r.Snippet)
	}
	return nil
}
