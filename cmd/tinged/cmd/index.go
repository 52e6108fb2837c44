package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinge-ai/retrieval/internal/index"
)

type indexOptions struct {
	corpus       string
	chunkSize    int
	chunkOverlap int
	recreate     bool
	format       string
}

func newIndexCmd() *cobra.Command {
	var opts indexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Index a corpus into the lexical and vector stores",
		Long: `Index loads a newline-delimited JSON corpus, splits every document
into overlapping chunks, and bulk-writes them to the BM25 index, the
chunk catalog, and (when embeddings are enabled) the vector index.

Examples:
  tinged index --corpus data/corpus.jsonl
  tinged index --corpus data/corpus.jsonl --recreate
  tinged index --chunk-size 600 --chunk-overlap 80`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.corpus, "corpus", "", "Corpus file path (defaults to config)")
	cmd.Flags().IntVar(&opts.chunkSize, "chunk-size", 0, "Chunk window in characters (defaults to config)")
	cmd.Flags().IntVar(&opts.chunkOverlap, "chunk-overlap", -1, "Overlap between chunks (defaults to config)")
	cmd.Flags().BoolVar(&opts.recreate, "recreate", false, "Drop and rebuild the index before writing")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "auto", "Output format: auto, text, json")

	return cmd
}

func runIndex(cmd *cobra.Command, opts indexOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if opts.corpus == "" {
		opts.corpus = cfg.Index.CorpusPath
	}
	if opts.chunkSize == 0 {
		opts.chunkSize = cfg.Index.ChunkSize
	}
	if opts.chunkOverlap < 0 {
		opts.chunkOverlap = cfg.Index.ChunkOverlap
	}

	app, err := openApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	summary, err := app.coordinator.IndexCorpus(cmd.Context(), index.Options{
		CorpusPath:      opts.corpus,
		ChunkSize:       opts.chunkSize,
		ChunkOverlap:    opts.chunkOverlap,
		RecreateIndex:   opts.recreate,
		WriteEmbeddings: cfg.Embeddings.WriteEmbeddings,
	})
	if err != nil {
		return err
	}
	app.saveVector()

	out := cmd.OutOrStdout()
	if jsonOutput(out, opts.format) {
		return json.NewEncoder(out).Encode(summary)
	}
	fmt.Fprintf(out, "Indexed %d documents as %d chunks into %s\n",
		summary.IndexedDocuments, summary.IndexedChunks, summary.IndexName)
	return nil
}
