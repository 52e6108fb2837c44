package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tinge-ai/retrieval/internal/config"
	"github.com/tinge-ai/retrieval/internal/embed"
	rerrors "github.com/tinge-ai/retrieval/internal/errors"
	"github.com/tinge-ai/retrieval/internal/index"
	"github.com/tinge-ai/retrieval/internal/search"
	"github.com/tinge-ai/retrieval/internal/store"
)

// Store filenames under the data directory.
const (
	bm25Dir     = "bm25.bleve"
	vectorFile  = "vectors.hnsw"
	catalogFile = "catalog.db"
)

// app holds the long-lived handles one command invocation works with.
// Handles are built once and shared read-only; only the one-time dense
// downgrade at construction mutates anything.
type app struct {
	cfg *config.Config

	lexical  *store.BleveBM25Index
	vector   *store.HNSWIndex
	catalog  *store.SQLiteCatalog
	embedder embed.Embedder

	service     *search.Service
	coordinator *index.Coordinator
}

// openApp wires stores, embedder, and the search/index layers. A failed
// dense setup logs and leaves the capability absent; only lexical or
// catalog failures abort.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	bm25Path, vectorPath, catalogPath := storePaths(cfg.Index.DataDir)
	if cfg.Index.DataDir != "" {
		if err := os.MkdirAll(cfg.Index.DataDir, 0o755); err != nil {
			return nil, rerrors.New(rerrors.ErrCodeIndexStorage, "create data directory", err)
		}
	}

	lexical, err := store.NewBleveBM25Index(bm25Path)
	if err != nil {
		return nil, rerrors.New(rerrors.ErrCodeStoreUnavailable, "open lexical index", err)
	}
	a.lexical = lexical

	catalog, err := store.NewSQLiteCatalog(catalogPath)
	if err != nil {
		a.Close()
		return nil, rerrors.New(rerrors.ErrCodeStoreUnavailable, "open chunk catalog", err)
	}
	a.catalog = catalog

	if cfg.Embeddings.Enabled {
		a.setupDense(ctx, vectorPath)
	}

	searchCfg := &cfg.Search
	lexRunner := search.NewBranchRunner(
		search.NewPathway("lexical", search.NewLexicalRetriever(a.lexical)),
		searchCfg.BranchTopK, searchCfg.MaxTopK, false)

	var denseRetriever search.Retriever
	if a.vector != nil && a.embedder != nil {
		denseRetriever = search.NewDenseRetriever(a.vector, a.embedder)
	}
	denseRunner := search.NewBranchRunner(
		search.NewPathway("dense", denseRetriever),
		searchCfg.DenseTopK, searchCfg.MaxTopK, true)

	a.service = search.NewService(searchCfg, cfg.Index.Name, lexRunner, denseRunner, a.catalog)
	// Convert the concrete handle only when present so the coordinator's
	// nil-interface guard works; a nil *HNSWIndex in the interface is non-nil.
	var vector store.VectorIndex
	if a.vector != nil {
		vector = a.vector
	}
	a.coordinator = index.NewCoordinator(cfg.Index.Name, a.lexical, vector, a.catalog, a.embedder)
	return a, nil
}

// setupDense builds the embedder and vector index. Any failure here is
// terminal for the process lifetime: the dense capability stays absent,
// the service runs lexical-only.
func (a *app) setupDense(ctx context.Context, vectorPath string) {
	embedder, err := embed.New(ctx, embed.Config{
		Provider:   a.cfg.Embeddings.Provider,
		Model:      a.cfg.Embeddings.Model,
		Dimensions: a.cfg.Embeddings.Dimensions,
		Host:       a.cfg.Embeddings.OllamaHost,
		BatchSize:  a.cfg.Embeddings.BatchSize,
		CacheSize:  a.cfg.Embeddings.CacheSize,
	})
	if err != nil {
		slog.Warn("embedder unavailable, dense pathway disabled", "error", err)
		return
	}

	vector, err := store.NewHNSWIndex(store.VectorConfig{Dimensions: embedder.Dimensions()})
	if err != nil {
		slog.Warn("vector index unavailable, dense pathway disabled", "error", err)
		embedder.Close()
		return
	}
	if vectorPath != "" {
		if _, statErr := os.Stat(vectorPath); statErr == nil {
			if err := vector.Load(vectorPath); err != nil {
				slog.Warn("vector index load failed, starting empty",
					"path", vectorPath, "error", err)
			}
		}
	}

	a.embedder = embedder
	a.vector = vector
}

// saveVector persists the vector index after an indexing run.
func (a *app) saveVector() {
	if a.vector == nil || a.cfg.Index.DataDir == "" {
		return
	}
	_, path, _ := storePaths(a.cfg.Index.DataDir)
	if err := a.vector.Save(path); err != nil {
		slog.Warn("vector index save failed", "path", path, "error", err)
	}
}

func (a *app) Close() {
	if a.embedder != nil {
		a.embedder.Close()
	}
	if a.vector != nil {
		a.vector.Close()
	}
	if a.catalog != nil {
		a.catalog.Close()
	}
	if a.lexical != nil {
		a.lexical.Close()
	}
}

// storePaths resolves store locations; an empty data dir means fully
// in-memory stores.
func storePaths(dataDir string) (bm25, vector, catalog string) {
	if dataDir == "" {
		return "", "", ""
	}
	return filepath.Join(dataDir, bm25Dir),
		filepath.Join(dataDir, vectorFile),
		filepath.Join(dataDir, catalogFile)
}
