package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinge-ai/retrieval/internal/embed"
	rerrors "github.com/tinge-ai/retrieval/internal/errors"
	"github.com/tinge-ai/retrieval/internal/store"
)

func writeCorpus(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func docLine(id, content string) string {
	return fmt.Sprintf(`{"id":%q,"title":"t","url":"https://example.com","source":"s","language":"en","content":%q}`, id, content)
}

type coordinatorFixture struct {
	coord   *Coordinator
	lexical store.LexicalIndex
	vector  store.VectorIndex
	catalog store.Catalog
}

func newCoordinatorFixture(t *testing.T, withEmbedder bool) *coordinatorFixture {
	t.Helper()

	lexical, err := store.NewBleveBM25Index("")
	require.NoError(t, err)
	t.Cleanup(func() { lexical.Close() })

	catalog, err := store.NewSQLiteCatalog("")
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	var vector store.VectorIndex
	var embedder embed.Embedder
	if withEmbedder {
		hnsw, err := store.NewHNSWIndex(store.VectorConfig{Dimensions: embed.StaticDimensions})
		require.NoError(t, err)
		t.Cleanup(func() { hnsw.Close() })
		vector = hnsw
		embedder = embed.NewStaticEmbedder()
	}

	return &coordinatorFixture{
		coord:   NewCoordinator("tinge_knowledge_v1", lexical, vector, catalog, embedder),
		lexical: lexical,
		vector:  vector,
		catalog: catalog,
	}
}

func TestIndexCorpus_CountsAndStores(t *testing.T) {
	fx := newCoordinatorFixture(t, false)
	path := writeCorpus(t,
		docLine("doc-1", strings.Repeat("alpha bravo charlie delta ", 40)),
		docLine("doc-2", "short single chunk document"),
	)

	summary, err := fx.coord.IndexCorpus(context.Background(), Options{
		CorpusPath:   path,
		ChunkSize:    300,
		ChunkOverlap: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, summary.IndexedDocuments)
	assert.Greater(t, summary.IndexedChunks, 2)
	assert.Equal(t, "tinge_knowledge_v1", summary.IndexName)

	count, err := fx.lexical.Count()
	require.NoError(t, err)
	assert.Equal(t, summary.IndexedChunks, count)

	stored, err := fx.catalog.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, summary.IndexedChunks, stored)
}

func TestIndexCorpus_WritesEmbeddings(t *testing.T) {
	fx := newCoordinatorFixture(t, true)
	path := writeCorpus(t, docLine("doc-1", "vector indexed content about harbors"))

	summary, err := fx.coord.IndexCorpus(context.Background(), Options{
		CorpusPath:      path,
		ChunkSize:       300,
		ChunkOverlap:    50,
		WriteEmbeddings: true,
	})
	require.NoError(t, err)
	assert.Equal(t, summary.IndexedChunks, fx.vector.Count())
}

func TestIndexCorpus_EmbeddingsOffLeavesVectorEmpty(t *testing.T) {
	fx := newCoordinatorFixture(t, true)
	path := writeCorpus(t, docLine("doc-1", "lexical only content"))

	_, err := fx.coord.IndexCorpus(context.Background(), Options{
		CorpusPath:   path,
		ChunkSize:    300,
		ChunkOverlap: 50,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, fx.vector.Count())
}

func TestIndexCorpus_RecreateRemovesStaleChunks(t *testing.T) {
	fx := newCoordinatorFixture(t, false)
	ctx := context.Background()

	first := writeCorpus(t, docLine("doc-old", "zanzibar spice trade history"))
	_, err := fx.coord.IndexCorpus(ctx, Options{
		CorpusPath: first, ChunkSize: 300, ChunkOverlap: 50,
	})
	require.NoError(t, err)

	hits, err := fx.lexical.Search(ctx, "zanzibar spice", 5)
	require.NoError(t, err)
	require.NotEmpty(t, hits)

	second := writeCorpus(t, docLine("doc-new", "completely different replacement subject"))
	_, err = fx.coord.IndexCorpus(ctx, Options{
		CorpusPath: second, ChunkSize: 300, ChunkOverlap: 50, RecreateIndex: true,
	})
	require.NoError(t, err)

	hits, err = fx.lexical.Search(ctx, "zanzibar spice", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)

	records, err := fx.catalog.Get(ctx, []string{store.ChunkID("doc-old", 0)})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIndexCorpus_WithoutRecreateUpserts(t *testing.T) {
	fx := newCoordinatorFixture(t, false)
	ctx := context.Background()

	first := writeCorpus(t, docLine("doc-1", "original wording about lighthouses"))
	_, err := fx.coord.IndexCorpus(ctx, Options{
		CorpusPath: first, ChunkSize: 300, ChunkOverlap: 50,
	})
	require.NoError(t, err)

	second := writeCorpus(t, docLine("doc-1", "revised wording about lighthouses and buoys"))
	_, err = fx.coord.IndexCorpus(ctx, Options{
		CorpusPath: second, ChunkSize: 300, ChunkOverlap: 50,
	})
	require.NoError(t, err)

	records, err := fx.catalog.Get(ctx, []string{store.ChunkID("doc-1", 0)})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Content, "buoys")
}

func TestIndexCorpus_MissingCorpus(t *testing.T) {
	fx := newCoordinatorFixture(t, false)

	_, err := fx.coord.IndexCorpus(context.Background(), Options{
		CorpusPath: filepath.Join(t.TempDir(), "nope.jsonl"),
		ChunkSize:  300, ChunkOverlap: 50,
	})
	require.Error(t, err)
	assert.Equal(t, rerrors.ErrCodeCorpusNotFound, rerrors.GetCode(err))
}

func TestIndexCorpus_ChunkingValidation(t *testing.T) {
	fx := newCoordinatorFixture(t, false)
	path := writeCorpus(t, docLine("doc-1", "content"))

	tests := []struct {
		name          string
		size, overlap int
	}{
		{"size too small", 100, 10},
		{"size too large", 5000, 10},
		{"overlap negative", 300, -1},
		{"overlap too large", 900, 500},
		{"overlap not below size", 300, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.coord.IndexCorpus(context.Background(), Options{
				CorpusPath: path, ChunkSize: tt.size, ChunkOverlap: tt.overlap,
			})
			require.Error(t, err)
			assert.Equal(t, rerrors.ErrCodeInvalidChunking, rerrors.GetCode(err))
		})
	}
}
