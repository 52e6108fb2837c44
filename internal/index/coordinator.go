// Package index coordinates offline corpus indexing: load, chunk,
// optionally embed, then bulk write to every store.
package index

import (
	"context"
	"log/slog"
	"time"

	"github.com/tinge-ai/retrieval/internal/chunk"
	"github.com/tinge-ai/retrieval/internal/corpus"
	"github.com/tinge-ai/retrieval/internal/embed"
	rerrors "github.com/tinge-ai/retrieval/internal/errors"
	"github.com/tinge-ai/retrieval/internal/store"
)

// Chunking bounds. Windows outside these produce either useless
// fragments or store-hostile blobs.
const (
	MinChunkSize    = 200
	MaxChunkSize    = 2000
	MaxChunkOverlap = 400
)

// Options controls one indexing run.
type Options struct {
	CorpusPath   string
	ChunkSize    int
	ChunkOverlap int

	// RecreateIndex drops and rebuilds every store first so no stale
	// chunk can leak into results.
	RecreateIndex bool

	// WriteEmbeddings embeds chunks into the vector index when an
	// embedder is present.
	WriteEmbeddings bool
}

// Summary reports what an indexing run wrote.
type Summary struct {
	IndexedDocuments int    `json:"indexed_documents"`
	IndexedChunks    int    `json:"indexed_chunks"`
	IndexName        string `json:"index_name"`
}

// Coordinator owns the indexing flow against long-lived store handles.
// The embedder may be nil; chunks then index BM25-only.
type Coordinator struct {
	indexName string
	lexical   store.LexicalIndex
	vector    store.VectorIndex
	catalog   store.Catalog
	embedder  embed.Embedder
}

// NewCoordinator wires an indexing coordinator.
func NewCoordinator(indexName string, lexical store.LexicalIndex, vector store.VectorIndex, catalog store.Catalog, embedder embed.Embedder) *Coordinator {
	return &Coordinator{
		indexName: indexName,
		lexical:   lexical,
		vector:    vector,
		catalog:   catalog,
		embedder:  embedder,
	}
}

// IndexCorpus loads the corpus, chunks every document, and bulk-writes
// the chunks to the lexical index, the chunk catalog, and (when
// embeddings are on) the vector index. Embedding failure downgrades the
// run to BM25-only rather than failing it.
func (c *Coordinator) IndexCorpus(ctx context.Context, opts Options) (*Summary, error) {
	start := time.Now()

	if err := validateChunking(opts.ChunkSize, opts.ChunkOverlap); err != nil {
		return nil, err
	}

	docs, err := corpus.Load(opts.CorpusPath)
	if err != nil {
		return nil, err
	}

	if opts.RecreateIndex {
		if err := c.reset(ctx); err != nil {
			return nil, rerrors.New(rerrors.ErrCodeIndexFailed, "index recreate failed", err)
		}
	}

	records := make([]*store.ChunkRecord, 0, len(docs)*2)
	for _, doc := range docs {
		normalized := chunk.Normalize(doc.Content)
		for i, window := range chunk.Split(normalized, opts.ChunkSize, opts.ChunkOverlap) {
			records = append(records, &store.ChunkRecord{
				ChunkID:     store.ChunkID(doc.ID, i),
				DocID:       doc.ID,
				ChunkIndex:  i,
				Content:     window,
				Title:       doc.Title,
				URL:         doc.URL,
				Source:      doc.Source,
				Language:    doc.Language,
				PublishedAt: doc.PublishedAt,
			})
		}
	}

	if err := c.lexical.Index(ctx, records); err != nil {
		return nil, rerrors.New(rerrors.ErrCodeIndexStorage, "lexical index write failed", err)
	}
	if err := c.catalog.Upsert(ctx, records); err != nil {
		return nil, rerrors.New(rerrors.ErrCodeIndexStorage, "chunk catalog write failed", err)
	}

	embedded := 0
	if opts.WriteEmbeddings && c.embedder != nil && c.vector != nil {
		n, err := c.writeEmbeddings(ctx, records)
		if err != nil {
			// Dense is optional at search time too; the run stays valid
			// with lexical-only chunks.
			slog.Warn("embedding write failed, chunks indexed BM25-only", "error", err)
		}
		embedded = n
	}

	slog.Info("corpus indexed",
		"documents", len(docs),
		"chunks", len(records),
		"embedded", embedded,
		"recreated", opts.RecreateIndex,
		"duration", time.Since(start).Round(time.Millisecond))

	return &Summary{
		IndexedDocuments: len(docs),
		IndexedChunks:    len(records),
		IndexName:        c.indexName,
	}, nil
}

func (c *Coordinator) reset(ctx context.Context) error {
	if err := c.lexical.Reset(ctx); err != nil {
		return err
	}
	if c.vector != nil {
		if err := c.vector.Reset(ctx); err != nil {
			return err
		}
	}
	return c.catalog.DeleteAll(ctx)
}

func (c *Coordinator) writeEmbeddings(ctx context.Context, records []*store.ChunkRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	ids := make([]string, len(records))
	texts := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ChunkID
		texts[i] = rec.Content
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, err
	}
	if err := c.vector.Add(ctx, ids, vectors); err != nil {
		return 0, err
	}
	return len(records), nil
}

func validateChunking(size, overlap int) error {
	if size < MinChunkSize || size > MaxChunkSize {
		return rerrors.Newf(rerrors.ErrCodeInvalidChunking,
			"chunk_size %d outside [%d, %d]", size, MinChunkSize, MaxChunkSize)
	}
	if overlap < 0 || overlap > MaxChunkOverlap {
		return rerrors.Newf(rerrors.ErrCodeInvalidChunking,
			"chunk_overlap %d outside [0, %d]", overlap, MaxChunkOverlap)
	}
	if overlap >= size {
		return rerrors.Newf(rerrors.ErrCodeInvalidChunking,
			"chunk_overlap %d must be smaller than chunk_size %d", overlap, size)
	}
	return nil
}
