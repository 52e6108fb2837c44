package store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// BleveBM25Index wraps Bleve v2 for BM25 keyword search over chunk content.
type BleveBM25Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	path   string
	closed bool
}

// bleveChunk is the document shape indexed by Bleve. Only the analyzed
// content participates in scoring; display fields live in the catalog.
type bleveChunk struct {
	Content string `json:"content"`
}

// NewBleveBM25Index opens or creates a BM25 index.
// An empty path creates an in-memory index.
func NewBleveBM25Index(path string) (*BleveBM25Index, error) {
	idx, err := openBleve(path)
	if err != nil {
		return nil, err
	}
	return &BleveBM25Index{index: idx, path: path}, nil
}

func openBleve(path string) (bleve.Index, error) {
	if path == "" {
		idx, err := bleve.NewMemOnly(chunkIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return idx, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}

	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		idx, err = bleve.New(path, chunkIndexMapping())
	}
	if err != nil {
		return nil, fmt.Errorf("open index %s: %w", path, err)
	}
	return idx, nil
}

// chunkIndexMapping builds the index mapping. The standard analyzer fits
// the prose corpus; chunk text is already whitespace-normalized.
func chunkIndexMapping() *mapping.IndexMappingImpl {
	m := bleve.NewIndexMapping()

	doc := bleve.NewDocumentMapping()
	content := bleve.NewTextFieldMapping()
	content.Store = false
	content.IncludeTermVectors = false
	doc.AddFieldMappingsAt("content", content)

	m.DefaultMapping = doc
	return m
}

// Index upserts chunks in a single batch.
func (b *BleveBM25Index) Index(ctx context.Context, chunks []*ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, c := range chunks {
		if err := batch.Index(c.ChunkID, bleveChunk{Content: c.Content}); err != nil {
			return fmt.Errorf("index chunk %s: %w", c.ChunkID, err)
		}
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("execute index batch: %w", err)
	}
	return nil
}

// Search returns chunks matching the query, scored by BM25.
func (b *BleveBM25Index) Search(ctx context.Context, queryStr string, limit int) ([]*BM25Result, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil, fmt.Errorf("index is closed")
	}
	if strings.TrimSpace(queryStr) == "" || limit <= 0 {
		return []*BM25Result{}, nil
	}

	matchQuery := bleve.NewMatchQuery(queryStr)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit

	result, err := b.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}

	hits := make([]*BM25Result, 0, len(result.Hits))
	for _, hit := range result.Hits {
		hits = append(hits, &BM25Result{ChunkID: hit.ID, Score: hit.Score})
	}
	return hits, nil
}

// Delete removes chunks from the index.
func (b *BleveBM25Index) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	batch := b.index.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

// Count returns the number of indexed chunks.
func (b *BleveBM25Index) Count() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0, fmt.Errorf("index is closed")
	}
	n, err := b.index.DocCount()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Reset drops the index and rebuilds it empty. If the on-disk drop fails,
// falls back to a bulk delete of every document in the same logical index.
func (b *BleveBM25Index) Reset(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return fmt.Errorf("index is closed")
	}

	if b.path != "" {
		if err := b.index.Close(); err != nil {
			return fmt.Errorf("close index for reset: %w", err)
		}
		if err := os.RemoveAll(b.path); err == nil {
			idx, openErr := openBleve(b.path)
			if openErr != nil {
				return fmt.Errorf("recreate index after reset: %w", openErr)
			}
			b.index = idx
			return nil
		}
		// Hard drop unavailable; reopen and fall through to delete-all.
		idx, openErr := openBleve(b.path)
		if openErr != nil {
			return fmt.Errorf("reopen index after failed reset: %w", openErr)
		}
		b.index = idx
		slog.Warn("bm25_reset_fallback", slog.String("path", b.path),
			slog.String("reason", "index drop failed, deleting all documents"))
	} else {
		// In-memory index: a fresh mem-only index is the hard drop.
		_ = b.index.Close()
		idx, err := bleve.NewMemOnly(chunkIndexMapping())
		if err != nil {
			return fmt.Errorf("recreate in-memory index: %w", err)
		}
		b.index = idx
		return nil
	}

	return b.deleteAllLocked()
}

// deleteAllLocked removes every document. Caller holds the write lock.
func (b *BleveBM25Index) deleteAllLocked() error {
	count, err := b.index.DocCount()
	if err != nil {
		return fmt.Errorf("count for delete-all: %w", err)
	}

	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Size = int(count)
	req.Fields = []string{}

	result, err := b.index.Search(req)
	if err != nil {
		return fmt.Errorf("list ids for delete-all: %w", err)
	}

	batch := b.index.NewBatch()
	for _, hit := range result.Hits {
		batch.Delete(hit.ID)
	}
	if err := b.index.Batch(batch); err != nil {
		return fmt.Errorf("delete-all batch: %w", err)
	}
	return nil
}

// Close closes the index.
func (b *BleveBM25Index) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.index != nil {
		return b.index.Close()
	}
	return nil
}

var _ LexicalIndex = (*BleveBM25Index)(nil)
