// Package store provides the lexical index (bleve), the vector index
// (HNSW), and the chunk catalog (SQLite) backing hybrid retrieval.
package store

import (
	"context"
	"fmt"
)

// ChunkRecord is the stored unit of retrieval: one fixed-size window of a
// document's normalized text plus denormalized display fields, so results
// render without a join. Records are replaced wholesale when a document
// is reindexed.
type ChunkRecord struct {
	ChunkID     string `json:"chunk_id"`
	DocID       string `json:"doc_id"`
	ChunkIndex  int    `json:"chunk_index"`
	Content     string `json:"content"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Language    string `json:"language"`
	PublishedAt string `json:"published_at,omitempty"`
}

// ChunkID derives the deterministic chunk identifier. It is never
// externally supplied.
func ChunkID(docID string, index int) string {
	return fmt.Sprintf("%s::chunk::%d", docID, index)
}

// BM25Result is one lexical hit, scored on the index's own BM25 scale.
type BM25Result struct {
	ChunkID string
	Score   float64
}

// VectorResult is one dense hit with similarity score in [0,1].
type VectorResult struct {
	ChunkID  string
	Distance float32
	Score    float32
}

// LexicalIndex is the BM25 retrieval capability.
type LexicalIndex interface {
	// Index upserts chunk content keyed by chunk id.
	Index(ctx context.Context, chunks []*ChunkRecord) error

	// Search returns up to limit hits ordered descending by BM25 score.
	Search(ctx context.Context, query string, limit int) ([]*BM25Result, error)

	// Delete removes chunks by id.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of indexed chunks.
	Count() (int, error)

	// Reset drops and rebuilds the index so no stale chunk can leak into
	// results. Falls back to bulk delete-all when a hard drop is unavailable.
	Reset(ctx context.Context) error

	Close() error
}

// VectorIndex is the dense retrieval capability.
type VectorIndex interface {
	// Add inserts vectors with their chunk ids, overwriting existing ids.
	Add(ctx context.Context, ids []string, vectors [][]float32) error

	// Search returns up to k nearest hits ordered descending by score.
	Search(ctx context.Context, query []float32, k int) ([]*VectorResult, error)

	// Delete removes vectors by chunk id.
	Delete(ctx context.Context, ids []string) error

	// Count returns the number of live vectors.
	Count() int

	// Reset replaces the graph with a fresh one.
	Reset(ctx context.Context) error

	Close() error
}

// Catalog persists full chunk records for retrieval-time enrichment.
type Catalog interface {
	// Upsert writes records with overwrite semantics keyed by chunk id.
	Upsert(ctx context.Context, chunks []*ChunkRecord) error

	// Get batch-fetches records by id; missing ids are silently absent.
	Get(ctx context.Context, ids []string) ([]*ChunkRecord, error)

	// DeleteAll removes every record.
	DeleteAll(ctx context.Context) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Ping reports store reachability; used by the health check.
	Ping(ctx context.Context) error

	Close() error
}
