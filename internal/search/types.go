// Package search implements hybrid retrieval: lexical and dense branches
// run per query variant, branch results merge keep-best, and Reciprocal
// Rank Fusion (RRF) combines the branch lists into one ranking.
package search

import "github.com/tinge-ai/retrieval/internal/store"

// ScoredHit is one request-scoped retrieval hit. Scores are on the
// owning retriever's scale and are not comparable across retriever
// types until fusion replaces them.
type ScoredHit struct {
	ChunkID string
	Score   float64
	Record  *store.ChunkRecord
}

// SearchRequest carries one search call's inputs. QueryEN is an optional
// pre-translated variant of the original query; it is never generated
// here.
type SearchRequest struct {
	QueryOriginal string `json:"query_original"`
	QueryEN       string `json:"query_en,omitempty"`
	Language      string `json:"language,omitempty"`
	TopK          int    `json:"top_k,omitempty"`
}

// SearchResult is one public, display-ready hit.
type SearchResult struct {
	ChunkID     string  `json:"chunk_id"`
	DocID       string  `json:"doc_id"`
	Score       float64 `json:"score"`
	Snippet     string  `json:"snippet"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Language    string  `json:"language"`
	PublishedAt string  `json:"published_at,omitempty"`
}

// SearchResponse is the public response shape. UsedQueries echoes the
// query strings that actually executed.
type SearchResponse struct {
	Results     []*SearchResult `json:"results"`
	UsedQueries []string        `json:"used_queries"`
	IndexName   string          `json:"index_name"`
}

// HealthStatus reports store reachability. Unreachable is a normal
// reportable state, never an error.
type HealthStatus struct {
	Status     string `json:"status"`
	IndexName  string `json:"index_name"`
	ChunkCount int    `json:"chunk_count"`
	DenseReady bool   `json:"dense_ready"`
	Detail     string `json:"detail,omitempty"`
}

// Health status values.
const (
	StatusOK          = "ok"
	StatusUnreachable = "unreachable"
)
