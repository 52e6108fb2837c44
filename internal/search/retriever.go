package search

import (
	"context"
	"fmt"

	"github.com/tinge-ai/retrieval/internal/embed"
	"github.com/tinge-ai/retrieval/internal/store"
)

// Retriever is the shared capability shape of the lexical and dense
// pathways: ranked hits for a query string, length bounded by topK.
type Retriever interface {
	// Retrieve returns up to topK hits ordered descending by the
	// retriever's internal score.
	Retrieve(ctx context.Context, query string, topK int) ([]*ScoredHit, error)

	// Name identifies the pathway in logs.
	Name() string
}

// lexicalRetriever answers queries from the BM25 index.
type lexicalRetriever struct {
	index store.LexicalIndex
}

// NewLexicalRetriever creates a retriever over the lexical index.
func NewLexicalRetriever(index store.LexicalIndex) Retriever {
	return &lexicalRetriever{index: index}
}

func (r *lexicalRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*ScoredHit, error) {
	results, err := r.index.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("lexical search: %w", err)
	}

	hits := make([]*ScoredHit, len(results))
	for i, res := range results {
		hits[i] = &ScoredHit{ChunkID: res.ChunkID, Score: res.Score}
	}
	return hits, nil
}

func (r *lexicalRetriever) Name() string { return "lexical" }

// denseRetriever embeds the query and answers from the vector index.
type denseRetriever struct {
	index    store.VectorIndex
	embedder embed.Embedder
}

// NewDenseRetriever creates a retriever over the vector index. The
// embedder must already be warmed up; construction here never probes it.
func NewDenseRetriever(index store.VectorIndex, embedder embed.Embedder) Retriever {
	return &denseRetriever{index: index, embedder: embedder}
}

func (r *denseRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*ScoredHit, error) {
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.index.Search(ctx, vec, topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	hits := make([]*ScoredHit, len(results))
	for i, res := range results {
		hits[i] = &ScoredHit{ChunkID: res.ChunkID, Score: float64(res.Score)}
	}
	return hits, nil
}

func (r *denseRetriever) Name() string { return "dense" }
