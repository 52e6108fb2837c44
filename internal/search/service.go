package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tinge-ai/retrieval/internal/config"
	rerrors "github.com/tinge-ai/retrieval/internal/errors"
	"github.com/tinge-ai/retrieval/internal/store"
)

// Service orchestrates one search request: pathway branches run
// concurrently, fusion merges them, the catalog enriches the fused ids,
// and the finalizer shapes the public response. Handles are long-lived
// and shared read-only across requests.
type Service struct {
	cfg       *config.SearchConfig
	indexName string

	lexical *BranchRunner
	dense   *BranchRunner
	fusion  *RRFFusion
	final   *Finalizer
	catalog store.Catalog
}

// NewService wires a search service. dense may be an unavailable
// pathway's runner; requests then run lexical-only.
func NewService(cfg *config.SearchConfig, indexName string, lexical, dense *BranchRunner, catalog store.Catalog) *Service {
	return &Service{
		cfg:       cfg,
		indexName: indexName,
		lexical:   lexical,
		dense:     dense,
		fusion:    NewRRFFusion(cfg.RRFConstant),
		final:     NewFinalizer(cfg.SnippetLength, cfg.MaxTopK),
		catalog:   catalog,
	}
}

// Search answers one query. The request never fails solely because the
// dense pathway is down; it fails only on invalid input or when the
// mandatory lexical pathway is unavailable.
func (s *Service) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	start := time.Now()

	queries, err := s.resolveQueries(req)
	if err != nil {
		return nil, err
	}
	if req.Language != "" && !s.cfg.LanguageAllowed(req.Language) {
		return nil, rerrors.Newf(rerrors.ErrCodeInvalidLanguage,
			"unsupported language filter %q", req.Language)
	}
	if !s.lexical.Available() {
		return nil, rerrors.New(rerrors.ErrCodeStoreUnavailable,
			"lexical index is not initialized", nil)
	}

	topK := req.TopK
	if topK == 0 {
		topK = s.cfg.DefaultTopK
	}
	topK = s.final.ClampTopK(topK)

	if timeout := s.cfg.RequestTimeout.Std(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var lexHits, denseHits []*ScoredHit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hits, err := s.lexical.Run(gctx, queries, topK)
		if err != nil {
			return rerrors.New(rerrors.ErrCodeSearchFailed, "lexical branch failed", err)
		}
		lexHits = hits
		return nil
	})
	if s.dense != nil && s.dense.Available() {
		g.Go(func() error {
			hits, err := s.dense.Run(gctx, queries, topK)
			if err != nil {
				// Dense contributes nothing for this request.
				slog.Warn("dense branch failed, continuing lexical-only", "error", err)
				return nil
			}
			denseHits = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused := s.fusion.Fuse(lexHits, denseHits)
	if err := s.enrich(ctx, fused); err != nil {
		return nil, rerrors.New(rerrors.ErrCodeStoreUnavailable, "chunk catalog lookup failed", err)
	}

	results := s.final.Finalize(fused, req.Language, topK)
	slog.Info("search completed",
		"queries", len(queries),
		"dense", len(denseHits) > 0,
		"results", len(results),
		"duration", time.Since(start).Round(time.Millisecond))

	return &SearchResponse{
		Results:     results,
		UsedQueries: queries,
		IndexName:   s.indexName,
	}, nil
}

// resolveQueries validates the original query and drops a blank or
// duplicate translation.
func (s *Service) resolveQueries(req *SearchRequest) ([]string, error) {
	original := strings.TrimSpace(req.QueryOriginal)
	if original == "" {
		return nil, rerrors.New(rerrors.ErrCodeQueryEmpty, "query_original must not be empty", nil)
	}

	queries := []string{original}
	if translated := strings.TrimSpace(req.QueryEN); translated != "" && translated != original {
		queries = append(queries, translated)
	}
	return queries, nil
}

// enrich attaches catalog records to hits in one batch fetch. Hits whose
// record is gone stay nil and the finalizer drops them.
func (s *Service) enrich(ctx context.Context, hits []*ScoredHit) error {
	if len(hits) == 0 {
		return nil
	}

	ids := make([]string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.ChunkID
	}
	records, err := s.catalog.Get(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*store.ChunkRecord, len(records))
	for _, rec := range records {
		byID[rec.ChunkID] = rec
	}
	for _, hit := range hits {
		hit.Record = byID[hit.ChunkID]
	}
	return nil
}

// Health reports store reachability. Unreachable is a normal state; this
// never returns an error.
func (s *Service) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     StatusOK,
		IndexName:  s.indexName,
		DenseReady: s.dense != nil && s.dense.Available(),
	}

	if err := s.catalog.Ping(ctx); err != nil {
		status.Status = StatusUnreachable
		status.Detail = err.Error()
		return status
	}
	if count, err := s.catalog.Count(ctx); err == nil {
		status.ChunkCount = count
	}
	return status
}
