package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Mode is the execution state of one retrieval pathway.
type Mode int32

const (
	// ModeUnavailable means the capability was never configured or its
	// dependency failed to initialize. Terminal for the process
	// lifetime, never retried.
	ModeUnavailable Mode = iota

	// ModePipeline is the optimized concurrent multi-branch path.
	ModePipeline

	// ModeLegacy is the direct sequential path, used when pipeline
	// construction failed. Functionally equivalent, no shared-graph
	// optimizations.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModePipeline:
		return "pipeline"
	case ModeLegacy:
		return "legacy"
	default:
		return "unavailable"
	}
}

// ErrPathwayUnavailable is returned when an unconfigured pathway is asked
// to execute.
var ErrPathwayUnavailable = errors.New("retrieval pathway unavailable")

// executor runs one retriever over the query variants and returns one
// hit list per query, in query order.
type executor interface {
	run(ctx context.Context, r Retriever, queries []string, topK int) ([][]*ScoredHit, error)
}

// pipelineExecutor issues all query variants concurrently. Branch
// latencies against the store are additive otherwise.
type pipelineExecutor struct{}

func newPipelineExecutor(r Retriever) (executor, error) {
	if r == nil {
		return nil, errors.New("pipeline requires a retriever")
	}
	return pipelineExecutor{}, nil
}

func (pipelineExecutor) run(ctx context.Context, r Retriever, queries []string, topK int) ([][]*ScoredHit, error) {
	lists := make([][]*ScoredHit, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		g.Go(func() error {
			hits, err := r.Retrieve(gctx, query, topK)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			lists[i] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lists, nil
}

// legacyExecutor issues query variants one call at a time.
type legacyExecutor struct{}

func (legacyExecutor) run(ctx context.Context, r Retriever, queries []string, topK int) ([][]*ScoredHit, error) {
	lists := make([][]*ScoredHit, len(queries))
	for i, query := range queries {
		hits, err := r.Retrieve(ctx, query, topK)
		if err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
		lists[i] = hits
	}
	return lists, nil
}

// Pathway supervises one retrieval capability. Mode transitions are
// one-way and decided at construction; a pipeline failure at request
// time falls back to the legacy path for that request only, without
// mutating shared state.
type Pathway struct {
	name      string
	retriever Retriever
	mode      atomic.Int32
	pipeline  executor
	legacy    executor
}

// NewPathway builds a pathway around a retriever. A nil retriever means
// the capability does not exist for this deployment. Pipeline
// construction failure downgrades to legacy once, permanently.
func NewPathway(name string, r Retriever) *Pathway {
	p := &Pathway{name: name, retriever: r, legacy: legacyExecutor{}}
	if r == nil {
		p.mode.Store(int32(ModeUnavailable))
		return p
	}

	exec, err := newPipelineExecutor(r)
	if err != nil {
		slog.Warn("pipeline construction failed, pathway downgraded",
			"pathway", name, "error", err)
		p.mode.Store(int32(ModeLegacy))
		return p
	}
	p.pipeline = exec
	p.mode.Store(int32(ModePipeline))
	return p
}

// Mode returns the pathway's current execution mode.
func (p *Pathway) Mode() Mode { return Mode(p.mode.Load()) }

// Available reports whether the pathway can serve requests at all.
func (p *Pathway) Available() bool { return p.Mode() != ModeUnavailable }

// Name identifies the pathway in logs and errors.
func (p *Pathway) Name() string { return p.name }

// Run executes the query variants, one hit list per query. Pipeline
// execution failure retries the same request on the legacy path.
func (p *Pathway) Run(ctx context.Context, queries []string, topK int) ([][]*ScoredHit, error) {
	switch p.Mode() {
	case ModeUnavailable:
		return nil, fmt.Errorf("%s: %w", p.name, ErrPathwayUnavailable)

	case ModePipeline:
		lists, err := p.pipeline.run(ctx, p.retriever, queries, topK)
		if err == nil {
			return lists, nil
		}
		slog.Warn("pipeline execution failed, using legacy path for this request",
			"pathway", p.name, "error", err)
		return p.legacy.run(ctx, p.retriever, queries, topK)

	default:
		return p.legacy.run(ctx, p.retriever, queries, topK)
	}
}
