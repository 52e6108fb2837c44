package search

import (
	"context"
	"sort"
	"strings"
)

// BranchRunner executes one pathway over up to two query variants
// (original plus optional translation) and merges the per-query lists
// keyed by chunk id, keeping the higher score when a chunk matches both
// variants. A chunk that legitimately matches both must not appear twice
// as apparent double relevance.
type BranchRunner struct {
	pathway *Pathway

	// floor widens per-branch fetches beyond the final top-k so the
	// cross-branch merge still has enough candidates after dedup.
	// floor <= 0 disables widening.
	floor   int
	maxTopK int

	// alwaysWiden applies the floor even for a single query variant.
	// The dense branch uses it: its candidate pool feeds fusion, which
	// needs depth regardless of variant count.
	alwaysWiden bool
}

// NewBranchRunner creates a runner for the given pathway.
func NewBranchRunner(pathway *Pathway, floor, maxTopK int, alwaysWiden bool) *BranchRunner {
	return &BranchRunner{
		pathway:     pathway,
		floor:       floor,
		maxTopK:     maxTopK,
		alwaysWiden: alwaysWiden,
	}
}

// Available reports whether the underlying pathway can serve requests.
func (b *BranchRunner) Available() bool { return b.pathway.Available() }

// Run executes the non-blank queries and returns the merged, re-sorted
// hit list. An empty query set yields an empty list.
func (b *BranchRunner) Run(ctx context.Context, queries []string, topK int) ([]*ScoredHit, error) {
	active := make([]string, 0, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q) != "" {
			active = append(active, q)
		}
	}
	if len(active) == 0 {
		return []*ScoredHit{}, nil
	}

	lists, err := b.pathway.Run(ctx, active, b.resolveTopK(topK, len(active)))
	if err != nil {
		return nil, err
	}
	return mergeKeepBest(lists), nil
}

// resolveTopK applies the widening policy:
// topK' = clamp(max(topK, floor), topK, maxTopK).
func (b *BranchRunner) resolveTopK(topK, queryCount int) int {
	if b.floor <= 0 || (queryCount < 2 && !b.alwaysWiden) {
		return topK
	}
	widened := topK
	if b.floor > widened {
		widened = b.floor
	}
	if b.maxTopK > 0 && widened > b.maxTopK {
		widened = b.maxTopK
	}
	if widened < topK {
		widened = topK
	}
	return widened
}

// mergeKeepBest merges per-query hit lists keyed by chunk id, keeping
// the highest-scoring occurrence, sorted descending with first-seen
// order breaking ties.
func mergeKeepBest(lists [][]*ScoredHit) []*ScoredHit {
	type entry struct {
		hit       *ScoredHit
		firstSeen int
	}

	best := make(map[string]*entry)
	order := 0
	for _, list := range lists {
		for _, hit := range list {
			if e, ok := best[hit.ChunkID]; ok {
				if hit.Score > e.hit.Score {
					e.hit = hit
				}
				continue
			}
			best[hit.ChunkID] = &entry{hit: hit, firstSeen: order}
			order++
		}
	}

	merged := make([]*entry, 0, len(best))
	for _, e := range best {
		merged = append(merged, e)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].hit.Score != merged[j].hit.Score {
			return merged[i].hit.Score > merged[j].hit.Score
		}
		return merged[i].firstSeen < merged[j].firstSeen
	})

	out := make([]*ScoredHit, len(merged))
	for i, e := range merged {
		out[i] = e.hit
	}
	return out
}
