package search

import "sort"

// DefaultRRFConstant is the standard RRF damping parameter. k=60 is
// empirically validated across domains (Azure AI Search, OpenSearch).
const DefaultRRFConstant = 60

// RRFFusion merges already-ranked hit lists using Reciprocal Rank
// Fusion. Absolute scores are never compared across lists; only rank
// drives the fused score, which makes the merge scale-invariant.
//
// RRF_score(c) = Σ 1 / (K + rank_i(c)) over lists containing chunk c.
type RRFFusion struct {
	K int
}

// NewRRFFusion creates an RRF fusion instance. k <= 0 falls back to the
// default constant.
func NewRRFFusion(k int) *RRFFusion {
	if k <= 0 {
		k = DefaultRRFConstant
	}
	return &RRFFusion{K: k}
}

type fusedEntry struct {
	hit       *ScoredHit
	score     float64
	firstSeen int
}

// Fuse combines the given ranked lists into one ranking. Each input
// list must already be sorted descending by its own retriever's score.
// The first-seen hit for a chunk is kept as its representative record;
// its score is replaced with the accumulated fused score. Ties sort by
// first-seen order across the inputs.
//
// A single non-empty list passes through unchanged: RRF over one list
// is order-preserving, so ranking work is skipped.
func (f *RRFFusion) Fuse(lists ...[]*ScoredHit) []*ScoredHit {
	nonEmpty := make([][]*ScoredHit, 0, len(lists))
	for _, list := range lists {
		if len(list) > 0 {
			nonEmpty = append(nonEmpty, list)
		}
	}

	switch len(nonEmpty) {
	case 0:
		return []*ScoredHit{}
	case 1:
		return nonEmpty[0]
	}

	entries := make(map[string]*fusedEntry)
	order := 0
	for _, list := range nonEmpty {
		for rank, hit := range list {
			e, ok := entries[hit.ChunkID]
			if !ok {
				e = &fusedEntry{hit: hit, firstSeen: order}
				entries[hit.ChunkID] = e
				order++
			}
			e.score += 1.0 / float64(f.K+rank+1)
		}
	}

	fused := make([]*fusedEntry, 0, len(entries))
	for _, e := range entries {
		fused = append(fused, e)
	}
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].firstSeen < fused[j].firstSeen
	})

	out := make([]*ScoredHit, len(fused))
	for i, e := range fused {
		e.hit.Score = e.score
		out[i] = e.hit
	}
	return out
}
