package search

import "sort"

// Finalizer shapes fused hits into the public result list.
type Finalizer struct {
	snippetLength int
	maxTopK       int
}

// NewFinalizer creates a finalizer with the given display truncation
// length and top-k ceiling.
func NewFinalizer(snippetLength, maxTopK int) *Finalizer {
	return &Finalizer{snippetLength: snippetLength, maxTopK: maxTopK}
}

// ClampTopK silently clamps a caller-supplied top-k into [1, maxTopK].
// Out-of-range values are a read-only query's problem to absorb, not
// reject. Zero means "use the default" and is resolved by the caller
// before clamping.
func (f *Finalizer) ClampTopK(topK int) int {
	if topK < 1 {
		return 1
	}
	if topK > f.maxTopK {
		return f.maxTopK
	}
	return topK
}

// Finalize filters by language, dedupes keeping the best score per
// chunk, truncates snippets, and returns the top-k results sorted
// descending. Upstream lists should already be unique by chunk id, but
// merge paths can reintroduce duplicates.
func (f *Finalizer) Finalize(hits []*ScoredHit, language string, topK int) []*SearchResult {
	topK = f.ClampTopK(topK)

	type entry struct {
		hit       *ScoredHit
		firstSeen int
	}
	best := make(map[string]*entry)
	order := 0
	for _, hit := range hits {
		if hit.Record == nil {
			continue
		}
		if language != "" && hit.Record.Language != language {
			continue
		}
		if e, ok := best[hit.ChunkID]; ok {
			if hit.Score > e.hit.Score {
				e.hit = hit
			}
			continue
		}
		best[hit.ChunkID] = &entry{hit: hit, firstSeen: order}
		order++
	}

	kept := make([]*entry, 0, len(best))
	for _, e := range best {
		kept = append(kept, e)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].hit.Score != kept[j].hit.Score {
			return kept[i].hit.Score > kept[j].hit.Score
		}
		return kept[i].firstSeen < kept[j].firstSeen
	})

	if len(kept) > topK {
		kept = kept[:topK]
	}

	results := make([]*SearchResult, len(kept))
	for i, e := range kept {
		rec := e.hit.Record
		results[i] = &SearchResult{
			ChunkID:     rec.ChunkID,
			DocID:       rec.DocID,
			Score:       e.hit.Score,
			Snippet:     f.snippet(rec.Content),
			Title:       rec.Title,
			URL:         rec.URL,
			Source:      rec.Source,
			Language:    rec.Language,
			PublishedAt: rec.PublishedAt,
		}
	}
	return results
}

func (f *Finalizer) snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= f.snippetLength {
		return content
	}
	return string(runes[:f.snippetLength])
}
