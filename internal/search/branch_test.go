package search

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRetriever serves canned hit lists keyed by query string and
// records the top-k values it was called with.
type fakeRetriever struct {
	hits     map[string][]*ScoredHit
	calls    atomic.Int64
	lastTopK atomic.Int64
	failnext atomic.Int64
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, topK int) ([]*ScoredHit, error) {
	f.calls.Add(1)
	f.lastTopK.Store(int64(topK))
	if f.failnextTake() {
		return nil, errors.New("retriever blew up")
	}
	hits := f.hits[query]
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// failnextTake consumes one pending failure, if any.
func (f *fakeRetriever) failnextTake() bool {
	for {
		n := f.failnext.Load()
		if n <= 0 {
			return false
		}
		if f.failnext.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

func (f *fakeRetriever) Name() string { return "fake" }

var _ Retriever = (*fakeRetriever)(nil)

func newBranchRunner(r Retriever, floor, maxTopK int, alwaysWiden bool) *BranchRunner {
	return NewBranchRunner(NewPathway("test", r), floor, maxTopK, alwaysWiden)
}

func TestBranchRunner_KeepBestScorePerChunk(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{
		"original":   {hit("shared", 0.4), hit("only-orig", 0.3)},
		"translated": {hit("shared", 0.7), hit("only-trans", 0.2)},
	}}
	runner := newBranchRunner(r, 0, 10, false)

	merged, err := runner.Run(context.Background(), []string{"original", "translated"}, 5)
	require.NoError(t, err)
	require.Len(t, merged, 3)

	assert.Equal(t, "shared", merged[0].ChunkID)
	assert.Equal(t, 0.7, merged[0].Score)
	assert.Equal(t, []string{"shared", "only-orig", "only-trans"}, ids(merged))
}

func TestBranchRunner_SingleQueryNoWidening(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 8, 10, false)

	_, err := runner.Run(context.Background(), []string{"just one"}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), r.lastTopK.Load())
}

func TestBranchRunner_TwoQueriesWiden(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 8, 10, false)

	_, err := runner.Run(context.Background(), []string{"a", "b"}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.lastTopK.Load())
}

func TestBranchRunner_WidenCappedAtMax(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 50, 10, false)

	_, err := runner.Run(context.Background(), []string{"a", "b"}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(10), r.lastTopK.Load())
}

func TestBranchRunner_ZeroFloorDisablesWidening(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 0, 10, false)

	_, err := runner.Run(context.Background(), []string{"a", "b"}, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), r.lastTopK.Load())
}

func TestBranchRunner_AlwaysWidenAppliesToSingleQuery(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 8, 10, true)

	_, err := runner.Run(context.Background(), []string{"solo"}, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(8), r.lastTopK.Load())
}

func TestBranchRunner_BlankQueriesDropped(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{
		"real": {hit("a", 1.0)},
	}}
	runner := newBranchRunner(r, 0, 10, false)

	merged, err := runner.Run(context.Background(), []string{"real", "   "}, 5)
	require.NoError(t, err)
	assert.Len(t, merged, 1)
	assert.Equal(t, int64(1), r.calls.Load())
}

func TestBranchRunner_AllBlankQueries(t *testing.T) {
	r := &fakeRetriever{hits: map[string][]*ScoredHit{}}
	runner := newBranchRunner(r, 0, 10, false)

	merged, err := runner.Run(context.Background(), []string{" ", ""}, 5)
	require.NoError(t, err)
	assert.Empty(t, merged)
	assert.Equal(t, int64(0), r.calls.Load())
}

func TestMergeKeepBest_TieOrderStable(t *testing.T) {
	merged := mergeKeepBest([][]*ScoredHit{
		{hit("first", 1.0), hit("second", 1.0)},
		{hit("third", 1.0)},
	})
	assert.Equal(t, []string{"first", "second", "third"}, ids(merged))
}
