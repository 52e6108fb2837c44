package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *SQLiteCatalog {
	t.Helper()
	cat, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })
	return cat
}

func catalogFixture() []*ChunkRecord {
	return []*ChunkRecord{
		{
			ChunkID: "doc-1::chunk::0", DocID: "doc-1", ChunkIndex: 0,
			Content: "Gaudi's basilica dominates the skyline.",
			Title:   "Sagrada Familia", URL: "https://example.org/1",
			Source: "wikipedia", Language: "en", PublishedAt: "2024-01-15",
		},
		{
			ChunkID: "doc-2::chunk::0", DocID: "doc-2", ChunkIndex: 0,
			Content: "Un parque en Barcelona.",
			Title:   "Parque Guell", Source: "wikipedia", Language: "es",
		},
	}
}

func TestCatalog_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	require.NoError(t, cat.Upsert(ctx, catalogFixture()))

	got, err := cat.Get(ctx, []string{"doc-1::chunk::0", "doc-2::chunk::0"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	byID := make(map[string]*ChunkRecord)
	for _, c := range got {
		byID[c.ChunkID] = c
	}
	assert.Equal(t, "Sagrada Familia", byID["doc-1::chunk::0"].Title)
	assert.Equal(t, "2024-01-15", byID["doc-1::chunk::0"].PublishedAt)
	assert.Equal(t, "es", byID["doc-2::chunk::0"].Language)
	assert.Empty(t, byID["doc-2::chunk::0"].PublishedAt)
}

func TestCatalog_GetMissingIDsSilentlyAbsent(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	require.NoError(t, cat.Upsert(ctx, catalogFixture()))

	got, err := cat.Get(ctx, []string{"doc-1::chunk::0", "ghost::chunk::9"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCatalog_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	first := catalogFixture()[:1]
	require.NoError(t, cat.Upsert(ctx, first))

	updated := *first[0]
	updated.Content = "rewritten content"
	require.NoError(t, cat.Upsert(ctx, []*ChunkRecord{&updated}))

	n, err := cat.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := cat.Get(ctx, []string{first[0].ChunkID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "rewritten content", got[0].Content)
}

func TestCatalog_DeleteAll(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)
	require.NoError(t, cat.Upsert(ctx, catalogFixture()))

	require.NoError(t, cat.DeleteAll(ctx))

	n, err := cat.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCatalog_Ping(t *testing.T) {
	cat := newCatalog(t)
	assert.NoError(t, cat.Ping(context.Background()))
}

func TestCatalog_InMemory(t *testing.T) {
	ctx := context.Background()
	cat, err := NewSQLiteCatalog("")
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.Upsert(ctx, catalogFixture()))
	n, err := cat.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCatalog_EmptyBatchNoOps(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(t)

	assert.NoError(t, cat.Upsert(ctx, nil))
	got, err := cat.Get(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
