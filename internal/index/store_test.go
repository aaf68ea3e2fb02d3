package index

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder produces deterministic vectors from text content so the same
// text always maps to the same point.
type fakeEmbedder struct {
	model  string
	dims   int
	failOn string
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{model: "fake-embedder-v1", dims: 16}
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.failOn != "" && strings.Contains(text, f.failOn) {
		return nil, errors.New("embedding backend down")
	}
	v := make([]float32, f.dims)
	for i, r := range text {
		v[(i+int(r))%f.dims] += float32(int(r)%13) + 1
	}
	return v, nil
}

func (f *fakeEmbedder) ModelID() string { return f.model }

func (f *fakeEmbedder) Dimensions() int { return f.dims }

func makeChunks(sourceID, title string, contents ...string) []domain.DocumentChunk {
	doc := domain.NewUnifiedDocument(sourceID, domain.SourceTypePDF, title, strings.Join(contents, " "), nil)
	chunks := make([]domain.DocumentChunk, 0, len(contents))
	for i, content := range contents {
		chunks = append(chunks, *domain.NewDocumentChunk(doc, i, content))
	}
	return chunks
}

func TestBuild_EmptyChunks(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())

	err := store.Build(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrIndexBuildEmpty)
}

func TestBuild_And_SearchRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())
	chunks := makeChunks("src-1", "trees.pdf",
		"A binary search tree keeps keys in sorted order.",
		"Red-black trees rebalance on insertion.",
		"B-trees keep many keys per node for disk locality.",
	)

	require.NoError(t, store.Build(context.Background(), chunks))

	// Searching with the exact content of an indexed chunk returns it first.
	results, err := store.Search(context.Background(), chunks[1].Content, 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, chunks[1].Content, results[0].Content)
	assert.Equal(t, domain.ResultKindDoc, results[0].Kind)
	assert.Equal(t, "trees.pdf", results[0].Title)
	assert.Equal(t, 1, results[0].ChunkIndex)
	assert.InDelta(t, 1.0, float64(results[0].Score), 1e-5)
}

func TestLoad_AbsentIndex(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())

	snapshot, err := store.Load()

	assert.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSearch_AbsentIndex(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())

	results, err := store.Search(context.Background(), "anything", 5)

	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestLoad_PersistedIndex(t *testing.T) {
	dir := t.TempDir()
	embedder := newFakeEmbedder()
	builder := NewStore(dir, embedder)
	chunks := makeChunks("src-1", "notes.pdf", "alpha content", "beta content")
	require.NoError(t, builder.Build(context.Background(), chunks))

	// A fresh store over the same directory serves the persisted index.
	reader := NewStore(dir, embedder)
	snapshot, err := reader.Load()
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Equal(t, 2, snapshot.ChunkCount())
	assert.Equal(t, 1, snapshot.DocumentCount())
	assert.Equal(t, "fake-embedder-v1", snapshot.Manifest().Model)

	results, err := reader.Search(context.Background(), "alpha content", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "alpha content", results[0].Content)
}

func TestLoad_ModelMismatch(t *testing.T) {
	dir := t.TempDir()
	builder := NewStore(dir, newFakeEmbedder())
	require.NoError(t, builder.Build(context.Background(), makeChunks("src-1", "a.pdf", "content")))

	other := newFakeEmbedder()
	other.model = "different-model-v2"
	reader := NewStore(dir, other)

	_, err := reader.Load()

	assert.ErrorIs(t, err, domain.ErrIndexModelMismatch)
}

func TestBuild_ReplacesPriorIndex(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, makeChunks("src-old", "old.pdf", "old content")))
	require.NoError(t, store.Build(ctx, makeChunks("src-new", "new.pdf", "first new chunk", "second new chunk")))

	snapshot := store.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, 2, snapshot.ChunkCount())

	results, err := store.Search(ctx, "old content", 5)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, "old.pdf", r.Title)
	}
}

func TestBuild_FailurePreservesExistingIndex(t *testing.T) {
	dir := t.TempDir()
	embedder := newFakeEmbedder()
	store := NewStore(dir, embedder)
	ctx := context.Background()

	require.NoError(t, store.Build(ctx, makeChunks("src-1", "keep.pdf", "durable content")))

	embedder.failOn = "poison"
	err := store.Build(ctx, makeChunks("src-2", "bad.pdf", "fine", "poison chunk"))
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.ErrCodeUpstream, domainErr.Code)

	// In-memory snapshot and on-disk index both still serve the old build.
	embedder.failOn = ""
	results, err := store.Search(ctx, "durable content", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "keep.pdf", results[0].Title)

	reloaded, err := NewStore(dir, embedder).Load()
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, "keep.pdf", reloaded.chunks[0].Title)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())
	ctx := context.Background()

	// Two chunks with identical content score identically.
	docA := domain.NewUnifiedDocument("src-a", domain.SourceTypePDF, "first.pdf", "same text", nil)
	docB := domain.NewUnifiedDocument("src-b", domain.SourceTypePDF, "second.pdf", "same text", nil)
	chunks := []domain.DocumentChunk{
		*domain.NewDocumentChunk(docA, 0, "same text"),
		*domain.NewDocumentChunk(docB, 0, "same text"),
	}
	require.NoError(t, store.Build(ctx, chunks))

	results, err := store.Search(ctx, "same text", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "first.pdf", results[0].Title)
	assert.Equal(t, "second.pdf", results[1].Title)
}

func TestSearch_DefaultTopK(t *testing.T) {
	store := NewStore(t.TempDir(), newFakeEmbedder())
	ctx := context.Background()

	contents := make([]string, 8)
	for i := range contents {
		contents[i] = strings.Repeat("word ", i+1) + "tail"
	}
	require.NoError(t, store.Build(ctx, makeChunks("src-1", "many.pdf", contents...)))

	results, err := store.Search(ctx, "word tail", 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, newFakeEmbedder())

	manifest, err := store.ReadManifest()
	require.NoError(t, err)
	assert.Nil(t, manifest)

	require.NoError(t, store.Build(context.Background(), makeChunks("src-1", "a.pdf", "content")))

	manifest, err = store.ReadManifest()
	require.NoError(t, err)
	require.NotNil(t, manifest)
	assert.Equal(t, 1, manifest.Chunks)
	assert.NotEmpty(t, manifest.BuildID)
	assert.False(t, manifest.BuiltAt.IsZero())
}
