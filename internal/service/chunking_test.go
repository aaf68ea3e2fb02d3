package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstruct joins windows back into the original text by dropping each
// subsequent window's overlapping head.
func reconstruct(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(chunks[0])
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		b.WriteString(string(runes[overlap:]))
	}
	return b.String()
}

func TestChunkText_ShortTextSingleWindow(t *testing.T) {
	cfg := ChunkConfig{Size: 100, Overlap: 20}

	chunks := ChunkText("short text", cfg)

	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestChunkText_ExactSizeSingleWindow(t *testing.T) {
	cfg := ChunkConfig{Size: 10, Overlap: 2}
	text := strings.Repeat("a", 10)

	chunks := ChunkText(text, cfg)

	require.Len(t, chunks, 1)
}

func TestChunkText_ReconstructsSource(t *testing.T) {
	cfg := ChunkConfig{Size: 50, Overlap: 10}
	texts := []string{
		strings.Repeat("lorem ipsum dolor sit amet. ", 20),
		"first paragraph here\n\nsecond paragraph follows\n\nthird one is longer and keeps going for a while",
		strings.Repeat("x", 500),
		"Unicode: héllo wörld, ünïcode everywhere. " + strings.Repeat("Mixed ascii and ünïcode text. ", 10),
	}

	for _, text := range texts {
		chunks := ChunkText(text, cfg)
		assert.Equal(t, text, reconstruct(chunks, cfg.Overlap))
	}
}

func TestChunkText_WindowsWithinSize(t *testing.T) {
	cfg := ChunkConfig{Size: 50, Overlap: 10}
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 30)

	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), cfg.Size)
	}
}

func TestChunkText_ConsecutiveWindowsShareOverlap(t *testing.T) {
	cfg := ChunkConfig{Size: 40, Overlap: 8}
	text := strings.Repeat("overlap invariant check sentence here. ", 15)

	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		next := []rune(chunks[i])
		tail := string(prev[len(prev)-cfg.Overlap:])
		head := string(next[:cfg.Overlap])
		assert.Equal(t, tail, head, "windows %d and %d", i-1, i)
	}
}

func TestChunkText_PrefersSentenceBoundary(t *testing.T) {
	cfg := ChunkConfig{Size: 60, Overlap: 10}
	text := "First sentence is right here. Second sentence follows it. Third sentence closes the paragraph out completely."

	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], ". "), "first window should end at a sentence boundary, got %q", chunks[0])
}

func TestChunkText_PrefersParagraphBoundary(t *testing.T) {
	cfg := ChunkConfig{Size: 60, Overlap: 10}
	text := "A paragraph that ends around the fifty mark here\n\nThe second paragraph continues with plenty more text to split."

	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), "first window should end at the paragraph break, got %q", chunks[0])
}

func TestChunkText_HardCutWithoutBoundaries(t *testing.T) {
	cfg := ChunkConfig{Size: 20, Overlap: 4}
	text := strings.Repeat("z", 95)

	chunks := ChunkText(text, cfg)

	require.Greater(t, len(chunks), 1)
	assert.Equal(t, text, reconstruct(chunks, cfg.Overlap))
	assert.Len(t, []rune(chunks[0]), 20)
}

func TestChunkText_InvalidConfigFallsBackToDefaults(t *testing.T) {
	text := strings.Repeat("word ", 300)

	chunks := ChunkText(text, ChunkConfig{Size: 10, Overlap: 10})

	assert.Equal(t, text, reconstruct(chunks, DefaultChunkConfig().Overlap))
}
