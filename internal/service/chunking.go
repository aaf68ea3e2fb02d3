package service

// ChunkConfig controls document chunking for the vector index.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// DefaultChunkConfig provides sane defaults for chunking.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Size:    1000,
		Overlap: 200,
	}
}

// boundarySeparators are tried in decreasing granularity when choosing where
// to end a window: paragraph break, line break, sentence end, word break.
var boundarySeparators = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune(" "),
}

// ChunkText splits text into overlapping windows of at most cfg.Size runes.
// Consecutive windows share exactly cfg.Overlap runes, so the source text is
// reconstructable from the first window plus the non-overlapping tail of each
// subsequent one. Window ends prefer natural boundaries and fall back to a
// hard cut. Text no longer than cfg.Size yields a single window.
func ChunkText(text string, cfg ChunkConfig) []string {
	if cfg.Size <= 0 || cfg.Overlap >= cfg.Size {
		cfg = DefaultChunkConfig()
	}

	runes := []rune(text)
	if len(runes) <= cfg.Size {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/(cfg.Size-cfg.Overlap)+1)
	start := 0
	for {
		end := start + cfg.Size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		end = boundaryCut(runes, start, end, cfg)
		chunks = append(chunks, string(runes[start:end]))

		start = end - cfg.Overlap
	}

	return chunks
}

// boundaryCut moves end back to just after the last natural boundary in the
// window, trying separators in decreasing granularity. The cut never moves
// past the floor, which guarantees the next window makes progress.
func boundaryCut(runes []rune, start, end int, cfg ChunkConfig) int {
	floor := start + cfg.Size/2
	if min := start + cfg.Overlap + 1; floor < min {
		floor = min
	}
	if floor >= end {
		return end
	}

	for _, sep := range boundarySeparators {
		for i := end; i-len(sep) >= floor; i-- {
			if matchesAt(runes, i-len(sep), sep) {
				return i
			}
		}
	}
	return end
}

func matchesAt(runes []rune, pos int, sep []rune) bool {
	if pos < 0 || pos+len(sep) > len(runes) {
		return false
	}
	for i, r := range sep {
		if runes[pos+i] != r {
			return false
		}
	}
	return true
}
