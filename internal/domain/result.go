package domain

// ResultKind discriminates where a retrieved result came from
type ResultKind string

const (
	ResultKindDoc ResultKind = "doc"
	ResultKindWeb ResultKind = "web"
)

// RetrievedResult is a normalized retrieval hit from either the local index
// or the web provider. It exists only for the duration of one query.
type RetrievedResult struct {
	Kind       ResultKind
	Content    string
	Title      string
	URL        string
	SourceType SourceType
	ChunkIndex int
	Score      float32
}

// AnswerSource is a citation record emitted alongside a generated answer,
// one per context block consumed by the synthesizer.
type AnswerSource struct {
	SourceType string `json:"source_type"` // Doc / Web
	Reference  string `json:"reference"`
}

const (
	AnswerSourceDoc = "Doc"
	AnswerSourceWeb = "Web"
)

// DocumentSummary is one per-document evidence summary produced by the
// summarizer from retrieved local chunks.
type DocumentSummary struct {
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	ChunksUsed int    `json:"chunks_used"`
}
