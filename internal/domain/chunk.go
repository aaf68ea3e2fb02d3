package domain

import "fmt"

// DocumentChunk is one contiguous text window derived from a UnifiedDocument.
// Chunks are created in bulk during indexing and never mutated; a full
// re-index replaces the entire chunk set.
type DocumentChunk struct {
	ChunkID    string
	SourceID   string
	SourceType SourceType
	Title      string
	Content    string
	ChunkIndex int
	Metadata   map[string]string
}

// ChunkID derives the deterministic chunk identifier for a source and position.
func ChunkID(sourceID string, index int) string {
	return fmt.Sprintf("%s_%d", sourceID, index)
}

// NewDocumentChunk creates a chunk for the given document and window position
func NewDocumentChunk(doc *UnifiedDocument, index int, content string) *DocumentChunk {
	return &DocumentChunk{
		ChunkID:    ChunkID(doc.SourceID, index),
		SourceID:   doc.SourceID,
		SourceType: doc.SourceType,
		Title:      doc.Title,
		Content:    content,
		ChunkIndex: index,
		Metadata:   doc.Metadata,
	}
}

// ValidateDocumentChunk validates a DocumentChunk instance
func ValidateDocumentChunk(c *DocumentChunk) error {
	if c == nil {
		return fmt.Errorf("chunk cannot be nil")
	}

	if c.SourceID == "" {
		return fmt.Errorf("chunk SourceID is required")
	}

	if c.ChunkIndex < 0 {
		return fmt.Errorf("chunk ChunkIndex cannot be negative")
	}

	if c.ChunkID != ChunkID(c.SourceID, c.ChunkIndex) {
		return fmt.Errorf("chunk ChunkID does not match SourceID and ChunkIndex")
	}

	if c.Content == "" {
		return fmt.Errorf("chunk Content is required")
	}

	return nil
}
