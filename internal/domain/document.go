package domain

import (
	"fmt"
	"time"
)

// SourceType identifies where an ingested document came from
type SourceType string

const (
	SourceTypePDF  SourceType = "pdf"
	SourceTypeWeb  SourceType = "web"
	SourceTypeWiki SourceType = "wiki"
)

// UnifiedDocument represents one ingested source document.
// Instances are immutable after creation; a re-index replaces them wholesale.
type UnifiedDocument struct {
	SourceID   string
	SourceType SourceType
	Title      string
	Content    string
	Metadata   map[string]string
	IngestedAt time.Time
}

// NewUnifiedDocument creates a new UnifiedDocument instance
func NewUnifiedDocument(sourceID string, sourceType SourceType, title, content string, metadata map[string]string) *UnifiedDocument {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &UnifiedDocument{
		SourceID:   sourceID,
		SourceType: sourceType,
		Title:      title,
		Content:    content,
		Metadata:   metadata,
		IngestedAt: time.Now().UTC(),
	}
}

// ValidateUnifiedDocument validates a UnifiedDocument instance
func ValidateUnifiedDocument(d *UnifiedDocument) error {
	if d == nil {
		return fmt.Errorf("document cannot be nil")
	}

	if d.SourceID == "" {
		return fmt.Errorf("document SourceID is required")
	}

	if !isValidSourceType(d.SourceType) {
		return fmt.Errorf("document SourceType is invalid: %s", d.SourceType)
	}

	if d.Title == "" {
		return fmt.Errorf("document Title is required")
	}

	return nil
}

func isValidSourceType(t SourceType) bool {
	switch t {
	case SourceTypePDF, SourceTypeWeb, SourceTypeWiki:
		return true
	}
	return false
}
