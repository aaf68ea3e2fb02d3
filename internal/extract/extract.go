// Package extract converts uploaded files into plain text for ingestion.
// Extraction is a thin boundary: the chunking and indexing pipeline only
// sees the text an Extractor produced.
package extract

import (
	"path/filepath"
	"strings"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// Extractor converts raw file bytes into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
	SourceType() domain.SourceType
}

// Registry maps file extensions to extractors.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the built-in extractors: PDF, plus
// plaintext/markdown handled as wiki-style text documents.
func NewRegistry() *Registry {
	r := &Registry{byExt: map[string]Extractor{}}

	plain := &PlainText{}
	r.Register(".txt", plain)
	r.Register(".text", plain)
	r.Register(".md", plain)
	r.Register(".markdown", plain)
	r.Register(".pdf", &PDF{})

	return r
}

// Register adds or replaces the extractor for an extension (".pdf" form).
func (r *Registry) Register(ext string, e Extractor) {
	r.byExt[strings.ToLower(ext)] = e
}

// Extract runs the extractor matching the filename's extension.
func (r *Registry) Extract(filename string, data []byte) (string, domain.SourceType, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	extractor, ok := r.byExt[ext]
	if !ok {
		return "", "", domain.ErrUnsupportedFile
	}

	text, err := extractor.Extract(data)
	if err != nil {
		return "", "", err
	}
	return text, extractor.SourceType(), nil
}

// PlainText passes file contents through unchanged.
type PlainText struct{}

func (e *PlainText) Extract(data []byte) (string, error) {
	return string(data), nil
}

func (e *PlainText) SourceType() domain.SourceType {
	return domain.SourceTypeWiki
}
