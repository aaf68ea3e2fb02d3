package extract

import (
	"bytes"
	"fmt"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/ledongthuc/pdf"
)

// PDF extracts plain text from PDF files.
type PDF struct{}

func (e *PDF) Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	return buf.String(), nil
}

func (e *PDF) SourceType() domain.SourceType {
	return domain.SourceTypePDF
}
