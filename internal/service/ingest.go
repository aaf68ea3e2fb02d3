package service

import (
	"context"
	"log"
	"strings"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/cloo-solutions/quarry/internal/extract"
	"github.com/cloo-solutions/quarry/internal/telemetry"
	"github.com/google/uuid"
)

// IndexBuilder is the vector index as seen by ingestion.
type IndexBuilder interface {
	Build(ctx context.Context, chunks []domain.DocumentChunk) error
}

// DocumentArchive stores original uploaded files alongside the index.
type DocumentArchive interface {
	StoreDocument(ctx context.Context, sourceID, filename string, data []byte) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// IngestService turns uploaded files into UnifiedDocuments, chunks them, and
// rebuilds the vector index. A rebuild replaces the entire index.
type IngestService struct {
	index    IndexBuilder
	registry *extract.Registry
	archive  DocumentArchive
	chunkCfg ChunkConfig
	uuidGen  UUIDGenerator
}

// NewIngestService creates a new IngestService instance. archive may be nil
// when no document archive is configured.
func NewIngestService(index IndexBuilder, registry *extract.Registry, archive DocumentArchive, chunkCfg ChunkConfig) *IngestService {
	if chunkCfg.Size <= 0 {
		chunkCfg = DefaultChunkConfig()
	}
	return &IngestService{
		index:    index,
		registry: registry,
		archive:  archive,
		chunkCfg: chunkCfg,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// IngestFile is one uploaded file at the ingestion boundary.
type IngestFile struct {
	Filename string
	Data     []byte
}

// IngestResult reports what a rebuild indexed.
type IngestResult struct {
	Documents int
	Chunks    int
}

// Ingest extracts, chunks, and indexes the given files, replacing any prior
// index. Original files are archived best-effort after a successful build.
func (s *IngestService) Ingest(ctx context.Context, files []IngestFile) (*IngestResult, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoDocuments
	}

	docs := make([]*domain.UnifiedDocument, 0, len(files))
	chunks := make([]domain.DocumentChunk, 0, len(files))

	for _, file := range files {
		text, sourceType, err := s.registry.Extract(file.Filename, file.Data)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "failed to extract "+file.Filename, err)
		}
		if strings.TrimSpace(text) == "" {
			return nil, domain.ErrEmptyDocument
		}

		doc := domain.NewUnifiedDocument(
			s.uuidGen.NewString(),
			sourceType,
			file.Filename,
			text,
			map[string]string{"filename": file.Filename},
		)
		if err := domain.ValidateUnifiedDocument(doc); err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid document", err)
		}
		docs = append(docs, doc)

		for i, window := range ChunkText(doc.Content, s.chunkCfg) {
			chunks = append(chunks, *domain.NewDocumentChunk(doc, i, window))
		}
	}

	if err := s.index.Build(ctx, chunks); err != nil {
		return nil, err
	}

	if s.archive != nil {
		for i, doc := range docs {
			if err := s.archive.StoreDocument(ctx, doc.SourceID, files[i].Filename, files[i].Data); err != nil {
				log.Printf("failed to archive %s: %v", files[i].Filename, err)
				telemetry.CaptureError(ctx, err)
			}
		}
	}

	return &IngestResult{
		Documents: len(docs),
		Chunks:    len(chunks),
	}, nil
}
