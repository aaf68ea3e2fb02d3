// Package index implements the persisted vector index over document chunks.
//
// An index lives in a single directory under the data dir. Builds are written
// to a temporary sibling directory and swapped into place by rename, so a
// concurrent reader observes either the previous index or the new one, never
// a partially written state. Loaded indexes are immutable snapshots; the
// store hands the current snapshot to each query.
package index

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
	"github.com/google/uuid"
)

const (
	indexDirName     = "index"
	manifestFileName = "manifest.json"
	vectorsFileName  = "vectors.gob"
	chunksFileName   = "chunks.json"

	// DefaultTopK is the default number of results returned by Search
	DefaultTopK = 5
)

// Embedder is the external embedding provider. The same model identity must
// be used at build and search time; the manifest records it and Load rejects
// a mismatch.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	ModelID() string
	Dimensions() int
}

// Manifest describes a persisted index build.
type Manifest struct {
	BuildID    string    `json:"build_id"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	Documents  int       `json:"documents"`
	Chunks     int       `json:"chunks"`
	BuiltAt    time.Time `json:"built_at"`
}

// Store manages the on-disk index and the in-memory serving snapshot.
type Store struct {
	dataDir  string
	embedder Embedder

	buildMu sync.Mutex
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store rooted at dataDir. No I/O happens until Load or
// Build is called.
func NewStore(dataDir string, embedder Embedder) *Store {
	return &Store{
		dataDir:  dataDir,
		embedder: embedder,
	}
}

func (s *Store) indexDir() string {
	return filepath.Join(s.dataDir, indexDirName)
}

// Build embeds every chunk and replaces any prior index. The previous index
// stays intact (on disk and in memory) if the build fails at any point.
func (s *Store) Build(ctx context.Context, chunks []domain.DocumentChunk) error {
	if len(chunks) == 0 {
		return domain.ErrIndexBuildEmpty
	}
	if s.embedder == nil {
		return domain.ErrEmbeddingUnavailable
	}

	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	vectors := make([][]float32, 0, len(chunks))
	docs := make(map[string]struct{}, len(chunks))
	for _, chunk := range chunks {
		if err := domain.ValidateDocumentChunk(&chunk); err != nil {
			return domain.IndexBuildError(err)
		}
		vector, err := s.embedder.GenerateEmbedding(ctx, chunk.Content)
		if err != nil {
			return domain.IndexBuildError(fmt.Errorf("embedding chunk %s: %w", chunk.ChunkID, err))
		}
		vectors = append(vectors, normalize(vector))
		docs[chunk.SourceID] = struct{}{}
	}

	manifest := Manifest{
		BuildID:    uuid.NewString(),
		Model:      s.embedder.ModelID(),
		Dimensions: s.embedder.Dimensions(),
		Documents:  len(docs),
		Chunks:     len(chunks),
		BuiltAt:    time.Now().UTC(),
	}

	snapshot := &Snapshot{
		manifest: manifest,
		vectors:  vectors,
		chunks:   chunks,
	}

	if err := s.persist(snapshot); err != nil {
		return domain.IndexBuildError(err)
	}

	s.current.Store(snapshot)
	return nil
}

// persist writes the snapshot to a temp directory and swaps it into place.
func (s *Store) persist(snapshot *Snapshot) error {
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmpDir, err := os.MkdirTemp(s.dataDir, indexDirName+".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp index dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	if err := writeGob(filepath.Join(tmpDir, vectorsFileName), snapshot.vectors); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmpDir, chunksFileName), snapshot.chunks); err != nil {
		return err
	}
	// Manifest last: its presence marks the directory complete.
	if err := writeJSON(filepath.Join(tmpDir, manifestFileName), snapshot.manifest); err != nil {
		return err
	}

	target := s.indexDir()
	oldDir := ""
	if _, err := os.Stat(target); err == nil {
		oldDir = target + ".old-" + snapshot.manifest.BuildID
		if err := os.Rename(target, oldDir); err != nil {
			return fmt.Errorf("failed to retire previous index: %w", err)
		}
	}
	if err := os.Rename(tmpDir, target); err != nil {
		if oldDir != "" {
			_ = os.Rename(oldDir, target)
		}
		return fmt.Errorf("failed to activate new index: %w", err)
	}
	if oldDir != "" {
		_ = os.RemoveAll(oldDir)
	}
	return nil
}

// Load reads a persisted index into the serving snapshot. An absent index is
// not an error: Load returns (nil, nil) and retrieval stays unavailable.
func (s *Store) Load() (*Snapshot, error) {
	manifest, err := s.ReadManifest()
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, nil
	}

	if s.embedder != nil && manifest.Model != s.embedder.ModelID() {
		return nil, domain.ErrIndexModelMismatch
	}

	var vectors [][]float32
	if err := readGob(filepath.Join(s.indexDir(), vectorsFileName), &vectors); err != nil {
		return nil, fmt.Errorf("failed to read index vectors: %w", err)
	}

	var chunks []domain.DocumentChunk
	if err := readJSON(filepath.Join(s.indexDir(), chunksFileName), &chunks); err != nil {
		return nil, fmt.Errorf("failed to read index chunks: %w", err)
	}

	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("index is inconsistent: %d vectors, %d chunks", len(vectors), len(chunks))
	}

	snapshot := &Snapshot{
		manifest: *manifest,
		vectors:  vectors,
		chunks:   chunks,
	}
	s.current.Store(snapshot)
	return snapshot, nil
}

// ReadManifest reads the persisted manifest without loading vectors.
// Returns (nil, nil) when no index exists.
func (s *Store) ReadManifest() (*Manifest, error) {
	path := filepath.Join(s.indexDir(), manifestFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var manifest Manifest
	if err := readJSON(path, &manifest); err != nil {
		return nil, fmt.Errorf("failed to read index manifest: %w", err)
	}
	return &manifest, nil
}

// Snapshot returns the currently served snapshot, or nil when no index is
// loaded.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Ready reports whether an index is loaded and retrieval is available.
func (s *Store) Ready() bool {
	return s.current.Load() != nil
}

// Search embeds the query and returns the top-k chunks by cosine similarity.
// Returns an empty slice when no index is loaded.
func (s *Store) Search(ctx context.Context, query string, k int) ([]domain.RetrievedResult, error) {
	snapshot := s.current.Load()
	if snapshot == nil {
		return []domain.RetrievedResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	return snapshot.search(normalize(vector), k), nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeGob(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(v)
}

func readGob(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewDecoder(f).Decode(v)
}
