package service

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cloo-solutions/quarry/internal/domain"
)

// QueryLogEntry records one answered query for offline analysis.
type QueryLogEntry struct {
	Timestamp    time.Time        `json:"ts"`
	Query        string           `json:"query"`
	Route        domain.QueryType `json:"route"`
	ForcedWeb    bool             `json:"forced_web"`
	LocalResults int              `json:"local_results"`
	WebResults   int              `json:"web_results"`
	Answered     bool             `json:"answered"`
	DurationMS   int64            `json:"duration_ms"`
}

// QueryLogRepository persists query log entries.
type QueryLogRepository interface {
	Append(ctx context.Context, entry QueryLogEntry) error
}

// FileQueryLog appends JSONL entries to a log file under the data dir.
type FileQueryLog struct {
	path string
	mu   sync.Mutex
}

// NewFileQueryLog creates a query log writing to {dataDir}/queries.log.
func NewFileQueryLog(dataDir string) *FileQueryLog {
	return &FileQueryLog{path: filepath.Join(dataDir, "queries.log")}
}

// Append writes one entry as a JSON line.
func (l *FileQueryLog) Append(ctx context.Context, entry QueryLogEntry) error {
	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}
