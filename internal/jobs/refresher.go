package jobs

import (
	"context"
	"log"

	"github.com/cloo-solutions/quarry/internal/index"
	"github.com/cloo-solutions/quarry/internal/telemetry"
)

// IndexSource exposes the persisted index and the serving snapshot.
type IndexSource interface {
	ReadManifest() (*index.Manifest, error)
	Load() (*index.Snapshot, error)
	Snapshot() *index.Snapshot
}

// IndexRefresher reloads the serving snapshot when the on-disk index was
// replaced by another process. Comparing build IDs keeps the common case to
// a single manifest read.
type IndexRefresher struct {
	source IndexSource
}

// NewIndexRefresher creates a new IndexRefresher instance
func NewIndexRefresher(source IndexSource) *IndexRefresher {
	return &IndexRefresher{source: source}
}

// Run implements the Task interface.
func (r *IndexRefresher) Run(ctx context.Context) error {
	manifest, err := r.source.ReadManifest()
	if err != nil {
		telemetry.CaptureError(ctx, err)
		return err
	}
	if manifest == nil {
		return nil
	}

	current := r.source.Snapshot()
	if current != nil && current.Manifest().BuildID == manifest.BuildID {
		return nil
	}

	if _, err := r.source.Load(); err != nil {
		telemetry.CaptureError(ctx, err)
		return err
	}

	log.Printf("Index snapshot refreshed: build %s (%d chunks)", manifest.BuildID, manifest.Chunks)
	return nil
}
