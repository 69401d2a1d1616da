package ports

import (
	"context"

	"github.com/aretw0/stepwise/pkg/domain"
)

// SnapshotStore persists the timeline snapshot.
// Implementations store exactly what they receive; trimming is the caller's job.
type SnapshotStore interface {
	// Save replaces the snapshot stored under key.
	Save(ctx context.Context, key string, groups []domain.Group) error

	// Load retrieves the snapshot stored under key.
	// Returns domain.ErrSnapshotNotFound if nothing was saved yet.
	Load(ctx context.Context, key string) ([]domain.Group, error)

	// Delete removes the snapshot. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the keys that currently hold a snapshot.
	List(ctx context.Context) ([]string, error)
}
