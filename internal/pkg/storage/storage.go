package storage

import (
	"context"
	"io"
)

// FileStorage keeps finished exports. Paths are relative to the storage root.
type FileStorage interface {
	// Save writes content to path, replacing any existing file, and returns
	// the location it was written to.
	Save(ctx context.Context, content io.Reader, path string) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
