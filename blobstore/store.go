package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned by Get for a missing artifact. It matches
// os.ErrNotExist under errors.Is.
var ErrNotFound = os.ErrNotExist

// Store receives the artifacts of a run. Implementations must be safe for
// concurrent use.
type Store interface {
	// Put streams r into the artifact name and returns the bytes stored. The
	// artifact is visible to Get only once Put returned nil; a failed Put
	// leaves any earlier artifact of that name untouched.
	Put(ctx context.Context, name string, r io.Reader) (int64, error)

	// Get opens the artifact name and reports its size.
	Get(ctx context.Context, name string) (io.ReadCloser, int64, error)
}
