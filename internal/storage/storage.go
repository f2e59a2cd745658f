package storage

import (
	"context"
	"io"
	"time"
)

// Service stores uploaded report artifacts and hands back an opaque path.
// The pipeline stores only the returned path string; file type, size and
// content are never validated here.
type Service interface {
	SaveUpload(ctx context.Context, name string, r io.Reader) (string, error)
	ObjectURL(ctx context.Context, storedPath string, expires time.Duration) (string, error)
}
