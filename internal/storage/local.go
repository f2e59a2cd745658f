package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalService stores uploaded artifacts in a directory on disk.
type LocalService struct {
	dir string
}

func NewLocalService(dir string) (*LocalService, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalService{dir: dir}, nil
}

func (s *LocalService) SaveUpload(_ context.Context, name string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, uuid.NewString()+"-"+sanitizeName(name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}

	return path, nil
}

// ObjectURL has no meaning for local files beyond the path itself.
func (s *LocalService) ObjectURL(_ context.Context, storedPath string, _ time.Duration) (string, error) {
	return storedPath, nil
}
