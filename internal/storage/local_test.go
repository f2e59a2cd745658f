package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalService_SaveUpload(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewLocalService(dir)
	require.NoError(t, err)

	path, err := svc.SaveUpload(context.Background(), "evidence.jpg", strings.NewReader("jpeg bytes"))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-evidence.jpg"))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(content))
}

func TestLocalService_SaveUploadStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewLocalService(dir)
	require.NoError(t, err)

	path, err := svc.SaveUpload(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)

	// only the base name survives; the file stays inside the upload dir
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-passwd"))
}

func TestLocalService_UniqueNamesPerUpload(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewLocalService(dir)
	require.NoError(t, err)

	first, err := svc.SaveUpload(context.Background(), "same.jpg", strings.NewReader("a"))
	require.NoError(t, err)
	second, err := svc.SaveUpload(context.Background(), "same.jpg", strings.NewReader("b"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalService_ObjectURLIsThePath(t *testing.T) {
	svc, err := NewLocalService(t.TempDir())
	require.NoError(t, err)

	url, err := svc.ObjectURL(context.Background(), "data/uploads/x.jpg", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "data/uploads/x.jpg", url)
}

func TestNewLocalService_RequiresDir(t *testing.T) {
	_, err := NewLocalService("")
	require.Error(t, err)
}
