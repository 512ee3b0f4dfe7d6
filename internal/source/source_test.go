package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"taxengine/pkg/services"
)

var _ services.DocumentSource = (*Directory)(nil)
var _ services.DocumentSource = (*Bucket)(nil)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDirectory_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.json", `{"uuid":"B"}`)
	writeFile(t, dir, "a.JSON", `{"uuid":"A"}`)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	src, err := NewDirectory(dir)
	require.NoError(t, err)

	docs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.JSON", docs[0].Name)
	assert.Equal(t, `{"uuid":"A"}`, string(docs[0].Data))
	assert.Equal(t, "b.json", docs[1].Name)
	assert.Equal(t, dir, src.Describe())
}

func TestDirectory_Missing(t *testing.T) {
	src, err := NewDirectory(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	_, err = src.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, "Load", srcErr.Op)
}

func TestDirectory_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", `{}`)
	src, err := NewDirectory(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDirectory_Empty(t *testing.T) {
	_, err := NewDirectory(" ")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewBucket_NotConfigured(t *testing.T) {
	_, err := NewBucket(context.Background(), BucketConfig{Endpoint: "localhost:9000"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestJSONKeys(t *testing.T) {
	keys, err := jsonKeys([]minio.ObjectInfo{
		{Key: "invoices/2025/b.json"},
		{Key: "invoices/2025/"},
		{Key: "invoices/a.json"},
		{Key: "invoices/readme.md"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"invoices/2025/b.json", "invoices/a.json"}, keys)

	_, err = jsonKeys([]minio.ObjectInfo{{Err: errors.New("access denied")}})
	assert.Error(t, err)
}

func TestWrapSourceError(t *testing.T) {
	assert.NoError(t, WrapSourceError("Load", nil, ""))

	wrapped := WrapSourceError("Load", ErrListFailed, "dir")
	assert.Equal(t, wrapped, WrapSourceError("Outer", wrapped, "ignored"))
	assert.Equal(t, "source: Load failed: dir: failed to list documents", wrapped.Error())
}
