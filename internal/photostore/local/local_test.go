package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/photoalbum/internal/photostore"
)

func TestLocalPhotoStoreSaveAndGet(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	imageData := []byte("fake png data")

	key, err := store.Save(ctx, "user_1", "image/png", bytes.NewReader(imageData))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "user_1_"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, "image/png", mimeType)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, imageData, data)
}

func TestLocalPhotoStoreUniqueKeys(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	a, err := store.Save(ctx, "user_1", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "user_1", "image/jpeg", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestLocalPhotoStoreDelete(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key, err := store.Save(ctx, "user_1", "image/jpeg", strings.NewReader("test data"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, photostore.ErrNotFound)

	assert.ErrorIs(t, store.Delete(ctx, key), photostore.ErrNotFound)
}

func TestLocalPhotoStoreNotFound(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "missing.jpg")
	assert.ErrorIs(t, err, photostore.ErrNotFound)
}

func TestLocalPhotoStorePathTraversal(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = store.Get(ctx, "../../etc/passwd")
	assert.ErrorContains(t, err, "path traversal")

	_, err = store.Save(ctx, "../escape", "image/jpeg", strings.NewReader("x"))
	assert.Error(t, err)
}

func TestLocalPhotoStoreRejectsUnsupportedType(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalPhotoStore(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "user_1", "image/webp", strings.NewReader("x"))
	assert.ErrorContains(t, err, "unsupported image type")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalPhotoStoreFailedWriteLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalPhotoStore(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "user_1", "image/jpeg", iotest.ErrReader(errors.New("boom")))
	assert.ErrorContains(t, err, "boom")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalPhotoStoreCancelledContext(t *testing.T) {
	store, err := NewLocalPhotoStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, "user_1", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMimeTypeOf(t *testing.T) {
	for mt, ext := range extensions {
		assert.Equal(t, mt, mimeTypeOf("user_1_abc"+strings.ToUpper(ext)))
	}
	assert.Equal(t, "application/octet-stream", mimeTypeOf("notes.txt"))
}
