package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "u1/photo.jpg", strings.NewReader("data"), 4, "image/jpeg"))
	got, err := os.ReadFile(filepath.Join(root, "u1", "photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
	assert.Equal(t, "/uploads/u1/photo.jpg", store.URL("u1/photo.jpg"))

	require.NoError(t, store.Delete(ctx, "u1/photo.jpg"))
	_, err = os.Stat(filepath.Join(root, "u1", "photo.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, "u1/photo.jpg"), "deleting a missing object is not an error")
}

func TestLocalStoreKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(filepath.Join(root, "objects"), "/uploads")
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "../../escape.jpg", strings.NewReader("x"), 1, "image/jpeg"))
	_, err = os.Stat(filepath.Join(root, "objects", "escape.jpg"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.jpg"))
	assert.True(t, os.IsNotExist(err))
}
