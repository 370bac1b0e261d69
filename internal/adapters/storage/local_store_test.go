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

func TestLocalStorePutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:3000/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	url, err := store.Put(ctx, "eventImages/flyer.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/uploads/eventImages/flyer.png", url)

	data, err := os.ReadFile(filepath.Join(store.Root(), "eventImages", "flyer.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, store.Delete(ctx, "eventImages/flyer.png"))
	_, err = os.Stat(filepath.Join(store.Root(), "eventImages", "flyer.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx, "eventImages/flyer.png"))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = store.Put(context.Background(), "", strings.NewReader("x"), 1, "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestLocalStorePing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "local", store.Name())
}
