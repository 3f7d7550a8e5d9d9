package storage

import (
	"context"
	types "lostfound/internal/common/type"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocal(dir, "/static/uploads/")
	require.NoError(t, err)

	file := &types.BufferedFile{OriginalName: "My Wallet.JPG", MimeType: "image/jpeg", Buffer: []byte{0xff, 0xd8, 0xff}}
	saved, err := store.Save(context.Background(), file)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(saved.FileName, ".jpg"))
	assert.NotContains(t, saved.FileName, "Wallet")
	assert.Equal(t, "/static/uploads/"+saved.FileName, saved.URL)
	assert.Equal(t, "My Wallet.JPG", saved.OriginalName)
	assert.Equal(t, 3, saved.Size)

	data, err := os.ReadFile(filepath.Join(dir, saved.FileName))
	require.NoError(t, err)
	assert.Equal(t, file.Buffer, data)

	require.NoError(t, store.Delete(context.Background(), saved.FileName))
	_, err = os.Stat(filepath.Join(dir, saved.FileName))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, store.Delete(context.Background(), saved.FileName))
	assert.Error(t, store.Delete(context.Background(), "../etc/passwd"))
}

func TestLocal_RejectsEmpty(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "/u")
	require.NoError(t, err)
	_, err = store.Save(context.Background(), &types.BufferedFile{OriginalName: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyFile)
}
