package walletstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	_, ok := store.SelectedAddress()
	assert.False(t, ok, "fresh store has no session")

	require.NoError(t, store.SaveSelectedAddress("5Grw...Alice"))

	addr, ok := store.SelectedAddress()
	require.True(t, ok)
	assert.Equal(t, "5Grw...Alice", addr)

	// A new store instance reads the same file back.
	reopened := NewFileStore(path)
	addr, ok = reopened.SelectedAddress()
	require.True(t, ok)
	assert.Equal(t, "5Grw...Alice", addr)
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	require.NoError(t, store.SaveSelectedAddress("5Grw...Alice"))
	require.NoError(t, store.Clear())

	_, ok := store.SelectedAddress()
	assert.False(t, ok)

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "clear removes the session file")

	// Clearing an already-empty store is not an error.
	assert.NoError(t, store.Clear())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewFileStore(path)
	_, ok := store.SelectedAddress()
	assert.False(t, ok, "a corrupt session file reads as an empty session")
}
