package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/devunion/storefront-auth/internal/filestore"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestStore_RoundTrip(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	saved := []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}}
	require.NoError(t, store.Save("records", saved))

	var loaded []record
	found, err := store.Load("records", &loaded)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, saved, loaded)
}

func TestStore_MissingTable(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	var loaded []record
	found, err := store.Load("absent", &loaded)
	require.NoError(t, err)
	require.False(t, found)
	require.Empty(t, loaded)
}

func TestStore_CorruptTableFallsBack(t *testing.T) {
	folder := t.TempDir()
	store, err := filestore.New(folder)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(folder, "records.json"), []byte("{not json"), 0o644))

	var loaded []record
	found, err := store.Load("records", &loaded)
	require.NoError(t, err)
	require.False(t, found)
}

func TestStore_Delete(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("records", []record{{Name: "a"}}))
	require.NoError(t, store.Delete("records"))
	require.NoError(t, store.Delete("records")) // idempotent

	var loaded []record
	found, err := store.Load("records", &loaded)
	require.NoError(t, err)
	require.False(t, found)
}
