package sessions_test

import (
	"testing"

	"github.com/devunion/storefront-auth/internal/filestore"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T, folder string) *filestore.Store {
	t.Helper()
	store, err := filestore.New(folder)
	require.NoError(t, err)
	return store
}
