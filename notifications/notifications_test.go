package notifications_test

import (
	"fmt"
	"testing"

	"github.com/devunion/storefront-auth/internal/filestore"
	"github.com/devunion/storefront-auth/notifications"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo_NewestFirst(t *testing.T) {
	repo := notifications.NewInMemoryRepo(0)

	require.NoError(t, repo.Record(notifications.Entry{Username: "first", Status: notifications.StatusQueued}))
	require.NoError(t, repo.Record(notifications.Entry{Username: "second", Status: notifications.StatusFailed, Reason: "missing-credentials"}))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Username)
	require.Equal(t, "first", list[1].Username)
}

func TestInMemoryRepo_CapEvictsOldest(t *testing.T) {
	repo := notifications.NewInMemoryRepo(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Record(notifications.Entry{Username: fmt.Sprintf("user-%d", i)}))
	}

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, "user-4", list[0].Username)
	require.Equal(t, "user-2", list[2].Username)
}

func TestFileRepo_CapAndOrder(t *testing.T) {
	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	repo := notifications.NewFileRepo(store, 2)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(notifications.Entry{Username: fmt.Sprintf("user-%d", i)}))
	}

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "user-2", list[0].Username)
	require.Equal(t, "user-1", list[1].Username)
}
