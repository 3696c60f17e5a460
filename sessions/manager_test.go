package sessions_test

import (
	"testing"

	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, options ...sessions.ManagerOption) (*sessions.Manager, *sessions.InMemoryRepo, *sessions.InMemoryPointer) {
	t.Helper()
	repo := sessions.NewInMemoryRepo()
	pointer := sessions.NewInMemoryPointer()
	return sessions.NewManager(repo, pointer, options...), repo, pointer
}

func jane() *users.User {
	return &users.User{Username: "jane", Email: "jane@x.com", Password: "Abcd1234", Role: users.RoleUser}
}

func TestManager_CreateMarksActive(t *testing.T) {
	mgr, _, _ := newManager(t)

	created, err := mgr.Create(jane())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, sessions.ModeUser, created.Mode)

	active, err := mgr.Active()
	require.NoError(t, err)
	require.Equal(t, created.ID, active.ID)
	require.Equal(t, "jane", active.Username)
	require.Equal(t, users.RoleUser, active.Role)
	require.True(t, mgr.IsAuthenticated())
}

func TestManager_UniqueIDs(t *testing.T) {
	mgr, _, _ := newManager(t)

	first, err := mgr.Create(jane())
	require.NoError(t, err)
	second, err := mgr.Create(jane())
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	// replacement: the second session is now active, the first still stored
	active, err := mgr.Active()
	require.NoError(t, err)
	require.Equal(t, second.ID, active.ID)
}

func TestManager_StalePointerSelfHeals(t *testing.T) {
	mgr, repo, pointer := newManager(t)

	created, err := mgr.Create(jane())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(created.ID))

	active, err := mgr.Active()
	require.NoError(t, err)
	require.Nil(t, active)
	require.Empty(t, pointer.Get())
	require.False(t, mgr.IsAuthenticated())
}

func TestManager_LegacyMigrationRunsOnce(t *testing.T) {
	repo := sessions.NewInMemoryRepo()
	pointer := sessions.NewInMemoryPointer()
	legacy := sessions.NewInMemoryLegacyStore()
	legacy.Put(&sessions.Session{Username: "jane", Email: "jane@x.com", Role: users.RoleMinorAdmin, Mode: sessions.ModeMinorAdmin})

	mgr := sessions.NewManager(repo, pointer, sessions.WithLegacyStore(legacy))

	migrated, err := mgr.Active()
	require.NoError(t, err)
	require.NotNil(t, migrated)
	require.NotEmpty(t, migrated.ID)
	require.Equal(t, "jane", migrated.Username)
	require.Equal(t, users.RoleMinorAdmin, migrated.Role)
	require.Equal(t, sessions.ModeMinorAdmin, migrated.Mode)

	// the legacy record is gone; clearing the pointer must not resurrect it
	_, found, err := legacy.Get()
	require.NoError(t, err)
	require.False(t, found)

	pointer.Clear()
	again, err := mgr.Active()
	require.NoError(t, err)
	require.Nil(t, again)
}

func TestManager_UpdateActive(t *testing.T) {
	mgr, _, _ := newManager(t)

	_, err := mgr.UpdateActive(sessions.Patch{})
	require.Error(t, err)

	_, err = mgr.Create(jane())
	require.NoError(t, err)

	role := users.RoleMinorAdmin
	updated, err := mgr.UpdateActive(sessions.Patch{Role: &role})
	require.NoError(t, err)
	require.Equal(t, users.RoleMinorAdmin, updated.Role)

	active, err := mgr.Active()
	require.NoError(t, err)
	require.Equal(t, users.RoleMinorAdmin, active.Role)
}

func TestManager_SetActiveMode(t *testing.T) {
	notifier := sessions.NewNotifier()
	var published []string
	notifier.Subscribe(func(mode string) { published = append(published, mode) })

	repo := sessions.NewInMemoryRepo()
	pointer := sessions.NewInMemoryPointer()
	mgr := sessions.NewManager(repo, pointer, sessions.WithNotifier(notifier))

	_, err := mgr.Create(jane())
	require.NoError(t, err)
	require.Equal(t, sessions.ModeUser, mgr.ActiveMode())

	updated, err := mgr.SetActiveMode(sessions.ModeMinorAdmin)
	require.NoError(t, err)
	require.Equal(t, sessions.ModeMinorAdmin, updated.Mode)
	require.Equal(t, sessions.ModeMinorAdmin, mgr.ActiveMode())
	require.Equal(t, []string{sessions.ModeMinorAdmin}, published)

	// empty mode reads back the current session without publishing
	same, err := mgr.SetActiveMode("")
	require.NoError(t, err)
	require.Equal(t, sessions.ModeMinorAdmin, same.Mode)
	require.Len(t, published, 1)
}

func TestManager_DestroyActiveIdempotent(t *testing.T) {
	mgr, repo, pointer := newManager(t)

	require.NoError(t, mgr.DestroyActive())

	created, err := mgr.Create(jane())
	require.NoError(t, err)
	require.NoError(t, mgr.DestroyActive())
	require.Empty(t, pointer.Get())

	_, err = repo.Get(created.ID)
	require.Error(t, err)

	require.NoError(t, mgr.DestroyActive())
	require.False(t, mgr.IsAuthenticated())
}

func TestManager_FileBackedContext(t *testing.T) {
	// sessions survive a context restart, the pointer does not
	folder := t.TempDir()
	store := newFileStore(t, folder)
	repo := sessions.NewFileRepo(store)
	pointer := sessions.NewInMemoryPointer()
	mgr := sessions.NewManager(repo, pointer)

	created, err := mgr.Create(jane())
	require.NoError(t, err)

	freshPointer := sessions.NewInMemoryPointer()
	fresh := sessions.NewManager(sessions.NewFileRepo(newFileStore(t, folder)), freshPointer)
	active, err := fresh.Active()
	require.NoError(t, err)
	require.Nil(t, active)

	freshPointer.Set(created.ID)
	active, err = fresh.Active()
	require.NoError(t, err)
	require.Equal(t, "jane", active.Username)
}
