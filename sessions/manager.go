package sessions

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/users"
)

// Manager creates, resolves, mutates and destroys the active session for one
// client context. The durable collection and the volatile active pointer are
// injected, so the same manager drives the in-memory core, the file-backed
// store and the cookie-bound server context.
type Manager struct {
	repo     Repo
	active   ActivePointer
	legacy   LegacyStore
	notifier *Notifier
	nowTime  func() time.Time
	newID    func() string
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLegacyStore enables the one-shot migration of a pre-collection
// single-session record.
func WithLegacyStore(store LegacyStore) ManagerOption {
	return func(m *Manager) {
		m.legacy = store
	}
}

// WithNotifier publishes mode changes to the given notifier.
func WithNotifier(notifier *Notifier) ManagerOption {
	return func(m *Manager) {
		m.notifier = notifier
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithIDGenerator sets the session id generator (primarily for testing)
func WithIDGenerator(fn func() string) ManagerOption {
	return func(m *Manager) {
		m.newID = fn
	}
}

func NewManager(repo Repo, active ActivePointer, options ...ManagerOption) *Manager {
	m := &Manager{
		repo:    repo,
		active:  active,
		nowTime: time.Now,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Create stores a fresh session for user and marks it active. Subsequent
// Active calls return it until logout or replacement.
func (m *Manager) Create(user *users.User) (*Session, error) {
	session := &Session{
		ID:        m.newID(),
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		Mode:      ModeUser,
		CreatedAt: m.nowTime(),
	}
	if err := m.repo.Upsert(session); err != nil {
		return nil, apperrors.Wrapf(err, "[Manager.Create] upsert")
	}
	m.active.Set(session.ID)
	return session, nil
}

// Active resolves the active session. A stale pointer (record missing from
// the collection) is cleared and nil is returned. When no pointer exists but
// a legacy single-session record is found, that record is migrated into the
// collection, promoted to active and deleted from its old slot; the deletion
// makes the migration run at most once per record.
func (m *Manager) Active() (*Session, error) {
	id := m.active.Get()
	if id == "" {
		return m.migrateLegacy()
	}

	session, err := m.repo.Get(id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrSessionNotFound) {
			m.active.Clear()
			return nil, nil
		}
		return nil, apperrors.Wrapf(err, "[Manager.Active] get")
	}
	if session.Mode == "" {
		session.Mode = ModeUser
	}
	return session, nil
}

func (m *Manager) migrateLegacy() (*Session, error) {
	if m.legacy == nil {
		return nil, nil
	}
	legacy, found, err := m.legacy.Get()
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Manager.Active] legacy get")
	}
	if !found {
		return nil, nil
	}

	migrated, err := m.Create(&users.User{
		Username: legacy.Username,
		Email:    legacy.Email,
		Role:     legacy.Role,
	})
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Manager.Active] legacy migrate")
	}
	if legacy.Mode != "" && legacy.Mode != ModeUser {
		if migrated, err = m.UpdateActive(Patch{Mode: &legacy.Mode}); err != nil {
			return nil, apperrors.Wrapf(err, "[Manager.Active] legacy mode")
		}
	}
	if err := m.legacy.Delete(); err != nil {
		return nil, apperrors.Wrapf(err, "[Manager.Active] legacy delete")
	}
	return migrated, nil
}

// IsAuthenticated reports whether an active session exists with both a
// username and a role.
func (m *Manager) IsAuthenticated() bool {
	session, err := m.Active()
	if err != nil || session == nil {
		return false
	}
	return session.Username != "" && session.Role != ""
}

// UpdateActive merges patch into the active session's stored record.
func (m *Manager) UpdateActive(patch Patch) (*Session, error) {
	session, err := m.Active()
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperrors.ErrNoActiveSession
	}

	if patch.Email != nil {
		session.Email = *patch.Email
	}
	if patch.Role != nil {
		session.Role = *patch.Role
	}
	if patch.Mode != nil {
		session.Mode = *patch.Mode
	}
	if err := m.repo.Upsert(session); err != nil {
		return nil, apperrors.Wrapf(err, "[Manager.UpdateActive] upsert")
	}
	return session, nil
}

// SetActiveMode switches the active session's operating mode and publishes
// the change. An empty mode reads the current session back unchanged.
func (m *Manager) SetActiveMode(mode string) (*Session, error) {
	if mode == "" {
		return m.Active()
	}
	session, err := m.UpdateActive(Patch{Mode: &mode})
	if err != nil {
		return nil, err
	}
	if m.notifier != nil {
		m.notifier.Publish(mode)
	}
	return session, nil
}

// ActiveMode returns the active session's mode, defaulting to user mode.
func (m *Manager) ActiveMode() string {
	session, err := m.Active()
	if err != nil || session == nil || session.Mode == "" {
		return ModeUser
	}
	return session.Mode
}

// DestroyActive removes the active session from the collection and clears
// the pointer. Calling it with no active session is a no-op.
func (m *Manager) DestroyActive() error {
	id := m.active.Get()
	if id == "" {
		return nil
	}
	if err := m.repo.Delete(id); err != nil {
		return apperrors.Wrapf(err, "[Manager.DestroyActive] delete")
	}
	m.active.Clear()
	return nil
}
