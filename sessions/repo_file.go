package sessions

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/filestore"
)

const (
	sessionsTable      = "sessions"
	legacySessionTable = "legacy_session"
)

var _ Repo = (*FileRepo)(nil)

// FileRepo keeps the session collection in a JSON table. The active pointer
// is deliberately not persisted here; it is volatile per client context.
type FileRepo struct {
	store *filestore.Store
	lock  sync.Mutex
}

func NewFileRepo(store *filestore.Store) *FileRepo {
	return &FileRepo{store: store}
}

func (r *FileRepo) load() ([]Session, error) {
	var list []Session
	if _, err := r.store.Load(sessionsTable, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FileRepo) Upsert(session *Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == session.ID {
			list[i] = *session
			return r.store.Save(sessionsTable, list)
		}
	}
	return r.store.Save(sessionsTable, append(list, *session))
}

func (r *FileRepo) Get(id string) (*Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			cloned := list[i]
			return &cloned, nil
		}
	}
	return nil, apperrors.ErrSessionNotFound
}

func (r *FileRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].ID == id {
			return r.store.Save(sessionsTable, append(list[:i], list[i+1:]...))
		}
	}
	return nil
}

func (r *FileRepo) List() ([]*Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*Session, 0, len(list))
	for i := range list {
		cloned := list[i]
		out = append(out, &cloned)
	}
	return out, nil
}

var _ LegacyStore = (*FileLegacyStore)(nil)

// FileLegacyStore reads the single-record table older builds wrote before
// sessions became a collection.
type FileLegacyStore struct {
	store *filestore.Store
}

func NewFileLegacyStore(store *filestore.Store) *FileLegacyStore {
	return &FileLegacyStore{store: store}
}

func (s *FileLegacyStore) Get() (*Session, bool, error) {
	var session Session
	found, err := s.store.Load(legacySessionTable, &session)
	if err != nil || !found {
		return nil, false, err
	}
	return &session, true, nil
}

func (s *FileLegacyStore) Delete() error {
	return s.store.Delete(legacySessionTable)
}
