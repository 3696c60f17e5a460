package sessions

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a mutex-guarded map implementation of Repo.
type InMemoryRepo struct {
	lock     sync.RWMutex
	sessions map[string]*Session
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{sessions: make(map[string]*Session)}
}

func (r *InMemoryRepo) Upsert(session *Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	cloned := *session
	r.sessions[session.ID] = &cloned
	return nil
}

func (r *InMemoryRepo) Get(id string) (*Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	cloned := *session
	return &cloned, nil
}

func (r *InMemoryRepo) Delete(id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	delete(r.sessions, id)
	return nil
}

func (r *InMemoryRepo) List() ([]*Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		cloned := *session
		list = append(list, &cloned)
	}
	return list, nil
}

var _ ActivePointer = (*InMemoryPointer)(nil)

// InMemoryPointer models one client context's volatile active-session slot.
type InMemoryPointer struct {
	lock sync.Mutex
	id   string
}

func NewInMemoryPointer() *InMemoryPointer {
	return &InMemoryPointer{}
}

func (p *InMemoryPointer) Get() string {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.id
}

func (p *InMemoryPointer) Set(id string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.id = id
}

func (p *InMemoryPointer) Clear() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.id = ""
}

var _ LegacyStore = (*InMemoryLegacyStore)(nil)

// InMemoryLegacyStore holds an optional legacy single-session record.
type InMemoryLegacyStore struct {
	lock    sync.Mutex
	session *Session
}

func NewInMemoryLegacyStore() *InMemoryLegacyStore {
	return &InMemoryLegacyStore{}
}

// Put seeds a legacy record, used when simulating pre-collection storage.
func (s *InMemoryLegacyStore) Put(session *Session) {
	s.lock.Lock()
	defer s.lock.Unlock()
	cloned := *session
	s.session = &cloned
}

func (s *InMemoryLegacyStore) Get() (*Session, bool, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.session == nil {
		return nil, false, nil
	}
	cloned := *s.session
	return &cloned, true, nil
}

func (s *InMemoryLegacyStore) Delete() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.session = nil
	return nil
}
