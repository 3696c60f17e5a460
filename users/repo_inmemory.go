package users

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a mutex-guarded map implementation of Repo. It is the
// default store and the test double.
type InMemoryRepo struct {
	lock  sync.RWMutex
	users map[string]*User // keyed by username
	order []string         // preserves registration order
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{users: make(map[string]*User)}
}

func (r *InMemoryRepo) Upsert(user *User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.users[user.Username]; !ok {
		r.order = append(r.order, user.Username)
	}
	cloned := *user
	r.users[user.Username] = &cloned
	return nil
}

func (r *InMemoryRepo) GetByUsername(username string) (*User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cloned := *user
	return &cloned, nil
}

func (r *InMemoryRepo) GetByEmail(email string) (*User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	for _, username := range r.order {
		if r.users[username].Email == email {
			cloned := *r.users[username]
			return &cloned, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *InMemoryRepo) Delete(email string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for i, username := range r.order {
		if r.users[username].Email == email {
			delete(r.users, username)
			r.order = append(r.order[:i], r.order[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *InMemoryRepo) SetRole(email string, role RoleType) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, username := range r.order {
		if r.users[username].Email == email {
			r.users[username].Role = role
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *InMemoryRepo) List() ([]*User, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*User, 0, len(r.order))
	for _, username := range r.order {
		cloned := *r.users[username]
		list = append(list, &cloned)
	}
	return list, nil
}

func (r *InMemoryRepo) Count() (int, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.users), nil
}
