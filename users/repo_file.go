package users

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/filestore"
)

const usersTable = "users"

var _ Repo = (*FileRepo)(nil)

// FileRepo keeps the user table in a JSON document under the data folder.
// Every mutation rewrites the whole table; the dataset is a handful of demo
// accounts, so read-modify-write over the full slice is fine.
type FileRepo struct {
	store *filestore.Store
	lock  sync.Mutex
}

func NewFileRepo(store *filestore.Store) *FileRepo {
	return &FileRepo{store: store}
}

func (r *FileRepo) load() ([]User, error) {
	var list []User
	if _, err := r.store.Load(usersTable, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FileRepo) Upsert(user *User) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].Username == user.Username {
			list[i] = *user
			return r.store.Save(usersTable, list)
		}
	}
	return r.store.Save(usersTable, append(list, *user))
}

func (r *FileRepo) GetByUsername(username string) (*User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Username == username {
			cloned := list[i]
			return &cloned, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *FileRepo) GetByEmail(email string) (*User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Email == email {
			cloned := list[i]
			return &cloned, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *FileRepo) Delete(email string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].Email == email {
			return r.store.Save(usersTable, append(list[:i], list[i+1:]...))
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *FileRepo) SetRole(email string, role RoleType) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].Email == email {
			list[i].Role = role
			return r.store.Save(usersTable, list)
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *FileRepo) List() ([]*User, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*User, 0, len(list))
	for i := range list {
		cloned := list[i]
		out = append(out, &cloned)
	}
	return out, nil
}

func (r *FileRepo) Count() (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return 0, err
	}
	return len(list), nil
}
