package approvals

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/filestore"
)

const requestsTable = "minor_requests"

var _ Repo = (*FileRepo)(nil)

type FileRepo struct {
	store *filestore.Store
	lock  sync.Mutex
}

func NewFileRepo(store *filestore.Store) *FileRepo {
	return &FileRepo{store: store}
}

func (r *FileRepo) load() ([]Request, error) {
	var list []Request
	if _, err := r.store.Load(requestsTable, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *FileRepo) Upsert(request *Request) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return err
	}
	for i := range list {
		if list[i].Username == request.Username {
			list[i] = *request
			return r.store.Save(requestsTable, list)
		}
	}
	// new requests go to the front, matching the admin view's ordering
	return r.store.Save(requestsTable, append([]Request{*request}, list...))
}

func (r *FileRepo) Get(username string) (*Request, error) {
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
	return nil, apperrors.ErrRequestNotFound
}

func (r *FileRepo) List() ([]*Request, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	list, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]*Request, 0, len(list))
	for i := range list {
		cloned := list[i]
		out = append(out, &cloned)
	}
	return out, nil
}
