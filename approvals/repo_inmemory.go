package approvals

import (
	"sync"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	lock     sync.RWMutex
	requests map[string]*Request
	order    []string // newest first
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{requests: make(map[string]*Request)}
}

func (r *InMemoryRepo) Upsert(request *Request) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.requests[request.Username]; !ok {
		r.order = append([]string{request.Username}, r.order...)
	}
	cloned := *request
	r.requests[request.Username] = &cloned
	return nil
}

func (r *InMemoryRepo) Get(username string) (*Request, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	request, ok := r.requests[username]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	cloned := *request
	return &cloned, nil
}

func (r *InMemoryRepo) List() ([]*Request, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]*Request, 0, len(r.order))
	for _, username := range r.order {
		cloned := *r.requests[username]
		list = append(list, &cloned)
	}
	return list, nil
}
