package notifications

import (
	"sync"

	"github.com/devunion/storefront-auth/internal/filestore"
)

const notificationsTable = "minor_notifications"

var _ Repo = (*FileRepo)(nil)

type FileRepo struct {
	store *filestore.Store
	cap   int
	lock  sync.Mutex
}

func NewFileRepo(store *filestore.Store, logCap int) *FileRepo {
	if logCap <= 0 {
		logCap = DefaultCap
	}
	return &FileRepo{store: store, cap: logCap}
}

func (r *FileRepo) Record(entry Entry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var entries []Entry
	if _, err := r.store.Load(notificationsTable, &entries); err != nil {
		return err
	}
	return r.store.Save(notificationsTable, prepend(entries, entry, r.cap))
}

func (r *FileRepo) List() ([]Entry, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var entries []Entry
	if _, err := r.store.Load(notificationsTable, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
