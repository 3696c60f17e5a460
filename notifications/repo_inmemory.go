package notifications

import "sync"

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	lock    sync.RWMutex
	entries []Entry
	cap     int
}

// NewInMemoryRepo creates a capped in-memory log. A non-positive cap falls
// back to DefaultCap.
func NewInMemoryRepo(logCap int) *InMemoryRepo {
	if logCap <= 0 {
		logCap = DefaultCap
	}
	return &InMemoryRepo{cap: logCap}
}

func (r *InMemoryRepo) Record(entry Entry) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.entries = prepend(r.entries, entry, r.cap)
	return nil
}

func (r *InMemoryRepo) List() ([]Entry, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	list := make([]Entry, len(r.entries))
	copy(list, r.entries)
	return list, nil
}

func prepend(entries []Entry, entry Entry, logCap int) []Entry {
	updated := append([]Entry{entry}, entries...)
	if len(updated) > logCap {
		updated = updated[:logCap]
	}
	return updated
}
