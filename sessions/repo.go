package sessions

// Repo is the durable session collection. Multiple sessions may be stored
// concurrently; which one is "active" is tracked separately.
type Repo interface {
	Upsert(session *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
	List() ([]*Session, error)
}

// ActivePointer is the volatile, client-context-scoped pointer to the active
// session id. The core never inspects its environment; callers inject an
// implementation (in-memory for a single context, cookie backed in the
// server).
type ActivePointer interface {
	Get() string
	Set(id string)
	Clear()
}

// LegacyStore exposes the pre-collection single-session record so it can be
// migrated into the collection exactly once and then removed.
type LegacyStore interface {
	Get() (*Session, bool, error)
	Delete() error
}
