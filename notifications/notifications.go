// Package notifications keeps the append-only audit trail of approval-code
// dispatch attempts. Entries are newest first and the log is capped; the
// oldest entries are evicted once the cap is reached.
package notifications

import "time"

const DefaultCap = 50

// Delivery outcomes recorded per dispatch attempt.
const (
	StatusQueued = "queued"
	StatusFailed = "failed"
)

// Entry is one audit record. Failed deliveries carry a Reason and are only
// ever surfaced in the main-admin audit view, never to the requester.
type Entry struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Status       string    `json:"status"`
	Reason       string    `json:"reason,omitempty"`
	SentFrom     string    `json:"sentFrom"`
	DispatchedAt time.Time `json:"dispatchedAt"`
}

// Repo is write-only for the dispatcher and read-only for the audit view.
type Repo interface {
	Record(entry Entry) error
	List() ([]Entry, error)
}
