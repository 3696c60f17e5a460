// Package approvals tracks per-user requests for minor-admin access: their
// lifecycle, issued one-time codes and redemption state.
package approvals

import "time"

// Status is the lifecycle state of a request. PENDING moves to APPROVED or
// REJECTED under main-admin action; REJECTED is terminal.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Request is one outstanding escalation request, keyed by username. Code and
// ExpiresAt are set exactly while the request is APPROVED and unredeemed.
type Request struct {
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	Status        Status     `json:"status"`
	RequestedAt   time.Time  `json:"requestedAt"`
	ApprovedAt    *time.Time `json:"approvedAt"`
	RejectedAt    *time.Time `json:"rejectedAt"`
	Code          string     `json:"code"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Delivered     bool       `json:"delivered"`
	DeliveryError string     `json:"deliveryError,omitempty"`
	RedeemedAt    *time.Time `json:"redeemedAt"`
}

// Repo stores the ledger, one request per username, newest first.
type Repo interface {
	Upsert(request *Request) error
	Get(username string) (*Request, error)
	List() ([]*Request, error)
}
