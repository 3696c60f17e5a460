// Package dispatch delivers one-time approval codes to users. The storefront
// "emails" codes through the main admin's SMTP account; when those
// credentials are not configured the failure is reported with a reason the
// ledger records, and the underlying request stays actionable.
package dispatch

import "time"

// Delivery failure reasons recorded on requests and audit entries.
const (
	ReasonMissingCredentials = "missing-credentials"
	ReasonSendFailed         = "send-failed"
)

// Message is one approval-code delivery.
type Message struct {
	Username  string
	Email     string
	Code      string
	ExpiresAt time.Time
}

// Dispatcher attempts to deliver a message. Implementations return *Error so
// callers can record the failure reason.
type Dispatcher interface {
	Send(msg Message) error
	Sender() string
}

// Error is a delivery failure with a stable reason string.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FailureReason extracts the recorded reason from a delivery error.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}
	if devErr, ok := err.(*Error); ok {
		return devErr.Reason
	}
	return ReasonSendFailed
}
