package approvals

import (
	"strings"
	"time"

	"github.com/devunion/storefront-auth/dispatch"
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/notifications"
	"github.com/devunion/storefront-auth/users"
)

const defaultCodeTTL = 30 * time.Minute

// Redemption failure reasons, surfaced as distinct inline messages so the
// user knows which corrective action to take.
const (
	ReasonMissing  = "missing"
	ReasonPending  = "pending"
	ReasonUsed     = "used"
	ReasonMismatch = "mismatch"
	ReasonExpired  = "expired"
)

// Repos holds all repository dependencies for the Ledger.
type Repos struct {
	Requests      Repo
	Users         users.Repo
	Notifications notifications.Repo
}

// Ledger runs the minor-admin escalation protocol: request submission,
// main-admin approval and rejection, and one-time code redemption.
type Ledger struct {
	repos      Repos
	dispatcher dispatch.Dispatcher
	codeTTL    time.Duration
	nowTime    func() time.Time // nowTime function (injectable for testing)
	newCode    func() string
}

// LedgerOption defines a function type to modify the Ledger instance.
type LedgerOption func(*Ledger)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.nowTime = nowFunc
	}
}

// WithCodeGenerator sets the code generator (primarily for testing)
func WithCodeGenerator(fn func() string) LedgerOption {
	return func(l *Ledger) {
		l.newCode = fn
	}
}

// WithCodeTTL overrides the default 30 minute code validity window.
func WithCodeTTL(ttl time.Duration) LedgerOption {
	return func(l *Ledger) {
		if ttl > 0 {
			l.codeTTL = ttl
		}
	}
}

// NewLedger initializes a Ledger with required dependencies.
func NewLedger(repos Repos, dispatcher dispatch.Dispatcher, options ...LedgerOption) (*Ledger, error) {
	if repos.Requests == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewLedger] Requests repo is required")
	}
	if repos.Users == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewLedger] Users repo is required")
	}
	if repos.Notifications == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewLedger] Notifications repo is required")
	}
	if dispatcher == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewLedger] dispatcher is required")
	}

	ledger := &Ledger{
		repos:      repos,
		dispatcher: dispatcher,
		codeTTL:    defaultCodeTTL,
		nowTime:    time.Now,
		newCode:    GenerateCode,
	}
	for _, opt := range options {
		opt(ledger)
	}
	return ledger, nil
}

// Submit files a request for minor-admin review. Submission is idempotent: a
// repeat for the same username refreshes the contact email and nothing else,
// so the original RequestedAt survives and a REJECTED request stays
// rejected. Submitting never grants access by itself.
func (l *Ledger) Submit(username, email string) (*Request, error) {
	existing, err := l.repos.Requests.Get(username)
	if err == nil {
		existing.Email = email
		if err := l.repos.Requests.Upsert(existing); err != nil {
			return nil, apperrors.Wrapf(err, "[Ledger.Submit] refresh")
		}
		return existing, nil
	}
	if !apperrors.Is(err, apperrors.ErrRequestNotFound) {
		return nil, apperrors.Wrapf(err, "[Ledger.Submit] get")
	}

	request := &Request{
		Username:    username,
		Email:       email,
		Status:      StatusPending,
		RequestedAt: l.nowTime(),
	}
	if err := l.repos.Requests.Upsert(request); err != nil {
		return nil, apperrors.Wrapf(err, "[Ledger.Submit] upsert")
	}
	return request, nil
}

// Find returns the request for username, if any.
func (l *Ledger) Find(username string) (*Request, error) {
	return l.repos.Requests.Get(username)
}

// List returns the full ledger, newest first.
func (l *Ledger) List() ([]*Request, error) {
	return l.repos.Requests.List()
}

// Approval is the outcome of an Approve call. When delivery fails the
// request stays PENDING, DeliveryError names the reason, and no code is
// exposed to anyone.
type Approval struct {
	Request       *Request
	Code          string
	ApprovedAt    time.Time
	ExpiresAt     time.Time
	DeliveryError string
}

// Approve issues a one-time code for a pending request and attempts
// delivery. The recipient is the Identity Store's registered email for the
// username, falling back to the address stored on the request. Approval only
// takes effect once delivery succeeds; a failed dispatch leaves the request
// PENDING and retryable. Re-approving an APPROVED request issues a fresh
// code; a REJECTED request is terminal and refused. Every dispatch attempt
// is recorded on the notification log.
func (l *Ledger) Approve(username string) (*Approval, error) {
	request, err := l.repos.Requests.Get(username)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Ledger.Approve] get")
	}
	if request.Status == StatusRejected {
		return nil, apperrors.ErrRequestNotPending
	}

	recipient := request.Email
	if user, err := l.repos.Users.GetByUsername(username); err == nil && user.Email != "" {
		recipient = user.Email
	}
	if recipient == "" {
		return nil, apperrors.ErrMissingRecipient
	}

	now := l.nowTime()
	code := l.newCode()
	expiresAt := now.Add(l.codeTTL)

	sendErr := l.dispatcher.Send(dispatch.Message{
		Username:  username,
		Email:     recipient,
		Code:      code,
		ExpiresAt: expiresAt,
	})

	if sendErr != nil {
		reason := dispatch.FailureReason(sendErr)
		l.record(username, recipient, "", expiresAt, notifications.StatusFailed, reason)

		request.Email = recipient
		request.Status = StatusPending
		request.ApprovedAt = nil
		request.Code = ""
		request.ExpiresAt = nil
		request.Delivered = false
		request.DeliveryError = reason
		if err := l.repos.Requests.Upsert(request); err != nil {
			return nil, apperrors.Wrapf(err, "[Ledger.Approve] record failure")
		}
		return &Approval{Request: request, DeliveryError: reason}, nil
	}

	l.record(username, recipient, code, expiresAt, notifications.StatusQueued, "")

	request.Email = recipient
	request.Status = StatusApproved
	request.ApprovedAt = &now
	request.RejectedAt = nil
	request.Code = code
	request.ExpiresAt = &expiresAt
	request.Delivered = true
	request.DeliveryError = ""
	request.RedeemedAt = nil
	if err := l.repos.Requests.Upsert(request); err != nil {
		return nil, apperrors.Wrapf(err, "[Ledger.Approve] upsert")
	}

	return &Approval{Request: request, Code: code, ApprovedAt: now, ExpiresAt: expiresAt}, nil
}

// Reject denies a pending or approved request, revoking any unredeemed
// code. Rejection is terminal: a second Reject is refused and re-submitting
// under the same username refreshes the email only.
func (l *Ledger) Reject(username string) (*Request, error) {
	request, err := l.repos.Requests.Get(username)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Ledger.Reject] get")
	}
	if request.Status == StatusRejected {
		return nil, apperrors.ErrRequestNotPending
	}

	now := l.nowTime()
	request.Status = StatusRejected
	request.RejectedAt = &now
	request.ApprovedAt = nil
	request.Code = ""
	request.ExpiresAt = nil
	request.Delivered = false
	request.RedeemedAt = nil
	if err := l.repos.Requests.Upsert(request); err != nil {
		return nil, apperrors.Wrapf(err, "[Ledger.Reject] upsert")
	}
	return request, nil
}

// RedeemResult reports whether a presented code was accepted, and if not,
// which corrective action applies.
type RedeemResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Redeem validates a presented code and, when valid, applies the role
// upgrade: the user record becomes minor-admin, the code is consumed and
// RedeemedAt stamped. Expiry is checked lazily here, never by a background
// sweep.
func (l *Ledger) Redeem(username, code string) (RedeemResult, error) {
	request, err := l.repos.Requests.Get(username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrRequestNotFound) {
			return RedeemResult{Reason: ReasonMissing}, nil
		}
		return RedeemResult{}, apperrors.Wrapf(err, "[Ledger.Redeem] get")
	}
	if strings.TrimSpace(code) == "" {
		return RedeemResult{Reason: ReasonMissing}, nil
	}
	if request.Status != StatusApproved {
		return RedeemResult{Reason: ReasonPending}, nil
	}
	// a consumed code reports "used" even though it was nulled on redemption
	if request.RedeemedAt != nil {
		return RedeemResult{Reason: ReasonUsed}, nil
	}
	if request.Code == "" {
		return RedeemResult{Reason: ReasonPending}, nil
	}
	if strings.TrimSpace(code) != request.Code {
		return RedeemResult{Reason: ReasonMismatch}, nil
	}
	now := l.nowTime()
	if request.ExpiresAt != nil && now.After(*request.ExpiresAt) {
		return RedeemResult{Reason: ReasonExpired}, nil
	}

	user, err := l.repos.Users.GetByUsername(username)
	if err != nil {
		return RedeemResult{}, apperrors.Wrapf(err, "[Ledger.Redeem] user lookup")
	}
	if err := l.repos.Users.SetRole(user.Email, users.RoleMinorAdmin); err != nil {
		return RedeemResult{}, apperrors.Wrapf(err, "[Ledger.Redeem] role upgrade")
	}

	request.Code = ""
	request.RedeemedAt = &now
	if err := l.repos.Requests.Upsert(request); err != nil {
		return RedeemResult{}, apperrors.Wrapf(err, "[Ledger.Redeem] consume code")
	}
	return RedeemResult{Valid: true}, nil
}

func (l *Ledger) record(username, email, code string, expiresAt time.Time, status, reason string) {
	// audit logging best-effort: a full log must not block the protocol
	_ = l.repos.Notifications.Record(notifications.Entry{
		Username:     username,
		Email:        email,
		Code:         code,
		ExpiresAt:    expiresAt,
		Status:       status,
		Reason:       reason,
		SentFrom:     l.dispatcher.Sender(),
		DispatchedAt: l.nowTime(),
	})
}
