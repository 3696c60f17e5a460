package approvals_test

import (
	"testing"
	"time"

	"github.com/devunion/storefront-auth/approvals"
	"github.com/devunion/storefront-auth/dispatch"
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/notifications"
	"github.com/devunion/storefront-auth/users"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher records sends and fails on demand.
type fakeDispatcher struct {
	sent    []dispatch.Message
	sendErr error
}

func (d *fakeDispatcher) Send(msg dispatch.Message) error {
	if d.sendErr != nil {
		return d.sendErr
	}
	d.sent = append(d.sent, msg)
	return nil
}

func (d *fakeDispatcher) Sender() string { return "admin@devunion.tech" }

type fixture struct {
	users      *users.InMemoryRepo
	requests   *approvals.InMemoryRepo
	log        *notifications.InMemoryRepo
	dispatcher *fakeDispatcher
	ledger     *approvals.Ledger
	now        time.Time
}

func setup(t *testing.T, options ...approvals.LedgerOption) *fixture {
	t.Helper()

	f := &fixture{
		users:      users.NewInMemoryRepo(),
		requests:   approvals.NewInMemoryRepo(),
		log:        notifications.NewInMemoryRepo(0),
		dispatcher: &fakeDispatcher{},
		now:        time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
	opts := append([]approvals.LedgerOption{approvals.WithNowTime(func() time.Time { return f.now })}, options...)

	ledger, err := approvals.NewLedger(approvals.Repos{
		Requests:      f.requests,
		Users:         f.users,
		Notifications: f.log,
	}, f.dispatcher, opts...)
	require.NoError(t, err)
	f.ledger = ledger
	return f
}

func (f *fixture) registerJane(t *testing.T) {
	t.Helper()
	require.NoError(t, f.users.Upsert(&users.User{Username: "jane", Email: "jane@x.com", Password: "Abcd1234", Role: users.RoleUser}))
}

func TestLedger_SubmitIdempotent(t *testing.T) {
	f := setup(t)

	first, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusPending, first.Status)
	require.Equal(t, f.now, first.RequestedAt)

	f.now = f.now.Add(5 * time.Minute)
	second, err := f.ledger.Submit("jane", "jane@new.com")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusPending, second.Status)
	require.Equal(t, first.RequestedAt, second.RequestedAt)
	require.Equal(t, "jane@new.com", second.Email)

	list, err := f.ledger.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestLedger_SubmitNeverRevivesRejected(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	_, err = f.ledger.Reject("jane")
	require.NoError(t, err)

	again, err := f.ledger.Submit("jane", "jane@new.com")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusRejected, again.Status)
	require.NotNil(t, again.RejectedAt)
}

func TestLedger_ApproveIssuesCode(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "stale@x.com")
	require.NoError(t, err)

	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)
	require.Empty(t, approval.DeliveryError)
	require.NotEmpty(t, approval.Code)
	require.Regexp(t, `^DU-[A-Z0-9]{4}-[A-Z0-9]{4}$`, approval.Code)
	require.Equal(t, f.now, approval.ApprovedAt)
	require.Equal(t, f.now.Add(30*time.Minute), approval.ExpiresAt)

	// registered email wins over the address stored on the request
	require.Len(t, f.dispatcher.sent, 1)
	require.Equal(t, "jane@x.com", f.dispatcher.sent[0].Email)

	request, err := f.ledger.Find("jane")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusApproved, request.Status)
	require.Equal(t, approval.Code, request.Code)
	require.True(t, request.Delivered)
	require.NotNil(t, request.ExpiresAt)

	entries, err := f.log.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, notifications.StatusQueued, entries[0].Status)
	require.Equal(t, "admin@devunion.tech", entries[0].SentFrom)
}

func TestLedger_ApproveDeliveryFailureStaysPending(t *testing.T) {
	f := setup(t)
	f.registerJane(t)
	f.dispatcher.sendErr = &dispatch.Error{Reason: dispatch.ReasonMissingCredentials}

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)

	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)
	require.Equal(t, dispatch.ReasonMissingCredentials, approval.DeliveryError)
	require.Empty(t, approval.Code)

	request, err := f.ledger.Find("jane")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusPending, request.Status)
	require.Empty(t, request.Code)
	require.Nil(t, request.ApprovedAt)
	require.False(t, request.Delivered)
	require.Equal(t, dispatch.ReasonMissingCredentials, request.DeliveryError)

	entries, err := f.log.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, notifications.StatusFailed, entries[0].Status)
	require.Equal(t, dispatch.ReasonMissingCredentials, entries[0].Reason)

	// the admin retries once delivery is fixed
	f.dispatcher.sendErr = nil
	approval, err = f.ledger.Approve("jane")
	require.NoError(t, err)
	require.Empty(t, approval.DeliveryError)
	require.NotEmpty(t, approval.Code)

	request, err = f.ledger.Find("jane")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusApproved, request.Status)
	require.Empty(t, request.DeliveryError)
}

func TestLedger_ApproveUnknownRequest(t *testing.T) {
	f := setup(t)
	_, err := f.ledger.Approve("ghost")
	require.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestLedger_ApproveMissingRecipient(t *testing.T) {
	f := setup(t)

	_, err := f.ledger.Submit("jane", "")
	require.NoError(t, err)

	_, err = f.ledger.Approve("jane")
	require.ErrorIs(t, err, apperrors.ErrMissingRecipient)

	entries, err := f.log.List()
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLedger_Reject(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	_, err = f.ledger.Approve("jane")
	require.NoError(t, err)

	rejected, err := f.ledger.Reject("jane")
	require.NoError(t, err)
	require.Equal(t, approvals.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)
	require.Empty(t, rejected.Code)
	require.Nil(t, rejected.ExpiresAt)
	require.Nil(t, rejected.ApprovedAt)

	result, err := f.ledger.Redeem("jane", "DU-AAAA-BBBB")
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, approvals.ReasonPending, result.Reason)
}

func TestLedger_RejectionIsTerminal(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	_, err = f.ledger.Reject("jane")
	require.NoError(t, err)

	t.Run("approve refused", func(t *testing.T) {
		_, err := f.ledger.Approve("jane")
		require.ErrorIs(t, err, apperrors.ErrRequestNotPending)
		require.Empty(t, f.dispatcher.sent)

		request, err := f.ledger.Find("jane")
		require.NoError(t, err)
		require.Equal(t, approvals.StatusRejected, request.Status)
		require.Empty(t, request.Code)
	})

	t.Run("second reject refused", func(t *testing.T) {
		_, err := f.ledger.Reject("jane")
		require.ErrorIs(t, err, apperrors.ErrRequestNotPending)
	})
}

func TestLedger_ReapproveIssuesFreshCode(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	first, err := f.ledger.Approve("jane")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	second, err := f.ledger.Approve("jane")
	require.NoError(t, err)
	require.NotEqual(t, first.Code, second.Code)
	require.Equal(t, approvals.StatusApproved, second.Request.Status)
	require.Equal(t, f.now.Add(30*time.Minute), *second.Request.ExpiresAt)
	require.Len(t, f.dispatcher.sent, 2)
}

func TestLedger_RedeemValidationOrder(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	t.Run("no request", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", "DU-AAAA-BBBB")
		require.NoError(t, err)
		require.Equal(t, approvals.ReasonMissing, result.Reason)
	})

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)

	t.Run("empty code", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", "   ")
		require.NoError(t, err)
		require.Equal(t, approvals.ReasonMissing, result.Reason)
	})

	t.Run("still pending", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", "DU-AAAA-BBBB")
		require.NoError(t, err)
		require.Equal(t, approvals.ReasonPending, result.Reason)
	})

	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)

	t.Run("mismatch is case-sensitive", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", "du-aaaa-bbbb")
		require.NoError(t, err)
		require.Equal(t, approvals.ReasonMismatch, result.Reason)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", "  "+approval.Code+"  ")
		require.NoError(t, err)
		require.True(t, result.Valid)
	})

	t.Run("role upgrade applied and code consumed", func(t *testing.T) {
		user, err := f.users.GetByUsername("jane")
		require.NoError(t, err)
		require.Equal(t, users.RoleMinorAdmin, user.Role)

		request, err := f.ledger.Find("jane")
		require.NoError(t, err)
		require.Empty(t, request.Code)
		require.NotNil(t, request.RedeemedAt)
		require.Equal(t, approvals.StatusApproved, request.Status)
	})

	t.Run("second redemption reports used", func(t *testing.T) {
		result, err := f.ledger.Redeem("jane", approval.Code)
		require.NoError(t, err)
		require.False(t, result.Valid)
		require.Equal(t, approvals.ReasonUsed, result.Reason)
	})
}

func TestLedger_RedeemExpired(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)

	// exactly at the boundary the code is still valid
	f.now = approval.ExpiresAt
	result, err := f.ledger.Redeem("jane", approval.Code)
	require.NoError(t, err)
	require.True(t, result.Valid)
}

func TestLedger_RedeemPastExpiry(t *testing.T) {
	f := setup(t)
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)

	f.now = approval.ExpiresAt.Add(time.Second)
	result, err := f.ledger.Redeem("jane", approval.Code)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, approvals.ReasonExpired, result.Reason)

	// no silent regeneration: the user must be re-approved
	user, err := f.users.GetByUsername("jane")
	require.NoError(t, err)
	require.Equal(t, users.RoleUser, user.Role)
}

func TestLedger_CustomTTL(t *testing.T) {
	f := setup(t, approvals.WithCodeTTL(5*time.Minute))
	f.registerJane(t)

	_, err := f.ledger.Submit("jane", "jane@x.com")
	require.NoError(t, err)
	approval, err := f.ledger.Approve("jane")
	require.NoError(t, err)
	require.Equal(t, f.now.Add(5*time.Minute), approval.ExpiresAt)
}
