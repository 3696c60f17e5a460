// Package auth implements signup and sign-in on top of the identity store,
// the session manager and the escalation ledger. Handlers stay thin; every
// rule lives here.
package auth

import (
	"github.com/devunion/storefront-auth/approvals"
	"github.com/devunion/storefront-auth/gate"
	"github.com/devunion/storefront-auth/internal/config"
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
)

// Repos holds all repository dependencies for the Service.
type Repos struct {
	Users users.Repo
}

// Service runs registration and login. Session state is per browser tab, so
// callers pass the tab-scoped session manager into each call instead of the
// Service owning one.
type Service struct {
	repos  Repos
	ledger *approvals.Ledger
	admin  config.AdminConfig
}

// NewService initializes a Service with required dependencies.
func NewService(repos Repos, ledger *approvals.Ledger, admin config.AdminConfig) (*Service, error) {
	if repos.Users == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewService] Users repo is required")
	}
	if ledger == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewService] ledger is required")
	}
	if admin == nil {
		return nil, apperrors.Wrapf(apperrors.ErrInternal, "[NewService] admin config is required")
	}

	return &Service{
		repos:  repos,
		ledger: ledger,
		admin:  admin,
	}, nil
}

// LoginResult reports the outcome of a credential check. Exactly one of
// Error or Session is set. When Prompt is true the caller still owes an
// intent choice before landing anywhere.
type LoginResult struct {
	Session     *sessions.Session `json:"session,omitempty"`
	Prompt      bool              `json:"prompt"`
	Landing     gate.Landing      `json:"landing,omitempty"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Login checks credentials and, when they hold, creates a fresh session and
// marks it active. Field-level errors and the banner errors (unknown
// username, wrong password) are reported on the result, not as Go errors;
// those are reserved for storage faults.
func (s *Service) Login(manager *sessions.Manager, username, password string) (*LoginResult, error) {
	fieldErrors := map[string]string{}
	if username == "" {
		fieldErrors["username"] = "Username required"
	}
	if password == "" {
		fieldErrors["password"] = "Field required"
	}
	if len(fieldErrors) > 0 {
		return &LoginResult{FieldErrors: fieldErrors}, nil
	}

	// Hard-coded operator bypass, kept configurable rather than fixed.
	// The major admin is synthesized, never stored, and lands in the
	// account area like any shopper.
	if s.majorAdminMatch(username, password) {
		session, err := manager.Create(&users.User{
			Username: "Major Admin",
			Email:    s.admin.GetMajorAdminEmail(),
			Role:     users.RoleMajorAdmin,
		})
		if err != nil {
			return nil, apperrors.Wrapf(err, "[Service.Login] major admin session")
		}
		return &LoginResult{Session: session, Landing: gate.LandingAccount}, nil
	}

	user, err := s.repos.Users.GetByUsername(username)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			return &LoginResult{Error: apperrors.ErrUnknownUsername.Error()}, nil
		}
		return nil, apperrors.Wrapf(err, "[Service.Login] GetByUsername")
	}

	if user.Password != password {
		return &LoginResult{Error: apperrors.ErrWrongPassword.Error()}, nil
	}

	session, err := manager.Create(user)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Login] create session")
	}

	// Main admins skip the intent prompt and get the landing choice.
	if gate.DecideSignInBranch(session, "") == gate.BranchMainAdmin {
		return &LoginResult{
			Session: session,
			Landing: gate.ResolveLanding(user, s.admin.GetReservedMainAdminEmail()),
		}, nil
	}

	return &LoginResult{Session: session, Prompt: true, Landing: gate.LandingAccount}, nil
}

// IntentResult is the outcome of the post-login intent step.
type IntentResult struct {
	Branch       gate.Branch             `json:"branch"`
	Session      *sessions.Session       `json:"session,omitempty"`
	RequestFiled bool                    `json:"requestFiled,omitempty"`
	Redeem       *approvals.RedeemResult `json:"redeem,omitempty"`
	Message      string                  `json:"message,omitempty"`
}

// Intent runs the sign-in branch chosen after a successful credential check.
// A minor-admin intent without a code files a review request and the session
// proceeds in plain user mode; with a code it attempts redemption, and a
// valid code upgrades both the stored user record and the live session.
func (s *Service) Intent(manager *sessions.Manager, intent, code string) (*IntentResult, error) {
	session, err := manager.Active()
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Intent] active session")
	}
	if session == nil {
		return nil, apperrors.ErrNoActiveSession
	}

	branch := gate.DecideSignInBranch(session, intent)
	if branch != gate.BranchMinorAdminFlow {
		return &IntentResult{Branch: branch, Session: session}, nil
	}

	if code == "" {
		if _, err := s.ledger.Submit(session.Username, session.Email); err != nil {
			return nil, apperrors.Wrapf(err, "[Service.Intent] submit request")
		}
		return &IntentResult{
			Branch:       branch,
			Session:      session,
			RequestFiled: true,
			Message:      "Request sent to the main admin. Enter the approval code when it arrives.",
		}, nil
	}

	result, err := s.ledger.Redeem(session.Username, code)
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Intent] redeem")
	}
	if !result.Valid {
		return &IntentResult{Branch: branch, Session: session, Redeem: &result}, nil
	}

	role := users.RoleMinorAdmin
	session, err = manager.UpdateActive(sessions.Patch{Role: &role})
	if err != nil {
		return nil, apperrors.Wrapf(err, "[Service.Intent] session role upgrade")
	}
	return &IntentResult{Branch: branch, Session: session, Redeem: &result}, nil
}

// Logout tears down the active session. Calling it twice is harmless.
func (s *Service) Logout(manager *sessions.Manager) error {
	return manager.DestroyActive()
}

func (s *Service) majorAdminMatch(username, password string) bool {
	email := s.admin.GetMajorAdminEmail()
	secret := s.admin.GetMajorAdminPassword()
	return email != "" && secret != "" && username == email && password == secret
}
