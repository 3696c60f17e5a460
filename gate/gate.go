// Package gate holds the access control decisions: route guarding, landing
// resolution, sign-in branching and the session-mode invariant. Everything in
// here is a pure function over a session snapshot so callers can guard any
// surface without touching storage.
package gate

import (
	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
)

// Decision is the outcome of a guarded-route check.
type Decision string

const (
	// Allow lets the request through.
	Allow Decision = "allow"
	// RedirectLogin denies an unauthenticated caller.
	RedirectLogin Decision = "redirect-login"
	// RedirectAccount denies an authenticated but under-privileged caller.
	RedirectAccount Decision = "redirect-account"
)

// Landing is where a freshly signed-in user is routed.
type Landing string

const (
	// LandingAccount routes straight to the shopper account area.
	LandingAccount Landing = "account"
	// LandingAdminChoice offers the main admin a binary choice between the
	// admin panel and continuing as a shopper.
	LandingAdminChoice Landing = "admin-choice"
)

// Sign-in intents a user can choose after their credentials check out.
const (
	IntentStandard   = "standard"
	IntentMinorAdmin = "minor-admin"
)

// Branch is the sign-in path selected for a user.
type Branch string

const (
	// BranchDirect signs the user straight in.
	BranchDirect Branch = "direct"
	// BranchMinorAdminFlow routes the user into the escalation protocol.
	BranchMinorAdminFlow Branch = "minor-admin-flow"
	// BranchMainAdmin bypasses the intent prompt entirely.
	BranchMainAdmin Branch = "main-admin"
)

// Requirement describes what a guarded surface demands of the caller.
// Exactly one of MinimumRole or Permission should be set. ReservedEmail must
// accompany a main-admin MinimumRole since role alone never proves
// main-admin identity.
type Requirement struct {
	MinimumRole   users.RoleType
	ReservedEmail string
	Permission    string
	// Overrides narrows the default minor-admin permission set for the
	// Permission form of the check.
	Overrides map[string]bool
}

// IsAuthenticated mirrors the session manager's definition: a session counts
// only with both a username and a role.
func IsAuthenticated(session *sessions.Session) bool {
	return session != nil && session.Username != "" && session.Role != ""
}

// IsMainAdmin reports whether the email/role pair carries main-admin
// identity. Both the reserved email and the main-admin role are required;
// either alone is insufficient.
func IsMainAdmin(email string, role users.RoleType, reservedEmail string) bool {
	return reservedEmail != "" && email == reservedEmail && role == users.RoleMainAdmin
}

// Check decides whether session may pass a guarded surface.
func Check(session *sessions.Session, requirement Requirement) Decision {
	if !IsAuthenticated(session) {
		return RedirectLogin
	}

	if requirement.Permission != "" {
		if session.Role != users.RoleMinorAdmin {
			return RedirectAccount
		}
		permissions := NormalizeMinorPermissions(requirement.Overrides)
		if !permissions.Allows(requirement.Permission) {
			return RedirectAccount
		}
		return Allow
	}

	switch requirement.MinimumRole {
	case users.RoleMainAdmin:
		if !IsMainAdmin(session.Email, session.Role, requirement.ReservedEmail) {
			return RedirectAccount
		}
	case users.RoleMinorAdmin:
		if session.Role != users.RoleMinorAdmin && session.Role != users.RoleMainAdmin {
			return RedirectAccount
		}
	}
	return Allow
}

// ResolveLanding routes a signed-in user. The main admin is also a valid
// shopper, so rather than auto-routing into the panel they are offered the
// choice; everyone else lands in the account area.
func ResolveLanding(user *users.User, reservedEmail string) Landing {
	if user != nil && IsMainAdmin(user.Email, user.Role, reservedEmail) {
		return LandingAdminChoice
	}
	return LandingAccount
}

// DecideSignInBranch picks the sign-in path once credentials have checked
// out. Main-admin sessions never see the intent prompt.
func DecideSignInBranch(session *sessions.Session, intent string) Branch {
	if session != nil && session.Role == users.RoleMainAdmin {
		return BranchMainAdmin
	}
	if intent == IntentMinorAdmin {
		return BranchMinorAdminFlow
	}
	return BranchDirect
}

// AllowedMode enforces the mode invariant: a session's operating mode can
// never exceed what its role permits. The gate is the sole enforcement
// point; the session manager stores whatever it is handed.
func AllowedMode(role users.RoleType, mode string) bool {
	switch mode {
	case sessions.ModeUser:
		return true
	case sessions.ModeMinorAdmin:
		return role == users.RoleMinorAdmin || role == users.RoleMainAdmin
	case sessions.ModeMainAdmin:
		return role == users.RoleMainAdmin
	default:
		return false
	}
}
