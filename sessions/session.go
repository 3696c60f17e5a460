// Package sessions implements the storefront's session model: a durable
// collection of login sessions with exactly one "active" pointer per client
// context, plus the per-session operating mode.
package sessions

import (
	"time"

	"github.com/devunion/storefront-auth/users"
)

// Operating modes a session can run in. Mode is the currently selected view,
// independent from but constrained by the underlying role; the access
// control gate is the enforcement point for that constraint.
const (
	ModeUser       = "user"
	ModeMinorAdmin = "minor-admin"
	ModeMainAdmin  = "main-admin"
)

// Session is one stored login session. Role and Email are copied verbatim
// from the matched user record at login.
type Session struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Role      users.RoleType `json:"role"`
	Mode      string         `json:"mode"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Patch carries the fields UpdateActive merges into the active session.
// Nil fields are left untouched.
type Patch struct {
	Email *string
	Role  *users.RoleType
	Mode  *string
}
