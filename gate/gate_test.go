package gate_test

import (
	"testing"

	"github.com/devunion/storefront-auth/gate"
	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
	"github.com/stretchr/testify/require"
)

const reservedEmail = "divinewos@gmail.com"

func userSession(role users.RoleType, email string) *sessions.Session {
	return &sessions.Session{
		ID:       "sess-1",
		Username: "jane",
		Email:    email,
		Role:     role,
		Mode:     sessions.ModeUser,
	}
}

func TestIsMainAdmin(t *testing.T) {
	require.True(t, gate.IsMainAdmin(reservedEmail, users.RoleMainAdmin, reservedEmail))

	t.Run("role alone is not enough", func(t *testing.T) {
		require.False(t, gate.IsMainAdmin("other@x.com", users.RoleMainAdmin, reservedEmail))
	})
	t.Run("email alone is not enough", func(t *testing.T) {
		require.False(t, gate.IsMainAdmin(reservedEmail, users.RoleUser, reservedEmail))
	})
	t.Run("unset reserved email never matches", func(t *testing.T) {
		require.False(t, gate.IsMainAdmin("", users.RoleMainAdmin, ""))
	})
}

func TestCheck_Unauthenticated(t *testing.T) {
	require.Equal(t, gate.RedirectLogin, gate.Check(nil, gate.Requirement{}))

	t.Run("session without role", func(t *testing.T) {
		session := &sessions.Session{ID: "sess-1", Username: "jane"}
		require.Equal(t, gate.RedirectLogin, gate.Check(session, gate.Requirement{}))
	})
}

func TestCheck_MinimumRole(t *testing.T) {
	cases := []struct {
		name    string
		session *sessions.Session
		want    gate.Decision
	}{
		{"plain user on open surface", userSession(users.RoleUser, "jane@x.com"), gate.Allow},
		{"minor admin passes minor surface", userSession(users.RoleMinorAdmin, "jane@x.com"), gate.Allow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, gate.Check(tc.session, gate.Requirement{MinimumRole: users.RoleUser}))
		})
	}

	t.Run("user blocked from minor surface", func(t *testing.T) {
		decision := gate.Check(userSession(users.RoleUser, "jane@x.com"), gate.Requirement{MinimumRole: users.RoleMinorAdmin})
		require.Equal(t, gate.RedirectAccount, decision)
	})

	t.Run("main admin passes minor surface", func(t *testing.T) {
		decision := gate.Check(userSession(users.RoleMainAdmin, reservedEmail), gate.Requirement{MinimumRole: users.RoleMinorAdmin})
		require.Equal(t, gate.Allow, decision)
	})
}

func TestCheck_MainAdminSurface(t *testing.T) {
	requirement := gate.Requirement{MinimumRole: users.RoleMainAdmin, ReservedEmail: reservedEmail}

	require.Equal(t, gate.Allow, gate.Check(userSession(users.RoleMainAdmin, reservedEmail), requirement))

	t.Run("reassigned role without reserved email is refused", func(t *testing.T) {
		decision := gate.Check(userSession(users.RoleMainAdmin, "spoof@x.com"), requirement)
		require.Equal(t, gate.RedirectAccount, decision)
	})

	t.Run("minor admin is refused", func(t *testing.T) {
		decision := gate.Check(userSession(users.RoleMinorAdmin, "jane@x.com"), requirement)
		require.Equal(t, gate.RedirectAccount, decision)
	})
}

func TestCheck_PermissionFlag(t *testing.T) {
	requirement := gate.Requirement{Permission: gate.PermissionSupport}

	t.Run("minor admin with default grants", func(t *testing.T) {
		require.Equal(t, gate.Allow, gate.Check(userSession(users.RoleMinorAdmin, "jane@x.com"), requirement))
	})

	t.Run("plain user is refused", func(t *testing.T) {
		require.Equal(t, gate.RedirectAccount, gate.Check(userSession(users.RoleUser, "jane@x.com"), requirement))
	})

	t.Run("revoked flag is refused", func(t *testing.T) {
		narrowed := gate.Requirement{
			Permission: gate.PermissionSupport,
			Overrides:  map[string]bool{gate.PermissionSupport: false},
		}
		require.Equal(t, gate.RedirectAccount, gate.Check(userSession(users.RoleMinorAdmin, "jane@x.com"), narrowed))
	})
}

func TestResolveLanding(t *testing.T) {
	t.Run("main admin gets the choice", func(t *testing.T) {
		admin := &users.User{Username: "owner", Email: reservedEmail, Role: users.RoleMainAdmin}
		require.Equal(t, gate.LandingAdminChoice, gate.ResolveLanding(admin, reservedEmail))
	})

	t.Run("everyone else lands in the account area", func(t *testing.T) {
		shopper := &users.User{Username: "jane", Email: "jane@x.com", Role: users.RoleUser}
		require.Equal(t, gate.LandingAccount, gate.ResolveLanding(shopper, reservedEmail))
	})

	t.Run("main-admin role without reserved email lands in the account area", func(t *testing.T) {
		reassigned := &users.User{Username: "bob", Email: "bob@x.com", Role: users.RoleMainAdmin}
		require.Equal(t, gate.LandingAccount, gate.ResolveLanding(reassigned, reservedEmail))
	})
}

func TestDecideSignInBranch(t *testing.T) {
	t.Run("main admin bypasses the prompt", func(t *testing.T) {
		branch := gate.DecideSignInBranch(userSession(users.RoleMainAdmin, reservedEmail), gate.IntentMinorAdmin)
		require.Equal(t, gate.BranchMainAdmin, branch)
	})

	t.Run("standard intent goes direct", func(t *testing.T) {
		branch := gate.DecideSignInBranch(userSession(users.RoleUser, "jane@x.com"), gate.IntentStandard)
		require.Equal(t, gate.BranchDirect, branch)
	})

	t.Run("minor-admin intent enters the flow", func(t *testing.T) {
		branch := gate.DecideSignInBranch(userSession(users.RoleUser, "jane@x.com"), gate.IntentMinorAdmin)
		require.Equal(t, gate.BranchMinorAdminFlow, branch)
	})

	t.Run("unknown intent defaults to direct", func(t *testing.T) {
		branch := gate.DecideSignInBranch(userSession(users.RoleUser, "jane@x.com"), "")
		require.Equal(t, gate.BranchDirect, branch)
	})
}

func TestAllowedMode(t *testing.T) {
	cases := []struct {
		role users.RoleType
		mode string
		want bool
	}{
		{users.RoleUser, sessions.ModeUser, true},
		{users.RoleUser, sessions.ModeMinorAdmin, false},
		{users.RoleUser, sessions.ModeMainAdmin, false},
		{users.RoleMinorAdmin, sessions.ModeMinorAdmin, true},
		{users.RoleMinorAdmin, sessions.ModeMainAdmin, false},
		{users.RoleMainAdmin, sessions.ModeUser, true},
		{users.RoleMainAdmin, sessions.ModeMinorAdmin, true},
		{users.RoleMainAdmin, sessions.ModeMainAdmin, true},
		{users.RoleMajorAdmin, sessions.ModeMainAdmin, false},
		{users.RoleUser, "owner", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, gate.AllowedMode(tc.role, tc.mode), "role=%s mode=%s", tc.role, tc.mode)
	}
}
