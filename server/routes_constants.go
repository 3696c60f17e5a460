package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth API
	RouteSignup      = "/api/signup"
	RouteLogin       = "/api/login"
	RouteLoginIntent = "/api/login/intent"
	RouteLogout      = "/api/logout"

	// Session API
	RouteSession     = "/api/session"
	RouteSessionMode = "/api/session/mode"

	// Minor-admin workspace
	RouteMinorAdminWorkspace = "/api/minor-admin/workspace"

	// Main-admin API
	RouteAdminRequests       = "/api/admin/requests"
	RouteAdminRequestApprove = "/api/admin/requests/{username}/approve"
	RouteAdminRequestReject  = "/api/admin/requests/{username}/reject"
	RouteAdminNotifications  = "/api/admin/notifications"
	RouteAdminUsers          = "/api/admin/users"
	RouteAdminUsersRole      = "/api/admin/users/role"
	RouteAdminUserDelete     = "/api/admin/users/{email}"

	// Observability
	RouteMetrics = "/metrics"

	// Redirect targets used by the route guards
	RedirectLogin   = "/login"
	RedirectAccount = "/account"
)
