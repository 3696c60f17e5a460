package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/devunion/storefront-auth/gate"
	"github.com/devunion/storefront-auth/internal/metrics"
)

func (s *Server) initRoutes() {
	s.router.Use(s.recoverMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.Post(RouteSignup, s.SignupHandler())
	s.router.With(s.limitLogins).Post(RouteLogin, s.LoginHandler())
	s.router.Post(RouteLogout, s.LogoutHandler())
	s.router.Get(RouteSession, s.SessionHandler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post(RouteLoginIntent, s.LoginIntentHandler())
		r.Post(RouteSessionMode, s.SessionModeHandler())
	})

	s.router.With(s.requireMinorPermission(gate.PermissionSupport)).
		Get(RouteMinorAdminWorkspace, s.WorkspaceHandler())

	s.router.Group(func(r chi.Router) {
		r.Use(s.requireMainAdmin)
		r.Get(RouteAdminRequests, s.AdminRequestsHandler())
		r.Post(RouteAdminRequestApprove, s.AdminApproveHandler())
		r.Post(RouteAdminRequestReject, s.AdminRejectHandler())
		r.Get(RouteAdminNotifications, s.AdminNotificationsHandler())
		r.Get(RouteAdminUsers, s.AdminUsersHandler())
		r.Post(RouteAdminUsersRole, s.AdminUserRoleHandler())
		r.Delete(RouteAdminUserDelete, s.AdminUserDeleteHandler())
	})

	if s.gatherer != nil {
		s.router.Method(http.MethodGet, RouteMetrics, metrics.Handler(s.gatherer))
	}
}
