package server

import (
	"net/http"

	"github.com/devunion/storefront-auth/auth"
	"github.com/devunion/storefront-auth/gate"
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/metrics"
	"github.com/devunion/storefront-auth/sessions"
)

// SignupHandler registers a new account. Validation failures come back as a
// 422 with the per-field error map; a fresh account is never logged in.
func (s *Server) SignupHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form auth.RegistrationForm
		if err := decodeJSON(r, &form); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := s.auth.Register(form)
		if err != nil {
			s.logger.Err(err).Msg("signup")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !result.OK {
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}

		s.metrics.RecordSignup()
		writeJSON(w, http.StatusOK, result)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginHandler checks credentials and, on success, creates a session and
// binds it to the tab via the active-session cookie. Banner errors (unknown
// username, wrong password) are a 401; missing fields a 422.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		manager := s.sessionManager(w, r)
		result, err := s.auth.Login(manager, req.Username, req.Password)
		if err != nil {
			s.logger.Err(err).Msg("login")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		switch {
		case len(result.FieldErrors) > 0:
			s.metrics.RecordLoginFailure(metrics.LoginFailureValidation)
			writeJSON(w, http.StatusUnprocessableEntity, result)
		case result.Error != "":
			if result.Error == apperrors.ErrWrongPassword.Error() {
				s.metrics.RecordLoginFailure(metrics.LoginFailureWrongPassword)
			} else {
				s.metrics.RecordLoginFailure(metrics.LoginFailureUnknownUsername)
			}
			writeJSON(w, http.StatusUnauthorized, result)
		default:
			s.metrics.RecordLoginSuccess()
			writeJSON(w, http.StatusOK, result)
		}
	}
}

type intentRequest struct {
	Intent string `json:"intent"`
	Code   string `json:"code"`
}

// LoginIntentHandler runs the post-login intent step: standard users proceed
// directly, a minor-admin intent files a review request or redeems a code.
func (s *Server) LoginIntentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req intentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		manager := s.sessionManager(w, r)
		result, err := s.auth.Intent(manager, req.Intent, req.Code)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNoActiveSession) {
				writeError(w, http.StatusUnauthorized, "no active session")
				return
			}
			s.logger.Err(err).Msg("login intent")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if result.Redeem != nil {
			if result.Redeem.Valid {
				s.metrics.RecordRedemption("valid")
			} else {
				s.metrics.RecordRedemption(result.Redeem.Reason)
			}
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// LogoutHandler destroys the active session. Logging out twice is harmless.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.Logout(s.sessionManager(w, r)); err != nil {
			s.logger.Err(err).Msg("logout")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// SessionHandler returns the caller's active session, or a 401 when there is
// none.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := s.activeSession(w, r)
		if session == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, session)
	}
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// SessionModeHandler switches the active session's operating mode. The gate
// rejects any mode the session's role does not permit; an empty mode reads
// back the current one without publishing a change.
func (s *Server) SessionModeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req modeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		manager := s.sessionManager(w, r)
		session, err := manager.Active()
		if err != nil {
			s.logger.Err(err).Msg("session mode")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if session == nil {
			writeError(w, http.StatusUnauthorized, "no active session")
			return
		}

		if req.Mode != "" && !gate.AllowedMode(session.Role, req.Mode) {
			writeError(w, http.StatusForbidden, "mode not permitted for role")
			return
		}

		updated, err := manager.SetActiveMode(req.Mode)
		if err != nil {
			s.logger.Err(err).Msg("session mode")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// WorkspaceHandler serves the minor-admin workspace descriptor and flips the
// session into minor-admin mode, the way opening the workspace does.
func (s *Server) WorkspaceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manager := s.sessionManager(w, r)
		session, err := manager.SetActiveMode(sessions.ModeMinorAdmin)
		if err != nil {
			s.logger.Err(err).Msg("minor-admin workspace")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		permissions := gate.NormalizeMinorPermissions(nil)
		sections := []string{}
		for _, flag := range []string{
			gate.PermissionAnalytics,
			gate.PermissionJournal,
			gate.PermissionProductContent,
			gate.PermissionInventory,
			gate.PermissionSupport,
			gate.PermissionModeration,
		} {
			if permissions.Allows(flag) {
				sections = append(sections, flag)
			}
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"session":     session,
			"permissions": permissions,
			"sections":    sections,
		})
	}
}
