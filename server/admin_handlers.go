package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/metrics"
	"github.com/devunion/storefront-auth/users"
)

// AdminRequestsHandler lists the minor-admin request ledger, newest first.
func (s *Server) AdminRequestsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := s.ledger.List()
		if err != nil {
			s.logger.Err(err).Msg("admin list requests")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
	}
}

// AdminApproveHandler approves a pending request and emails the one-time
// code. On delivery failure the request stays pending and the reason comes
// back on the response so the admin can retry.
func (s *Server) AdminApproveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		approval, err := s.ledger.Approve(username)
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrRequestNotFound):
				writeError(w, http.StatusNotFound, "request not found")
			case apperrors.Is(err, apperrors.ErrMissingRecipient):
				writeError(w, http.StatusConflict, "missing-recipient")
			case apperrors.Is(err, apperrors.ErrRequestNotPending):
				writeError(w, http.StatusConflict, "request already rejected")
			default:
				s.logger.Err(err).Str("username", username).Msg("admin approve")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		if approval.DeliveryError != "" {
			s.metrics.RecordApproval(metrics.ApprovalOutcomeDeliveryFailed)
			writeJSON(w, http.StatusOK, map[string]any{
				"request": approval.Request,
				"error":   approval.DeliveryError,
			})
			return
		}

		s.metrics.RecordApproval(metrics.ApprovalOutcomeApproved)
		writeJSON(w, http.StatusOK, map[string]any{
			"request":    approval.Request,
			"code":       approval.Code,
			"approvedAt": approval.ApprovedAt,
			"expiresAt":  approval.ExpiresAt,
		})
	}
}

// AdminRejectHandler denies a request. Rejection is terminal.
func (s *Server) AdminRejectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")

		request, err := s.ledger.Reject(username)
		if err != nil {
			switch {
			case apperrors.Is(err, apperrors.ErrRequestNotFound):
				writeError(w, http.StatusNotFound, "request not found")
			case apperrors.Is(err, apperrors.ErrRequestNotPending):
				writeError(w, http.StatusConflict, "request already rejected")
			default:
				s.logger.Err(err).Str("username", username).Msg("admin reject")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		s.metrics.RecordApproval(metrics.ApprovalOutcomeRejected)
		writeJSON(w, http.StatusOK, map[string]any{
			"request":    request,
			"rejectedAt": request.RejectedAt,
		})
	}
}

// AdminNotificationsHandler returns the capped notification audit log,
// delivery failures included. Only the main admin ever sees these.
func (s *Server) AdminNotificationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.repos.Notifications.List()
		if err != nil {
			s.logger.Err(err).Msg("admin list notifications")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notifications": entries})
	}
}

// AdminUsersHandler lists every registered account.
func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List()
		if err != nil {
			s.logger.Err(err).Msg("admin list users")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": list})
	}
}

type roleUpdateRequest struct {
	Email string         `json:"email"`
	Role  users.RoleType `json:"role"`
}

// AdminUserRoleHandler reassigns a user's role. The reserved main-admin
// account is immune.
func (s *Server) AdminUserRoleHandler() http.HandlerFunc {
	validRoles := map[users.RoleType]bool{
		users.RoleUser:       true,
		users.RoleMinorAdmin: true,
		users.RoleMainAdmin:  true,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req roleUpdateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || !validRoles[req.Role] {
			writeError(w, http.StatusUnprocessableEntity, "email and a valid role are required")
			return
		}
		if req.Email == s.config.GetReservedMainAdminEmail() {
			writeError(w, http.StatusForbidden, apperrors.ErrUserProtected.Error())
			return
		}

		if err := s.repos.Users.SetRole(req.Email, req.Role); err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			s.logger.Err(err).Str("email", req.Email).Msg("admin role update")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// AdminUserDeleteHandler removes an account. The reserved main-admin account
// is immune.
func (s *Server) AdminUserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if email == s.config.GetReservedMainAdminEmail() {
			writeError(w, http.StatusForbidden, apperrors.ErrUserProtected.Error())
			return
		}

		if err := s.repos.Users.Delete(email); err != nil {
			if apperrors.Is(err, apperrors.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			s.logger.Err(err).Str("email", email).Msg("admin user delete")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
