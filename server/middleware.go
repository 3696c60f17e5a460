package server

import (
	"net/http"
	"time"

	"github.com/devunion/storefront-auth/gate"
	"github.com/devunion/storefront-auth/users"
)

// redirect issues the guard denial: a 303 with only a Location header.
// http.Redirect is avoided since it writes an HTML anchor body on GET.
func redirect(w http.ResponseWriter, location string) {
	w.Header().Set("Location", location)
	w.WriteHeader(http.StatusSeeOther)
}

// requireAuth redirects unauthenticated callers to the login page. The guard
// contract is a 303 with no body, matching what a protected page does before
// rendering anything.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.activeSession(w, r)
		if gate.Check(session, gate.Requirement{}) != gate.Allow {
			redirect(w, RedirectLogin)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireMainAdmin admits only the reserved-email main admin. Role alone
// never passes.
func (s *Server) requireMainAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.activeSession(w, r)
		requirement := gate.Requirement{
			MinimumRole:   users.RoleMainAdmin,
			ReservedEmail: s.config.GetReservedMainAdminEmail(),
		}
		switch gate.Check(session, requirement) {
		case gate.Allow:
			next.ServeHTTP(w, r)
		case gate.RedirectLogin:
			redirect(w, RedirectLogin)
		default:
			redirect(w, RedirectAccount)
		}
	})
}

// requireMinorPermission admits minor admins holding the named workspace
// flag.
func (s *Server) requireMinorPermission(flag string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := s.activeSession(w, r)
			switch gate.Check(session, gate.Requirement{Permission: flag}) {
			case gate.Allow:
				next.ServeHTTP(w, r)
			case gate.RedirectLogin:
				redirect(w, RedirectLogin)
			default:
				redirect(w, RedirectAccount)
			}
		})
	}
}

// loggingMiddleware logs each request once it has been served.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

// recoverMiddleware turns handler panics into a 500 instead of tearing the
// connection down.
func (s *Server) recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panic")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
