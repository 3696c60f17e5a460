// Package server exposes the storefront auth core over HTTP. Handlers stay
// thin: they decode, call into the domain packages and encode the result.
// The route guards own every redirect decision.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/devunion/storefront-auth/approvals"
	"github.com/devunion/storefront-auth/auth"
	"github.com/devunion/storefront-auth/dispatch"
	"github.com/devunion/storefront-auth/internal/config"
	apperrors "github.com/devunion/storefront-auth/internal/errors"
	"github.com/devunion/storefront-auth/internal/metrics"
	"github.com/devunion/storefront-auth/notifications"
	"github.com/devunion/storefront-auth/sessions"
	"github.com/devunion/storefront-auth/users"
)

// Repos holds the storage dependencies of the server. Legacy is optional;
// when set, the session manager migrates the single-session record it finds
// there.
type Repos struct {
	Users         users.Repo
	Sessions      sessions.Repo
	Legacy        sessions.LegacyStore
	Requests      approvals.Repo
	Notifications notifications.Repo
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	router   chi.Router
	config   config.Config
	repos    Repos
	auth     *auth.Service
	ledger   *approvals.Ledger
	notifier *sessions.Notifier
	metrics  metrics.Recorder
	gatherer prometheus.Gatherer
	limiter  *loginLimiter
	logger   zerolog.Logger
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithMetrics wires a metrics recorder and, when gatherer is non-nil, the
// scrape endpoint.
func WithMetrics(recorder metrics.Recorder, gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		if recorder != nil {
			s.metrics = recorder
		}
		s.gatherer = gatherer
	}
}

func New(cfg config.Config, repos Repos, dispatcher dispatch.Dispatcher, logger zerolog.Logger, options ...ServerOption) (*Server, error) {
	ledger, err := approvals.NewLedger(approvals.Repos{
		Requests:      repos.Requests,
		Users:         repos.Users,
		Notifications: repos.Notifications,
	}, dispatcher, approvals.WithCodeTTL(cfg.GetApprovalCodeTTL()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create ledger: %w", err)
	}

	authService, err := auth.NewService(auth.Repos{Users: repos.Users}, ledger, cfg)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create auth service: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		router:   chi.NewRouter(),
		config:   cfg,
		repos:    repos,
		auth:     authService,
		ledger:   ledger,
		notifier: sessions.NewNotifier(),
		metrics:  metrics.Noop{},
		logger:   logger,
	}
	for _, opt := range options {
		opt(s)
	}

	if cfg.GetEnableLoginRateLimiting() {
		s.limiter = newLoginLimiter(defaultLoginLimiterConfig())
	}

	s.notifier.Subscribe(func(mode string) {
		s.metrics.RecordModeSwitch(mode)
		s.logger.Debug().Str("mode", mode).Msg("session mode changed")
	})

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// sessionManager builds the per-request session manager. The active pointer
// is cookie backed, so each browser tab resolves its own active session
// while all tabs share the durable collection.
func (s *Server) sessionManager(w http.ResponseWriter, r *http.Request) *sessions.Manager {
	options := []sessions.ManagerOption{sessions.WithNotifier(s.notifier)}
	if s.repos.Legacy != nil {
		options = append(options, sessions.WithLegacyStore(s.repos.Legacy))
	}
	return sessions.NewManager(s.repos.Sessions, newCookiePointer(w, r), options...)
}

// activeSession resolves the caller's session, swallowing storage faults
// into a nil session. Guards treat both the same way.
func (s *Server) activeSession(w http.ResponseWriter, r *http.Request) *sessions.Session {
	session, err := s.sessionManager(w, r).Active()
	if err != nil && !apperrors.Is(err, apperrors.ErrSessionNotFound) {
		s.logger.Err(err).Msg("active session lookup")
		return nil
	}
	return session
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	_ = chi.Walk(s.router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		logRoute(method, route)
		return nil
	})
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
