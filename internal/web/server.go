package web

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/usecase"
)

type Server struct {
	router   *http.ServeMux
	server   *http.Server
	sessions *usecase.SessionService
	auth     *usecase.AuthService
	history  *usecase.HistoryService
	notifier *usecase.RingNotifier
	logger   *zap.Logger
}

func NewServer(
	port int,
	sessions *usecase.SessionService,
	auth *usecase.AuthService,
	history *usecase.HistoryService,
	notifier *usecase.RingNotifier,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:   http.NewServeMux(),
		sessions: sessions,
		auth:     auth,
		history:  history,
		notifier: notifier,
		logger:   logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Auth
	s.router.HandleFunc("POST /api/auth/challenge", s.handleNewChallenge)
	s.router.HandleFunc("GET /api/auth/provider", s.handleDiscoverProvider)
	s.router.HandleFunc("POST /api/auth/connect", s.handleConnect)
	s.router.HandleFunc("POST /api/auth/logout", s.handleLogout)

	// Session / Dashboard
	s.router.HandleFunc("GET /api/session", s.requireSession(s.handleSession))
	s.router.HandleFunc("POST /api/session/refresh", s.requireSession(s.handleRefresh))
	s.router.HandleFunc("POST /api/session/toggle", s.requireSession(s.handleToggle))
	s.router.HandleFunc("GET /api/notifications", s.handleNotifications)

	// History
	s.router.HandleFunc("GET /api/history", s.requireSession(s.handleHistory))
	s.router.HandleFunc("POST /api/history/expand/{id}", s.requireSession(s.handleExpand))
	s.router.HandleFunc("GET /api/history/summary", s.requireSession(s.handleSummary))

	// Status
	s.router.HandleFunc("GET /status", s.handleStatus)
}

// requireSession gates a surface behind the authenticated state.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.Authenticated() {
			writeError(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		next(w, r)
	}
}

// Handler exposes the routed mux, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
