package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/domain"
	"github.com/cyrusai/agent-console/internal/usecase"
)

func (s *Server) handleNewChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := s.auth.NewChallenge()
	if err != nil {
		s.logger.Error("Failed to generate challenge", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate challenge")
		return
	}
	s.writeJSON(w, http.StatusOK, challenge)
}

func (s *Server) handleDiscoverProvider(w http.ResponseWriter, r *http.Request) {
	// Bound by the configured poll timeout; an impatient client cancelling
	// the request cancels the polling with it.
	result := s.auth.DiscoverProvider(r.Context())
	s.writeJSON(w, http.StatusOK, map[string]string{"provider": string(result)})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var challenge domain.Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		writeError(w, http.StatusBadRequest, "invalid challenge payload")
		return
	}
	if challenge.Nonce == "" || challenge.Timestamp == "" {
		writeError(w, http.StatusBadRequest, "challenge requires nonce and timestamp")
		return
	}

	signed, err := s.auth.Connect(r.Context(), challenge)
	if err != nil {
		s.writeDomainError(w, "connect", err)
		return
	}

	identity, err := s.auth.Authenticate(r.Context(), signed, challenge)
	if err != nil {
		s.writeDomainError(w, "authenticate", err)
		return
	}

	s.writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sessions.Snapshot())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.Refresh(r.Context())
	if err != nil {
		s.writeDomainError(w, "refresh", err)
		return
	}
	s.writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	identity, err := s.sessions.ToggleAgentStatus(r.Context())
	if err != nil {
		s.writeDomainError(w, "toggle", err)
		return
	}
	s.writeJSON(w, http.StatusOK, identity)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := s.notifier.Drain()
	if notifications == nil {
		notifications = []usecase.Notification{}
	}
	s.writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.sessions.Snapshot()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"state":      snap.State,
		"refreshing": snap.Refreshing,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func (s *Server) writeDomainError(w http.ResponseWriter, op string, err error) {
	var rae *domain.RemoteAuthError

	switch {
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrSessionInvalid):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrOperationInFlight), errors.Is(err, domain.ErrChallengeExpired):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrProviderUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrUserRejected), errors.Is(err, domain.ErrNoAccounts):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &rae):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
