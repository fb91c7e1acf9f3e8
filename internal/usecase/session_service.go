package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/domain"
)

const (
	opLogin   = "login"
	opRefresh = "refresh"
	opToggle  = "toggle"
)

// SessionService owns the session state machine:
//
//	Unauthenticated -> Authenticating -> Authenticated -> Unauthenticated
//
// Reads always see the last-known-good Identity; mutating operations are
// serialized per kind so a late response can never overwrite newer state. On
// any failure the store is either unchanged or fully rolled back, never
// partially applied.
type SessionService struct {
	api      domain.SessionAPI
	creds    domain.CredentialStore
	notifier Notifier
	logger   *zap.Logger

	mu         sync.RWMutex
	identity   *domain.Identity
	state      domain.SessionState
	refreshing bool

	opMu     sync.Mutex
	inFlight map[string]bool
}

// SessionSnapshot is a read-only copy of the session for surfaces.
type SessionSnapshot struct {
	State      domain.SessionState `json:"state"`
	Refreshing bool                `json:"refreshing"`
	Identity   *domain.Identity    `json:"identity,omitempty"`
}

func NewSessionService(
	api domain.SessionAPI,
	creds domain.CredentialStore,
	notifier Notifier,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		api:      api,
		creds:    creds,
		notifier: notifier,
		logger:   logger,
		state:    domain.StateUnauthenticated,
		inFlight: make(map[string]bool),
	}
}

// begin marks op as running; a second call of the same kind before end is
// rejected so concurrent mutations cannot race.
func (s *SessionService) begin(op string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.inFlight[op] {
		return domain.ErrOperationInFlight
	}
	s.inFlight[op] = true
	return nil
}

func (s *SessionService) end(op string) {
	s.opMu.Lock()
	delete(s.inFlight, op)
	s.opMu.Unlock()
}

// Snapshot returns the current state and a copy of the Identity. Never blocks
// on in-flight mutations beyond the time to copy.
func (s *SessionService) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SessionSnapshot{State: s.state, Refreshing: s.refreshing}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

// Authenticated reports whether a session is live. Gates the dashboard and
// history surfaces.
func (s *SessionService) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == domain.StateAuthenticated
}

// Login exchanges a signed challenge for a session. On success the credential
// pair is persisted and the Identity installed; on failure nothing changes.
func (s *SessionService) Login(ctx context.Context, signed domain.SignedChallenge, challenge domain.Challenge) (*domain.Identity, error) {
	if err := s.begin(opLogin); err != nil {
		return nil, err
	}
	defer s.end(opLogin)

	s.mu.Lock()
	prevState := s.state
	if s.state == domain.StateUnauthenticated {
		s.state = domain.StateAuthenticating
	}
	s.mu.Unlock()

	restore := func() {
		s.mu.Lock()
		s.state = prevState
		s.mu.Unlock()
	}

	result, err := s.api.Login(ctx, signed, challenge)
	if err != nil {
		restore()
		return nil, err
	}

	pair := domain.Credentials{SessionID: result.SessionID, WalletAddress: signed.WalletAddress}
	if err := s.creds.SaveCredentials(ctx, pair); err != nil {
		// The remote session exists but we cannot remember it; abandon it so
		// the store stays consistent.
		restore()
		go s.fireAndForgetLogout(result.SessionID)
		return nil, err
	}

	identity := buildIdentity(pair, result.UserData)
	s.warnCapitalInvariant(identity)

	s.mu.Lock()
	s.identity = identity
	s.state = domain.StateAuthenticated
	s.mu.Unlock()

	s.logger.Info("Login succeeded", zap.String("wallet", identity.WalletAddress))
	s.notifier.Notify(Notification{
		Title:   "Authentication Successful",
		Message: "Welcome to Cyrus AI",
		Level:   NotifyInfo,
	})

	snap := *identity
	return &snap, nil
}

// Restore revives a persisted session at process start. Absent credentials and
// a definitively invalid session both yield an unauthenticated state with a
// nil error; invalid sessions also clear the persisted pair. Transient
// failures leave the pair in place for the next start and are returned.
func (s *SessionService) Restore(ctx context.Context) (*domain.Identity, error) {
	pair, err := s.creds.LoadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	data, err := s.api.ValidateSession(ctx, *pair)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			// Treated as "logged out", not a failure.
			s.logger.Info("Stored session rejected, clearing credentials")
			if clearErr := s.creds.ClearCredentials(ctx); clearErr != nil {
				s.logger.Error("Failed to clear credentials", zap.Error(clearErr))
			}
			return nil, nil
		}
		return nil, err
	}

	identity := buildIdentity(*pair, *data)
	s.warnCapitalInvariant(identity)

	s.mu.Lock()
	s.identity = identity
	s.state = domain.StateAuthenticated
	s.mu.Unlock()

	s.logger.Info("Session restored", zap.String("wallet", identity.WalletAddress))
	snap := *identity
	return &snap, nil
}

// Refresh re-fetches the capital/activity figures. A failed fetch leaves the
// last-known-good snapshot untouched, including IsActive; only a successful
// response, which reports the field definitively, may change it.
func (s *SessionService) Refresh(ctx context.Context) (*domain.Identity, error) {
	s.mu.RLock()
	if s.state != domain.StateAuthenticated || s.identity == nil {
		s.mu.RUnlock()
		return nil, domain.ErrNotAuthenticated
	}
	sessionID := s.identity.SessionID
	s.mu.RUnlock()

	if err := s.begin(opRefresh); err != nil {
		return nil, err
	}
	defer s.end(opRefresh)

	s.setRefreshing(true)
	defer s.setRefreshing(false)

	data, err := s.api.FetchUserData(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInvalid) {
			// The server no longer knows us; a stale snapshot would lie.
			s.clearLocal(ctx)
			return nil, err
		}
		s.notifier.Notify(Notification{
			Title:   "Error",
			Message: "Failed to fetch your trading data",
			Level:   NotifyError,
		})
		return nil, err
	}

	s.mu.Lock()
	// The session may have been logged out while the fetch was in flight.
	if s.state != domain.StateAuthenticated || s.identity == nil || s.identity.SessionID != sessionID {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	s.identity.TotalCapital = data.TotalCapital
	s.identity.BridgedCapital = data.BridgedCapital
	s.identity.ActiveCapital = data.ActiveCapital
	s.identity.IsActive = data.IsActive
	if data.Weights != nil {
		s.identity.Weights = data.Weights
	}
	snap := *s.identity
	s.mu.Unlock()

	s.warnCapitalInvariant(&snap)
	return &snap, nil
}

// Logout clears durable and in-memory state unconditionally. Idempotent; the
// remote notification is fire-and-forget and never blocks the caller.
func (s *SessionService) Logout(ctx context.Context) {
	s.mu.RLock()
	var sessionID string
	if s.identity != nil {
		sessionID = s.identity.SessionID
	}
	s.mu.RUnlock()

	s.clearLocal(ctx)

	if sessionID != "" {
		go s.fireAndForgetLogout(sessionID)
	}
}

func (s *SessionService) clearLocal(ctx context.Context) {
	if err := s.creds.ClearCredentials(ctx); err != nil {
		s.logger.Error("Failed to clear credentials", zap.Error(err))
	}
	s.mu.Lock()
	s.identity = nil
	s.state = domain.StateUnauthenticated
	s.mu.Unlock()
}

func (s *SessionService) fireAndForgetLogout(sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.api.Logout(ctx, sessionID); err != nil {
		s.logger.Debug("Remote logout failed", zap.Error(err))
	}
}

// ToggleAgentStatus flips IsActive optimistically, then reconciles with the
// server's answer; on failure the prior value is restored.
func (s *SessionService) ToggleAgentStatus(ctx context.Context) (*domain.Identity, error) {
	if err := s.begin(opToggle); err != nil {
		return nil, err
	}
	defer s.end(opToggle)

	s.mu.Lock()
	if s.state != domain.StateAuthenticated || s.identity == nil {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	sessionID := s.identity.SessionID
	prev := s.identity.IsActive
	s.identity.IsActive = !prev
	s.mu.Unlock()

	isActive, err := s.api.ToggleStatus(ctx, sessionID)
	if err != nil {
		// Roll back the optimistic flip.
		s.mu.Lock()
		if s.identity != nil && s.identity.SessionID == sessionID {
			s.identity.IsActive = prev
		}
		s.mu.Unlock()

		s.notifier.Notify(Notification{
			Title:   "Error",
			Message: "Failed to update trading agent status",
			Level:   NotifyError,
		})
		return nil, err
	}

	s.mu.Lock()
	if s.state != domain.StateAuthenticated || s.identity == nil || s.identity.SessionID != sessionID {
		s.mu.Unlock()
		return nil, domain.ErrNotAuthenticated
	}
	s.identity.IsActive = isActive
	snap := *s.identity
	s.mu.Unlock()

	if isActive {
		s.notifier.Notify(Notification{
			Title:   "Agent Activated",
			Message: "Cyrus AI is now actively trading",
			Level:   NotifyInfo,
		})
	} else {
		s.notifier.Notify(Notification{
			Title:   "Agent Paused",
			Message: "Trading operations have been paused",
			Level:   NotifyInfo,
		})
	}

	return &snap, nil
}

func (s *SessionService) setRefreshing(v bool) {
	s.mu.Lock()
	s.refreshing = v
	s.mu.Unlock()
}

func buildIdentity(pair domain.Credentials, data domain.UserData) *domain.Identity {
	return &domain.Identity{
		WalletAddress:  pair.WalletAddress,
		SessionID:      pair.SessionID,
		TotalCapital:   data.TotalCapital,
		BridgedCapital: data.BridgedCapital,
		ActiveCapital:  data.ActiveCapital,
		IsActive:       data.IsActive,
		Weights:        data.Weights,
	}
}

// activeCapital <= totalCapital is advisory: server data wins, we only log.
func (s *SessionService) warnCapitalInvariant(identity *domain.Identity) {
	if identity.ActiveCapital.GreaterThan(identity.TotalCapital) {
		s.logger.Warn("Active capital exceeds total capital",
			zap.String("wallet", identity.WalletAddress),
			zap.String("active", identity.ActiveCapital.String()),
			zap.String("total", identity.TotalCapital.String()))
	}
}
