package sessionapi

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

// SimulationDelay approximates remote latency so surfaces exercise their
// loading states.
const SimulationDelay = 800 * time.Millisecond

// Simulated is an in-process stand-in for the session API, used when no
// backend is deployed. Session ids are minted locally; a production system
// must source them from a trusted server.
type Simulated struct {
	delay time.Duration

	mu       sync.Mutex
	sessions map[string]*simSession // session id -> state
}

type simSession struct {
	walletAddress string
	isActive      bool
}

func NewSimulated() *Simulated {
	return &Simulated{
		delay:    SimulationDelay,
		sessions: make(map[string]*simSession),
	}
}

// NewSimulatedWithDelay is for tests that cannot afford the realistic delay.
func NewSimulatedWithDelay(delay time.Duration) *Simulated {
	s := NewSimulated()
	s.delay = delay
	return s
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func simulatedFigures(isActive bool) *domain.UserData {
	return &domain.UserData{
		TotalCapital:   decimal.NewFromInt(25000),
		BridgedCapital: decimal.NewFromInt(15000),
		ActiveCapital:  decimal.NewFromInt(10000),
		IsActive:       isActive,
		Weights:        defaultWeights(),
	}
}

func defaultWeights() *domain.AgentWeights {
	return &domain.AgentWeights{
		Technical: map[string]float64{
			"ict": 0.25, "elliott": 0.20, "ema": 0.15, "rsi": 0.15, "wyckoff": 0.25,
		},
		Fundamental: map[string]float64{
			"tokenomics": 0.30, "onchain": 0.25, "ecosystem": 0.25, "tvl": 0.20,
		},
		Sentiment: map[string]float64{
			"social": 0.20, "whale": 0.30, "market": 0.25, "funding": 0.25,
		},
	}
}

func (s *Simulated) Login(ctx context.Context, signed domain.SignedChallenge, challenge domain.Challenge) (*domain.LoginResult, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if signed.WalletAddress == "" {
		return nil, &domain.RemoteAuthError{Reason: "missing wallet address"}
	}

	sessionID := "sim_" + uuid.NewString()

	s.mu.Lock()
	s.sessions[sessionID] = &simSession{walletAddress: signed.WalletAddress, isActive: true}
	s.mu.Unlock()

	return &domain.LoginResult{
		SessionID: sessionID,
		UserData:  *simulatedFigures(true),
	}, nil
}

func (s *Simulated) ValidateSession(ctx context.Context, creds domain.Credentials) (*domain.UserData, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[creds.SessionID]
	if ok && sess.walletAddress != creds.WalletAddress {
		ok = false
	}
	if !ok {
		// Degraded mode: a persisted pair from a previous process is
		// accepted as-is and revived with re-derived figures.
		sess = &simSession{walletAddress: creds.WalletAddress, isActive: true}
		s.sessions[creds.SessionID] = sess
	}
	isActive := sess.isActive
	s.mu.Unlock()

	return simulatedFigures(isActive), nil
}

func (s *Simulated) FetchUserData(ctx context.Context, sessionID string) (*domain.UserData, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionInvalid
	}

	return simulatedFigures(sess.isActive), nil
}

func (s *Simulated) ToggleStatus(ctx context.Context, sessionID string) (bool, error) {
	if err := s.wait(ctx); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false, domain.ErrSessionInvalid
	}
	sess.isActive = !sess.isActive
	return sess.isActive, nil
}

func (s *Simulated) Logout(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
