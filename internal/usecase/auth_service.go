package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/domain"
)

// DiscoveryResult is the outcome of polling for a wallet provider.
type DiscoveryResult string

const (
	ProviderFound     DiscoveryResult = "found"
	ProviderTimedOut  DiscoveryResult = "timed_out"
	ProviderCancelled DiscoveryResult = "cancelled"
)

// AuthService orchestrates the wallet handshake: challenge generation,
// provider discovery, signature acquisition, and the hand-off to the session
// service. One signing attempt may be in flight at a time, and a signing
// result is only honored while its challenge is still the current one.
type AuthService struct {
	provider domain.WalletProvider
	sessions *SessionService
	logger   *zap.Logger

	chainID      string
	pollInterval time.Duration
	pollTimeout  time.Duration

	mu         sync.Mutex
	current    *domain.Challenge
	connecting bool
}

func NewAuthService(
	provider domain.WalletProvider,
	sessions *SessionService,
	logger *zap.Logger,
	chainID string,
	pollInterval, pollTimeout time.Duration,
) *AuthService {
	return &AuthService{
		provider:     provider,
		sessions:     sessions,
		logger:       logger,
		chainID:      chainID,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
	}
}

// NewChallenge mints the challenge for a fresh authentication attempt:
// 16 bytes from crypto/rand, hex-encoded, plus the current unix-millis
// timestamp. Replaces any prior attempt, invalidating its pending result.
func (a *AuthService) NewChallenge() (domain.Challenge, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return domain.Challenge{}, err
	}

	challenge := domain.Challenge{
		Nonce:     hex.EncodeToString(nonce),
		Timestamp: strconv.FormatInt(time.Now().UnixMilli(), 10),
	}

	a.mu.Lock()
	a.current = &challenge
	a.mu.Unlock()

	return challenge, nil
}

// DiscoverProvider polls the bridge until a provider shows up, the timeout
// passes, or ctx is cancelled (view teardown).
func (a *AuthService) DiscoverProvider(ctx context.Context) DiscoveryResult {
	if a.provider.Probe(ctx) {
		return ProviderFound
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(a.pollTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-ticker.C:
			if a.provider.Probe(ctx) {
				return ProviderFound
			}
		case <-deadline.C:
			// The provider may still appear later; the caller re-polls or
			// requires a manual retry.
			return ProviderTimedOut
		case <-ctx.Done():
			return ProviderCancelled
		}
	}
}

// Connect runs the wallet side of the handshake for the given challenge:
// enable the chain, pick the first account, sign the deterministic message.
func (a *AuthService) Connect(ctx context.Context, challenge domain.Challenge) (*domain.SignedChallenge, error) {
	a.mu.Lock()
	if a.connecting {
		a.mu.Unlock()
		return nil, domain.ErrOperationInFlight
	}
	if a.current == nil || a.current.Nonce != challenge.Nonce {
		a.mu.Unlock()
		return nil, domain.ErrChallengeExpired
	}
	a.connecting = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.connecting = false
		a.mu.Unlock()
	}()

	if err := a.provider.Enable(ctx, a.chainID); err != nil {
		return nil, err
	}

	accounts, err := a.provider.GetAccounts(ctx, a.chainID)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, domain.ErrNoAccounts
	}
	address := accounts[0].Address

	signed, err := a.provider.SignArbitrary(ctx, a.chainID, address, challenge.SigningMessage())
	if err != nil {
		return nil, err
	}

	// Signing prompts cannot be forcibly cancelled; if a new attempt started
	// while the user was deciding, this answer belongs to a dead challenge.
	a.mu.Lock()
	stale := a.current == nil || a.current.Nonce != challenge.Nonce
	a.mu.Unlock()
	if stale {
		a.logger.Info("Discarding signature for superseded challenge",
			zap.String("wallet", address))
		return nil, domain.ErrChallengeExpired
	}

	return signed, nil
}

// Authenticate hands the signed challenge to the session service. The
// signature is never validated here; the session API verifies it against the
// nonce/timestamp/address triple and enforces nonce single-use.
func (a *AuthService) Authenticate(ctx context.Context, signed *domain.SignedChallenge, challenge domain.Challenge) (*domain.Identity, error) {
	a.mu.Lock()
	if a.current == nil || a.current.Nonce != challenge.Nonce {
		a.mu.Unlock()
		return nil, domain.ErrChallengeExpired
	}
	a.mu.Unlock()

	identity, err := a.sessions.Login(ctx, *signed, challenge)
	if err != nil {
		return nil, err
	}

	// The challenge is consumed; a retry needs a fresh one.
	a.mu.Lock()
	if a.current != nil && a.current.Nonce == challenge.Nonce {
		a.current = nil
	}
	a.mu.Unlock()

	return identity, nil
}
