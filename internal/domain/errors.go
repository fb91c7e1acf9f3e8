package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable means no wallet provider could be reached.
	ErrProviderUnavailable = errors.New("wallet provider unavailable")
	// ErrNoAccounts means the provider is reachable but exposes no accounts.
	ErrNoAccounts = errors.New("no accounts in wallet")
	// ErrUserRejected means the user declined the signing request.
	ErrUserRejected = errors.New("user rejected signing")
	// ErrSessionInvalid means the session API does not recognize the session.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrTimeout means a remote call did not answer in time.
	ErrTimeout = errors.New("network timeout")
	// ErrNotAuthenticated guards operations that require a live session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrOperationInFlight rejects a mutating call while a prior one of the
	// same kind is still running, so a late response cannot clobber newer state.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrChallengeExpired means a signing result arrived for a challenge that
	// is no longer the current attempt; the result must be discarded.
	ErrChallengeExpired = errors.New("challenge no longer current")
)

// RemoteAuthError is a login/authentication failure reported by the session
// API, carrying the server's reason.
type RemoteAuthError struct {
	Reason string
}

func (e *RemoteAuthError) Error() string {
	return fmt.Sprintf("remote authentication failed: %s", e.Reason)
}
