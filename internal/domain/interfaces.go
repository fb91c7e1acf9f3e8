package domain

import "context"

// SessionAPI is the remote collaborator handling login, validation, user data,
// status toggling and logout. Signature verification (against the nonce/
// timestamp/address triple) and nonce single-use enforcement happen behind
// this interface, never client-side.
type SessionAPI interface {
	Login(ctx context.Context, signed SignedChallenge, challenge Challenge) (*LoginResult, error)
	ValidateSession(ctx context.Context, creds Credentials) (*UserData, error)
	FetchUserData(ctx context.Context, sessionID string) (*UserData, error)
	ToggleStatus(ctx context.Context, sessionID string) (bool, error)
	Logout(ctx context.Context, sessionID string) error
}

// LoginResult is the session API's answer to a successful login.
type LoginResult struct {
	SessionID string   `json:"session_id"`
	UserData  UserData `json:"user_data"`
}

// WalletProvider is the injected wallet capability (Keplr or compatible),
// reached through the local signer bridge.
type WalletProvider interface {
	// Probe reports whether a provider is currently reachable. Cheap, does not
	// hold a connection.
	Probe(ctx context.Context) bool
	Enable(ctx context.Context, chainID string) error
	GetAccounts(ctx context.Context, chainID string) ([]WalletAccount, error)
	SignArbitrary(ctx context.Context, chainID, signer, data string) (*SignedChallenge, error)
}

// CredentialStore is the durable local storage for the session pair. The
// session service is its sole writer.
type CredentialStore interface {
	SaveCredentials(ctx context.Context, creds Credentials) error
	LoadCredentials(ctx context.Context) (*Credentials, error)
	ClearCredentials(ctx context.Context) error
}

// TradeLedger reads the fixed collection of historical trades.
type TradeLedger interface {
	ListTrades(ctx context.Context) ([]*Trade, error)
	SeedTrades(ctx context.Context, trades []*Trade) error
}
