package domain

import "github.com/shopspring/decimal"

// Identity is the authenticated principal: the wallet-bound session plus the
// last known capital snapshot reported by the session API.
type Identity struct {
	WalletAddress  string          `json:"wallet_address"`
	SessionID      string          `json:"session_id"`
	TotalCapital   decimal.Decimal `json:"total_capital"`
	BridgedCapital decimal.Decimal `json:"bridged_capital"`
	ActiveCapital  decimal.Decimal `json:"active_capital"`
	IsActive       bool            `json:"is_active"`
	Weights        *AgentWeights   `json:"weights,omitempty"`
}

// AgentWeights groups the indicator weights the agent trades with.
// Reported by the user-data endpoint, read-only on the dashboard.
type AgentWeights struct {
	Technical   map[string]float64 `json:"technical"`
	Fundamental map[string]float64 `json:"fundamental"`
	Sentiment   map[string]float64 `json:"sentiment"`
}

// SessionState is the coarse state of the session machine.
type SessionState string

const (
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticating  SessionState = "authenticating"
	StateAuthenticated   SessionState = "authenticated"
)

// Credentials is the minimal pair persisted to durable local storage.
// Written by login, cleared by logout, read once at startup.
type Credentials struct {
	SessionID     string
	WalletAddress string
}

// UserData carries the capital/activity figures returned by the session API.
type UserData struct {
	TotalCapital   decimal.Decimal `json:"total_capital"`
	BridgedCapital decimal.Decimal `json:"bridged_capital"`
	ActiveCapital  decimal.Decimal `json:"active_capital"`
	IsActive       bool            `json:"is_active"`
	Weights        *AgentWeights   `json:"weights,omitempty"`
}
