package domain

import "fmt"

// Challenge binds a wallet signature to a single login attempt. Generated once
// per attempt, consumed exactly once by the signing step. Replay protection is
// the session API's job (server-side nonce single-use); the console only
// guarantees freshness by construction.
type Challenge struct {
	Nonce     string `json:"nonce"`     // hex-encoded, 16 random bytes
	Timestamp string `json:"timestamp"` // unix milliseconds, as string
}

// SigningMessage is the deterministic text the wallet is asked to sign.
func (c Challenge) SigningMessage() string {
	return fmt.Sprintf("Sign this message to authenticate with Cyrus AI\nNonce: %s\nTimestamp: %s", c.Nonce, c.Timestamp)
}

// WalletAccount is one account exposed by the wallet provider.
type WalletAccount struct {
	Address string `json:"address"`
	PubKey  string `json:"pub_key"` // base64
}

// SignedChallenge is the wallet's answer to a challenge.
type SignedChallenge struct {
	WalletAddress string
	Signature     string // base64
	PubKey        string // base64
}
