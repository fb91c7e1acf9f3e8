package sessionapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

// Client talks to the remote session API over JSON with bearer-token
// authorization. All verification of wallet signatures happens server-side;
// the client only transports the nonce/timestamp/signature triple.
type Client struct {
	client *resty.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// Wire types mirror the API's camelCase JSON, separate from domain tags.

type userDataPayload struct {
	TotalCapital   float64              `json:"totalCapital"`
	BridgedCapital float64              `json:"bridgedCapital"`
	ActiveCapital  float64              `json:"activeCapital"`
	IsActive       bool                 `json:"isActive"`
	Weights        *domain.AgentWeights `json:"weights,omitempty"`
}

type loginResponse struct {
	SessionID string `json:"sessionId"`
	userDataPayload
}

type errorResponse struct {
	Message string `json:"message"`
}

func (p userDataPayload) toDomain() *domain.UserData {
	return &domain.UserData{
		TotalCapital:   decimal.NewFromFloat(p.TotalCapital),
		BridgedCapital: decimal.NewFromFloat(p.BridgedCapital),
		ActiveCapital:  decimal.NewFromFloat(p.ActiveCapital),
		IsActive:       p.IsActive,
		Weights:        p.Weights,
	}
}

func (c *Client) Login(ctx context.Context, signed domain.SignedChallenge, challenge domain.Challenge) (*domain.LoginResult, error) {
	var result loginResponse
	var apiErr errorResponse

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"walletAddress": signed.WalletAddress,
			"signature":     signed.Signature,
			"pubKey":        signed.PubKey,
			"nonce":         challenge.Nonce,
			"timestamp":     challenge.Timestamp,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/api/auth/login")
	if err != nil {
		return nil, mapTransportError("login", err)
	}
	if resp.IsError() {
		reason := apiErr.Message
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode())
		}
		return nil, &domain.RemoteAuthError{Reason: reason}
	}

	return &domain.LoginResult{
		SessionID: result.SessionID,
		UserData:  *result.userDataPayload.toDomain(),
	}, nil
}

func (c *Client) ValidateSession(ctx context.Context, creds domain.Credentials) (*domain.UserData, error) {
	var result userDataPayload

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"sessionId":     creds.SessionID,
			"walletAddress": creds.WalletAddress,
		}).
		SetResult(&result).
		Post("/api/user/validate-session")
	if err != nil {
		return nil, mapTransportError("validate session", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return nil, domain.ErrSessionInvalid
	}
	if resp.IsError() {
		return nil, fmt.Errorf("validate session: status %d", resp.StatusCode())
	}

	return result.toDomain(), nil
}

func (c *Client) FetchUserData(ctx context.Context, sessionID string) (*domain.UserData, error) {
	var result userDataPayload

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(sessionID).
		SetResult(&result).
		Get("/api/user/data")
	if err != nil {
		return nil, mapTransportError("fetch user data", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, domain.ErrSessionInvalid
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch user data: status %d", resp.StatusCode())
	}

	return result.toDomain(), nil
}

func (c *Client) ToggleStatus(ctx context.Context, sessionID string) (bool, error) {
	var result struct {
		IsActive bool `json:"isActive"`
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(sessionID).
		SetResult(&result).
		Post("/api/trading/toggle-status")
	if err != nil {
		return false, mapTransportError("toggle status", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return false, domain.ErrSessionInvalid
	}
	if resp.IsError() {
		return false, fmt.Errorf("toggle status: status %d", resp.StatusCode())
	}

	return result.IsActive, nil
}

func (c *Client) Logout(ctx context.Context, sessionID string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(sessionID).
		Post("/api/auth/logout")
	if err != nil {
		return mapTransportError("logout", err)
	}
	if resp.IsError() {
		return fmt.Errorf("logout: status %d", resp.StatusCode())
	}
	return nil
}

func mapTransportError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%s: %w", op, domain.ErrTimeout)
	}
	return fmt.Errorf("%s: %w", op, err)
}
