package web_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cyrusai/agent-console/internal/domain"
	"github.com/cyrusai/agent-console/internal/infrastructure/sessionapi"
	"github.com/cyrusai/agent-console/internal/infrastructure/storage"
	"github.com/cyrusai/agent-console/internal/usecase"
	"github.com/cyrusai/agent-console/internal/web"
)

type memStore struct {
	creds *domain.Credentials
}

func (m *memStore) SaveCredentials(ctx context.Context, creds domain.Credentials) error {
	m.creds = &creds
	return nil
}

func (m *memStore) LoadCredentials(ctx context.Context) (*domain.Credentials, error) {
	return m.creds, nil
}

func (m *memStore) ClearCredentials(ctx context.Context) error {
	m.creds = nil
	return nil
}

type stubProvider struct{}

func (stubProvider) Probe(ctx context.Context) bool                   { return true }
func (stubProvider) Enable(ctx context.Context, chainID string) error { return nil }

func (stubProvider) GetAccounts(ctx context.Context, chainID string) ([]domain.WalletAccount, error) {
	return []domain.WalletAccount{{Address: "cosmos1webtest", PubKey: "pub"}}, nil
}

func (stubProvider) SignArbitrary(ctx context.Context, chainID, signer, data string) (*domain.SignedChallenge, error) {
	return &domain.SignedChallenge{
		WalletAddress: signer,
		Signature:     base64.StdEncoding.EncodeToString([]byte(data)),
		PubKey:        "pub",
	}, nil
}

type memLedger struct{}

func (memLedger) ListTrades(ctx context.Context) ([]*domain.Trade, error) {
	return storage.SampleTrades(), nil
}

func (memLedger) SeedTrades(ctx context.Context, trades []*domain.Trade) error { return nil }

func newTestServer(t *testing.T) (*web.Server, *usecase.SessionService) {
	t.Helper()

	logger := zap.NewNop()
	api := sessionapi.NewSimulatedWithDelay(0)
	notifier := usecase.NewRingNotifier(16)
	sessions := usecase.NewSessionService(api, &memStore{}, notifier, logger)
	auth := usecase.NewAuthService(stubProvider{}, sessions, logger, "cosmoshub-4",
		10*time.Millisecond, 100*time.Millisecond)

	history, err := usecase.NewHistoryService(context.Background(), memLedger{}, 5)
	require.NoError(t, err)

	return web.NewServer(0, sessions, auth, history, notifier, logger), sessions
}

func doRequest(t *testing.T, srv *web.Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func authenticate(t *testing.T, sessions *usecase.SessionService) {
	t.Helper()
	challenge := domain.Challenge{Nonce: "abcd", Timestamp: "1700000000000"}
	_, err := sessions.Login(context.Background(), domain.SignedChallenge{
		WalletAddress: "cosmos1webtest",
		Signature:     "sig",
		PubKey:        "pub",
	}, challenge)
	require.NoError(t, err)
}

func TestGatedRoutesRequireSession(t *testing.T) {
	srv, _ := newTestServer(t)

	gated := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/session"},
		{http.MethodPost, "/api/session/refresh"},
		{http.MethodPost, "/api/session/toggle"},
		{http.MethodGet, "/api/history"},
		{http.MethodPost, "/api/history/expand/hist1"},
		{http.MethodGet, "/api/history/summary"},
	}
	for _, route := range gated {
		rec := doRequest(t, srv, route.method, route.target, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code,
			"%s %s must be gated", route.method, route.target)
	}
}

func TestStatusReflectsSessionState(t *testing.T) {
	srv, sessions := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "ok", body["status"])
	require.Equal(t, string(domain.StateUnauthenticated), body["state"])

	authenticate(t, sessions)

	rec = doRequest(t, srv, http.MethodGet, "/status", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, string(domain.StateAuthenticated), body["state"])
}

func TestChallengeEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/challenge", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var challenge domain.Challenge
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &challenge))
	require.Len(t, challenge.Nonce, 32)
	require.NotEmpty(t, challenge.Timestamp)
}

func TestConnectFlow(t *testing.T) {
	srv, sessions := newTestServer(t)

	// The challenge must come from the service; a fabricated one is stale.
	rec := doRequest(t, srv, http.MethodPost, "/api/auth/connect",
		`{"nonce":"ffff","timestamp":"1700000000000"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/challenge", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/connect", rec.Body.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, sessions.Authenticated())

	var identity domain.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &identity))
	require.Equal(t, "cosmos1webtest", identity.WalletAddress)
	require.True(t, strings.HasPrefix(identity.SessionID, "sim_"))
}

func TestConnectRejectsBadPayload(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/connect", `{"nonce":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/auth/connect", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodPost, "/api/auth/logout", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.False(t, sessions.Authenticated())
}

func TestToggleEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodPost, "/api/session/toggle", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var identity domain.Identity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &identity))
	require.False(t, identity.IsActive)
}

func TestHistoryEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodGet, "/api/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page usecase.HistoryPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Trades, 5)

	rec = doRequest(t, srv, http.MethodGet, "/api/history?q=ATOM", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Trades, 1)
	require.Equal(t, "hist1", page.Trades[0].ID)

	rec = doRequest(t, srv, http.MethodGet, "/api/history?page=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpandEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodPost, "/api/history/expand/hist1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body["expanded"])

	rec = doRequest(t, srv, http.MethodPost, "/api/history/expand/hist1", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body["expanded"])
}

func TestSummaryEndpoint(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodGet, "/api/history/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(6), body["total_trades"])
	require.Equal(t, "66.67", body["win_rate"])
	require.Equal(t, "$40.15", body["total_profit_loss"])
}

func TestNotificationsDrain(t *testing.T) {
	srv, sessions := newTestServer(t)
	authenticate(t, sessions)

	rec := doRequest(t, srv, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []usecase.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.NotEmpty(t, notes)
	require.Equal(t, "Authentication Successful", notes[0].Title)

	// Drained on read.
	rec = doRequest(t, srv, http.MethodGet, "/api/notifications", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Empty(t, notes)
}
