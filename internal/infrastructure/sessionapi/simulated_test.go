package sessionapi_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyrusai/agent-console/internal/domain"
	"github.com/cyrusai/agent-console/internal/infrastructure/sessionapi"
)

func TestSimulatedLogin(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	ctx := context.Background()

	result, err := api.Login(ctx, domain.SignedChallenge{WalletAddress: "cosmos1abc"}, domain.Challenge{})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(result.SessionID, "sim_"))
	require.Equal(t, "25000", result.UserData.TotalCapital.String())
	require.Equal(t, "15000", result.UserData.BridgedCapital.String())
	require.Equal(t, "10000", result.UserData.ActiveCapital.String())
	require.True(t, result.UserData.IsActive)
	require.NotNil(t, result.UserData.Weights)

	// Distinct session per login.
	second, err := api.Login(ctx, domain.SignedChallenge{WalletAddress: "cosmos1abc"}, domain.Challenge{})
	require.NoError(t, err)
	require.NotEqual(t, result.SessionID, second.SessionID)
}

func TestSimulatedLoginRequiresWallet(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	_, err := api.Login(context.Background(), domain.SignedChallenge{}, domain.Challenge{})

	var rae *domain.RemoteAuthError
	require.ErrorAs(t, err, &rae)
}

func TestSimulatedToggleAndFetch(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	ctx := context.Background()

	result, err := api.Login(ctx, domain.SignedChallenge{WalletAddress: "cosmos1abc"}, domain.Challenge{})
	require.NoError(t, err)

	isActive, err := api.ToggleStatus(ctx, result.SessionID)
	require.NoError(t, err)
	require.False(t, isActive)

	data, err := api.FetchUserData(ctx, result.SessionID)
	require.NoError(t, err)
	require.False(t, data.IsActive)

	isActive, err = api.ToggleStatus(ctx, result.SessionID)
	require.NoError(t, err)
	require.True(t, isActive)
}

func TestSimulatedUnknownSession(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	ctx := context.Background()

	_, err := api.FetchUserData(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionInvalid)

	_, err = api.ToggleStatus(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrSessionInvalid)
}

func TestSimulatedValidateRevivesPersistedPair(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	ctx := context.Background()

	// A pair persisted by a previous process is unknown to this instance but
	// accepted in degraded mode, with figures re-derived.
	data, err := api.ValidateSession(ctx, domain.Credentials{
		SessionID:     "sim_from_last_run",
		WalletAddress: "cosmos1abc",
	})
	require.NoError(t, err)
	require.Equal(t, "25000", data.TotalCapital.String())
	require.True(t, data.IsActive)
}

func TestSimulatedLogoutForgetsSession(t *testing.T) {
	api := sessionapi.NewSimulatedWithDelay(0)
	ctx := context.Background()

	result, err := api.Login(ctx, domain.SignedChallenge{WalletAddress: "cosmos1abc"}, domain.Challenge{})
	require.NoError(t, err)

	require.NoError(t, api.Logout(ctx, result.SessionID))
	_, err = api.FetchUserData(ctx, result.SessionID)
	require.ErrorIs(t, err, domain.ErrSessionInvalid)
}
