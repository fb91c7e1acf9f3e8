package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cyrusai/agent-console/internal/domain"
	"github.com/cyrusai/agent-console/internal/infrastructure/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "console.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCredentialsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	loaded, err := store.LoadCredentials(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	creds := domain.Credentials{SessionID: "sim_abc", WalletAddress: "cosmos1abc"}
	require.NoError(t, store.SaveCredentials(ctx, creds))

	loaded, err = store.LoadCredentials(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, creds, *loaded)

	// A second save overwrites rather than duplicates.
	creds2 := domain.Credentials{SessionID: "sim_def", WalletAddress: "cosmos1def"}
	require.NoError(t, store.SaveCredentials(ctx, creds2))
	loaded, err = store.LoadCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, creds2, *loaded)

	require.NoError(t, store.ClearCredentials(ctx))
	loaded, err = store.LoadCredentials(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestTradesRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	trades, err := store.ListTrades(ctx)
	require.NoError(t, err)
	require.Empty(t, trades)

	sample := storage.SampleTrades()
	require.NoError(t, store.SeedTrades(ctx, sample))

	trades, err = store.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, len(sample))

	// Newest exit first.
	for i := 1; i < len(trades); i++ {
		require.False(t, trades[i-1].ExitTime.Before(trades[i].ExitTime),
			"trades must be ordered by exit time descending")
	}

	byID := make(map[string]*domain.Trade, len(trades))
	for _, tr := range trades {
		byID[tr.ID] = tr
	}
	for _, want := range sample {
		got, ok := byID[want.ID]
		require.True(t, ok, "trade %s missing after round trip", want.ID)
		require.Equal(t, want.Token, got.Token)
		require.Equal(t, want.Direction, got.Direction)
		require.True(t, want.EntryPrice.Equal(got.EntryPrice), "entry price for %s", want.ID)
		require.True(t, want.ExitPrice.Equal(got.ExitPrice), "exit price for %s", want.ID)
		require.True(t, want.Amount.Equal(got.Amount), "amount for %s", want.ID)
		require.True(t, want.ProfitLoss.Equal(got.ProfitLoss), "profit loss for %s", want.ID)
		require.True(t, want.ProfitLossPct.Equal(got.ProfitLossPct), "profit loss pct for %s", want.ID)
		require.Equal(t, want.Factors, got.Factors)
		require.True(t, want.EntryTime.Equal(got.EntryTime), "entry time for %s", want.ID)
		require.True(t, want.ExitTime.Equal(got.ExitTime), "exit time for %s", want.ID)
	}
}

func TestSeedTradesIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sample := storage.SampleTrades()
	require.NoError(t, store.SeedTrades(ctx, sample))
	require.NoError(t, store.SeedTrades(ctx, sample))

	trades, err := store.ListTrades(ctx)
	require.NoError(t, err)
	require.Len(t, trades, len(sample))
}

func TestHalfWrittenCredentialsCountAsAbsent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCredentials(ctx, domain.Credentials{
		SessionID:     "sim_abc",
		WalletAddress: "",
	}))

	loaded, err := store.LoadCredentials(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}
