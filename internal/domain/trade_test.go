package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

func TestTradeDuration(t *testing.T) {
	entry := time.Date(2023, 6, 15, 10, 15, 0, 0, time.UTC)
	trade := &domain.Trade{
		EntryTime: entry,
		ExitTime:  entry.Add(52*time.Hour + 15*time.Minute),
	}
	if got := trade.Duration(); got != 52*time.Hour+15*time.Minute {
		t.Errorf("Duration = %v, want 52h15m", got)
	}
}

func TestTradeWon(t *testing.T) {
	cases := []struct {
		name string
		pl   string
		want bool
	}{
		{"profit", "21.9", true},
		{"loss", "-6.5", false},
		{"breakeven", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			trade := &domain.Trade{ProfitLoss: decimal.RequireFromString(tc.pl)}
			if got := trade.Won(); got != tc.want {
				t.Errorf("Won = %v, want %v", got, tc.want)
			}
		})
	}
}
