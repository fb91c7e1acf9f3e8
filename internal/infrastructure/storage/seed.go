package storage

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

// SampleTrades returns the demo ledger shipped with the console. Real
// deployments replace this with rows written by the trading agent.
func SampleTrades() []*domain.Trade {
	return []*domain.Trade{
		{
			ID: "hist1", Token: "ATOM", Direction: domain.DirectionLong,
			EntryPrice: decimal.RequireFromString("8.72"), ExitPrice: decimal.RequireFromString("9.45"),
			EntryTime: mustTime("2023-06-15T10:15:00Z"), ExitTime: mustTime("2023-06-17T14:30:00Z"),
			Amount:     decimal.RequireFromString("30"),
			ProfitLoss: decimal.RequireFromString("21.9"), ProfitLossPct: decimal.RequireFromString("8.37"),
			Factors: domain.FactorScores{Technical: 78, Fundamental: 62, Sentiment: 81},
		},
		{
			ID: "hist2", Token: "OSMO", Direction: domain.DirectionShort,
			EntryPrice: decimal.RequireFromString("0.78"), ExitPrice: decimal.RequireFromString("0.71"),
			EntryTime: mustTime("2023-06-12T09:20:00Z"), ExitTime: mustTime("2023-06-14T11:45:00Z"),
			Amount:     decimal.RequireFromString("150"),
			ProfitLoss: decimal.RequireFromString("10.5"), ProfitLossPct: decimal.RequireFromString("8.97"),
			Factors: domain.FactorScores{Technical: 65, Fundamental: 58, Sentiment: 72},
		},
		{
			ID: "hist3", Token: "JUNO", Direction: domain.DirectionLong,
			EntryPrice: decimal.RequireFromString("0.31"), ExitPrice: decimal.RequireFromString("0.28"),
			EntryTime: mustTime("2023-06-08T08:35:00Z"), ExitTime: mustTime("2023-06-11T16:20:00Z"),
			Amount:     decimal.RequireFromString("80"),
			ProfitLoss: decimal.RequireFromString("-2.4"), ProfitLossPct: decimal.RequireFromString("-9.68"),
			Factors: domain.FactorScores{Technical: 42, Fundamental: 51, Sentiment: 59},
		},
		{
			ID: "hist4", Token: "INJ", Direction: domain.DirectionLong,
			EntryPrice: decimal.RequireFromString("7.28"), ExitPrice: decimal.RequireFromString("8.15"),
			EntryTime: mustTime("2023-06-01T13:10:00Z"), ExitTime: mustTime("2023-06-05T10:30:00Z"),
			Amount:     decimal.RequireFromString("15"),
			ProfitLoss: decimal.RequireFromString("13.05"), ProfitLossPct: decimal.RequireFromString("11.95"),
			Factors: domain.FactorScores{Technical: 85, Fundamental: 77, Sentiment: 68},
		},
		{
			ID: "hist5", Token: "AKT", Direction: domain.DirectionShort,
			EntryPrice: decimal.RequireFromString("1.92"), ExitPrice: decimal.RequireFromString("2.05"),
			EntryTime: mustTime("2023-05-28T11:05:00Z"), ExitTime: mustTime("2023-05-31T09:15:00Z"),
			Amount:     decimal.RequireFromString("50"),
			ProfitLoss: decimal.RequireFromString("-6.5"), ProfitLossPct: decimal.RequireFromString("-6.77"),
			Factors: domain.FactorScores{Technical: 38, Fundamental: 45, Sentiment: 52},
		},
		{
			ID: "hist6", Token: "STARS", Direction: domain.DirectionLong,
			EntryPrice: decimal.RequireFromString("0.022"), ExitPrice: decimal.RequireFromString("0.025"),
			EntryTime: mustTime("2023-05-20T15:30:00Z"), ExitTime: mustTime("2023-05-25T16:45:00Z"),
			Amount:     decimal.RequireFromString("1200"),
			ProfitLoss: decimal.RequireFromString("3.6"), ProfitLossPct: decimal.RequireFromString("13.64"),
			Factors: domain.FactorScores{Technical: 72, Fundamental: 68, Sentiment: 75},
		},
	}
}

func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
