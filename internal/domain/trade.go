package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// FactorScores holds the per-dimension conviction scores recorded for a
// trade, each in [0,100].
type FactorScores struct {
	Technical   int `json:"technical"`
	Fundamental int `json:"fundamental"`
	Sentiment   int `json:"sentiment"`
}

// Trade is a single completed trade in the ledger. The ledger is read-only:
// rows are written by the trading agent (out of scope here) and only browsed
// by the console.
type Trade struct {
	ID            string          `json:"id"`
	Token         string          `json:"token"`
	Direction     Direction       `json:"direction"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
	ExitPrice     decimal.Decimal `json:"exit_price"`
	EntryTime     time.Time       `json:"entry_time"`
	ExitTime      time.Time       `json:"exit_time"`
	Amount        decimal.Decimal `json:"amount"`
	ProfitLoss    decimal.Decimal `json:"profit_loss"`
	ProfitLossPct decimal.Decimal `json:"profit_loss_pct"`
	Factors       FactorScores    `json:"factors"`
}

// Duration is the holding time of the trade.
func (t *Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

// Won reports whether the trade closed profitable.
func (t *Trade) Won() bool {
	return t.ProfitLoss.IsPositive()
}
