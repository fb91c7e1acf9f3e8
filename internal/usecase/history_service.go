package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cyrusai/agent-console/internal/domain"
)

// HistoryService derives the filtered, paginated, row-expandable projection
// over the trade ledger. The ledger is loaded once and never mutated; the only
// state the service owns is the view state (query, page, expanded rows).
type HistoryService struct {
	pageSize int

	mu       sync.RWMutex
	ledger   []*domain.Trade
	query    string
	page     int
	expanded map[string]bool
}

// HistoryPage is one rendered page of the history view.
type HistoryPage struct {
	Trades     []TradeRow `json:"trades"`
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	Query      string     `json:"query"`
}

// TradeRow pairs a trade with its expansion state.
type TradeRow struct {
	*domain.Trade
	Expanded bool `json:"expanded"`
}

// HistorySummary reflects the whole ledger regardless of search or page.
type HistorySummary struct {
	TotalTrades      int             `json:"total_trades"`
	ProfitableTrades int             `json:"profitable_trades"`
	LosingTrades     int             `json:"losing_trades"`
	WinRate          decimal.Decimal `json:"win_rate"`
	TotalProfitLoss  decimal.Decimal `json:"total_profit_loss"`
}

func NewHistoryService(ctx context.Context, ledger domain.TradeLedger, pageSize int) (*HistoryService, error) {
	trades, err := ledger.ListTrades(ctx)
	if err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	return &HistoryService{
		pageSize: pageSize,
		ledger:   trades,
		page:     1,
		expanded: make(map[string]bool),
	}, nil
}

// FilterTrades is the pure filter step: case-insensitive substring match on
// the token symbol, ledger order preserved. Empty query passes everything.
func FilterTrades(ledger []*domain.Trade, query string) []*domain.Trade {
	if query == "" {
		return ledger
	}
	q := strings.ToLower(query)
	var out []*domain.Trade
	for _, t := range ledger {
		if strings.Contains(strings.ToLower(t.Token), q) {
			out = append(out, t)
		}
	}
	return out
}

// Paginate is the pure pagination step. totalPages is at least 1 even for an
// empty input, and page is clamped to [1, totalPages] before slicing.
func Paginate(filtered []*domain.Trade, page, pageSize int) ([]*domain.Trade, int) {
	totalPages := (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start >= len(filtered) {
		return nil, totalPages
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], totalPages
}

// SetQuery replaces the search query. The page is left alone; clamping at
// view time keeps it in range.
func (h *HistoryService) SetQuery(query string) {
	h.mu.Lock()
	h.query = query
	h.mu.Unlock()
}

func (h *HistoryService) SetPage(page int) {
	h.mu.Lock()
	h.page = page
	h.mu.Unlock()
}

// ToggleExpand flips the expansion state of a row. Expansion is independent
// of pagination: a toggled row stays toggled across page changes even while
// not visible. Calling it twice restores the prior state.
func (h *HistoryService) ToggleExpand(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.expanded[id] {
		delete(h.expanded, id)
	} else {
		h.expanded[id] = true
	}
}

func (h *HistoryService) IsExpanded(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.expanded[id]
}

// View derives the current page: filter, clamp, slice.
func (h *HistoryService) View() HistoryPage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	filtered := FilterTrades(h.ledger, h.query)
	slice, totalPages := Paginate(filtered, h.page, h.pageSize)

	page := h.page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	rows := make([]TradeRow, 0, len(slice))
	for _, t := range slice {
		rows = append(rows, TradeRow{Trade: t, Expanded: h.expanded[t.ID]})
	}

	return HistoryPage{
		Trades:     rows,
		Page:       page,
		TotalPages: totalPages,
		Query:      h.query,
	}
}

// Summary computes the full-ledger statistics. Sums are exact decimals; the
// win rate is 0 for an empty ledger.
func (h *HistoryService) Summary() HistorySummary {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Summarize(h.ledger)
}

// Summarize is the pure summary step over an arbitrary ledger.
func Summarize(ledger []*domain.Trade) HistorySummary {
	s := HistorySummary{
		TotalTrades:     len(ledger),
		WinRate:         decimal.Zero,
		TotalProfitLoss: decimal.Zero,
	}

	for _, t := range ledger {
		if t.Won() {
			s.ProfitableTrades++
		}
		s.TotalProfitLoss = s.TotalProfitLoss.Add(t.ProfitLoss)
	}
	s.LosingTrades = s.TotalTrades - s.ProfitableTrades

	if s.TotalTrades > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.ProfitableTrades)).
			Div(decimal.NewFromInt(int64(s.TotalTrades))).
			Mul(decimal.NewFromInt(100))
	}
	return s
}

// FormatCurrency renders a USD amount to exactly two decimal places.
func FormatCurrency(v decimal.Decimal) string {
	if v.IsNegative() {
		return "-$" + v.Abs().StringFixed(2)
	}
	return "$" + v.StringFixed(2)
}

// FormatPercent renders a percentage value to exactly two decimal places.
func FormatPercent(v decimal.Decimal) string {
	return v.StringFixed(2) + "%"
}
