package web

import (
	"net/http"
	"strconv"

	"github.com/cyrusai/agent-console/internal/usecase"
)

// History view handlers. The view state (query, page, expanded rows) lives in
// the history service; these handlers only translate HTTP to it.

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		s.history.SetQuery(q.Get("q"))
	}
	if q.Has("page") {
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "page must be an integer")
			return
		}
		s.history.SetPage(page)
	}

	s.writeJSON(w, http.StatusOK, s.history.View())
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing trade id")
		return
	}
	s.history.ToggleExpand(id)
	s.writeJSON(w, http.StatusOK, map[string]bool{"expanded": s.history.IsExpanded(id)})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := s.history.Summary()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_trades":      summary.TotalTrades,
		"profitable_trades": summary.ProfitableTrades,
		"losing_trades":     summary.LosingTrades,
		"win_rate":          summary.WinRate.StringFixed(2),
		"total_profit_loss": usecase.FormatCurrency(summary.TotalProfitLoss),
	})
}
