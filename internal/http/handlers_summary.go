package http

import (
	"net/http"

	"kassa/internal/advisor"
	"kassa/internal/core"
	"kassa/internal/store"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	board := sess.boards.ActiveBoard()
	if board == nil {
		respondError(w, r, store.ErrNoActiveBoard)
		return
	}
	summary := core.Summarize(*board)
	respondJSON(w, http.StatusOK, struct {
		BoardID   string             `json:"board_id"`
		BoardName string             `json:"board_name"`
		Summary   core.BudgetSummary `json:"summary"`
	}{BoardID: board.ID, BoardName: board.Name, Summary: summary})
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if s.advisor == nil {
		respondJSON(w, http.StatusServiceUnavailable,
			errorResponse{Error: "no budget advisor configured"})
		return
	}
	board := sess.boards.ActiveBoard()
	if board == nil {
		respondError(w, r, store.ErrNoActiveBoard)
		return
	}
	in := advisor.InputFromSummary(core.Summarize(*board))
	suggestions, err := s.advisor.Suggest(r.Context(), in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if suggestions == nil {
		suggestions = []advisor.Suggestion{}
	}
	respondJSON(w, http.StatusOK, map[string][]advisor.Suggestion{"suggestions": suggestions})
}
