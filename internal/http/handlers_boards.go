package http

import (
	"net/http"

	"kassa/internal/core"
)

type boardsResponse struct {
	Boards        []core.Board `json:"boards"`
	ActiveBoardID string       `json:"active_board_id"`
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, boardsResponse{
		Boards:        sess.boards.Boards(),
		ActiveBoardID: sess.boards.ActiveBoardID(),
	})
}

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	board, err := sess.boards.AddBoard(r.Context(), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, board)
}

func (s *Server) handleSetActiveBoard(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req struct {
		BoardID string `json:"board_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	if err := sess.boards.SetActiveBoard(r.Context(), req.BoardID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"active_board_id": req.BoardID})
}

func (s *Server) handleRenameBoard(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	board, err := sess.boards.RenameBoard(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := sess.boards.DeleteBoard(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err)
		return
	}
	// Deleting can bootstrap a fresh board; return the resulting collection
	// so clients never have to guess.
	respondJSON(w, http.StatusOK, boardsResponse{
		Boards:        sess.boards.Boards(),
		ActiveBoardID: sess.boards.ActiveBoardID(),
	})
}

func (s *Server) handleShareBoard(w http.ResponseWriter, r *http.Request) {
	s.handleShareChange(w, r, true)
}

func (s *Server) handleUnshareBoard(w http.ResponseWriter, r *http.Request) {
	s.handleShareChange(w, r, false)
}

func (s *Server) handleShareChange(w http.ResponseWriter, r *http.Request, add bool) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	var board *core.Board
	if add {
		board, err = sess.boards.ShareBoard(r.Context(), r.PathValue("id"), req.Email)
	} else {
		board, err = sess.boards.UnshareBoard(r.Context(), r.PathValue("id"), req.Email)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}
