package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"kassa/internal/amqp"
	"kassa/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Icon string `json:"icon"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	cat, err := sess.boards.AddCategory(r.Context(), core.Category{
		Name: strings.TrimSpace(req.Name),
		Type: core.CategoryType(req.Type),
		Icon: req.Icon,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	board, err := sess.boards.DeleteCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}

// transactionRequest accepts the amount either as cents or as a decimal
// string ("123,45"); the decimal form wins when both are present.
type transactionRequest struct {
	Title       string    `json:"title"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount,omitempty"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	CategoryID  string    `json:"category_id"`
}

func (req *transactionRequest) toTransaction() (core.Transaction, error) {
	cents := req.AmountCents
	if strings.TrimSpace(req.Amount) != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.Transaction{}, err
		}
	}
	return core.Transaction{
		Title:       strings.TrimSpace(req.Title),
		AmountCents: cents,
		Date:        req.Date,
		Description: strings.TrimSpace(req.Description),
		CategoryID:  req.CategoryID,
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	data, err := req.toTransaction()
	if err != nil {
		respondError(w, r, err)
		return
	}
	if data.Date.IsZero() {
		data.Date = time.Now().UTC()
	}
	if err := data.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := sess.boards.AddTransaction(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.publishTransaction(r, user, sess, tx)

	respondJSON(w, http.StatusCreated, tx)
}

// publishTransaction mirrors the new entry to the export queue. Failures
// are logged, never surfaced: the ledger write already succeeded.
func (s *Server) publishTransaction(r *http.Request, user string, sess *session, tx *core.Transaction) {
	if s.publisher == nil {
		return
	}
	board := sess.boards.ActiveBoard()
	if board == nil {
		return
	}
	category := core.UnknownCategoryName
	if c, ok := board.CategoryByID(tx.CategoryID); ok {
		category = c.Name
	}
	msg := amqp.NewTransactionCreatedMessage(
		user, board.ID, board.Name, tx.ID, tx.Title, category, tx.Description, tx.AmountCents, tx.Date)
	if err := s.publisher.PublishTransactionCreated(r.Context(), msg); err != nil {
		slog.WarnContext(r.Context(), "Transaction export publish failed",
			"transaction_id", tx.ID, "error", err)
	}
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	data, err := req.toTransaction()
	if err != nil {
		respondError(w, r, err)
		return
	}
	data.ID = r.PathValue("id")
	if err := data.Validate(); err != nil {
		respondError(w, r, err)
		return
	}
	tx, err := sess.boards.UpdateTransaction(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	board, err := sess.boards.DeleteTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, board)
}
