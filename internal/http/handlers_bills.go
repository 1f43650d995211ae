package http

import (
	"net/http"
	"strings"
	"time"

	"kassa/internal/core"
	"kassa/internal/services"
	"kassa/internal/store"
)

type billRequest struct {
	Title       string    `json:"title"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Notes       string    `json:"notes,omitempty"`
	CategoryID  string    `json:"category_id,omitempty"`
}

func (req *billRequest) toBill() (core.Bill, error) {
	cents := req.AmountCents
	if strings.TrimSpace(req.Amount) != "" {
		var err error
		cents, err = core.ParseDecimalToCents(req.Amount)
		if err != nil {
			return core.Bill{}, err
		}
	}
	return core.Bill{
		Title:       strings.TrimSpace(req.Title),
		AmountCents: cents,
		DueDate:     req.DueDate,
		Notes:       strings.TrimSpace(req.Notes),
		CategoryID:  req.CategoryID,
	}, nil
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	bills := sess.bills.Bills()
	if bills == nil {
		bills = []core.Bill{}
	}
	respondJSON(w, http.StatusOK, map[string][]core.Bill{"bills": bills})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	data, err := req.toBill()
	if err != nil {
		respondError(w, r, err)
		return
	}
	bill, err := sess.bills.AddBill(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, bill)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req billRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, err)
		return
	}
	data, err := req.toBill()
	if err != nil {
		respondError(w, r, err)
		return
	}
	data.ID = r.PathValue("id")
	bill, err := sess.bills.UpdateBill(r.Context(), data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, bill)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	removed := sess.bills.DeleteBill(r.Context(), r.PathValue("id"))
	if removed == nil {
		respondError(w, r, store.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, removed)
}

// handlePayBill toggles the paid flag and, on unpaid→paid, settles the bill
// into the active board's ledger. A paid bill with no created transaction is
// reported as-is; the client decides how loudly to surface it.
func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.session(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	result, err := services.SettleBill(r.Context(), sess.bills, sess.boards, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
