package http

import (
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

type transactionRequest struct {
	FolderID    string  `json:"folderId"`
	Category    string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// handleTransactions serves GET (list) and POST (create) on /api/transactions.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTransactions(w, r)
	case http.MethodPost:
		s.createTransaction(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	txs, err := s.transactions.List(r.Context(), owner, q.Get("search"), q.Get("folderId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionResponses(txs))
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req transactionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), owner, services.CreateTransactionInput{
		FolderID:    req.FolderID,
		Category:    core.Category(req.Category),
		Amount:      core.MoneyFromFloat(req.Amount),
		Description: req.Description,
		Date:        date,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(tx))
}

// handleTransactionByID serves PUT (edit) and DELETE on /api/transactions/{id}.
func (s *Server) handleTransactionByID(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/transactions/")
	if id == "" || strings.Contains(id, "/") {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var req transactionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}

		amount := core.MoneyFromFloat(req.Amount)
		category := core.Category(req.Category)
		tx, err := s.transactions.Edit(r.Context(), id, owner, services.TransactionPatch{
			Amount:      &amount,
			Description: &req.Description,
			Category:    &category,
			Date:        &date,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionResponse(tx))

	case http.MethodDelete:
		if err := s.transactions.Delete(r.Context(), id, owner); err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "transaction deleted"})

	default:
		methodNotAllowed(w, "PUT, DELETE")
	}
}

type withdrawRequest struct {
	TransactionID string  `json:"transactionId"`
	Amount        float64 `json:"amount"`
}

type withdrawResponse struct {
	Source  transactionResponse `json:"source"`
	Created transactionResponse `json:"created"`
}

// handleWithdraw serves POST /api/transactions/withdraw.
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.withdrawals.Withdraw(r.Context(), req.TransactionID, owner, core.MoneyFromFloat(req.Amount))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawResponse{
		Source:  toTransactionResponse(result.Source),
		Created: toTransactionResponse(result.Created),
	})
}
