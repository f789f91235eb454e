package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
)

// ownerHeader identifies the calling user. There is no session layer; the
// caller is trusted to be authenticated upstream.
const ownerHeader = "X-User-ID"

const dateLayout = "2006-01-02"

// requireOwner extracts the user id, writing a 401 when it is missing.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner := r.Header.Get(ownerHeader)
	if owner == "" {
		writeErrorMessage(w, http.StatusUnauthorized, "missing "+ownerHeader+" header")
		return "", false
	}
	return owner, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors to status codes. Unclassified errors become
// 500 without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrValidation), errors.Is(err, core.ErrUnsupportedWithdrawal):
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeErrorMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrNotAuthorized):
		writeErrorMessage(w, http.StatusUnauthorized, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		writeErrorMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseDate parses a YYYY-MM-DD date. An empty string yields a zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", core.ErrValidation, s)
	}
	return t, nil
}

type folderResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`
}

type transactionResponse struct {
	ID          string          `json:"id"`
	FolderID    string          `json:"folderId"`
	Category    string          `json:"type"`
	Amount      float64         `json:"amount"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Profit      float64         `json:"profit,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Folder      *folderResponse `json:"folder,omitempty"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	resp := transactionResponse{
		ID:          tx.ID,
		FolderID:    tx.FolderID,
		Category:    string(tx.Category),
		Amount:      tx.Amount.Float64(),
		Description: tx.Description,
		Date:        tx.Date.Format(dateLayout),
		Profit:      tx.Profit.Float64(),
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
	if tx.Folder != nil {
		resp.Folder = &folderResponse{
			ID:    tx.Folder.ID,
			Name:  tx.Folder.Name,
			Icon:  tx.Folder.Icon,
			Color: tx.Folder.Color,
		}
	}
	return resp
}

func toTransactionResponses(txs []core.Transaction) []transactionResponse {
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	return out
}

type historyResponse struct {
	ID          string    `json:"id"`
	FolderID    string    `json:"folderId"`
	FolderName  string    `json:"folderName,omitempty"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toHistoryResponses(entries []core.HistoryEntry) []historyResponse {
	out := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyResponse{
			ID:          e.ID,
			FolderID:    e.FolderID,
			FolderName:  e.FolderName,
			Action:      string(e.Action),
			Description: e.Description,
			OccurredAt:  e.OccurredAt,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

func toFolderResponses(folders []core.Folder) []folderResponse {
	out := make([]folderResponse, 0, len(folders))
	for _, f := range folders {
		out = append(out, folderResponse{ID: f.ID, Name: f.Name, Icon: f.Icon, Color: f.Color})
	}
	return out
}
