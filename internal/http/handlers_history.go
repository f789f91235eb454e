package http

import (
	"net/http"
	"strconv"
	"strings"
)

// handleGlobalHistory serves GET /api/transactions/history. The limit query
// parameter is clamped by the history service.
func (s *Server) handleGlobalHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	entries, err := s.history.QueryGlobal(r.Context(), owner, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryResponses(entries))
}

// handleFolderHistory serves GET /api/transactions/history/{folderId}.
func (s *Server) handleFolderHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	folderID := strings.TrimPrefix(r.URL.Path, "/api/transactions/history/")
	if folderID == "" || strings.Contains(folderID, "/") {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}

	entries, err := s.history.QueryByFolder(r.Context(), owner, folderID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryResponses(entries))
}
