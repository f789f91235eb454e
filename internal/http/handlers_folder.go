package http

import (
	"net/http"
	"strings"

	"fintrack/internal/services"
)

type folderRequest struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// handleFolders serves GET (list) and POST (create) on /api/folders.
func (s *Server) handleFolders(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		folders, err := s.folders.List(r.Context(), owner)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFolderResponses(folders))

	case http.MethodPost:
		var req folderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		f, err := s.folders.Create(r.Context(), owner, services.CreateFolderInput{
			Name:  req.Name,
			Icon:  req.Icon,
			Color: req.Color,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, folderResponse{ID: f.ID, Name: f.Name, Icon: f.Icon, Color: f.Color})

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleFolderByID serves DELETE /api/folders/{id}.
func (s *Server) handleFolderByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, "DELETE")
		return
	}
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/folders/")
	if id == "" || strings.Contains(id, "/") {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}

	if err := s.folders.Delete(r.Context(), id, owner); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "folder deleted"})
}
