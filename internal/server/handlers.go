package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvilhena/depsense/pkg/complete"
	"github.com/mvilhena/depsense/pkg/editor"
)

// completeRequest is the body of POST /v1/complete: the buffer as lines
// plus the zero-based cursor position.
type completeRequest struct {
	Lines  []string `json:"lines"`
	Row    int      `json:"row"`
	Column int      `json:"column"`
}

type completeResponse struct {
	Suggestions []complete.Suggestion `json:"suggestions"`
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Row < 0 || req.Row >= len(req.Lines) || req.Column < 0 {
		writeError(w, http.StatusBadRequest, "cursor out of range")
		return
	}

	buf := editor.NewMemBuffer(req.Lines...)
	suggestions := s.engine.Complete(r.Context(), buf, editor.Position{Row: req.Row, Column: req.Column})
	if suggestions == nil {
		suggestions = []complete.Suggestion{}
	}
	writeJSON(w, http.StatusOK, completeResponse{Suggestions: suggestions})
}

func (s *Server) handleDeps(w http.ResponseWriter, r *http.Request) {
	snap := s.engine.Snapshot()
	if snap == nil {
		writeError(w, http.StatusNotFound, "no manifest loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"manifest":     snap.Path,
		"hash":         snap.SourceHash,
		"dependencies": snap.Dependencies,
	})
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	pkg := chi.URLParam(r, "pkg")
	if pkg == "" {
		writeError(w, http.StatusBadRequest, "missing package name")
		return
	}
	writeJSON(w, http.StatusOK, s.engine.Metadata(r.Context(), pkg))
}

func (s *Server) handleCacheReset(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ResetCache(r.Context()); err != nil {
		s.logger.Error("cache reset failed", "err", err)
		writeError(w, http.StatusInternalServerError, "cache reset failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.ClearData(r.Context()); err != nil {
		s.logger.Error("clear data failed", "err", err)
		writeError(w, http.StatusInternalServerError, "clear data failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
