package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/itsmostafa/regiontree/internal/outline"
	"github.com/itsmostafa/regiontree/internal/region"
	"github.com/itsmostafa/regiontree/internal/render"
)

var errOutsideRoot = errors.New("path is outside the served root")

// handleExtract returns the regions of the raw request body.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	forest, err := region.ExtractReader(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.jsonError(w, "document too large", http.StatusRequestEntityTooLarge)
			return
		}
		s.jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.writeJSON(w, http.StatusOK, render.Outline{Regions: forest})
}

// handleOutline returns the regions of a file under the served root.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, render.Outline{URI: doc.URI(), Regions: region.Extract(doc.Text())})
}

// handleFocus makes a file the active document.
func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	s.session.Focus(doc)
	s.writeSession(w)
}

// handleSave re-reads a file and refreshes the outline if it is active.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}
	s.session.Save(doc)
	s.writeSession(w)
}

// handleClose clears the outline.
func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	path, err := s.resolvePath(r.URL.Query().Get("path"))
	if err != nil {
		s.pathError(w, err)
		return
	}
	s.session.Close(&outline.TextDocument{Path: path})
	s.writeSession(w)
}

// handleRegions returns the active document's outline.
func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w)
}

// handleSelect returns the cursor target for the region opened on ?line=.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	line, err := strconv.Atoi(r.URL.Query().Get("line"))
	if err != nil || line < 0 {
		s.jsonError(w, "line query parameter must be a non-negative integer", http.StatusBadRequest)
		return
	}

	if s.session.Active() == nil {
		s.jsonError(w, "no active document", http.StatusConflict)
		return
	}

	target, err := s.session.Select(s.session.Regions().AtLine(line))
	switch {
	case errors.Is(err, outline.ErrNoRegion):
		s.jsonError(w, "no region starts on that line", http.StatusNotFound)
		return
	case errors.Is(err, outline.ErrNoActiveDocument):
		s.jsonError(w, "no active document", http.StatusConflict)
		return
	case err != nil:
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, target)
}

func (s *Server) writeSession(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusOK, render.Outline{URI: s.session.URI(), Regions: s.session.Regions()})
}

func (s *Server) loadDocument(w http.ResponseWriter, r *http.Request) (*outline.TextDocument, bool) {
	path, err := s.resolvePath(r.URL.Query().Get("path"))
	if err != nil {
		s.pathError(w, err)
		return nil, false
	}

	doc, err := outline.LoadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.jsonError(w, "file not found", http.StatusNotFound)
			return nil, false
		}
		s.jsonError(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

// resolvePath joins a request path onto the served root and rejects paths
// that leave it, including through symlinks.
func (s *Server) resolvePath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path query parameter is required")
	}

	root, err := filepath.Abs(s.cfg.Root)
	if err != nil {
		return "", err
	}
	if root, err = filepath.EvalSymlinks(root); err != nil {
		return "", err
	}

	full := filepath.Join(root, filepath.FromSlash(p))
	if !within(root, full) {
		return "", errOutsideRoot
	}

	// A missing file is reported by the caller when it is read.
	resolved, err := filepath.EvalSymlinks(full)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return full, nil
	case err != nil:
		return "", err
	case !within(root, resolved):
		return "", errOutsideRoot
	}
	return full, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (s *Server) pathError(w http.ResponseWriter, err error) {
	if errors.Is(err, errOutsideRoot) {
		s.jsonError(w, err.Error(), http.StatusForbidden)
		return
	}
	s.jsonError(w, err.Error(), http.StatusBadRequest)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to write response", "status", status, "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, msg string, status int) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
