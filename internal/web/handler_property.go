package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/inmuebles/internal/domain"
)

// parseTriState reads an optional boolean query parameter. An absent
// parameter yields nil; a present one must be a recognised boolean word.
func parseTriState(r *http.Request, name string) (*bool, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		return nil, true
	}
	var b bool
	switch strings.ToLower(q.Get(name)) {
	case "true", "1", "yes", "y", "on", "t":
		b = true
	case "false", "0", "no", "n", "off", "f":
		b = false
	default:
		return nil, false
	}
	return &b, true
}

func (s *Server) handleListProperties(w http.ResponseWriter, r *http.Request) {
	featured, ok := parseTriState(r, "featured")
	if !ok {
		writeValidationError(w, &domain.ValidationError{Fields: []domain.FieldError{{
			Field:   "featured",
			Rule:    "bool",
			Message: "must be a valid boolean",
		}}})
		return
	}

	props, err := s.properties.List(r.Context(), featured)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, props)
}

func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	p, err := s.properties.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	in, ok := readJSON[domain.PropertyInput](w, r)
	if !ok {
		return
	}

	id, err := s.properties.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{ID: id, Status: "ok"})
}

func (s *Server) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	patch, ok := readJSON[domain.PropertyPatch](w, r)
	if !ok {
		return
	}

	p, err := s.properties.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	if err := s.properties.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
