package web

import (
	"net/http"

	"github.com/vbonduro/inmuebles/internal/domain"
)

func (s *Server) handleListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := s.inquiries.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiries)
}

func (s *Server) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	in, ok := readJSON[domain.InquiryInput](w, r)
	if !ok {
		return
	}

	id, err := s.inquiries.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{ID: id, Status: "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.Get(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
