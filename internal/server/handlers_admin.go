package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAdminListStartups(w http.ResponseWriter, r *http.Request) {
	list, err := s.admin.List(r.Context(), adminQueryFromRequest(r))
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeSuccess(w, "Startups retrieved successfully", adminListData{Startups: list, Total: len(list)})
}

func (s *Server) handleAdminGetStartup(w http.ResponseWriter, r *http.Request) {
	startup, err := s.admin.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "Startup retrieved successfully", startup)
}

func (s *Server) handleAdminUpdateStartup(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	startup, err := s.admin.Update(r.Context(), chi.URLParam(r, "id"), req.Status, req.AdminNotes)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "Startup updated successfully", startup)
}
