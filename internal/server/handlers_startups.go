package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
	"github.com/ayeeshaliu/radar-nc-api/internal/startups"
)

func (s *Server) handleListStartups(w http.ResponseWriter, r *http.Request) {
	list, err := s.directory.ListPublic(r.Context(), queryFromRequest(r))
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeSuccess(w, "Startups retrieved successfully", startupListData{Startups: list, Total: len(list)})
}

func (s *Server) handleSubmitStartup(w http.ResponseWriter, r *http.Request) {
	var sub startups.Submission
	if !decodeBody(w, r, &sub) {
		return
	}
	if err := sub.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.directory.Submit(r.Context(), &sub)
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, jsonResponse{
		Status:  statusSuccessful,
		Message: "Startup submitted successfully and is pending review",
		Data:    submissionData{ID: id},
	})
}

func (s *Server) handleTrendingStartups(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := s.directory.Trending(r.Context(), limit)
	if err != nil {
		s.writeInternal(w, r, err)
		return
	}
	writeSuccess(w, "Trending startups retrieved successfully", startupListData{Startups: list, Total: len(list)})
}

func (s *Server) handleGetStartup(w http.ResponseWriter, r *http.Request) {
	startup, err := s.directory.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "Startup retrieved successfully", startup)
}

func (s *Server) handleTrackView(w http.ResponseWriter, r *http.Request) {
	var view startups.TrackView
	if r.ContentLength > 0 && !decodeBody(w, r, &view) {
		return
	}
	if view.IPAddress == "" {
		view.IPAddress = r.RemoteAddr
	}
	if view.UserAgent == "" {
		view.UserAgent = r.UserAgent()
	}

	if err := s.analytics.TrackView(r.Context(), chi.URLParam(r, "id"), view); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "View tracked successfully", trackData{Success: true})
}

func (s *Server) handleToggleUpvote(w http.ResponseWriter, r *http.Request) {
	var req upvoteRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}
	// Signed-in visitors upvote as themselves; anonymous ones supply a
	// client-generated identifier.
	if id := auth.IdentityFrom(r.Context()); id.Authenticated {
		req.UserID = id.UserID
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	upvoted, count, err := s.engagement.ToggleUpvote(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	message := "Upvote removed successfully"
	if upvoted {
		message = "Startup upvoted successfully"
	}
	writeSuccess(w, message, upvoteData{Upvoted: upvoted, UpvoteCount: count})
}

func (s *Server) handleContactRequest(w http.ResponseWriter, r *http.Request) {
	var req startups.ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.analytics.TrackContactRequest(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "Contact request sent successfully", trackData{Success: true})
}

func (s *Server) handlePitchDeckAccess(w http.ResponseWriter, r *http.Request) {
	id := auth.IdentityFrom(r.Context())
	access, err := s.pitchDecks.Access(r.Context(), chi.URLParam(r, "id"), id.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeSuccess(w, "Pitch deck access granted", access)
}
