package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ayeeshaliu/radar-nc-api/internal/startups"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, jsonResponse{Status: statusSuccessful, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, jsonResponse{Status: statusError, Message: message})
}

// writeInternal logs the full failure and answers with a generic message;
// internal detail never reaches the caller.
func (s *Server) writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("unexpected error", "method", r.Method, "path", r.URL.Path, "err", err)
	writeError(w, http.StatusInternalServerError,
		"An error occurred while processing your request")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return false
	}
	return true
}

// writeDomainError maps the directory domain failures onto the envelope;
// everything else is internal.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, startups.ErrNotFound):
		writeError(w, http.StatusNotFound, "Startup not found")
	case errors.Is(err, startups.ErrNotAvailable):
		writeError(w, http.StatusNotFound, "Startup not available")
	case errors.Is(err, startups.ErrNoPitchDeck):
		writeError(w, http.StatusNotFound, "Pitch deck not available for this startup")
	default:
		s.writeInternal(w, r, err)
	}
}

func queryFromRequest(r *http.Request) startups.Query {
	values := r.URL.Query()
	q := startups.Query{
		Sector:        values.Get("sector"),
		Stage:         startups.Stage(values.Get("stage")),
		Country:       values.Get("country"),
		FounderGender: startups.FounderGender(values.Get("founderGender")),
		Tags:          values.Get("tags"),
		SearchQuery:   values.Get("searchQuery"),
	}
	if v := values.Get("isStudentBuild"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			q.IsStudentBuild = &b
		}
	}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil {
		q.Limit = v
	}
	if v, err := strconv.Atoi(values.Get("offset")); err == nil {
		q.Offset = v
	}
	return q
}

func adminQueryFromRequest(r *http.Request) startups.AdminQuery {
	values := r.URL.Query()
	q := startups.AdminQuery{Status: startups.Status(values.Get("status"))}
	if v, err := strconv.Atoi(values.Get("limit")); err == nil {
		q.Limit = v
	}
	if v, err := strconv.Atoi(values.Get("offset")); err == nil {
		q.Offset = v
	}
	return q
}
