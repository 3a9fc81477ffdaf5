package server

import (
	"errors"
	"net/http"

	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	id, err := s.verifier.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.metrics.logins.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		s.metrics.logins.WithLabelValues("error").Inc()
		s.writeInternal(w, r, err)
		return
	}

	token, expiresAt, err := s.codec.Issue(id)
	if err != nil {
		s.metrics.logins.WithLabelValues("error").Inc()
		s.writeInternal(w, r, err)
		return
	}

	s.metrics.logins.WithLabelValues("accepted").Inc()
	writeSuccess(w, "Login successful", loginData{
		Token:           token,
		TokenExpiresAt:  expiresAt,
		UserID:          id.UserID,
		IsAdmin:         id.IsAdmin,
		IsFounder:       id.IsFounder,
		IsInvestor:      id.IsInvestor,
		IsCuriousPerson: id.IsCuriousPerson,
	})
}
