// Package server wires the HTTP surface of the startup directory API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
	"github.com/ayeeshaliu/radar-nc-api/internal/config"
	"github.com/ayeeshaliu/radar-nc-api/internal/startups"
)

type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	codec    *auth.Codec
	verifier *auth.Verifier

	directory  *startups.Service
	engagement *startups.Engagement
	analytics  *startups.Analytics
	pitchDecks *startups.PitchDeck
	admin      *startups.Admin

	metrics *metrics
	router  chi.Router
}

// Option tweaks server construction; used by tests to swap collaborators.
type Option func(*Server)

// WithRecordStore replaces the Airtable-backed record store.
func WithRecordStore(store startups.RecordStore) Option {
	return func(s *Server) {
		repo := startups.NewRepository(store, s.cfg.AirtableStartupsTableID, s.logger)
		s.directory = startups.NewService(repo, s.logger)
		s.engagement = startups.NewEngagement(repo, s.logger)
		s.analytics = startups.NewAnalytics(repo, newSMTPMailer(s.cfg.SMTP, s.logger), s.logger)
		s.pitchDecks = startups.NewPitchDeck(repo, s.logger)
		s.admin = startups.NewAdmin(repo, s.logger)
		if us, ok := store.(auth.UserStore); ok {
			s.verifier = auth.NewVerifier(us, s.cfg.AirtableUsersTableID, s.logger)
		}
	}
}

// WithRegistry replaces the Prometheus registry; tests use a fresh one to
// avoid duplicate registration.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(s *Server) {
		s.metrics = newMetrics(reg)
	}
}

func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		codec:  auth.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience),
	}

	client := airtable.NewClient(cfg.AirtableAPIBaseURL, cfg.AirtableAPIKey, cfg.AirtableBaseID, logger)
	WithRecordStore(client)(s)

	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.DefaultRegisterer)
	}

	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }
