package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
)

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.metrics.instrument)
	r.Use(s.requestLogger)

	r.Get("/healthcheck", s.handleHealthcheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(auth.ResolveSession(s.codec, s.logger))

		r.Post("/auth/login", s.handleLogin)

		r.Route("/startups", func(r chi.Router) {
			r.Get("/", s.handleListStartups)
			r.Post("/", s.handleSubmitStartup)
			r.Get("/trending", s.handleTrendingStartups)
			r.Get("/{id}", s.handleGetStartup)
			r.Post("/{id}/view", s.handleTrackView)
			r.Post("/{id}/upvote", s.handleToggleUpvote)
			r.Post("/{id}/contact", s.handleContactRequest)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireRole(s.logger, auth.RoleInvestor))
				r.Get("/{id}/pitch-deck", s.handlePitchDeckAccess)
			})
		})

		r.Route("/admin/startups", func(r chi.Router) {
			r.Use(auth.RequireRole(s.logger, auth.RoleAdmin))
			r.Get("/", s.handleAdminListStartups)
			r.Get("/{id}", s.handleAdminGetStartup)
			r.Put("/{id}", s.handleAdminUpdateStartup)
		})
	})

	s.router = r
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// requestLogger logs one line per request. Healthcheck probes are skipped to
// keep the log readable.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthcheck" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"remote", r.RemoteAddr)
	})
}
