// Package startups implements the directory domain: submissions, public
// browsing, review workflow, and engagement tracking over the record store.
package startups

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// Domain failures the HTTP layer maps to 404-style envelopes.
var (
	ErrNotFound     = errors.New("startup not found")
	ErrNotAvailable = errors.New("startup not available")
	ErrNoPitchDeck  = errors.New("pitch deck not available for this startup")
)

// Service covers the public directory operations.
type Service struct {
	repo   *Repository
	logger *slog.Logger
}

func NewService(repo *Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Submit stores a founder's application as a pending entry.
func (s *Service) Submit(ctx context.Context, sub *Submission) (string, error) {
	s.logger.Info("submitting new startup", "name", sub.Name)
	id, err := s.repo.Create(ctx, sub)
	if err != nil {
		s.logger.Error("startup submission failed", "name", sub.Name, "err", err)
		return "", err
	}
	s.logger.Info("startup submitted", "id", id, "name", sub.Name, "founderEmail", sub.Email)
	return id, nil
}

// ListPublic returns approved startups matching the query.
func (s *Service) ListPublic(ctx context.Context, q Query) ([]Startup, error) {
	return s.repo.ListPublic(ctx, q)
}

// GetByID returns one approved startup's public view. Pending and rejected
// entries are reported as unavailable, not leaked.
func (s *Service) GetByID(ctx context.Context, id string) (*Startup, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if record.Status != StatusApproved {
		return nil, ErrNotAvailable
	}
	public := record.Startup
	return &public, nil
}

// Trending returns the most engaging approved startups. The score weighs
// an upvote as two views.
func (s *Service) Trending(ctx context.Context, limit int) ([]Startup, error) {
	if limit <= 0 {
		limit = 10
	}
	list, err := s.repo.ListPublic(ctx, Query{Limit: limit * 5})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return engagementScore(list[i]) > engagementScore(list[j])
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func engagementScore(s Startup) int {
	return s.ViewCount + s.UpvoteCount*2
}
