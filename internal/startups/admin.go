package startups

import (
	"context"
	"fmt"
	"log/slog"
)

// Admin covers the review surface: listing every entry and moving entries
// through the approval workflow.
type Admin struct {
	repo   *Repository
	logger *slog.Logger
}

func NewAdmin(repo *Repository, logger *slog.Logger) *Admin {
	if logger == nil {
		logger = slog.Default()
	}
	return &Admin{repo: repo, logger: logger}
}

// List returns entries of any status, private columns included.
func (a *Admin) List(ctx context.Context, q AdminQuery) ([]AdminStartup, error) {
	a.logger.Info("listing startups for admin", "status", q.Status)
	return a.repo.ListAdmin(ctx, q)
}

// Update sets an entry's review status and optional notes.
func (a *Admin) Update(ctx context.Context, id string, status Status, adminNotes string) (*AdminStartup, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q is not recognized", status)
	}
	a.logger.Info("updating startup status", "id", id, "status", status)

	updated, err := a.repo.UpdateStatus(ctx, id, status, adminNotes)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}
	return updated, nil
}

// GetByID returns one entry with private columns for the review surface.
func (a *Admin) GetByID(ctx context.Context, id string) (*AdminStartup, error) {
	startup, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if startup == nil {
		return nil, ErrNotFound
	}
	return startup, nil
}
