package startups

import (
	"context"
	"log/slog"
	"sync"
)

// Engagement tracks per-user upvotes. The who-voted sets live in memory
// only; the aggregate count is persisted on the record, so a restart keeps
// totals but forgets which users they came from.
type Engagement struct {
	repo   *Repository
	logger *slog.Logger

	mu      sync.Mutex
	upvotes map[string]map[string]struct{} // startup ID -> voter user IDs
}

func NewEngagement(repo *Repository, logger *slog.Logger) *Engagement {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engagement{
		repo:    repo,
		logger:  logger,
		upvotes: make(map[string]map[string]struct{}),
	}
}

// ToggleUpvote flips a user's upvote on an approved startup and persists
// the new total. Returns whether the startup is now upvoted by the user
// and the resulting count.
func (e *Engagement) ToggleUpvote(ctx context.Context, startupID, userID string) (bool, int, error) {
	startup, err := e.repo.GetByID(ctx, startupID)
	if err != nil {
		return false, 0, err
	}
	if startup == nil {
		return false, 0, ErrNotFound
	}
	if startup.Status != StatusApproved {
		return false, 0, ErrNotAvailable
	}

	e.mu.Lock()
	voters := e.upvotes[startupID]
	if voters == nil {
		voters = make(map[string]struct{})
		e.upvotes[startupID] = voters
	}
	_, had := voters[userID]
	if had {
		delete(voters, userID)
	} else {
		voters[userID] = struct{}{}
	}
	e.mu.Unlock()

	count := startup.UpvoteCount
	if had {
		count--
		if count < 0 {
			count = 0
		}
		e.logger.Info("removed upvote", "startupId", startupID, "userId", userID)
	} else {
		count++
		e.logger.Info("added upvote", "startupId", startupID, "userId", userID)
	}

	if err := e.repo.SetUpvoteCount(ctx, startupID, count); err != nil {
		return false, 0, err
	}
	return !had, count, nil
}

// HasUserUpvoted reports whether userID currently upvotes startupID.
func (e *Engagement) HasUserUpvoted(startupID, userID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.upvotes[startupID][userID]
	return ok
}

// UpvoteCount returns the persisted upvote total for a startup.
func (e *Engagement) UpvoteCount(ctx context.Context, startupID string) (int, error) {
	startup, err := e.repo.GetByID(ctx, startupID)
	if err != nil {
		return 0, err
	}
	if startup == nil {
		return 0, ErrNotFound
	}
	return startup.UpvoteCount, nil
}
