package startups

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// ContactNotifier forwards a contact request to a startup's private
// contact address. A disabled notifier is valid; requests are still
// recorded in the logs.
type ContactNotifier interface {
	SendContactRequest(to, startupName, requestID string, req *ContactRequest) error
	Enabled() bool
}

// Analytics records profile views and contact requests.
type Analytics struct {
	repo     *Repository
	notifier ContactNotifier
	logger   *slog.Logger
}

func NewAnalytics(repo *Repository, notifier ContactNotifier, logger *slog.Logger) *Analytics {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analytics{repo: repo, notifier: notifier, logger: logger}
}

// TrackView bumps the view counter of an approved startup and records the
// client metadata for audit.
func (a *Analytics) TrackView(ctx context.Context, startupID string, view TrackView) error {
	startup, err := a.repo.GetByID(ctx, startupID)
	if err != nil {
		return err
	}
	if startup == nil {
		return ErrNotFound
	}
	if startup.Status != StatusApproved {
		return ErrNotAvailable
	}

	if err := a.repo.IncrementViewCount(ctx, startupID); err != nil {
		return err
	}

	a.logger.Info("startup view tracked",
		"startupId", startupID,
		"startupName", startup.Name,
		"userAgent", view.UserAgent,
		"ipAddress", view.IPAddress,
		"referrer", view.Referrer)
	return nil
}

// TrackContactRequest records a contact request against an approved
// startup and, when a mailer is configured, forwards it to the startup's
// contact address. Each request gets an ID so the log line and the
// notification can be correlated.
func (a *Analytics) TrackContactRequest(ctx context.Context, startupID string, req *ContactRequest) error {
	startup, err := a.repo.GetByID(ctx, startupID)
	if err != nil {
		return err
	}
	if startup == nil {
		return ErrNotFound
	}
	if startup.Status != StatusApproved {
		return ErrNotAvailable
	}

	requestID := uuid.NewString()
	a.logger.Info("contact request tracked",
		"requestId", requestID,
		"startupId", startupID,
		"startupName", startup.Name,
		"requesterName", req.RequesterName,
		"requesterEmail", req.RequesterEmail,
		"companyName", req.CompanyName)

	if a.notifier != nil && a.notifier.Enabled() && startup.ContactEmail != "" {
		if err := a.notifier.SendContactRequest(startup.ContactEmail, startup.Name, requestID, req); err != nil {
			// Delivery is best-effort; the request is already recorded.
			a.logger.Error("contact notification failed",
				"requestId", requestID, "startupId", startupID, "err", err)
		}
	}
	return nil
}

// StartupMetrics returns the engagement counters for one startup.
func (a *Analytics) StartupMetrics(ctx context.Context, startupID string) (viewCount, upvoteCount int, err error) {
	startup, err := a.repo.GetByID(ctx, startupID)
	if err != nil {
		return 0, 0, err
	}
	if startup == nil {
		return 0, 0, ErrNotFound
	}
	return startup.ViewCount, startup.UpvoteCount, nil
}
