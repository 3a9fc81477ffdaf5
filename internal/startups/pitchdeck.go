package startups

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const pitchDeckAccessTTL = 24 * time.Hour

// PitchDeckAccess is a time-bound link to a startup's pitch deck.
type PitchDeckAccess struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}

// PitchDeck grants investors access to pitch deck URLs. The caller is
// already authorized by the route gate; this service only checks the
// startup's state.
type PitchDeck struct {
	repo   *Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewPitchDeck(repo *Repository, logger *slog.Logger) *PitchDeck {
	if logger == nil {
		logger = slog.Default()
	}
	return &PitchDeck{repo: repo, logger: logger, now: time.Now}
}

// Access returns an access URL for an approved startup's deck, tagged with
// the requesting user for audit. Grants are logged.
func (p *PitchDeck) Access(ctx context.Context, startupID, userID string) (*PitchDeckAccess, error) {
	startup, err := p.repo.GetByID(ctx, startupID)
	if err != nil {
		return nil, err
	}
	if startup == nil {
		return nil, ErrNotFound
	}
	if startup.Status != StatusApproved {
		return nil, ErrNotAvailable
	}
	if startup.PitchDeck == "" {
		return nil, ErrNoPitchDeck
	}

	now := p.now()
	expiresAt := now.Add(pitchDeckAccessTTL)
	p.logger.Info("pitch deck access granted",
		"startupId", startupID,
		"startupName", startup.Name,
		"userId", userID,
		"expiresAt", expiresAt.UTC().Format(time.RFC3339))

	return &PitchDeckAccess{
		URL:       accessURL(startup.PitchDeck, userID, startupID, now),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// accessURL tags the stored deck URL with an opaque access token so views
// can be attributed to the requesting user.
func accessURL(deckURL, userID, startupID string, now time.Time) string {
	token := base64.StdEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s:%s:%d", userID, startupID, now.UnixMilli())))
	sep := "?"
	if strings.Contains(deckURL, "?") {
		sep = "&"
	}
	return deckURL + sep + "access_token=" + token + "&user=" + userID
}
