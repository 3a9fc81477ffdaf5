package startups

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Status is the review state of a directory entry. Only approved startups
// are visible to the public.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Stage string

const (
	StageIdea      Stage = "idea"
	StagePrototype Stage = "prototype"
	StageMVP       Stage = "mvp"
	StageGrowth    Stage = "growth"
	StageScale     Stage = "scale"
)

func (s Stage) Valid() bool {
	switch s {
	case StageIdea, StagePrototype, StageMVP, StageGrowth, StageScale:
		return true
	}
	return false
}

type FounderGender string

const (
	GenderMale           FounderGender = "male"
	GenderFemale         FounderGender = "female"
	GenderNonBinary      FounderGender = "non-binary"
	GenderMixed          FounderGender = "mixed"
	GenderPreferNotToSay FounderGender = "prefer-not-to-say"
)

func (g FounderGender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary, GenderMixed, GenderPreferNotToSay:
		return true
	}
	return false
}

// Startup is the public view of a directory entry. Contact email, pitch
// deck and admin notes are deliberately absent.
type Startup struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Website        string        `json:"website,omitempty"`
	Sector         string        `json:"sector"`
	Stage          Stage         `json:"stage"`
	Country        string        `json:"country"`
	FounderGender  FounderGender `json:"founderGender"`
	IsStudentBuild bool          `json:"isStudentBuild"`
	Tags           []string      `json:"tags"`
	FounderName    string        `json:"founderName"`
	LogoURL        string        `json:"logoUrl,omitempty"`
	LinkedinURL    string        `json:"linkedinUrl,omitempty"`
	TwitterURL     string        `json:"twitterUrl,omitempty"`
	ViewCount      int           `json:"viewCount"`
	UpvoteCount    int           `json:"upvoteCount"`
	CreatedAt      string        `json:"createdAt"`
	Status         Status        `json:"status"`
}

// AdminStartup adds the private columns for the review surface.
type AdminStartup struct {
	Startup
	ContactEmail string `json:"contactEmail"`
	PitchDeck    string `json:"pitchDeck"`
	AdminNotes   string `json:"adminNotes,omitempty"`
	UpdatedAt    string `json:"updatedAt"`
}

// Submission is a founder's directory application.
type Submission struct {
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Website        string        `json:"website"`
	Pitch          string        `json:"pitch"`
	PitchDeck      string        `json:"pitchDeck"`
	Sector         string        `json:"sector"`
	Stage          Stage         `json:"stage"`
	Country        string        `json:"country"`
	FounderGender  FounderGender `json:"founderGender"`
	IsStudentBuild bool          `json:"isStudentBuild"`
	Tags           []string      `json:"tags"`
	FounderName    string        `json:"founderName"`
	Email          string        `json:"email"`
	LogoURL        string        `json:"logoUrl"`
	LinkedinURL    string        `json:"linkedinUrl"`
	TwitterURL     string        `json:"twitterUrl"`
}

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func isValidURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Validate reports the first problem with a submission.
func (s *Submission) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return errors.New("name is required")
	case strings.TrimSpace(s.Description) == "":
		return errors.New("description is required")
	case strings.TrimSpace(s.Pitch) == "":
		return errors.New("pitch is required")
	case !isValidURL(s.PitchDeck):
		return errors.New("pitchDeck must be a valid URL")
	case strings.TrimSpace(s.Sector) == "":
		return errors.New("sector is required")
	case !s.Stage.Valid():
		return fmt.Errorf("stage %q is not recognized", s.Stage)
	case strings.TrimSpace(s.Country) == "":
		return errors.New("country is required")
	case !s.FounderGender.Valid():
		return fmt.Errorf("founderGender %q is not recognized", s.FounderGender)
	case strings.TrimSpace(s.FounderName) == "":
		return errors.New("founderName is required")
	case !reEmail.MatchString(s.Email):
		return errors.New("email must be a valid address")
	case s.Website != "" && !isValidURL(s.Website):
		return errors.New("website must be a valid URL")
	}
	return nil
}

// Query filters the public directory listing.
type Query struct {
	Sector         string
	Stage          Stage
	Country        string
	FounderGender  FounderGender
	IsStudentBuild *bool
	Tags           string
	SearchQuery    string
	Limit          int
	Offset         int
}

const defaultListLimit = 20

func (q *Query) normalize() {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// AdminQuery filters the review listing; an empty status means all.
type AdminQuery struct {
	Status Status
	Limit  int
	Offset int
}

func (q *AdminQuery) normalize() {
	if q.Limit <= 0 {
		q.Limit = defaultListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// ContactRequest is a visitor asking to be put in touch with a startup.
type ContactRequest struct {
	RequesterName  string `json:"requesterName"`
	RequesterEmail string `json:"requesterEmail"`
	Message        string `json:"message"`
	CompanyName    string `json:"companyName,omitempty"`
}

func (c *ContactRequest) Validate() error {
	switch {
	case strings.TrimSpace(c.RequesterName) == "":
		return errors.New("requesterName is required")
	case !reEmail.MatchString(c.RequesterEmail):
		return errors.New("requesterEmail must be a valid address")
	case strings.TrimSpace(c.Message) == "":
		return errors.New("message is required")
	}
	return nil
}

// TrackView carries the optional client metadata logged with a profile view.
type TrackView struct {
	UserAgent string `json:"userAgent,omitempty"`
	IPAddress string `json:"ipAddress,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
}
