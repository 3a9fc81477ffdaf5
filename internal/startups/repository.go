package startups

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
)

// RecordStore is the slice of the record store the repository needs.
// *airtable.Client satisfies it; tests provide fakes.
type RecordStore interface {
	ListRecords(ctx context.Context, table string, opts airtable.ListOptions) (*airtable.ListResponse, error)
	GetRecord(ctx context.Context, table, recordID string) (*airtable.Record, error)
	CreateRecord(ctx context.Context, table string, fields any) (*airtable.Record, error)
	UpdateRecord(ctx context.Context, table, recordID string, fields any) (*airtable.Record, error)
}

// startupFields mirrors the startups table columns.
type startupFields struct {
	Name          string `json:"Name"`
	Description   string `json:"Description"`
	Website       string `json:"Website,omitempty"`
	PitchDeck     string `json:"Pitch Deck,omitempty"`
	Sector        string `json:"Sector"`
	Stage         string `json:"Stage"`
	Country       string `json:"Country"`
	FounderGender string `json:"Founder Gender"`
	StudentBuild  bool   `json:"Student Build"`
	Tags          string `json:"Tags"`
	FounderName   string `json:"Founder Name"`
	ContactEmail  string `json:"Contact Email,omitempty"`
	LogoURL       string `json:"Logo URL,omitempty"`
	LinkedinURL   string `json:"LinkedIn URL,omitempty"`
	TwitterURL    string `json:"Twitter URL,omitempty"`
	Status        string `json:"Status"`
	ViewCount     int    `json:"View Count"`
	UpvoteCount   int    `json:"Upvote Count"`
	AdminNotes    string `json:"Admin Notes,omitempty"`
	CreatedAt     string `json:"Created At"`
	UpdatedAt     string `json:"Updated At"`
}

// Repository maps directory operations onto the startups table.
type Repository struct {
	store  RecordStore
	table  string
	logger *slog.Logger
	now    func() time.Time
}

func NewRepository(store RecordStore, table string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, table: table, logger: logger, now: time.Now}
}

// Create inserts a new pending entry and returns its record ID.
func (r *Repository) Create(ctx context.Context, sub *Submission) (string, error) {
	now := r.now().UTC().Format(time.RFC3339)
	tags := make([]string, 0, len(sub.Tags))
	for _, t := range sub.Tags {
		tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
	}

	fields := startupFields{
		Name:          sub.Name,
		Description:   sub.Description,
		Website:       sub.Website,
		PitchDeck:     sub.PitchDeck,
		Sector:        sub.Sector,
		Stage:         string(sub.Stage),
		Country:       sub.Country,
		FounderGender: string(sub.FounderGender),
		StudentBuild:  sub.IsStudentBuild,
		Tags:          strings.Join(tags, ", "),
		FounderName:   sub.FounderName,
		ContactEmail:  sub.Email,
		LogoURL:       sub.LogoURL,
		LinkedinURL:   sub.LinkedinURL,
		TwitterURL:    sub.TwitterURL,
		Status:        string(StatusPending),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	record, err := r.store.CreateRecord(ctx, r.table, fields)
	if err != nil {
		return "", fmt.Errorf("create startup record: %w", err)
	}
	r.logger.Info("created startup record", "recordId", record.ID, "name", sub.Name)
	return record.ID, nil
}

// GetByID fetches one entry with its private columns, or nil when the
// record does not exist. Callers serving the public take the embedded
// Startup view.
func (r *Repository) GetByID(ctx context.Context, id string) (*AdminStartup, error) {
	record, err := r.store.GetRecord(ctx, r.table, id)
	if err != nil {
		return nil, fmt.Errorf("get startup record: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return mapRecord(record)
}

// ListPublic returns approved entries matching the query, newest first.
func (r *Repository) ListPublic(ctx context.Context, q Query) ([]Startup, error) {
	q.normalize()
	opts := airtable.ListOptions{
		FilterByFormula: buildPublicFormula(q),
		Sort:            []airtable.SortField{{Field: "Created At", Direction: "desc"}},
		MaxRecords:      q.Limit,
	}
	if q.Offset > 0 {
		opts.Offset = fmt.Sprintf("%d", q.Offset)
	}

	resp, err := r.store.ListRecords(ctx, r.table, opts)
	if err != nil {
		return nil, fmt.Errorf("list public startups: %w", err)
	}

	out := make([]Startup, 0, len(resp.Records))
	for i := range resp.Records {
		s, err := mapRecord(&resp.Records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s.Startup)
	}
	return out, nil
}

// ListAdmin returns entries of any status for the review surface.
func (r *Repository) ListAdmin(ctx context.Context, q AdminQuery) ([]AdminStartup, error) {
	q.normalize()
	opts := airtable.ListOptions{
		Sort:       []airtable.SortField{{Field: "Created At", Direction: "desc"}},
		MaxRecords: q.Limit,
	}
	if q.Status != "" {
		opts.FilterByFormula = "{Status} = " + airtable.FormulaString(string(q.Status))
	}
	if q.Offset > 0 {
		opts.Offset = fmt.Sprintf("%d", q.Offset)
	}

	resp, err := r.store.ListRecords(ctx, r.table, opts)
	if err != nil {
		return nil, fmt.Errorf("list admin startups: %w", err)
	}

	out := make([]AdminStartup, 0, len(resp.Records))
	for i := range resp.Records {
		s, err := mapRecord(&resp.Records[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// UpdateStatus moves an entry through the review workflow, returning nil
// when the record does not exist.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status Status, adminNotes string) (*AdminStartup, error) {
	fields := map[string]any{
		"Status":     string(status),
		"Updated At": r.now().UTC().Format(time.RFC3339),
	}
	if adminNotes != "" {
		fields["Admin Notes"] = adminNotes
	}

	record, err := r.store.UpdateRecord(ctx, r.table, id, fields)
	if err != nil {
		var apiErr *airtable.APIError
		if errors.As(err, &apiErr) && apiErr.Status == 404 {
			return nil, nil
		}
		return nil, fmt.Errorf("update startup record: %w", err)
	}
	r.logger.Info("updated startup record", "recordId", id, "status", status)
	return mapRecord(record)
}

// IncrementViewCount bumps the stored view counter by one. Read-modify-
// write against the table; last writer wins, which is acceptable for a
// popularity signal.
func (r *Repository) IncrementViewCount(ctx context.Context, id string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("increment view count: startup %s not found", id)
	}
	_, err = r.store.UpdateRecord(ctx, r.table, id, map[string]any{
		"View Count": current.ViewCount + 1,
	})
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// SetUpvoteCount stores an absolute upvote total.
func (r *Repository) SetUpvoteCount(ctx context.Context, id string, count int) error {
	_, err := r.store.UpdateRecord(ctx, r.table, id, map[string]any{
		"Upvote Count": count,
	})
	if err != nil {
		return fmt.Errorf("set upvote count: %w", err)
	}
	return nil
}

func mapRecord(record *airtable.Record) (*AdminStartup, error) {
	var f startupFields
	if err := json.Unmarshal(record.Fields, &f); err != nil {
		return nil, fmt.Errorf("decode startup record %s: %w", record.ID, err)
	}

	var tags []string
	for _, t := range strings.Split(f.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	return &AdminStartup{
		Startup: Startup{
			ID:             record.ID,
			Name:           f.Name,
			Description:    f.Description,
			Website:        f.Website,
			Sector:         f.Sector,
			Stage:          Stage(f.Stage),
			Country:        f.Country,
			FounderGender:  FounderGender(f.FounderGender),
			IsStudentBuild: f.StudentBuild,
			Tags:           tags,
			FounderName:    f.FounderName,
			LogoURL:        f.LogoURL,
			LinkedinURL:    f.LinkedinURL,
			TwitterURL:     f.TwitterURL,
			ViewCount:      f.ViewCount,
			UpvoteCount:    f.UpvoteCount,
			CreatedAt:      f.CreatedAt,
			Status:         Status(f.Status),
		},
		ContactEmail: f.ContactEmail,
		PitchDeck:    f.PitchDeck,
		AdminNotes:   f.AdminNotes,
		UpdatedAt:    f.UpdatedAt,
	}, nil
}

func buildPublicFormula(q Query) string {
	filters := []string{"{Status} = " + airtable.FormulaString(string(StatusApproved))}

	if q.Sector != "" {
		filters = append(filters, "{Sector} = "+airtable.FormulaString(q.Sector))
	}
	if q.Stage != "" {
		filters = append(filters, "{Stage} = "+airtable.FormulaString(string(q.Stage)))
	}
	if q.Country != "" {
		filters = append(filters, "{Country} = "+airtable.FormulaString(q.Country))
	}
	if q.FounderGender != "" {
		filters = append(filters, "{Founder Gender} = "+airtable.FormulaString(string(q.FounderGender)))
	}
	if q.IsStudentBuild != nil {
		if *q.IsStudentBuild {
			filters = append(filters, "{Student Build} = TRUE()")
		} else {
			filters = append(filters, "{Student Build} = FALSE()")
		}
	}
	if q.Tags != "" {
		filters = append(filters,
			"FIND("+airtable.FormulaString(strings.ToLower(q.Tags))+", {Tags}) > 0")
	}
	if q.SearchQuery != "" {
		term := airtable.FormulaString(strings.ToLower(q.SearchQuery))
		filters = append(filters,
			"OR(FIND("+term+", LOWER({Name})) > 0, FIND("+term+", LOWER({Description})) > 0)")
	}

	return "AND(" + strings.Join(filters, ", ") + ")"
}
