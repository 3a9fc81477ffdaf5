package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
	"github.com/ayeeshaliu/radar-nc-api/internal/auth"
	"github.com/ayeeshaliu/radar-nc-api/internal/config"
)

// fakeStore is an in-memory stand-in for the Airtable client, serving both
// the users and startups tables.
type fakeStore struct {
	tables map[string]map[string]json.RawMessage
	order  map[string][]string
}

func newTestStore() *fakeStore {
	return &fakeStore{
		tables: map[string]map[string]json.RawMessage{},
		order:  map[string][]string{},
	}
}

func (f *fakeStore) put(t *testing.T, table, id string, fields map[string]any) {
	t.Helper()
	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	if f.tables[table] == nil {
		f.tables[table] = map[string]json.RawMessage{}
	}
	if _, ok := f.tables[table][id]; !ok {
		f.order[table] = append(f.order[table], id)
	}
	f.tables[table][id] = raw
}

func (f *fakeStore) get(t *testing.T, table, id string) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(f.tables[table][id], &out); err != nil {
		t.Fatalf("unmarshal record %s: %v", id, err)
	}
	return out
}

func (f *fakeStore) ListRecords(_ context.Context, table string, opts airtable.ListOptions) (*airtable.ListResponse, error) {
	resp := &airtable.ListResponse{}
	for _, id := range f.order[table] {
		raw := f.tables[table][id]
		// The login path filters by exact username; emulate just enough
		// of the formula language for that.
		if strings.HasPrefix(opts.FilterByFormula, "{Username} = '") {
			name := strings.TrimSuffix(strings.TrimPrefix(opts.FilterByFormula, "{Username} = '"), "'")
			var fields struct {
				Username string `json:"Username"`
			}
			_ = json.Unmarshal(raw, &fields)
			if fields.Username != name {
				continue
			}
		}
		resp.Records = append(resp.Records, airtable.Record{ID: id, Fields: raw})
		if opts.MaxRecords > 0 && len(resp.Records) >= opts.MaxRecords {
			break
		}
	}
	return resp, nil
}

func (f *fakeStore) GetRecord(_ context.Context, table, recordID string) (*airtable.Record, error) {
	raw, ok := f.tables[table][recordID]
	if !ok {
		return nil, nil
	}
	return &airtable.Record{ID: recordID, Fields: raw}, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, table string, fields any) (*airtable.Record, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("rec%s%d", table, len(f.order[table])+1)
	if f.tables[table] == nil {
		f.tables[table] = map[string]json.RawMessage{}
	}
	f.tables[table][id] = raw
	f.order[table] = append(f.order[table], id)
	return &airtable.Record{ID: id, Fields: raw}, nil
}

func (f *fakeStore) UpdateRecord(_ context.Context, table, recordID string, fields any) (*airtable.Record, error) {
	raw, ok := f.tables[table][recordID]
	if !ok {
		return nil, &airtable.APIError{Status: 404, Body: "NOT_FOUND"}
	}
	var current map[string]any
	if err := json.Unmarshal(raw, &current); err != nil {
		return nil, err
	}
	buf, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	patch := map[string]any{}
	if err := json.Unmarshal(buf, &patch); err != nil {
		return nil, err
	}
	for k, v := range patch {
		current[k] = v
	}
	merged, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	f.tables[table][recordID] = merged
	return &airtable.Record{ID: recordID, Fields: merged}, nil
}

var testHash = func() string {
	h, err := auth.HashPassword("correct horse")
	if err != nil {
		panic(err)
	}
	return h
}()

func approvedStartup(name string) map[string]any {
	return map[string]any{
		"Name":           name,
		"Description":    "A test startup",
		"Sector":         "fintech",
		"Stage":          "mvp",
		"Country":        "NG",
		"Founder Gender": "female",
		"Tags":           "ai, fintech",
		"Founder Name":   "Ada",
		"Contact Email":  "founders@example.com",
		"Pitch Deck":     "https://example.com/deck.pdf",
		"Status":         "approved",
		"View Count":     5,
		"Upvote Count":   2,
		"Created At":     "2026-01-01T00:00:00Z",
		"Updated At":     "2026-01-01T00:00:00Z",
	}
}

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := newTestStore()
	store.put(t, "Users", "recInvestor", map[string]any{
		"Username": "vc", "Password": testHash, "Investor": "yes",
	})
	store.put(t, "Users", "recAdmin", map[string]any{
		"Username": "root", "Password": testHash, "Admin": "yes",
	})
	store.put(t, "Users", "recCurious", map[string]any{
		"Username": "visitor", "Password": testHash,
	})
	store.put(t, "Startups", "recAcme", approvedStartup("Acme"))
	pending := approvedStartup("Hidden Inc")
	pending["Status"] = "pending"
	store.put(t, "Startups", "recHidden", pending)

	cfg := &config.Config{
		ServiceID:               "radar-test",
		AirtableStartupsTableID: "Startups",
		AirtableUsersTableID:    "Users",
		JWTSecret:               "test-secret",
		JWTIssuer:               "radar-test",
		JWTAudience:             "radar-test",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(cfg, logger, WithRecordStore(store), WithRegistry(prometheus.NewRegistry()))
	return srv, store
}
