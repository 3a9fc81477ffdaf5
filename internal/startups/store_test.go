package startups

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
)

// fakeStore is an in-memory RecordStore. Records are kept as raw JSON so
// updates merge column-by-column like the real API.
type fakeStore struct {
	records map[string]json.RawMessage
	order   []string

	lastListOpts airtable.ListOptions
	lastCreate   any
	updates      map[string][]map[string]any

	listErr   error
	getErr    error
	createErr error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]json.RawMessage),
		updates: make(map[string][]map[string]any),
	}
}

func (f *fakeStore) put(t *testing.T, id string, fields startupFields) {
	t.Helper()
	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	if _, ok := f.records[id]; !ok {
		f.order = append(f.order, id)
	}
	f.records[id] = raw
}

func (f *fakeStore) fields(t *testing.T, id string) startupFields {
	t.Helper()
	var out startupFields
	if err := json.Unmarshal(f.records[id], &out); err != nil {
		t.Fatalf("unmarshal record %s: %v", id, err)
	}
	return out
}

func (f *fakeStore) ListRecords(_ context.Context, _ string, opts airtable.ListOptions) (*airtable.ListResponse, error) {
	f.lastListOpts = opts
	if f.listErr != nil {
		return nil, f.listErr
	}
	resp := &airtable.ListResponse{}
	for _, id := range f.order {
		resp.Records = append(resp.Records, airtable.Record{ID: id, Fields: f.records[id]})
	}
	return resp, nil
}

func (f *fakeStore) GetRecord(_ context.Context, _, recordID string) (*airtable.Record, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	raw, ok := f.records[recordID]
	if !ok {
		return nil, nil
	}
	return &airtable.Record{ID: recordID, Fields: raw}, nil
}

func (f *fakeStore) CreateRecord(_ context.Context, _ string, fields any) (*airtable.Record, error) {
	f.lastCreate = fields
	if f.createErr != nil {
		return nil, f.createErr
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("rec%d", len(f.order)+1)
	f.records[id] = raw
	f.order = append(f.order, id)
	return &airtable.Record{ID: id, Fields: raw}, nil
}

func (f *fakeStore) UpdateRecord(_ context.Context, _, recordID string, fields any) (*airtable.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	patch, ok := fields.(map[string]any)
	if !ok {
		buf, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		patch = map[string]any{}
		if err := json.Unmarshal(buf, &patch); err != nil {
			return nil, err
		}
	}
	f.updates[recordID] = append(f.updates[recordID], patch)

	var current map[string]any
	if err := json.Unmarshal(f.records[recordID], &current); err != nil {
		return nil, err
	}
	for k, v := range patch {
		current[k] = v
	}
	raw, err := json.Marshal(current)
	if err != nil {
		return nil, err
	}
	f.records[recordID] = raw
	return &airtable.Record{ID: recordID, Fields: raw}, nil
}

func approvedFields(name string) startupFields {
	return startupFields{
		Name:          name,
		Description:   "A test startup",
		Sector:        "fintech",
		Stage:         string(StageMVP),
		Country:       "NG",
		FounderGender: string(GenderFemale),
		Tags:          "ai, fintech",
		FounderName:   "Ada",
		ContactEmail:  "founders@example.com",
		PitchDeck:     "https://example.com/deck.pdf",
		Status:        string(StatusApproved),
		CreatedAt:     "2026-01-01T00:00:00Z",
		UpdatedAt:     "2026-01-01T00:00:00Z",
	}
}
