package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
)

type fakeUserStore struct {
	lastTable string
	lastOpts  airtable.ListOptions
	records   []airtable.Record
	err       error
}

func (f *fakeUserStore) ListRecords(_ context.Context, table string, opts airtable.ListOptions) (*airtable.ListResponse, error) {
	f.lastTable = table
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return &airtable.ListResponse{Records: f.records}, nil
}

func userRecord(t *testing.T, id string, fields userFields) airtable.Record {
	t.Helper()
	raw, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	return airtable.Record{ID: id, Fields: raw}
}

// Hashing at the configured cost is slow, so the suite shares one hash.
var testHash = func() string {
	h, err := HashPassword("correct horse")
	if err != nil {
		panic(err)
	}
	return h
}()

func TestAuthenticate(t *testing.T) {
	store := &fakeUserStore{records: []airtable.Record{
		userRecord(t, "recAda", userFields{
			Username: "ada",
			Password: testHash,
			Investor: "yes",
		}),
	}}
	v := NewVerifier(store, "Users", nil)

	id, err := v.Authenticate(context.Background(), "ada", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	want := Identity{
		Authenticated:   true,
		UserID:          "recAda",
		IsInvestor:      true,
		IsCuriousPerson: true,
	}
	if id != want {
		t.Fatalf("identity = %+v, want %+v", id, want)
	}

	if store.lastTable != "Users" {
		t.Fatalf("table = %q", store.lastTable)
	}
	if store.lastOpts.MaxRecords != 1 {
		t.Fatalf("maxRecords = %d, want 1", store.lastOpts.MaxRecords)
	}
	if store.lastOpts.FilterByFormula != "{Username} = 'ada'" {
		t.Fatalf("filter = %q", store.lastOpts.FilterByFormula)
	}
}

func TestAuthenticateRoleColumns(t *testing.T) {
	// Any non-empty cell value counts as the role being set, and every
	// authenticated user is a curious person.
	store := &fakeUserStore{records: []airtable.Record{
		userRecord(t, "recRoot", userFields{
			Username: "root",
			Password: testHash,
			Admin:    "x",
			Founder:  "true",
		}),
	}}
	v := NewVerifier(store, "Users", nil)

	id, err := v.Authenticate(context.Background(), "root", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !id.IsAdmin || !id.IsFounder || id.IsInvestor || !id.IsCuriousPerson {
		t.Fatalf("identity = %+v", id)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	v := NewVerifier(&fakeUserStore{}, "Users", nil)
	_, err := v.Authenticate(context.Background(), "nobody", "whatever")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	store := &fakeUserStore{records: []airtable.Record{
		userRecord(t, "recAda", userFields{Username: "ada", Password: testHash}),
	}}
	v := NewVerifier(store, "Users", nil)

	_, err := v.Authenticate(context.Background(), "ada", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	// Wrong password and unknown user must be the same error.
	_, err2 := v.Authenticate(context.Background(), "ada", "wrong")
	v2 := NewVerifier(&fakeUserStore{}, "Users", nil)
	_, err3 := v2.Authenticate(context.Background(), "ghost", "wrong")
	if !errors.Is(err2, err3) && err2.Error() != err3.Error() {
		t.Fatalf("errors differ: %v vs %v", err2, err3)
	}
}

func TestAuthenticateStoreError(t *testing.T) {
	storeErr := errors.New("airtable down")
	v := NewVerifier(&fakeUserStore{err: storeErr}, "Users", nil)

	_, err := v.Authenticate(context.Background(), "ada", "correct horse")
	if !errors.Is(err, storeErr) {
		t.Fatalf("err = %v, want store error", err)
	}
	if errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("store failure reported as invalid credentials")
	}
}

func TestAuthenticateEscapesFilter(t *testing.T) {
	store := &fakeUserStore{}
	v := NewVerifier(store, "Users", nil)

	_, _ = v.Authenticate(context.Background(), `o'brien") & {Admin}`, "x")
	if !strings.Contains(store.lastOpts.FilterByFormula, `\'`) {
		t.Fatalf("quote not escaped in filter %q", store.lastOpts.FilterByFormula)
	}
	if want := `{Username} = 'o\'brien") & {Admin}'`; store.lastOpts.FilterByFormula != want {
		t.Fatalf("filter = %q, want %q", store.lastOpts.FilterByFormula, want)
	}
}
