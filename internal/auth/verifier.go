package auth

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ayeeshaliu/radar-nc-api/internal/airtable"
)

// UserStore is the slice of the record store the verifier needs: a filtered
// single-record lookup against the users table.
type UserStore interface {
	ListRecords(ctx context.Context, table string, opts airtable.ListOptions) (*airtable.ListResponse, error)
}

// userFields mirrors the users table columns. The role columns are
// free-text cells; any non-empty value counts as the flag being set.
type userFields struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
	Founder  string `json:"Founder"`
	Investor string `json:"Investor"`
	Admin    string `json:"Admin"`
}

// Verifier checks username/password pairs against the users table.
type Verifier struct {
	store  UserStore
	table  string
	logger *slog.Logger
}

func NewVerifier(store UserStore, table string, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{store: store, table: table, logger: logger}
}

// Authenticate looks up exactly one user by exact username match and
// compares the password against the stored bcrypt hash. A missing user and
// a wrong password both return ErrInvalidCredentials so the two cases are
// indistinguishable to the caller. The password itself is never logged.
func (v *Verifier) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	result, err := v.store.ListRecords(ctx, v.table, airtable.ListOptions{
		MaxRecords:      1,
		FilterByFormula: "{Username} = " + airtable.FormulaString(username),
	})
	if err != nil {
		v.logger.Error("login failed: user lookup error", "username", username, "err", err)
		return Identity{}, err
	}
	if result == nil || len(result.Records) == 0 {
		v.logger.Warn("login failed: user not found", "username", username)
		return Identity{}, ErrInvalidCredentials
	}

	record := result.Records[0]
	var user userFields
	if err := json.Unmarshal(record.Fields, &user); err != nil {
		v.logger.Error("login failed: user record decode error", "username", username, "err", err)
		return Identity{}, err
	}

	if !ComparePassword(password, user.Password) {
		v.logger.Warn("login failed: invalid password", "username", username)
		return Identity{}, ErrInvalidCredentials
	}

	v.logger.Info("user logged in", "username", username, "userId", record.ID)
	return Identity{
		Authenticated:   true,
		UserID:          record.ID,
		IsAdmin:         user.Admin != "",
		IsInvestor:      user.Investor != "",
		IsFounder:       user.Founder != "",
		IsCuriousPerson: true,
	}, nil
}
