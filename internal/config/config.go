// Package config loads the service configuration from the environment.
// Required keys are checked once at startup; a missing key is a fatal
// startup error, never a per-request one.
package config

import (
	"fmt"
	"os"
	"strings"
)

type SMTP struct {
	Host     string
	Port     string
	User     string
	Pass     string
	From     string
	Security string // "starttls" (default), "ssl", "smtps" or "none"
}

type Config struct {
	ServiceID string
	Port      string
	Debug     bool

	AirtableAPIBaseURL      string
	AirtableAPIKey          string
	AirtableBaseID          string
	AirtableStartupsTableID string
	AirtableUsersTableID    string

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	SMTP SMTP
}

// FromEnv reads the configuration, collecting every missing required
// variable into a single error so operators see the full list at once.
func FromEnv() (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		ServiceID:               required("SERVICE_ID"),
		Port:                    strings.TrimSpace(os.Getenv("PORT")),
		Debug:                   os.Getenv("DEBUG") != "",
		AirtableAPIBaseURL:      required("AIRTABLE_API_BASE_URL"),
		AirtableAPIKey:          required("AIRTABLE_API_KEY"),
		AirtableBaseID:          required("AIRTABLE_BASE_ID"),
		AirtableStartupsTableID: required("AIRTABLE_STARTUPS_TABLE_ID"),
		AirtableUsersTableID:    required("AIRTABLE_USERS_TABLE_ID"),
		JWTSecret:               required("JWT_SECRET"),
		JWTIssuer:               strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		JWTAudience:             strings.TrimSpace(os.Getenv("JWT_AUDIENCE")),
		SMTP: SMTP{
			Host:     strings.TrimSpace(os.Getenv("SMTP_HOST")),
			Port:     strings.TrimSpace(os.Getenv("SMTP_PORT")),
			User:     strings.TrimSpace(os.Getenv("SMTP_USER")),
			Pass:     os.Getenv("SMTP_PASS"),
			From:     strings.TrimSpace(os.Getenv("SMTP_FROM")),
			Security: strings.ToLower(strings.TrimSpace(os.Getenv("SMTP_SECURITY"))),
		},
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("config: missing required environment variables: %s",
			strings.Join(missing, ", "))
	}

	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	// The token issuer and audience default to the service's own identity.
	if c.JWTIssuer == "" {
		c.JWTIssuer = c.ServiceID
	}
	if c.JWTAudience == "" {
		c.JWTAudience = c.ServiceID
	}
	if c.SMTP.Security == "" {
		c.SMTP.Security = "starttls"
	}
}
