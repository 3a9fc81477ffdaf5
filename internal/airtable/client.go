// Package airtable is a minimal client for the Airtable REST API, the sole
// persistence layer of this service.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Airtable allows 5 requests per second per base and answers a burst abuse
// with a 30 second lockout, so the client throttles itself rather than
// tripping the server-side limit.
const requestsPerSecond = 5

const maxErrorBody = 4 << 10

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: unexpected status %d: %s", e.Status, e.Body)
}

// Client talks to one Airtable base.
type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewClient(baseURL, apiKey, baseID string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		baseID:  baseID,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  logger,
	}
}

func (c *Client) tableURL(table, recordID string) string {
	u := c.baseURL + "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
	if recordID != "" {
		u += "/" + url.PathEscape(recordID)
	}
	return u
}

// ListRecords fetches one page of records from table.
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) (*ListResponse, error) {
	u := c.tableURL(table, "")
	if q := opts.values().Encode(); q != "" {
		u += "?" + q
	}
	var out ListResponse
	if err := c.do(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRecord fetches a single record by ID, returning (nil, nil) when the
// record does not exist.
func (c *Client) GetRecord(ctx context.Context, table, recordID string) (*Record, error) {
	var out Record
	err := c.do(ctx, http.MethodGet, c.tableURL(table, recordID), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// CreateRecord inserts a new record with the given column fields.
func (c *Client) CreateRecord(ctx context.Context, table string, fields any) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPost, c.tableURL(table, ""), createRequest{Fields: fields}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord patches an existing record; unmentioned columns keep their
// values.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields any) (*Record, error) {
	var out Record
	if err := c.do(ctx, http.MethodPatch, c.tableURL(table, recordID), updateRequest{Fields: fields}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("airtable request failed", "method", method, "url", rawURL, "err", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("airtable request", "method", method, "url", rawURL, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FormulaString quotes a value for interpolation into a filterByFormula
// expression. Quoting is mandatory for anything caller-supplied.
func FormulaString(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
