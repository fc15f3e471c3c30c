// Package airtable talks to the Airtable REST API, treating it as a remote
// document store with create and update operations.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	apperrors "github.com/karbonfx/leadform/internal/errors"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	defaultTimeout = 10 * time.Second
)

// Config defines credentials and addressing for the record store.
type Config struct {
	APIKey  string `mapstructure:"api_key"`
	BaseID  string `mapstructure:"base_id"`
	TableID string `mapstructure:"table_id"`
	BaseURL string `mapstructure:"base_url"`
}

// Client performs create-or-update writes against a single Airtable table.
// It performs no retries; retry policy belongs to the caller.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
}

// UpsertResult carries the identifier of the written record.
type UpsertResult struct {
	RecordID string
}

// New constructs a Client. Credentials are checked per call, not here, so a
// misconfigured deployment still serves the form.
func New(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

// Configured reports whether the required credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.APIKey != "" && c.cfg.BaseID != ""
}

// Upsert creates a record when recordID is empty and updates the existing
// record otherwise. The returned identifier must be kept by the caller for
// any follow-up update.
func (c *Client) Upsert(ctx context.Context, fields map[string]string, recordID string) (*UpsertResult, error) {
	if !c.Configured() {
		return nil, apperrors.NewConfigurationError("airtable api key or base id missing")
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, c.cfg.BaseID, c.cfg.TableID)
	method := http.MethodPost
	if recordID != "" {
		endpoint = fmt.Sprintf("%s/%s", endpoint, recordID)
		method = http.MethodPatch
	}

	payload, err := json.Marshal(map[string]any{"fields": fields})
	if err != nil {
		return nil, apperrors.NewNetworkError("airtable", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewNetworkError("airtable", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError("airtable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("airtable", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.log.Error("airtable rejected write",
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
		)
		return nil, apperrors.NewAPIError(extractErrorMessage(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, apperrors.NewAPIError("malformed response from record store")
	}

	return &UpsertResult{RecordID: result.ID}, nil
}

// extractErrorMessage pulls the human-readable message out of an Airtable
// error body. The API returns either {"error": {"message": "..."}} or
// {"error": "..."} depending on the failure.
func extractErrorMessage(body []byte) string {
	var structured struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Error.Message != "" {
		return structured.Error.Message
	}

	var flat struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Error != "" {
		return flat.Error
	}

	return "api error"
}
