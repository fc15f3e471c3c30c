// Package ipinfo resolves the visitor's public IP through an external
// lookup service. Resolution is best-effort: any failure yields "unknown"
// so the form never blocks on it.
package ipinfo

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	// UnknownIP is reported whenever the lookup cannot complete.
	UnknownIP = "unknown"

	defaultEndpoint = "https://api.ipify.org?format=json"
	defaultTimeout  = 5 * time.Second
)

// Resolver answers the question "what is this visitor's IP address".
type Resolver interface {
	Resolve(ctx context.Context) string
}

// Client queries a JSON IP-lookup endpoint returning {"ip": "..."}.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// New constructs a Client. An empty endpoint selects the default service.
func New(endpoint string, log *slog.Logger) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        log,
	}
}

// Resolve returns the visitor's IP or UnknownIP when the oracle is
// unreachable or returns garbage.
func (c *Client) Resolve(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		c.log.Warn("ip lookup request build failed", slog.Any("error", err))
		return UnknownIP
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("ip lookup failed", slog.Any("error", err))
		return UnknownIP
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("ip lookup returned unexpected status", slog.Int("status", resp.StatusCode))
		return UnknownIP
	}

	var payload struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Warn("ip lookup returned malformed body", slog.Any("error", err))
		return UnknownIP
	}

	if payload.IP == "" {
		return UnknownIP
	}

	return payload.IP
}
