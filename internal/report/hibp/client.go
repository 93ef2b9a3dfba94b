// Package hibp is the client for the remote breach-intelligence provider.
// It is pull-only: four lookups, no retry, no backoff. A slow remote call
// blocks only the issuing request.
package hibp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"spearow/internal/report/models"
)

var remoteCallDurationMs = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "spearow_remote_call_duration_ms",
	Help:    "Latency of remote breach provider calls in milliseconds",
	Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
}, []string{"op"})

const (
	// DefaultBaseURL is the production provider endpoint.
	DefaultBaseURL = "https://haveibeenpwned.com/api/v3"

	// clientIdentifier is the fixed User-Agent sent with every request.
	clientIdentifier = "Spearow"

	apiKeyHeader = "hibp-api-key"
)

// ErrNotFound signals an explicit remote 404: the identity or record does
// not exist upstream. Callers translate it into a sentinel result, never an
// exception path.
var ErrNotFound = errors.New("hibp: not found")

// StatusError reports a remote response outside {200, 404}. It is a hard
// failure; the resolver surfaces it without retrying.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("hibp: unexpected status %d", e.StatusCode)
}

// Client queries the breach provider over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New constructs a provider client. An empty baseURL selects the
// production endpoint.
func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BreachedAccount fetches every breach the given account appears in.
func (c *Client) BreachedAccount(ctx context.Context, account string) ([]*models.Record, error) {
	body, err := c.get(ctx, "breached_account", "/breachedaccount/"+url.PathEscape(account))
	if err != nil {
		return nil, err
	}
	return models.UnmarshalRecords(body)
}

// Breaches fetches the full breach catalog.
func (c *Client) Breaches(ctx context.Context) ([]*models.Record, error) {
	body, err := c.get(ctx, "breaches", "/breaches")
	if err != nil {
		return nil, err
	}
	return models.UnmarshalRecords(body)
}

// LatestBreach fetches the most recently added breach record.
func (c *Client) LatestBreach(ctx context.Context) (*models.Record, error) {
	body, err := c.get(ctx, "latest_breach", "/latestbreach")
	if err != nil {
		return nil, err
	}
	rec := models.NewRecord()
	if err := rec.UnmarshalJSON(body); err != nil {
		return nil, err
	}
	return rec, nil
}

// Breach fetches a single breach record by name.
func (c *Client) Breach(ctx context.Context, name string) (*models.Record, error) {
	body, err := c.get(ctx, "breach", "/breach/"+url.PathEscape(name))
	if err != nil {
		return nil, err
	}
	rec := models.NewRecord()
	if err := rec.UnmarshalJSON(body); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) get(ctx context.Context, op, path string) ([]byte, error) {
	start := time.Now()
	defer func() {
		remoteCallDurationMs.WithLabelValues(op).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", clientIdentifier)
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote call: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		return body, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
}
