// Package datacite implements a client for the DataCite REST API, used to
// fetch dataset metadata by DOI.
package datacite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the HTTP timeout for DataCite requests.
	DefaultTimeout = 60 * time.Second

	// RateLimit is the steady-state request rate against DataCite.
	RateLimit = 5.0

	// maxConcurrent bounds the parallel DOI fetches in FetchAll.
	maxConcurrent = 10
)

// Common errors returned by the DataCite client.
var (
	// ErrNotFound indicates the DOI is not registered with DataCite.
	ErrNotFound = errors.New("DOI not found in DataCite")

	// ErrConnectivity indicates DataCite could not be reached.
	ErrConnectivity = errors.New("cannot reach DataCite")
)

// Client is a DataCite API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRateLimit sets a custom request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a DataCite client for the given API base URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the DOI record for one canonical DOI.
func (c *Client) Fetch(ctx context.Context, doi string) (*Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/dois/" + url.PathEscape(doi)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, doi)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("DataCite API error (status %d, %s): %s",
			resp.StatusCode, doi, string(body))
	}

	var envelope doiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding DOI %s response: %w", doi, err)
	}
	return &envelope.Data, nil
}

// FetchResult pairs one DOI with its fetch outcome.
type FetchResult struct {
	DOI    string
	Record *Record
	Err    error
}

// FetchAll fetches all DOIs concurrently with a bounded worker pool.
// Results keep the input order; per-DOI failures land in the result and do
// not abort the other fetches.
func (c *Client) FetchAll(ctx context.Context, dois []string) []FetchResult {
	results := make([]FetchResult, len(dois))
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for i, doi := range dois {
		wg.Add(1)
		go func(idx int, doi string) {
			defer wg.Done()
			sem <- struct{}{}        // acquire semaphore
			defer func() { <-sem }() // release semaphore
			record, err := c.Fetch(ctx, doi)
			results[idx] = FetchResult{DOI: doi, Record: record, Err: err}
		}(i, doi)
	}

	wg.Wait()
	return results
}
