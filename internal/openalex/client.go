// Package openalex implements a client for the OpenAlex REST API. Requests
// join the polite pool via the mailto parameter, and list endpoints are
// fetched in identifier batches with cursor pagination.
package openalex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the HTTP timeout for OpenAlex requests.
	DefaultTimeout = 60 * time.Second

	// RateLimit stays under OpenAlex's 10 req/s polite-pool ceiling.
	RateLimit = 8.0

	// WorkBatchSize is how many DOIs go into one works filter. OpenAlex
	// caps OR-filters at 50 values; 40 keeps the URL well below limits.
	WorkBatchSize = 40

	// InstitutionBatchSize is how many ROR IDs go into one institutions
	// filter.
	InstitutionBatchSize = 20

	// pageSize is the per-page result count for list endpoints.
	pageSize = 200
)

// ErrConnectivity indicates OpenAlex could not be reached.
var ErrConnectivity = errors.New("cannot reach OpenAlex")

// Client is an OpenAlex API client.
type Client struct {
	baseURL    string
	email      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
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

// WithCache attaches a response cache. Cached list pages are served without
// touching the network, which makes re-runs over the same faculty cheap.
func WithCache(cache *Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// NewClient creates an OpenAlex client. The email is sent as mailto and in
// the User-Agent so requests land in the polite pool.
func NewClient(baseURL, email string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		email:      email,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WorksByDOIs fetches works for the given DOIs, batching the filter and
// following cursors. DOIs may be canonical (no scheme); the filter accepts
// both forms. Works without a DOI in the response are skipped.
func (c *Client) WorksByDOIs(ctx context.Context, dois []string) ([]Work, error) {
	var works []Work
	for start := 0; start < len(dois); start += WorkBatchSize {
		end := start + WorkBatchSize
		if end > len(dois) {
			end = len(dois)
		}
		filter := "doi:" + strings.Join(dois[start:end], "|")
		if err := c.listPages(ctx, "/works", filter, func(data []byte) (string, error) {
			var page worksResponse
			if err := json.Unmarshal(data, &page); err != nil {
				return "", err
			}
			works = append(works, page.Results...)
			return page.Meta.NextCursor, nil
		}); err != nil {
			return nil, err
		}
	}
	return works, nil
}

// InstitutionsByRORs fetches institutions for the given ROR IDs, batching
// the filter and following cursors.
func (c *Client) InstitutionsByRORs(ctx context.Context, rors []string) ([]Institution, error) {
	var institutions []Institution
	for start := 0; start < len(rors); start += InstitutionBatchSize {
		end := start + InstitutionBatchSize
		if end > len(rors) {
			end = len(rors)
		}
		filter := "ror:" + strings.Join(rors[start:end], "|")
		if err := c.listPages(ctx, "/institutions", filter, func(data []byte) (string, error) {
			var page institutionsResponse
			if err := json.Unmarshal(data, &page); err != nil {
				return "", err
			}
			institutions = append(institutions, page.Results...)
			return page.Meta.NextCursor, nil
		}); err != nil {
			return nil, err
		}
	}
	return institutions, nil
}

// listPages walks a filtered list endpoint cursor by cursor, handing each
// raw page to consume, which returns the next cursor.
func (c *Client) listPages(ctx context.Context, endpoint, filter string, consume func([]byte) (string, error)) error {
	cursor := "*"
	for cursor != "" {
		params := url.Values{
			"filter":   {filter},
			"per-page": {fmt.Sprint(pageSize)},
			"cursor":   {cursor},
		}
		data, err := c.get(ctx, endpoint, params)
		if err != nil {
			return err
		}
		cursor, err = consume(data)
		if err != nil {
			return fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.email != "" {
		params.Set("mailto", c.email)
	}
	reqURL := c.baseURL + endpoint + "?" + params.Encode()

	if c.cache != nil {
		if data, ok := c.cache.Get(reqURL); ok {
			return data, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.email != "" {
		req.Header.Set("User-Agent", "btp (mailto:"+c.email+")")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("OpenAlex API error (status %d, %s): %s",
			resp.StatusCode, endpoint, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	if c.cache != nil {
		if err := c.cache.Put(reqURL, data); err != nil {
			return nil, fmt.Errorf("caching %s response: %w", endpoint, err)
		}
	}
	return data, nil
}
