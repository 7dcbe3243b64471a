// Package ricgraph implements a read-only client for the Ricgraph REST API.
// Ricgraph holds the harvested cross-system graph; btp only ever traverses
// it, all writes go to Pure.
package ricgraph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the HTTP timeout for Ricgraph requests. Neighbor
	// traversals over a full faculty can be slow on the server side.
	DefaultTimeout = 120 * time.Second

	// RateLimit is the steady-state request rate against Ricgraph.
	RateLimit = 10.0
)

// ErrConnectivity indicates Ricgraph could not be reached.
var ErrConnectivity = errors.New("cannot reach Ricgraph")

// Client is a Ricgraph REST API client.
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

// NewClient creates a Ricgraph client for the given API base URL.
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

// Ping checks that the Ricgraph API answers at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "organization/search", url.Values{
		"value":        {"ping"},
		"max_nr_items": {"1"},
	})
	if errors.Is(err, ErrConnectivity) {
		return err
	}
	return nil
}

// SearchOrganizations finds organization nodes whose value contains the
// given string, e.g. a faculty name prefix.
func (c *Client) SearchOrganizations(ctx context.Context, value string) ([]Node, error) {
	return c.get(ctx, "organization/search", url.Values{
		"value":        {value},
		"max_nr_items": {"0"},
	})
}

// PersonRoots returns all person-root nodes reachable from the node with the
// given key, typically an organization.
func (c *Client) PersonRoots(ctx context.Context, key string) ([]Node, error) {
	return c.get(ctx, "get_all_personroot_nodes", url.Values{
		"key":          {key},
		"max_nr_items": {"0"},
	})
}

// Neighbors returns the direct neighbors of the node with the given key,
// optionally restricted to the wanted categories.
func (c *Client) Neighbors(ctx context.Context, key string, categoryWant ...string) ([]Node, error) {
	params := url.Values{
		"key":          {key},
		"max_nr_items": {"0"},
	}
	for _, cat := range categoryWant {
		params.Add("category_want", cat)
	}
	return c.get(ctx, "get_all_neighbor_nodes", params)
}

// PersonNeighbors returns a person-root's neighbor nodes of category person:
// its identifier and name nodes.
func (c *Client) PersonNeighbors(ctx context.Context, personRootKey string) ([]Node, error) {
	return c.Neighbors(ctx, personRootKey, "person")
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]Node, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	// Ricgraph answers 250 with an empty result list for "nothing found".
	if resp.StatusCode != http.StatusOK && resp.StatusCode != 250 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("Ricgraph API error (status %s, %s): %s",
			strconv.Itoa(resp.StatusCode), endpoint, string(body))
	}

	var envelope resultEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return envelope.Results, nil
}
