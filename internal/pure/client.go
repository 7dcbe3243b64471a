// Package pure is a rate-limited client for the Pure CRUD API. All mutating
// calls are full-record PUTs: callers fetch current state, modify the
// returned Document, and write the whole thing back.
package pure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 60 * time.Second

	// RateLimit is requests per second toward Pure. Advisory: Pure throttles
	// aggressive clients but does not document a hard limit.
	RateLimit = 5.0

	// Batch sizes per endpoint, matching the server-side page limits.
	PersonBatchSize         = 100
	ExternalPersonBatchSize = 500
	DOISearchBatchSize      = 10
	OrgSearchBatchSize      = 10
)

// Client is a rate-limited HTTP client for the Pure API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	apiKey     string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// NewClient creates a Pure API client for the given base URL and API key.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ping verifies connectivity and credentials before a run stages anything.
func (c *Client) Ping(ctx context.Context) error {
	var resp searchResponse
	err := c.do(ctx, http.MethodPost, "persons/search", searchRequest{Size: 1}, &resp)
	if err != nil {
		if IsAuthError(err) {
			return ErrAuthError
		}
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	return nil
}

// do executes one request against the Pure API. A nil body issues the
// request without a payload; out is filled from the JSON response when
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := c.baseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Body: string(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get is a GET convenience wrapper.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// search issues a POST against a */search endpoint and returns the items.
func (c *Client) search(ctx context.Context, resource string, req searchRequest) ([]Document, error) {
	var resp searchResponse
	if err := c.do(ctx, http.MethodPost, resource+"/search", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// searchByUUIDs fetches full records for a UUID list in batches.
func (c *Client) searchByUUIDs(ctx context.Context, resource string, uuids []string, batchSize int) ([]Document, error) {
	var all []Document
	for offset := 0; offset < len(uuids); offset += batchSize {
		end := offset + batchSize
		if end > len(uuids) {
			end = len(uuids)
		}
		batch := uuids[offset:end]
		items, err := c.search(ctx, resource, searchRequest{UUIDs: batch, Size: len(batch)})
		if err != nil {
			return nil, fmt.Errorf("fetching %s batch at offset %d: %w", resource, offset, err)
		}
		all = append(all, items...)
	}
	return all, nil
}

// searchPiped runs pipe-separated searchString queries in batches, as the
// Pure search endpoints accept.
func (c *Client) searchPiped(ctx context.Context, resource string, values []string, batchSize int) ([]Document, error) {
	var all []Document
	for offset := 0; offset < len(values); offset += batchSize {
		end := offset + batchSize
		if end > len(values) {
			end = len(values)
		}
		items, err := c.search(ctx, resource, searchRequest{
			SearchString: strings.Join(values[offset:end], "|"),
			Size:         100,
		})
		if err != nil {
			return nil, fmt.Errorf("searching %s batch at offset %d: %w", resource, offset, err)
		}
		all = append(all, items...)
	}
	return all, nil
}

// GetPerson fetches one internal person by UUID.
func (c *Client) GetPerson(ctx context.Context, uuid string) (Document, error) {
	var doc Document
	if err := c.get(ctx, "persons/"+uuid, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SearchPersons searches internal persons by free string (identifier value
// or full name).
func (c *Client) SearchPersons(ctx context.Context, query string) ([]Document, error) {
	return c.search(ctx, "persons", searchRequest{SearchString: query})
}

// PersonsByUUIDs batch-fetches internal persons.
func (c *Client) PersonsByUUIDs(ctx context.Context, uuids []string) ([]Document, error) {
	return c.searchByUUIDs(ctx, "persons", uuids, PersonBatchSize)
}

// PutPerson writes a full internal-person record back.
func (c *Client) PutPerson(ctx context.Context, uuid string, doc Document) error {
	return c.do(ctx, http.MethodPut, "persons/"+uuid, doc, nil)
}

// SearchExternalPersons searches external persons by free string.
func (c *Client) SearchExternalPersons(ctx context.Context, query string) ([]Document, error) {
	return c.search(ctx, "external-persons", searchRequest{SearchString: query})
}

// ExternalPersonsByUUIDs batch-fetches external persons.
func (c *Client) ExternalPersonsByUUIDs(ctx context.Context, uuids []string) ([]Document, error) {
	return c.searchByUUIDs(ctx, "external-persons", uuids, ExternalPersonBatchSize)
}

// PutExternalPerson writes a full external-person record back.
func (c *Client) PutExternalPerson(ctx context.Context, uuid string, doc Document) error {
	return c.do(ctx, http.MethodPut, "external-persons/"+uuid, doc, nil)
}

// CreateExternalPerson creates a new external person seeded with whatever
// identifiers are available and returns its UUID.
func (c *Client) CreateExternalPerson(ctx context.Context, seed ExternalPersonSeed, orcidURI, openAlexURI string) (string, error) {
	payload := map[string]any{
		"name": map[string]any{
			"firstName": seed.FirstName,
			"lastName":  seed.LastName,
		},
	}
	var ids []any
	if seed.ORCID != "" {
		ids = append(ids, NewClassifiedID(seed.ORCID, orcidURI, "ORCID"))
	}
	if seed.OpenAlex != "" {
		ids = append(ids, NewClassifiedID(seed.OpenAlex, openAlexURI, "Open Alex id"))
	}
	if len(ids) > 0 {
		payload["identifiers"] = ids
	}

	var doc Document
	if err := c.do(ctx, http.MethodPut, "external-persons", payload, &doc); err != nil {
		return "", err
	}
	if doc.UUID() == "" {
		return "", fmt.Errorf("external person created without uuid")
	}
	return doc.UUID(), nil
}

// GetExternalOrganization fetches one external organization by UUID.
func (c *Client) GetExternalOrganization(ctx context.Context, uuid string) (Document, error) {
	var doc Document
	if err := c.get(ctx, "external-organizations/"+uuid, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SearchExternalOrganizations searches external organizations by free string.
func (c *Client) SearchExternalOrganizations(ctx context.Context, query string) ([]Document, error) {
	return c.search(ctx, "external-organizations", searchRequest{SearchString: query})
}

// ExternalOrganizationsBySearchValues batch-searches external organizations
// with pipe-separated values (UUIDs or RORs).
func (c *Client) ExternalOrganizationsBySearchValues(ctx context.Context, values []string) ([]Document, error) {
	return c.searchPiped(ctx, "external-organizations", values, OrgSearchBatchSize)
}

// PutExternalOrganization writes a full external-organization record back.
func (c *Client) PutExternalOrganization(ctx context.Context, uuid string, doc Document) error {
	return c.do(ctx, http.MethodPut, "external-organizations/"+uuid, doc, nil)
}

// GetResearchOutput fetches one research output by UUID.
func (c *Client) GetResearchOutput(ctx context.Context, uuid string) (Document, error) {
	var doc Document
	if err := c.get(ctx, "research-outputs/"+uuid, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SearchResearchOutputs searches research outputs by free string.
func (c *Client) SearchResearchOutputs(ctx context.Context, query string) ([]Document, error) {
	return c.search(ctx, "research-outputs", searchRequest{SearchString: query})
}

// ResearchOutputsByDOIs batch-searches research outputs with pipe-separated
// DOI lists.
func (c *Client) ResearchOutputsByDOIs(ctx context.Context, dois []string) ([]Document, error) {
	return c.searchPiped(ctx, "research-outputs", dois, DOISearchBatchSize)
}

// CreateResearchOutput creates a research output from a full payload.
func (c *Client) CreateResearchOutput(ctx context.Context, payload any) error {
	return c.do(ctx, http.MethodPut, "research-outputs", payload, nil)
}

// GetDataSet fetches one dataset by UUID.
func (c *Client) GetDataSet(ctx context.Context, uuid string) (Document, error) {
	var doc Document
	if err := c.get(ctx, "data-sets/"+uuid, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SearchDataSets searches datasets by free string.
func (c *Client) SearchDataSets(ctx context.Context, query string) ([]Document, error) {
	return c.search(ctx, "data-sets", searchRequest{SearchString: query})
}

// CreateDataSet creates a dataset from a full payload and returns its UUID.
func (c *Client) CreateDataSet(ctx context.Context, payload any) (string, error) {
	var doc Document
	if err := c.do(ctx, http.MethodPut, "data-sets", payload, &doc); err != nil {
		return "", err
	}
	return doc.UUID(), nil
}

// JournalUUIDByISSN resolves a journal UUID via the journals search; empty
// when no journal matches. The first hit wins when the ISSN resolves to more
// than one journal.
func (c *Client) JournalUUIDByISSN(ctx context.Context, issn string) (string, error) {
	items, err := c.search(ctx, "journals", searchRequest{SearchString: issn})
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", nil
	}
	return items[0].UUID(), nil
}

// PublisherUUIDByName resolves a publisher by exact name match; empty when
// no exact match exists.
func (c *Client) PublisherUUIDByName(ctx context.Context, name string) (string, error) {
	items, err := c.search(ctx, "publishers", searchRequest{SearchString: name})
	if err != nil {
		return "", err
	}
	for _, item := range items {
		if item.String("name") == name {
			return item.UUID(), nil
		}
	}
	return "", nil
}
