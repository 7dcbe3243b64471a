package datacite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dois/10.5281/zenodo.123" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/vnd.api+json")
		fmt.Fprint(w, `{"data": {"id": "10.5281/zenodo.123", "attributes": {
			"doi": "10.5281/zenodo.123",
			"titles": [{"title": "Bird counts 2019"}],
			"publisher": "Zenodo",
			"publicationYear": 2019,
			"descriptions": [{"description": "Counts per site.", "descriptionType": "Abstract"}],
			"creators": [{
				"name": "Smith, John",
				"givenName": "John",
				"familyName": "Smith",
				"nameIdentifiers": [{
					"nameIdentifier": "https://orcid.org/0000-0001-2345-6789",
					"nameIdentifierScheme": "ORCID"
				}]
			}]
		}}}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	record, err := client.Fetch(context.Background(), "10.5281/zenodo.123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if record.Attributes.Title() != "Bird counts 2019" {
		t.Errorf("unexpected title %q", record.Attributes.Title())
	}
	if record.Attributes.Abstract() != "Counts per site." {
		t.Errorf("unexpected abstract %q", record.Attributes.Abstract())
	}
	if got := record.Attributes.Creators[0].ORCID(); got != "https://orcid.org/0000-0001-2345-6789" {
		t.Errorf("unexpected creator ORCID %q", got)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if _, err := client.Fetch(context.Background(), "10.9999/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			http.NotFound(w, r)
			return
		}
		doi := strings.TrimPrefix(r.URL.Path, "/dois/")
		fmt.Fprintf(w, `{"data": {"id": %q, "attributes": {"doi": %q}}}`, doi, doi)
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRateLimit(10000))
	dois := []string{"10.1/a", "10.1/bad", "10.1/c"}
	results := client.FetchAll(context.Background(), dois)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, res := range results {
		if res.DOI != dois[i] {
			t.Errorf("result %d out of order: %q", i, res.DOI)
		}
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("expected good fetches to succeed: %v, %v", results[0].Err, results[2].Err)
	}
	if !errors.Is(results[1].Err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for bad DOI, got %v", results[1].Err)
	}
	if results[0].Record == nil || results[0].Record.Attributes.DOI != "10.1/a" {
		t.Errorf("unexpected record for first DOI: %+v", results[0].Record)
	}
}
