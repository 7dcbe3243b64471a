package ricgraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchOrganizations(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/organization/search" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("value"); got != "uu faculty" {
			t.Errorf("unexpected value param %q", got)
		}
		if got := r.URL.Query().Get("max_nr_items"); got != "0" {
			t.Errorf("unexpected max_nr_items %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"_key": "uu faculty of science|ORGANIZATION_NAME", "name": "ORGANIZATION_NAME",
			 "category": "organization", "value": "uu faculty of science", "_source": ["Pure-uu"]}
		]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	nodes, err := client.SearchOrganizations(context.Background(), "uu faculty")
	if err != nil {
		t.Fatalf("SearchOrganizations: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(nodes))
	}
	if nodes[0].Value != "uu faculty of science" {
		t.Errorf("unexpected node value %q", nodes[0].Value)
	}
	if !nodes[0].HasSource("Pure-uu") {
		t.Error("expected Pure-uu source")
	}
}

func TestBaseURLJoin(t *testing.T) {
	for _, suffix := range []string{"/api", "/api/"} {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"results": []}`))
		}))

		client := NewClient(server.URL + suffix)
		if _, err := client.SearchOrganizations(context.Background(), "uu"); err != nil {
			t.Fatalf("SearchOrganizations with base %q: %v", suffix, err)
		}
		if gotPath != "/api/organization/search" {
			t.Errorf("base %q: request path = %q, want /api/organization/search", suffix, gotPath)
		}
		server.Close()
	}
}

func TestNeighborsCategoryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cats := r.URL.Query()["category_want"]
		if len(cats) != 2 || cats[0] != "journal article" || cats[1] != "data set" {
			t.Errorf("unexpected category_want params %v", cats)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	nodes, err := client.Neighbors(context.Background(), "some|key", "journal article", "data set")
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
}

func TestEmptyResultStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(250)
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	nodes, err := client.PersonRoots(context.Background(), "missing|key")
	if err != nil {
		t.Fatalf("PersonRoots: %v", err)
	}
	if len(nodes) != 0 {
		t.Errorf("expected empty result, got %d nodes", len(nodes))
	}
}

func TestOnlySource(t *testing.T) {
	n := Node{Sources: []string{"OpenAlex-uu"}}
	if !n.OnlySource("OpenAlex-uu") {
		t.Error("expected OnlySource true for single matching source")
	}
	n.Sources = []string{"OpenAlex-uu", "Pure-uu"}
	if n.OnlySource("OpenAlex-uu") {
		t.Error("expected OnlySource false for multi-source node")
	}
}
