package enrich

import (
	"context"
	"reflect"
	"testing"

	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/ricgraph"
)

func TestKeyValue(t *testing.T) {
	if got := KeyValue("john smith|FULL_NAME"); got != "john smith" {
		t.Errorf("KeyValue = %q", got)
	}
	if got := KeyValue("no-separator"); got != "no-separator" {
		t.Errorf("KeyValue without pipe = %q", got)
	}
}

func TestPersonFromNeighbors(t *testing.T) {
	cfg := &config.Config{
		IDTypeURIs: map[string]string{
			"ORCID":            "/uri/orcid",
			"SCOPUS_AUTHOR_ID": "/uri/scopus",
		},
	}
	neighbors := []ricgraph.Node{
		{Category: "person", Name: "FULL_NAME", Value: "John Smith"},
		{Category: "person", Name: "FULL_NAME", Value: "J. Smith"},
		{Category: "person", Name: "ORCID", Value: "https://orcid.org/0000-0001-2345-6789"},
		{Category: "person", Name: "SCOPUS_AUTHOR_ID", Value: "123456"},
		{Category: "person", Name: "UNKNOWN_ID", Value: "ignored"},
		{Category: "journal article", Name: "DOI", Value: "10.1/x"},
	}

	p := PersonFromNeighbors("root|key", neighbors, cfg)
	if p.FullName != "John Smith" {
		t.Errorf("FullName = %q, want the first FULL_NAME", p.FullName)
	}
	if len(p.Identifiers) != 2 {
		t.Fatalf("expected 2 identifiers, got %+v", p.Identifiers)
	}
	orcid, ok := p.Identifier(identifier.SchemeORCID)
	if !ok || orcid.Value != "0000-0001-2345-6789" {
		t.Errorf("ORCID not canonicalized: %+v", orcid)
	}
	if orcid.SourceURI != "/uri/orcid" {
		t.Errorf("ORCID missing type URI: %+v", orcid)
	}
}

func TestCollectDOIs(t *testing.T) {
	neighbors := []ricgraph.Node{
		{Category: "journal article", Name: "DOI", Value: "https://doi.org/10.1/A",
			Sources: []string{"Pure-uu", "OpenAlex-uu"}},
		{Category: "journal article", Name: "DOI", Value: "10.1/a",
			Sources: []string{"Pure-uu", "OpenAlex-uu"}}, // same DOI, different form
		{Category: "journal article", Name: "DOI", Value: "10.1/openalex-only",
			Sources: []string{"OpenAlex-uu"}},
		{Category: "book", Name: "DOI", Value: "10.1/wrong-category",
			Sources: []string{"Pure-uu", "OpenAlex-uu"}},
		{Category: "journal article", Name: "TITLE", Value: "not a doi"},
	}
	categories := []string{"journal article"}

	both := CollectDOIs(neighbors, categories, []string{"Pure-uu", "OpenAlex-uu"}, nil)
	if !reflect.DeepEqual(both, []string{"10.1/a"}) {
		t.Errorf("both-systems filter = %v", both)
	}

	missing := CollectDOIs(neighbors, categories, []string{"OpenAlex-uu"}, []string{"Pure-uu"})
	if !reflect.DeepEqual(missing, []string{"10.1/openalex-only"}) {
		t.Errorf("missing-from-Pure filter = %v", missing)
	}
}

func TestFacultySelection(t *testing.T) {
	graph := &stubGraph{
		orgs: []ricgraph.Node{
			{Key: "uu faculty of science|ORGANIZATION_NAME", Category: "organization"},
			{Key: "uu faculty of law|ORGANIZATION_NAME", Category: "organization"},
		},
	}
	cfg := &config.Config{Ricgraph: config.RicgraphConfig{FacultyPrefix: "uu faculty"}}

	deps := Deps{Cfg: cfg, Graph: graph, Opts: Options{Faculty: "uu faculty of law"}}
	got, err := deps.faculties(context.Background())
	if err != nil {
		t.Fatalf("faculties: %v", err)
	}
	if len(got) != 1 || KeyValue(got[0].Key) != "uu faculty of law" {
		t.Errorf("unexpected selection %+v", got)
	}

	deps.Opts.Faculty = "all"
	got, err = deps.faculties(context.Background())
	if err != nil || len(got) != 2 {
		t.Errorf("'all' should select both faculties: %v %+v", err, got)
	}

	deps.Opts.Faculty = "uu faculty of magic"
	if _, err := deps.faculties(context.Background()); err == nil {
		t.Error("unknown faculty should be an error, not an empty run")
	}
}

func TestFacultiesFiltersCategory(t *testing.T) {
	graph := &stubGraph{
		orgs: []ricgraph.Node{
			{Key: "uu faculty of science|ORGANIZATION_NAME", Category: "organization"},
			{Key: "uu faculty newsletter|DOCUMENT", Category: "document"},
		},
	}
	cfg := &config.Config{Ricgraph: config.RicgraphConfig{FacultyPrefix: "uu faculty"}}

	faculties, err := Faculties(context.Background(), graph, cfg)
	if err != nil {
		t.Fatalf("Faculties: %v", err)
	}
	if len(faculties) != 1 || faculties[0].Key != "uu faculty of science|ORGANIZATION_NAME" {
		t.Errorf("unexpected faculties %+v", faculties)
	}
}
