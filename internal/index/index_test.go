package index

import (
	"testing"

	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

func TestPersonsByUUIDAndIdentifier(t *testing.T) {
	idx := NewPersons([]record.Person{
		{UUID: "p1", FullName: "John Smith", Identifiers: []record.Identifier{
			{Scheme: identifier.SchemeORCID, Value: "0000-0001-2345-6789"},
		}},
		{UUID: "p2", FullName: "Jane Doe"},
	})

	if p, ok := idx.ByUUID("p1"); !ok || p.FullName != "John Smith" {
		t.Errorf("ByUUID(p1) = %v %v", p, ok)
	}
	if _, ok := idx.ByUUID("missing"); ok {
		t.Error("expected missing UUID to report not found")
	}
	if p, ok := idx.ByIdentifier(identifier.SchemeORCID, "0000-0001-2345-6789"); !ok || p.UUID != "p1" {
		t.Errorf("ByIdentifier = %v %v", p, ok)
	}
	if _, ok := idx.ByIdentifier(identifier.SchemeOpenAlex, "A123"); ok {
		t.Error("expected unknown identifier to report not found")
	}
}

func TestPublicationsByDOI(t *testing.T) {
	idx := NewPublications([]record.Publication{
		{UUID: "w1", DOI: "10.1000/ABC", SecondaryDOIs: []string{"10.1000/alt"}},
		{UUID: "w2", DOI: "10.2000/xyz"},
	})

	// Case and prefix variants resolve to the same record.
	for _, doi := range []string{"10.1000/abc", "10.1000/ABC", "https://doi.org/10.1000/abc"} {
		if p, ok := idx.ByDOI(doi); !ok || p.UUID != "w1" {
			t.Errorf("ByDOI(%q) = %v %v, want w1", doi, p, ok)
		}
	}

	// Secondary link DOIs also resolve.
	if p, ok := idx.ByDOI("10.1000/alt"); !ok || p.UUID != "w1" {
		t.Errorf("secondary DOI lookup = %v %v", p, ok)
	}

	if _, ok := idx.ByDOI("10.9999/none"); ok {
		t.Error("expected unknown DOI to report not found")
	}
}

func TestPublicationsFirstMatchWins(t *testing.T) {
	idx := NewPublications([]record.Publication{
		{UUID: "w1", DOI: "10.1000/dup"},
		{UUID: "w2", DOI: "10.1000/DUP"},
	})
	if p, _ := idx.ByDOI("10.1000/dup"); p.UUID != "w1" {
		t.Errorf("expected first record to win, got %s", p.UUID)
	}
}

func TestOrganizationsByROR(t *testing.T) {
	idx := NewOrganizations([]record.Organization{
		{UUID: "o1", DisplayName: "Utrecht University", ROR: "https://ror.org/04pp8hn57"},
	})
	if o, ok := idx.ByROR("04pp8hn57"); !ok || o.UUID != "o1" {
		t.Errorf("ByROR bare = %v %v", o, ok)
	}
	if o, ok := idx.ByROR("https://ror.org/04pp8hn57"); !ok || o.UUID != "o1" {
		t.Errorf("ByROR prefixed = %v %v", o, ok)
	}
}
