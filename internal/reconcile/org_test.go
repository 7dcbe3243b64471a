package reconcile

import (
	"reflect"
	"testing"

	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

func TestMatchOrganizationsByNameAndAlternative(t *testing.T) {
	pureOrgs := []record.Organization{
		{UUID: "o-1", DisplayName: "Utrecht University"},
		{UUID: "o-2", DisplayName: "Universiteit Utrecht"},
		{UUID: "o-3", DisplayName: "Unknown Institute"},
	}
	external := []record.Organization{
		{
			DisplayName:      "Utrecht University",
			NameAlternatives: []string{"Universiteit Utrecht"},
			ROR:              "04pp8hn57",
		},
	}

	matches := MatchOrganizations(pureOrgs, external)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Pure.UUID != "o-1" || matches[1].Pure.UUID != "o-2" {
		t.Errorf("unexpected match order: %q, %q", matches[0].Pure.UUID, matches[1].Pure.UUID)
	}
	for _, m := range matches {
		if m.External.ROR != "04pp8hn57" {
			t.Errorf("expected external ROR carried on match, got %q", m.External.ROR)
		}
		if m.Confidence != record.ConfidenceHigh {
			t.Errorf("ROR-backed match should be high confidence, got %q", m.Confidence)
		}
	}
}

func TestMatchOrganizationsFirstExternalWins(t *testing.T) {
	pureOrgs := []record.Organization{{UUID: "o-1", DisplayName: "Some Lab"}}
	external := []record.Organization{
		{DisplayName: "Some Lab", OpenAlexID: "I1"},
		{DisplayName: "Some Lab", OpenAlexID: "I2"},
	}
	matches := MatchOrganizations(pureOrgs, external)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].External.OpenAlexID != "I1" {
		t.Errorf("first external hit should win, got %q", matches[0].External.OpenAlexID)
	}
}

func TestClusterByIdentifier(t *testing.T) {
	orgs := []record.Organization{
		{UUID: "uuid-a", Identifiers: []record.Identifier{
			{Scheme: identifier.SchemeROR, Value: "https://ror.org/04pp8hn57"},
		}},
		{UUID: "uuid-b", Identifiers: []record.Identifier{
			{Scheme: identifier.SchemeROR, Value: "04pp8hn57"},
		}},
		{UUID: "uuid-c", Identifiers: []record.Identifier{
			{Scheme: identifier.SchemeROR, Value: "00x0z1472"},
		}},
		{UUID: "uuid-d"},
	}

	clusters := ClusterByIdentifier(orgs)
	want := map[string][]string{"04pp8hn57": {"uuid-a", "uuid-b"}}
	if !reflect.DeepEqual(clusters, want) {
		t.Errorf("ClusterByIdentifier = %v, want %v", clusters, want)
	}
}

func TestClusterByIdentifierSameUUIDTwiceIsNoCluster(t *testing.T) {
	orgs := []record.Organization{
		{UUID: "uuid-a", Identifiers: []record.Identifier{
			{Scheme: identifier.SchemeROR, Value: "04pp8hn57"},
			{Scheme: identifier.SchemeROR, Value: "https://ror.org/04pp8hn57"},
		}},
	}
	if clusters := ClusterByIdentifier(orgs); len(clusters) != 0 {
		t.Errorf("expected no clusters for a single UUID, got %v", clusters)
	}
}
