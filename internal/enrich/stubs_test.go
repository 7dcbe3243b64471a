package enrich

import (
	"context"

	"github.com/backtopure/btp/internal/datacite"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/ricgraph"
)

// stubGraph serves Ricgraph traversals from canned nodes.
type stubGraph struct {
	orgs      []ricgraph.Node
	roots     map[string][]ricgraph.Node // faculty key to person roots
	neighbors map[string][]ricgraph.Node // person-root key to neighbors
}

func (s *stubGraph) Ping(context.Context) error { return nil }

func (s *stubGraph) SearchOrganizations(context.Context, string) ([]ricgraph.Node, error) {
	return s.orgs, nil
}

func (s *stubGraph) PersonRoots(_ context.Context, key string) ([]ricgraph.Node, error) {
	return s.roots[key], nil
}

func (s *stubGraph) Neighbors(_ context.Context, key string, _ ...string) ([]ricgraph.Node, error) {
	return s.neighbors[key], nil
}

func (s *stubGraph) PersonNeighbors(ctx context.Context, key string) ([]ricgraph.Node, error) {
	return s.Neighbors(ctx, key)
}

// stubPure serves the Pure surface from canned documents and records every
// write-side call.
type stubPure struct {
	persons         map[string]pure.Document   // uuid to person
	searchHits      map[string][]pure.Document // query to persons hits
	extPersons      map[string]pure.Document
	extSearchHits   map[string][]pure.Document
	extOrgDocs      []pure.Document
	outputs         []pure.Document
	datasets        map[string][]pure.Document // query to data-set hits
	journalByISSN   map[string]string
	publisherByName map[string]string

	createdExternal []pure.ExternalPersonSeed
	nextExternalID  int
}

func (s *stubPure) Ping(context.Context) error { return nil }

func (s *stubPure) GetPerson(_ context.Context, uuid string) (pure.Document, error) {
	if doc, ok := s.persons[uuid]; ok {
		return doc, nil
	}
	return nil, pure.ErrNotFound
}

func (s *stubPure) SearchPersons(_ context.Context, query string) ([]pure.Document, error) {
	return s.searchHits[query], nil
}

func (s *stubPure) SearchExternalPersons(_ context.Context, query string) ([]pure.Document, error) {
	return s.extSearchHits[query], nil
}

func (s *stubPure) ExternalPersonsByUUIDs(_ context.Context, uuids []string) ([]pure.Document, error) {
	var docs []pure.Document
	for _, uuid := range uuids {
		if doc, ok := s.extPersons[uuid]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *stubPure) CreateExternalPerson(_ context.Context, seed pure.ExternalPersonSeed, _, _ string) (string, error) {
	s.createdExternal = append(s.createdExternal, seed)
	s.nextExternalID++
	return "ep-created-" + string(rune('0'+s.nextExternalID)), nil
}

func (s *stubPure) SearchExternalOrganizations(context.Context, string) ([]pure.Document, error) {
	return s.extOrgDocs, nil
}

func (s *stubPure) ExternalOrganizationsBySearchValues(context.Context, []string) ([]pure.Document, error) {
	return s.extOrgDocs, nil
}

func (s *stubPure) ResearchOutputsByDOIs(context.Context, []string) ([]pure.Document, error) {
	return s.outputs, nil
}

func (s *stubPure) SearchDataSets(_ context.Context, query string) ([]pure.Document, error) {
	return s.datasets[query], nil
}

func (s *stubPure) JournalUUIDByISSN(_ context.Context, issn string) (string, error) {
	return s.journalByISSN[issn], nil
}

func (s *stubPure) PublisherUUIDByName(_ context.Context, name string) (string, error) {
	return s.publisherByName[name], nil
}

// stubOpenAlex serves canned works and institutions.
type stubOpenAlex struct {
	works        []openalex.Work
	institutions []openalex.Institution
}

func (s *stubOpenAlex) WorksByDOIs(context.Context, []string) ([]openalex.Work, error) {
	return s.works, nil
}

func (s *stubOpenAlex) InstitutionsByRORs(context.Context, []string) ([]openalex.Institution, error) {
	return s.institutions, nil
}

// stubDataCite serves canned DOI records.
type stubDataCite struct {
	records map[string]*datacite.Record
}

func (s *stubDataCite) FetchAll(_ context.Context, dois []string) []datacite.FetchResult {
	results := make([]datacite.FetchResult, len(dois))
	for i, doi := range dois {
		if rec, ok := s.records[doi]; ok {
			results[i] = datacite.FetchResult{DOI: doi, Record: rec}
		} else {
			results[i] = datacite.FetchResult{DOI: doi, Err: datacite.ErrNotFound}
		}
	}
	return results
}
