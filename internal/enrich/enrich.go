// Package enrich implements the pipelines: they traverse Ricgraph for
// candidate entities, reconcile them against Pure with help from OpenAlex
// and DataCite, and stage human-reviewable update batches.
package enrich

import (
	"context"
	"fmt"

	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/datacite"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/ricgraph"
)

// PureService is the slice of the Pure client the pipelines use.
type PureService interface {
	Ping(ctx context.Context) error
	GetPerson(ctx context.Context, uuid string) (pure.Document, error)
	SearchPersons(ctx context.Context, query string) ([]pure.Document, error)
	SearchExternalPersons(ctx context.Context, query string) ([]pure.Document, error)
	ExternalPersonsByUUIDs(ctx context.Context, uuids []string) ([]pure.Document, error)
	CreateExternalPerson(ctx context.Context, seed pure.ExternalPersonSeed, orcidURI, openAlexURI string) (string, error)
	SearchExternalOrganizations(ctx context.Context, query string) ([]pure.Document, error)
	ExternalOrganizationsBySearchValues(ctx context.Context, values []string) ([]pure.Document, error)
	ResearchOutputsByDOIs(ctx context.Context, dois []string) ([]pure.Document, error)
	SearchDataSets(ctx context.Context, query string) ([]pure.Document, error)
	JournalUUIDByISSN(ctx context.Context, issn string) (string, error)
	PublisherUUIDByName(ctx context.Context, name string) (string, error)
}

// GraphService is the slice of the Ricgraph client the pipelines use.
type GraphService interface {
	Ping(ctx context.Context) error
	SearchOrganizations(ctx context.Context, value string) ([]ricgraph.Node, error)
	PersonRoots(ctx context.Context, key string) ([]ricgraph.Node, error)
	Neighbors(ctx context.Context, key string, categoryWant ...string) ([]ricgraph.Node, error)
	PersonNeighbors(ctx context.Context, personRootKey string) ([]ricgraph.Node, error)
}

// OpenAlexService is the slice of the OpenAlex client the pipelines use.
type OpenAlexService interface {
	WorksByDOIs(ctx context.Context, dois []string) ([]openalex.Work, error)
	InstitutionsByRORs(ctx context.Context, rors []string) ([]openalex.Institution, error)
}

// DataCiteService is the slice of the DataCite client the pipelines use.
type DataCiteService interface {
	FetchAll(ctx context.Context, dois []string) []datacite.FetchResult
}

// Options narrows a pipeline run.
type Options struct {
	Faculty string   // faculty key or value; empty or "all" selects every faculty
	Test    bool     // cap the person roots per faculty to a small sample
	DOIs    []string // explicit DOI list for the dataset import, bypassing the graph
}

// testRootLimit caps per-faculty traversal in test runs.
const testRootLimit = 20

// Deps carries the configuration and clients a pipeline runs against,
// injected explicitly so tests can substitute doubles.
type Deps struct {
	Cfg      *config.Config
	Pure     PureService
	Graph    GraphService
	OpenAlex OpenAlexService
	DataCite DataCiteService
	Opts     Options
}

// faculties resolves the faculty selection for this run. A named faculty
// that matches nothing is an error rather than an empty run.
func (d Deps) faculties(ctx context.Context) ([]ricgraph.Node, error) {
	all, err := Faculties(ctx, d.Graph, d.Cfg)
	if err != nil {
		return nil, err
	}
	want := d.Opts.Faculty
	if want == "" || want == "all" {
		return all, nil
	}
	for _, f := range all {
		if f.Key == want || KeyValue(f.Key) == want {
			return []ricgraph.Node{f}, nil
		}
	}
	return nil, fmt.Errorf("faculty %q not found in Ricgraph", want)
}

// capRoots trims a faculty's person roots in test runs.
func (d Deps) capRoots(roots []ricgraph.Node) []ricgraph.Node {
	if d.Opts.Test && len(roots) > testRootLimit {
		return roots[:testRootLimit]
	}
	return roots
}

// checkConnectivity fails fast when a required system is unreachable, before
// anything is staged.
func (d Deps) checkConnectivity(ctx context.Context) error {
	if err := d.Pure.Ping(ctx); err != nil {
		return fmt.Errorf("pure: %w", err)
	}
	if err := d.Graph.Ping(ctx); err != nil {
		return fmt.Errorf("ricgraph: %w", err)
	}
	return nil
}

// Summary is the per-run outcome count reported to the operator.
type Summary struct {
	Faculty    string `json:"faculty,omitempty"`
	Updatable  int    `json:"updatable"`
	Consistent int    `json:"already_consistent"`
	Unresolved int    `json:"unresolved"`
	Conflicts  int    `json:"conflicts"`
	Errors     int    `json:"errors"`
	ReviewFile string `json:"review_file,omitempty"`
}

// add accumulates another summary into this one.
func (s *Summary) add(other Summary) {
	s.Updatable += other.Updatable
	s.Consistent += other.Consistent
	s.Unresolved += other.Unresolved
	s.Conflicts += other.Conflicts
	s.Errors += other.Errors
}
