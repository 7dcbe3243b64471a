package enrich

import (
	"context"
	"testing"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/datacite"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/ricgraph"
)

func TestImportDatasetsStagesCreation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Defaults.UniversityOrgUUID = "uni-1"
	cfg.Defaults.PublisherUUID = "pub-default"
	graph := scienceFacultyGraph([]ricgraph.Node{
		{Category: "data set", Name: "DOI", Value: "10.5281/zenodo.123",
			Sources: []string{"Yoda-uu"}},
	})
	dc := &stubDataCite{records: map[string]*datacite.Record{
		"10.5281/zenodo.123": {
			ID: "10.5281/zenodo.123",
			Attributes: datacite.Attributes{
				DOI:             "10.5281/zenodo.123",
				Titles:          []datacite.Title{{Title: "Bird counts 2019"}},
				Publisher:       "Zenodo",
				PublicationYear: 2019,
				Creators: []datacite.Creator{{
					Name: "Smith, John", GivenName: "John", FamilyName: "Smith",
				}},
			},
		},
	}}
	internalDoc := pure.Document{
		"uuid": "p-1",
		"staffOrganizationAssociations": []any{
			map[string]any{
				"period":       map[string]any{"startDate": "2000-01-01"},
				"organization": map[string]any{"uuid": "org-sci"},
			},
		},
	}
	pureStub := &stubPure{
		searchHits:      map[string][]pure.Document{"John Smith": {internalDoc}},
		publisherByName: map[string]string{"Zenodo": "pub-zenodo"},
	}

	deps := Deps{Cfg: cfg, Pure: pureStub, Graph: graph, DataCite: dc}
	summary, err := ImportDatasets(context.Background(), deps)
	if err != nil {
		t.Fatalf("ImportDatasets: %v", err)
	}
	if summary.Updatable != 1 || summary.Errors != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}

	payloads, err := batch.LoadPayloads(cfg.PayloadPath(config.CategoryDatasets))
	if err != nil {
		t.Fatalf("LoadPayloads: %v", err)
	}
	doc := payloads["10.5281/zenodo.123"]
	if doc == nil {
		t.Fatal("no payload staged")
	}
	publisher, _ := doc["publisher"].(map[string]any)
	if publisher["uuid"] != "pub-zenodo" {
		t.Errorf("expected resolved publisher, got %v", publisher)
	}
	managing, _ := doc["managingOrganization"].(map[string]any)
	if managing["uuid"] != "org-sci" {
		t.Errorf("unexpected managing org %v", managing)
	}
}

func TestImportDatasetsExplicitDOIList(t *testing.T) {
	cfg := testConfig(t)
	dc := &stubDataCite{records: map[string]*datacite.Record{
		"10.5281/zenodo.9": {
			ID: "10.5281/zenodo.9",
			Attributes: datacite.Attributes{
				DOI:    "10.5281/zenodo.9",
				Titles: []datacite.Title{{Title: "Listed dataset"}},
			},
		},
	}}
	pureStub := &stubPure{}

	// No graph at all: the explicit list must not traverse Ricgraph.
	deps := Deps{Cfg: cfg, Pure: pureStub, DataCite: dc,
		Opts: Options{DOIs: []string{"https://doi.org/10.5281/zenodo.9"}}}
	summary, err := ImportDatasets(context.Background(), deps)
	if err != nil {
		t.Fatalf("ImportDatasets: %v", err)
	}
	if summary.Updatable != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestImportDatasetsSkipsKnownAndMissing(t *testing.T) {
	cfg := testConfig(t)
	graph := scienceFacultyGraph([]ricgraph.Node{
		{Category: "data set", Name: "DOI", Value: "10.5281/zenodo.1", Sources: []string{"Yoda-uu"}},
		{Category: "data set", Name: "DOI", Value: "10.5281/zenodo.2", Sources: []string{"Yoda-uu"}},
	})
	dc := &stubDataCite{} // nothing resolvable in DataCite
	pureStub := &stubPure{
		datasets: map[string][]pure.Document{
			"10.5281/zenodo.1": {{"uuid": "ds-1"}},
		},
	}

	summary, err := ImportDatasets(context.Background(), Deps{Cfg: cfg, Pure: pureStub, Graph: graph, DataCite: dc})
	if err != nil {
		t.Fatalf("ImportDatasets: %v", err)
	}
	if summary.Consistent != 1 {
		t.Errorf("dataset already in Pure should count consistent: %+v", summary)
	}
	if summary.Unresolved != 1 {
		t.Errorf("DOI missing from DataCite should count unresolved: %+v", summary)
	}
	if summary.Updatable != 0 {
		t.Errorf("nothing should be staged: %+v", summary)
	}
}
