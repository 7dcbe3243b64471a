package enrich

import (
	"context"
	"testing"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/ricgraph"
)

func bothSystemsDOIGraph() *stubGraph {
	return scienceFacultyGraph([]ricgraph.Node{
		{Category: "journal article", Name: "DOI", Value: "10.1000/xyz",
			Sources: []string{"Pure-uu", "OpenAlex-uu"}},
	})
}

func TestExternalOrgsStagesROR(t *testing.T) {
	cfg := testConfig(t)
	graph := bothSystemsDOIGraph()
	oa := &stubOpenAlex{
		works: []openalex.Work{{
			ID:  "https://openalex.org/W1",
			DOI: "https://doi.org/10.1000/xyz",
			Authorships: []openalex.Authorship{{
				Author: openalex.Author{DisplayName: "John Smith"},
				Institutions: []openalex.WorkInstitution{{
					ROR: "https://ror.org/04pp8hn57", DisplayName: "Utrecht University",
				}},
			}},
		}},
		institutions: []openalex.Institution{{
			ID:          "https://openalex.org/I193662353",
			ROR:         "https://ror.org/04pp8hn57",
			DisplayName: "Utrecht University",
		}},
	}
	pureStub := &stubPure{
		extOrgDocs: []pure.Document{{
			"uuid": "eo-1",
			"name": map[string]any{"en_GB": "Utrecht University"},
		}},
	}

	deps := Deps{Cfg: cfg, Pure: pureStub, Graph: graph, OpenAlex: oa}
	summary, err := ExternalOrgs(context.Background(), deps)
	if err != nil {
		t.Fatalf("ExternalOrgs: %v", err)
	}
	if summary.Updatable != 1 || summary.Conflicts != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}

	sheet, err := batch.ReadSheet(cfg.ReviewPath(config.CategoryExternalOrgs))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Rows) != 1 {
		t.Fatalf("expected 1 row, got %+v", sheet.Rows)
	}
	row := sheet.Rows[0]
	if row.Key != "eo-1" || row.Values["new_ror"] != "https://ror.org/04pp8hn57" {
		t.Errorf("unexpected row %+v", row)
	}

	payloads, err := batch.LoadPayloads(cfg.PayloadPath(config.CategoryExternalOrgs))
	if err != nil {
		t.Fatalf("LoadPayloads: %v", err)
	}
	doc := payloads["eo-1"]
	if doc == nil || !hasIdentifierValue(doc, "https://ror.org/04pp8hn57") {
		t.Errorf("payload missing staged ROR: %v", doc)
	}
}

func TestExternalOrgsConflictingRORIsSurfacedUnmarked(t *testing.T) {
	cfg := testConfig(t)
	graph := bothSystemsDOIGraph()
	oa := &stubOpenAlex{
		works: []openalex.Work{{
			DOI: "https://doi.org/10.1000/xyz",
			Authorships: []openalex.Authorship{{
				Institutions: []openalex.WorkInstitution{{ROR: "https://ror.org/04pp8hn57"}},
			}},
		}},
		institutions: []openalex.Institution{{
			ROR:         "https://ror.org/04pp8hn57",
			DisplayName: "Utrecht University",
		}},
	}
	pureStub := &stubPure{
		extOrgDocs: []pure.Document{{
			"uuid": "eo-1",
			"name": map[string]any{"en_GB": "Utrecht University"},
			"identifiers": []any{
				map[string]any{"id": "https://ror.org/something-else",
					"type": map[string]any{"uri": "/uri/ext/ror"}},
			},
		}},
	}

	deps := Deps{Cfg: cfg, Pure: pureStub, Graph: graph, OpenAlex: oa}
	summary, err := ExternalOrgs(context.Background(), deps)
	if err != nil {
		t.Fatalf("ExternalOrgs: %v", err)
	}
	if summary.Conflicts != 1 || summary.Updatable != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}

	sheet, err := batch.ReadSheet(cfg.ReviewPath(config.CategoryExternalOrgs))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Rows) != 1 || sheet.Rows[0].Approved() {
		t.Errorf("conflict must be an unmarked row: %+v", sheet.Rows)
	}
	row := sheet.Rows[0]
	if row.Values["new_ror"] != "https://ror.org/04pp8hn57" {
		t.Errorf("new_ror = %q, want full ROR URL", row.Values["new_ror"])
	}
	if row.Values["existing_ror"] != "https://ror.org/something-else" {
		t.Errorf("existing_ror = %q, want full ROR URL", row.Values["existing_ror"])
	}
}

func TestDuplicateOrgClusters(t *testing.T) {
	cfg := testConfig(t)
	pureStub := &stubPure{
		extOrgDocs: []pure.Document{
			{"uuid": "eo-1", "identifiers": []any{
				map[string]any{"id": "https://ror.org/04pp8hn57",
					"type": map[string]any{"uri": "/uri/ext/ror"}},
			}},
			{"uuid": "eo-2", "identifiers": []any{
				map[string]any{"id": "04pp8hn57",
					"type": map[string]any{"uri": "/uri/ext/ror"}},
			}},
		},
	}

	clusters, err := DuplicateOrgClusters(context.Background(), Deps{Cfg: cfg, Pure: pureStub})
	if err != nil {
		t.Fatalf("DuplicateOrgClusters: %v", err)
	}
	uuids, ok := clusters["04pp8hn57"]
	if !ok || len(uuids) != 2 {
		t.Errorf("expected one cluster of 2, got %v", clusters)
	}
}
