package enrich

import (
	"context"
	"testing"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
)

func TestExternalPersonsStagesIdentifiers(t *testing.T) {
	cfg := testConfig(t)
	graph := bothSystemsDOIGraph()

	// The Pure research output carries one external contributor by name.
	pureOutput := pure.Document{
		"uuid": "ro-1",
		"electronicVersions": []any{
			map[string]any{"doi": "https://doi.org/10.1000/xyz"},
		},
		"contributors": []any{
			map[string]any{
				"name":           map[string]any{"firstName": "Maria", "lastName": "Lopez"},
				"externalPerson": map[string]any{"uuid": "ep-1"},
			},
		},
	}
	oa := &stubOpenAlex{
		works: []openalex.Work{{
			DOI: "https://doi.org/10.1000/xyz",
			Authorships: []openalex.Authorship{{
				Author: openalex.Author{
					ID:          "https://openalex.org/A42",
					DisplayName: "Maria Lopez",
					ORCID:       "https://orcid.org/0000-0002-2222-2222",
				},
			}},
		}},
	}
	pureStub := &stubPure{
		outputs: []pure.Document{pureOutput},
		extPersons: map[string]pure.Document{
			"ep-1": {"uuid": "ep-1", "name": map[string]any{"firstName": "Maria", "lastName": "Lopez"}},
		},
	}

	deps := Deps{Cfg: cfg, Pure: pureStub, Graph: graph, OpenAlex: oa}
	summary, err := ExternalPersons(context.Background(), deps)
	if err != nil {
		t.Fatalf("ExternalPersons: %v", err)
	}
	if summary.Updatable != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}

	sheet, err := batch.ReadSheet(cfg.ReviewPath(config.CategoryExternalPersons))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	// ORCID and OpenAlex id each stage one row.
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %+v", sheet.Rows)
	}

	payloads, err := batch.LoadPayloads(cfg.PayloadPath(config.CategoryExternalPersons))
	if err != nil {
		t.Fatalf("LoadPayloads: %v", err)
	}
	doc := payloads["ep-1"]
	if doc == nil {
		t.Fatal("no payload for ep-1")
	}
	if !hasIdentifierValue(doc, "0000-0002-2222-2222") || !hasIdentifierValue(doc, "A42") {
		t.Errorf("payload missing staged identifiers: %v", doc.Identifiers())
	}
	if doc.String("orcid") != "" {
		t.Error("external persons must not get the dedicated orcid field")
	}
}

func TestExternalPersonsUnmatchedDOIIsSkipped(t *testing.T) {
	cfg := testConfig(t)
	graph := bothSystemsDOIGraph()
	// OpenAlex knows the work, Pure does not return it: no enrichment.
	oa := &stubOpenAlex{
		works: []openalex.Work{{
			DOI: "https://doi.org/10.1000/xyz",
			Authorships: []openalex.Authorship{{
				Author: openalex.Author{DisplayName: "Maria Lopez", ORCID: "https://orcid.org/0000-0002-2222-2222"},
			}},
		}},
	}
	pureStub := &stubPure{}

	deps := Deps{Cfg: cfg, Pure: pureStub, Graph: graph, OpenAlex: oa}
	summary, err := ExternalPersons(context.Background(), deps)
	if err != nil {
		t.Fatalf("ExternalPersons: %v", err)
	}
	if summary.Unresolved != 1 || summary.Updatable != 0 {
		t.Errorf("unexpected summary %+v", summary)
	}
}
