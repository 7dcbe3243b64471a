package report

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestExportPersonIDMatrix(t *testing.T) {
	rows := []PersonIDRow{
		{
			PersonRootKey: "root-1",
			FullNames:     []string{"John Smith", "J. Smith"},
			IDs: map[string][]string{
				"ORCID":    {"0000-0001-2345-6789"},
				"OPENALEX": {"A1", "A2"},
			},
		},
		{
			PersonRootKey: "root-2",
			FullNames:     []string{"Maria Lopez"},
			IDs:           map[string][]string{"ORCID": {"0000-0002-2222-2222"}},
		},
	}

	path := filepath.Join(t.TempDir(), "person_ids.xlsx")
	if err := ExportPersonIDMatrix(rows, path); err != nil {
		t.Fatalf("ExportPersonIDMatrix: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening exported file: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	got, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(got))
	}
	// Kind columns are sorted: OPENALEX before ORCID.
	wantHeader := []string{"person_root", "full_names", "OPENALEX", "ORCID"}
	for i, h := range wantHeader {
		if got[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, got[0][i], h)
		}
	}
	if got[1][1] != "John Smith | J. Smith" {
		t.Errorf("full names not joined: %q", got[1][1])
	}
	if got[1][2] != "A1 | A2" {
		t.Errorf("multi-value cell not joined: %q", got[1][2])
	}
}

func TestExportDatasets(t *testing.T) {
	rows := []DatasetRow{
		{
			DOI:             "10.5281/zenodo.123",
			Title:           "Bird counts 2019",
			Publisher:       "Zenodo",
			PublicationYear: 2019,
			Creators:        []string{"Smith, John"},
			InPure:          true,
			PureUUID:        "ds-1",
		},
		{DOI: "10.5281/zenodo.456", Title: "Untracked", Note: "create candidate"},
	}

	path := filepath.Join(t.TempDir(), "datasets.xlsx")
	if err := ExportDatasets(rows, path); err != nil {
		t.Fatalf("ExportDatasets: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening exported file: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(got))
	}
	if got[1][5] != "yes" || got[2][5] != "no" {
		t.Errorf("in_pure flags wrong: %q, %q", got[1][5], got[2][5])
	}
}
