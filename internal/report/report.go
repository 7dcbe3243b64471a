// Package report writes the XLSX summary sheets produced alongside the
// review batches: the person identifier matrix and the dataset harvest
// overview.
package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/backtopure/btp/internal/record"
)

// multiValueSep joins multiple values of one identifier kind in a cell.
const multiValueSep = " | "

// PersonIDRow is one person in the identifier matrix.
type PersonIDRow struct {
	PersonRootKey string
	FullNames     []string
	IDs           map[string][]string // identifier kind to values
}

// ExportPersonIDMatrix writes a pivot of person identifiers: one row per
// person root, one column per identifier kind found across the whole input,
// multiple values joined in the cell.
func ExportPersonIDMatrix(rows []PersonIDRow, outputPath string) error {
	kinds := collectKinds(rows)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := append([]string{"person_root", "full_names"}, kinds...)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, row.PersonRootKey)
		set(2, strings.Join(row.FullNames, multiValueSep))
		for j, kind := range kinds {
			set(3+j, strings.Join(row.IDs[kind], multiValueSep))
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// collectKinds returns the union of identifier kinds across all rows in
// sorted order, so the column layout is stable between runs.
func collectKinds(rows []PersonIDRow) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for kind := range row.IDs {
			seen[kind] = true
		}
	}
	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// DatasetRow is one harvested dataset in the overview sheet.
type DatasetRow struct {
	DOI             string
	Title           string
	Publisher       string
	PublicationYear int
	Creators        []string
	InPure          bool
	PureUUID        string
	Note            string
}

// ExportDatasets writes the dataset harvest overview.
func ExportDatasets(rows []DatasetRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"doi", "title", "publisher", "publication_year", "creators",
		"in_pure", "pure_uuid", "note",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, row.DOI)
		set(2, row.Title)
		set(3, row.Publisher)
		if row.PublicationYear != 0 {
			set(4, row.PublicationYear)
		}
		set(5, strings.Join(row.Creators, multiValueSep))
		set(6, boolMark(row.InPure))
		set(7, row.PureUUID)
		set(8, row.Note)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// PersonIDRowsFromRecords converts reconciled person records into matrix
// rows, one per person, columns keyed by identifier source URI or scheme.
func PersonIDRowsFromRecords(persons []record.Person) []PersonIDRow {
	rows := make([]PersonIDRow, 0, len(persons))
	for _, p := range persons {
		row := PersonIDRow{
			PersonRootKey: p.UUID,
			FullNames:     []string{p.FullName},
			IDs:           make(map[string][]string),
		}
		for _, id := range p.Identifiers {
			kind := string(id.Scheme)
			if id.SourceURI != "" {
				kind = id.SourceURI
			}
			row.IDs[kind] = append(row.IDs[kind], id.Value)
		}
		rows = append(rows, row)
	}
	return rows
}
