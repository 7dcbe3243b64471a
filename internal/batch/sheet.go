package batch

import (
	"encoding/csv"
	"fmt"
	"os"
)

// writeSheet serializes a review sheet to CSV. Column order is the two
// control columns, the entity key column, then the change columns.
func writeSheet(path string, sheet Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{colToBeUpdated, colUpdated, sheet.KeyColumn}, sheet.Columns...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	for _, row := range sheet.Rows {
		fields := []string{row.ToBeUpdated, row.Updated, row.Key}
		for _, col := range sheet.Columns {
			fields = append(fields, row.Values[col])
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ReadSheet parses a review sheet as re-serialized by the reviewer's editor.
// Unknown columns are preserved as change columns; short rows are padded.
func ReadSheet(path string) (Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // spreadsheet editors drop trailing empty cells
	records, err := r.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 {
		return Sheet{}, fmt.Errorf("parsing %s: empty review sheet", path)
	}

	header := records[0]
	if len(header) < 3 || header[0] != colToBeUpdated || header[1] != colUpdated {
		return Sheet{}, fmt.Errorf("parsing %s: unexpected header %v", path, header)
	}
	sheet := Sheet{
		KeyColumn: header[2],
		Columns:   header[3:],
	}

	for _, rec := range records[1:] {
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		row := Row{
			ToBeUpdated: rec[0],
			Updated:     rec[1],
			Key:         rec[2],
			Values:      make(map[string]string, len(sheet.Columns)),
		}
		for i, col := range sheet.Columns {
			row.Values[col] = rec[3+i]
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
