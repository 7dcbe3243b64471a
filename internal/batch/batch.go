// Package batch persists human-reviewable update batches and applies them.
// A batch is a CSV review sheet, one row per discrete change, paired with a
// JSON file of full post-change entity payloads. A reviewer clears the
// to_be_updated marker to skip a row; apply writes only marked rows and
// records the result back into the sheet, so re-running apply is safe.
package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backtopure/btp/internal/pure"
)

// Marker is the value a reviewer leaves in to_be_updated to approve a row,
// and the value apply writes into updated. Comparison is string equality,
// not column presence.
const Marker = "X"

// Control and key column names of the review sheet.
const (
	colToBeUpdated = "to_be_updated"
	colUpdated     = "updated"
)

// Row is one discrete proposed change in the review sheet.
type Row struct {
	ToBeUpdated string
	Updated     string
	Key         string            // entity key, e.g. a Pure UUID
	Values      map[string]string // change columns
}

// Approved reports whether the reviewer left the row marked for update.
func (r Row) Approved() bool {
	return r.ToBeUpdated == Marker
}

// NewRow builds a change row that starts marked for update.
func NewRow(key string, values map[string]string) Row {
	return Row{ToBeUpdated: Marker, Key: key, Values: values}
}

// NewInfoRow builds an unmarked row. Used for conflicting identifier values,
// which are surfaced to the reviewer but never applied as staged.
func NewInfoRow(key string, values map[string]string) Row {
	return Row{Key: key, Values: values}
}

// Sheet is the tabular review form of a batch. Multiple rows may target the
// same entity; apply merges them into one outbound call.
type Sheet struct {
	KeyColumn string
	Columns   []string // change columns, after the control and key columns
	Rows      []Row
}

// Payload is one full post-change entity document, keyed like the sheet.
type Payload struct {
	Key  string        `json:"key"`
	Body pure.Document `json:"body"`
}

// Stage persists a new batch: the review sheet at reviewPath and the entity
// payloads at payloadPath. Rows built with NewRow start marked for update;
// nothing starts as applied.
func Stage(reviewPath, payloadPath string, sheet Sheet, payloads []Payload) error {
	if err := os.MkdirAll(filepath.Dir(reviewPath), 0755); err != nil {
		return fmt.Errorf("creating batch directory: %w", err)
	}
	for i := range sheet.Rows {
		sheet.Rows[i].Updated = ""
	}
	if err := writeSheet(reviewPath, sheet); err != nil {
		return err
	}
	return writePayloads(payloadPath, payloads)
}

func writePayloads(path string, payloads []Payload) error {
	data, err := json.MarshalIndent(payloads, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payloads: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// LoadPayloads reads the payload file back, keyed by entity key. Later
// entries win on duplicate keys.
func LoadPayloads(path string) (map[string]pure.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var payloads []Payload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	byKey := make(map[string]pure.Document, len(payloads))
	for _, p := range payloads {
		byKey[p.Key] = p.Body
	}
	return byKey, nil
}
