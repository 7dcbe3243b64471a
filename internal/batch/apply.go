package batch

import (
	"context"
	"log"

	"github.com/backtopure/btp/internal/pure"
)

// ApplyResult summarizes one apply pass.
type ApplyResult struct {
	Applied int `json:"applied"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// ApplyFunc performs the outbound update for one entity. The payload is the
// full post-change document; rows are the approved sheet rows targeting the
// entity.
type ApplyFunc func(ctx context.Context, key string, payload pure.Document, rows []Row) error

// Apply reads a staged batch and writes every approved entity via applyFn.
// Rows are grouped by entity key so that several identifier changes result
// in a single outbound call. On success the rows are rewritten with updated
// set and to_be_updated cleared; a failing entity is counted and logged but
// does not block the rest. Re-running Apply on an already applied batch is a
// no-op because no row still carries the marker.
func Apply(ctx context.Context, reviewPath, payloadPath string, applyFn ApplyFunc) (ApplyResult, error) {
	sheet, err := ReadSheet(reviewPath)
	if err != nil {
		return ApplyResult{}, err
	}
	payloads, err := LoadPayloads(payloadPath)
	if err != nil {
		return ApplyResult{}, err
	}

	// Group approved row indexes per entity, preserving sheet order.
	var keys []string
	rowsByKey := make(map[string][]int)
	var result ApplyResult
	for i, row := range sheet.Rows {
		if !row.Approved() {
			result.Skipped++
			continue
		}
		if _, seen := rowsByKey[row.Key]; !seen {
			keys = append(keys, row.Key)
		}
		rowsByKey[row.Key] = append(rowsByKey[row.Key], i)
	}

	for _, key := range keys {
		indexes := rowsByKey[key]
		rows := make([]Row, len(indexes))
		for i, idx := range indexes {
			rows[i] = sheet.Rows[idx]
		}

		payload, ok := payloads[key]
		if !ok {
			log.Printf("apply: no payload for %s, skipping", key)
			result.Failed++
			continue
		}
		if err := applyFn(ctx, key, payload, rows); err != nil {
			log.Printf("apply: updating %s failed: %v", key, err)
			result.Failed++
			continue
		}

		for _, idx := range indexes {
			sheet.Rows[idx].ToBeUpdated = ""
			sheet.Rows[idx].Updated = Marker
		}
		result.Applied++
	}

	if err := writeSheet(reviewPath, sheet); err != nil {
		return result, err
	}
	return result, nil
}
