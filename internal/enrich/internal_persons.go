package enrich

import (
	"context"
	"errors"
	"log"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/reconcile"
	"github.com/backtopure/btp/internal/record"
	"github.com/backtopure/btp/internal/report"
	"github.com/backtopure/btp/internal/ricgraph"
)

// idTermByURI inverts the configured name-to-URI map so staged identifiers
// carry their human-readable kind.
func idTermByURI(uris map[string]string) map[string]string {
	terms := make(map[string]string, len(uris))
	for name, uri := range uris {
		terms[uri] = name
	}
	return terms
}

// InternalPersons enriches Pure staff records with identifiers harvested
// into Ricgraph from other systems. For every person root under the selected
// faculties it assembles a candidate, locates the Pure person through the
// matching cascade, computes the identifier delta and stages one batch for
// review. An identifier-matrix XLSX is written next to the batch.
func InternalPersons(ctx context.Context, deps Deps) (Summary, error) {
	if err := deps.checkConnectivity(ctx); err != nil {
		return Summary{}, err
	}

	faculties, err := deps.faculties(ctx)
	if err != nil {
		return Summary{}, err
	}

	terms := idTermByURI(deps.Cfg.IDTypeURIs)
	summary := Summary{
		Faculty:    deps.Opts.Faculty,
		ReviewFile: deps.Cfg.ReviewPath(config.CategoryInternalPersons),
	}
	sheet := batch.Sheet{
		KeyColumn: "person_uuid",
		Columns:   []string{"person_name", "id_type", "new_value", "existing_value"},
	}
	var payloads []batch.Payload
	var matrixRows []report.PersonIDRow
	staged := make(map[string]bool)

	for _, faculty := range faculties {
		roots, err := deps.Graph.PersonRoots(ctx, faculty.Key)
		if err != nil {
			return summary, err
		}
		for _, root := range deps.capRoots(roots) {
			neighbors, err := deps.Graph.PersonNeighbors(ctx, root.Key)
			if err != nil {
				return summary, err
			}
			candidate := PersonFromNeighbors(root.Key, neighbors, deps.Cfg)
			if len(candidate.Identifiers) == 0 {
				continue
			}
			matrixRows = append(matrixRows, matrixRow(root.Key, neighbors))

			doc, _, err := reconcile.FindPerson(ctx, deps.Pure, candidate)
			switch {
			case errors.Is(err, reconcile.ErrNoMatch):
				summary.Unresolved++
				continue
			case errors.Is(err, reconcile.ErrAmbiguous):
				log.Printf("internal persons: %q is ambiguous in Pure, skipping", candidate.FullName)
				summary.Unresolved++
				continue
			case err != nil:
				return summary, err
			}
			if staged[doc.UUID()] {
				continue // another person root already resolved to this record
			}

			existing := pure.PersonView(doc, record.OriginPureInternal)
			delta := reconcile.ReconcilePerson(candidate, existing)
			if delta.Empty() {
				summary.Consistent++
				continue
			}

			stagePersonDelta(&sheet, doc, existing.FullName, delta, terms)
			summary.Conflicts += len(delta.Conflicts)
			if len(delta.NewIdentifiers) > 0 || delta.ORCIDChange != "" {
				applyPersonDelta(doc, delta, terms)
				payloads = append(payloads, batch.Payload{Key: doc.UUID(), Body: doc})
				staged[doc.UUID()] = true
				summary.Updatable++
			} else {
				summary.Consistent++
			}
		}
	}

	if err := batch.Stage(
		deps.Cfg.ReviewPath(config.CategoryInternalPersons),
		deps.Cfg.PayloadPath(config.CategoryInternalPersons),
		sheet, payloads,
	); err != nil {
		return summary, err
	}

	matrixPath := deps.Cfg.BatchDir(config.CategoryInternalPersons) + "/person_ids.xlsx"
	if err := report.ExportPersonIDMatrix(matrixRows, matrixPath); err != nil {
		return summary, err
	}
	return summary, nil
}

// stagePersonDelta appends one sheet row per staged change. Conflicting
// values become unmarked informational rows so the reviewer sees them
// without apply ever acting on them.
func stagePersonDelta(sheet *batch.Sheet, doc pure.Document, name string, delta reconcile.PersonDelta, terms map[string]string) {
	uuid := doc.UUID()
	for _, id := range delta.NewIdentifiers {
		kind := terms[id.SourceURI]
		if kind == "" {
			kind = string(id.Scheme)
		}
		sheet.Rows = append(sheet.Rows, batch.NewRow(uuid, map[string]string{
			"person_name": name,
			"id_type":     kind,
			"new_value":   id.Value,
		}))
	}
	if delta.ORCIDChange != "" {
		sheet.Rows = append(sheet.Rows, batch.NewRow(uuid, map[string]string{
			"person_name": name,
			"id_type":     "orcid field",
			"new_value":   delta.ORCIDChange,
		}))
	}
	for _, c := range delta.Conflicts {
		kind := terms[c.SourceURI]
		if kind == "" {
			kind = string(c.Scheme)
		}
		sheet.Rows = append(sheet.Rows, batch.NewInfoRow(uuid, map[string]string{
			"person_name":    name,
			"id_type":        kind + " (conflict)",
			"new_value":      c.Candidate,
			"existing_value": c.Existing,
		}))
	}
}

// applyPersonDelta folds the staged additions into the full document that
// will be PUT back on apply.
func applyPersonDelta(doc pure.Document, delta reconcile.PersonDelta, terms map[string]string) {
	for _, id := range delta.NewIdentifiers {
		doc.AppendIdentifier(pure.NewClassifiedID(id.Value, id.SourceURI, terms[id.SourceURI]))
	}
	if delta.ORCIDChange != "" {
		doc.SetORCID(delta.ORCIDChange)
	}
}

// matrixRow summarizes one person root for the identifier-matrix export.
func matrixRow(rootKey string, neighbors []ricgraph.Node) report.PersonIDRow {
	row := report.PersonIDRow{
		PersonRootKey: KeyValue(rootKey),
		FullNames:     FullNames(neighbors),
		IDs:           make(map[string][]string),
	}
	for _, n := range neighbors {
		if n.Category == "person" && n.Name != "FULL_NAME" && n.Value != "" {
			row.IDs[n.Name] = append(row.IDs[n.Name], n.Value)
		}
	}
	return row
}
