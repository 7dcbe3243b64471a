package enrich

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/datacite"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/names"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/reconcile"
	"github.com/backtopure/btp/internal/record"
	"github.com/backtopure/btp/internal/report"
)

const (
	datasetCategory     = "data set"
	datasetCreatorURI   = "/dk/atira/pure/dataset/roles/dataset/creator"
	datasetAvailableURI = "/dk/atira/pure/dataset/datasetversiontype/dataset"
)

// ImportDatasets stages creation batches for datasets Ricgraph knows but
// Pure does not, with descriptive metadata fetched from DataCite. An
// explicit DOI list in the run options bypasses the graph traversal. A
// harvest overview XLSX is written next to the batch.
func ImportDatasets(ctx context.Context, deps Deps) (Summary, error) {
	summary := Summary{
		Faculty:    deps.Opts.Faculty,
		ReviewFile: deps.Cfg.ReviewPath(config.CategoryDatasets),
	}

	var candidates []string
	if len(deps.Opts.DOIs) > 0 {
		// Explicit list: only Pure is needed up front.
		if err := deps.Pure.Ping(ctx); err != nil {
			return Summary{}, err
		}
		seen := make(map[string]bool)
		for _, raw := range deps.Opts.DOIs {
			doi := identifier.DOI(raw)
			if doi != "" && !seen[doi] {
				seen[doi] = true
				candidates = append(candidates, doi)
			}
		}
	} else {
		if err := deps.checkConnectivity(ctx); err != nil {
			return Summary{}, err
		}
		faculties, err := deps.faculties(ctx)
		if err != nil {
			return Summary{}, err
		}
		seen := make(map[string]bool)
		for _, faculty := range faculties {
			roots, err := deps.Graph.PersonRoots(ctx, faculty.Key)
			if err != nil {
				return summary, err
			}
			for _, root := range deps.capRoots(roots) {
				neighbors, err := deps.Graph.Neighbors(ctx, root.Key, datasetCategory)
				if err != nil {
					return summary, err
				}
				dois := CollectDOIs(neighbors, []string{datasetCategory},
					nil, []string{deps.Cfg.Ricgraph.SourceLabel})
				for _, doi := range dois {
					if !seen[doi] {
						seen[doi] = true
						candidates = append(candidates, doi)
					}
				}
			}
		}
	}

	sheet := batch.Sheet{
		KeyColumn: "doi",
		Columns:   []string{"title", "publisher", "year", "creators", "note"},
	}
	var payloads []batch.Payload
	var overview []report.DatasetRow

	kept := candidates[:0]
	for _, doi := range candidates {
		hits, err := deps.Pure.SearchDataSets(ctx, doi)
		if err != nil {
			return summary, err
		}
		if len(hits) > 0 {
			summary.Consistent++
			overview = append(overview, report.DatasetRow{
				DOI: doi, InPure: true, PureUUID: hits[0].UUID(),
			})
			continue
		}
		kept = append(kept, doi)
	}
	candidates = kept

	for _, res := range deps.DataCite.FetchAll(ctx, candidates) {
		if res.Err != nil {
			if errors.Is(res.Err, datacite.ErrNotFound) {
				summary.Unresolved++
				overview = append(overview, report.DatasetRow{DOI: res.DOI, Note: "not in DataCite"})
				continue
			}
			log.Printf("import datasets: fetching %s: %v", res.DOI, res.Err)
			summary.Errors++
			continue
		}
		attrs := res.Record.Attributes
		if err := identifier.ValidateDOI(res.DOI); err != nil {
			log.Printf("import datasets: %q: %v, excluded", res.DOI, err)
			summary.Errors++
			continue
		}

		creators, err := resolveDatasetCreators(ctx, deps, attrs.Creators)
		if err != nil {
			return summary, err
		}
		orgs := reconcile.DeriveOrganizationAssociations(creators, deps.Cfg.Defaults.UniversityOrgUUID)

		publisherUUID, err := resolvePublisher(ctx, deps, attrs.Publisher)
		if err != nil {
			return summary, err
		}

		payload := buildDatasetPayload(res.DOI, attrs, creators, orgs, publisherUUID, deps.Cfg)
		payloads = append(payloads, batch.Payload{Key: res.DOI, Body: payload})
		sheet.Rows = append(sheet.Rows, batch.NewRow(res.DOI, map[string]string{
			"title":     attrs.Title(),
			"publisher": attrs.Publisher,
			"year":      strconv.Itoa(attrs.PublicationYear),
			"creators":  strconv.Itoa(len(creators)),
		}))
		overview = append(overview, report.DatasetRow{
			DOI:             res.DOI,
			Title:           attrs.Title(),
			Publisher:       attrs.Publisher,
			PublicationYear: attrs.PublicationYear,
			Creators:        creatorNames(attrs.Creators),
			Note:            "create candidate",
		})
		summary.Updatable++
	}

	if err := batch.Stage(
		deps.Cfg.ReviewPath(config.CategoryDatasets),
		deps.Cfg.PayloadPath(config.CategoryDatasets),
		sheet, payloads,
	); err != nil {
		return summary, err
	}

	overviewPath := deps.Cfg.BatchDir(config.CategoryDatasets) + "/datasets.xlsx"
	if err := report.ExportDatasets(overview, overviewPath); err != nil {
		return summary, err
	}
	return summary, nil
}

// resolveDatasetCreators resolves DataCite creators internal-first, the same
// way work contributors resolve, creating external persons where needed.
func resolveDatasetCreators(ctx context.Context, deps Deps, creators []datacite.Creator) ([]reconcile.Association, error) {
	var assocs []reconcile.Association
	for _, creator := range creators {
		first, last := creator.GivenName, creator.FamilyName
		if first == "" && last == "" {
			first, last = names.SplitComma(creator.Name)
		}
		full := strings.TrimSpace(first + " " + last)
		assoc := reconcile.Association{
			Name:      full,
			FirstName: first,
			LastName:  last,
			ORCID:     identifier.ORCID(creator.ORCID()),
		}

		candidate := record.Person{FullName: full, FirstName: first, LastName: last}
		if assoc.ORCID != "" {
			candidate.Identifiers = append(candidate.Identifiers, record.Identifier{
				Scheme: identifier.SchemeORCID, Value: assoc.ORCID,
			})
		}

		doc, _, err := reconcile.FindPerson(ctx, deps.Pure, candidate)
		switch {
		case err == nil:
			assoc.Resolved = true
			assoc.Internal = true
			assoc.PersonUUID = doc.UUID()
			for _, ref := range doc.StaffAssociations(time.Now()) {
				assoc.OrgUUIDs = append(assoc.OrgUUIDs, ref.UUID)
			}
		case errors.Is(err, reconcile.ErrNoMatch), errors.Is(err, reconcile.ErrAmbiguous):
			uuid, err := findOrCreateExternalPerson(ctx, deps, assoc)
			if err != nil {
				return nil, err
			}
			if uuid != "" {
				assoc.Resolved = true
				assoc.PersonUUID = uuid
			}
		default:
			return nil, err
		}
		assocs = append(assocs, assoc)
	}
	return assocs, nil
}

// resolvePublisher maps the DataCite publisher name to a Pure publisher,
// falling back to the configured default.
func resolvePublisher(ctx context.Context, deps Deps, name string) (string, error) {
	if name != "" {
		uuid, err := deps.Pure.PublisherUUIDByName(ctx, name)
		if err != nil {
			return "", err
		}
		if uuid != "" {
			return uuid, nil
		}
	}
	return deps.Cfg.Defaults.PublisherUUID, nil
}

// buildDatasetPayload assembles the full data-set document staged for
// creation.
func buildDatasetPayload(doi string, attrs datacite.Attributes, creators []reconcile.Association, orgs reconcile.OrgAssociations, publisherUUID string, cfg *config.Config) pure.Document {
	var persons []any
	for _, assoc := range creators {
		entry := map[string]any{
			"typeDiscriminator": datasetPersonDiscriminator(assoc),
			"name": map[string]any{
				"firstName": assoc.FirstName,
				"lastName":  assoc.LastName,
			},
			"role": map[string]any{"uri": datasetCreatorURI},
		}
		switch {
		case assoc.Internal:
			entry["person"] = map[string]any{"systemName": "Person", "uuid": assoc.PersonUUID}
			var orgRefs []any
			for _, uuid := range assoc.OrgUUIDs {
				orgRefs = append(orgRefs, map[string]any{"systemName": "Organization", "uuid": uuid})
			}
			entry["organizations"] = orgRefs
		case assoc.PersonUUID != "":
			entry["externalPerson"] = map[string]any{"systemName": "ExternalPerson", "uuid": assoc.PersonUUID}
		}
		persons = append(persons, entry)
	}

	payload := pure.Document{
		"typeDiscriminator": "DataSet",
		"title":             map[string]any{"en_GB": attrs.Title()},
		"type":              map[string]any{"uri": datasetAvailableURI},
		"doi":               map[string]any{"doi": "https://doi.org/" + doi},
		"persons":           persons,
		"managingOrganization": map[string]any{
			"systemName": "Organization",
			"uuid":       orgs.ManagingOrgUUID,
		},
		"publisher":  map[string]any{"systemName": "Publisher", "uuid": publisherUUID},
		"visibility": map[string]any{"key": cfg.Defaults.VisibilityKey},
		"workflow":   map[string]any{"step": cfg.Defaults.WorkflowStep},
	}
	if abstract := attrs.Abstract(); abstract != "" {
		payload["descriptions"] = []any{
			map[string]any{
				"value": map[string]any{"en_GB": abstract},
				"type":  map[string]any{"uri": "/dk/atira/pure/dataset/descriptions/datasetdescription"},
			},
		}
	}
	if attrs.PublicationYear != 0 {
		payload["publicationAvailableDate"] = map[string]any{"year": attrs.PublicationYear}
	}
	var orgRefs []any
	for _, uuid := range orgs.OrganizationUUIDs {
		orgRefs = append(orgRefs, map[string]any{"systemName": "Organization", "uuid": uuid})
	}
	if len(orgRefs) > 0 {
		payload["organizations"] = orgRefs
	}
	var extOrgRefs []any
	for _, uuid := range orgs.ExternalOrganizationUUIDs {
		extOrgRefs = append(extOrgRefs, map[string]any{"systemName": "ExternalOrganization", "uuid": uuid})
	}
	if len(extOrgRefs) > 0 {
		payload["externalOrganizations"] = extOrgRefs
	}
	return payload
}

func creatorNames(creators []datacite.Creator) []string {
	out := make([]string, 0, len(creators))
	for _, c := range creators {
		out = append(out, c.Name)
	}
	return out
}

func datasetPersonDiscriminator(assoc reconcile.Association) string {
	if assoc.Internal {
		return "InternalDataSetPersonAssociation"
	}
	return "ExternalDataSetPersonAssociation"
}
