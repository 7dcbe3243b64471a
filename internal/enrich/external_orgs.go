package enrich

import (
	"context"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/reconcile"
	"github.com/backtopure/btp/internal/record"
)

// ExternalOrgs enriches Pure external organizations with ROR identifiers and
// location data from OpenAlex institutions. Institutions come from the
// authorships of works both systems know; the match is by display name, the
// enrichment is the ROR.
func ExternalOrgs(ctx context.Context, deps Deps) (Summary, error) {
	if err := deps.checkConnectivity(ctx); err != nil {
		return Summary{}, err
	}

	faculties, err := deps.faculties(ctx)
	if err != nil {
		return Summary{}, err
	}
	bothLabels := []string{deps.Cfg.Ricgraph.SourceLabel, deps.Cfg.Ricgraph.OpenAlexLabel}

	summary := Summary{
		Faculty:    deps.Opts.Faculty,
		ReviewFile: deps.Cfg.ReviewPath(config.CategoryExternalOrgs),
	}

	// Union of authorship institution RORs over all faculties.
	var rors []string
	seenROR := make(map[string]bool)
	for _, faculty := range faculties {
		dois, err := facultyDOIs(ctx, deps, faculty.Key, bothLabels, nil)
		if err != nil {
			return summary, err
		}
		if len(dois) == 0 {
			continue
		}
		works, err := deps.OpenAlex.WorksByDOIs(ctx, dois)
		if err != nil {
			return summary, err
		}
		for _, w := range works {
			for _, as := range w.Authorships {
				for _, inst := range as.Institutions {
					ror := identifier.ROR(inst.ROR)
					if ror == "" || seenROR[ror] {
						continue
					}
					seenROR[ror] = true
					rors = append(rors, ror)
				}
			}
		}
	}

	sheet := batch.Sheet{
		KeyColumn: "org_uuid",
		Columns:   []string{"org_name", "new_ror", "existing_ror", "openalex_id"},
	}
	var payloads []batch.Payload

	if len(rors) > 0 {
		institutions, err := deps.OpenAlex.InstitutionsByRORs(ctx, rors)
		if err != nil {
			return summary, err
		}
		externalOrgs := make([]record.Organization, 0, len(institutions))
		names := make([]string, 0, len(institutions))
		for _, inst := range institutions {
			org := inst.ToOrganization()
			externalOrgs = append(externalOrgs, org)
			if org.DisplayName != "" {
				names = append(names, org.DisplayName)
			}
		}

		docs, err := deps.Pure.ExternalOrganizationsBySearchValues(ctx, names)
		if err != nil {
			return summary, err
		}
		rorURI := deps.Cfg.ExternalIDURIs["ror"]
		docByUUID := make(map[string]pure.Document, len(docs))
		pureOrgs := make([]record.Organization, 0, len(docs))
		for _, doc := range docs {
			docByUUID[doc.UUID()] = doc
			pureOrgs = append(pureOrgs, pure.OrganizationView(doc, rorURI))
		}

		for _, match := range reconcile.MatchOrganizations(pureOrgs, externalOrgs) {
			switch {
			case match.Pure.ROR == match.External.ROR:
				summary.Consistent++
			case match.Pure.ROR == "":
				doc := docByUUID[match.Pure.UUID]
				rorValue := "https://ror.org/" + match.External.ROR
				sheet.Rows = append(sheet.Rows, batch.NewRow(match.Pure.UUID, map[string]string{
					"org_name":    match.Pure.DisplayName,
					"new_ror":     rorValue,
					"openalex_id": match.External.OpenAlexID,
				}))
				doc.AppendIdentifier(pure.NewClassifiedID(rorValue, rorURI, "ROR ID"))
				payloads = append(payloads, batch.Payload{Key: match.Pure.UUID, Body: doc})
				summary.Updatable++
			default:
				// Different ROR on each side: surface, never overwrite.
				sheet.Rows = append(sheet.Rows, batch.NewInfoRow(match.Pure.UUID, map[string]string{
					"org_name":     match.Pure.DisplayName,
					"new_ror":      "https://ror.org/" + match.External.ROR,
					"existing_ror": "https://ror.org/" + match.Pure.ROR,
					"openalex_id":  match.External.OpenAlexID,
				}))
				summary.Conflicts++
			}
		}
	}

	err = batch.Stage(
		deps.Cfg.ReviewPath(config.CategoryExternalOrgs),
		deps.Cfg.PayloadPath(config.CategoryExternalOrgs),
		sheet, payloads,
	)
	return summary, err
}

// DuplicateOrgClusters finds Pure external organizations that share a ROR:
// candidate duplicates for manual merge review.
func DuplicateOrgClusters(ctx context.Context, deps Deps) (map[string][]string, error) {
	docs, err := deps.Pure.SearchExternalOrganizations(ctx, "ror.org")
	if err != nil {
		return nil, err
	}
	rorURI := deps.Cfg.ExternalIDURIs["ror"]
	orgs := make([]record.Organization, 0, len(docs))
	for _, doc := range docs {
		orgs = append(orgs, pure.OrganizationView(doc, rorURI))
	}
	return reconcile.ClusterByIdentifier(orgs), nil
}
