package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/reconcile"
	"github.com/backtopure/btp/internal/record"
)

// Pure classification URIs for journal-article creation.
const (
	articleTypeURI     = "/dk/atira/pure/researchoutput/researchoutputtypes/contributiontojournal/article"
	authorRoleURI      = "/dk/atira/pure/researchoutput/roles/contributiontojournal/author"
	publishedStatusURI = "/dk/atira/pure/researchoutput/status/published"
	peerReviewedURI    = "/dk/atira/pure/researchoutput/category/academic"
)

// ImportWorks stages creation batches for journal articles that Ricgraph
// knows from OpenAlex but Pure does not have. Works without a resolvable
// journal are skipped; missing external persons are created up front so the
// staged payload is complete.
func ImportWorks(ctx context.Context, deps Deps) (Summary, error) {
	if err := deps.checkConnectivity(ctx); err != nil {
		return Summary{}, err
	}

	faculties, err := deps.faculties(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Faculty:    deps.Opts.Faculty,
		ReviewFile: deps.Cfg.ReviewPath(config.CategoryResearchOutputs),
	}

	// DOIs harvested from OpenAlex that Pure never reported to Ricgraph.
	var candidates []string
	seen := make(map[string]bool)
	for _, faculty := range faculties {
		dois, err := facultyDOIs(ctx, deps, faculty.Key,
			[]string{deps.Cfg.Ricgraph.OpenAlexLabel},
			[]string{deps.Cfg.Ricgraph.SourceLabel})
		if err != nil {
			return summary, err
		}
		for _, doi := range dois {
			if !seen[doi] {
				seen[doi] = true
				candidates = append(candidates, doi)
			}
		}
	}

	// The harvest can lag behind Pure; double-check before staging creates.
	if len(candidates) > 0 {
		existing, err := deps.Pure.ResearchOutputsByDOIs(ctx, candidates)
		if err != nil {
			return summary, err
		}
		known := make(map[string]bool)
		for _, doc := range existing {
			view := pure.PublicationView(doc)
			if view.DOI != "" {
				known[view.DOI] = true
			}
			for _, doi := range view.SecondaryDOIs {
				known[doi] = true
			}
		}
		kept := candidates[:0]
		for _, doi := range candidates {
			if known[doi] {
				summary.Consistent++
				continue
			}
			kept = append(kept, doi)
		}
		candidates = kept
	}

	sheet := batch.Sheet{
		KeyColumn: "doi",
		Columns:   []string{"title", "journal_uuid", "contributors", "managing_org", "note"},
	}
	var payloads []batch.Payload

	if len(candidates) > 0 {
		works, err := deps.OpenAlex.WorksByDOIs(ctx, candidates)
		if err != nil {
			return summary, err
		}
		for _, work := range works {
			doi := work.CanonicalDOI()
			if err := identifier.ValidateDOI(doi); err != nil {
				log.Printf("import works: %q: %v, excluded", work.DOI, err)
				summary.Errors++
				continue
			}

			journalUUID, err := resolveJournal(ctx, deps, work)
			if err != nil {
				return summary, err
			}
			if journalUUID == "" {
				log.Printf("import works: no Pure journal for %s, skipping", doi)
				summary.Unresolved++
				continue
			}

			assocs, err := resolveWorkContributors(ctx, deps, work)
			if err != nil {
				return summary, err
			}
			orgs := reconcile.DeriveOrganizationAssociations(assocs, deps.Cfg.Defaults.UniversityOrgUUID)

			payload := buildWorkPayload(work, doi, journalUUID, assocs, orgs, deps.Cfg)
			payloads = append(payloads, batch.Payload{Key: doi, Body: payload})
			sheet.Rows = append(sheet.Rows, batch.NewRow(doi, map[string]string{
				"title":        work.Title,
				"journal_uuid": journalUUID,
				"contributors": strconv.Itoa(len(assocs)),
				"managing_org": orgs.ManagingOrgUUID,
			}))
			summary.Updatable++
		}
	}

	err = batch.Stage(
		deps.Cfg.ReviewPath(config.CategoryResearchOutputs),
		deps.Cfg.PayloadPath(config.CategoryResearchOutputs),
		sheet, payloads,
	)
	return summary, err
}

// resolveJournal finds the Pure journal for a work, trying each ISSN.
func resolveJournal(ctx context.Context, deps Deps, work openalex.Work) (string, error) {
	for _, issn := range work.ISSNs() {
		uuid, err := deps.Pure.JournalUUIDByISSN(ctx, issn)
		if err != nil {
			return "", err
		}
		if uuid != "" {
			return uuid, nil
		}
	}
	return "", nil
}

// resolveWorkContributors resolves each authorship internal-first: a match
// among Pure staff yields an internal association with active staff orgs;
// otherwise an existing external person is searched for, and failing that
// one is created from the available identifiers.
func resolveWorkContributors(ctx context.Context, deps Deps, work openalex.Work) ([]reconcile.Association, error) {
	oaPub := workToPublication(work)
	assocs := reconcile.DeriveContributorAssociations(oaPub.Contributors, nil)

	for i := range assocs {
		assoc := &assocs[i]
		candidate := record.Person{
			FullName:  assoc.Name,
			FirstName: assoc.FirstName,
			LastName:  assoc.LastName,
		}
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
			continue
		case errors.Is(err, reconcile.ErrNoMatch), errors.Is(err, reconcile.ErrAmbiguous):
			// Not internal staff; fall through to the external branch.
		default:
			return nil, err
		}

		uuid, err := findOrCreateExternalPerson(ctx, deps, *assoc)
		if err != nil {
			return nil, err
		}
		if uuid != "" {
			assoc.Resolved = true
			assoc.PersonUUID = uuid
		}
	}
	return assocs, nil
}

// findOrCreateExternalPerson locates an external person by identifier or
// name, creating one when nothing matches and an identifier is available to
// seed it. An empty UUID means the contributor stays a name-only entry.
func findOrCreateExternalPerson(ctx context.Context, deps Deps, assoc reconcile.Association) (string, error) {
	for _, query := range []string{assoc.ORCID, assoc.OpenAlexID} {
		if query == "" {
			continue
		}
		hits, err := deps.Pure.SearchExternalPersons(ctx, query)
		if err != nil {
			return "", err
		}
		if len(hits) == 1 {
			return hits[0].UUID(), nil
		}
	}
	hits, err := deps.Pure.SearchExternalPersons(ctx, assoc.Name)
	if err != nil {
		return "", err
	}
	if len(hits) == 1 {
		return hits[0].UUID(), nil
	}

	if assoc.ORCID == "" && assoc.OpenAlexID == "" {
		return "", nil
	}
	seed := pure.ExternalPersonSeed{
		FirstName: assoc.FirstName,
		LastName:  assoc.LastName,
		ORCID:     assoc.ORCID,
		OpenAlex:  assoc.OpenAlexID,
	}
	return deps.Pure.CreateExternalPerson(ctx, seed,
		deps.Cfg.ExternalIDURIs["orcid"], deps.Cfg.ExternalIDURIs["openalex"])
}

// buildWorkPayload assembles the full ContributionToJournal document staged
// for creation.
func buildWorkPayload(work openalex.Work, doi, journalUUID string, assocs []reconcile.Association, orgs reconcile.OrgAssociations, cfg *config.Config) pure.Document {
	var contributors []any
	for _, assoc := range assocs {
		entry := map[string]any{
			"typeDiscriminator": contributorDiscriminator(assoc),
			"name": map[string]any{
				"firstName": assoc.FirstName,
				"lastName":  assoc.LastName,
			},
			"role": map[string]any{"uri": authorRoleURI},
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
		contributors = append(contributors, entry)
	}

	var orgRefs []any
	for _, uuid := range orgs.OrganizationUUIDs {
		orgRefs = append(orgRefs, map[string]any{"systemName": "Organization", "uuid": uuid})
	}
	var extOrgRefs []any
	for _, uuid := range orgs.ExternalOrganizationUUIDs {
		extOrgRefs = append(extOrgRefs, map[string]any{"systemName": "ExternalOrganization", "uuid": uuid})
	}

	payload := pure.Document{
		"typeDiscriminator": "ContributionToJournal",
		"title":             map[string]any{"value": work.Title},
		"type":              map[string]any{"uri": articleTypeURI},
		"category":          map[string]any{"uri": peerReviewedURI},
		"peerReview":        true,
		"contributors":      contributors,
		"managingOrganization": map[string]any{
			"systemName": "Organization",
			"uuid":       orgs.ManagingOrgUUID,
		},
		"journalAssociation": map[string]any{
			"journal": map[string]any{"systemName": "Journal", "uuid": journalUUID},
		},
		"electronicVersions": []any{
			map[string]any{
				"typeDiscriminator": "DoiElectronicVersion",
				"doi":               "https://doi.org/" + doi,
			},
		},
		"visibility": map[string]any{"key": cfg.Defaults.VisibilityKey},
		"workflow":   map[string]any{"step": cfg.Defaults.WorkflowStep},
	}
	if len(orgRefs) > 0 {
		payload["organizations"] = orgRefs
	}
	if len(extOrgRefs) > 0 {
		payload["externalOrganizations"] = extOrgRefs
	}
	if keywords := work.KeywordNames(); len(keywords) > 0 {
		payload["keywordGroups"] = []any{
			map[string]any{
				"typeDiscriminator": "FreeKeywordsKeywordGroup",
				"logicalName":       "keywordContainers",
				"name":              map[string]any{"en_GB": "Keywords"},
				"keywords": []any{
					map[string]any{"locale": "en_GB", "freeKeywords": keywords},
				},
			},
		}
	}
	if work.PublicationYear != 0 {
		payload["publicationStatuses"] = []any{
			map[string]any{
				"current":           true,
				"publicationStatus": map[string]any{"uri": publishedStatusURI},
				"publicationDate":   map[string]any{"year": work.PublicationYear},
			},
		}
	}
	if work.Biblio != nil {
		payload["volume"] = work.Biblio.Volume
		payload["journalNumber"] = work.Biblio.Issue
		if work.Biblio.FirstPage != "" {
			pages := work.Biblio.FirstPage
			if work.Biblio.LastPage != "" {
				pages = fmt.Sprintf("%s-%s", work.Biblio.FirstPage, work.Biblio.LastPage)
			}
			payload["pages"] = pages
		}
	}
	return payload
}

func contributorDiscriminator(assoc reconcile.Association) string {
	if assoc.Internal {
		return "InternalContributorAssociation"
	}
	return "ExternalContributorAssociation"
}
