package enrich

import (
	"context"
	"log"

	"github.com/backtopure/btp/internal/batch"
	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/index"
	"github.com/backtopure/btp/internal/openalex"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/reconcile"
	"github.com/backtopure/btp/internal/record"
)

// workToPublication converts an OpenAlex work into a publication record with
// canonical identifiers on the contributors.
func workToPublication(w openalex.Work) record.Publication {
	pub := record.Publication{
		Origin: record.OriginOpenAlex,
		DOI:    w.CanonicalDOI(),
		Title:  w.Title,
	}
	for _, as := range w.Authorships {
		c := record.Contributor{Name: as.Author.DisplayName}
		if as.Author.ORCID != "" {
			c.Identifiers = append(c.Identifiers, record.Identifier{
				Scheme: identifier.SchemeORCID,
				Value:  identifier.ORCID(as.Author.ORCID),
			})
		}
		if as.Author.ID != "" {
			c.Identifiers = append(c.Identifiers, record.Identifier{
				Scheme: identifier.SchemeOpenAlex,
				Value:  identifier.OpenAlex(as.Author.ID),
			})
		}
		for _, inst := range as.Institutions {
			if inst.ROR != "" {
				c.OrgUUIDs = append(c.OrgUUIDs, identifier.ROR(inst.ROR))
			}
		}
		pub.Contributors = append(pub.Contributors, c)
	}
	return pub
}

// externalPersonCandidate turns a resolved association into the candidate
// person fed to the reconciler, with identifiers typed for external-person
// records.
func externalPersonCandidate(assoc reconcile.Association, cfg *config.Config) record.Person {
	p := record.Person{
		Origin:    record.OriginOpenAlex,
		UUID:      assoc.PersonUUID,
		FullName:  assoc.Name,
		FirstName: assoc.FirstName,
		LastName:  assoc.LastName,
	}
	if assoc.ORCID != "" {
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme:    identifier.SchemeORCID,
			Value:     assoc.ORCID,
			SourceURI: cfg.ExternalIDURIs["orcid"],
		})
	}
	if assoc.OpenAlexID != "" {
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme:    identifier.SchemeOpenAlex,
			Value:     assoc.OpenAlexID,
			SourceURI: cfg.ExternalIDURIs["openalex"],
		})
	}
	return p
}

// ExternalPersons enriches Pure external-person records with ORCID and
// OpenAlex identifiers taken from the authorships of works both systems
// know. Publications match by DOI only and require both sides; contributors
// resolve by name against the work's existing external contributors.
func ExternalPersons(ctx context.Context, deps Deps) (Summary, error) {
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
		ReviewFile: deps.Cfg.ReviewPath(config.CategoryExternalPersons),
	}
	candidatesByUUID := make(map[string]record.Person)
	var uuidOrder []string

	for _, faculty := range faculties {
		dois, err := facultyDOIs(ctx, deps, faculty.Key, bothLabels, nil)
		if err != nil {
			return summary, err
		}
		if len(dois) == 0 {
			continue
		}

		pureDocs, err := deps.Pure.ResearchOutputsByDOIs(ctx, dois)
		if err != nil {
			return summary, err
		}
		purePubs := make([]record.Publication, 0, len(pureDocs))
		for _, doc := range pureDocs {
			purePubs = append(purePubs, pure.PublicationView(doc))
		}
		pureIdx := index.NewPublications(purePubs)

		works, err := deps.OpenAlex.WorksByDOIs(ctx, dois)
		if err != nil {
			return summary, err
		}
		oaPubs := make([]record.Publication, 0, len(works))
		for _, w := range works {
			oaPubs = append(oaPubs, workToPublication(w))
		}
		oaIdx := index.NewPublications(oaPubs)

		for _, doi := range dois {
			purePub, oaPub, ok := reconcile.MatchPublication(doi, pureIdx, oaIdx)
			if !ok {
				summary.Unresolved++
				continue
			}
			assocs := reconcile.DeriveContributorAssociations(oaPub.Contributors, purePub.Contributors)
			for _, assoc := range assocs {
				if !assoc.Resolved || assoc.Internal || assoc.PersonUUID == "" {
					continue
				}
				if assoc.ORCID == "" && assoc.OpenAlexID == "" {
					continue
				}
				if _, seen := candidatesByUUID[assoc.PersonUUID]; !seen {
					uuidOrder = append(uuidOrder, assoc.PersonUUID)
				}
				candidatesByUUID[assoc.PersonUUID] = externalPersonCandidate(assoc, deps.Cfg)
			}
		}
	}

	sheet := batch.Sheet{
		KeyColumn: "external_person_uuid",
		Columns:   []string{"person_name", "id_type", "new_value", "existing_value"},
	}
	var payloads []batch.Payload

	if len(uuidOrder) > 0 {
		docs, err := deps.Pure.ExternalPersonsByUUIDs(ctx, uuidOrder)
		if err != nil {
			return summary, err
		}
		docByUUID := make(map[string]pure.Document, len(docs))
		for _, doc := range docs {
			docByUUID[doc.UUID()] = doc
		}

		terms := idTermByURI(deps.Cfg.ExternalIDURIs)
		for _, uuid := range uuidOrder {
			doc, ok := docByUUID[uuid]
			if !ok {
				log.Printf("external persons: %s referenced by a work but not fetchable, skipping", uuid)
				summary.Unresolved++
				continue
			}
			candidate := candidatesByUUID[uuid]
			existing := pure.PersonView(doc, record.OriginPureExternal)
			delta := reconcile.ReconcilePerson(candidate, existing)
			if delta.Empty() {
				summary.Consistent++
				continue
			}

			stagePersonDelta(&sheet, doc, existing.FullName, delta, terms)
			summary.Conflicts += len(delta.Conflicts)
			if len(delta.NewIdentifiers) > 0 || delta.ORCIDChange != "" {
				applyPersonDelta(doc, delta, terms)
				payloads = append(payloads, batch.Payload{Key: uuid, Body: doc})
				summary.Updatable++
			} else {
				summary.Consistent++
			}
		}
	}

	err = batch.Stage(
		deps.Cfg.ReviewPath(config.CategoryExternalPersons),
		deps.Cfg.PayloadPath(config.CategoryExternalPersons),
		sheet, payloads,
	)
	return summary, err
}
