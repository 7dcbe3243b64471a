package reconcile

import (
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/index"
	"github.com/backtopure/btp/internal/names"
	"github.com/backtopure/btp/internal/record"
)

// MatchPublication looks one DOI up in the Pure and OpenAlex indexes. A
// usable match requires both sides; an unmatched side anywhere aborts
// enrichment for that DOI, there is no partial enrichment.
func MatchPublication(doi string, pureIdx, openAlexIdx *index.Publications) (pureRec, openAlexRec record.Publication, ok bool) {
	pureRec, pureOK := pureIdx.ByDOI(doi)
	openAlexRec, oaOK := openAlexIdx.ByDOI(doi)
	if !pureOK || !oaOK {
		return record.Publication{}, record.Publication{}, false
	}
	return pureRec, openAlexRec, true
}

// Association is the resolution of one publication contributor: either a
// reference to an existing Pure person (internal or external) or a creation
// candidate carrying the identifiers to seed a new external person.
type Association struct {
	Name       string
	FirstName  string
	LastName   string
	Internal   bool
	PersonUUID string // empty for creation candidates
	ORCID      string // canonical
	OpenAlexID string // canonical
	Resolved   bool

	// OrgUUIDs are filled in by the caller once the person's organization
	// links are known: active staff orgs for internal contributors,
	// external-organization refs otherwise.
	OrgUUIDs []string
}

// DeriveContributorAssociations resolves candidate contributors (from
// OpenAlex authorships) against a publication's existing Pure contributor
// list. Matching is by name; internal contributors resolve but are never
// enriched or recreated, external contributors resolve to their existing
// external-person UUID, and unresolved candidates become external-person
// creation candidates. One association is kept per distinct contributor
// name, last write wins, in first-seen candidate order.
func DeriveContributorAssociations(candidates, existing []record.Contributor) []Association {
	byName := make(map[string]int)
	assocs := make([]Association, 0, len(candidates))

	for _, cand := range candidates {
		if cand.Name == "" {
			continue
		}
		assoc := resolveContributor(cand, existing)
		if i, seen := byName[cand.Name]; seen {
			assocs[i] = assoc
			continue
		}
		byName[cand.Name] = len(assocs)
		assocs = append(assocs, assoc)
	}
	return assocs
}

func resolveContributor(cand record.Contributor, existing []record.Contributor) Association {
	assoc := Association{
		Name:      cand.Name,
		FirstName: cand.FirstName,
		LastName:  cand.LastName,
	}
	if assoc.FirstName == "" && assoc.LastName == "" {
		assoc.FirstName, assoc.LastName = names.Split(cand.Name)
	}
	for _, id := range cand.Identifiers {
		switch id.Scheme {
		case identifier.SchemeORCID:
			assoc.ORCID = id.Value
		case identifier.SchemeOpenAlex:
			assoc.OpenAlexID = id.Value
		}
	}

	for _, have := range existing {
		if !names.Match(cand.Name, have.Name) {
			continue
		}
		assoc.Resolved = true
		assoc.Internal = !have.External
		assoc.PersonUUID = have.PersonUUID
		assoc.OrgUUIDs = have.OrgUUIDs
		return assoc
	}
	return assoc
}

// OrgAssociations is the organization linkage derived for a publication.
type OrgAssociations struct {
	// OrganizationUUIDs are internal organization units, the union of all
	// resolved internal contributors' active staff associations.
	OrganizationUUIDs []string

	// ExternalOrganizationUUIDs are external-organization references from
	// the remaining contributors.
	ExternalOrganizationUUIDs []string

	// ManagingOrgUUID is the unit that owns the record in Pure.
	ManagingOrgUUID string
}

// DeriveOrganizationAssociations computes a publication's organization refs
// from its contributor associations. The managing organization is the first
// organization UUID of the first resolved internal contributor in
// association order, falling back to defaultManaging when no internal
// contributor carries one.
func DeriveOrganizationAssociations(assocs []Association, defaultManaging string) OrgAssociations {
	out := OrgAssociations{ManagingOrgUUID: defaultManaging}
	seenInternal := make(map[string]bool)
	seenExternal := make(map[string]bool)
	managingSet := false

	for _, assoc := range assocs {
		if assoc.Resolved && assoc.Internal {
			for _, uuid := range assoc.OrgUUIDs {
				if uuid == "" || seenInternal[uuid] {
					continue
				}
				seenInternal[uuid] = true
				out.OrganizationUUIDs = append(out.OrganizationUUIDs, uuid)
			}
			if !managingSet && len(assoc.OrgUUIDs) > 0 && assoc.OrgUUIDs[0] != "" {
				out.ManagingOrgUUID = assoc.OrgUUIDs[0]
				managingSet = true
			}
			continue
		}
		for _, uuid := range assoc.OrgUUIDs {
			if uuid == "" || seenExternal[uuid] {
				continue
			}
			seenExternal[uuid] = true
			out.ExternalOrganizationUUIDs = append(out.ExternalOrganizationUUIDs, uuid)
		}
	}
	return out
}
