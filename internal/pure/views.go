package pure

import (
	"strings"
	"time"

	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

// openEndDate stands in for associations without an end date.
const openEndDate = "9999-12-31"

// KnownAsURI is the classification of "known as" name variants on persons.
const KnownAsURI = "/dk/atira/pure/person/names/knownas"

// StaffAssociations returns the person's staff organization associations.
// When refDate is non-zero only associations active on that date are kept.
func (d Document) StaffAssociations(refDate time.Time) []record.OrganizationRef {
	assocs, _ := d["staffOrganizationAssociations"].([]any)
	var refs []record.OrganizationRef
	for _, raw := range assocs {
		assoc, _ := raw.(map[string]any)
		if assoc == nil {
			continue
		}
		period, _ := assoc["period"].(map[string]any)
		start, _ := period["startDate"].(string)
		end, _ := period["endDate"].(string)
		if end == "" {
			end = openEndDate
		}
		if !refDate.IsZero() && !activeOn(start, end, refDate) {
			continue
		}
		org, _ := assoc["organization"].(map[string]any)
		uuid, _ := org["uuid"].(string)
		refs = append(refs, record.OrganizationRef{UUID: uuid, StartDate: start, EndDate: end})
	}
	return refs
}

// activeOn reports whether [start, end] covers the reference date. Records
// without a parsable start date are treated as inactive, as in the source
// system exports.
func activeOn(start, end string, ref time.Time) bool {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return false
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return false
	}
	return !ref.Before(startDate) && !ref.After(endDate)
}

// KnownAsNames returns the "known as" name variants carried by a person
// record, used to disambiguate multi-hit name searches.
func (d Document) KnownAsNames() []Name {
	entries, _ := d["names"].([]any)
	var out []Name
	for _, raw := range entries {
		entry, _ := raw.(map[string]any)
		if entry == nil {
			continue
		}
		t, _ := entry["type"].(map[string]any)
		uri, _ := t["uri"].(string)
		if uri != KnownAsURI {
			continue
		}
		n, _ := entry["name"].(map[string]any)
		first, _ := n["firstName"].(string)
		last, _ := n["lastName"].(string)
		out = append(out, Name{FirstName: first, LastName: last})
	}
	return out
}

// PublicationView extracts the DOI join keys, external contributors and
// external organization references from a research-output document.
func PublicationView(d Document) record.Publication {
	pub := record.Publication{
		Origin: record.OriginPureInternal,
		UUID:   d.UUID(),
	}

	if versions, ok := d["electronicVersions"].([]any); ok {
		for _, raw := range versions {
			version, _ := raw.(map[string]any)
			doi, _ := version["doi"].(string)
			if doi == "" {
				continue
			}
			if pub.DOI == "" {
				pub.DOI = identifier.DOI(doi)
			} else {
				pub.SecondaryDOIs = append(pub.SecondaryDOIs, identifier.DOI(doi))
			}
		}
	}
	if links, ok := d["additionalLinks"].([]any); ok {
		for _, raw := range links {
			link, _ := raw.(map[string]any)
			u, _ := link["url"].(string)
			if u != "" {
				pub.SecondaryDOIs = append(pub.SecondaryDOIs, identifier.DOI(u))
			}
		}
	}

	seenOrgs := make(map[string]bool)
	if contribs, ok := d["contributors"].([]any); ok {
		for _, raw := range contribs {
			contrib, _ := raw.(map[string]any)
			if contrib == nil {
				continue
			}

			n, _ := contrib["name"].(map[string]any)
			first, _ := n["firstName"].(string)
			last, _ := n["lastName"].(string)
			full := first
			if last != "" {
				if full != "" {
					full += " "
				}
				full += last
			}

			c := record.Contributor{Name: full, FirstName: first, LastName: last}
			if ext, ok := contrib["externalPerson"].(map[string]any); ok {
				c.External = true
				c.PersonUUID, _ = ext["uuid"].(string)
			} else if person, ok := contrib["person"].(map[string]any); ok {
				c.PersonUUID, _ = person["uuid"].(string)
			}

			if orgs, ok := contrib["externalOrganizations"].([]any); ok {
				for _, rawOrg := range orgs {
					org, _ := rawOrg.(map[string]any)
					uuid, _ := org["uuid"].(string)
					if uuid != "" {
						c.OrgUUIDs = append(c.OrgUUIDs, uuid)
						if !seenOrgs[uuid] {
							seenOrgs[uuid] = true
							pub.ExternalOrgUUIDs = append(pub.ExternalOrgUUIDs, uuid)
						}
					}
				}
			}
			pub.Contributors = append(pub.Contributors, c)
		}
	}

	if orgs, ok := d["externalOrganizations"].([]any); ok {
		for _, rawOrg := range orgs {
			org, _ := rawOrg.(map[string]any)
			uuid, _ := org["uuid"].(string)
			if uuid != "" && !seenOrgs[uuid] {
				seenOrgs[uuid] = true
				pub.ExternalOrgUUIDs = append(pub.ExternalOrgUUIDs, uuid)
			}
		}
	}

	return pub
}

// PersonView extracts the reconciliation-relevant fields from a person or
// external-person document: name, the dedicated orcid field and the typed
// identifier entries.
func PersonView(d Document, origin record.Origin) record.Person {
	name := d.Name()
	full := name.FirstName
	if name.LastName != "" {
		if full != "" {
			full += " "
		}
		full += name.LastName
	}
	p := record.Person{
		Origin:    origin,
		UUID:      d.UUID(),
		FullName:  full,
		FirstName: name.FirstName,
		LastName:  name.LastName,
		ORCID:     d.String("orcid"),
	}
	for _, id := range d.Identifiers() {
		value := id.IDValue()
		if value == "" {
			continue
		}
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme:    identifier.SchemeOther,
			Value:     value,
			SourceURI: id.TypeURI(),
		})
	}
	return p
}

// OrganizationView extracts name and identifiers from an external
// organization document. Entries typed with rorURI, or carrying a ror.org
// value, surface as the organization's canonical ROR.
func OrganizationView(d Document, rorURI string) record.Organization {
	org := record.Organization{
		Origin: record.OriginPureExternal,
		UUID:   d.UUID(),
	}
	if name, ok := d["name"].(map[string]any); ok {
		org.DisplayName, _ = name["en_GB"].(string)
	}
	for _, id := range d.Identifiers() {
		value := id.IDValue()
		if value == "" {
			continue
		}
		scheme := identifier.SchemeOther
		if (rorURI != "" && id.TypeURI() == rorURI) || strings.Contains(value, "ror.org") {
			scheme = identifier.SchemeROR
			if org.ROR == "" {
				org.ROR = identifier.ROR(value)
			}
		}
		org.Identifiers = append(org.Identifiers, record.Identifier{
			Scheme:    scheme,
			Value:     identifierValue(scheme, value),
			SourceURI: id.TypeURI(),
		})
	}
	return org
}

// identifierValue canonicalizes values for schemes that have a normalizer
// and passes everything else through untouched.
func identifierValue(scheme identifier.Scheme, value string) string {
	if scheme == identifier.SchemeROR {
		return identifier.ROR(value)
	}
	return value
}
