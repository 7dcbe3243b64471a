package openalex

import (
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

// CanonicalDOI returns the work's DOI in canonical form, lower-cased with
// the doi.org prefix stripped.
func (w Work) CanonicalDOI() string {
	return identifier.DOI(w.DOI)
}

// ToPerson converts an authorship's author to a person record with canonical
// identifiers.
func (a Author) ToPerson() record.Person {
	p := record.Person{
		Origin:   record.OriginOpenAlex,
		FullName: a.DisplayName,
	}
	if a.ID != "" {
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme: identifier.SchemeOpenAlex,
			Value:  identifier.OpenAlex(a.ID),
		})
	}
	if a.ORCID != "" {
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme: identifier.SchemeORCID,
			Value:  identifier.ORCID(a.ORCID),
		})
	}
	return p
}

// ToOrganization converts an institution to an organization record with
// canonical identifiers.
func (i Institution) ToOrganization() record.Organization {
	org := record.Organization{
		Origin:           record.OriginOpenAlex,
		DisplayName:      i.DisplayName,
		NameAlternatives: i.DisplayNameAlternatives,
		OpenAlexID:       identifier.OpenAlex(i.ID),
	}
	ror := i.ROR
	if ror == "" {
		ror = i.IDs.ROR
	}
	if ror != "" {
		org.ROR = identifier.ROR(ror)
		org.Identifiers = append(org.Identifiers, record.Identifier{
			Scheme: identifier.SchemeROR,
			Value:  org.ROR,
		})
	}
	if org.OpenAlexID != "" {
		org.Identifiers = append(org.Identifiers, record.Identifier{
			Scheme: identifier.SchemeOpenAlex,
			Value:  org.OpenAlexID,
		})
	}
	if i.Geo != nil {
		org.Geo = &record.Geo{
			City:        i.Geo.City,
			Region:      i.Geo.Region,
			CountryCode: i.Geo.CountryCode,
			Country:     i.Geo.Country,
			Latitude:    i.Geo.Latitude,
			Longitude:   i.Geo.Longitude,
		}
	}
	return org
}
