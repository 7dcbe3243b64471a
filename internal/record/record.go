// Package record defines the typed entities exchanged between the system
// clients and the reconcilers. Records are built fresh per run from fetch
// responses and never mutated in place; enrichment produces new identifier
// sets.
package record

import "github.com/backtopure/btp/internal/identifier"

// Origin names the system a record was fetched from.
type Origin string

const (
	OriginPureInternal Origin = "pure-internal"
	OriginPureExternal Origin = "pure-external"
	OriginRicgraph     Origin = "ricgraph"
	OriginOpenAlex     Origin = "openalex"
	OriginDataCite     Origin = "datacite"
)

// Identifier is a canonicalized identifier. Two identifiers are equal iff
// scheme and canonical value match.
type Identifier struct {
	Scheme    identifier.Scheme `json:"scheme"`
	Value     string            `json:"value"`
	SourceURI string            `json:"source_uri,omitempty"` // Pure classification URI when known
}

// Equal reports scheme+value equality; the source URI does not participate.
func (id Identifier) Equal(other Identifier) bool {
	return id.Scheme == other.Scheme && id.Value == other.Value
}

// OrganizationRef is a reference to an organization held by a person record,
// typically a staff association with an active period.
type OrganizationRef struct {
	UUID      string `json:"uuid"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // empty = open-ended
}

// Person is a person as known to one system.
type Person struct {
	Origin       Origin            `json:"origin"`
	UUID         string            `json:"uuid,omitempty"`
	FullName     string            `json:"full_name"`
	FirstName    string            `json:"first_name,omitempty"`
	LastName     string            `json:"last_name,omitempty"`
	ORCID        string            `json:"orcid,omitempty"` // Pure's dedicated orcid field
	Identifiers  []Identifier      `json:"identifiers,omitempty"`
	Affiliations []OrganizationRef `json:"affiliations,omitempty"`
}

// Identifier returns the person's identifier for a scheme, if any.
func (p Person) Identifier(scheme identifier.Scheme) (Identifier, bool) {
	for _, id := range p.Identifiers {
		if id.Scheme == scheme {
			return id, true
		}
	}
	return Identifier{}, false
}

// Geo is the location block OpenAlex attaches to institutions.
type Geo struct {
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// Organization is an organization as known to one system.
type Organization struct {
	Origin           Origin       `json:"origin"`
	UUID             string       `json:"uuid,omitempty"`
	DisplayName      string       `json:"display_name"`
	NameAlternatives []string     `json:"name_alternatives,omitempty"`
	OpenAlexID       string       `json:"openalex_id,omitempty"`
	ROR              string       `json:"ror,omitempty"` // canonical, prefix stripped
	Identifiers      []Identifier `json:"identifiers,omitempty"`
	Geo              *Geo         `json:"geo,omitempty"`
}

// Contributor is one author entry on a publication. Internal contributors
// reference a Pure person; external contributors reference (or will create)
// a Pure external person.
type Contributor struct {
	Name        string       `json:"name"`
	FirstName   string       `json:"first_name,omitempty"`
	LastName    string       `json:"last_name,omitempty"`
	External    bool         `json:"external,omitempty"`
	PersonUUID  string       `json:"person_uuid,omitempty"`
	Identifiers []Identifier `json:"identifiers,omitempty"`
	OrgUUIDs    []string     `json:"org_uuids,omitempty"` // external org refs for external contributors
}

// Publication is a research output as known to one system. The canonical DOI
// is the only cross-system join key.
type Publication struct {
	Origin           Origin        `json:"origin"`
	UUID             string        `json:"uuid,omitempty"`
	DOI              string        `json:"doi"`                 // canonical: lower-cased, no scheme prefix
	SecondaryDOIs    []string      `json:"secondary_dois,omitempty"` // canonical link DOIs, source order
	Title            string        `json:"title,omitempty"`
	Contributors     []Contributor `json:"contributors,omitempty"`
	ExternalOrgUUIDs []string      `json:"external_org_uuids,omitempty"`
}

// SameDOI reports whether two publications denote the same work.
func (p Publication) SameDOI(other Publication) bool {
	return p.DOI != "" && identifier.DOI(p.DOI) == identifier.DOI(other.DOI)
}

// MatchBasis says which signal produced a match candidate.
type MatchBasis string

const (
	MatchExactID       MatchBasis = "exact-id"
	MatchNameHeuristic MatchBasis = "name-heuristic"
	MatchDOI           MatchBasis = "doi"
)

// Confidence is the coarse reliability grade attached to a match.
type Confidence string

const (
	ConfidenceHigh Confidence = "high"
	ConfidenceLow  Confidence = "low"
)
