package datacite

// NameIdentifier is an identifier attached to a creator, e.g. an ORCID.
type NameIdentifier struct {
	NameIdentifier       string `json:"nameIdentifier"`
	NameIdentifierScheme string `json:"nameIdentifierScheme"`
	SchemeURI            string `json:"schemeUri,omitempty"`
}

// Creator is one creator entry on a DOI record. Personal names usually come
// as "Family, Given" in the name field with the parts split out alongside.
type Creator struct {
	Name            string           `json:"name"`
	NameType        string           `json:"nameType,omitempty"`
	GivenName       string           `json:"givenName,omitempty"`
	FamilyName      string           `json:"familyName,omitempty"`
	NameIdentifiers []NameIdentifier `json:"nameIdentifiers,omitempty"`
	Affiliation     []string         `json:"affiliation,omitempty"`
}

// ORCID returns the creator's ORCID name identifier, or empty.
func (c Creator) ORCID() string {
	for _, id := range c.NameIdentifiers {
		if id.NameIdentifierScheme == "ORCID" {
			return id.NameIdentifier
		}
	}
	return ""
}

// Title is one title entry on a DOI record.
type Title struct {
	Title string `json:"title"`
	Lang  string `json:"lang,omitempty"`
}

// Description is one description entry on a DOI record.
type Description struct {
	Description     string `json:"description"`
	DescriptionType string `json:"descriptionType,omitempty"`
}

// Attributes is the metadata block of a DOI record, reduced to the fields
// btp consumes.
type Attributes struct {
	DOI             string        `json:"doi"`
	Titles          []Title       `json:"titles,omitempty"`
	Creators        []Creator     `json:"creators,omitempty"`
	Publisher       string        `json:"publisher,omitempty"`
	PublicationYear int           `json:"publicationYear,omitempty"`
	Descriptions    []Description `json:"descriptions,omitempty"`
}

// Title returns the first title, or empty.
func (a Attributes) Title() string {
	if len(a.Titles) == 0 {
		return ""
	}
	return a.Titles[0].Title
}

// Abstract returns the first abstract-typed description, falling back to the
// first description of any type.
func (a Attributes) Abstract() string {
	for _, d := range a.Descriptions {
		if d.DescriptionType == "Abstract" {
			return d.Description
		}
	}
	if len(a.Descriptions) > 0 {
		return a.Descriptions[0].Description
	}
	return ""
}

// Record is one DOI record.
type Record struct {
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
}

// doiResponse is the envelope of the single-DOI endpoint.
type doiResponse struct {
	Data Record `json:"data"`
}
