package openalex

// Author is the dehydrated author object inside a work's authorships.
type Author struct {
	ID          string `json:"id"` // full OpenAlex URL, e.g. https://openalex.org/A123
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid,omitempty"` // full ORCID URL when known
}

// WorkInstitution is the dehydrated institution attached to an authorship.
type WorkInstitution struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ROR         string `json:"ror,omitempty"` // full ROR URL when known
	CountryCode string `json:"country_code,omitempty"`
}

// Authorship links one author and their institutions to a work.
type Authorship struct {
	AuthorPosition string            `json:"author_position"`
	Author         Author            `json:"author"`
	Institutions   []WorkInstitution `json:"institutions,omitempty"`
}

// Source is the dehydrated venue inside a work's primary location.
type Source struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	ISSNL       string   `json:"issn_l,omitempty"`
	ISSN        []string `json:"issn,omitempty"`
	Type        string   `json:"type,omitempty"`
}

// Location is where a work version lives, typically the journal.
type Location struct {
	Source *Source `json:"source,omitempty"`
}

// Biblio is the volume/issue/page block on a work.
type Biblio struct {
	Volume    string `json:"volume,omitempty"`
	Issue     string `json:"issue,omitempty"`
	FirstPage string `json:"first_page,omitempty"`
	LastPage  string `json:"last_page,omitempty"`
}

// Keyword is a subject keyword attached to a work.
type Keyword struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score,omitempty"`
}

// Work is an OpenAlex work, reduced to the fields btp consumes.
type Work struct {
	ID              string       `json:"id"`
	DOI             string       `json:"doi,omitempty"` // full doi.org URL
	Title           string       `json:"title,omitempty"`
	Type            string       `json:"type,omitempty"`
	Language        string       `json:"language,omitempty"`
	PublicationYear int          `json:"publication_year,omitempty"`
	PrimaryLocation *Location    `json:"primary_location,omitempty"`
	Biblio          *Biblio      `json:"biblio,omitempty"`
	Authorships     []Authorship `json:"authorships,omitempty"`
	Keywords        []Keyword    `json:"keywords,omitempty"`
}

// KeywordNames returns the display names of the work's keywords.
func (w Work) KeywordNames() []string {
	var names []string
	for _, k := range w.Keywords {
		if k.DisplayName != "" {
			names = append(names, k.DisplayName)
		}
	}
	return names
}

// ISSNs returns the work's journal ISSNs, the linking ISSN first.
func (w Work) ISSNs() []string {
	if w.PrimaryLocation == nil || w.PrimaryLocation.Source == nil {
		return nil
	}
	src := w.PrimaryLocation.Source
	var issns []string
	if src.ISSNL != "" {
		issns = append(issns, src.ISSNL)
	}
	for _, issn := range src.ISSN {
		if issn != src.ISSNL {
			issns = append(issns, issn)
		}
	}
	return issns
}

// InstitutionIDs is the external-identifier block on an institution.
type InstitutionIDs struct {
	OpenAlex  string `json:"openalex,omitempty"`
	ROR       string `json:"ror,omitempty"`
	Wikipedia string `json:"wikipedia,omitempty"`
	Wikidata  string `json:"wikidata,omitempty"`
}

// InstitutionGeo is the location block on an institution.
type InstitutionGeo struct {
	City        string  `json:"city,omitempty"`
	Region      string  `json:"region,omitempty"`
	CountryCode string  `json:"country_code,omitempty"`
	Country     string  `json:"country,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// Institution is a full OpenAlex institution record.
type Institution struct {
	ID                      string          `json:"id"`
	ROR                     string          `json:"ror,omitempty"`
	DisplayName             string          `json:"display_name"`
	DisplayNameAlternatives []string        `json:"display_name_alternatives,omitempty"`
	CountryCode             string          `json:"country_code,omitempty"`
	IDs                     InstitutionIDs  `json:"ids"`
	Geo                     *InstitutionGeo `json:"geo,omitempty"`
}

// listMeta is the paging metadata on list responses.
type listMeta struct {
	Count      int    `json:"count"`
	NextCursor string `json:"next_cursor"`
}

// worksResponse is the envelope of the works list endpoint.
type worksResponse struct {
	Meta    listMeta `json:"meta"`
	Results []Work   `json:"results"`
}

// institutionsResponse is the envelope of the institutions list endpoint.
type institutionsResponse struct {
	Meta    listMeta      `json:"meta"`
	Results []Institution `json:"results"`
}
