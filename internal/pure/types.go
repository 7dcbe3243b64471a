package pure

import (
	"encoding/json"
)

// LocaleText is Pure's localized string block. Only the en_GB locale is used.
type LocaleText struct {
	EnGB string `json:"en_GB,omitempty"`
}

// TermType is a classification reference (URI plus optional localized term).
type TermType struct {
	URI  string      `json:"uri"`
	Term *LocaleText `json:"term,omitempty"`
}

// ClassifiedID is Pure's generic identifier entry. Older records carry the
// value under "value" with an "idSource" instead of a typed URI.
type ClassifiedID struct {
	TypeDiscriminator string    `json:"typeDiscriminator,omitempty"`
	ID                string    `json:"id,omitempty"`
	Value             string    `json:"value,omitempty"`
	IDSource          string    `json:"idSource,omitempty"`
	Type              *TermType `json:"type,omitempty"`
}

// IDValue returns the identifier value regardless of which field carries it.
func (c ClassifiedID) IDValue() string {
	if c.ID != "" {
		return c.ID
	}
	return c.Value
}

// TypeURI returns the classification URI, or empty for untyped entries.
func (c ClassifiedID) TypeURI() string {
	if c.Type == nil {
		return ""
	}
	return c.Type.URI
}

// TermEnGB returns the localized term name, or empty.
func (c ClassifiedID) TermEnGB() string {
	if c.Type == nil || c.Type.Term == nil {
		return ""
	}
	return c.Type.Term.EnGB
}

// NewClassifiedID builds the ClassifiedId entry used when staging a new
// identifier on a Pure record.
func NewClassifiedID(id, typeURI, term string) ClassifiedID {
	c := ClassifiedID{
		TypeDiscriminator: "ClassifiedId",
		ID:                id,
		Type:              &TermType{URI: typeURI},
	}
	if term != "" {
		c.Type.Term = &LocaleText{EnGB: term}
	}
	return c
}

// Name is Pure's first/last name block.
type Name struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Document is a full Pure record as fetched, kept as the raw JSON object so
// that a later PUT round-trips every field the API returned, including ones
// this tool does not model. All mutating helpers operate on the map.
type Document map[string]any

// UUID returns the record's uuid field.
func (d Document) UUID() string {
	s, _ := d["uuid"].(string)
	return s
}

// String returns a string field from the document root.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Name returns the record's name block.
func (d Document) Name() Name {
	m, _ := d["name"].(map[string]any)
	if m == nil {
		return Name{}
	}
	first, _ := m["firstName"].(string)
	last, _ := m["lastName"].(string)
	return Name{FirstName: first, LastName: last}
}

// Identifiers returns the parsed identifiers array.
func (d Document) Identifiers() []ClassifiedID {
	raw, ok := d["identifiers"]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var ids []ClassifiedID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}

// AppendIdentifier adds an entry to the identifiers array, creating the
// array when absent.
func (d Document) AppendIdentifier(id ClassifiedID) {
	entry := map[string]any{
		"typeDiscriminator": id.TypeDiscriminator,
		"id":                id.ID,
	}
	if id.Type != nil {
		t := map[string]any{"uri": id.Type.URI}
		if id.Type.Term != nil {
			t["term"] = map[string]any{"en_GB": id.Type.Term.EnGB}
		}
		entry["type"] = t
	}
	if arr, ok := d["identifiers"].([]any); ok {
		d["identifiers"] = append(arr, entry)
		return
	}
	d["identifiers"] = []any{entry}
}

// HasORCID reports whether the dedicated orcid field is present.
func (d Document) HasORCID() bool {
	_, ok := d["orcid"]
	return ok
}

// SetORCID sets the dedicated orcid field.
func (d Document) SetORCID(orcid string) {
	d["orcid"] = orcid
}

// searchRequest is the POST body for Pure's */search endpoints.
type searchRequest struct {
	SearchString string   `json:"searchString,omitempty"`
	UUIDs        []string `json:"uuids,omitempty"`
	Size         int      `json:"size,omitempty"`
	Offset       int      `json:"offset"`
}

// searchResponse is the envelope returned by */search endpoints.
type searchResponse struct {
	Count int        `json:"count"`
	Items []Document `json:"items"`
}

// ExternalPersonSeed is the minimal payload for creating an external person.
type ExternalPersonSeed struct {
	FirstName string
	LastName  string
	ORCID     string // canonical, may be empty
	OpenAlex  string // canonical, may be empty
}
