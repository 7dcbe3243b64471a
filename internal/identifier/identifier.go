// Package identifier canonicalizes the identifier schemes used across
// Pure, Ricgraph and OpenAlex (ORCID, OpenAlex IDs, ROR, DOI).
package identifier

import (
	"errors"
	"regexp"
	"strings"
)

// Scheme names the identifier namespaces the reconcilers understand.
type Scheme string

const (
	SchemeORCID    Scheme = "ORCID"
	SchemeOpenAlex Scheme = "OPENALEX"
	SchemeROR      Scheme = "ROR"
	SchemeOther    Scheme = "OTHER"
)

// ErrInvalidDOI is returned by ValidateDOI for strings that are present but
// do not match the DOI syntax. Normalization paths never return it.
var ErrInvalidDOI = errors.New("invalid DOI")

// doiRe matches the registrant/suffix form of a DOI after prefix stripping.
var doiRe = regexp.MustCompile(`^10\.\d{4,9}/[-._;()/:A-Za-z0-9]+$`)

// ORCID strips the https://orcid.org/ prefix if present. Empty input yields
// an empty string, not an error.
func ORCID(raw string) string {
	return strings.TrimPrefix(raw, "https://orcid.org/")
}

// OpenAlex strips the https://openalex.org/ prefix if present.
func OpenAlex(raw string) string {
	return strings.TrimPrefix(raw, "https://openalex.org/")
}

// ROR strips the https://ror.org/ prefix if present.
func ROR(raw string) string {
	return strings.TrimPrefix(raw, "https://ror.org/")
}

// DOI returns the canonical matching form of a DOI: scheme prefix stripped
// and lower-cased. Display copies should retain the original casing; only
// comparisons go through this form.
func DOI(raw string) string {
	doi := strings.TrimPrefix(raw, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	return strings.ToLower(doi)
}

// ValidateDOI reports whether a DOI is syntactically valid after prefix
// stripping. Outbound creation paths require this; fetch paths tolerate any
// string.
func ValidateDOI(raw string) error {
	doi := strings.TrimPrefix(raw, "https://doi.org/")
	doi = strings.TrimPrefix(doi, "doi.org/")
	if !doiRe.MatchString(doi) {
		return ErrInvalidDOI
	}
	return nil
}

// Normalize canonicalizes a value for the given scheme. Unknown schemes pass
// through unchanged.
func Normalize(scheme Scheme, raw string) string {
	switch scheme {
	case SchemeORCID:
		return ORCID(raw)
	case SchemeOpenAlex:
		return OpenAlex(raw)
	case SchemeROR:
		return ROR(raw)
	default:
		return raw
	}
}
