// Package reconcile implements the cross-system matching logic: deciding
// that records from Pure, Ricgraph and OpenAlex denote the same person,
// organization or publication, and computing the delta to enrich Pure.
package reconcile

import (
	"context"
	"errors"

	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/names"
	"github.com/backtopure/btp/internal/pure"
	"github.com/backtopure/btp/internal/record"
)

// Lookup outcomes of the person matching cascade.
var (
	// ErrNoMatch indicates no candidate record was found. Callers treat
	// this as "needs external-person creation" or "no enrichment possible".
	ErrNoMatch = errors.New("no matching record found")

	// ErrAmbiguous indicates a search returned more than one candidate and
	// no disambiguation signal settled it. The entity is skipped.
	ErrAmbiguous = errors.New("ambiguous match, multiple candidates")
)

// Conflict is an identifier scheme where the candidate and the existing
// record carry different canonical values. Conflicts are surfaced to the
// reviewer, never auto-resolved.
type Conflict struct {
	Scheme    identifier.Scheme `json:"scheme"`
	SourceURI string            `json:"source_uri,omitempty"`
	Existing  string            `json:"existing"`
	Candidate string            `json:"candidate"`
}

// PersonDelta is the enrichment computed for one person: identifiers to add
// and, when Pure's dedicated orcid field is unset, the value to set there.
// The existing identifier set is never shrunk.
type PersonDelta struct {
	NewIdentifiers []record.Identifier `json:"new_identifiers,omitempty"`
	ORCIDChange    string              `json:"orcid_change,omitempty"`
	Conflicts      []Conflict          `json:"conflicts,omitempty"`
}

// Empty reports whether the delta stages nothing at all.
func (d PersonDelta) Empty() bool {
	return len(d.NewIdentifiers) == 0 && d.ORCIDChange == "" && len(d.Conflicts) == 0
}

// identKey distinguishes identifier kinds. Typed Pure entries compare by
// classification URI; scheme-only entries compare by scheme.
func identKey(id record.Identifier) string {
	if id.SourceURI != "" {
		return id.SourceURI
	}
	return string(id.Scheme)
}

// ReconcilePerson computes the identifier delta between a candidate person
// and the person as Pure currently has them. Per candidate identifier kind:
// absent from Pure stages an addition, present with a different canonical
// value stages a conflict, equal values stage nothing. For internal persons
// an ORCID on the candidate additionally stages the dedicated orcid field
// when Pure has none.
func ReconcilePerson(candidate, existing record.Person) PersonDelta {
	var delta PersonDelta

	existingByKey := make(map[string]record.Identifier, len(existing.Identifiers))
	for _, id := range existing.Identifiers {
		existingByKey[identKey(id)] = id
	}

	for _, cand := range candidate.Identifiers {
		if cand.Value == "" {
			continue
		}
		have, ok := existingByKey[identKey(cand)]
		if !ok {
			delta.NewIdentifiers = append(delta.NewIdentifiers, cand)
			continue
		}
		if have.Value != cand.Value {
			delta.Conflicts = append(delta.Conflicts, Conflict{
				Scheme:    cand.Scheme,
				SourceURI: cand.SourceURI,
				Existing:  have.Value,
				Candidate: cand.Value,
			})
		}
	}

	// Only internal persons carry Pure's dedicated orcid field.
	if orcid, ok := candidate.Identifier(identifier.SchemeORCID); ok && orcid.Value != "" &&
		existing.Origin == record.OriginPureInternal {
		switch {
		case existing.ORCID == "":
			delta.ORCIDChange = orcid.Value
		case existing.ORCID != orcid.Value:
			delta.Conflicts = append(delta.Conflicts, Conflict{
				Scheme:    identifier.SchemeORCID,
				Existing:  existing.ORCID,
				Candidate: orcid.Value,
			})
		}
	}

	return delta
}

// PersonSearcher is the slice of the Pure client the matching cascade needs.
type PersonSearcher interface {
	GetPerson(ctx context.Context, uuid string) (pure.Document, error)
	SearchPersons(ctx context.Context, query string) ([]pure.Document, error)
}

// FindPerson locates the Pure record for a candidate person. The cascade is
// UUID lookup, then a search per identifier value accepted only on exactly
// one hit, then a full-name search with known-as disambiguation on multiple
// hits. Failure modes are ErrNoMatch and ErrAmbiguous.
func FindPerson(ctx context.Context, searcher PersonSearcher, candidate record.Person) (pure.Document, record.MatchBasis, error) {
	if candidate.UUID != "" {
		doc, err := searcher.GetPerson(ctx, candidate.UUID)
		if err == nil {
			return doc, record.MatchExactID, nil
		}
		if !pure.IsNotFound(err) {
			return nil, "", err
		}
	}

	for _, id := range candidate.Identifiers {
		if id.Value == "" {
			continue
		}
		hits, err := searcher.SearchPersons(ctx, id.Value)
		if err != nil {
			return nil, "", err
		}
		if len(hits) == 1 {
			return hits[0], record.MatchExactID, nil
		}
	}

	if candidate.FullName == "" {
		return nil, "", ErrNoMatch
	}
	hits, err := searcher.SearchPersons(ctx, candidate.FullName)
	if err != nil {
		return nil, "", err
	}
	switch len(hits) {
	case 0:
		return nil, "", ErrNoMatch
	case 1:
		return hits[0], record.MatchNameHeuristic, nil
	}

	if doc, ok := disambiguateByKnownAs(hits, candidate); ok {
		return doc, record.MatchNameHeuristic, nil
	}
	return nil, "", ErrAmbiguous
}

// disambiguateByKnownAs settles a multi-hit name search when exactly one hit
// carries a known-as name variant whose first and last name both equal the
// candidate's.
func disambiguateByKnownAs(hits []pure.Document, candidate record.Person) (pure.Document, bool) {
	first, last := candidate.FirstName, candidate.LastName
	if first == "" || last == "" {
		first, last = names.Split(candidate.FullName)
	}
	if last == "" {
		return nil, false
	}

	var match pure.Document
	for _, doc := range hits {
		for _, knownAs := range doc.KnownAsNames() {
			if knownAs.FirstName == first && knownAs.LastName == last {
				if match != nil {
					return nil, false
				}
				match = doc
				break
			}
		}
	}
	return match, match != nil
}
