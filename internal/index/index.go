// Package index builds lookup structures over a batch of fetched records
// from one system. An index owns its input slice for the duration of one
// pipeline run; construction is O(n), lookups O(1).
package index

import (
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

type identKey struct {
	scheme identifier.Scheme
	value  string
}

// Persons indexes person records by UUID and canonical identifier value.
type Persons struct {
	records []record.Person
	byUUID  map[string]int
	byIdent map[identKey]int
}

// NewPersons builds a person index. On key collision the earliest record
// wins, preserving source order.
func NewPersons(records []record.Person) *Persons {
	idx := &Persons{
		records: records,
		byUUID:  make(map[string]int, len(records)),
		byIdent: make(map[identKey]int),
	}
	for i, p := range records {
		if p.UUID != "" {
			if _, ok := idx.byUUID[p.UUID]; !ok {
				idx.byUUID[p.UUID] = i
			}
		}
		for _, id := range p.Identifiers {
			k := identKey{id.Scheme, id.Value}
			if _, ok := idx.byIdent[k]; !ok {
				idx.byIdent[k] = i
			}
		}
	}
	return idx
}

// ByUUID looks up a person by Pure UUID.
func (idx *Persons) ByUUID(uuid string) (record.Person, bool) {
	i, ok := idx.byUUID[uuid]
	if !ok {
		return record.Person{}, false
	}
	return idx.records[i], true
}

// ByIdentifier looks up a person by scheme and canonical value.
func (idx *Persons) ByIdentifier(scheme identifier.Scheme, value string) (record.Person, bool) {
	i, ok := idx.byIdent[identKey{scheme, value}]
	if !ok {
		return record.Person{}, false
	}
	return idx.records[i], true
}

// Len returns the number of indexed records.
func (idx *Persons) Len() int { return len(idx.records) }

// Organizations indexes organization records by UUID and ROR.
type Organizations struct {
	records []record.Organization
	byUUID  map[string]int
	byROR   map[string]int
}

// NewOrganizations builds an organization index; first record wins per key.
func NewOrganizations(records []record.Organization) *Organizations {
	idx := &Organizations{
		records: records,
		byUUID:  make(map[string]int, len(records)),
		byROR:   make(map[string]int),
	}
	for i, o := range records {
		if o.UUID != "" {
			if _, ok := idx.byUUID[o.UUID]; !ok {
				idx.byUUID[o.UUID] = i
			}
		}
		if o.ROR != "" {
			ror := identifier.ROR(o.ROR)
			if _, ok := idx.byROR[ror]; !ok {
				idx.byROR[ror] = i
			}
		}
	}
	return idx
}

// ByUUID looks up an organization by UUID.
func (idx *Organizations) ByUUID(uuid string) (record.Organization, bool) {
	i, ok := idx.byUUID[uuid]
	if !ok {
		return record.Organization{}, false
	}
	return idx.records[i], true
}

// ByROR looks up an organization by canonical ROR value.
func (idx *Organizations) ByROR(ror string) (record.Organization, bool) {
	i, ok := idx.byROR[identifier.ROR(ror)]
	if !ok {
		return record.Organization{}, false
	}
	return idx.records[i], true
}

// All returns the indexed records in source order.
func (idx *Organizations) All() []record.Organization { return idx.records }

// Publications indexes publication records by UUID and canonical DOI. Every
// DOI-bearing field on the record participates: the primary DOI first, then
// any secondary link DOIs, in the order received from the source system.
type Publications struct {
	records []record.Publication
	byUUID  map[string]int
	byDOI   map[string]int
}

// NewPublications builds a publication index; first match wins per DOI.
func NewPublications(records []record.Publication) *Publications {
	idx := &Publications{
		records: records,
		byUUID:  make(map[string]int, len(records)),
		byDOI:   make(map[string]int, len(records)),
	}
	for i, p := range records {
		if p.UUID != "" {
			if _, ok := idx.byUUID[p.UUID]; !ok {
				idx.byUUID[p.UUID] = i
			}
		}
		if p.DOI != "" {
			k := identifier.DOI(p.DOI)
			if _, ok := idx.byDOI[k]; !ok {
				idx.byDOI[k] = i
			}
		}
		for _, doi := range p.SecondaryDOIs {
			k := identifier.DOI(doi)
			if _, ok := idx.byDOI[k]; !ok {
				idx.byDOI[k] = i
			}
		}
	}
	return idx
}

// ByUUID looks up a publication by UUID.
func (idx *Publications) ByUUID(uuid string) (record.Publication, bool) {
	i, ok := idx.byUUID[uuid]
	if !ok {
		return record.Publication{}, false
	}
	return idx.records[i], true
}

// ByDOI looks up a publication by DOI in any accepted form; the input is
// canonicalized before matching.
func (idx *Publications) ByDOI(doi string) (record.Publication, bool) {
	i, ok := idx.byDOI[identifier.DOI(doi)]
	if !ok {
		return record.Publication{}, false
	}
	return idx.records[i], true
}

// Len returns the number of indexed records.
func (idx *Publications) Len() int { return len(idx.records) }
