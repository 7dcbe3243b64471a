package reconcile

import (
	"sort"

	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
)

// OrgMatch pairs a Pure external organization with the external institution
// record that enriches it.
type OrgMatch struct {
	Pure       record.Organization
	External   record.Organization
	Basis      record.MatchBasis
	Confidence record.Confidence
}

// MatchOrganizations pairs Pure external organizations with external
// institution records by display name. A Pure org matches when its display
// name equals the institution's display name or appears among the name
// alternatives; the first matching institution wins per Pure org.
func MatchOrganizations(pureOrgs, externalOrgs []record.Organization) []OrgMatch {
	var matches []OrgMatch
	for _, pureOrg := range pureOrgs {
		if pureOrg.DisplayName == "" {
			continue
		}
		for _, ext := range externalOrgs {
			if !orgNameMatches(pureOrg.DisplayName, ext) {
				continue
			}
			confidence := record.ConfidenceLow
			if ext.ROR != "" {
				confidence = record.ConfidenceHigh
			}
			matches = append(matches, OrgMatch{
				Pure:       pureOrg,
				External:   ext,
				Basis:      record.MatchNameHeuristic,
				Confidence: confidence,
			})
			break
		}
	}
	return matches
}

func orgNameMatches(name string, ext record.Organization) bool {
	if name == ext.DisplayName {
		return true
	}
	for _, alt := range ext.NameAlternatives {
		if name == alt {
			return true
		}
	}
	return false
}

// ClusterByIdentifier groups organization UUIDs by canonical ROR value and
// keeps only clusters with more than one distinct UUID: candidate duplicates
// for manual merge review. UUIDs within a cluster are sorted for stable
// output.
func ClusterByIdentifier(orgs []record.Organization) map[string][]string {
	byROR := make(map[string]map[string]bool)
	for _, org := range orgs {
		if org.UUID == "" {
			continue
		}
		for _, id := range org.Identifiers {
			if id.Scheme != identifier.SchemeROR || id.Value == "" {
				continue
			}
			ror := identifier.ROR(id.Value)
			if byROR[ror] == nil {
				byROR[ror] = make(map[string]bool)
			}
			byROR[ror][org.UUID] = true
		}
	}

	clusters := make(map[string][]string)
	for ror, uuids := range byROR {
		if len(uuids) < 2 {
			continue
		}
		list := make([]string, 0, len(uuids))
		for uuid := range uuids {
			list = append(list, uuid)
		}
		sort.Strings(list)
		clusters[ror] = list
	}
	return clusters
}
