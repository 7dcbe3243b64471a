package enrich

import (
	"context"
	"strings"

	"github.com/backtopure/btp/internal/config"
	"github.com/backtopure/btp/internal/identifier"
	"github.com/backtopure/btp/internal/record"
	"github.com/backtopure/btp/internal/ricgraph"
)

// KeyValue recovers the value part of a Ricgraph _key ("value|name").
func KeyValue(key string) string {
	if i := strings.Index(key, "|"); i >= 0 {
		return key[:i]
	}
	return key
}

// Faculties returns the faculty organization nodes selected by the
// configured name prefix.
func Faculties(ctx context.Context, graph GraphService, cfg *config.Config) ([]ricgraph.Node, error) {
	nodes, err := graph.SearchOrganizations(ctx, cfg.Ricgraph.FacultyPrefix)
	if err != nil {
		return nil, err
	}
	var faculties []ricgraph.Node
	for _, n := range nodes {
		if n.Category == "organization" {
			faculties = append(faculties, n)
		}
	}
	return faculties, nil
}

// schemeForIDName maps Ricgraph identifier node names onto btp's canonical
// schemes; everything unlisted stays scheme OTHER and is compared by its
// Pure classification URI.
func schemeForIDName(name string) identifier.Scheme {
	switch name {
	case "ORCID":
		return identifier.SchemeORCID
	case "OPENALEX":
		return identifier.SchemeOpenAlex
	case "ROR":
		return identifier.SchemeROR
	}
	return identifier.SchemeOther
}

// PersonFromNeighbors assembles a candidate person from a person-root's
// neighbor nodes. Only identifier kinds with a configured Pure type URI are
// carried; the first FULL_NAME node becomes the candidate name.
func PersonFromNeighbors(rootKey string, neighbors []ricgraph.Node, cfg *config.Config) record.Person {
	p := record.Person{Origin: record.OriginRicgraph}

	for _, n := range neighbors {
		if n.Category != "person" {
			continue
		}
		if n.Name == "FULL_NAME" {
			if p.FullName == "" {
				p.FullName = n.Value
			}
			continue
		}
		uri, known := cfg.IDTypeURIs[n.Name]
		if !known || n.Value == "" {
			continue
		}
		scheme := schemeForIDName(n.Name)
		p.Identifiers = append(p.Identifiers, record.Identifier{
			Scheme:    scheme,
			Value:     identifier.Normalize(scheme, n.Value),
			SourceURI: uri,
		})
	}
	return p
}

// FullNames returns every FULL_NAME variant among a person-root's neighbors.
func FullNames(neighbors []ricgraph.Node) []string {
	var names []string
	for _, n := range neighbors {
		if n.Category == "person" && n.Name == "FULL_NAME" {
			names = append(names, n.Value)
		}
	}
	return names
}

// CollectDOIs filters research-output neighbor nodes down to canonical DOIs.
// A node qualifies when its category is listed, it carries every label in
// requireLabels, and none in excludeLabels.
func CollectDOIs(neighbors []ricgraph.Node, categories, requireLabels, excludeLabels []string) []string {
	wantCategory := make(map[string]bool, len(categories))
	for _, c := range categories {
		wantCategory[c] = true
	}

	var dois []string
	seen := make(map[string]bool)
	for _, n := range neighbors {
		if n.Name != "DOI" || !wantCategory[n.Category] {
			continue
		}
		if !hasAllLabels(n, requireLabels) || hasAnyLabel(n, excludeLabels) {
			continue
		}
		doi := identifier.DOI(n.Value)
		if doi == "" || seen[doi] {
			continue
		}
		seen[doi] = true
		dois = append(dois, doi)
	}
	return dois
}

func hasAllLabels(n ricgraph.Node, labels []string) bool {
	for _, l := range labels {
		if !n.HasSource(l) {
			return false
		}
	}
	return true
}

func hasAnyLabel(n ricgraph.Node, labels []string) bool {
	for _, l := range labels {
		if n.HasSource(l) {
			return true
		}
	}
	return false
}

// facultyDOIs walks every person root of a faculty and collects the DOIs of
// its research outputs, applying the label filters of CollectDOIs.
func facultyDOIs(ctx context.Context, deps Deps, facultyKey string, requireLabels, excludeLabels []string) ([]string, error) {
	roots, err := deps.Graph.PersonRoots(ctx, facultyKey)
	if err != nil {
		return nil, err
	}

	var dois []string
	seen := make(map[string]bool)
	for _, root := range deps.capRoots(roots) {
		neighbors, err := deps.Graph.Neighbors(ctx, root.Key, deps.Cfg.Categories...)
		if err != nil {
			return nil, err
		}
		for _, doi := range CollectDOIs(neighbors, deps.Cfg.Categories, requireLabels, excludeLabels) {
			if !seen[doi] {
				seen[doi] = true
				dois = append(dois, doi)
			}
		}
	}
	return dois, nil
}
