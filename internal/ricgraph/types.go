package ricgraph

// Node is a Ricgraph graph node as returned by the REST API. The _key field
// is "value|name"; splitting on the first pipe recovers the value.
type Node struct {
	Key      string   `json:"_key"`
	Name     string   `json:"name"`     // node kind: FULL_NAME, ORCID, DOI, person-root, ...
	Category string   `json:"category"` // person, organization, journal article, data set, ...
	Value    string   `json:"value"`
	Sources  []string `json:"_source"`
	Comment  string   `json:"comment,omitempty"`
	URLMain  string   `json:"url_main,omitempty"`
	URLOther string   `json:"url_other,omitempty"`
	Year     string   `json:"year,omitempty"`
}

// HasSource reports whether the node was harvested from the given source
// system label.
func (n Node) HasSource(label string) bool {
	for _, s := range n.Sources {
		if s == label {
			return true
		}
	}
	return false
}

// OnlySource reports whether label is the single source of this node.
func (n Node) OnlySource(label string) bool {
	return len(n.Sources) == 1 && n.Sources[0] == label
}

// resultEnvelope wraps every Ricgraph list response.
type resultEnvelope struct {
	Results []Node `json:"results"`
}
