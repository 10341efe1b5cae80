// Package viz builds legends and Cytoscape elements from converted query rows.
package viz

import "sort"

// Group is the Cytoscape element group.
type Group string

const (
	GroupNodes Group = "nodes"
	GroupEdges Group = "edges"
)

// Sizes used for label metadata graphs.
const (
	MetadataNodeSize = 70
	MetadataEdgeSize = 15
)

// LegendEntry is the display style shared by every element of one label.
type LegendEntry struct {
	Size        int    `json:"size"`
	Caption     string `json:"caption"`
	Color       string `json:"color"`
	BorderColor string `json:"borderColor"`
	FontColor   string `json:"fontColor"`
}

// Legend maps labels to their display style.
// JSON encoding orders labels lexicographically.
type Legend struct {
	NodeLegend map[string]LegendEntry `json:"nodeLegend"`
	EdgeLegend map[string]LegendEntry `json:"edgeLegend"`
}

// NodeLabels returns the node labels in lexicographic order.
func (l Legend) NodeLabels() []string {
	return sortedKeys(l.NodeLegend)
}

// EdgeLabels returns the edge labels in lexicographic order.
func (l Legend) EdgeLabels() []string {
	return sortedKeys(l.EdgeLegend)
}

func sortedKeys(m map[string]LegendEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ElementData holds the fields Cytoscape reads from data().
type ElementData struct {
	ID              string         `json:"id"`
	Source          string         `json:"source,omitempty"`
	Target          string         `json:"target,omitempty"`
	Label           string         `json:"label"`
	BackgroundColor string         `json:"backgroundColor"`
	BorderColor     string         `json:"borderColor"`
	FontColor       string         `json:"fontColor"`
	Size            int            `json:"size"`
	Properties      map[string]any `json:"properties"`
	Caption         string         `json:"caption"`
}

// Element is one Cytoscape node or edge.
type Element struct {
	Group   Group       `json:"group"`
	Data    ElementData `json:"data"`
	Alias   string      `json:"alias,omitempty"`
	Classes string      `json:"classes"`
}

// Elements holds the nodes and edges of a graph.
type Elements struct {
	Nodes []Element `json:"nodes"`
	Edges []Element `json:"edges"`
}

// Graph is the legend plus elements produced for one result.
type Graph struct {
	Legend   Legend   `json:"legend"`
	Elements Elements `json:"elements"`
}

// IsEmpty returns true if the graph has no nodes.
func (g *Graph) IsEmpty() bool {
	return len(g.Elements.Nodes) == 0
}

func newGraph() *Graph {
	return &Graph{
		Legend: Legend{
			NodeLegend: map[string]LegendEntry{},
			EdgeLegend: map[string]LegendEntry{},
		},
		Elements: Elements{
			Nodes: []Element{},
			Edges: []Element{},
		},
	}
}
