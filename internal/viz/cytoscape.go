package viz

import (
	"encoding/json"
	"fmt"
)

// ToCytoscapeJSON converts the graph elements to Cytoscape.js JSON format.
// Edges without an id get one derived from their endpoints.
func (g *Graph) ToCytoscapeJSON() (string, error) {
	elements := Elements{
		Nodes: make([]Element, 0, len(g.Elements.Nodes)),
		Edges: make([]Element, 0, len(g.Elements.Edges)),
	}
	elements.Nodes = append(elements.Nodes, g.Elements.Nodes...)

	for i, e := range g.Elements.Edges {
		if e.Data.ID == "" {
			e.Data.ID = edgeID(e.Data.Source, e.Data.Target, e.Data.Label, i)
		}
		elements.Edges = append(elements.Edges, e)
	}

	jsonBytes, err := json.Marshal(elements)
	if err != nil {
		return "", fmt.Errorf("marshaling Cytoscape elements to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// edgeID generates a unique edge ID for the current visualization session.
// IDs are based on slice position and are not stable across different graph builds.
func edgeID(source, target, label string, index int) string {
	return fmt.Sprintf("%s-%s-%s-%d", source, target, label, index)
}
