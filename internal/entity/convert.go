package entity

import (
	"sort"

	"github.com/matsen/agviewer/internal/result"
)

// VertexLike is satisfied by any backend value shaped like a vertex.
type VertexLike interface {
	Label() string
	Identity() GraphID
	Props() map[string]any
}

// EdgeLike is satisfied by any backend value shaped like an edge.
type EdgeLike interface {
	VertexLike
	StartID() GraphID
	EndID() GraphID
}

// PathLike is satisfied by any backend value shaped like a path.
type PathLike interface {
	Vertices() []VertexLike
	Edges() []EdgeLike
}

// ConvertRows converts every row of a normalized result.
// Cells follow the order of n.Columns; columns missing from a row are skipped
// and keys not listed in n.Columns are appended in sorted order.
func ConvertRows(n *result.Normalized) []Row {
	rows := make([]Row, 0, len(n.Rows))
	for _, raw := range n.Rows {
		rows = append(rows, ConvertRow(raw, n.Columns))
	}
	return rows
}

// ConvertRow converts one raw row.
func ConvertRow(raw map[string]any, columns []string) Row {
	row := make(Row, 0, len(raw))
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		v, ok := raw[col]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		row = append(row, Cell{Column: col, Value: ConvertValue(v)})
	}

	if len(seen) < len(raw) {
		var extra []string
		for k := range raw {
			if !seen[k] {
				extra = append(extra, k)
			}
		}
		sort.Strings(extra)
		for _, k := range extra {
			row = append(row, Cell{Column: k, Value: ConvertValue(raw[k])})
		}
	}
	return row
}

// ConvertValue classifies v by its structure and converts it.
func ConvertValue(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null{}
	case string:
		if x == "" {
			return Null{}
		}
		return Scalar{V: x}
	case Value:
		return x
	case PathLike:
		return convertPathLike(x)
	case EdgeLike:
		return convertEdgeLike(x)
	case VertexLike:
		return convertVertexLike(x)
	case map[string]any:
		return convertMap(x)
	case []any:
		if p, ok := convertEntityList(x); ok {
			return p
		}
		return Scalar{V: x}
	default:
		return Scalar{V: x}
	}
}

func convertVertexLike(v VertexLike) *Vertex {
	return &Vertex{
		Label:      v.Label(),
		ID:         v.Identity().String(),
		Properties: orEmpty(v.Props()),
	}
}

func convertEdgeLike(e EdgeLike) *Edge {
	return &Edge{
		Label:      e.Label(),
		ID:         e.Identity().String(),
		Start:      e.StartID().String(),
		End:        e.EndID().String(),
		Properties: orEmpty(e.Props()),
	}
}

func convertPathLike(p PathLike) Path {
	vertices := p.Vertices()
	edges := p.Edges()
	path := make(Path, 0, len(vertices)+len(edges))
	for _, v := range vertices {
		path = append(path, convertVertexLike(v))
	}
	for _, e := range edges {
		path = append(path, convertEdgeLike(e))
	}
	return path
}

// convertMap classifies a decoded object by the keys it carries.
func convertMap(m map[string]any) Value {
	if vertices, ok := m["vertices"].([]any); ok {
		if edges, ok := m["edges"].([]any); ok {
			return convertPathMap(vertices, edges)
		}
	}

	if v, ok := vertexFromMap(m); ok {
		start, okStart := idPair(firstOf(m, "start", "start_id"))
		end, okEnd := idPair(firstOf(m, "end", "end_id"))
		if okStart && okEnd {
			return &Edge{
				Label:      v.Label,
				ID:         v.ID,
				Start:      start.String(),
				End:        end.String(),
				Properties: v.Properties,
			}
		}
		return v
	}
	return Scalar{V: m}
}

// vertexFromMap reads the label + id + properties shape shared by vertices and edges.
func vertexFromMap(m map[string]any) (*Vertex, bool) {
	label, ok := m["label"].(string)
	if !ok {
		return nil, false
	}
	id, ok := idPair(m["id"])
	if !ok {
		return nil, false
	}

	rawProps, ok := m["props"]
	if !ok {
		rawProps, ok = m["properties"]
	}
	if !ok {
		return nil, false
	}
	var props map[string]any
	if rawProps != nil {
		props, ok = rawProps.(map[string]any)
		if !ok {
			return nil, false
		}
	}

	return &Vertex{Label: label, ID: id.String(), Properties: orEmpty(props)}, true
}

func convertPathMap(vertices, edges []any) Path {
	path := make(Path, 0, len(vertices)+len(edges))
	for _, group := range [][]any{vertices, edges} {
		for _, item := range group {
			if e, ok := ConvertValue(item).(Entity); ok {
				path = append(path, e)
			}
		}
	}
	return path
}

// convertEntityList turns a non-empty list made only of graph elements, such
// as the result of collect(n), into a Path that keeps the list order.
func convertEntityList(items []any) (Path, bool) {
	if len(items) == 0 {
		return nil, false
	}
	path := make(Path, 0, len(items))
	for _, item := range items {
		e, ok := ConvertValue(item).(Entity)
		if !ok {
			return nil, false
		}
		path = append(path, e)
	}
	return path, true
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// orEmpty returns a JSON-safe copy of props, never nil.
func orEmpty(props map[string]any) map[string]any {
	if props == nil {
		return map[string]any{}
	}
	return jsonSafe(props).(map[string]any)
}
