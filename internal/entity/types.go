// Package entity converts backend cell values into graph entities.
//
// Every converted cell is one of a closed set of variants: Null, Scalar,
// *Vertex, *Edge or Path. Consumers switch over these types instead of
// inspecting the shape of raw values again.
package entity

import (
	"bytes"
	"encoding/json"
	"math"
)

// Value is a converted cell value.
type Value interface {
	isValue()
}

// Entity is a graph element: a *Vertex or an *Edge.
type Entity interface {
	Value
	EntityLabel() string
	EntityProperties() map[string]any
}

// Null marks an absent or empty cell.
type Null struct{}

// Scalar is any non-graph value, passed through unchanged.
type Scalar struct {
	V any
}

// Vertex is a converted graph vertex.
type Vertex struct {
	Label      string         `json:"label"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// Edge is a converted graph edge. Start and End are vertex IDs.
type Edge struct {
	Label      string         `json:"label"`
	ID         string         `json:"id"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Properties map[string]any `json:"properties"`
}

// Path is a flattened path: its vertices in order followed by its edges in order.
type Path []Entity

func (Null) isValue()    {}
func (Scalar) isValue()  {}
func (*Vertex) isValue() {}
func (*Edge) isValue()   {}
func (Path) isValue()    {}

// EntityLabel returns the vertex label.
func (v *Vertex) EntityLabel() string { return v.Label }

// EntityProperties returns the vertex properties.
func (v *Vertex) EntityProperties() map[string]any { return v.Properties }

// EntityLabel returns the edge label.
func (e *Edge) EntityLabel() string { return e.Label }

// EntityProperties returns the edge properties.
func (e *Edge) EntityProperties() map[string]any { return e.Properties }

// MarshalJSON encodes Null as JSON null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// MarshalJSON encodes the wrapped value. NaN and infinities are encoded as
// their agtype text.
func (s Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSafe(s.V))
}

// jsonSafe returns v with every non-finite float replaced by its agtype text.
// Maps and slices are copied.
func jsonSafe(v any) any {
	switch x := v.(type) {
	case float64:
		return finiteOrText(x)
	case float32:
		return finiteOrText(float64(x))
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = jsonSafe(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = jsonSafe(e)
		}
		return out
	default:
		return v
	}
}

func finiteOrText(f float64) any {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return f
	}
}

// Cell is one named value of a converted row.
type Cell struct {
	Column string
	Value  Value
}

// Row is a converted result row, ordered by result column.
type Row []Cell

// Get returns the value of the named column.
func (r Row) Get(column string) (Value, bool) {
	for _, c := range r {
		if c.Column == column {
			return c.Value, true
		}
	}
	return nil, false
}

// MarshalJSON encodes the row as an object whose keys keep column order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if c.Value == nil {
			val = []byte("null")
		} else {
			val, err = json.Marshal(c.Value)
			if err != nil {
				return nil, err
			}
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
