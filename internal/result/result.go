// Package result normalizes raw executor output into a uniform tabular shape.
package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMalformedResult is returned when an executor result cannot be interpreted.
var ErrMalformedResult = errors.New("malformed result")

// Field describes one column of a raw result.
type Field struct {
	Name       string `json:"name"`
	DataTypeID uint32 `json:"dataTypeID,omitempty"`
}

// Raw is the output of a single executed statement.
type Raw struct {
	Rows     []map[string]any `json:"rows"`
	Fields   []Field          `json:"fields"`
	RowCount int              `json:"rowCount"`
	Command  string           `json:"command"`
}

// Normalized is the uniform view of the meaningful result of an execution.
// RowCount is what the backend reported and need not equal len(Rows).
type Normalized struct {
	Rows     []map[string]any `json:"rows"`
	Columns  []string         `json:"columns"`
	RowCount int              `json:"rowCount"`
	Command  string           `json:"command"`
}

// Normalize converts a raw result into a Normalized one.
//
// raw may be a single result (*Raw, Raw, or a JSON-decoded object) or a
// sequence of them, in which case only the last element is used and earlier
// ones, such as preparatory statements, are discarded.
func Normalize(raw any) (*Normalized, error) {
	target, err := last(raw)
	if err != nil {
		return nil, err
	}
	if target.Rows == nil || target.Fields == nil {
		return nil, fmt.Errorf("%w: result has no rows or fields", ErrMalformedResult)
	}

	columns := make([]string, len(target.Fields))
	for i, f := range target.Fields {
		columns[i] = f.Name
	}

	return &Normalized{
		Rows:     target.Rows,
		Columns:  columns,
		RowCount: target.RowCount,
		Command:  target.Command,
	}, nil
}

// last picks the meaningful result out of raw.
func last(raw any) (*Raw, error) {
	switch v := raw.(type) {
	case *Raw:
		if v == nil {
			return nil, fmt.Errorf("%w: nil result", ErrMalformedResult)
		}
		return v, nil
	case Raw:
		return &v, nil
	case []*Raw:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty result sequence", ErrMalformedResult)
		}
		return last(v[len(v)-1])
	case []Raw:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty result sequence", ErrMalformedResult)
		}
		return &v[len(v)-1], nil
	case []any:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: empty result sequence", ErrMalformedResult)
		}
		return last(v[len(v)-1])
	case map[string]any:
		return fromMap(v)
	default:
		return nil, fmt.Errorf("%w: unexpected result type %T", ErrMalformedResult, raw)
	}
}

// fromMap reads a JSON-decoded result object, e.g. a saved node-postgres result.
func fromMap(m map[string]any) (*Raw, error) {
	rawRows, ok := m["rows"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing rows", ErrMalformedResult)
	}
	rawFields, ok := m["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: missing fields", ErrMalformedResult)
	}

	r := &Raw{
		Rows:   make([]map[string]any, 0, len(rawRows)),
		Fields: make([]Field, 0, len(rawFields)),
	}

	for i, row := range rawRows {
		rm, ok := row.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: row %d is %T, not an object", ErrMalformedResult, i, row)
		}
		r.Rows = append(r.Rows, rm)
	}

	for i, f := range rawFields {
		fm, ok := f.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %d is %T, not an object", ErrMalformedResult, i, f)
		}
		name, ok := fm["name"].(string)
		if !ok {
			return nil, fmt.Errorf("%w: field %d has no name", ErrMalformedResult, i)
		}
		field := Field{Name: name}
		if id, ok := toInt(fm["dataTypeID"]); ok {
			field.DataTypeID = uint32(id)
		}
		r.Fields = append(r.Fields, field)
	}

	if n, ok := toInt(m["rowCount"]); ok {
		r.RowCount = n
	}
	if cmd, ok := m["command"].(string); ok {
		r.Command = cmd
	}
	return r, nil
}

// toInt converts JSON numbers to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}

// Decode reads a saved raw result (object or array of objects) from r.
// Numbers are kept as json.Number so graph ids survive without float rounding.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding result JSON: %w", err)
	}
	return v, nil
}
