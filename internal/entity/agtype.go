package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// NativeVertex is a vertex decoded from agtype text.
type NativeVertex struct {
	LabelName  string
	ID         GraphID
	Properties map[string]any
}

// Label implements VertexLike.
func (v *NativeVertex) Label() string { return v.LabelName }

// Identity implements VertexLike.
func (v *NativeVertex) Identity() GraphID { return v.ID }

// Props implements VertexLike.
func (v *NativeVertex) Props() map[string]any { return v.Properties }

// NativeEdge is an edge decoded from agtype text.
type NativeEdge struct {
	NativeVertex
	Start GraphID
	End   GraphID
}

// StartID implements EdgeLike.
func (e *NativeEdge) StartID() GraphID { return e.Start }

// EndID implements EdgeLike.
func (e *NativeEdge) EndID() GraphID { return e.End }

// NativePath is a path decoded from agtype text, in traversal order.
type NativePath struct {
	Elements []any
}

// Vertices implements PathLike.
func (p *NativePath) Vertices() []VertexLike {
	var out []VertexLike
	for _, el := range p.Elements {
		if _, isEdge := el.(EdgeLike); isEdge {
			continue
		}
		if v, ok := el.(VertexLike); ok {
			out = append(out, v)
		}
	}
	return out
}

// Edges implements PathLike.
func (p *NativePath) Edges() []EdgeLike {
	var out []EdgeLike
	for _, el := range p.Elements {
		if e, ok := el.(EdgeLike); ok {
			out = append(out, e)
		}
	}
	return out
}

// IsAgtypeComposite reports whether text looks like an annotated vertex, edge
// or path rather than a plain scalar.
func IsAgtypeComposite(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasSuffix(t, "::vertex") || strings.HasSuffix(t, "::edge") ||
		strings.HasSuffix(t, "::path") || strings.Contains(t, "}::vertex") || strings.Contains(t, "}::edge")
}

// ParseAgtype decodes the text output of an AGE agtype value.
//
// Objects annotated ::vertex and ::edge become *NativeVertex and *NativeEdge,
// lists annotated ::path become *NativePath. Other annotations such as
// ::numeric are dropped. Integers decode to int64, other numbers to float64.
func ParseAgtype(text string) (any, error) {
	p := &agParser{src: text}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return v, nil
}

type agParser struct {
	src string
	pos int
}

func (p *agParser) errorf(format string, args ...any) error {
	return fmt.Errorf("agtype at offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *agParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *agParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

// value parses one value and its optional ::annotation.
func (p *agParser) value() (any, error) {
	p.skipSpace()

	var v any
	var err error
	switch c := p.peek(); {
	case c == '{':
		v, err = p.object()
	case c == '[':
		v, err = p.list()
	case c == '"':
		v, err = p.str()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	default:
		v, err = p.literal()
	}
	if err != nil {
		return nil, err
	}

	if strings.HasPrefix(p.src[p.pos:], "::") {
		p.pos += 2
		start := p.pos
		for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos++
		}
		return annotate(v, p.src[start:p.pos])
	}
	return v, nil
}

func (p *agParser) object() (map[string]any, error) {
	p.pos++ // {
	obj := make(map[string]any)
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return obj, nil
	}
	for {
		p.skipSpace()
		if p.peek() != '"' {
			return nil, p.errorf("expected object key")
		}
		key, err := p.str()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		obj[key] = val

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *agParser) list() ([]any, error) {
	p.pos++ // [
	items := []any{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return items, nil
	}
	for {
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, val)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return items, nil
		default:
			return nil, p.errorf("expected ',' or ']' in list")
		}
	}
}

// str parses a JSON string literal, including escapes.
func (p *agParser) str() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++
			var s string
			if err := json.Unmarshal([]byte(p.src[start:p.pos]), &s); err != nil {
				return "", p.errorf("invalid string: %v", err)
			}
			return s, nil
		default:
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

// literal parses numbers, booleans and null.
func (p *agParser) literal() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == ']' || c == '}' || c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		if c == ':' && strings.HasPrefix(p.src[p.pos:], "::") {
			break
		}
		p.pos++
	}
	tok := p.src[start:p.pos]

	switch tok {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	p.pos = start
	return nil, p.errorf("invalid literal %q", tok)
}

// annotate applies an agtype type annotation to a parsed value.
func annotate(v any, typ string) (any, error) {
	switch typ {
	case "vertex":
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("agtype vertex is %T, not an object", v)
		}
		return nativeVertex(m)
	case "edge":
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("agtype edge is %T, not an object", v)
		}
		return nativeEdge(m)
	case "path":
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("agtype path is %T, not a list", v)
		}
		return &NativePath{Elements: items}, nil
	default:
		return v, nil
	}
}

func nativeVertex(m map[string]any) (*NativeVertex, error) {
	label, _ := m["label"].(string)
	id, ok := idPair(m["id"])
	if !ok {
		return nil, fmt.Errorf("agtype vertex %q has no valid id", label)
	}
	props, _ := m["properties"].(map[string]any)
	return &NativeVertex{LabelName: label, ID: id, Properties: orEmpty(props)}, nil
}

func nativeEdge(m map[string]any) (*NativeEdge, error) {
	v, err := nativeVertex(m)
	if err != nil {
		return nil, err
	}
	start, ok := idPair(m["start_id"])
	if !ok {
		return nil, fmt.Errorf("agtype edge %q has no valid start_id", v.LabelName)
	}
	end, ok := idPair(m["end_id"])
	if !ok {
		return nil, fmt.Errorf("agtype edge %q has no valid end_id", v.LabelName)
	}
	return &NativeEdge{NativeVertex: *v, Start: start, End: end}, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
