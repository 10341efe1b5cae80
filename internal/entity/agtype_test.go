package entity

import (
	"reflect"
	"testing"
)

const (
	adaVertex = `{"id": 844424930131969, "label": "Person", "properties": {"name": "Ada"}}::vertex`
	bobVertex = `{"id": 844424930131970, "label": "Person", "properties": {"name": "Bob"}}::vertex`
	knowsEdge = `{"id": 1125899906842625, "label": "KNOWS", "end_id": 844424930131970, "start_id": 844424930131969, "properties": {}}::edge`
)

func TestParseAgtype_Scalars(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`"Ada"`, "Ada"},
		{`42`, int64(42)},
		{`-7`, int64(-7)},
		{`3.5`, 3.5},
		{`12.50::numeric`, 12.5},
		{`true`, true},
		{`null`, nil},
		{`[1, "two", null]`, []any{int64(1), "two", nil}},
		{`{"a": {"b": [1]}}`, map[string]any{"a": map[string]any{"b": []any{int64(1)}}}},
		{`"say \"hi\""`, `say "hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAgtype(tt.in)
			if err != nil {
				t.Fatalf("ParseAgtype(%q) error = %v", tt.in, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseAgtype(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseAgtype_Vertex(t *testing.T) {
	got, err := ParseAgtype(adaVertex)
	if err != nil {
		t.Fatalf("ParseAgtype() error = %v", err)
	}
	v, ok := got.(*NativeVertex)
	if !ok {
		t.Fatalf("ParseAgtype() = %T, want *NativeVertex", got)
	}
	if v.Label() != "Person" || v.Identity().String() != "3.1" {
		t.Errorf("vertex = %s %s, want Person 3.1", v.Label(), v.Identity())
	}
	if v.Props()["name"] != "Ada" {
		t.Errorf("vertex props = %v, want name=Ada", v.Props())
	}
}

func TestParseAgtype_Edge(t *testing.T) {
	got, err := ParseAgtype(knowsEdge)
	if err != nil {
		t.Fatalf("ParseAgtype() error = %v", err)
	}
	e, ok := ConvertValue(got).(*Edge)
	if !ok {
		t.Fatalf("ConvertValue(ParseAgtype()) = %T, want *Edge", ConvertValue(got))
	}
	if e.ID != "4.1" || e.Start != "3.1" || e.End != "3.2" {
		t.Errorf("edge = %+v, want 4.1 from 3.1 to 3.2", e)
	}
}

func TestParseAgtype_Path(t *testing.T) {
	text := "[" + adaVertex + ", " + knowsEdge + ", " + bobVertex + "]::path"
	got, err := ParseAgtype(text)
	if err != nil {
		t.Fatalf("ParseAgtype() error = %v", err)
	}
	if _, ok := got.(*NativePath); !ok {
		t.Fatalf("ParseAgtype() = %T, want *NativePath", got)
	}

	path, ok := ConvertValue(got).(Path)
	if !ok {
		t.Fatalf("ConvertValue() = %T, want Path", ConvertValue(got))
	}
	if len(path) != 3 {
		t.Fatalf("path has %d elements, want 3", len(path))
	}
	// Traversal order is vertex, edge, vertex; flattened order puts edges last.
	wantIDs := []string{"3.1", "3.2", "4.1"}
	for i, el := range path {
		var id string
		switch x := el.(type) {
		case *Vertex:
			id = x.ID
		case *Edge:
			id = x.ID
		}
		if id != wantIDs[i] {
			t.Errorf("path[%d] id = %q, want %q", i, id, wantIDs[i])
		}
	}
}

func TestParseAgtype_Errors(t *testing.T) {
	for _, in := range []string{
		``,
		`{"a": 1`,
		`[1, 2`,
		`"open`,
		`{"label": "X"}::vertex`,
		`[1]::vertex`,
		`1 2`,
		`bogus`,
	} {
		if _, err := ParseAgtype(in); err == nil {
			t.Errorf("ParseAgtype(%q) expected error", in)
		}
	}
}

func TestIsAgtypeComposite(t *testing.T) {
	if !IsAgtypeComposite(adaVertex) {
		t.Error("IsAgtypeComposite(vertex) = false")
	}
	if !IsAgtypeComposite("[" + adaVertex + "]") {
		t.Error("IsAgtypeComposite(list of vertices) = false")
	}
	if IsAgtypeComposite(`"Ada"`) {
		t.Error("IsAgtypeComposite(string) = true")
	}
}
