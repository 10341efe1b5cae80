package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matsen/agviewer/internal/cypher"
	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/style"
)

type fakeExecutor struct {
	calls   []string
	results []*result.Raw
	err     error
}

func (f *fakeExecutor) Execute(_ context.Context, statement string) ([]*result.Raw, error) {
	f.calls = append(f.calls, statement)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeRecorder struct {
	entries []HistoryEntry
	err     error
}

func (f *fakeRecorder) RecordQuery(_ context.Context, e HistoryEntry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func vertexRaw() []*result.Raw {
	return []*result.Raw{
		{Rows: []map[string]any{}, Fields: []result.Field{}, Command: "LOAD"},
		{
			Rows: []map[string]any{
				{"n": map[string]any{
					"label":      "Person",
					"id":         map[string]any{"oid": 3, "id": 1},
					"properties": map[string]any{"name": "Ada"},
				}},
			},
			Fields:   []result.Field{{Name: "n"}},
			RowCount: 1,
			Command:  "SELECT",
		},
	}
}

func TestExecute_NoGraphSelected(t *testing.T) {
	exec := &fakeExecutor{}
	s := New(exec)

	_, err := s.Execute(context.Background(), "MATCH (n) RETURN n")
	if !errors.Is(err, cypher.ErrNoGraphSelected) {
		t.Fatalf("err = %v, want ErrNoGraphSelected", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("executor called %d times, want 0", len(exec.calls))
	}
}

func TestExecute_MissingQuery(t *testing.T) {
	exec := &fakeExecutor{}
	s := New(exec, WithGraph("g"))

	_, err := s.Execute(context.Background(), "   ")
	if !errors.Is(err, cypher.ErrMissingQuery) {
		t.Fatalf("err = %v, want ErrMissingQuery", err)
	}
	if len(exec.calls) != 0 {
		t.Errorf("executor called %d times, want 0", len(exec.calls))
	}
}

func TestExecute_Success(t *testing.T) {
	exec := &fakeExecutor{results: vertexRaw()}
	rec := &fakeRecorder{}
	s := New(exec, WithGraph("social"), WithRecorder(rec))
	s.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	n, err := s.Execute(context.Background(), "MATCH (n) RETURN n")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := "SELECT * FROM cypher('social', $$ MATCH (n) RETURN n $$) AS (n agtype)"
	if len(exec.calls) != 1 || exec.calls[0] != want {
		t.Errorf("calls = %q, want [%q]", exec.calls, want)
	}
	if n.Command != "SELECT" || len(n.Columns) != 1 || n.Columns[0] != "n" {
		t.Errorf("normalized = %+v", n)
	}

	if len(rec.entries) != 1 {
		t.Fatalf("recorded %d entries, want 1", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Graph != "social" || e.Query != "MATCH (n) RETURN n" || e.RowCount != 1 || e.Error != "" {
		t.Errorf("entry = %+v", e)
	}
	if !e.ExecutedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)) {
		t.Errorf("ExecutedAt = %v", e.ExecutedAt)
	}
}

func TestExecute_ExecutionError(t *testing.T) {
	backend := errors.New("syntax error at or near")
	rec := &fakeRecorder{}
	s := New(&fakeExecutor{err: backend}, WithGraph("g"), WithRecorder(rec))

	_, err := s.Execute(context.Background(), "MATCH (n RETURN n")

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("err = %T, want *ExecutionError", err)
	}
	if !errors.Is(err, backend) {
		t.Error("ExecutionError should unwrap to the backend error")
	}
	if !strings.Contains(execErr.Statement, "cypher('g'") {
		t.Errorf("Statement = %q", execErr.Statement)
	}
	if len(rec.entries) != 1 || rec.entries[0].Error == "" {
		t.Errorf("failed execution not recorded: %+v", rec.entries)
	}
}

func TestExecute_MalformedResult(t *testing.T) {
	s := New(&fakeExecutor{results: []*result.Raw{}}, WithGraph("g"))

	_, err := s.Execute(context.Background(), "MATCH (n) RETURN n")
	if !errors.Is(err, result.ErrMalformedResult) {
		t.Errorf("err = %v, want ErrMalformedResult", err)
	}
}

func TestExecute_RecorderFailureIgnored(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	s := New(&fakeExecutor{results: vertexRaw()}, WithGraph("g"), WithRecorder(rec))

	if _, err := s.Execute(context.Background(), "MATCH (n) RETURN n"); err != nil {
		t.Errorf("Execute() error = %v, recorder errors should not fail the query", err)
	}
}

func TestSelectGraph(t *testing.T) {
	s := New(&fakeExecutor{})
	if s.CurrentGraph() != "" {
		t.Errorf("CurrentGraph() = %q, want empty", s.CurrentGraph())
	}
	s.SelectGraph("movies")
	if s.CurrentGraph() != "movies" {
		t.Errorf("CurrentGraph() = %q, want movies", s.CurrentGraph())
	}
}

func TestEndToEnd_Elements(t *testing.T) {
	s := New(&fakeExecutor{results: vertexRaw()}, WithGraph("g"), WithRegistry(style.NewRegistry(style.WithSeed(1))))

	n, err := s.Execute(context.Background(), "MATCH (n) RETURN n")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	rows := s.Rows(n)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if v, ok := rows[0][0].Value.(*entity.Vertex); !ok || v.ID != "3.1" {
		t.Fatalf("cell = %#v", rows[0][0].Value)
	}

	g := s.ToElements(rows, 0, false)
	entry, ok := g.Legend.NodeLegend["Person"]
	if !ok {
		t.Fatal("Person missing from legend")
	}
	if entry.Size != 75 || entry.Caption != style.NameCaption {
		t.Errorf("entry = %+v", entry)
	}
	if got := s.Styles().ColorFor(style.KindNode, "Person"); got.Color != entry.Color {
		t.Errorf("legend color %q differs from registry %q", entry.Color, got.Color)
	}
}

func TestSetLabelStyle(t *testing.T) {
	s := New(&fakeExecutor{}, WithRegistry(style.NewRegistry(style.WithSeed(1))))

	target := style.NodePalette[4]
	if !s.SetLabelColor(style.KindNode, "Person", target) {
		t.Fatal("SetLabelColor() found no matching slot")
	}
	if got := s.Styles().ColorFor(style.KindNode, "Person"); got != target {
		t.Errorf("ColorFor() = %+v, want %+v", got, target)
	}

	if !s.SetLabelSize(style.KindNode, "Person", 125) {
		t.Fatal("SetLabelSize() found no matching bucket")
	}
	if got := s.Styles().SizeFor(style.KindNode, "Person"); got != 125 {
		t.Errorf("SizeFor() = %d, want 125", got)
	}

	s.SetLabelCaption(style.KindEdge, "KNOWS", "since")
	if c, ok := s.Styles().Caption(style.KindEdge, "KNOWS"); !ok || c != "since" {
		t.Errorf("Caption() = %q, %v", c, ok)
	}
}

func TestMetadata(t *testing.T) {
	exec := &fakeExecutor{results: []*result.Raw{{
		Rows: []map[string]any{
			{"la_name": "Person", "la_oid": "Person", "la_count": int64(2)},
		},
		Fields:   []result.Field{{Name: "la_name"}, {Name: "la_oid"}, {Name: "la_count"}},
		RowCount: 1,
	}}}
	s := New(exec, WithGraph("g"))

	records, err := s.Metadata(context.Background())
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("executor called %d times, want 2", len(exec.calls))
	}
	if len(records) != 2 || records[0].Name != "Person" || *records[0].Count != 2 {
		t.Errorf("records = %+v", records)
	}

	g := s.ToMetadataElements(records)
	if len(g.Elements.Nodes) != 2 {
		t.Errorf("got %d nodes, want 2", len(g.Elements.Nodes))
	}
}
