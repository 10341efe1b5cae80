package executor

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/result"
	_ "modernc.org/sqlite"
)

const adaVertex = `{"id": 844424930131969, "label": "Person", "properties": {"name": "Ada"}}::vertex`

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "exec.db"))
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE people (name TEXT, v TEXT)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO people (name, v) VALUES (?, ?)`, "Ada", adaVertex); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return db
}

func TestExecute_DecodesComposites(t *testing.T) {
	e := New(openTestDB(t))

	results, err := e.Execute(context.Background(), "SELECT name, v FROM people")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	raw := results[0]
	if raw.Command != "SELECT" || raw.RowCount != 1 {
		t.Errorf("Command = %q, RowCount = %d", raw.Command, raw.RowCount)
	}
	if len(raw.Fields) != 2 || raw.Fields[0].Name != "name" || raw.Fields[1].Name != "v" {
		t.Errorf("Fields = %+v", raw.Fields)
	}

	row := raw.Rows[0]
	if row["name"] != "Ada" {
		t.Errorf("name = %#v, want plain text", row["name"])
	}
	v, ok := row["v"].(*entity.NativeVertex)
	if !ok {
		t.Fatalf("v = %T, want *entity.NativeVertex", row["v"])
	}
	if v.Identity().String() != "3.1" {
		t.Errorf("vertex id = %s, want 3.1", v.Identity())
	}
}

func TestExecute_Preamble(t *testing.T) {
	e := New(openTestDB(t), WithPreamble(
		"CREATE TABLE IF NOT EXISTS scratch (x INTEGER)",
		"DELETE FROM scratch",
	))

	results, err := e.Execute(context.Background(), "SELECT name FROM people")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Command != "CREATE" || results[1].Command != "DELETE" {
		t.Errorf("preamble commands = %q, %q", results[0].Command, results[1].Command)
	}

	n, err := result.Normalize(results)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(n.Columns) != 1 || n.Columns[0] != "name" {
		t.Errorf("Columns = %v, want the final statement's", n.Columns)
	}
}

func TestExecute_WithAgtype(t *testing.T) {
	e := New(openTestDB(t), WithAgtype())

	results, err := e.Execute(context.Background(), `SELECT '42' AS n, '"quoted"' AS q, 'plain' AS s`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	row := results[0].Rows[0]
	if row["n"] != int64(42) {
		t.Errorf("n = %#v, want int64(42)", row["n"])
	}
	if row["q"] != "quoted" {
		t.Errorf("q = %#v, want quoted", row["q"])
	}
	if row["s"] != "plain" {
		t.Errorf("s = %#v, undecodable text should be kept", row["s"])
	}
}

func TestExecute_WithAgtypeKeepsTypedColumns(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec(`CREATE TABLE settings (name TEXT, value TEXT)`); err != nil {
		t.Fatalf("creating table: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO settings VALUES ('limit', '123'), ('enabled', 'true')`); err != nil {
		t.Fatalf("inserting rows: %v", err)
	}
	e := New(db, WithAgtype())

	results, err := e.Execute(context.Background(), `SELECT name, value FROM settings ORDER BY name`)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	rows := results[0].Rows
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["value"] != "true" || rows[1]["value"] != "123" {
		t.Errorf("values = %#v, %#v, want text kept", rows[0]["value"], rows[1]["value"])
	}
}

func TestAgtypeColumn(t *testing.T) {
	tests := []struct {
		typeName string
		forced   bool
		want     bool
	}{
		{"agtype", false, true},
		{"AGTYPE", true, true},
		{"", false, false},
		{"", true, true},
		{"16954", true, true},
		{"16954", false, false},
		{"TEXT", true, false},
		{"INT4", true, false},
	}
	for _, tt := range tests {
		if got := agtypeColumn(tt.typeName, tt.forced); got != tt.want {
			t.Errorf("agtypeColumn(%q, %v) = %v, want %v", tt.typeName, tt.forced, got, tt.want)
		}
	}
}

func TestExecute_Errors(t *testing.T) {
	t.Run("bad statement", func(t *testing.T) {
		e := New(openTestDB(t))
		if _, err := e.Execute(context.Background(), "SELECT * FROM missing"); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("bad preamble", func(t *testing.T) {
		e := New(openTestDB(t), WithPreamble("NOT SQL"))
		_, err := e.Execute(context.Background(), "SELECT 1")
		if err == nil || !strings.Contains(err.Error(), "preamble") {
			t.Errorf("err = %v, want preamble error", err)
		}
	})

	t.Run("cancelled rate limiter", func(t *testing.T) {
		e := New(openTestDB(t), WithRateLimit(1))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := e.Execute(ctx, "SELECT 1")
		if err == nil || !strings.Contains(err.Error(), "rate limiter") {
			t.Errorf("err = %v, want rate limiter error", err)
		}
	})
}

func TestCommandTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"select * from x", "SELECT"},
		{"  LOAD 'age'", "LOAD"},
		{"SET search_path = ag_catalog", "SET"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := commandTag(tt.in); got != tt.want {
			t.Errorf("commandTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
