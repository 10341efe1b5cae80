package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/matsen/agviewer/internal/entity"
	"github.com/matsen/agviewer/internal/viz"
)

// CellTextMaxLen bounds a cell in human-readable row output.
const CellTextMaxLen = 60

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...any) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithErr exits with the code exitCodeFor assigns to err.
func exitWithErr(err error) {
	exitWithError(exitCodeFor(err), "%v", err)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QueryResponse is the response for query and convert commands.
type QueryResponse struct {
	Columns  []string     `json:"columns"`
	Rows     []entity.Row `json:"rows"`
	RowCount int          `json:"rowCount"`
	Command  string       `json:"command"`
}

// OutputResponse reports a written file.
type OutputResponse struct {
	Output string `json:"output"`
	Opened bool   `json:"opened,omitempty"`
}

// printRowsHuman prints rows as tab-separated cells under a header.
func printRowsHuman(columns []string, rows []entity.Row) {
	fmt.Println(strings.Join(columns, "\t"))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = truncateString(cellText(c.Value), CellTextMaxLen)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

// cellText renders a converted value for humans.
func cellText(v entity.Value) string {
	switch x := v.(type) {
	case entity.Null:
		return "null"
	case *entity.Vertex:
		return fmt.Sprintf("(%s:%s)", x.ID, x.Label)
	case *entity.Edge:
		return fmt.Sprintf("[%s:%s %s->%s]", x.ID, x.Label, x.Start, x.End)
	case entity.Path:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = cellText(e)
		}
		return strings.Join(parts, " ")
	case entity.Scalar:
		data, err := json.Marshal(x.V)
		if err != nil {
			return fmt.Sprint(x.V)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

// printGraphHuman prints a legend summary and element counts.
func printGraphHuman(g *viz.Graph) {
	fmt.Printf("%d nodes, %d edges\n", len(g.Elements.Nodes), len(g.Elements.Edges))
	printLegendSection("Node labels", g.Legend.NodeLabels(), g.Legend.NodeLegend)
	printLegendSection("Edge labels", g.Legend.EdgeLabels(), g.Legend.EdgeLegend)
}

func printLegendSection(title string, labels []string, entries map[string]viz.LegendEntry) {
	if len(labels) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", title)
	for _, label := range labels {
		e := entries[label]
		fmt.Printf("  %-20s %s  size %-3d caption %s\n", label, e.Color, e.Size, e.Caption)
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
