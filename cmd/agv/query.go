package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/browser"
	"github.com/matsen/agviewer/internal/viz"
)

var (
	queryElements bool
	queryHTML     string
	queryLayout   string
	queryMaxRows  int
	queryNew      bool

	// openHTML opens a written visualization in the configured browser.
	openHTML bool
)

func init() {
	queryCmd.Flags().BoolVar(&queryElements, "elements", false, "Output legend and Cytoscape elements instead of rows")
	queryCmd.Flags().StringVar(&queryHTML, "html", "", "Write an interactive HTML visualization to this file")
	queryCmd.Flags().StringVar(&queryLayout, "layout", "", "Layout algorithm: force, circle, grid, or concentric (default from config)")
	queryCmd.Flags().IntVar(&queryMaxRows, "max-rows", -1, "Only visualize the first N rows, 0 for all (default from config)")
	queryCmd.Flags().BoolVar(&queryNew, "new", false, "Mark elements as newly added")
	queryCmd.Flags().BoolVar(&openHTML, "open", false, "Open the written visualization in a browser")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query <cypher>",
	Short: "Run a Cypher query against the selected graph",
	Long: `Run a Cypher query against the selected graph.

The query is wrapped in a cypher() call whose column list is derived from
the RETURN clause, executed, and the result is converted into typed
vertices, edges and paths.

Examples:
  # Print converted rows as JSON
  agv query "MATCH (n:Person) RETURN n LIMIT 10"

  # Print legend and elements
  agv query --elements "MATCH p=(a)-[r]->(b) RETURN p"

  # Write a visualization
  agv query --html people.html --open "MATCH (a)-[r]->(b) RETURN a, r, b"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	w := mustOpenWorkspace(true)
	defer w.Close()

	query := strings.Join(args, " ")
	n, err := w.svc.Execute(cmd.Context(), query)
	if err != nil {
		w.Close() // os.Exit skips deferred calls
		exitWithErr(err)
	}
	rows := w.svc.Rows(n)

	if !queryElements && queryHTML == "" {
		if humanOutput {
			printRowsHuman(n.Columns, rows)
			outputHuman("\n%d rows (%s)\n", n.RowCount, n.Command)
			return nil
		}
		return outputJSON(QueryResponse{
			Columns:  n.Columns,
			Rows:     rows,
			RowCount: n.RowCount,
			Command:  n.Command,
		})
	}

	maxRows := queryMaxRows
	if maxRows < 0 {
		maxRows = w.cfg.MaxRows
	}
	g := w.svc.ToElements(rows, maxRows, queryNew)
	return emitGraph(g, queryHTML, layoutOr(queryLayout, w.cfg.Layout), query)
}

// emitGraph writes g as an HTML page when htmlPath is set and prints it
// otherwise.
func emitGraph(g *viz.Graph, htmlPath, layout, title string) error {
	if htmlPath == "" {
		if humanOutput {
			printGraphHuman(g)
			return nil
		}
		return outputJSON(g)
	}

	opts := viz.DefaultOptions()
	opts.Layout = layout
	if title != "" {
		opts.Title = title
	}
	html, err := viz.GenerateHTML(g, opts)
	if err != nil {
		return fmt.Errorf("generating HTML: %w", err)
	}
	if err := os.WriteFile(htmlPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if openHTML {
		if err := browser.NewOpener(mustLoadConfig().Browser).Open(htmlPath); err != nil {
			return fmt.Errorf("opening %s: %w", htmlPath, err)
		}
	}

	if humanOutput {
		outputHuman("Visualization written to %s\n", htmlPath)
		return nil
	}
	return outputJSON(OutputResponse{Output: htmlPath, Opened: openHTML})
}

// layoutOr returns layout, or fallback when layout is empty.
func layoutOr(layout, fallback string) string {
	if layout != "" {
		return layout
	}
	return fallback
}
