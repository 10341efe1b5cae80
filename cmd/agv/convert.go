package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/result"
)

var (
	convertElements bool
	convertHTML     string
	convertLayout   string
	convertMaxRows  int
)

func init() {
	convertCmd.Flags().BoolVar(&convertElements, "elements", false, "Output legend and Cytoscape elements instead of rows")
	convertCmd.Flags().StringVar(&convertHTML, "html", "", "Write an interactive HTML visualization to this file")
	convertCmd.Flags().StringVar(&convertLayout, "layout", "", "Layout algorithm: force, circle, grid, or concentric (default from config)")
	convertCmd.Flags().BoolVar(&openHTML, "open", false, "Open the written visualization in a browser")
	convertCmd.Flags().IntVar(&convertMaxRows, "max-rows", -1, "Only visualize the first N rows, 0 for all (default from config)")
	rootCmd.AddCommand(convertCmd)
}

var convertCmd = &cobra.Command{
	Use:   "convert <result.json>",
	Short: "Convert a saved raw result without a database",
	Long: `Convert a saved raw query result into typed rows or visualization elements.

The file holds one result object ({"rows": [...], "fields": [...],
"rowCount": N, "command": "SELECT"}) or an array of them, in which case
only the last one is used.

Examples:
  agv convert result.json
  agv convert --html graph.html result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		exitWithError(ExitError, "opening result file: %v", err)
	}
	defer f.Close()

	raw, err := result.Decode(f)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	n, err := result.Normalize(raw)
	if err != nil {
		exitWithErr(fmt.Errorf("%s: %w", args[0], err))
	}

	w := mustOpenWorkspace(false)
	defer w.Close()
	rows := w.svc.Rows(n)

	if !convertElements && convertHTML == "" {
		if humanOutput {
			printRowsHuman(n.Columns, rows)
			return nil
		}
		return outputJSON(QueryResponse{
			Columns:  n.Columns,
			Rows:     rows,
			RowCount: n.RowCount,
			Command:  n.Command,
		})
	}

	maxRows := convertMaxRows
	if maxRows < 0 {
		maxRows = w.cfg.MaxRows
	}
	g := w.svc.ToElements(rows, maxRows, false)
	return emitGraph(g, convertHTML, layoutOr(convertLayout, w.cfg.Layout), args[0])
}
