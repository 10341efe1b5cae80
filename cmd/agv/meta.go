package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/viz"
)

var (
	metaFile   string
	metaHTML   string
	metaLayout string
)

func init() {
	metaCmd.Flags().StringVar(&metaFile, "file", "", "Read metadata records from a saved result instead of the database")
	metaCmd.Flags().StringVar(&metaHTML, "html", "", "Write an interactive HTML visualization to this file")
	metaCmd.Flags().BoolVar(&openHTML, "open", false, "Open the written visualization in a browser")
	metaCmd.Flags().StringVar(&metaLayout, "layout", "", "Layout algorithm: force, circle, grid, or concentric (default from config)")
	rootCmd.AddCommand(metaCmd)
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show the label-level structure of the selected graph",
	Long: `Show one node per vertex label and one edge per edge label, sized
and colored by label, with the number of entities carrying each label.

Labels without entities are left out.

Examples:
  agv meta --graph social
  agv meta --html schema.html
  agv meta --file records.json`,
	Args: cobra.NoArgs,
	RunE: runMeta,
}

func runMeta(cmd *cobra.Command, args []string) error {
	w := mustOpenWorkspace(metaFile == "")
	defer w.Close()

	var records []viz.MetaRecord
	if metaFile != "" {
		records = mustReadMetaFile(metaFile)
	} else {
		var err error
		records, err = w.svc.Metadata(cmd.Context())
		if err != nil {
			w.Close() // os.Exit skips deferred calls
			exitWithErr(err)
		}
	}

	g := w.svc.ToMetadataElements(records)
	return emitGraph(g, metaHTML, layoutOr(metaLayout, w.cfg.Layout), "Graph metadata")
}

// mustReadMetaFile reads metadata records from a saved result, exits on error.
func mustReadMetaFile(path string) []viz.MetaRecord {
	f, err := os.Open(path)
	if err != nil {
		exitWithError(ExitError, "opening metadata file: %v", err)
	}
	defer f.Close()

	raw, err := result.Decode(f)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}
	records, err := metaRecordsFrom(raw)
	if err != nil {
		exitWithErr(err)
	}
	return records
}

// metaRecordsFrom reads metadata records from a decoded result. A bare array
// of record objects is accepted as well as a full result.
func metaRecordsFrom(raw any) ([]viz.MetaRecord, error) {
	if items, ok := raw.([]any); ok && len(items) > 0 {
		if first, ok := items[0].(map[string]any); ok {
			if _, isResult := first["rows"]; !isResult {
				records := make([]viz.MetaRecord, 0, len(items))
				for _, item := range items {
					if m, ok := item.(map[string]any); ok {
						records = append(records, viz.MetaRecordFromMap(m))
					}
				}
				return records, nil
			}
		}
	}

	n, err := result.Normalize(raw)
	if err != nil {
		return nil, err
	}
	return viz.MetaRecordsFromResult(n), nil
}
