package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/storage"
)

var (
	historyLimit  int
	historyExport string
	historyImport string
	historyClear  bool
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of entries to show, 0 for all")
	historyCmd.Flags().StringVar(&historyExport, "export", "", "Write the full history to a JSONL file")
	historyCmd.Flags().StringVar(&historyImport, "import", "", "Add entries from a JSONL file")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete all history")
	historyCmd.MarkFlagsMutuallyExclusive("export", "import", "clear")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently executed queries",
	Long: `List recently executed queries, newest first.

Every execution through agv query or agv meta is recorded with its graph,
statement, row count and error, if any.

Examples:
  agv history --limit 5
  agv history --export history.jsonl
  agv history --import history.jsonl`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

// HistoryImportResponse is the response for history imports.
type HistoryImportResponse struct {
	Added int `json:"added"`
	Total int `json:"total"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	db := mustOpenState(cfg)
	defer db.Close()
	ctx := cmd.Context()

	switch {
	case historyClear:
		if err := db.ClearHistory(ctx); err != nil {
			return err
		}
		if humanOutput {
			outputHuman("History cleared\n")
			return nil
		}
		return outputJSON(map[string]string{"status": "cleared"})

	case historyImport != "":
		records, err := storage.ReadHistoryJSONL(historyImport)
		if err != nil {
			exitWithError(ExitDataError, "%v", err)
		}
		added, err := db.ImportHistory(ctx, records)
		if err != nil {
			return err
		}
		if humanOutput {
			outputHuman("Imported %d of %d entries\n", added, len(records))
			return nil
		}
		return outputJSON(HistoryImportResponse{Added: added, Total: len(records)})

	case historyExport != "":
		records, err := db.ListHistory(ctx, 0)
		if err != nil {
			return err
		}
		if err := storage.WriteHistoryJSONL(historyExport, records); err != nil {
			return err
		}
		if humanOutput {
			outputHuman("Exported %d entries to %s\n", len(records), historyExport)
			return nil
		}
		return outputJSON(OutputResponse{Output: historyExport})
	}

	records, err := db.ListHistory(ctx, historyLimit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []storage.HistoryRecord{}
	}

	if !humanOutput {
		return outputJSON(records)
	}
	for _, r := range records {
		status := fmt.Sprintf("%d rows", r.RowCount)
		if r.Error != "" {
			status = "error: " + r.Error
		}
		text := r.Query
		if text == "" {
			text = r.Statement
		}
		fmt.Printf("%-14s [%s] %s\n", humanize.Time(r.ExecutedAt), r.Graph, truncateString(text, CellTextMaxLen))
		fmt.Printf("               %s\n", status)
	}
	return nil
}
