package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/clipboard"
	"github.com/matsen/agviewer/internal/cypher"
)

var rewriteCopy bool

func init() {
	rewriteCmd.Flags().BoolVar(&rewriteCopy, "copy", false, "Copy the SQL statement to the clipboard")
	rootCmd.AddCommand(rewriteCmd)
}

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <cypher>",
	Short: "Show the SQL statement a query runs as",
	Long: `Show the SQL statement a Cypher query is wrapped into, and the
columns derived from its RETURN clause. Nothing is executed.

Examples:
  agv rewrite --graph social "MATCH (n) RETURN n.name AS name, count(*)"
  agv rewrite --copy "MATCH (a)-[r]->(b) RETURN a, r, b"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRewrite,
}

func runRewrite(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	stmt, err := cypher.Rewrite(strings.Join(args, " "), cfg.Graph)
	if err != nil {
		exitWithErr(err)
	}

	if rewriteCopy {
		if err := clipboard.Copy(stmt.SQL); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n", stmt.SQL)
		return nil
	}
	return outputJSON(stmt)
}
