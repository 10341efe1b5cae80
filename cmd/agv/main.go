// Package main provides the agv CLI entry point.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/matsen/agviewer/internal/config"
	"github.com/matsen/agviewer/internal/executor"
	"github.com/matsen/agviewer/internal/result"
	"github.com/matsen/agviewer/internal/session"
	"github.com/matsen/agviewer/internal/storage"
	"github.com/matsen/agviewer/internal/style"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// graphFlag overrides the configured graph
	graphFlag string
	verbose   bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "agv",
	Short: "Query Apache AGE graphs and build visualizations",
	Long: `agv runs Cypher queries against an Apache AGE graph in PostgreSQL and
turns the results into typed vertices, edges and paths, plus styled
Cytoscape elements and a legend.

Label colors, sizes and captions are remembered across runs in a local
SQLite state database, together with the query history.
All commands output JSON by default.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&graphFlag, "graph", "g", "", "Graph to query (overrides config and AGV_GRAPH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log executed statements to stderr")
	rootCmd.Version = Version
}

// mustLoadConfig loads the global configuration, exits on error.
// The --graph flag takes precedence over the file and environment.
func mustLoadConfig() *config.GlobalConfig {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if graphFlag != "" {
		cfg.Graph = graphFlag
	}
	return cfg
}

// mustOpenState opens the state database, exits on error.
// The caller is responsible for calling Close() on the returned DB.
func mustOpenState(cfg *config.GlobalConfig) *storage.DB {
	db, err := storage.OpenDB(cfg.StatePath)
	if err != nil {
		exitWithError(ExitError, "opening state database: %v", err)
	}
	return db
}

// mustLoadRegistry builds a style registry seeded from config and restored
// from the state database.
func mustLoadRegistry(cfg *config.GlobalConfig, db *storage.DB) *style.Registry {
	var opts []style.Option
	if cfg.PaletteSeed != nil {
		opts = append(opts, style.WithSeed(*cfg.PaletteSeed))
	}
	reg := style.NewRegistry(opts...)
	if err := db.RestoreStyles(reg); err != nil {
		exitWithError(ExitDataError, "restoring label styles: %v", err)
	}
	return reg
}

// mustSaveRegistry persists the registry's bindings, exits on error.
func mustSaveRegistry(db *storage.DB, reg *style.Registry) {
	if err := db.SaveStyles(reg.Assignments()); err != nil {
		exitWithError(ExitError, "saving label styles: %v", err)
	}
}

// workspace is what most commands need: config, state, styles and a session.
type workspace struct {
	cfg    *config.GlobalConfig
	state  *storage.DB
	styles *style.Registry
	exec   *executor.SQL
	svc    *session.Service
}

// mustOpenWorkspace opens state and styles and, when connect is set, the
// database executor. Without connect the session has no executor and must
// not execute queries.
func mustOpenWorkspace(connect bool) *workspace {
	cfg := mustLoadConfig()
	state := mustOpenState(cfg)
	w := &workspace{
		cfg:    cfg,
		state:  state,
		styles: mustLoadRegistry(cfg, state),
	}

	var exec session.Executor = noExecutor{}
	if connect {
		w.exec = mustOpenExecutor(cfg)
		exec = w.exec
	}

	w.svc = session.New(exec,
		session.WithGraph(cfg.Graph),
		session.WithRegistry(w.styles),
		session.WithRecorder(state),
		session.WithLogger(slog.Default()),
	)
	return w
}

// Close saves label styles and releases the databases.
func (w *workspace) Close() {
	mustSaveRegistry(w.state, w.styles)
	if w.exec != nil {
		w.exec.Close()
	}
	w.state.Close()
}

// mustOpenExecutor opens the configured database, exits on error.
func mustOpenExecutor(cfg *config.GlobalConfig) *executor.SQL {
	dsn, err := cfg.ValidateDSN()
	if err != nil {
		fmt.Fprintln(os.Stderr, config.HelpfulConfigMessage())
		os.Exit(ExitConfigError)
	}

	opts := []executor.Option{
		executor.WithPreamble(cfg.PreambleFor(executor.AGEPreamble)...),
		executor.WithRateLimit(cfg.RateLimit),
		executor.WithLogger(slog.Default()),
	}
	if cfg.IsPostgres() {
		// cypher() only returns agtype columns
		opts = append(opts, executor.WithAgtype())
	}

	exec, err := executor.Open(cfg.Driver, dsn, opts...)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return exec
}

// noExecutor backs sessions of commands that never run queries.
type noExecutor struct{}

func (noExecutor) Execute(context.Context, string) ([]*result.Raw, error) {
	return nil, errNoConnection
}
