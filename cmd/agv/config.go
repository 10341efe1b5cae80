package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/agviewer/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration after applying the config file,
.env file, environment variables and flags.

The config file lives at $XDG_CONFIG_HOME/agv/config.yml.

Keys:
  driver        database/sql driver (pgx or sqlite)
  dsn           connection string (AGV_DSN)
  graph         graph to query (AGV_GRAPH, --graph)
  preamble      statements run before every query
  max-rows      rows visualized per query, 0 for all
  rate-limit    maximum executions per second, 0 for unlimited
  palette-seed  seed for label color assignment
  state-path    SQLite file for label styles and history
  layout        default HTML layout
  browser       browser used by --open, "system" for the default`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

// ConfigResponse is the response for the config command.
type ConfigResponse struct {
	Path string `json:"path"`
	*config.GlobalConfig
}

func runConfig(cmd *cobra.Command, args []string) error {
	shown := *mustLoadConfig()
	shown.DSN = redactDSN(shown.DSN)
	cfg := &shown

	if len(args) == 0 {
		if humanOutput {
			outputHuman("config: %s\n", config.GlobalConfigPath())
			for _, key := range configKeys {
				outputHuman("%-13s %s\n", key+":", configValue(cfg, key))
			}
			return nil
		}
		return outputJSON(ConfigResponse{Path: config.GlobalConfigPath(), GlobalConfig: cfg})
	}

	key := normalizeKey(args[0])
	if !isConfigKey(key) {
		exitWithError(ExitError, "unknown configuration key: %s", args[0])
	}
	value := configValue(cfg, key)
	if humanOutput {
		fmt.Println(value)
		return nil
	}
	return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
}

var configKeys = []string{"driver", "dsn", "graph", "preamble", "max-rows", "rate-limit", "palette-seed", "state-path", "layout", "browser"}

func isConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

// normalizeKey accepts both max_rows and max-rows.
func normalizeKey(key string) string {
	return strings.ToLower(strings.ReplaceAll(key, "_", "-"))
}

// configValue renders one configuration value as text.
func configValue(cfg *config.GlobalConfig, key string) string {
	switch key {
	case "driver":
		return cfg.Driver
	case "dsn":
		return cfg.DSN
	case "graph":
		return cfg.Graph
	case "preamble":
		return strings.Join(cfg.Preamble, "; ")
	case "max-rows":
		return fmt.Sprint(cfg.MaxRows)
	case "rate-limit":
		return fmt.Sprint(cfg.RateLimit)
	case "palette-seed":
		if cfg.PaletteSeed == nil {
			return ""
		}
		return fmt.Sprint(*cfg.PaletteSeed)
	case "state-path":
		return cfg.StatePath
	case "layout":
		return cfg.Layout
	case "browser":
		return cfg.Browser
	default:
		return ""
	}
}

// redactDSN hides the password of a URL-style connection string.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	return u.Redacted()
}
