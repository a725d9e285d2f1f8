package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/knockout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify knockout configuration",
	Long: `View or modify knockout configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  knockout config set tournament.mode auto
  knockout config set simulation.goal_chance 0.02
  knockout config set report.format json

Valid keys:
  tournament.max_teams         - Largest roster accepted (power of two)
  tournament.mode              - auto, manual, or empty to ask
  tournament.seed              - Random seed (0 picks one)
  tournament.sweep_interval_ms - Delay between empty pairing sweeps
  simulation.default_duration  - Minutes per match when the roster has none
  simulation.goal_chance       - Per-minute goal probability per side
  simulation.shootout_kicks    - Kicks per side before sudden death
  simulation.home_penalty      - First-listed team's kick success rate
  simulation.away_penalty      - Second-listed team's kick success rate
  simulation.tick_ms           - Wall-clock time per minute in auto mode
  simulation.manual_tick_ms    - Wall-clock time per minute in manual mode
  roster.file                  - Default roster file
  roster.shuffle               - Shuffle the draw (true/false)
  report.path                  - Report destination, empty to disable
  report.format                - text, json, yaml or xlsx
  logging.enabled              - Write a log file (true/false)
  logging.level                - debug, info, warn or error
  logging.dir                  - Log directory
  logging.max_size_mb          - Rotation size
  logging.max_backups          - Rotated files kept
  metrics.addr                 - Metrics listen address, empty to disable
  tui.theme                    - default, monokai, dracula or nord
  tui.color                    - Colored commentary (true/false)`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/knockout/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configSetCmd.ValidArgsFunction = configKeyCompletion
}

// configKeys maps every settable key to its value type.
var configKeys = map[string]string{
	"tournament.max_teams":         "int",
	"tournament.mode":              "string",
	"tournament.seed":              "int",
	"tournament.sweep_interval_ms": "int",
	"simulation.default_duration":  "int",
	"simulation.goal_chance":       "float",
	"simulation.shootout_kicks":    "int",
	"simulation.home_penalty":      "float",
	"simulation.away_penalty":      "float",
	"simulation.tick_ms":           "int",
	"simulation.manual_tick_ms":    "int",
	"roster.file":                  "string",
	"roster.shuffle":               "bool",
	"report.path":                  "string",
	"report.format":                "string",
	"logging.enabled":              "bool",
	"logging.level":                "string",
	"logging.dir":                  "string",
	"logging.max_size_mb":          "int",
	"logging.max_backups":          "int",
	"metrics.addr":                 "string",
	"tui.theme":                    "string",
	"tui.color":                    "bool",
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	_, _ = fmt.Fprintln(out, "Current configuration:")
	_, _ = fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		_, _ = fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		_, _ = fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	_, _ = fmt.Fprintln(out)

	writeConfig(out, cfg)
	return nil
}

func writeConfig(out io.Writer, cfg *config.Config) {
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(out, format, args...) }

	p("tournament:\n")
	p("  max_teams: %d\n", cfg.Tournament.MaxTeams)
	p("  mode: %q\n", cfg.Tournament.Mode)
	p("  seed: %d\n", cfg.Tournament.Seed)
	p("  sweep_interval_ms: %d\n", cfg.Tournament.SweepIntervalMs)

	p("simulation:\n")
	p("  default_duration: %d\n", cfg.Simulation.DefaultDuration)
	p("  goal_chance: %g\n", cfg.Simulation.GoalChance)
	p("  shootout_kicks: %d\n", cfg.Simulation.ShootoutKicks)
	p("  home_penalty: %g\n", cfg.Simulation.HomePenalty)
	p("  away_penalty: %g\n", cfg.Simulation.AwayPenalty)
	p("  tick_ms: %d\n", cfg.Simulation.TickMs)
	p("  manual_tick_ms: %d\n", cfg.Simulation.ManualTickMs)

	p("roster:\n")
	p("  file: %s\n", cfg.Roster.File)
	p("  shuffle: %v\n", cfg.Roster.Shuffle)

	p("report:\n")
	p("  path: %s\n", cfg.Report.Path)
	p("  format: %s\n", cfg.Report.Format)

	p("logging:\n")
	p("  enabled: %v\n", cfg.Logging.Enabled)
	p("  level: %s\n", cfg.Logging.Level)
	p("  dir: %s\n", cfg.Logging.Dir)
	p("  max_size_mb: %d\n", cfg.Logging.MaxSizeMB)
	p("  max_backups: %d\n", cfg.Logging.MaxBackups)

	p("metrics:\n")
	p("  addr: %q\n", cfg.Metrics.Addr)

	p("tui:\n")
	p("  theme: %s\n", cfg.TUI.Theme)
	p("  color: %v\n", cfg.TUI.Color)
}

// parseConfigValue converts value to the type registered for key.
func parseConfigValue(key, value string) (any, error) {
	keyType, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'knockout config set --help' to see valid keys", key)
	}

	switch keyType {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return intVal, nil
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a number", key)
		}
		return f, nil
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	typedValue, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	previous := viper.Get(key)
	viper.Set(key, typedValue)
	if _, err := config.Load(); err != nil {
		viper.Set(key, previous)
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Write to config file
	configFile := config.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	_, _ = fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigFile is written by config init.
const defaultConfigFile = `# knockout configuration

tournament:
  # Largest roster accepted, must be a power of two
  max_teams: 64
  # Execution mode: auto, manual, or "" to ask at start
  mode: ""
  # Random seed, 0 picks one per run
  seed: 0
  # Minimum delay between two empty pairing sweeps in auto mode
  sweep_interval_ms: 2

simulation:
  # Minutes per match when the roster has no duration line
  default_duration: 90
  # Per-minute probability that a given side scores
  goal_chance: 0.01
  # Shoot-out kicks per side before sudden death
  shootout_kicks: 5
  # Kick success rates of the first- and second-listed team
  home_penalty: 0.8
  away_penalty: 0.6
  # Wall-clock time per simulated minute (0 = as fast as possible)
  tick_ms: 5
  manual_tick_ms: 1000

roster:
  file: equipe.txt
  shuffle: true

report:
  # Empty path disables the report
  path: matchs.txt
  # Options: text, json, yaml, xlsx
  format: text

logging:
  enabled: true
  # Options: debug, info, warn, error
  level: info
  dir: .knockout/logs
  max_size_mb: 10
  max_backups: 3

metrics:
  # e.g. ":9090" serves /metrics and /healthz
  addr: ""

tui:
  # Options: default, monokai, dracula, nord
  theme: default
  color: true
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'knockout config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Created config file at %s\n", configFile)
	_, _ = fmt.Fprintln(out, "Edit this file to customize knockout's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	configFile := config.ConfigFile()
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		_, _ = fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		_, _ = fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	_, _ = fmt.Fprintln(out, "\nSearch paths:")
	_, _ = fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	_, _ = fmt.Fprintf(out, "  2. $HOME/.config/knockout/config.yaml\n")
	_, _ = fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	_, _ = fmt.Fprintln(out, "\nEnvironment variables: KNOCKOUT_* (e.g., KNOCKOUT_TOURNAMENT_MODE)")

	return nil
}

// sortedConfigKeys returns the settable keys in order.
func sortedConfigKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// configKeyCompletion offers the settable keys for shell completion.
func configKeyCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var matches []string
	for _, k := range sortedConfigKeys() {
		if strings.HasPrefix(k, toComplete) {
			matches = append(matches, k)
		}
	}
	return matches, cobra.ShellCompDirectiveNoFileComp
}
