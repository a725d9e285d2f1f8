package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete knockout configuration
type Config struct {
	Tournament TournamentConfig `mapstructure:"tournament"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Roster     RosterConfig     `mapstructure:"roster"`
	Report     ReportConfig     `mapstructure:"report"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	TUI        TUIConfig        `mapstructure:"tui"`
}

// TournamentConfig controls how the bracket is driven
type TournamentConfig struct {
	// MaxTeams is the largest roster accepted (default: 64, must be a power of two)
	MaxTeams int `mapstructure:"max_teams"`
	// Mode selects the execution mode: "auto", "manual", or "" to ask the operator
	Mode string `mapstructure:"mode"`
	// Seed makes a run reproducible; 0 picks a random seed
	Seed int64 `mapstructure:"seed"`
	// SweepIntervalMs is the minimum delay between two empty pairing sweeps in auto mode (default: 2)
	SweepIntervalMs int `mapstructure:"sweep_interval_ms"`
}

// SimulationConfig holds the match outcome model
type SimulationConfig struct {
	// DefaultDuration is the number of simulated minutes when the roster has no duration line (default: 90)
	DefaultDuration int `mapstructure:"default_duration"`
	// GoalChance is the per-minute probability that a given side scores (default: 0.01)
	GoalChance float64 `mapstructure:"goal_chance"`
	// ShootoutKicks is the number of kicks per side before sudden death (default: 5)
	ShootoutKicks int `mapstructure:"shootout_kicks"`
	// HomePenalty is the success probability of the first-listed team's kicks (default: 0.8)
	HomePenalty float64 `mapstructure:"home_penalty"`
	// AwayPenalty is the success probability of the second-listed team's kicks (default: 0.6)
	AwayPenalty float64 `mapstructure:"away_penalty"`
	// TickMs is wall-clock time per simulated minute in auto mode (default: 5, 0 = unpaced)
	TickMs int `mapstructure:"tick_ms"`
	// ManualTickMs is wall-clock time per simulated minute in manual mode (default: 1000)
	ManualTickMs int `mapstructure:"manual_tick_ms"`
}

// RosterConfig controls roster ingestion
type RosterConfig struct {
	// File is the roster read when no path is given on the command line (default: "equipe.txt")
	File string `mapstructure:"file"`
	// Shuffle randomizes the team order before the draw (default: true)
	Shuffle bool `mapstructure:"shuffle"`
}

// ReportConfig controls the match report written at the end of a run
type ReportConfig struct {
	// Path is the report destination (default: "matchs.txt", "" disables the report)
	Path string `mapstructure:"path"`
	// Format is one of: "text", "json", "yaml", "xlsx" (default: "text")
	Format string `mapstructure:"format"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether a log file is written (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is the directory holding knockout.log (default: ".knockout/logs")
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the size at which the log file rotates (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated files kept (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	// Addr is the listen address for /metrics and /healthz, e.g. ":9090" (default: "", disabled)
	Addr string `mapstructure:"addr"`
}

// TUIConfig controls the live commentary and the dashboard
type TUIConfig struct {
	// Theme is the color theme: "default", "monokai", "dracula" or "nord" (default: "default")
	Theme string `mapstructure:"theme"`
	// Color enables ANSI styling of the commentary (default: true)
	Color bool `mapstructure:"color"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Tournament: TournamentConfig{
			MaxTeams:        64,
			Mode:            "",
			Seed:            0,
			SweepIntervalMs: 2,
		},
		Simulation: SimulationConfig{
			DefaultDuration: 90,
			GoalChance:      0.01,
			ShootoutKicks:   5,
			HomePenalty:     0.8,
			AwayPenalty:     0.6,
			TickMs:          5,
			ManualTickMs:    1000,
		},
		Roster: RosterConfig{
			File:    "equipe.txt",
			Shuffle: true,
		},
		Report: ReportConfig{
			Path:   "matchs.txt",
			Format: "text",
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        filepath.Join(".knockout", "logs"),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
		TUI: TUIConfig{
			Theme: "default",
			Color: true,
		},
	}
}

// SweepInterval returns the empty-sweep backoff as a time.Duration
func (c *TournamentConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// Tick returns the auto-mode pacing as a time.Duration
func (c *SimulationConfig) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ManualTick returns the manual-mode pacing as a time.Duration
func (c *SimulationConfig) ManualTick() time.Duration {
	return time.Duration(c.ManualTickMs) * time.Millisecond
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Tournament defaults
	viper.SetDefault("tournament.max_teams", defaults.Tournament.MaxTeams)
	viper.SetDefault("tournament.mode", defaults.Tournament.Mode)
	viper.SetDefault("tournament.seed", defaults.Tournament.Seed)
	viper.SetDefault("tournament.sweep_interval_ms", defaults.Tournament.SweepIntervalMs)

	// Simulation defaults
	viper.SetDefault("simulation.default_duration", defaults.Simulation.DefaultDuration)
	viper.SetDefault("simulation.goal_chance", defaults.Simulation.GoalChance)
	viper.SetDefault("simulation.shootout_kicks", defaults.Simulation.ShootoutKicks)
	viper.SetDefault("simulation.home_penalty", defaults.Simulation.HomePenalty)
	viper.SetDefault("simulation.away_penalty", defaults.Simulation.AwayPenalty)
	viper.SetDefault("simulation.tick_ms", defaults.Simulation.TickMs)
	viper.SetDefault("simulation.manual_tick_ms", defaults.Simulation.ManualTickMs)

	// Roster defaults
	viper.SetDefault("roster.file", defaults.Roster.File)
	viper.SetDefault("roster.shuffle", defaults.Roster.Shuffle)

	// Report defaults
	viper.SetDefault("report.path", defaults.Report.Path)
	viper.SetDefault("report.format", defaults.Report.Format)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)

	// Metrics defaults
	viper.SetDefault("metrics.addr", defaults.Metrics.Addr)

	// TUI defaults
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.color", defaults.TUI.Color)
}

// Load reads the configuration from viper and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults when the
// loaded configuration is invalid
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "knockout")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".knockout"
	}
	return filepath.Join(home, ".config", "knockout")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidModes returns the accepted tournament.mode values
func ValidModes() []string {
	return []string{"auto", "manual"}
}

// ValidReportFormats returns the accepted report.format values
func ValidReportFormats() []string {
	return []string{"text", "json", "yaml", "xlsx"}
}
