package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Tournament
	if cfg.Tournament.MaxTeams != 64 {
		t.Errorf("Tournament.MaxTeams = %d, want 64", cfg.Tournament.MaxTeams)
	}
	if cfg.Tournament.Mode != "" {
		t.Errorf("Tournament.Mode = %q, want empty", cfg.Tournament.Mode)
	}

	// Simulation
	if cfg.Simulation.DefaultDuration != 90 {
		t.Errorf("Simulation.DefaultDuration = %d, want 90", cfg.Simulation.DefaultDuration)
	}
	if cfg.Simulation.GoalChance != 0.01 {
		t.Errorf("Simulation.GoalChance = %v, want 0.01", cfg.Simulation.GoalChance)
	}
	if cfg.Simulation.ShootoutKicks != 5 {
		t.Errorf("Simulation.ShootoutKicks = %d, want 5", cfg.Simulation.ShootoutKicks)
	}
	if cfg.Simulation.HomePenalty != 0.8 || cfg.Simulation.AwayPenalty != 0.6 {
		t.Errorf("penalties = %v/%v, want 0.8/0.6", cfg.Simulation.HomePenalty, cfg.Simulation.AwayPenalty)
	}

	// Files
	if cfg.Roster.File != "equipe.txt" {
		t.Errorf("Roster.File = %q, want %q", cfg.Roster.File, "equipe.txt")
	}
	if !cfg.Roster.Shuffle {
		t.Error("Roster.Shuffle should be true by default")
	}
	if cfg.Report.Path != "matchs.txt" || cfg.Report.Format != "text" {
		t.Errorf("Report = %+v", cfg.Report)
	}

	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() should validate, got %v", ValidationErrors(errs))
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()

	if got := cfg.Tournament.SweepInterval(); got != 2*time.Millisecond {
		t.Errorf("SweepInterval() = %v, want 2ms", got)
	}
	if got := cfg.Simulation.Tick(); got != 5*time.Millisecond {
		t.Errorf("Tick() = %v, want 5ms", got)
	}
	if got := cfg.Simulation.ManualTick(); got != time.Second {
		t.Errorf("ManualTick() = %v, want 1s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"max teams not power of two", func(c *Config) { c.Tournament.MaxTeams = 48 }, "tournament.max_teams"},
		{"max teams one", func(c *Config) { c.Tournament.MaxTeams = 1 }, "tournament.max_teams"},
		{"unknown mode", func(c *Config) { c.Tournament.Mode = "turbo" }, "tournament.mode"},
		{"negative sweep interval", func(c *Config) { c.Tournament.SweepIntervalMs = -1 }, "tournament.sweep_interval_ms"},
		{"zero duration", func(c *Config) { c.Simulation.DefaultDuration = 0 }, "simulation.default_duration"},
		{"goal chance too high", func(c *Config) { c.Simulation.GoalChance = 0.6 }, "simulation.goal_chance"},
		{"no shootout kicks", func(c *Config) { c.Simulation.ShootoutKicks = 0 }, "simulation.shootout_kicks"},
		{"certain home penalty", func(c *Config) { c.Simulation.HomePenalty = 1 }, "simulation.home_penalty"},
		{"impossible away penalty", func(c *Config) { c.Simulation.AwayPenalty = 0 }, "simulation.away_penalty"},
		{"negative tick", func(c *Config) { c.Simulation.TickMs = -5 }, "simulation.tick_ms"},
		{"negative manual tick", func(c *Config) { c.Simulation.ManualTickMs = -5 }, "simulation.manual_tick_ms"},
		{"bad report format", func(c *Config) { c.Report.Format = "pdf" }, "report.format"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"negative log size", func(c *Config) { c.Logging.MaxSizeMB = -1 }, "logging.max_size_mb"},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, "logging.max_backups"},
		{"unknown theme", func(c *Config) { c.TUI.Theme = "solarized" }, "tui.theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.field)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	if ValidationErrors(nil).Error() != "" {
		t.Error("empty ValidationErrors should render as empty string")
	}

	one := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	if one.Error() != "a: bad (got: 1)" {
		t.Errorf("single error = %q", one.Error())
	}

	two := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}, {Field: "b", Value: 2, Message: "worse"}}
	if !strings.HasPrefix(two.Error(), "2 validation errors:") {
		t.Errorf("multi error = %q", two.Error())
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		if got := ConfigDir(); got != "/custom/config/knockout" {
			t.Errorf("ConfigDir() = %q, want %q", got, "/custom/config/knockout")
		}
		if got := ConfigFile(); got != filepath.Join("/custom/config/knockout", "config.yaml") {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		if got := ConfigDir(); !strings.HasSuffix(got, filepath.Join(".config", "knockout")) {
			t.Errorf("ConfigDir() = %q", got)
		}
	})
}

func TestLoad(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Simulation.DefaultDuration != 90 {
		t.Errorf("DefaultDuration = %d, want 90", cfg.Simulation.DefaultDuration)
	}

	viper.Set("simulation.home_penalty", 1.5)
	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject an invalid penalty probability")
	}

	// Get falls back to defaults on invalid config
	if got := Get(); got.Simulation.HomePenalty != 0.8 {
		t.Errorf("Get().Simulation.HomePenalty = %v, want 0.8", got.Simulation.HomePenalty)
	}
}
