package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Iron-Ham/knockout/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "simulation.home_penalty")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateTournament()...)
	errors = append(errors, c.validateSimulation()...)
	errors = append(errors, c.validateReport()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)

	return errors
}

// isPowerOfTwo reports whether n is 2^k for some k ≥ 1
func isPowerOfTwo(n int) bool {
	return n >= 2 && n&(n-1) == 0
}

func (c *Config) validateTournament() []ValidationError {
	var errors []ValidationError

	if !isPowerOfTwo(c.Tournament.MaxTeams) {
		errors = append(errors, ValidationError{
			Field:   "tournament.max_teams",
			Value:   c.Tournament.MaxTeams,
			Message: "must be a power of two of at least 2",
		})
	}

	if c.Tournament.Mode != "" && !slices.Contains(ValidModes(), c.Tournament.Mode) {
		errors = append(errors, ValidationError{
			Field:   "tournament.mode",
			Value:   c.Tournament.Mode,
			Message: fmt.Sprintf("must be empty or one of: %s", strings.Join(ValidModes(), ", ")),
		})
	}

	if c.Tournament.SweepIntervalMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "tournament.sweep_interval_ms",
			Value:   c.Tournament.SweepIntervalMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateSimulation() []ValidationError {
	var errors []ValidationError
	s := c.Simulation

	if s.DefaultDuration < 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.default_duration",
			Value:   s.DefaultDuration,
			Message: "must be at least 1",
		})
	}

	// Both sides share one uniform draw per minute.
	if s.GoalChance < 0 || s.GoalChance > 0.5 {
		errors = append(errors, ValidationError{
			Field:   "simulation.goal_chance",
			Value:   s.GoalChance,
			Message: "must be between 0 and 0.5",
		})
	}

	if s.ShootoutKicks < 1 {
		errors = append(errors, ValidationError{
			Field:   "simulation.shootout_kicks",
			Value:   s.ShootoutKicks,
			Message: "must be at least 1",
		})
	}

	// Open interval so sudden death always has a chance to end.
	for _, pen := range []struct {
		field string
		p     float64
	}{
		{"simulation.home_penalty", s.HomePenalty},
		{"simulation.away_penalty", s.AwayPenalty},
	} {
		if pen.p <= 0 || pen.p >= 1 {
			errors = append(errors, ValidationError{
				Field:   pen.field,
				Value:   pen.p,
				Message: "must be strictly between 0 and 1",
			})
		}
	}

	if s.TickMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.tick_ms",
			Value:   s.TickMs,
			Message: "must be non-negative",
		})
	}
	if s.ManualTickMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "simulation.manual_tick_ms",
			Value:   s.ManualTickMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateReport() []ValidationError {
	var errors []ValidationError

	if !slices.Contains(ValidReportFormats(), c.Report.Format) {
		errors = append(errors, ValidationError{
			Field:   "report.format",
			Value:   c.Report.Format,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidReportFormats(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be non-negative",
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	if c.TUI.Theme == "" || styles.IsValidTheme(c.TUI.Theme) {
		return nil
	}
	return []ValidationError{{
		Field:   "tui.theme",
		Value:   c.TUI.Theme,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(styles.BuiltinThemes(), ", ")),
	}}
}
