package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// ThemeName represents a named color theme.
type ThemeName string

// Available theme names.
const (
	ThemeDefault ThemeName = "default" // Purple/green dark theme
	ThemeMonokai ThemeName = "monokai" // Classic Monokai editor colors
	ThemeDracula ThemeName = "dracula" // Dracula theme colors
	ThemeNord    ThemeName = "nord"    // Nord theme - cool blue-gray
)

// BuiltinThemes returns all built-in theme names.
func BuiltinThemes() []string {
	return []string{
		string(ThemeDefault),
		string(ThemeMonokai),
		string(ThemeDracula),
		string(ThemeNord),
	}
}

// IsValidTheme checks if a theme name is known.
func IsValidTheme(name string) bool {
	return slices.Contains(BuiltinThemes(), name)
}

// ColorPalette defines the color scheme for a theme.
type ColorPalette struct {
	// Primary accent color (titles, round headers)
	Primary lipgloss.Color
	// Secondary accent color (winners, success)
	Secondary lipgloss.Color
	// Warning color (shoot-outs, forced goals)
	Warning lipgloss.Color
	// Error color (failures, missed kicks)
	Error lipgloss.Color
	// Muted color (eliminated teams, timestamps)
	Muted lipgloss.Color
	// Text color (primary text)
	Text lipgloss.Color
	// Border color (panel borders)
	Border lipgloss.Color

	// Match status colors
	StatusWaiting  lipgloss.Color
	StatusPlaying  lipgloss.Color
	StatusFinished lipgloss.Color
	StatusChampion lipgloss.Color
}

// DefaultPalette returns the default purple/green dark theme palette.
func DefaultPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#A78BFA"), // Purple (violet-400)
		Secondary: lipgloss.Color("#10B981"), // Green
		Warning:   lipgloss.Color("#F59E0B"), // Amber
		Error:     lipgloss.Color("#F87171"), // Red (red-400)
		Muted:     lipgloss.Color("#9CA3AF"), // Gray
		Text:      lipgloss.Color("#F9FAFB"), // Light text
		Border:    lipgloss.Color("#6B7280"), // Gray-500

		StatusWaiting:  lipgloss.Color("#9CA3AF"), // Gray
		StatusPlaying:  lipgloss.Color("#10B981"), // Green
		StatusFinished: lipgloss.Color("#A78BFA"), // Purple
		StatusChampion: lipgloss.Color("#FBBF24"), // Yellow
	}
}

// MonokaiPalette returns the classic Monokai editor theme palette.
func MonokaiPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#F92672"), // Monokai pink/magenta
		Secondary: lipgloss.Color("#A6E22E"), // Monokai green
		Warning:   lipgloss.Color("#E6DB74"), // Monokai yellow
		Error:     lipgloss.Color("#F92672"), // Monokai pink
		Muted:     lipgloss.Color("#75715E"), // Monokai comment gray
		Text:      lipgloss.Color("#F8F8F2"), // Monokai foreground
		Border:    lipgloss.Color("#49483E"), // Monokai selection

		StatusWaiting:  lipgloss.Color("#75715E"),
		StatusPlaying:  lipgloss.Color("#A6E22E"),
		StatusFinished: lipgloss.Color("#AE81FF"),
		StatusChampion: lipgloss.Color("#FD971F"),
	}
}

// DraculaPalette returns the Dracula theme palette.
func DraculaPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#BD93F9"), // Dracula purple
		Secondary: lipgloss.Color("#50FA7B"), // Dracula green
		Warning:   lipgloss.Color("#F1FA8C"), // Dracula yellow
		Error:     lipgloss.Color("#FF5555"), // Dracula red
		Muted:     lipgloss.Color("#6272A4"), // Dracula comment
		Text:      lipgloss.Color("#F8F8F2"), // Dracula foreground
		Border:    lipgloss.Color("#44475A"), // Dracula selection

		StatusWaiting:  lipgloss.Color("#6272A4"),
		StatusPlaying:  lipgloss.Color("#50FA7B"),
		StatusFinished: lipgloss.Color("#BD93F9"),
		StatusChampion: lipgloss.Color("#FFB86C"),
	}
}

// NordPalette returns the Nord theme palette.
func NordPalette() *ColorPalette {
	return &ColorPalette{
		Primary:   lipgloss.Color("#88C0D0"), // Nord frost (cyan)
		Secondary: lipgloss.Color("#A3BE8C"), // Nord aurora green
		Warning:   lipgloss.Color("#EBCB8B"), // Nord aurora yellow
		Error:     lipgloss.Color("#BF616A"), // Nord aurora red
		Muted:     lipgloss.Color("#4C566A"), // Nord polar night 3
		Text:      lipgloss.Color("#ECEFF4"), // Nord snow storm 2
		Border:    lipgloss.Color("#3B4252"), // Nord polar night 1

		StatusWaiting:  lipgloss.Color("#4C566A"),
		StatusPlaying:  lipgloss.Color("#A3BE8C"),
		StatusFinished: lipgloss.Color("#81A1C1"),
		StatusChampion: lipgloss.Color("#EBCB8B"),
	}
}

// GetPalette returns the palette for a theme name, falling back to the
// default palette for unknown names.
func GetPalette(name ThemeName) *ColorPalette {
	switch name {
	case ThemeMonokai:
		return MonokaiPalette()
	case ThemeDracula:
		return DraculaPalette()
	case ThemeNord:
		return NordPalette()
	default:
		return DefaultPalette()
	}
}
