// Package styles holds the lipgloss palettes and styles shared by the live
// commentary and the dashboard.
package styles

import "github.com/charmbracelet/lipgloss"

// Match status names understood by StatusColor and StatusIcon.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
	StatusChampion = "champion"
)

// Styles is the rendered style set for one palette.
type Styles struct {
	palette *ColorPalette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Header    lipgloss.Style
	Round     lipgloss.Style
	Muted     lipgloss.Style
	Text      lipgloss.Style
	Winner    lipgloss.Style
	Loser     lipgloss.Style
	Goal      lipgloss.Style
	Forced    lipgloss.Style
	Scored    lipgloss.Style
	Missed    lipgloss.Style
	Champion  lipgloss.Style
	ErrorMsg  lipgloss.Style
	Box       lipgloss.Style
	HelpBar   lipgloss.Style
	StatusDot lipgloss.Style
}

// New builds the style set for a palette.
func New(p *ColorPalette) *Styles {
	return &Styles{
		palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Border).
			MarginBottom(1),

		Round: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		Muted:  lipgloss.NewStyle().Foreground(p.Muted),
		Text:   lipgloss.NewStyle().Foreground(p.Text),
		Winner: lipgloss.NewStyle().Bold(true).Foreground(p.Secondary),
		Loser:  lipgloss.NewStyle().Foreground(p.Muted).Strikethrough(true),
		Goal:   lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Forced: lipgloss.NewStyle().Bold(true).Foreground(p.Warning),
		Scored: lipgloss.NewStyle().Foreground(p.Secondary),
		Missed: lipgloss.NewStyle().Foreground(p.Error),

		Champion: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.StatusChampion).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.StatusChampion).
			Padding(0, 2),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),

		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),

		StatusDot: lipgloss.NewStyle().
			MarginRight(1),
	}
}

// Default returns the style set for the default palette.
func Default() *Styles {
	return New(DefaultPalette())
}

// Plain returns a style set that renders text unchanged, for log files and
// pipes.
func Plain() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		palette:   DefaultPalette(),
		Title:     plain,
		Subtitle:  plain,
		Header:    plain,
		Round:     plain,
		Muted:     plain,
		Text:      plain,
		Winner:    plain,
		Loser:     plain,
		Goal:      plain,
		Forced:    plain,
		Scored:    plain,
		Missed:    plain,
		Champion:  plain,
		ErrorMsg:  plain,
		Box:       plain,
		HelpBar:   plain,
		StatusDot: plain,
	}
}

// StatusColor returns the color for a match status.
func (s *Styles) StatusColor(status string) lipgloss.Color {
	switch status {
	case StatusPlaying:
		return s.palette.StatusPlaying
	case StatusFinished:
		return s.palette.StatusFinished
	case StatusChampion:
		return s.palette.StatusChampion
	default:
		return s.palette.StatusWaiting
	}
}

// StatusIcon returns the icon for a match status.
func StatusIcon(status string) string {
	switch status {
	case StatusPlaying:
		return "●"
	case StatusFinished:
		return "✓"
	case StatusChampion:
		return "★"
	default:
		return "○"
	}
}
