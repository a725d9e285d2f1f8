package styles

import "testing"

func TestStatusColor(t *testing.T) {
	s := Default()
	tests := []struct {
		status   string
		expected string
	}{
		{StatusWaiting, "#9CA3AF"},
		{StatusPlaying, "#10B981"},
		{StatusFinished, "#A78BFA"},
		{StatusChampion, "#FBBF24"},
		{"unknown", "#9CA3AF"}, // Falls back to waiting
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got := s.StatusColor(tt.status)
			if string(got) != tt.expected {
				t.Errorf("StatusColor(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{StatusWaiting, "○"},
		{StatusPlaying, "●"},
		{StatusFinished, "✓"},
		{StatusChampion, "★"},
		{"unknown", "○"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			if got := StatusIcon(tt.status); got != tt.expected {
				t.Errorf("StatusIcon(%q) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestGetPalette(t *testing.T) {
	for _, name := range BuiltinThemes() {
		t.Run(name, func(t *testing.T) {
			if !IsValidTheme(name) {
				t.Errorf("IsValidTheme(%q) = false", name)
			}
			p := GetPalette(ThemeName(name))
			if p.Primary == "" || p.StatusChampion == "" {
				t.Errorf("palette %q has empty colors", name)
			}
		})
	}

	if IsValidTheme("solarized") {
		t.Error("IsValidTheme(solarized) = true")
	}
	if got := GetPalette("solarized").Primary; got != DefaultPalette().Primary {
		t.Errorf("unknown theme should fall back to default, got primary %q", got)
	}
}

func TestPlain(t *testing.T) {
	s := Plain()
	if got := s.Winner.Render("Lens"); got != "Lens" {
		t.Errorf("Plain().Winner.Render() = %q, want unchanged text", got)
	}
}
