package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/prefs"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      prefs.Theme
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Orbit     lipgloss.Color
	Star      lipgloss.Color
	Border    lipgloss.Color
}

var (
	ThemeDark = Theme{
		Name:      prefs.Dark,
		Primary:   lipgloss.Color("#fdb813"), // sun
		Secondary: lipgloss.Color("#00cccc"),
		Accent:    lipgloss.Color("#ff88ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666688"),
		Orbit:     lipgloss.Color("#444466"),
		Star:      lipgloss.Color("#aaaaaa"),
		Border:    lipgloss.Color("#444466"),
	}

	ThemeLight = Theme{
		Name:      prefs.Light,
		Primary:   lipgloss.Color("#c98a00"),
		Secondary: lipgloss.Color("#006b8f"),
		Accent:    lipgloss.Color("#a0208a"),
		Text:      lipgloss.Color("#1a1a1a"),
		Muted:     lipgloss.Color("#777777"),
		Orbit:     lipgloss.Color("#b0b0c0"),
		Star:      lipgloss.Color("#888888"),
		Border:    lipgloss.Color("#b0b0c0"),
	}
)

// GetTheme returns the palette for a stored theme preference.
func GetTheme(t prefs.Theme) Theme {
	if t == prefs.Dark {
		return ThemeDark
	}
	return ThemeLight
}

// BodyColor converts a 0xRRGGBB body color.
func BodyColor(rgb uint32) lipgloss.Color {
	return lipgloss.Color(hexColor(int(rgb>>16&0xff), int(rgb>>8&0xff), int(rgb&0xff)))
}
