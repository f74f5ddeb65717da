package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/orrery/internal/bodies"
)

// Styles are derived from a Theme each time it changes.
type Styles struct {
	Title    lipgloss.Style
	Subtle   lipgloss.Style
	Key      lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	On       lipgloss.Style
	Off      lipgloss.Style
	Panel    lipgloss.Style
	PanelTop lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Subtle: lipgloss.NewStyle().Foreground(t.Muted),
		Key:    lipgloss.NewStyle().Bold(true).Foreground(t.Secondary),
		Label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		Value:  lipgloss.NewStyle().Foreground(t.Text),
		On:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00cc66")),
		Off:    lipgloss.NewStyle().Foreground(t.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		PanelTop: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).MarginBottom(1),
	}
}

// FormatSpeed renders a speed multiplier the way the speed slider shows it.
func FormatSpeed(v float64) string { return fmt.Sprintf("%.1fx", v) }

// InfoBox renders the info panel for one entity.
func (s Styles) InfoBox(name string, pairs []bodies.InfoPair) string {
	var b strings.Builder
	b.WriteString(s.PanelTop.Render(name))
	for _, p := range pairs {
		b.WriteString("\n" + s.Label.Render(p.Label) + s.Value.Render(p.Value))
	}
	b.WriteString("\n\n" + s.Key.Render("x") + s.Subtle.Render(" close"))
	return s.Panel.Render(b.String())
}

// Flag renders a boolean setting.
func (s Styles) Flag(name string, on bool) string {
	if on {
		return s.Subtle.Render(name+" ") + s.On.Render("on")
	}
	return s.Subtle.Render(name+" ") + s.Off.Render("off")
}

// Hints renders key/description pairs on one line.
func (s Styles) Hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.Key.Render(pairs[i]) + s.Subtle.Render(" "+pairs[i+1]))
	}
	return b.String()
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
