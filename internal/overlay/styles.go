package overlay

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	waveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5F87AF", Dark: "#5F87AF"})

	beatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#AAAA55", Dark: "#AAAA55"})

	downbeatStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#DDDD33", Dark: "#FFFF55"})

	playheadStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#CC2222", Dark: "#FF5555"})

	rulerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#888888", Dark: "#888888"})
)

func markStyle(kind MarkKind) lipgloss.Style {
	switch kind {
	case MarkPlayhead:
		return playheadStyle
	case MarkDownbeat:
		return downbeatStyle
	default:
		return beatStyle
	}
}

// sectionStyle builds a band style from the section's hex color, picking a
// black or white label by luminance so the text stays readable.
func sectionStyle(hex string) lipgloss.Style {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = colorful.Color{R: 0.4, G: 0.4, B: 0.4}
		hex = c.Hex()
	}
	fg := "#000000"
	if _, _, l := c.Hsl(); l < 0.5 {
		fg = "#FFFFFF"
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Foreground(lipgloss.Color(fg))
}
