package overlay

import (
	"strings"

	"github.com/olivier-w/beatgrid/internal/timeline"
)

// labelMinWidthPct suppresses a band's text label when the rendered band is
// narrower than this percentage of the viewport.
const labelMinWidthPct = 5.0

// Structure renders the song-structure lane: one colored band per section
// intersecting the visible window, laid out by the same time→fraction
// transform the viewport uses.
func Structure(vp *timeline.Viewport, ss *timeline.SectionSet, width int) string {
	if width <= 0 {
		return ""
	}
	cells := make([]string, width)
	for i := range cells {
		cells[i] = " "
	}
	if ss != nil {
		for _, band := range ss.Bands(vp.Start(), vp.End()) {
			left := int(band.LeftPct / 100 * float64(width))
			w := int(band.WidthPct/100*float64(width) + 0.5)
			if w < 1 {
				w = 1
			}
			if left+w > width {
				w = width - left
			}
			if left < 0 || w <= 0 {
				continue
			}
			label := ""
			if band.WidthPct >= labelMinWidthPct {
				label = band.Section.Label
			}
			style := sectionStyle(band.Section.Color)
			text := fitLabel(label, w)
			for i := 0; i < w; i++ {
				cells[left+i] = style.Render(string(text[i]))
			}
		}
	}
	return strings.Join(cells, "")
}

// fitLabel centers label inside a band w cells wide, truncating as needed.
func fitLabel(label string, w int) []rune {
	cells := make([]rune, w)
	for i := range cells {
		cells[i] = ' '
	}
	runes := []rune(label)
	if len(runes) > w {
		runes = runes[:w]
	}
	start := (w - len(runes)) / 2
	copy(cells[start:], runes)
	return cells
}
