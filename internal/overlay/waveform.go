package overlay

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivier-w/beatgrid/internal/timeline"
)

// Waveform renders the amplitude envelope from precomputed positive and
// negative peak arrays sampled at a fixed density across the clip.
type Waveform struct {
	peaksPos []float64
	peaksNeg []float64
	duration float64
}

// NewWaveform creates a renderer over equal-length parallel peak arrays.
func NewWaveform(duration float64, peaksPos, peaksNeg []float64) *Waveform {
	n := len(peaksPos)
	if len(peaksNeg) < n {
		n = len(peaksNeg)
	}
	return &Waveform{
		peaksPos: peaksPos[:n],
		peaksNeg: peaksNeg[:n],
		duration: duration,
	}
}

// segments of vertical resolution per character cell
const segmentsPerCell = 8

// Render draws the visible window of the envelope as one column of
// eighth-block glyphs per view column, with marked columns styled through
// the given palette. Rendering is pure and idempotent.
func (w *Waveform) Render(vp *timeline.Viewport, marks Marks, width, height int) string {
	if width <= 0 || height <= 0 || len(w.peaksPos) == 0 || w.duration <= 0 {
		return ""
	}

	pointsPerSec := float64(len(w.peaksPos)) / w.duration
	virtual := height * segmentsPerCell
	center := virtual / 2

	// For each column find the peak extremes over its index range.
	top := make([]int, width)    // highest filled segment (screen coords)
	bottom := make([]int, width) // lowest filled segment
	for col := 0; col < width; col++ {
		t0 := vp.XToTime(float64(col), width)
		t1 := vp.XToTime(float64(col+1), width)
		lo := int(t0 * pointsPerSec)
		hi := int(t1 * pointsPerSec)
		if hi <= lo {
			hi = lo + 1
		}
		if lo < 0 {
			lo = 0
		}
		if hi > len(w.peaksPos) {
			hi = len(w.peaksPos)
		}
		var pos, neg float64
		for i := lo; i < hi; i++ {
			if w.peaksPos[i] > pos {
				pos = w.peaksPos[i]
			}
			if w.peaksNeg[i] < neg {
				neg = w.peaksNeg[i]
			}
		}
		top[col] = clampSeg(center-int(pos*float64(center)), virtual)
		bottom[col] = clampSeg(center-int(neg*float64(center)), virtual)
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			glyph := cellGlyph(row, top[col], bottom[col], height)
			if kind, ok := marks[col]; ok {
				if glyph == " " {
					glyph = "│"
				}
				sb.WriteString(markStyle(kind).Render(glyph))
			} else {
				sb.WriteString(waveStyle.Render(glyph))
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// EmptyLane draws the waveform body with no envelope data, still showing
// the beat and playhead lines so the grid is usable before peaks arrive.
func EmptyLane(marks Marks, width, height int) string {
	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			if kind, ok := marks[col]; ok {
				sb.WriteString(markStyle(kind).Render("│"))
			} else {
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func clampSeg(y, virtual int) int {
	if y < 0 {
		return 0
	}
	if y >= virtual {
		return virtual - 1
	}
	return y
}

// cellGlyph picks the block character for one cell of a column whose fill
// spans virtual segments [top, bottom]. Cells above the center line use
// top-anchored blocks, cells below use bottom-anchored blocks, so the bar
// grows outward from the middle of the lane.
func cellGlyph(row, top, bottom, height int) string {
	base := row * segmentsPerCell
	lo := base
	if top > lo {
		lo = top
	}
	hi := base + segmentsPerCell - 1
	if bottom < hi {
		hi = bottom
	}
	if lo > hi {
		return " "
	}
	if row < height/2 {
		// extent measured down from the top of the cell
		return upperBlock(hi - base + 1)
	}
	// extent measured up from the bottom of the cell
	return lowerBlock(base + segmentsPerCell - lo)
}

func upperBlock(extent int) string {
	blocks := [...]string{"▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"}
	if extent < 1 {
		return " "
	}
	if extent > segmentsPerCell {
		extent = segmentsPerCell
	}
	return blocks[extent-1]
}

func lowerBlock(extent int) string {
	blocks := [...]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}
	if extent < 1 {
		return " "
	}
	if extent > segmentsPerCell {
		extent = segmentsPerCell
	}
	return blocks[extent-1]
}

// Ruler renders the two-line time ruler for the visible window: a tick line
// and a label line, spaced by the viewport's zoom-keyed tick interval.
func Ruler(vp *timeline.Viewport, width int) string {
	tickLine := blankLine(width)
	labelLine := blankLine(width)
	if width > 0 {
		interval := vp.TickInterval()
		first := math.Ceil(vp.Start()/interval) * interval
		for t := first; t <= vp.End(); t += interval {
			col := int(vp.TimeToX(t, width))
			if col < 0 || col >= width {
				continue
			}
			tickLine[col] = '|'
			writeLabel(labelLine, col, formatRulerTime(t))
		}
	}
	return rulerStyle.Render(string(tickLine)) + "\n" + rulerStyle.Render(string(labelLine))
}

func formatRulerTime(t float64) string {
	total := int(t + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
