package overlay

import (
	"strconv"

	"github.com/olivier-w/beatgrid/internal/timeline"
)

// MarkKind classifies a marked column in the waveform body.
type MarkKind int

const (
	MarkBeat MarkKind = iota
	MarkDownbeat
	MarkPlayhead
)

// Marks maps view columns to the kind of vertical line drawn through them.
// The playhead outranks a downbeat, which outranks a plain beat.
type Marks map[int]MarkKind

// Set records a mark, keeping the highest-ranking kind per column.
func (m Marks) Set(col int, kind MarkKind) {
	if cur, ok := m[col]; ok && cur > kind {
		return
	}
	m[col] = kind
}

// renderSlackSec extends the beat query window past both viewport edges so
// lines never pop in at the boundary while scrolling.
const renderSlackSec = 1.0

// BeatMarks computes the marked columns for every beat within the slack-
// extended viewport, using the shared time→column mapping.
func BeatMarks(vp *timeline.Viewport, bs *timeline.BeatSet, width int) Marks {
	marks := make(Marks)
	if bs == nil || width <= 0 {
		return marks
	}
	lo, hi := bs.Range(vp.Start()-renderSlackSec, vp.End()+renderSlackSec)
	for i := lo; i < hi; i++ {
		t := bs.At(i)
		col := int(vp.TimeToX(t, width))
		if col < 0 || col >= width {
			continue
		}
		if bs.IsDownbeat(t) {
			marks.Set(col, MarkDownbeat)
		} else {
			marks.Set(col, MarkBeat)
		}
	}
	return marks
}

// MeasureLabels renders the measure-number line shown above the waveform:
// each visible downbeat gets its measure number, counted over the entire
// beat set so numbering stays globally consistent while scrolling.
func MeasureLabels(vp *timeline.Viewport, bs *timeline.BeatSet, width int) string {
	line := blankLine(width)
	if bs == nil || width <= 0 {
		return string(line)
	}
	lo, hi := bs.Range(vp.Start()-renderSlackSec, vp.End()+renderSlackSec)
	for i := lo; i < hi; i++ {
		t := bs.At(i)
		if !bs.IsDownbeat(t) {
			continue
		}
		col := int(vp.TimeToX(t, width))
		if col < 0 || col >= width {
			continue
		}
		writeLabel(line, col, strconv.Itoa(bs.MeasureNumber(i)))
	}
	return string(line)
}

func blankLine(width int) []rune {
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	return line
}

func writeLabel(line []rune, col int, label string) {
	for i, ch := range label {
		if col+i >= 0 && col+i < len(line) {
			line[col+i] = ch
		}
	}
}
