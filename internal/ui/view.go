package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/olivier-w/beatgrid/internal/engine"
	"github.com/olivier-w/beatgrid/internal/overlay"
	"github.com/olivier-w/beatgrid/internal/util"
)

// viewLayout fixes the row positions of the lanes so mouse hits can be
// resolved against the same geometry the renderer used.
type viewLayout struct {
	structureRow int
	labelRow     int
	waveTop      int
	waveHeight   int
	rulerTop     int
}

const fixedRows = 11 // everything except the waveform body

func (m Model) layout() viewLayout {
	waveH := m.height - fixedRows
	if waveH < 5 {
		waveH = 5
	}
	return viewLayout{
		structureRow: 4,
		labelRow:     5,
		waveTop:      6,
		waveHeight:   waveH,
		rulerTop:     6 + waveH,
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.sized {
		return "\n  starting..."
	}

	switch m.state {
	case stateNoFile:
		if m.status != "" {
			return "\n  " + errorStyle.Render(m.status) + "\n\n  " + helpStyle.Render("q quit")
		}
		return "\n  " + statusStyle.Render("no file loaded")
	case stateLoading:
		return fmt.Sprintf("\n  %s %s %s",
			m.spin.View(),
			titleStyle.Render(m.title),
			statusStyle.Render(m.loadingStep+"..."))
	}

	lay := m.layout()
	var sb strings.Builder

	sb.WriteString(m.headerLine())
	sb.WriteByte('\n')
	sb.WriteByte('\n')
	sb.WriteString(m.transportLine())
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	sb.WriteString(overlay.Structure(m.vp, m.sections, m.width))
	sb.WriteByte('\n')
	sb.WriteString(overlay.MeasureLabels(m.vp, m.beats, m.width))
	sb.WriteByte('\n')

	marks := overlay.BeatMarks(m.vp, m.beats, m.width)
	if col := int(m.vp.TimeToX(m.playhead, m.width)); col >= 0 && col < m.width {
		marks.Set(col, overlay.MarkPlayhead)
	}
	if m.wave != nil {
		sb.WriteString(m.wave.Render(m.vp, marks, m.width, lay.waveHeight))
	} else {
		sb.WriteString(overlay.EmptyLane(marks, m.width, lay.waveHeight))
	}
	sb.WriteByte('\n')

	sb.WriteString(overlay.Ruler(m.vp, m.width))
	sb.WriteByte('\n')
	sb.WriteByte('\n')

	sb.WriteString(m.statusLine())
	sb.WriteByte('\n')
	sb.WriteString(helpStyle.Render(helpText()))

	return sb.String()
}

func (m Model) headerLine() string {
	return headerStyle.Render("beatgrid") + "  " + titleStyle.Render(m.title)
}

func (m Model) transportLine() string {
	var icon string
	switch m.eng.StateNow() {
	case engine.StatePlaying:
		icon = "▶"
	case engine.StatePaused:
		icon = "⏸"
	case engine.StateEnded:
		icon = "⏹ end"
	default:
		icon = "⏹"
	}

	total := util.FormatDuration(time.Duration(m.duration * float64(time.Second)))
	pos := timeStyle.Render(util.FormatSeconds(m.playhead) + " / " + total)

	click := "click off"
	if m.eng.ClickEnabled() {
		click = fmt.Sprintf("click %d%%", int(m.eng.ClickVolume()*100+0.5))
	}

	parts := []string{
		icon,
		pos,
		fmt.Sprintf("vol %d%%", int(m.eng.Volume()*100+0.5)),
		click,
		fmt.Sprintf("zoom %.2fx", m.vp.ZoomFactor()),
	}
	if m.beats != nil {
		parts = append(parts, fmt.Sprintf("%.1f BPM %s", m.beats.BPM(), m.beats.TimeSignature()))
	}
	if m.follow {
		parts = append(parts, "follow")
	}
	return statusStyle.Render(strings.Join(parts, "   "))
}

func (m Model) statusLine() string {
	if m.editing != editNone {
		prompt := "bpm: "
		if m.editing == editOffset {
			prompt = "offset (s): "
		}
		return statusStyle.Render(prompt) + m.input.View()
	}
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return errorStyle.Render(m.status)
	}
	return statusStyle.Render(m.status)
}
