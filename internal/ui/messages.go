package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatgrid/internal/engine"
	"github.com/olivier-w/beatgrid/internal/remote"
)

type clipLoadedMsg struct {
	duration float64
	err      error
}

type uploadedMsg struct {
	info *remote.FileInfo
	err  error
}

type analyzedMsg struct {
	analysis *remote.Analysis
	err      error
}

type waveformMsg struct {
	data *remote.WaveformData
	err  error
}

type beatsUpdatedMsg struct {
	beats *remote.Beats
	err   error
}

type exportSavedMsg struct {
	path string
	err  error
}

type engineEventMsg engine.Event

// listenEngine forwards the next engine event into the Bubbletea loop. The
// handler re-issues it, forming the event pump.
func listenEngine(e *engine.Engine) tea.Cmd {
	return func() tea.Msg {
		return engineEventMsg(<-e.Events())
	}
}
