package ui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/beatgrid/internal/engine"
	"github.com/olivier-w/beatgrid/internal/overlay"
	"github.com/olivier-w/beatgrid/internal/remote"
	"github.com/olivier-w/beatgrid/internal/timeline"
)

type appState int

const (
	stateNoFile appState = iota
	stateLoading
	stateReady
)

type editKind int

const (
	editNone editKind = iota
	editBPM
	editOffset
)

const (
	seekStepSec     = 5.0
	fineSeekStepSec = 1.0
	zoomStep        = 1.25
	volumeStep      = 0.05
	snapToleranceSec = 0.5
	waveformPoints  = 2000
)

// Model is the Bubbletea model wiring the collaborators, the playback
// engine, and the overlay renderers together.
type Model struct {
	state  appState
	eng    *engine.Engine
	client *remote.Client

	path     string
	fileData []byte // raw bytes, held until the upload completes
	title    string
	fileID   string
	duration float64

	vp       *timeline.Viewport
	beats    *timeline.BeatSet
	sections *timeline.SectionSet
	wave     *overlay.Waveform

	playhead float64
	follow   bool
	follower *scrollFollower

	tap     TapTempo
	editing editKind
	input   textinput.Model
	spin    spinner.Model

	width  int
	height int
	// True once the first WindowSizeMsg delivered real dimensions; the
	// overlays cannot lay out before that.
	sized bool

	status     string
	statusErr  bool
	statusTime time.Time

	loadingStep string
	quitting    bool
}

// New creates the orchestrator for one file. data holds the raw audio
// bytes; title comes from tags (may be empty).
func New(eng *engine.Engine, client *remote.Client, path, title string, data []byte) Model {
	in := textinput.New()
	in.CharLimit = 12
	in.Width = 12
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		state:    stateNoFile,
		eng:      eng,
		client:   client,
		path:     path,
		fileData: data,
		title:    title,
		follow:   true,
		follower: newScrollFollower(),
		input:    in,
		spin:     sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.loadClipCmd(),
		listenEngine(m.eng),
		tea.SetWindowTitle("beatgrid — "+m.title),
	)
}

func (m Model) loadClipCmd() tea.Cmd {
	eng, data := m.eng, m.fileData
	return func() tea.Msg {
		dur, err := eng.LoadClip(data)
		return clipLoadedMsg{duration: dur, err: err}
	}
}

func (m Model) uploadCmd() tea.Cmd {
	client, path, data := m.client, m.path, m.fileData
	return func() tea.Msg {
		info, err := client.Upload(path, data)
		return uploadedMsg{info: info, err: err}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	client, id := m.client, m.fileID
	return func() tea.Msg {
		a, err := client.Analyze(id)
		return analyzedMsg{analysis: a, err: err}
	}
}

func (m Model) waveformCmd() tea.Cmd {
	client, id := m.client, m.fileID
	return func() tea.Msg {
		w, err := client.Waveform(id, waveformPoints)
		return waveformMsg{data: w, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sized = true
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clipLoadedMsg:
		if msg.err != nil {
			m.state = stateNoFile
			m.setError(fmt.Sprintf("load failed: %v", msg.err))
			return m, nil
		}
		m.state = stateLoading
		m.loadingStep = "uploading"
		m.duration = msg.duration
		m.vp = timeline.NewViewport(msg.duration)
		return m, m.uploadCmd()

	case uploadedMsg:
		if msg.err != nil {
			return m.enterReadyWithError(fmt.Sprintf("upload failed: %v", msg.err))
		}
		m.fileID = msg.info.ID
		m.fileData = nil
		m.loadingStep = "analyzing"
		return m, m.analyzeCmd()

	case analyzedMsg:
		if msg.err != nil {
			return m.enterReadyWithError(fmt.Sprintf("analysis failed: %v", msg.err))
		}
		m.swapAnalysis(msg.analysis)
		m.loadingStep = "fetching waveform"
		return m, m.waveformCmd()

	case waveformMsg:
		if msg.err != nil {
			return m.enterReadyWithError(fmt.Sprintf("waveform failed: %v", msg.err))
		}
		m.wave = overlay.NewWaveform(msg.data.Duration, msg.data.PeaksPositive, msg.data.PeaksNegative)
		m.state = stateReady
		return m, nil

	case beatsUpdatedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("beat update failed: %v", msg.err))
			return m, nil
		}
		m.swapBeats(msg.beats)
		m.setStatus(fmt.Sprintf("beat grid updated (%.1f BPM)", msg.beats.BPM))
		return m, nil

	case exportSavedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("export failed: %v", msg.err))
		} else {
			m.setStatus("exported to " + msg.path)
		}
		return m, nil

	case engineEventMsg:
		return m.handleEngineEvent(engine.Event(msg))

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// enterReadyWithError lands in the ready state with whatever data arrived
// so far; the clip itself is playable even when a collaborator call failed.
func (m Model) enterReadyWithError(text string) (tea.Model, tea.Cmd) {
	m.state = stateReady
	m.setError(text)
	return m, nil
}

// swapAnalysis installs the analysis result atomically: beat set and
// section set are replaced wholesale, never patched.
func (m *Model) swapAnalysis(a *remote.Analysis) {
	m.swapBeats(&a.Beats)
	sections := make([]timeline.Section, len(a.Structure.Sections))
	for i, s := range a.Structure.Sections {
		sections[i] = timeline.Section{Start: s.Start, End: s.End, Label: s.Label, Color: s.Color}
	}
	m.sections = timeline.NewSectionSet(sections)
}

func (m *Model) swapBeats(b *remote.Beats) {
	m.beats = timeline.NewBeatSet(b.BPM, b.TimeSignature, b.Beats, b.Downbeats, b.BeatNumbers)
	m.eng.SetBeats(m.beats)
}

func (m Model) handleEngineEvent(ev engine.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case engine.EventTime:
		m.playhead = ev.Time
		if m.vp != nil && m.follow && m.eng.StateNow() == engine.StatePlaying {
			target := m.vp.EnsureVisible(m.playhead)
			if target != m.vp.ScrollOffset() {
				m.vp.SetScrollOffset(m.follower.step(target))
			} else {
				m.follower.sync(target)
			}
		}
	case engine.EventEnded:
		m.playhead = ev.Time
	}
	return m, listenEngine(m.eng)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.state != stateReady || !m.sized || m.vp == nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	lay := m.layout()
	t := m.vp.XToTime(float64(msg.X), m.width)
	switch {
	case msg.Y == lay.structureRow:
		// a click on a section band requests a seek to its start
		if m.sections != nil {
			if sec, ok := m.sections.SectionAt(t); ok {
				m.eng.Seek(sec.Start)
				m.setStatus("section: " + sec.Label)
			}
		}
	case msg.Y >= lay.waveTop && msg.Y < lay.waveTop+lay.waveHeight:
		m.eng.Seek(t)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing != editNone {
		return m.handleEditKey(msg)
	}
	if isQuit(msg) {
		m.quitting = true
		m.eng.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
	}
	if m.state != stateReady {
		return m, nil
	}

	switch msg.String() {
	case " ":
		if m.eng.StateNow() == engine.StatePlaying {
			m.eng.Pause()
		} else {
			m.eng.Play()
		}
	case "x":
		m.eng.Stop()
	case "left":
		m.eng.Seek(m.eng.CurrentTime() - seekStepSec)
	case "right":
		m.eng.Seek(m.eng.CurrentTime() + seekStepSec)
	case "shift+left":
		m.eng.Seek(m.eng.CurrentTime() - fineSeekStepSec)
	case "shift+right":
		m.eng.Seek(m.eng.CurrentTime() + fineSeekStepSec)
	case "home":
		m.eng.Seek(0)
	case ".":
		// snap the playhead onto the nearest beat
		if m.beats != nil {
			if i, ok := m.beats.FindNearest(m.eng.CurrentTime(), snapToleranceSec); ok {
				m.eng.Seek(m.beats.At(i))
			}
		}
	case "+", "=":
		if m.vp != nil {
			m.vp.Zoom(zoomStep)
			m.follower.sync(m.vp.ScrollOffset())
		}
	case "-":
		if m.vp != nil {
			m.vp.Zoom(1 / zoomStep)
			m.follower.sync(m.vp.ScrollOffset())
		}
	case "h":
		m.scrollBy(-0.1)
	case "l":
		m.scrollBy(0.1)
	case "f":
		m.follow = !m.follow
		if m.follow && m.vp != nil {
			m.follower.sync(m.vp.ScrollOffset())
		}
	case "c":
		m.eng.SetClickEnabled(!m.eng.ClickEnabled())
	case "up":
		m.eng.SetVolume(m.eng.Volume() + volumeStep)
	case "down":
		m.eng.SetVolume(m.eng.Volume() - volumeStep)
	case "0":
		m.eng.SetClickVolume(m.eng.ClickVolume() + volumeStep)
	case "9":
		m.eng.SetClickVolume(m.eng.ClickVolume() - volumeStep)
	case "t":
		m.tap.Tap(time.Now())
		if bpm, ok := m.tap.BPM(); ok {
			m.setStatus(fmt.Sprintf("tap: %.1f BPM (T to apply)", bpm))
		} else {
			m.setStatus("tap: keep tapping...")
		}
	case "T":
		if bpm, ok := m.tap.BPM(); ok && m.fileID != "" {
			return m, m.updateBeatsCmd(remote.BeatUpdate{BPM: &bpm})
		}
	case "b":
		return m.beginEdit(editBPM)
	case "o":
		return m.beginEdit(editOffset)
	case "n":
		m.jumpSection(+1)
	case "p":
		m.jumpSection(-1)
	case "e":
		return m, m.exportCmd("json")
	case "E":
		return m, m.exportCmd("csv")
	}
	return m, nil
}

func (m *Model) scrollBy(frac float64) {
	if m.vp == nil {
		return
	}
	m.vp.Scroll(frac * m.vp.VisibleDuration())
	m.follower.sync(m.vp.ScrollOffset())
}

// jumpSection seeks to the start of the section dir steps away from the one
// containing the playhead.
func (m *Model) jumpSection(dir int) {
	if m.sections == nil || m.sections.Len() == 0 {
		return
	}
	t := m.eng.CurrentTime()
	cur := -1
	for i := 0; i < m.sections.Len(); i++ {
		if s := m.sections.At(i); t >= s.Start && t < s.End {
			cur = i
			break
		}
	}
	next := cur + dir
	if cur == -1 && dir < 0 {
		next = 0
	}
	if next < 0 || next >= m.sections.Len() {
		return
	}
	sec := m.sections.At(next)
	m.eng.Seek(sec.Start)
	m.setStatus("section: " + sec.Label)
}

func (m Model) beginEdit(kind editKind) (tea.Model, tea.Cmd) {
	if m.fileID == "" {
		m.setError("no analysis to edit")
		return m, nil
	}
	m.editing = kind
	m.input.SetValue("")
	if kind == editBPM && m.beats != nil {
		m.input.Placeholder = fmt.Sprintf("%.1f", m.beats.BPM())
	} else {
		m.input.Placeholder = "0.0"
	}
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		value, err := strconv.ParseFloat(m.input.Value(), 64)
		kind := m.editing
		m.editing = editNone
		m.input.Blur()
		if err != nil {
			m.setError("not a number: " + m.input.Value())
			return m, nil
		}
		var update remote.BeatUpdate
		if kind == editBPM {
			update.BPM = &value
		} else {
			update.Offset = &value
		}
		return m, m.updateBeatsCmd(update)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateBeatsCmd submits the edit; the beat set is only replaced when the
// server confirms, so a failure leaves everything untouched.
func (m Model) updateBeatsCmd(update remote.BeatUpdate) tea.Cmd {
	client, id := m.client, m.fileID
	return func() tea.Msg {
		b, err := client.UpdateBeats(id, update)
		return beatsUpdatedMsg{beats: b, err: err}
	}
}

func (m Model) exportCmd(format string) tea.Cmd {
	if m.fileID == "" {
		return nil
	}
	client, id, path := m.client, m.fileID, m.path
	return func() tea.Msg {
		data, err := client.Export(id, format)
		if err != nil {
			return exportSavedMsg{err: err}
		}
		dest := path + ".beats." + format
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return exportSavedMsg{err: err}
		}
		return exportSavedMsg{path: dest}
	}
}

func (m *Model) setStatus(text string) {
	m.status = text
	m.statusErr = false
	m.statusTime = time.Now()
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
	m.statusTime = time.Now()
}
