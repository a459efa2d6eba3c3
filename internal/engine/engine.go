package engine

import (
	"sync"
	"time"

	"github.com/olivier-w/beatgrid/internal/audio"
	"github.com/olivier-w/beatgrid/internal/timeline"
)

// State is the transport state. Exactly one of the non-playing states holds
// while no scheduler or frame-loop goroutine runs; only StatePlaying
// permits active periodic work.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateEnded
)

const (
	schedulerTick   = 25 * time.Millisecond
	frameTick       = 16 * time.Millisecond // ~60 Hz time-update cadence
	lookaheadSec    = 0.1
	pruneHorizonSec = 0.5
)

// Clock supplies a monotonic time in seconds. Playback time is derived by
// anchoring against this clock rather than incrementing a counter, which
// avoids cumulative drift.
type Clock interface {
	Now() float64
}

type realClock struct {
	origin time.Time
}

func (c realClock) Now() float64 { return time.Since(c.origin).Seconds() }

// Output is the narrow audio capability the engine depends on. Click
// scheduling takes an absolute clip time; the implementation pins the burst
// to the exact sample offset, so timing is immune to scheduler tick jitter.
type Output interface {
	Load(clip *audio.Clip)
	Start()
	Stop()
	SetPosition(seconds float64)
	SetGain(g float64)
	SetClickGain(g float64)
	ScheduleClick(atSeconds float64, accent bool)
	ClearClicks()
}

// EventKind identifies an engine event.
type EventKind int

const (
	// EventTime carries the current playback time, emitted every frame tick.
	EventTime EventKind = iota
	// EventEnded signals natural end of the clip.
	EventEnded
)

// Event is delivered on the engine's subscription channel.
type Event struct {
	Kind EventKind
	Time float64
}

// Engine owns the decoded clip, the transport state machine, the playback
// clock, and the click-track lookahead scheduler.
type Engine struct {
	mu    sync.Mutex
	out   Output
	clock Clock

	state       State
	duration    float64
	startAnchor float64 // clock time at which clip time 0 would be, while playing
	pauseOffset float64 // clip time while not playing

	volume       float64
	clickVolume  float64
	clickEnabled bool

	beats     *timeline.BeatSet
	scheduled map[int]struct{} // beat indices already issued in the lookahead window

	stopFrame chan struct{}
	stopSched chan struct{}

	events chan Event
}

// New creates an engine over the given output. A nil clock uses the wall
// (monotonic) clock.
func New(out Output, clock Clock) *Engine {
	if clock == nil {
		clock = realClock{origin: time.Now()}
	}
	return &Engine{
		out:          out,
		clock:        clock,
		volume:       0.8,
		clickVolume:  0.8,
		clickEnabled: true,
		scheduled:    make(map[int]struct{}),
		events:       make(chan Event, 128),
	}
}

// Events returns the subscription channel for time-update and ended events.
func (e *Engine) Events() <-chan Event { return e.events }

// LoadClip decodes raw audio bytes, stops any current playback, and
// replaces the clip wholesale. Returns the clip duration in seconds.
func (e *Engine) LoadClip(data []byte) (float64, error) {
	clip, err := audio.Decode(data)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopLoopsLocked()
	e.out.Stop()
	e.out.Load(clip)
	e.state = StateIdle
	e.duration = clip.Duration
	e.pauseOffset = 0
	e.scheduled = make(map[int]struct{})
	return clip.Duration, nil
}

// SetBeats swaps in a new beat set atomically. Scheduled-but-unsounded
// clicks from the old grid are dropped.
func (e *Engine) SetBeats(bs *timeline.BeatSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beats = bs
	e.scheduled = make(map[int]struct{})
	e.out.ClearClicks()
}

// StateNow returns the current transport state.
func (e *Engine) StateNow() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Duration returns the loaded clip duration, 0 if no clip.
func (e *Engine) Duration() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.duration
}

// CurrentTime returns the derived playback time: pauseOffset while not
// playing, clock minus anchor while playing.
func (e *Engine) CurrentTime() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentTimeLocked()
}

func (e *Engine) currentTimeLocked() float64 {
	if e.state != StatePlaying {
		return e.pauseOffset
	}
	t := e.clock.Now() - e.startAnchor
	if t < 0 {
		t = 0
	}
	if t > e.duration {
		t = e.duration
	}
	return t
}

// Play starts playback. No-op if already playing or no clip is loaded.
// Playing again after the clip ended restarts from the beginning.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StatePlaying || e.duration == 0 {
		return
	}
	if e.state == StateEnded {
		e.pauseOffset = 0
	}
	e.state = StatePlaying
	e.startAnchor = e.clock.Now() - e.pauseOffset
	e.scheduled = make(map[int]struct{})
	e.out.ClearClicks()
	e.out.SetPosition(e.pauseOffset)
	e.out.Start()
	e.startFrameLoopLocked()
	if e.clickEnabled {
		e.startSchedulerLocked()
	}
}

// Pause captures the current time and stops all periodic activity.
// No-op if not playing.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePlaying {
		return
	}
	e.pauseOffset = e.currentTimeLocked()
	e.stopLoopsLocked()
	e.out.Stop()
	e.state = StatePaused
}

// Stop cancels all periodic activity, rewinds to 0, and returns to idle.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopLoopsLocked()
	e.out.Stop()
	e.out.ClearClicks()
	e.scheduled = make(map[int]struct{})
	e.pauseOffset = 0
	e.out.SetPosition(0)
	e.state = StateIdle
	e.mu.Unlock()
	e.emit(Event{Kind: EventTime, Time: 0})
}

// Seek moves playback to t, clamped to [0, duration]. The order here is
// load-bearing: cancel the scheduler, clear the scheduled set, update the
// clock anchor, then restart the scheduler. Reordering causes duplicate or
// skipped clicks. Seeking while ended re-enters paused at the target; the
// ended state is only entered by natural end of clip.
func (e *Engine) Seek(t float64) {
	e.mu.Lock()
	if t < 0 {
		t = 0
	}
	if t > e.duration {
		t = e.duration
	}
	wasPlaying := e.state == StatePlaying

	e.stopSchedulerLocked()
	e.scheduled = make(map[int]struct{})
	e.out.ClearClicks()

	if wasPlaying {
		e.startAnchor = e.clock.Now() - t
	} else {
		e.pauseOffset = t
		if e.state == StateEnded && t < e.duration {
			e.state = StatePaused
		}
	}
	e.out.SetPosition(t)

	if wasPlaying && e.clickEnabled {
		e.startSchedulerLocked()
	}
	e.mu.Unlock()
	e.emit(Event{Kind: EventTime, Time: t})
}

// SetVolume sets the clip volume (linear, clamped to [0,1]).
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = clamp01(v)
	e.out.SetGain(e.volume)
}

// Volume returns the clip volume.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// SetClickVolume sets the click volume (linear, clamped to [0,1]).
func (e *Engine) SetClickVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clickVolume = clamp01(v)
	e.out.SetClickGain(e.clickVolume)
}

// ClickVolume returns the click volume.
func (e *Engine) ClickVolume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clickVolume
}

// SetClickEnabled toggles the click track. While playing, the scheduler is
// started or stopped immediately; otherwise only the flag changes and the
// next Play picks it up.
func (e *Engine) SetClickEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.clickEnabled == enabled {
		return
	}
	e.clickEnabled = enabled
	if e.state != StatePlaying {
		return
	}
	if enabled {
		e.scheduled = make(map[int]struct{})
		e.startSchedulerLocked()
	} else {
		e.stopSchedulerLocked()
		e.scheduled = make(map[int]struct{})
		e.out.ClearClicks()
	}
}

// ClickEnabled returns whether the click track is on.
func (e *Engine) ClickEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clickEnabled
}

// ScheduledCount returns the size of the in-window scheduled click set.
func (e *Engine) ScheduledCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.scheduled)
}

// Close stops all activity and releases the output.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopLoopsLocked()
	e.out.Stop()
	e.state = StateIdle
	e.mu.Unlock()
}

func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
