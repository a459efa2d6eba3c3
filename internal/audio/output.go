package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Output drives the audio device for one clip at a time: the mixer supplies
// the PCM stream, oto plays it. The playback engine talks to Output through
// its narrow interface and never touches oto directly.
type Output struct {
	ctx     *oto.Context
	player  *oto.Player
	mixer   *Mixer
	gain    float64
	click   float64
	playing bool
}

// NewOutput initializes the shared audio context.
func NewOutput() (*Output, error) {
	ctx, err := initOto()
	if err != nil {
		return nil, fmt.Errorf("initializing audio output: %w", err)
	}
	return &Output{ctx: ctx, gain: 0.8, click: 0.8}, nil
}

// Load replaces the current clip wholesale. Any running playback stops.
func (o *Output) Load(clip *Clip) {
	if o.player != nil {
		o.player.Pause()
		o.player = nil
	}
	o.playing = false
	o.mixer = NewMixer(clip)
	o.mixer.SetGain(o.gain)
	o.mixer.SetClickGain(o.click)
	o.player = o.ctx.NewPlayer(o.mixer)
}

// Start begins or resumes streaming from the mixer position.
func (o *Output) Start() {
	if o.player == nil {
		return
	}
	o.player.Play()
	o.playing = true
}

// Stop pauses the device without losing the mixer position.
func (o *Output) Stop() {
	if o.player == nil {
		return
	}
	o.player.Pause()
	o.playing = false
}

// SetPosition moves the stream and recreates the device player so buffered
// audio from the old position is flushed.
func (o *Output) SetPosition(seconds float64) {
	if o.mixer == nil {
		return
	}
	wasPlaying := o.playing
	if o.player != nil {
		o.player.Pause()
	}
	o.mixer.SetPosition(seconds)
	o.player = o.ctx.NewPlayer(o.mixer)
	if wasPlaying {
		o.player.Play()
	}
}

// SetGain sets the clip volume (linear, clamped to [0,1]).
func (o *Output) SetGain(g float64) {
	o.gain = clamp01(g)
	if o.mixer != nil {
		o.mixer.SetGain(g)
	}
}

// SetClickGain sets the click volume (linear, clamped to [0,1]).
func (o *Output) SetClickGain(g float64) {
	o.click = clamp01(g)
	if o.mixer != nil {
		o.mixer.SetClickGain(g)
	}
}

// ScheduleClick pins a click burst at the given clip time.
func (o *Output) ScheduleClick(atSeconds float64, accent bool) {
	if o.mixer != nil {
		o.mixer.ScheduleClick(atSeconds, accent)
	}
}

// ClearClicks drops every scheduled click burst.
func (o *Output) ClearClicks() {
	if o.mixer != nil {
		o.mixer.ClearClicks()
	}
}

// Close releases the device player.
func (o *Output) Close() {
	if o.player != nil {
		o.player.Pause()
		o.player = nil
	}
	o.playing = false
}
