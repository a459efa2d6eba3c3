package audio

import (
	"io"
	"sync"
)

// activeClick is a tone burst pinned to an absolute clip frame.
type activeClick struct {
	startFrame int
	burst      []float32
}

// Mixer streams a clip's PCM with gain applied and mixes click bursts into
// the output at exact sample offsets. Pinning clicks to absolute clip
// frames is what makes the click track sample-locked: however late the
// scheduler tick that issued a click, the burst lands on its beat's sample.
type Mixer struct {
	mu        sync.Mutex
	clip      *Clip
	pos       int // absolute frame index into the clip
	gain      float64
	clickGain float64
	clicks    []activeClick
}

// NewMixer creates a mixer over the given clip.
func NewMixer(clip *Clip) *Mixer {
	return &Mixer{
		clip:      clip,
		gain:      0.8,
		clickGain: 0.8,
	}
}

// Read implements io.Reader for the audio device. It emits silence past the
// end of the clip only while scheduled clicks remain, then reports EOF.
func (m *Mixer) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clipFrames := m.clip.Frames()
	if m.pos >= clipFrames && len(m.clicks) == 0 {
		return 0, io.EOF
	}

	frames := len(p) / frameSize
	if frames == 0 {
		return 0, nil
	}
	if m.pos < clipFrames && m.pos+frames > clipFrames {
		frames = clipFrames - m.pos
	}

	for i := 0; i < frames; i++ {
		frame := m.pos + i
		var l, r float64
		if frame < clipFrames {
			l = float64(m.clip.Samples[frame*2]) * m.gain
			r = float64(m.clip.Samples[frame*2+1]) * m.gain
		}
		if c := m.clickSample(frame); c != 0 {
			l += c * m.clickGain * 32767
			r += c * m.clickGain * 32767
		}
		writeFrame(p[i*frameSize:], clampInt16(int(l)), clampInt16(int(r)))
	}

	m.pos += frames
	m.pruneClicksLocked()
	return frames * frameSize, nil
}

func (m *Mixer) clickSample(frame int) float64 {
	var sum float64
	for _, c := range m.clicks {
		off := frame - c.startFrame
		if off >= 0 && off < len(c.burst) {
			sum += float64(c.burst[off])
		}
	}
	return sum
}

func (m *Mixer) pruneClicksLocked() {
	kept := m.clicks[:0]
	for _, c := range m.clicks {
		if c.startFrame+len(c.burst) > m.pos {
			kept = append(kept, c)
		}
	}
	m.clicks = kept
}

func writeFrame(p []byte, l, r int16) {
	p[0] = byte(l)
	p[1] = byte(l >> 8)
	p[2] = byte(r)
	p[3] = byte(r >> 8)
}

// ScheduleClick pins a click burst at the given clip time. Bursts whose
// window has already fully passed are dropped.
func (m *Mixer) ScheduleClick(atSeconds float64, accent bool) {
	burst := beatBurst
	if accent {
		burst = downbeatBurst
	}
	start := int(atSeconds * SampleRate)
	m.mu.Lock()
	defer m.mu.Unlock()
	if start+len(burst) <= m.pos {
		return
	}
	m.clicks = append(m.clicks, activeClick{startFrame: start, burst: burst})
}

// ClearClicks drops every scheduled click. Called around seeks so stale
// bursts never sound at the new position.
func (m *Mixer) ClearClicks() {
	m.mu.Lock()
	m.clicks = nil
	m.mu.Unlock()
}

// SetPosition moves the stream to the given clip time.
func (m *Mixer) SetPosition(seconds float64) {
	frame := int(seconds * SampleRate)
	m.mu.Lock()
	clipFrames := m.clip.Frames()
	if frame < 0 {
		frame = 0
	}
	if frame > clipFrames {
		frame = clipFrames
	}
	m.pos = frame
	m.mu.Unlock()
}

// Position returns the stream position in seconds.
func (m *Mixer) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.pos) / SampleRate
}

// SetGain sets the clip gain, clamped to [0, 1].
func (m *Mixer) SetGain(g float64) {
	m.mu.Lock()
	m.gain = clamp01(g)
	m.mu.Unlock()
}

// SetClickGain sets the click gain, clamped to [0, 1].
func (m *Mixer) SetClickGain(g float64) {
	m.mu.Lock()
	m.clickGain = clamp01(g)
	m.mu.Unlock()
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
