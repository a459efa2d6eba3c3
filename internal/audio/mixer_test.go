package audio

import (
	"io"
	"testing"
)

func silentClip(seconds float64) *Clip {
	return newClip(make([]int16, int(seconds*SampleRate)*2))
}

func readFrames(t *testing.T, m *Mixer, frames int) []byte {
	t.Helper()
	buf := make([]byte, frames*frameSize)
	total := 0
	for total < len(buf) {
		n, err := m.Read(buf[total:])
		if err != nil {
			t.Fatalf("unexpected read error: %v", err)
		}
		total += n
	}
	return buf
}

func frameValue(buf []byte, frame int) int16 {
	return int16(buf[frame*frameSize]) | int16(buf[frame*frameSize+1])<<8
}

func TestMixerClickLandsOnExactFrame(t *testing.T) {
	m := NewMixer(silentClip(1))
	m.SetClickGain(1)
	m.ScheduleClick(0.5, false)

	startFrame := int(0.5 * SampleRate)
	buf := readFrames(t, m, startFrame+100)

	// Silence right up to the scheduled frame.
	for f := startFrame - 50; f < startFrame; f++ {
		if frameValue(buf, f) != 0 {
			t.Fatalf("expected silence at frame %d, got %d", f, frameValue(buf, f))
		}
	}
	// Non-zero output inside the burst window. The first samples sit in the
	// attack ramp, so scan a few.
	var heard bool
	for f := startFrame; f < startFrame+100; f++ {
		if frameValue(buf, f) != 0 {
			heard = true
			break
		}
	}
	if !heard {
		t.Fatal("expected click audio at the scheduled frame")
	}
}

func TestMixerLateScheduleStillSounds(t *testing.T) {
	m := NewMixer(silentClip(1))
	m.SetClickGain(1)

	// Stream has already passed the first 10ms of the burst.
	readFrames(t, m, int(0.51*SampleRate))
	m.ScheduleClick(0.5, false)

	buf := readFrames(t, m, 200)
	var heard bool
	for f := 0; f < 200; f++ {
		if frameValue(buf, f) != 0 {
			heard = true
			break
		}
	}
	if !heard {
		t.Fatal("expected the tail of a late-scheduled click to sound")
	}
}

func TestMixerDropsFullyPassedClicks(t *testing.T) {
	m := NewMixer(silentClip(1))
	readFrames(t, m, int(0.8*SampleRate))

	m.ScheduleClick(0.5, false) // burst ended at ~0.55
	m.mu.Lock()
	n := len(m.clicks)
	m.mu.Unlock()
	if n != 0 {
		t.Fatalf("expected fully passed click to be dropped, kept %d", n)
	}
}

func TestMixerClearClicks(t *testing.T) {
	m := NewMixer(silentClip(1))
	m.ScheduleClick(0.5, false)
	m.ScheduleClick(0.7, true)
	m.ClearClicks()

	buf := readFrames(t, m, int(0.9*SampleRate))
	for f := 0; f < len(buf)/frameSize; f++ {
		if frameValue(buf, f) != 0 {
			t.Fatalf("expected silence after clear, got %d at frame %d", frameValue(buf, f), f)
		}
	}
}

func TestMixerEOFOnlyAfterClicksDrain(t *testing.T) {
	m := NewMixer(silentClip(0.1))
	m.SetClickGain(1)
	// Click near the end; its burst extends past the clip.
	m.ScheduleClick(0.09, true)

	buf := make([]byte, 4096)
	var sawEOF bool
	for i := 0; i < 10000; i++ {
		_, err := m.Read(buf)
		if err == io.EOF {
			sawEOF = true
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !sawEOF {
		t.Fatal("expected EOF after the click tail drained")
	}
	if got := m.Position(); got < 0.1 {
		t.Fatalf("expected position past clip end, got %f", got)
	}
}

func TestMixerSetPositionClamps(t *testing.T) {
	m := NewMixer(silentClip(1))
	m.SetPosition(-5)
	if got := m.Position(); got != 0 {
		t.Fatalf("expected position 0, got %f", got)
	}
	m.SetPosition(99)
	if got := m.Position(); got != 1.0 {
		t.Fatalf("expected position clamped to 1.0, got %f", got)
	}
}

func TestClickBurstEnvelope(t *testing.T) {
	if len(beatBurst) != int(clickDecaySec*SampleRate) {
		t.Fatalf("unexpected burst length %d", len(beatBurst))
	}
	if beatBurst[0] != 0 {
		t.Fatalf("expected attack to start from 0, got %f", beatBurst[0])
	}
	// The end of the decay should be near-silent.
	tail := beatBurst[len(beatBurst)-1]
	if tail > 0.01 || tail < -0.01 {
		t.Fatalf("expected decayed tail, got %f", tail)
	}
}
