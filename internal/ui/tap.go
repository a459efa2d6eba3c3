package ui

import "time"

const (
	tapWindowSize = 8               // most-recent taps kept
	tapResetAfter = 2 * time.Second // gap that starts a fresh window
)

// TapTempo derives a BPM estimate from the intervals between manual taps.
type TapTempo struct {
	taps []time.Time
}

// Tap records a tap at the given instant. A gap longer than tapResetAfter
// since the previous tap clears the window first.
func (t *TapTempo) Tap(now time.Time) {
	if n := len(t.taps); n > 0 && now.Sub(t.taps[n-1]) > tapResetAfter {
		t.taps = t.taps[:0]
	}
	t.taps = append(t.taps, now)
	if len(t.taps) > tapWindowSize {
		t.taps = t.taps[len(t.taps)-tapWindowSize:]
	}
}

// BPM returns the current estimate from the mean inter-tap interval, or
// (0, false) with fewer than two taps.
func (t *TapTempo) BPM() (float64, bool) {
	if len(t.taps) < 2 {
		return 0, false
	}
	total := t.taps[len(t.taps)-1].Sub(t.taps[0])
	meanMs := total.Seconds() * 1000 / float64(len(t.taps)-1)
	if meanMs <= 0 {
		return 0, false
	}
	return 60000 / meanMs, true
}

// Reset clears the tap window.
func (t *TapTempo) Reset() {
	t.taps = t.taps[:0]
}
