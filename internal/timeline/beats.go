package timeline

import "sort"

// DownbeatEpsilon is the tolerance, in seconds, within which a downbeat
// timestamp is considered to match a beat timestamp.
const DownbeatEpsilon = 0.01

// BeatSet is an immutable set of ascending beat timestamps with the subset
// marked as downbeats and the externally assigned per-beat numbers. It is
// replaced wholesale on any BPM/offset edit, never patched in place.
type BeatSet struct {
	bpm           float64
	timeSignature string
	beats         []float64
	downbeats     []float64
	numbers       []int
}

// NewBeatSet builds a BeatSet from analysis output. The slices are copied;
// beats and downbeats are sorted defensively since the mapping below
// depends on ascending order.
func NewBeatSet(bpm float64, timeSignature string, beats, downbeats []float64, numbers []int) *BeatSet {
	b := make([]float64, len(beats))
	copy(b, beats)
	sort.Float64s(b)
	d := make([]float64, len(downbeats))
	copy(d, downbeats)
	sort.Float64s(d)
	n := make([]int, len(numbers))
	copy(n, numbers)
	return &BeatSet{
		bpm:           bpm,
		timeSignature: timeSignature,
		beats:         b,
		downbeats:     d,
		numbers:       n,
	}
}

// BPM returns the set's tempo estimate.
func (s *BeatSet) BPM() float64 { return s.bpm }

// TimeSignature returns the time signature string, e.g. "4/4".
func (s *BeatSet) TimeSignature() string { return s.timeSignature }

// Len returns the number of beats.
func (s *BeatSet) Len() int { return len(s.beats) }

// At returns the timestamp of beat i.
func (s *BeatSet) At(i int) float64 { return s.beats[i] }

// Number returns the externally assigned beat number (1..N) for beat i,
// or 0 if the analysis carried no numbering.
func (s *BeatSet) Number(i int) int {
	if i < 0 || i >= len(s.numbers) {
		return 0
	}
	return s.numbers[i]
}

// IsDownbeat reports whether some downbeat timestamp lies within
// DownbeatEpsilon of t.
func (s *BeatSet) IsDownbeat(t float64) bool {
	i := sort.SearchFloat64s(s.downbeats, t-DownbeatEpsilon)
	return i < len(s.downbeats) && s.downbeats[i] <= t+DownbeatEpsilon
}

// Range returns the half-open index range [lo, hi) of beats whose
// timestamps fall inside [start, end).
func (s *BeatSet) Range(start, end float64) (lo, hi int) {
	lo = sort.SearchFloat64s(s.beats, start)
	hi = sort.SearchFloat64s(s.beats, end)
	return lo, hi
}

// FindNearest returns the index of the beat closest to t if its distance is
// within tolerance, else (-1, false). Linear scan; beat sets are small and
// this runs on user edits, not per frame.
func (s *BeatSet) FindNearest(t, tolerance float64) (int, bool) {
	best := -1
	bestDist := tolerance
	for i, b := range s.beats {
		dist := b - t
		if dist < 0 {
			dist = -dist
		}
		if dist <= bestDist {
			best = i
			bestDist = dist
		}
	}
	if best < 0 {
		return -1, false
	}
	return best, true
}

// MeasureNumber returns the 1-based measure number of beat i, counted by
// the number of downbeats at or before it across the entire set, so the
// numbering stays globally consistent while scrolling. Returns 0 for beats
// before the first downbeat.
func (s *BeatSet) MeasureNumber(i int) int {
	if i < 0 || i >= len(s.beats) {
		return 0
	}
	t := s.beats[i] + DownbeatEpsilon
	return sort.SearchFloat64s(s.downbeats, t)
}
