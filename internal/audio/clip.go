package audio

// Clip is a fully decoded recording: interleaved 16-bit stereo samples at
// SampleRate. A clip is created by Decode, owned by the playback engine,
// replaced wholesale on a new load, and never mutated in place.
type Clip struct {
	Samples  []int16 // interleaved stereo
	Duration float64 // seconds
}

// Frames returns the number of sample frames in the clip.
func (c *Clip) Frames() int {
	return len(c.Samples) / channelCount
}

func newClip(samples []int16) *Clip {
	frames := len(samples) / channelCount
	return &Clip{
		Samples:  samples,
		Duration: float64(frames) / float64(SampleRate),
	}
}
