package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
)

// DecodeError reports unsupported or corrupt audio input. A failed decode
// retains no partial state; the caller's previous clip stays untouched.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("decoding audio: %v", e.Err)
	}
	return fmt.Sprintf("decoding %s audio: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decode sniffs the container format from the raw bytes and decodes the
// whole recording into a Clip (16-bit stereo at SampleRate).
func Decode(data []byte) (*Clip, error) {
	format := sniffFormat(data)
	var (
		samples  []int16
		channels int
		rate     int
		err      error
	)
	switch format {
	case "mp3":
		samples, channels, rate, err = decodeMP3(data)
	case "wav":
		samples, channels, rate, err = decodeWAV(data)
	case "flac":
		samples, channels, rate, err = decodeFLAC(data)
	case "ogg":
		samples, channels, rate, err = decodeOGG(data)
	default:
		return nil, &DecodeError{Err: fmt.Errorf("unrecognized format")}
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	if len(samples) == 0 {
		return nil, &DecodeError{Format: format, Err: fmt.Errorf("no audio data")}
	}
	stereo := toStereo(samples, channels)
	if rate != SampleRate {
		stereo = resampleStereo(stereo, rate)
	}
	return newClip(stereo), nil
}

// sniffFormat detects the container by magic bytes rather than filename so
// raw uploads decode the same as local files.
func sniffFormat(data []byte) string {
	switch {
	case len(data) >= 4 && string(data[:4]) == "OggS":
		return "ogg"
	case len(data) >= 4 && string(data[:4]) == "fLaC":
		return "flac"
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return "wav"
	case len(data) >= 3 && string(data[:3]) == "ID3":
		return "mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	default:
		return ""
	}
}

func decodeMP3(data []byte) ([]int16, int, int, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, 0, err
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(raw[i*2:]))
	}
	// go-mp3 always outputs 16-bit stereo at the stream's sample rate
	return samples, 2, dec.SampleRate(), nil
}

func decodeWAV(data []byte) ([]int16, int, int, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, 0, 0, fmt.Errorf("invalid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("reading WAV PCM data: %w", err)
	}
	bitDepth := int(dec.BitDepth)
	samples := make([]int16, len(buf.Data))
	for i, s := range buf.Data {
		switch bitDepth {
		case 8:
			// 8-bit WAV is unsigned
			s = (s - 128) << 8
		case 24:
			s >>= 8
		case 32:
			s >>= 16
		}
		samples[i] = clampInt16(s)
	}
	return samples, buf.Format.NumChannels, buf.Format.SampleRate, nil
}

func decodeFLAC(data []byte) ([]int16, int, int, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding FLAC: %w", err)
	}
	info := stream.Info
	channels := int(info.NChannels)
	bps := int(info.BitsPerSample)
	samples := make([]int16, 0, int(info.NSamples)*channels)
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, 0, fmt.Errorf("decoding FLAC frame: %w", err)
		}
		n := int(frame.Subframes[0].NSamples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				sample := int(frame.Subframes[ch].Samples[i])
				switch {
				case bps > 16:
					sample >>= (bps - 16)
				case bps < 16:
					sample <<= (16 - bps)
				}
				samples = append(samples, clampInt16(sample))
			}
		}
	}
	return samples, channels, int(info.SampleRate), nil
}

func decodeOGG(data []byte) ([]int16, int, int, error) {
	floats, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding OGG: %w", err)
	}
	samples := make([]int16, len(floats))
	for i, s := range floats {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		samples[i] = int16(s * 32767)
	}
	return samples, format.Channels, format.SampleRate, nil
}

func clampInt16(s int) int16 {
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}

// toStereo normalizes interleaved samples to two channels: mono is
// duplicated, extra channels beyond the second are dropped.
func toStereo(samples []int16, channels int) []int16 {
	if channels == 2 {
		return samples
	}
	if channels < 1 {
		return nil
	}
	frames := len(samples) / channels
	out := make([]int16, frames*2)
	for i := 0; i < frames; i++ {
		l := samples[i*channels]
		r := l
		if channels > 1 {
			r = samples[i*channels+1]
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return out
}

// resampleStereo linearly resamples interleaved stereo samples from the
// given rate to SampleRate.
func resampleStereo(samples []int16, from int) []int16 {
	if from == SampleRate || from <= 0 {
		return samples
	}
	inFrames := len(samples) / 2
	outFrames := int(float64(inFrames) * float64(SampleRate) / float64(from))
	out := make([]int16, outFrames*2)
	ratio := float64(from) / float64(SampleRate)
	for i := 0; i < outFrames; i++ {
		srcPos := float64(i) * ratio
		j := int(srcPos)
		frac := srcPos - float64(j)
		k := j + 1
		if k >= inFrames {
			k = inFrames - 1
		}
		for ch := 0; ch < 2; ch++ {
			a := float64(samples[j*2+ch])
			b := float64(samples[k*2+ch])
			out[i*2+ch] = int16(a + (b-a)*frac)
		}
	}
	return out
}
