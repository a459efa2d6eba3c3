package audio

import "testing"

func TestSniffFormatMagicBytes(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want string
	}{
		{"ogg", []byte("OggS\x00\x02"), "ogg"},
		{"flac", []byte("fLaC\x00\x00"), "flac"},
		{"wav", []byte("RIFF\x24\x00\x00\x00WAVEfmt "), "wav"},
		{"mp3 id3", []byte("ID3\x04\x00"), "mp3"},
		{"mp3 sync", []byte{0xFF, 0xFB, 0x90, 0x00}, "mp3"},
		{"unknown", []byte("nonsense"), ""},
		{"short", []byte{0xFF}, ""},
	}
	for _, c := range cases {
		if got := sniffFormat(c.data); got != c.want {
			t.Fatalf("%s: sniffed %q, want %q", c.name, got, c.want)
		}
	}
}

func TestDecodeRejectsUnknownData(t *testing.T) {
	_, err := Decode([]byte("definitely not audio"))
	if err == nil {
		t.Fatal("expected error for unrecognized data")
	}
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected DecodeError, got %T", err)
	}
}

func TestToStereoDuplicatesMono(t *testing.T) {
	out := toStereo([]int16{10, -20, 30}, 1)
	want := []int16{10, 10, -20, -20, 30, 30}
	if len(out) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, out[i], want[i])
		}
	}
}

func TestToStereoDropsExtraChannels(t *testing.T) {
	// 5.1 input: only the first two channels survive.
	in := []int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	out := toStereo(in, 6)
	want := []int16{1, 2, 7, 8}
	if len(out) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, out[i], want[i])
		}
	}
}

func TestToStereoPassesStereoThrough(t *testing.T) {
	in := []int16{1, 2, 3, 4}
	out := toStereo(in, 2)
	if &out[0] != &in[0] {
		t.Fatal("expected stereo input returned as-is")
	}
}

func TestResampleStereoChangesLength(t *testing.T) {
	// One second at 22050 becomes one second at 44100.
	in := make([]int16, 22050*2)
	out := resampleStereo(in, 22050)
	if got := len(out) / 2; got != SampleRate {
		t.Fatalf("expected %d frames after resample, got %d", SampleRate, got)
	}
}

func TestResampleStereoSameRateIsNoop(t *testing.T) {
	in := []int16{1, 2, 3, 4}
	out := resampleStereo(in, SampleRate)
	if &out[0] != &in[0] {
		t.Fatal("expected same-rate input returned as-is")
	}
}

func TestClampInt16(t *testing.T) {
	if got := clampInt16(40000); got != 32767 {
		t.Fatalf("expected clamp to 32767, got %d", got)
	}
	if got := clampInt16(-40000); got != -32768 {
		t.Fatalf("expected clamp to -32768, got %d", got)
	}
	if got := clampInt16(-5); got != -5 {
		t.Fatalf("expected passthrough, got %d", got)
	}
}
