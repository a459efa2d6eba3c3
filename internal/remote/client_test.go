package remote

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadSendsMultipartAndParsesInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file field: %v", err)
		}
		defer file.Close()
		if header.Filename != "track.mp3" {
			t.Fatalf("expected base filename, got %s", header.Filename)
		}
		w.Write([]byte(`{"id":"abc123","filename":"track.mp3","duration":181.5}`))
	}))
	defer srv.Close()

	info, err := NewClient(srv.URL).Upload("/music/track.mp3", []byte("notreallymp3"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if info.ID != "abc123" || info.Duration != 181.5 {
		t.Fatalf("unexpected file info: %+v", info)
	}
}

func TestAnalyzeParsesBeatsAndStructure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze/abc123" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": "abc123",
			"duration": 10,
			"beats": {
				"bpm": 120.5,
				"beats": [0.5, 1.0],
				"downbeats": [0.5],
				"beat_numbers": [1, 2],
				"time_signature": "4/4"
			},
			"structure": {
				"sections": [{"start": 0, "end": 10, "label": "intro", "color": "#4CAF50"}]
			}
		}`))
	}))
	defer srv.Close()

	a, err := NewClient(srv.URL).Analyze("abc123")
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	if a.Beats.BPM != 120.5 || len(a.Beats.Beats) != 2 {
		t.Fatalf("unexpected beats: %+v", a.Beats)
	}
	if len(a.Structure.Sections) != 1 || a.Structure.Sections[0].Label != "intro" {
		t.Fatalf("unexpected structure: %+v", a.Structure)
	}
}

func TestWaveformRejectsMismatchedPeaks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"duration":10,"num_points":3,"peaks_positive":[0.1,0.2,0.3],"peaks_negative":[-0.1]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Waveform("abc123", 3)
	if err == nil {
		t.Fatal("expected error for mismatched peak arrays")
	}
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError, got %T", err)
	}
}

func TestWaveformPassesPointCount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("points"); got != "2000" {
			t.Fatalf("expected points=2000, got %q", got)
		}
		w.Write([]byte(`{"duration":10,"num_points":2,"peaks_positive":[0.1,0.2],"peaks_negative":[-0.1,-0.2]}`))
	}))
	defer srv.Close()

	wf, err := NewClient(srv.URL).Waveform("abc123", 2000)
	if err != nil {
		t.Fatalf("Waveform returned error: %v", err)
	}
	if wf.NumPoints != 2 || len(wf.PeaksPositive) != 2 {
		t.Fatalf("unexpected waveform: %+v", wf)
	}
}

func TestUpdateBeatsOmitsNilFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		if strings.Contains(string(body), "offset") {
			t.Fatalf("expected offset omitted, got %s", body)
		}
		if !strings.Contains(string(body), `"bpm":128`) {
			t.Fatalf("expected bpm in payload, got %s", body)
		}
		w.Write([]byte(`{"id":"abc123","beats":{"bpm":128,"beats":[0.4],"downbeats":[0.4],"beat_numbers":[1],"time_signature":"4/4"}}`))
	}))
	defer srv.Close()

	bpm := 128.0
	beats, err := NewClient(srv.URL).UpdateBeats("abc123", BeatUpdate{BPM: &bpm})
	if err != nil {
		t.Fatalf("UpdateBeats returned error: %v", err)
	}
	if beats.BPM != 128 {
		t.Fatalf("expected recomputed grid, got %+v", beats)
	}
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"file not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Analyze("missing")
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if !strings.Contains(err.Error(), "file not found") {
		t.Fatalf("expected server message in error, got %v", err)
	}
}

func TestExportReturnsRawPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("format"); got != "csv" {
			t.Fatalf("expected format=csv, got %q", got)
		}
		w.Write([]byte("beat,time\n1,0.5\n"))
	}))
	defer srv.Close()

	data, err := NewClient(srv.URL).Export("abc123", "csv")
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if !strings.HasPrefix(string(data), "beat,time") {
		t.Fatalf("unexpected export payload: %q", data)
	}
}
