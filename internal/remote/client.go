// Package remote implements the clients for the analysis, waveform-data,
// beat-update, and export collaborators. The services themselves are
// external; only their data contracts live here.
package remote

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NetworkError reports a failed collaborator call. The caller's prior state
// is left untouched; re-upload or re-edit is the recovery path, so there is
// no automatic retry.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// Client talks to the analysis server.
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:5000".
func NewClient(base string) *Client {
	return &Client{
		base: base,
		http: &http.Client{Timeout: 120 * time.Second},
	}
}

// FileInfo is the upload response: the server-assigned id used by every
// later call.
type FileInfo struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	Duration float64 `json:"duration"`
}

// Beats is the beat-analysis payload. The server recomputes the grid on
// edits; clients never derive beats locally.
type Beats struct {
	BPM           float64   `json:"bpm"`
	Beats         []float64 `json:"beats"`
	Downbeats     []float64 `json:"downbeats"`
	BeatNumbers   []int     `json:"beat_numbers"`
	TimeSignature string    `json:"time_signature"`
}

// Section mirrors one structure interval.
type Section struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label"`
	Color string  `json:"color"`
}

// Structure is the section payload.
type Structure struct {
	Sections []Section `json:"sections"`
}

// Analysis is the full analysis response.
type Analysis struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Duration  float64   `json:"duration"`
	Beats     Beats     `json:"beats"`
	Structure Structure `json:"structure"`
}

// WaveformData carries the precomputed peak envelope: equal-length parallel
// arrays sampled at num_points across the clip.
type WaveformData struct {
	Duration      float64   `json:"duration"`
	NumPoints     int       `json:"num_points"`
	PeaksPositive []float64 `json:"peaks_positive"`
	PeaksNegative []float64 `json:"peaks_negative"`
}

// BeatUpdate is the beat-edit request; nil fields are omitted.
type BeatUpdate struct {
	BPM    *float64 `json:"bpm,omitempty"`
	Offset *float64 `json:"offset,omitempty"`
}

type beatUpdateResponse struct {
	ID    string `json:"id"`
	Beats Beats  `json:"beats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Upload posts the raw audio bytes and returns the server's file info.
func (c *Client) Upload(name string, data []byte) (*FileInfo, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(name))
	if err == nil {
		_, err = fw.Write(data)
	}
	if err == nil {
		err = mw.Close()
	}
	if err != nil {
		return nil, &NetworkError{Op: "uploading file", Err: err}
	}

	req, err := http.NewRequest(http.MethodPost, c.base+"/api/upload", &body)
	if err != nil {
		return nil, &NetworkError{Op: "uploading file", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var info FileInfo
	if err := c.do(req, "uploading file", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Analyze fetches beats and structure for an uploaded file.
func (c *Client) Analyze(fileID string) (*Analysis, error) {
	req, err := http.NewRequest(http.MethodGet, c.base+"/api/analyze/"+url.PathEscape(fileID), nil)
	if err != nil {
		return nil, &NetworkError{Op: "requesting analysis", Err: err}
	}
	var a Analysis
	if err := c.do(req, "requesting analysis", &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Waveform fetches the peak envelope at the given point count.
func (c *Client) Waveform(fileID string, points int) (*WaveformData, error) {
	u := c.base + "/api/waveform/" + url.PathEscape(fileID) + "?points=" + strconv.Itoa(points)
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, &NetworkError{Op: "requesting waveform data", Err: err}
	}
	var w WaveformData
	if err := c.do(req, "requesting waveform data", &w); err != nil {
		return nil, err
	}
	if len(w.PeaksPositive) != len(w.PeaksNegative) {
		return nil, &NetworkError{
			Op:  "requesting waveform data",
			Err: fmt.Errorf("mismatched peak arrays (%d vs %d)", len(w.PeaksPositive), len(w.PeaksNegative)),
		}
	}
	return &w, nil
}

// UpdateBeats submits a BPM/offset edit. The server recomputes and returns
// the whole grid; the caller swaps it in only on success.
func (c *Client) UpdateBeats(fileID string, update BeatUpdate) (*Beats, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, &NetworkError{Op: "submitting beat update", Err: err}
	}
	req, err := http.NewRequest(http.MethodPost, c.base+"/api/update-beats/"+url.PathEscape(fileID), bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Op: "submitting beat update", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	var resp beatUpdateResponse
	if err := c.do(req, "submitting beat update", &resp); err != nil {
		return nil, err
	}
	return &resp.Beats, nil
}

// Export fetches the analysis in the given format ("json" or "csv") as a
// raw payload for saving locally.
func (c *Client) Export(fileID, format string) ([]byte, error) {
	u := c.base + "/api/export/" + url.PathEscape(fileID) + "?format=" + url.QueryEscape(format)
	resp, err := c.http.Get(u)
	if err != nil {
		return nil, &NetworkError{Op: "exporting analysis", Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Op: "exporting analysis", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{Op: "exporting analysis", Err: statusError(resp.StatusCode, data)}
	}
	return data, nil
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &NetworkError{Op: op, Err: statusError(resp.StatusCode, data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

func statusError(code int, body []byte) error {
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.Error != "" {
		return fmt.Errorf("server returned %d: %s", code, er.Error)
	}
	return fmt.Errorf("server returned %d", code)
}
