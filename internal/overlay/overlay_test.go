package overlay

import (
	"strings"
	"testing"

	"github.com/olivier-w/beatgrid/internal/timeline"
)

func testViewport() *timeline.Viewport {
	return timeline.NewViewport(10)
}

func testBeatSet() *timeline.BeatSet {
	return timeline.NewBeatSet(120, "4/4",
		[]float64{0.5, 1.0, 1.5, 2.0, 2.5},
		[]float64{0.5, 2.5},
		[]int{1, 2, 3, 4, 1})
}

func TestMarksKeepHighestRank(t *testing.T) {
	m := make(Marks)
	m.Set(3, MarkBeat)
	m.Set(3, MarkPlayhead)
	m.Set(3, MarkDownbeat)
	if m[3] != MarkPlayhead {
		t.Fatalf("expected playhead to outrank, got %v", m[3])
	}

	m.Set(5, MarkDownbeat)
	m.Set(5, MarkBeat)
	if m[5] != MarkDownbeat {
		t.Fatalf("expected downbeat to outrank beat, got %v", m[5])
	}
}

func TestBeatMarksColumnsMatchMapping(t *testing.T) {
	vp := testViewport()
	bs := testBeatSet()
	width := 100

	marks := BeatMarks(vp, bs, width)
	if len(marks) == 0 {
		t.Fatal("expected marks for visible beats")
	}
	for i := 0; i < bs.Len(); i++ {
		col := int(vp.TimeToX(bs.At(i), width))
		kind, ok := marks[col]
		if !ok {
			t.Fatalf("beat %d at column %d has no mark", i, col)
		}
		wantDown := bs.IsDownbeat(bs.At(i))
		if wantDown && kind != MarkDownbeat {
			t.Fatalf("beat %d: expected downbeat mark, got %v", i, kind)
		}
	}
}

func TestBeatMarksNilSet(t *testing.T) {
	if marks := BeatMarks(testViewport(), nil, 80); len(marks) != 0 {
		t.Fatalf("expected no marks without a beat set, got %d", len(marks))
	}
}

func TestMeasureLabelsShowDownbeatNumbers(t *testing.T) {
	line := MeasureLabels(testViewport(), testBeatSet(), 100)
	if len([]rune(line)) != 100 {
		t.Fatalf("expected line width 100, got %d", len([]rune(line)))
	}
	if !strings.Contains(line, "1") || !strings.Contains(line, "2") {
		t.Fatalf("expected measure numbers 1 and 2 in %q", line)
	}
}

func TestWaveformRenderDimensions(t *testing.T) {
	pos := make([]float64, 200)
	neg := make([]float64, 200)
	for i := range pos {
		pos[i] = 0.8
		neg[i] = -0.8
	}
	w := NewWaveform(10, pos, neg)

	out := w.Render(testViewport(), make(Marks), 60, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 rows, got %d", len(lines))
	}
}

func TestWaveformRenderIsIdempotent(t *testing.T) {
	pos := []float64{0.1, 0.9, 0.5, 0.3}
	neg := []float64{-0.2, -0.7, -0.4, -0.1}
	w := NewWaveform(4, pos, neg)
	vp := timeline.NewViewport(4)
	marks := Marks{2: MarkPlayhead}

	first := w.Render(vp, marks, 40, 6)
	second := w.Render(vp, marks, 40, 6)
	if first != second {
		t.Fatal("render of identical state differed between calls")
	}
}

func TestWaveformRenderEmptyInputs(t *testing.T) {
	w := NewWaveform(0, nil, nil)
	if out := w.Render(testViewport(), make(Marks), 40, 6); out != "" {
		t.Fatalf("expected empty render for empty data, got %q", out)
	}
}

func TestEmptyLaneMarksColumns(t *testing.T) {
	out := EmptyLane(Marks{1: MarkBeat}, 4, 2)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "│") {
			t.Fatalf("expected mark glyph in %q", line)
		}
	}
}

func TestRulerTicksAtIntervalMultiples(t *testing.T) {
	vp := timeline.NewViewport(100) // visible 100 → 10s ticks
	out := Ruler(vp, 100)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected tick and label line, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "|") {
		t.Fatal("expected tick marks in tick line")
	}
	if !strings.Contains(lines[1], "0:10") {
		t.Fatalf("expected 0:10 label, got %q", lines[1])
	}
}

func TestStructureSuppressesNarrowLabels(t *testing.T) {
	vp := timeline.NewViewport(100)
	ss := timeline.NewSectionSet([]timeline.Section{
		{Start: 0, End: 60, Label: "verse", Color: "#2196F3"},
		{Start: 60, End: 62, Label: "fill", Color: "#FF9800"}, // 2% wide
	})

	out := Structure(vp, ss, 100)
	if !strings.Contains(out, "verse") {
		t.Fatal("expected wide band to carry its label")
	}
	if strings.Contains(out, "fill") {
		t.Fatal("expected narrow band label to be suppressed")
	}
}

func TestStructureNilSet(t *testing.T) {
	out := Structure(timeline.NewViewport(10), nil, 20)
	if len([]rune(stripSpaces(out))) != 0 {
		t.Fatalf("expected blank lane, got %q", out)
	}
}

func stripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}
