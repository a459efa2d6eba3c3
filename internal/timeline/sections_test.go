package timeline

import "testing"

func demoSections() *SectionSet {
	return NewSectionSet([]Section{
		{Start: 0, End: 30, Label: "intro", Color: "#4CAF50"},
		{Start: 30, End: 90, Label: "verse", Color: "#2196F3"},
		{Start: 90, End: 120, Label: "chorus", Color: "#F44336"},
	})
}

func TestSectionAtBoundaries(t *testing.T) {
	ss := demoSections()

	sec, ok := ss.SectionAt(0)
	if !ok || sec.Label != "intro" {
		t.Fatalf("expected intro at 0, got %v ok=%v", sec.Label, ok)
	}

	// End is exclusive, so 30 belongs to the next section.
	sec, ok = ss.SectionAt(30)
	if !ok || sec.Label != "verse" {
		t.Fatalf("expected verse at 30, got %v ok=%v", sec.Label, ok)
	}

	if _, ok := ss.SectionAt(120); ok {
		t.Fatal("expected no section at the exclusive end")
	}
}

func TestBandsClipToWindow(t *testing.T) {
	ss := demoSections()

	// Window [10, 40): intro is visible for 20 of 30 seconds.
	bands := ss.Bands(10, 40)
	if len(bands) != 2 {
		t.Fatalf("expected 2 bands, got %d", len(bands))
	}

	intro := bands[0]
	if intro.Section.Label != "intro" {
		t.Fatalf("expected intro first, got %s", intro.Section.Label)
	}
	if !almostEqual(intro.LeftPct, 0) {
		t.Fatalf("expected intro at left 0%%, got %f", intro.LeftPct)
	}
	if intro.WidthPct < 66.6 || intro.WidthPct > 66.7 {
		t.Fatalf("expected intro width ~66.7%%, got %f", intro.WidthPct)
	}

	verse := bands[1]
	if verse.WidthPct < 33.3 || verse.WidthPct > 33.4 {
		t.Fatalf("expected verse width ~33.3%%, got %f", verse.WidthPct)
	}
}

func TestBandsSkipOffscreenSections(t *testing.T) {
	ss := demoSections()
	bands := ss.Bands(95, 110)
	if len(bands) != 1 || bands[0].Section.Label != "chorus" {
		t.Fatalf("expected only chorus, got %d bands", len(bands))
	}
}

func TestBandsEmptyWindow(t *testing.T) {
	if bands := demoSections().Bands(50, 50); bands != nil {
		t.Fatalf("expected nil bands for empty window, got %v", bands)
	}
}
