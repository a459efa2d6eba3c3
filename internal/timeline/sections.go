package timeline

// Section is a labeled, colored [Start, End) interval representing one
// structural part of a recording.
type Section struct {
	Start float64
	End   float64
	Label string
	Color string // hex color from the analysis service, e.g. "#4CAF50"
}

// SectionSet is an ordered list of sections. Sections are expected to be
// non-overlapping and to cover the clip, but neither is guaranteed by the
// analysis contract; renderers treat the set as read-only.
type SectionSet struct {
	sections []Section
}

// NewSectionSet copies the given sections into a read-only set.
func NewSectionSet(sections []Section) *SectionSet {
	s := make([]Section, len(sections))
	copy(s, sections)
	return &SectionSet{sections: s}
}

// Len returns the number of sections.
func (s *SectionSet) Len() int { return len(s.sections) }

// At returns section i.
func (s *SectionSet) At(i int) Section { return s.sections[i] }

// SectionAt returns the first section whose [Start, End) contains t.
// First match wins if sections overlap.
func (s *SectionSet) SectionAt(t float64) (Section, bool) {
	for _, sec := range s.sections {
		if t >= sec.Start && t < sec.End {
			return sec, true
		}
	}
	return Section{}, false
}

// Band is the visible sub-interval of a section laid out as percentages of
// the viewport width. Percentage layout is recomputed here rather than via
// TimeToX because the structure lane positions by fraction, not columns.
type Band struct {
	Section  Section
	LeftPct  float64
	WidthPct float64
}

// Bands computes the percentage-width bands for every section intersecting
// the window [start, end).
func (s *SectionSet) Bands(start, end float64) []Band {
	span := end - start
	if span <= 0 {
		return nil
	}
	var bands []Band
	for _, sec := range s.sections {
		if sec.End <= start || sec.Start >= end {
			continue
		}
		visStart := sec.Start
		if visStart < start {
			visStart = start
		}
		visEnd := sec.End
		if visEnd > end {
			visEnd = end
		}
		bands = append(bands, Band{
			Section:  sec,
			LeftPct:  (visStart - start) / span * 100,
			WidthPct: (visEnd - visStart) / span * 100,
		})
	}
	return bands
}
