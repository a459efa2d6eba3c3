package timeline

// Viewport owns the zoom/scroll state and the time↔column affine mapping
// that every overlay layer shares. It holds no I/O; mutations clamp the
// scroll offset so the visible window always stays inside the clip.
type Viewport struct {
	duration     float64
	zoom         float64
	scrollOffset float64
	visible      float64
}

// EdgeMarginFrac is the fraction of the visible duration kept between a
// followed time and the viewport edge before EnsureVisible re-centers.
const EdgeMarginFrac = 0.1

// NewViewport creates a viewport showing the full clip at zoom 1.
func NewViewport(duration float64) *Viewport {
	if duration < 0 {
		duration = 0
	}
	return &Viewport{
		duration: duration,
		zoom:     1,
		visible:  duration,
	}
}

// SetData resets the viewport for a new clip: zoom 1, scroll 0.
func (v *Viewport) SetData(duration float64) {
	if duration < 0 {
		duration = 0
	}
	v.duration = duration
	v.zoom = 1
	v.scrollOffset = 0
	v.visible = duration
}

// SetZoom sets the zoom factor (clamped to >= 1), anchored on the center of
// the current view so the point under focus stays put.
func (v *Viewport) SetZoom(z float64) {
	if z < 1 {
		z = 1
	}
	center := v.scrollOffset + v.visible/2
	v.zoom = z
	v.visible = v.duration / z
	v.scrollOffset = center - v.visible/2
	v.clamp()
}

// Zoom multiplies the current zoom factor.
func (v *Viewport) Zoom(factor float64) {
	v.SetZoom(v.zoom * factor)
}

// SetScrollOffset sets the left edge of the view, clamped into range.
func (v *Viewport) SetScrollOffset(o float64) {
	v.scrollOffset = o
	v.clamp()
}

// Scroll shifts the view by delta seconds, clamped into range.
func (v *Viewport) Scroll(delta float64) {
	v.SetScrollOffset(v.scrollOffset + delta)
}

func (v *Viewport) clamp() {
	max := v.duration - v.visible
	if max < 0 {
		max = 0
	}
	if v.scrollOffset > max {
		v.scrollOffset = max
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// TimeToX maps a clip time to a fractional column in a view width columns
// wide. All overlays must use this single mapping to stay column-aligned.
func (v *Viewport) TimeToX(t float64, width int) float64 {
	if v.visible <= 0 {
		return 0
	}
	return (t - v.scrollOffset) / v.visible * float64(width)
}

// XToTime is the inverse of TimeToX.
func (v *Viewport) XToTime(x float64, width int) float64 {
	if width <= 0 {
		return v.scrollOffset
	}
	return v.scrollOffset + x/float64(width)*v.visible
}

// EnsureVisible re-centers the scroll so t keeps at least a 10% margin from
// either edge, and returns the scroll offset the view should move to. The
// offset is returned rather than applied so a caller can animate toward it.
func (v *Viewport) EnsureVisible(t float64) float64 {
	margin := v.visible * EdgeMarginFrac
	target := v.scrollOffset
	if t < v.scrollOffset+margin {
		target = t - margin
	} else if t > v.scrollOffset+v.visible-margin {
		target = t - v.visible + margin
	}
	max := v.duration - v.visible
	if max < 0 {
		max = 0
	}
	if target > max {
		target = max
	}
	if target < 0 {
		target = 0
	}
	return target
}

// Duration returns the total clip duration.
func (v *Viewport) Duration() float64 { return v.duration }

// ZoomFactor returns the current zoom factor.
func (v *Viewport) ZoomFactor() float64 { return v.zoom }

// ScrollOffset returns the left edge of the visible window.
func (v *Viewport) ScrollOffset() float64 { return v.scrollOffset }

// VisibleDuration returns the width of the visible window in seconds.
func (v *Viewport) VisibleDuration() float64 { return v.visible }

// Start returns the first visible time.
func (v *Viewport) Start() float64 { return v.scrollOffset }

// End returns the first time past the visible window.
func (v *Viewport) End() float64 { return v.scrollOffset + v.visible }

// TickInterval picks a ruler tick spacing from a fixed table keyed by the
// visible duration, keeping label density roughly constant across zooms.
func (v *Viewport) TickInterval() float64 {
	switch {
	case v.visible >= 120:
		return 30
	case v.visible >= 60:
		return 10
	case v.visible >= 30:
		return 5
	case v.visible >= 10:
		return 2
	default:
		return 1
	}
}
