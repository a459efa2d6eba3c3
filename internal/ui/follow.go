package ui

import "github.com/charmbracelet/harmonica"

// scrollFollower spring-smooths the scroll offset toward the target the
// viewport's EnsureVisible picks while the playhead moves, instead of
// snapping the view in one jump.
type scrollFollower struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
}

func newScrollFollower() *scrollFollower {
	return &scrollFollower{
		spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 1.0),
	}
}

// step advances the spring one frame toward target and returns the new
// position.
func (f *scrollFollower) step(target float64) float64 {
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, target)
	return f.pos
}

// sync pins the spring to the given position, e.g. after a manual scroll.
func (f *scrollFollower) sync(pos float64) {
	f.pos = pos
	f.vel = 0
}
