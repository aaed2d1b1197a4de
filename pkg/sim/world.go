package sim

import "math"

// MaxRange is the longest distance a simulated sensor ray reports,
// matching the far limit of the real sensors.
const MaxRange = 800

// World is a static wall map with optional floor markers.
type World struct {
	Walls   []Segment
	Markers []Rect
}

// NewCorridor builds a straight corridor of the given inner width and
// length, running along the X axis and centered on Y=0, closed at the
// far end.
func NewCorridor(length, width float64) *World {
	h := width / 2
	return &World{
		Walls: []Segment{
			{A: Pos2D{X: 0, Y: -h}, B: Pos2D{X: length, Y: -h}},
			{A: Pos2D{X: 0, Y: h}, B: Pos2D{X: length, Y: h}},
			{A: Pos2D{X: length, Y: -h}, B: Pos2D{X: length, Y: h}},
		},
	}
}

// AddMarker places a floor marker region.
func (w *World) AddMarker(r Rect) *World {
	w.Markers = append(w.Markers, r)
	return w
}

// OnMarker reports whether p is over any marker region.
func (w *World) OnMarker(p Pos2D) bool {
	for _, m := range w.Markers {
		if m.Contains(p) {
			return true
		}
	}
	return false
}

// RayDistance casts a ray from origin along dir and returns the
// distance to the nearest wall, capped at MaxRange.
func (w *World) RayDistance(origin Pos2D, dir Angle) float64 {
	dx, dy := math.Cos(dir.Radians()), math.Sin(dir.Radians())
	best := math.Inf(1)
	for _, wall := range w.Walls {
		if d, ok := raySegment(origin, dx, dy, wall); ok && d < best {
			best = d
		}
	}
	if best > MaxRange {
		return MaxRange
	}
	return best
}

// raySegment intersects the ray (origin, direction) with a segment and
// returns the hit distance along the ray.
func raySegment(o Pos2D, dx, dy float64, s Segment) (float64, bool) {
	ex, ey := s.B.X-s.A.X, s.B.Y-s.A.Y
	denom := dx*ey - dy*ex
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	ox, oy := s.A.X-o.X, s.A.Y-o.Y
	t := (ox*ey - oy*ex) / denom
	u := (ox*dy - oy*dx) / denom
	if t < 0 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}
