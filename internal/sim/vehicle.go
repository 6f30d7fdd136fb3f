package sim

// DefaultVehicleSpeed is the response vehicle speed in model units per second.
const DefaultVehicleSpeed = 260.0

const degenerateSegment = 1e-3

// Vehicle moves at constant speed along a polyline. path[0] is the last point
// reached; the vehicle heads for path[1].
type Vehicle struct {
	Speed  float64
	Icon   string
	pos    Point
	path   []Point
	active bool
}

// Start places the vehicle at origin and queues the polyline.
func (v *Vehicle) Start(path []Point, origin Point, icon string) {
	v.path = append(v.path[:0], path...)
	v.pos = origin
	v.Icon = icon
	v.active = true
}

// Advance moves the vehicle by Speed*dt along the polyline, snapping to
// waypoints it reaches and carrying leftover distance into the next segment.
// The vehicle deactivates once fewer than two points remain.
func (v *Vehicle) Advance(dt float64) {
	if !v.active {
		return
	}
	remaining := v.Speed * dt
	for remaining > 0 && len(v.path) >= 2 {
		next := v.path[1]
		dx := next.X - v.pos.X
		dy := next.Y - v.pos.Y
		d := v.pos.Dist(next)
		switch {
		case d < degenerateSegment:
			v.pos = next
			v.path = v.path[1:]
		case d <= remaining:
			v.pos = next
			v.path = v.path[1:]
			remaining -= d
		default:
			t := remaining / d
			v.pos.X += dx * t
			v.pos.Y += dy * t
			remaining = 0
		}
	}
	if len(v.path) < 2 {
		v.active = false
	}
}

// Active reports whether the vehicle is still travelling.
func (v *Vehicle) Active() bool { return v.active }

// Pos returns the current position.
func (v *Vehicle) Pos() Point { return v.pos }

// Remaining returns the points still to visit.
func (v *Vehicle) Remaining() []Point {
	if len(v.path) < 2 {
		return nil
	}
	return append([]Point(nil), v.path[1:]...)
}

// Stop deactivates the vehicle and drops its path.
func (v *Vehicle) Stop() {
	v.active = false
	v.path = v.path[:0]
}
