package sim

const (
	baseTolerance   = 34.0
	toleranceSlack  = 26.0
	minTraceSpacing = 10.0
)

// Tolerance is the allowed distance from the road network for a given
// strictness: 60 units at 0, 34 units at 1.
func Tolerance(strictness float64) float64 {
	return baseTolerance + (1-clampF(strictness, 0, 1))*toleranceSlack
}

// Trace is the freehand route drawn during one drag. Its validity is sticky:
// once a sample strays off-road it stays invalid until the next Begin.
type Trace struct {
	points   []Point
	valid    bool
	dragging bool
}

// Begin starts a new drag seeded at origin.
func (t *Trace) Begin(origin Point) {
	t.points = append(t.points[:0], origin)
	t.valid = true
	t.dragging = true
}

// Offer considers a pointer sample lying distToRoad away from the network.
// It returns true when the sample was appended.
func (t *Trace) Offer(p Point, distToRoad, tolerance float64) bool {
	if !t.dragging {
		return false
	}
	if distToRoad > tolerance {
		t.valid = false
		return false
	}
	if last := t.points[len(t.points)-1]; p.Dist(last) < minTraceSpacing {
		return false
	}
	t.points = append(t.points, p)
	return true
}

// Finish ends the drag, keeping the recorded points.
func (t *Trace) Finish() { t.dragging = false }

// Reset discards the trace.
func (t *Trace) Reset() {
	t.points = t.points[:0]
	t.valid = true
	t.dragging = false
}

// Dragging reports whether a drag is in progress.
func (t *Trace) Dragging() bool { return t.dragging }

// Valid reports whether every sample so far stayed within tolerance.
func (t *Trace) Valid() bool { return t.valid }

// Len returns the number of recorded points.
func (t *Trace) Len() int { return len(t.points) }

// Points returns a copy of the recorded points.
func (t *Trace) Points() []Point { return append([]Point(nil), t.points...) }

// Usable reports whether the trace can be driven instead of the computed route.
func (t *Trace) Usable() bool { return len(t.points) >= 2 && t.valid }
