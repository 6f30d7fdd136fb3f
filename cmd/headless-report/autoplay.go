package main

import (
	"math"
	"math/rand"
	"time"

	"github.com/Garsondee/rugtown/internal/sim"
)

const frame = 16 * time.Millisecond

const (
	fingerStep   = 11.0 // finger travel per frame
	cleanWobble  = 6.0
	sloppyOffset = 90.0
)

type gestureKind int

const (
	gestureDown gestureKind = iota
	gestureMove
	gestureUp
)

type gesture struct {
	at   time.Duration
	kind gestureKind
	p    sim.Point
}

// autoplayer answers incidents the way a player would: after a short
// reaction delay it presses the station, traces the suggested route with some
// wobble and releases on (or beside) the target. accuracy is the probability
// of a clean trace; drops land on target with probability (1+accuracy)/2.
type autoplayer struct {
	rng      *rand.Rand
	accuracy float64
	plan     []gesture
}

func newAutoplayer(seed int64, accuracy float64) *autoplayer {
	return &autoplayer{
		rng:      rand.New(rand.NewSource(seed + 7777)), // #nosec G404 -- simulation only
		accuracy: accuracy,
	}
}

// step performs every planned gesture due at now, planning a new one when an
// incident is waiting.
func (a *autoplayer) step(now time.Duration, s *sim.Sim) {
	if len(a.plan) == 0 {
		inc, ok := s.Incident()
		if !ok || inc.State != sim.StateWaiting {
			return
		}
		a.plan = a.planGesture(now, s.World(), inc)
	}
	for len(a.plan) > 0 && a.plan[0].at <= now {
		g := a.plan[0]
		a.plan = a.plan[1:]
		switch g.kind {
		case gestureDown:
			s.PointerDown(g.p)
		case gestureMove:
			s.PointerMove(g.p)
		case gestureUp:
			s.PointerUp(g.p)
		}
	}
}

func (a *autoplayer) planGesture(now time.Duration, w *sim.World, inc sim.Incident) []gesture {
	at := now + time.Duration(300+a.rng.Intn(900))*time.Millisecond
	plan := []gesture{{at: at, kind: gestureDown, p: inc.Station.Pos}}

	route := append([]sim.Point{inc.Station.Pos}, w.Route(inc.Station, inc.Target)...)
	samples := samplePolyline(route, fingerStep)
	a.wobble(samples)
	for _, p := range samples[1:] {
		at += frame
		plan = append(plan, gesture{at: at, kind: gestureMove, p: p})
	}

	at += frame
	return append(plan, gesture{at: at, kind: gestureUp, p: a.releasePoint(inc.Target)})
}

// wobble jitters every sample a little and, for sloppy traces, swings a short
// run of samples well off the road.
func (a *autoplayer) wobble(pts []sim.Point) {
	for i := 1; i < len(pts); i++ {
		pts[i].X += (a.rng.Float64()*2 - 1) * cleanWobble
		pts[i].Y += (a.rng.Float64()*2 - 1) * cleanWobble
	}
	if a.rng.Float64() < a.accuracy || len(pts) < 4 {
		return
	}
	start := 1 + a.rng.Intn(len(pts)-3)
	ang := a.rng.Float64() * 2 * math.Pi
	for i := start; i < start+3; i++ {
		pts[i].X += math.Cos(ang) * sloppyOffset
		pts[i].Y += math.Sin(ang) * sloppyOffset
	}
}

func (a *autoplayer) releasePoint(target sim.POI) sim.Point {
	ang := a.rng.Float64() * 2 * math.Pi
	r := a.rng.Float64() * target.Radius * 0.5
	if a.rng.Float64() >= (1+a.accuracy)/2 {
		r = target.Radius + 25
	}
	return sim.Point{X: target.Pos.X + math.Cos(ang)*r, Y: target.Pos.Y + math.Sin(ang)*r}
}

// samplePolyline returns points every step units along pts, always keeping
// the first and last point.
func samplePolyline(pts []sim.Point, step float64) []sim.Point {
	if len(pts) == 0 {
		return nil
	}
	out := []sim.Point{pts[0]}
	carry := 0.0
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		l := a.Dist(b)
		for d := step - carry; d <= l; d += step {
			t := d / l
			out = append(out, sim.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		}
		carry = math.Mod(carry+l, step)
	}
	if last := pts[len(pts)-1]; out[len(out)-1] != last {
		out = append(out, last)
	}
	return out
}
