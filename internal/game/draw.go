package game

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/rugtown/internal/sim"
)

// iconStyle is how an icon tag is drawn: a filled badge with a glyph.
type iconStyle struct {
	fill  color.RGBA
	glyph string
}

var iconStyles = map[string]iconStyle{
	"police-car":  {fill: color.RGBA{R: 40, G: 90, B: 220, A: 255}, glyph: "P"},
	"fire-engine": {fill: color.RGBA{R: 215, G: 45, B: 35, A: 255}, glyph: "F"},
	"ambulance":   {fill: color.RGBA{R: 235, G: 235, B: 235, A: 255}, glyph: "+"},
	"robber":      {fill: color.RGBA{R: 70, G: 40, B: 90, A: 255}, glyph: "$"},
	"flame":       {fill: color.RGBA{R: 255, G: 130, B: 20, A: 255}, glyph: "!"},
	"dizzy":       {fill: color.RGBA{R: 245, G: 210, B: 60, A: 255}, glyph: "*"},
}

var (
	rugFill     = color.RGBA{R: 168, G: 132, B: 92, A: 255}
	roadColor   = color.RGBA{R: 110, G: 98, B: 84, A: 255}
	stationRing = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	targetRing  = color.RGBA{R: 255, G: 220, B: 120, A: 255}
	traceOK     = color.NRGBA{R: 255, G: 255, B: 255, A: 217}
	traceBad    = color.NRGBA{R: 255, G: 120, B: 120, A: 217}
)

func withAlpha(c color.RGBA, a float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(255 * clamp01(a))}
}

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }

// drawRug draws the background image letterboxed, or a plain rug with the
// road network when no image is loaded.
func (g *Game) drawRug(screen *ebiten.Image) {
	v := g.view
	if g.background != nil {
		b := g.background.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(RugSize/float64(b.Dx()), RugSize/float64(b.Dy()))
		op.GeoM.Scale(v.Scale, v.Scale)
		op.GeoM.Translate(v.OffX, v.OffY)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(g.background, op)
		return
	}
	x, y := v.WorldToScreen(sim.Point{})
	vector.FillRect(screen, x, y, v.Len(RugSize), v.Len(RugSize), rugFill, false)
	graph := g.sim.World().Graph
	w := max(2, v.Len(16))
	for _, seg := range graph.Segments() {
		a, _ := graph.Position(seg.A)
		b, _ := graph.Position(seg.B)
		g.strokePolyline(screen, []sim.Point{a, b}, w, roadColor)
	}
	for _, poi := range g.pois() {
		cx, cy := v.WorldToScreen(poi.Pos)
		vector.StrokeCircle(screen, cx, cy, v.Len(poi.Radius), 1.0, color.RGBA{R: 90, G: 70, B: 50, A: 255}, true)
		if poi.Icon != "" {
			g.drawIcon(screen, poi.Pos, poi.Icon, 26)
		}
	}
}

func (g *Game) pois() []sim.POI {
	w := g.sim.World()
	out := append([]sim.POI(nil), w.Stations[:]...)
	return append(out, w.Targets...)
}

// ring draws a pulsing circle; t is the animation phase in radians.
func (g *Game) ring(screen *ebiten.Image, at sim.Point, radius, t float64, c color.RGBA) {
	v := g.view
	cx, cy := v.WorldToScreen(at)
	r := v.Len(radius + 6*math.Sin(t*1.2))
	width := max(2, v.Len(6))
	vector.StrokeCircle(screen, cx, cy, r, width, withAlpha(c, 0.35+0.35*math.Sin(t)), true)
}

func (g *Game) drawIncident(screen *ebiten.Image, inc sim.Incident) {
	t := inc.Pulse * 1000 / 240
	g.ring(screen, inc.Station.Pos, inc.Station.Radius*0.68, t, stationRing)
	g.ring(screen, inc.Target.Pos, inc.Target.Radius*0.72, t*1.1, targetRing)
	g.drawIcon(screen, sim.Point{X: inc.Target.Pos.X, Y: inc.Target.Pos.Y - 22}, inc.Kind.Mark(), 46)
	g.drawIcon(screen, sim.Point{X: inc.Station.Pos.X, Y: inc.Station.Pos.Y - 20}, inc.Station.Icon, 40)
}

// drawHint dashes the suggested route, fading with the hint strength.
func (g *Game) drawHint(screen *ebiten.Image, inc sim.Incident) {
	route := g.sim.HintRoute()
	if len(route) < 2 {
		return
	}
	c := withAlpha(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 0.20*inc.Hint)
	w := max(2, g.view.Len(10))
	const dash = 10.0
	for i := 1; i < len(route); i++ {
		a, b := route[i-1], route[i]
		l := a.Dist(b)
		for s := 0.0; s < l; s += 2 * dash {
			e := math.Min(s+dash, l)
			p0 := lerp(a, b, s/l)
			p1 := lerp(a, b, e/l)
			g.strokePolyline(screen, []sim.Point{p0, p1}, w, c)
		}
	}
}

func lerp(a, b sim.Point, t float64) sim.Point {
	return sim.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func (g *Game) drawTrace(screen *ebiten.Image) {
	if !g.sim.Dragging() {
		return
	}
	pts, valid := g.sim.Trace()
	if len(pts) < 2 {
		return
	}
	c := traceOK
	if !valid {
		c = traceBad
	}
	g.strokePolyline(screen, pts, max(6, g.view.Len(14)), c)
}

func (g *Game) drawVehicle(screen *ebiten.Image, now time.Duration) {
	pos, icon, active := g.sim.VehicleState()
	if !active {
		return
	}
	g.drawIcon(screen, pos, icon, 44)
	g.ring(screen, pos, 16, float64(now.Milliseconds())/180, color.RGBA{R: 255, G: 255, B: 255, A: 166})
}

func (g *Game) drawParticles(screen *ebiten.Image) {
	r := max(1, g.view.Len(4))
	for _, p := range g.sim.Particles() {
		x, y := g.view.WorldToScreen(p.Pos)
		vector.FillCircle(screen, x, y, r, withAlpha(color.RGBA{R: 255, G: 255, B: 255, A: 255}, p.Fade()), true)
	}
}

// strokePolyline draws pts as line segments with round caps at every vertex.
func (g *Game) strokePolyline(screen *ebiten.Image, pts []sim.Point, width float32, c color.Color) {
	for i := range pts {
		x1, y1 := g.view.WorldToScreen(pts[i])
		vector.FillCircle(screen, x1, y1, width/2, c, true)
		if i == 0 {
			continue
		}
		x0, y0 := g.view.WorldToScreen(pts[i-1])
		vector.StrokeLine(screen, x0, y0, x1, y1, width, c, true)
	}
}

// drawIcon draws a badge of diameter size (model units) centred on at.
func (g *Game) drawIcon(screen *ebiten.Image, at sim.Point, tag string, size float64) {
	st, ok := iconStyles[tag]
	if !ok {
		return
	}
	cx, cy := g.view.WorldToScreen(at)
	r := g.view.Len(size / 2)
	vector.FillCircle(screen, cx, cy, r, st.fill, true)
	vector.StrokeCircle(screen, cx, cy, r, max(1, g.view.Len(2)), color.RGBA{R: 20, G: 20, B: 20, A: 220}, true)

	op := &text.DrawOptions{}
	k := math.Max(1, g.view.Scale*size/26)
	op.GeoM.Scale(k, k)
	op.GeoM.Translate(float64(cx), float64(cy))
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	glyph := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if int(st.fill.R)+int(st.fill.G) > 400 {
		glyph = color.RGBA{R: 200, G: 20, B: 20, A: 255}
	}
	op.ColorScale.ScaleWithColor(glyph)
	text.Draw(screen, st.glyph, g.face, op)
}
