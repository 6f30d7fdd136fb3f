package game

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/rugtown/internal/sim"
)

const (
	// longPress is how long the corner hotspot must be held to toggle the
	// settings overlay.
	longPress = 650 * time.Millisecond
	// cornerPx is the side of the top-left hotspot in screen pixels.
	cornerPx = 72

	paceStep       = 1.0
	strictnessStep = 0.1
)

// settingKeys are the hotkeys that adjust sim.Settings.
var settingKeys = []ebiten.Key{
	ebiten.KeyBracketLeft, ebiten.KeyBracketRight,
	ebiten.KeyMinus, ebiten.KeyEqual,
	ebiten.KeyM,
}

// adjustSettings applies one hotkey to st. The bool is false for keys that
// do not touch settings.
func adjustSettings(st sim.Settings, k ebiten.Key) (sim.Settings, bool) {
	switch k {
	case ebiten.KeyBracketLeft:
		st.EventEverySec -= paceStep
	case ebiten.KeyBracketRight:
		st.EventEverySec += paceStep
	case ebiten.KeyMinus:
		st.Strictness = math.Round((st.Strictness-strictnessStep)*10) / 10
	case ebiten.KeyEqual:
		st.Strictness = math.Round((st.Strictness+strictnessStep)*10) / 10
	case ebiten.KeyM:
		st.Sound = !st.Sound
	default:
		return st, false
	}
	return st.Clamp(), true
}

// pointerSample is one frame of the primary pointer in screen pixels.
type pointerSample struct {
	X, Y float64
	Down bool
	Lost bool // focus lost: any drag in progress is cancelled
}

// pointerState tracks the primary pointer between frames.
type pointerState struct {
	down    bool
	last    sim.Point
	pressAt time.Duration
	corner  bool // press began in the overlay hotspot
	fired   bool // long-press already toggled the overlay for this press
	drag    bool // the sim accepted the press as a drag start
}

func inCorner(x, y float64) bool { return x < cornerPx && y < cornerPx }

// handlePointer turns a pointer sample into sim pointer events. Presses are
// swallowed while the settings overlay is open; a press outside the hotspot
// closes it.
func (g *Game) handlePointer(now time.Duration, s pointerSample) {
	ps := &g.ptr
	if s.Lost {
		if ps.down && ps.drag {
			g.sim.PointerCancel(ps.last)
		}
		*ps = pointerState{}
		return
	}

	p := g.view.ScreenToWorld(s.X, s.Y)
	switch {
	case s.Down && !ps.down:
		*ps = pointerState{down: true, last: p, pressAt: now, corner: inCorner(s.X, s.Y)}
		if ps.corner {
			return
		}
		if g.overlay {
			g.overlay = false
			return
		}
		ps.drag = g.sim.PointerDown(p)

	case s.Down && ps.down:
		if p != ps.last {
			ps.last = p
			if ps.drag {
				g.sim.PointerMove(p)
			}
		}
		if ps.corner && !ps.fired && now-ps.pressAt >= longPress {
			ps.fired = true
			g.overlay = !g.overlay
			g.logger.Debug("settings overlay toggled", "open", g.overlay)
		}

	case !s.Down && ps.down:
		if ps.drag {
			g.sim.PointerUp(p)
		}
		*ps = pointerState{}
	}
}

// readPointer merges touch and mouse into one primary pointer. The first
// touch wins until it lifts; otherwise the left mouse button is used.
func (g *Game) readPointer() pointerSample {
	if !ebiten.IsFocused() {
		return pointerSample{Lost: true}
	}
	if !g.touchActive {
		g.touchBuf = inpututil.AppendJustPressedTouchIDs(g.touchBuf[:0])
		if len(g.touchBuf) > 0 {
			g.touchID = g.touchBuf[0]
			g.touchActive = true
		}
	}
	if g.touchActive {
		if inpututil.IsTouchJustReleased(g.touchID) {
			g.touchActive = false
			return pointerSample{X: g.touchX, Y: g.touchY}
		}
		x, y := ebiten.TouchPosition(g.touchID)
		g.touchX, g.touchY = float64(x), float64(y)
		return pointerSample{X: g.touchX, Y: g.touchY, Down: true}
	}
	x, y := ebiten.CursorPosition()
	return pointerSample{X: float64(x), Y: float64(y), Down: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
}

// handleKeys processes edge-triggered hotkeys.
func (g *Game) handleKeys(now time.Duration) {
	st := g.sim.Settings()
	changed := false
	for _, k := range settingKeys {
		if inpututil.IsKeyJustPressed(k) {
			st, _ = adjustSettings(st, k)
			changed = true
		}
	}
	if changed {
		g.sim.SetSettings(st)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyReport(now)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.overlay = false
	}
}
