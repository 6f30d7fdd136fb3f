package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/rugtown/internal/sim"
)

const (
	hudLineH = 16
	hudPadX  = 8
	hudPadY  = 6
	hudCharW = 7 // basicfont.Face7x13 advance
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// statusLine summarises what the player should do next.
func statusLine(now time.Duration, s *sim.Sim) string {
	inc, ok := s.Incident()
	if !ok {
		wait := max(0, s.NextIncidentAt()-now)
		return fmt.Sprintf("quiet... next call in %.1fs", wait.Seconds())
	}
	switch inc.State {
	case sim.StateWaiting:
		return fmt.Sprintf("%s at %s! drag from the %s", inc.Kind, inc.Target.ID, inc.Station.ID)
	case sim.StateDragging:
		return fmt.Sprintf("trace the road to %s", inc.Target.ID)
	case sim.StateResolving:
		return fmt.Sprintf("%s on the way to %s", inc.Station.ID, inc.Target.ID)
	}
	return ""
}

func hudLines(now time.Duration, s *sim.Sim) []string {
	st := s.Settings()
	stats := s.Stats()
	return []string{
		statusLine(now, s),
		fmt.Sprintf("resolved %d/%d  missed drops %d  hand-drawn %d",
			stats.Resolved, stats.Incidents, stats.FailedDrops, stats.HandDrawn),
		fmt.Sprintf("[ ] every %.0fs  - = strictness %.1f  M sound %s",
			st.EventEverySec, st.Strictness, onOff(st.Sound)),
		"C copy report  H hide",
	}
}

// drawPanel draws lines in a boxed panel with its top-left at (x, y).
func (g *Game) drawPanel(screen *ebiten.Image, x, y float32, lines []string, border color.RGBA) {
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*hudCharW + hudPadX*2)
	boxH := float32(len(lines)*hudLineH + hudPadY*2)
	vector.FillRect(screen, x, y, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(screen, x, y, boxW, boxH, 1.0, border, false)
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x)+hudPadX, float64(y)+hudPadY+float64(i*hudLineH))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, line, g.face, op)
	}
}

// drawHUD renders the status box in the bottom-left corner.
func (g *Game) drawHUD(screen *ebiten.Image, now time.Duration) {
	lines := hudLines(now, g.sim)
	if g.status != "" && now < g.statusUntil {
		lines = append(lines, g.status)
	}
	y := float32(g.view.H - len(lines)*hudLineH - hudPadY*2 - 8)
	g.drawPanel(screen, 8, y, lines, color.RGBA{R: 80, G: 100, B: 140, A: 200})
}

// drawSettings renders the settings overlay in the middle of the screen.
func (g *Game) drawSettings(screen *ebiten.Image) {
	st := g.sim.Settings()
	lines := []string{
		"SETTINGS",
		"",
		fmt.Sprintf("incident every   %4.0fs   [ / ]", st.EventEverySec),
		fmt.Sprintf("road strictness  %4.1f    - / =  (tolerance %.0f)", st.Strictness, sim.Tolerance(st.Strictness)),
		fmt.Sprintf("sound            %4s    M", onOff(st.Sound)),
		"",
		"tap anywhere or Esc to close",
	}
	vector.FillRect(screen, 0, 0, float32(g.view.W), float32(g.view.H), color.RGBA{A: 140}, false)
	w := float32(52*hudCharW + hudPadX*2)
	h := float32(len(lines)*hudLineH + hudPadY*2)
	g.drawPanel(screen, (float32(g.view.W)-w)/2, (float32(g.view.H)-h)/2, lines, color.RGBA{R: 200, G: 180, B: 120, A: 230})
}

// drawCornerHotspot fills in while the corner is held, showing long-press progress.
func (g *Game) drawCornerHotspot(screen *ebiten.Image) {
	vector.StrokeRect(screen, 4, 4, cornerPx-8, cornerPx-8, 1.0, color.RGBA{R: 255, G: 255, B: 255, A: 40}, false)
	if !g.ptr.down || !g.ptr.corner || g.ptr.fired {
		return
	}
	frac := float32(clamp01(float64(g.clock()-g.ptr.pressAt) / float64(longPress)))
	vector.FillRect(screen, 4, 4, (cornerPx-8)*frac, cornerPx-8, color.RGBA{R: 255, G: 255, B: 255, A: 60}, false)
}
