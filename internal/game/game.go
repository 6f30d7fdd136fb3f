// Package game is the ebiten front-end for the dispatch simulation: it owns
// the window, maps pointer input into model-space and renders the map.
package game

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/rugtown/internal/sim"
)

// Config wires a Game to its collaborators.
type Config struct {
	Sim        *sim.Sim
	Logger     *slog.Logger
	Background string // PNG path; empty or unreadable falls back to a blank rug
}

type Game struct {
	sim    *sim.Sim
	logger *slog.Logger
	view   View
	start  time.Time
	clock  func() time.Duration

	background *ebiten.Image
	face       text.Face
	feed       *DispatchFeed

	showHUD bool
	overlay bool // settings overlay; blocks gameplay presses while open

	status      string
	statusUntil time.Duration

	ptr         pointerState
	touchBuf    []ebiten.TouchID
	touchID     ebiten.TouchID
	touchActive bool
	touchX      float64
	touchY      float64

	writeClipboard func(string) error
}

// New creates the front-end. The sim's clock starts on the first Update.
func New(cfg Config) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	g := &Game{
		sim:            cfg.Sim,
		logger:         logger,
		start:          time.Now(),
		face:           text.NewGoXFace(basicfont.Face7x13),
		feed:           NewDispatchFeed(),
		showHUD:        true,
		writeClipboard: writeClipboard,
	}
	g.clock = func() time.Duration { return time.Since(g.start) }
	g.feed.Attach(cfg.Sim.Events())
	if cfg.Background != "" {
		g.background = loadBackground(cfg.Background, logger)
	}
	g.view.Fit(RugSize, RugSize)
	return g
}

func (g *Game) Update() error {
	now := g.clock()
	g.handleKeys(now)
	g.handlePointer(now, g.readPointer())
	g.sim.Tick(now)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 11, G: 15, B: 18, A: 255})
	now := g.clock()

	g.drawRug(screen)
	if inc, ok := g.sim.Incident(); ok {
		g.drawIncident(screen, inc)
		g.drawHint(screen, inc)
	}
	g.drawTrace(screen)
	g.drawVehicle(screen, now)
	g.drawParticles(screen)

	if g.showHUD {
		g.feed.Draw(screen, g.view.W, g.view.H)
		g.drawHUD(screen, now)
	}
	if g.overlay {
		g.drawSettings(screen)
	}
	g.drawCornerHotspot(screen)
}

// Layout renders at device resolution so the rug stays sharp on HiDPI screens.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	w := int(float64(outsideWidth) * s)
	h := int(float64(outsideHeight) * s)
	g.view.Fit(w, h)
	return g.view.W, g.view.H
}

func (g *Game) flash(now time.Duration, msg string) {
	g.status = msg
	g.statusUntil = now + 2*time.Second
}
