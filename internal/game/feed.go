package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/rugtown/internal/sim"
)

const (
	feedPanelWidth = 260
	feedMaxEntries = 40
	feedLineHeight = 14
)

// FeedEntry is a single line in the dispatch feed.
type FeedEntry struct {
	At       time.Duration
	Incident string // first 8 chars of the incident id
	Type     sim.EventType
	Message  string
}

// DispatchFeed is a ring buffer of recent dispatch events rendered on-screen.
type DispatchFeed struct {
	entries []FeedEntry
	head    int
	count   int
}

// NewDispatchFeed creates a feed with a fixed capacity.
func NewDispatchFeed() *DispatchFeed {
	return &DispatchFeed{
		entries: make([]FeedEntry, feedMaxEntries),
	}
}

// Attach subscribes the feed to every event on bus.
func (f *DispatchFeed) Attach(bus *sim.EventBus) {
	bus.SubscribeAll(func(e sim.Event) { f.Add(describeEvent(e)) })
}

// Add appends an entry, overwriting the oldest once full.
func (f *DispatchFeed) Add(e FeedEntry) {
	f.entries[f.head] = e
	f.head = (f.head + 1) % feedMaxEntries
	if f.count < feedMaxEntries {
		f.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (f *DispatchFeed) Recent() []FeedEntry {
	result := make([]FeedEntry, f.count)
	for i := 0; i < f.count; i++ {
		idx := (f.head - f.count + i + feedMaxEntries) % feedMaxEntries
		result[i] = f.entries[idx]
	}
	return result
}

func describeEvent(e sim.Event) FeedEntry {
	inc := e.Incident
	var msg string
	switch e.Type {
	case sim.EventIncidentStarted:
		msg = fmt.Sprintf("%s at %s, send %s", inc.Kind, inc.Target.ID, inc.Station.ID)
	case sim.EventDragStarted:
		msg = fmt.Sprintf("tracing from %s", inc.Station.ID)
	case sim.EventDropFailed:
		msg = fmt.Sprintf("missed %s", inc.Target.ID)
	case sim.EventDropAccepted:
		if e.HandDrawn {
			msg = "dispatched on your route"
		} else {
			msg = "dispatched on the road route"
		}
	case sim.EventIncidentResolved:
		msg = fmt.Sprintf("%s at %s resolved", inc.Kind, inc.Target.ID)
	default:
		msg = e.Type.String()
	}
	return FeedEntry{At: e.At, Incident: inc.ID.String()[:8], Type: e.Type, Message: msg}
}

func feedColor(t sim.EventType) color.RGBA {
	switch t {
	case sim.EventIncidentStarted:
		return color.RGBA{R: 255, G: 200, B: 90, A: 255}
	case sim.EventDropFailed:
		return color.RGBA{R: 230, G: 90, B: 90, A: 255}
	case sim.EventIncidentResolved:
		return color.RGBA{R: 110, G: 220, B: 120, A: 255}
	}
	return color.RGBA{R: 150, G: 170, B: 190, A: 255}
}

// Draw renders the newest entries in a panel anchored to the right edge.
func (f *DispatchFeed) Draw(screen *ebiten.Image, screenW, panelH int) {
	panelX := screenW - feedPanelWidth
	vector.FillRect(screen, float32(panelX), 0, feedPanelWidth, float32(panelH), color.RGBA{R: 8, G: 10, B: 14, A: 190}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 60, G: 70, B: 90, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "DISPATCH", panelX+8, 2)

	entries := f.Recent()
	maxVisible := (panelH - 24) / feedLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	y := 20
	for _, e := range entries {
		vector.FillRect(screen, float32(panelX+4), float32(y+4), 3, 6, feedColor(e.Type), false)
		line := fmt.Sprintf("%5.1fs %s", e.At.Seconds(), e.Message)
		ebitenutil.DebugPrintAt(screen, line, panelX+12, y)
		y += feedLineHeight
	}
}
