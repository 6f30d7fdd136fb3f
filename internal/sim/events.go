package sim

import "time"

type EventType int

const (
	EventIncidentStarted EventType = iota
	EventDragStarted
	EventDropFailed
	EventDropAccepted
	EventIncidentResolved
)

func (t EventType) String() string {
	switch t {
	case EventIncidentStarted:
		return "incident_started"
	case EventDragStarted:
		return "drag_started"
	case EventDropFailed:
		return "drop_failed"
	case EventDropAccepted:
		return "drop_accepted"
	case EventIncidentResolved:
		return "incident_resolved"
	}
	return "unknown"
}

type Event struct {
	Type      EventType
	At        time.Duration
	Incident  Incident // snapshot at emission time
	Pos       Point
	HandDrawn bool // EventDropAccepted: the player's trace was used
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll registers fn for every event type.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	for t := EventIncidentStarted; t <= EventIncidentResolved; t++ {
		eb.Subscribe(t, fn)
	}
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
