// Package sim is the rug dispatch simulation: incidents appear on a fixed
// map, the player traces a route from the responding station to the incident,
// and a vehicle drives either the trace or the computed road route.
//
// Everything runs on one goroutine. Pointer handlers and Tick are called
// from the same loop, so no state is locked.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// MaxStep caps the simulated time of a single tick.
const MaxStep = 33 * time.Millisecond

// Stats counts session outcomes.
type Stats struct {
	Incidents    int
	Resolved     int
	FailedDrops  int
	HandDrawn    int
	Fallback     int
	TotalResolve time.Duration
}

// MeanResolve is the mean time from incident creation to vehicle arrival.
func (st Stats) MeanResolve() time.Duration {
	if st.Resolved == 0 {
		return 0
	}
	return st.TotalResolve / time.Duration(st.Resolved)
}

// Sim owns all mutable simulation state.
type Sim struct {
	world     *World
	settings  Settings
	rng       *rand.Rand
	beeper    Beeper
	logger    *slog.Logger
	events    *EventBus
	log       *SessionLog
	scheduler *Scheduler
	trace     Trace
	vehicle   Vehicle
	particles Particles
	stats     Stats

	started bool
	last    time.Duration
	tick    int
}

// Option configures a Sim during construction.
type Option func(*Sim)

// WithSeed makes the session deterministic.
func WithSeed(seed int64) Option {
	return func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- game only
	}
}

// WithSettings sets the initial settings.
func WithSettings(st Settings) Option {
	return func(s *Sim) { s.settings = st.Clamp() }
}

// WithBeeper routes audible cues to b.
func WithBeeper(b Beeper) Option {
	return func(s *Sim) {
		if b != nil {
			s.beeper = b
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sim) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithVehicleSpeed overrides DefaultVehicleSpeed.
func WithVehicleSpeed(speed float64) Option {
	return func(s *Sim) { s.vehicle.Speed = speed }
}

// NewSim creates a session on world. The scheduler is armed by Start or by
// the first Tick.
func NewSim(world *World, opts ...Option) *Sim {
	s := &Sim{
		world:    world,
		settings: DefaultSettings(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- game only
		beeper:   silentBeeper{},
		logger:   slog.New(slog.DiscardHandler),
		events:   NewEventBus(),
		log:      NewSessionLog(),
		vehicle:  Vehicle{Speed: DefaultVehicleSpeed},
	}
	for _, o := range opts {
		o(s)
	}
	s.scheduler = NewScheduler(world, s.rng)
	return s
}

// Start anchors the clock at now and arms the first incident timer.
func (s *Sim) Start(now time.Duration) {
	s.started = true
	s.last = now
	s.scheduler.ScheduleNext(now, s.settings.Interval())
}

// Tick advances the simulation to now.
func (s *Sim) Tick(now time.Duration) {
	if !s.started {
		s.Start(now)
	}
	step := now - s.last
	if step > MaxStep {
		step = MaxStep
	}
	if step < 0 {
		step = 0
	}
	dt := step.Seconds()
	s.last = now
	s.tick++

	if inc := s.scheduler.MaybeStart(now); inc != nil {
		s.scheduler.ScheduleNext(now, s.settings.Interval())
		s.incidentStarted(inc)
	}

	if inc := s.scheduler.Current(); inc != nil {
		inc.decay(dt)
		if inc.State == StateResolving {
			s.vehicle.Advance(dt)
			if !s.vehicle.Active() {
				s.resolve(inc, now)
			}
		}
	}

	s.particles.Update(dt)
}

func (s *Sim) incidentStarted(inc *Incident) {
	s.stats.Incidents++
	s.play(alertCues[inc.Kind])
	s.logger.Info("incident started",
		"incident", inc.ID, "kind", inc.Kind, "station", inc.Station.ID, "target", inc.Target.ID)
	s.record(inc, "incident", "started", fmt.Sprintf("%s -> %s", inc.Kind, inc.Target.ID), 0)
	s.emit(EventIncidentStarted, inc, inc.Target.Pos, false)
}

func (s *Sim) resolve(inc *Incident, now time.Duration) {
	took := now - inc.StartedAt
	s.particles.Burst(s.rng, inc.Target.Pos)
	s.play(cueResolved)
	s.stats.Resolved++
	s.stats.TotalResolve += took
	s.logger.Info("incident resolved", "incident", inc.ID, "target", inc.Target.ID, "took", took)
	s.record(inc, "incident", "resolved", inc.Target.ID, took.Seconds())
	s.emit(EventIncidentResolved, inc, inc.Target.Pos, false)
	s.scheduler.Clear()
	s.trace.Reset()
}

// PointerDown starts a drag when the press lands on the waiting incident's
// station. It returns true when a drag began.
func (s *Sim) PointerDown(p Point) bool {
	inc := s.scheduler.Current()
	if inc == nil || inc.State != StateWaiting {
		return false
	}
	if !inc.Station.Contains(p) {
		return false
	}
	s.trace.Begin(inc.Station.Pos)
	inc.State = StateDragging
	inc.Hint = 0
	s.play(cueDragStart)
	s.logger.Debug("drag started", "incident", inc.ID)
	s.record(inc, "drag", "started", inc.Station.ID, 0)
	s.emit(EventDragStarted, inc, p, false)
	return true
}

// PointerMove feeds a drag sample to the trace.
func (s *Sim) PointerMove(p Point) {
	if !s.trace.Dragging() {
		return
	}
	wasValid := s.trace.Valid()
	s.trace.Offer(p, s.world.Graph.DistanceToNetwork(p), Tolerance(s.settings.Strictness))
	if wasValid && !s.trace.Valid() {
		s.record(s.scheduler.Current(), "drag", "off_road", fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y), s.world.Graph.DistanceToNetwork(p))
	}
}

// PointerUp ends a drag. Releasing inside the target dispatches the vehicle;
// anywhere else returns the incident to waiting at no cost.
func (s *Sim) PointerUp(p Point) {
	if !s.trace.Dragging() {
		return
	}
	s.trace.Finish()
	inc := s.scheduler.Current()
	if inc == nil || inc.State != StateDragging {
		return
	}
	if !inc.Target.Contains(p) {
		inc.State = StateWaiting
		s.trace.Reset()
		s.stats.FailedDrops++
		s.play(cueDropMiss)
		s.logger.Debug("drop missed target", "incident", inc.ID, "x", p.X, "y", p.Y)
		s.record(inc, "drag", "drop_failed", fmt.Sprintf("(%.0f,%.0f)", p.X, p.Y), 0)
		s.emit(EventDropFailed, inc, p, false)
		return
	}

	inc.State = StateResolving
	path, handDrawn := s.chooseRoute(inc)
	s.vehicle.Start(path, inc.Station.Pos, inc.Station.Icon)
	if handDrawn {
		s.stats.HandDrawn++
	} else {
		s.stats.Fallback++
	}
	s.play(cueDropOK)
	route := "fallback"
	if handDrawn {
		route = "hand_drawn"
	}
	s.logger.Info("vehicle dispatched", "incident", inc.ID, "route", route, "points", len(path))
	s.record(inc, "route", route, fmt.Sprintf("%d points", len(path)), PolylineLength(path))
	s.emit(EventDropAccepted, inc, p, handDrawn)
}

// PointerCancel behaves like PointerUp.
func (s *Sim) PointerCancel(p Point) { s.PointerUp(p) }

// chooseRoute prefers the player's trace only when it has at least two
// points and never strayed off-road.
func (s *Sim) chooseRoute(inc *Incident) ([]Point, bool) {
	if s.trace.Usable() {
		return s.trace.Points(), true
	}
	return s.world.Route(inc.Station, inc.Target), false
}

func (s *Sim) play(tones []Tone) {
	if !s.settings.Sound {
		return
	}
	for _, t := range tones {
		s.beeper.Beep(t)
	}
}

func (s *Sim) record(inc *Incident, category, key, value string, num float64) {
	e := SessionLogEntry{Tick: s.tick, At: s.last, Category: category, Key: key, Value: value, NumVal: num}
	if inc != nil {
		e.Incident = inc.ID.String()[:8]
	}
	s.log.Add(e)
}

func (s *Sim) emit(t EventType, inc *Incident, pos Point, handDrawn bool) {
	s.events.Emit(Event{Type: t, At: s.last, Incident: *inc, Pos: pos, HandDrawn: handDrawn})
}

// Incident returns a snapshot of the active incident.
func (s *Sim) Incident() (Incident, bool) {
	inc := s.scheduler.Current()
	if inc == nil {
		return Incident{}, false
	}
	return *inc, true
}

// HintRoute returns the suggested route while the hint is visible, else nil.
func (s *Sim) HintRoute() []Point {
	inc := s.scheduler.Current()
	if inc == nil || inc.Hint <= 0 {
		return nil
	}
	return s.world.Route(inc.Station, inc.Target)
}

// Dragging reports whether the player is tracing a route.
func (s *Sim) Dragging() bool { return s.trace.Dragging() }

// Trace returns the recorded trace points and their validity.
func (s *Sim) Trace() ([]Point, bool) { return s.trace.Points(), s.trace.Valid() }

// VehicleState reports the vehicle position and icon while it is travelling.
func (s *Sim) VehicleState() (pos Point, icon string, active bool) {
	return s.vehicle.Pos(), s.vehicle.Icon, s.vehicle.Active()
}

// Particles returns the live particles. Callers must not modify them.
func (s *Sim) Particles() []Particle { return s.particles.P }

// NextIncidentAt returns when the scheduler may next create an incident.
func (s *Sim) NextIncidentAt() time.Duration { return s.scheduler.NextAt() }

// Settings returns the current settings.
func (s *Sim) Settings() Settings { return s.settings }

// SetSettings replaces the settings after clamping them.
func (s *Sim) SetSettings(st Settings) {
	st = st.Clamp()
	if st != s.settings {
		s.record(nil, "settings", "changed",
			fmt.Sprintf("every=%.0fs strictness=%.2f sound=%v", st.EventEverySec, st.Strictness, st.Sound), 0)
	}
	s.settings = st
}

// World returns the static map.
func (s *Sim) World() *World { return s.world }

// Events returns the event bus.
func (s *Sim) Events() *EventBus { return s.events }

// Log returns the session log.
func (s *Sim) Log() *SessionLog { return s.log }

// Stats returns the outcome counters.
func (s *Sim) Stats() Stats { return s.stats }

// Report renders the session report with the last n log lines.
func (s *Sim) Report(n int) string { return s.log.Report(s.stats, s.settings, n) }
