package sim

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// IncidentState is the lifecycle stage of the active incident.
type IncidentState int

const (
	StateWaiting IncidentState = iota
	StateDragging
	StateResolving
)

func (s IncidentState) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResolving:
		return "resolving"
	}
	return "waiting"
}

// Incident is the single active emergency.
type Incident struct {
	ID        uuid.UUID
	Kind      IncidentKind
	Station   POI
	Target    POI
	StartedAt time.Duration
	State     IncidentState
	Hint      float64 // hint overlay strength in [0,1]
	Pulse     float64 // seconds alive, drives ring animation
}

const (
	hintDecayPerSec = 0.25
	jitterMin       = 450 * time.Millisecond
	jitterSpan      = 900 * time.Millisecond
)

// decay fades the hint linearly; it reaches zero four seconds after creation.
func (inc *Incident) decay(dt float64) {
	inc.Pulse += dt
	inc.Hint -= dt * hintDecayPerSec
	if inc.Hint < 0 {
		inc.Hint = 0
	}
}

// Scheduler paces incident creation and owns the current incident.
type Scheduler struct {
	world      *World
	rng        *rand.Rand
	current    *Incident
	nextAt     time.Duration
	lastTarget string
}

// NewScheduler creates a scheduler with no pending incident.
func NewScheduler(world *World, rng *rand.Rand) *Scheduler {
	return &Scheduler{world: world, rng: rng}
}

// ScheduleNext arms the timer for now + every + a 0.45..1.35 s jitter.
func (s *Scheduler) ScheduleNext(now, every time.Duration) {
	jitter := jitterMin + time.Duration(s.rng.Float64()*float64(jitterSpan))
	s.nextAt = now + every + jitter
}

// NextAt returns the earliest time the next incident may appear.
func (s *Scheduler) NextAt() time.Duration { return s.nextAt }

// Current returns the active incident, or nil.
func (s *Scheduler) Current() *Incident { return s.current }

// MaybeStart creates an incident when none is active and the timer elapsed.
// It returns nil when nothing was created.
func (s *Scheduler) MaybeStart(now time.Duration) *Incident {
	if s.current != nil || now < s.nextAt {
		return nil
	}
	kind := Kinds[s.rng.Intn(len(Kinds))]
	target := PickTarget(s.rng, s.world.Targets, s.lastTarget)
	s.current = &Incident{
		ID:        uuid.New(),
		Kind:      kind,
		Station:   s.world.Station(kind),
		Target:    target,
		StartedAt: now,
		State:     StateWaiting,
		Hint:      1,
	}
	s.lastTarget = target.ID
	return s.current
}

// Clear destroys the active incident.
func (s *Scheduler) Clear() { s.current = nil }

// PickTarget draws uniformly from pool. If the draw equals excluding and the
// pool has another candidate, it redraws once from the pool without it.
func PickTarget(rng *rand.Rand, pool []POI, excluding string) POI {
	t := pool[rng.Intn(len(pool))]
	if t.ID != excluding || len(pool) < 2 {
		return t
	}
	rest := make([]POI, 0, len(pool)-1)
	for _, p := range pool {
		if p.ID != excluding {
			rest = append(rest, p)
		}
	}
	if len(rest) == 0 {
		return t
	}
	return rest[rng.Intn(len(rest))]
}
