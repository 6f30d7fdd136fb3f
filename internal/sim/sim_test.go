package sim

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 16 * time.Millisecond

// forceIncident installs an incident of kind at the named target, bypassing
// the random draw.
func forceIncident(t *testing.T, s *Sim, kind IncidentKind, targetID string, now time.Duration) {
	t.Helper()
	for _, tgt := range s.world.Targets {
		if tgt.ID == targetID {
			s.scheduler.current = &Incident{
				ID:        uuid.New(),
				Kind:      kind,
				Station:   s.world.Station(kind),
				Target:    tgt,
				StartedAt: now,
				State:     StateWaiting,
				Hint:      1,
			}
			return
		}
	}
	t.Fatalf("no target %q", targetID)
}

// runUntilResolved ticks from now in frame steps until the incident is gone
// and returns the time it happened.
func runUntilResolved(t *testing.T, s *Sim, now time.Duration) time.Duration {
	t.Helper()
	for i := 0; i < 10000; i++ {
		now += frame
		s.Tick(now)
		if _, ok := s.Incident(); !ok {
			return now
		}
	}
	t.Fatal("incident never resolved")
	return 0
}

type toneRecorder struct {
	tones []Tone
}

func (r *toneRecorder) Beep(t Tone) { r.tones = append(r.tones, t) }

func TestSim_FallbackResolvesAtConstantSpeed(t *testing.T) {
	// One waypoint on the station: the computed route is station -> target.
	g, err := NewRoadGraph([]Waypoint{{"S", Point{110, 700}}}, nil)
	require.NoError(t, err)
	st := POI{ID: "station", Pos: Point{110, 700}, Radius: 55, Icon: "police-car"}
	tgt := POI{ID: "target", Pos: Point{240, 820}, Radius: 80}
	w, err := NewWorld(g, [kindCount]POI{st, st, st}, []POI{tgt})
	require.NoError(t, err)

	s := NewSim(w, WithSeed(1), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "target", 0)

	require.True(t, s.PointerDown(Point{120, 690}))
	s.PointerUp(Point{240, 820})
	inc, ok := s.Incident()
	require.True(t, ok)
	require.Equal(t, StateResolving, inc.State)
	assert.Equal(t, 1, s.Stats().Fallback)

	length := Point{110, 700}.Dist(Point{240, 820})
	expected := time.Duration(length / DefaultVehicleSpeed * float64(time.Second))
	done := runUntilResolved(t, s, 0)
	assert.GreaterOrEqual(t, done, expected)
	assert.LessOrEqual(t, done, expected+MaxStep)
	assert.Equal(t, 1, s.Stats().Resolved)
	assert.Len(t, s.Particles(), burstSize)
}

func TestSim_StrictnessDecidesTraceValidity(t *testing.T) {
	cases := []struct {
		strictness float64
		wantValid  bool
	}{
		{0, true},
		{1, false},
	}
	for _, tc := range cases {
		s := NewSim(testWorld(t), WithSeed(2), WithSettings(Settings{EventEverySec: 30, Strictness: tc.strictness}))
		s.Start(0)
		forceIncident(t, s, KindThief, "desert", 0)

		require.True(t, s.PointerDown(Point{110, 700}))
		// 40 units north of the B-G road.
		s.PointerMove(Point{200, 660})
		pts, valid := s.Trace()
		assert.Equal(t, tc.wantValid, valid, "strictness %.0f", tc.strictness)
		if tc.wantValid {
			assert.Len(t, pts, 2)
		} else {
			assert.Len(t, pts, 1)
		}
	}
}

func TestSim_HandDrawnTraceIsDriven(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(3), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "desert", 0)

	require.True(t, s.PointerDown(Point{110, 700}))
	for x := 120.0; x <= 240; x += 15 {
		s.PointerMove(Point{x, 700})
	}
	// The release point is only hit-tested against the target.
	s.PointerUp(Point{245, 800})

	assert.Equal(t, 1, s.Stats().HandDrawn)
	assert.Equal(t, 0, s.Stats().Fallback)
	route, ok := s.Log().LastOf("route", "hand_drawn")
	require.True(t, ok)
	assert.Contains(t, route.Value, "points")

	runUntilResolved(t, s, 0)
	pos, _, active := s.VehicleState()
	assert.False(t, active)
	assert.Equal(t, Point{240, 700}, pos, "vehicle stops at the last traced point")
}

func TestSim_InvalidTraceFallsBackToRoute(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(4), WithSettings(Settings{EventEverySec: 30, Strictness: 1}))
	s.Start(0)
	forceIncident(t, s, KindThief, "desert", 0)

	require.True(t, s.PointerDown(Point{110, 700}))
	s.PointerMove(Point{150, 700})
	s.PointerMove(Point{200, 600}) // far off-road
	s.PointerMove(Point{240, 700})
	s.PointerUp(Point{240, 820})

	assert.Equal(t, 1, s.Stats().Fallback)
	runUntilResolved(t, s, 0)
	pos, _, _ := s.VehicleState()
	assert.Equal(t, Point{240, 820}, pos, "computed route ends on the target")
}

func TestSim_ReleaseOutsideTargetReturnsToWaiting(t *testing.T) {
	rec := &toneRecorder{}
	s := NewSim(testWorld(t), WithSeed(5), WithBeeper(rec), WithSettings(Settings{EventEverySec: 30, Sound: true}))
	s.Start(0)
	forceIncident(t, s, KindFire, "village", 0)

	require.True(t, s.PointerDown(Point{445, 500}))
	s.PointerMove(Point{450, 440})
	s.PointerMove(Point{450, 380})
	s.PointerUp(Point{450, 340}) // on the road, nowhere near the village

	inc, ok := s.Incident()
	require.True(t, ok)
	assert.Equal(t, StateWaiting, inc.State)
	pts, _ := s.Trace()
	assert.Empty(t, pts)
	assert.False(t, s.Dragging())
	_, _, active := s.VehicleState()
	assert.False(t, active, "no vehicle is spawned on a failed drop")
	assert.Equal(t, 1, s.Stats().FailedDrops)
	require.NotEmpty(t, rec.tones)
	assert.Equal(t, cueDropMiss[0], rec.tones[len(rec.tones)-1])

	// Retry is free.
	assert.True(t, s.PointerDown(Point{445, 500}))
}

func TestSim_PressOutsideStationIgnored(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(6))
	s.Start(0)
	forceIncident(t, s, KindMedical, "shop", 0)

	assert.False(t, s.PointerDown(Point{110, 700}), "police station does not answer medical calls")
	inc, _ := s.Incident()
	assert.Equal(t, StateWaiting, inc.State)
	assert.False(t, s.Dragging())
}

func TestSim_DragKillsHint(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(7))
	s.Start(0)
	forceIncident(t, s, KindThief, "castle", 0)
	assert.NotEmpty(t, s.HintRoute())

	require.True(t, s.PointerDown(Point{110, 700}))
	inc, _ := s.Incident()
	assert.Equal(t, 0.0, inc.Hint)
	assert.Nil(t, s.HintRoute())
}

func TestSim_HintFadesInFourSeconds(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(8), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "castle", 0)

	now := time.Duration(0)
	for now < 3900*time.Millisecond {
		now += frame
		s.Tick(now)
	}
	inc, _ := s.Incident()
	assert.Greater(t, inc.Hint, 0.0)
	for now < 4100*time.Millisecond {
		now += frame
		s.Tick(now)
	}
	inc, _ = s.Incident()
	assert.Equal(t, 0.0, inc.Hint)
}

func TestSim_TickClampsLargeGaps(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(9), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "castle", 0)

	s.Tick(10 * time.Second) // tab stall
	inc, _ := s.Incident()
	assert.InDelta(t, MaxStep.Seconds(), inc.Pulse, 1e-9)
}

func TestSim_NeverTwoIncidents(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(10), WithSettings(Settings{EventEverySec: 1}))
	active := 0
	maxActive := 0
	var targets []string
	s.Events().Subscribe(EventIncidentStarted, func(e Event) {
		active++
		maxActive = max(maxActive, active)
		targets = append(targets, e.Incident.Target.ID)
	})
	s.Events().Subscribe(EventIncidentResolved, func(Event) { active-- })

	now := time.Duration(0)
	s.Start(now)
	for range 60 * 120 {
		now += frame
		s.Tick(now)
		inc, ok := s.Incident()
		if !ok || inc.State != StateWaiting {
			continue
		}
		// Instant dispatch via the computed route.
		s.PointerDown(inc.Station.Pos)
		s.PointerUp(inc.Target.Pos)
	}
	assert.Equal(t, 1, maxActive)
	assert.Greater(t, s.Stats().Resolved, 5)

	assert.Equal(t, len(targets), s.Log().Count("incident", "started"))
	for i := 1; i < len(targets); i++ {
		assert.NotEqual(t, targets[i-1], targets[i], "incident %d repeats its predecessor's target", i)
	}
}

func TestSim_FirstIncidentWaitsOneInterval(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(12), WithSettings(Settings{EventEverySec: 5}))
	s.Start(0)
	assert.GreaterOrEqual(t, s.NextIncidentAt(), 5450*time.Millisecond)

	now := time.Duration(0)
	for now < 5*time.Second {
		now += frame
		s.Tick(now)
	}
	_, ok := s.Incident()
	assert.False(t, ok)

	for now < 7*time.Second {
		now += frame
		s.Tick(now)
	}
	inc, ok := s.Incident()
	require.True(t, ok)
	assert.Equal(t, StateWaiting, inc.State)
	assert.Equal(t, 1, s.Stats().Incidents)
}

func TestSim_SoundOffIsSilent(t *testing.T) {
	rec := &toneRecorder{}
	s := NewSim(testWorld(t), WithSeed(13), WithBeeper(rec), WithSettings(Settings{EventEverySec: 1, Sound: false}))
	now := time.Duration(0)
	s.Start(now)
	for range 60 * 10 {
		now += frame
		s.Tick(now)
		if inc, ok := s.Incident(); ok && inc.State == StateWaiting {
			s.PointerDown(inc.Station.Pos)
			s.PointerUp(inc.Target.Pos)
		}
	}
	require.Greater(t, s.Stats().Incidents, 0)
	assert.Empty(t, rec.tones)
}

func TestSim_AlertCueMatchesKind(t *testing.T) {
	rec := &toneRecorder{}
	var kind IncidentKind
	s := NewSim(testWorld(t), WithSeed(14), WithBeeper(rec), WithSettings(Settings{EventEverySec: 1, Sound: true}))
	s.Events().Subscribe(EventIncidentStarted, func(e Event) { kind = e.Incident.Kind })
	now := time.Duration(0)
	s.Start(now)
	for len(rec.tones) == 0 {
		now += frame
		s.Tick(now)
	}
	assert.Equal(t, alertCues[kind], rec.tones)
}

func TestSim_SetSettingsClampsAndLogs(t *testing.T) {
	s := NewSim(testWorld(t))
	s.SetSettings(Settings{EventEverySec: 0, Strictness: 3, Sound: true})
	assert.Equal(t, Settings{EventEverySec: 1, Strictness: 1, Sound: true}, s.Settings())
	assert.Equal(t, 1, s.Log().Count("settings", "changed"))

	s.SetSettings(s.Settings())
	assert.Equal(t, 1, s.Log().Count("settings", "changed"), "unchanged settings are not logged")
}

func TestSim_ParticlesExpire(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(15), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "desert", 0)
	s.PointerDown(Point{110, 700})
	s.PointerUp(Point{240, 820})
	now := runUntilResolved(t, s, 0)
	require.Len(t, s.Particles(), burstSize)

	end := now + time.Second
	for now < end {
		now += frame
		s.Tick(now)
	}
	assert.Empty(t, s.Particles())
}

func TestSim_ReportSummarisesSession(t *testing.T) {
	s := NewSim(testWorld(t), WithSeed(16), WithSettings(Settings{EventEverySec: 30}))
	s.Start(0)
	forceIncident(t, s, KindThief, "desert", 0)
	s.PointerDown(Point{110, 700})
	s.PointerUp(Point{600, 100})
	s.PointerDown(Point{110, 700})
	s.PointerUp(Point{240, 820})
	runUntilResolved(t, s, 0)

	report := s.Report(10)
	assert.Contains(t, report, "resolved=1")
	assert.Contains(t, report, "failed_drops=1")
	assert.Contains(t, report, "drop_failed")
	assert.Contains(t, report, "mean_time_to_resolve=")
}
