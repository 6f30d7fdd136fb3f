package main

import (
	"testing"
	"time"

	"github.com/Garsondee/rugtown/internal/sim"
)

func testWorld(t *testing.T) *sim.World {
	t.Helper()
	w, err := sim.DefaultWorld()
	if err != nil {
		t.Fatalf("default world: %v", err)
	}
	return w
}

func TestSamplePolyline_EvenSpacingKeepsEnds(t *testing.T) {
	pts := []sim.Point{{X: 0, Y: 0}, {X: 25, Y: 0}, {X: 25, Y: 25}}
	got := samplePolyline(pts, 10)

	if got[0] != pts[0] {
		t.Fatalf("first sample = %v, want %v", got[0], pts[0])
	}
	if last := got[len(got)-1]; last != pts[2] {
		t.Fatalf("last sample = %v, want %v", last, pts[2])
	}
	// 50 units of path at 10-unit spacing: start + 5 samples, the last on the end point.
	if len(got) != 6 {
		t.Fatalf("expected 6 samples, got %d: %v", len(got), got)
	}
	for i := 1; i < len(got)-1; i++ {
		if d := got[i].Dist(got[i-1]); d > 10+1e-9 {
			t.Fatalf("samples %d and %d are %.2f apart", i-1, i, d)
		}
	}
}

func TestSamplePolyline_Degenerate(t *testing.T) {
	if got := samplePolyline(nil, 10); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
	one := []sim.Point{{X: 3, Y: 4}}
	if got := samplePolyline(one, 10); len(got) != 1 {
		t.Fatalf("expected single point, got %v", got)
	}
}

func TestRunSession_Deterministic(t *testing.T) {
	w := testWorld(t)
	st := sim.Settings{EventEverySec: 4, Strictness: 0.5}
	a := runSession(w, 1, 99, 60*time.Second, st, 0.7)
	b := runSession(w, 1, 99, 60*time.Second, st, 0.7)
	if a.stats != b.stats {
		t.Fatalf("same seed produced different sessions: %+v vs %+v", a.stats, b.stats)
	}
	if a.offRoad != b.offRoad {
		t.Fatalf("off-road counts differ: %d vs %d", a.offRoad, b.offRoad)
	}
}

func TestRunSession_AccuratePlayerNeverMisses(t *testing.T) {
	rs := runSession(testWorld(t), 1, 7, 90*time.Second, sim.Settings{EventEverySec: 5, Strictness: 0.5}, 1)
	st := rs.stats
	if st.Incidents == 0 || st.Resolved == 0 {
		t.Fatalf("expected incidents to be resolved, got %+v", st)
	}
	if st.FailedDrops != 0 {
		t.Fatalf("accuracy=1 should never miss a drop, got %d", st.FailedDrops)
	}
	if st.Incidents-st.Resolved > 1 {
		t.Fatalf("at most the last incident may be open at the end: %+v", st)
	}
	if st.HandDrawn+st.Fallback != st.Resolved && st.HandDrawn+st.Fallback != st.Resolved+1 {
		t.Fatalf("every dispatch should resolve: %+v", st)
	}
	if rs.firstIncident < 5*time.Second {
		t.Fatalf("first incident at %v, before one interval elapsed", rs.firstIncident)
	}
}

func TestRunSession_SloppyPlayerMissesAndStraysOffRoad(t *testing.T) {
	rs := runSession(testWorld(t), 1, 11, 180*time.Second, sim.Settings{EventEverySec: 3, Strictness: 1}, 0)
	if rs.stats.FailedDrops == 0 {
		t.Fatalf("accuracy=0 should miss some drops: %+v", rs.stats)
	}
	if rs.offRoad == 0 {
		t.Fatalf("accuracy=0 should produce off-road traces: %+v", rs.stats)
	}
	if rs.stats.Resolved == 0 {
		t.Fatalf("misses are retried, so incidents still resolve: %+v", rs.stats)
	}
}

func TestPct(t *testing.T) {
	if got := pct(1, 4); got != "25%" {
		t.Fatalf("pct(1,4) = %q", got)
	}
	if got := pct(0, 0); got != "n/a" {
		t.Fatalf("pct(0,0) = %q", got)
	}
}

func TestJoinCounts_Sorted(t *testing.T) {
	got := joinCounts(map[string]int{"fire": 2, "thief": 1, "medical": 3})
	if got != "fire=2 medical=3 thief=1" {
		t.Fatalf("joinCounts = %q", got)
	}
	if joinCounts(nil) != "none" {
		t.Fatalf("empty counts should print none")
	}
}
