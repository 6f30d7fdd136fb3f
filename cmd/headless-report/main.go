package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Garsondee/rugtown/internal/sim"
)

type runStats struct {
	runIndex int
	seed     int64

	stats         sim.Stats
	offRoad       int
	firstIncident time.Duration
	slowest       time.Duration
	byKind        map[string]int
	byTarget      map[string]int
}

func main() {
	_ = godotenv.Load()
	base, err := sim.SettingsFromEnv(sim.DefaultSettings(), os.LookupEnv)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	var runs int
	var seconds float64
	var seedBase int64
	var seedStep int64
	var accuracy float64
	settings := base
	settings.Sound = false

	flag.IntVar(&runs, "runs", 5, "number of headless sessions")
	flag.Float64Var(&seconds, "seconds", 120, "simulated seconds per session")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.Float64Var(&accuracy, "accuracy", 0.8, "probability the autoplayer traces cleanly (0-1)")
	flag.Float64Var(&settings.EventEverySec, "every", base.EventEverySec, "seconds between incidents (1-60)")
	flag.Float64Var(&settings.Strictness, "strictness", base.Strictness, "road strictness (0-1)")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if seconds <= 0 {
		fmt.Println("error: -seconds must be > 0")
		return
	}
	if accuracy < 0 || accuracy > 1 {
		fmt.Println("error: -accuracy must be within 0..1")
		return
	}
	settings = settings.Clamp()

	world, err := sim.DefaultWorld()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Dispatch Report ===\n")
	fmt.Printf("runs=%d seconds=%.0f seed_base=%d seed_step=%d accuracy=%.2f every=%.0fs strictness=%.2f\n\n",
		runs, seconds, seedBase, seedStep, accuracy, settings.EventEverySec, settings.Strictness)

	dur := time.Duration(seconds * float64(time.Second))
	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		rs := runSession(world, i+1, seed, dur, settings, accuracy)
		all = append(all, rs)
		printRun(rs)
	}

	printAggregate(all)
}

// runSession plays one session with the autoplayer at a fixed frame rate.
func runSession(world *sim.World, runIndex int, seed int64, dur time.Duration, settings sim.Settings, accuracy float64) runStats {
	s := sim.NewSim(world, sim.WithSeed(seed), sim.WithSettings(settings))
	rs := runStats{
		runIndex:      runIndex,
		seed:          seed,
		firstIncident: -1,
		byKind:        map[string]int{},
		byTarget:      map[string]int{},
	}
	s.Events().Subscribe(sim.EventIncidentStarted, func(e sim.Event) {
		if rs.firstIncident < 0 {
			rs.firstIncident = e.At
		}
		rs.byKind[e.Incident.Kind.String()]++
		rs.byTarget[e.Incident.Target.ID]++
	})
	s.Events().Subscribe(sim.EventIncidentResolved, func(e sim.Event) {
		rs.slowest = max(rs.slowest, e.At-e.Incident.StartedAt)
	})

	player := newAutoplayer(seed, accuracy)
	s.Start(0)
	for now := time.Duration(0); now <= dur; now += frame {
		player.step(now, s)
		s.Tick(now)
	}

	rs.stats = s.Stats()
	rs.offRoad = s.Log().Count("drag", "off_road")
	return rs
}

func printRun(rs runStats) {
	st := rs.stats
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcomes: incidents=%d resolved=%d failed_drops=%d off_road_traces=%d\n",
		st.Incidents, st.Resolved, st.FailedDrops, rs.offRoad)
	fmt.Printf("routes: hand_drawn=%d fallback=%d hand_drawn_rate=%s\n",
		st.HandDrawn, st.Fallback, pct(st.HandDrawn, st.HandDrawn+st.Fallback))
	fmt.Printf("timing: first_incident=%s mean_time_to_resolve=%s slowest=%.2fs\n",
		secString(rs.firstIncident), meanString(st), rs.slowest.Seconds())
	fmt.Printf("kinds: %s\n", joinCounts(rs.byKind))
	fmt.Printf("targets: %s\n", joinCounts(rs.byTarget))
	fmt.Println()
}

func printAggregate(all []runStats) {
	var total sim.Stats
	totalOffRoad := 0
	kinds := map[string]int{}
	targets := map[string]int{}
	firsts := make([]time.Duration, 0, len(all))
	for _, rs := range all {
		total.Incidents += rs.stats.Incidents
		total.Resolved += rs.stats.Resolved
		total.FailedDrops += rs.stats.FailedDrops
		total.HandDrawn += rs.stats.HandDrawn
		total.Fallback += rs.stats.Fallback
		total.TotalResolve += rs.stats.TotalResolve
		totalOffRoad += rs.offRoad
		if rs.firstIncident >= 0 {
			firsts = append(firsts, rs.firstIncident)
		}
		for k, v := range rs.byKind {
			kinds[k] += v
		}
		for k, v := range rs.byTarget {
			targets[k] += v
		}
	}

	n := len(all)
	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", n)
	fmt.Printf("avg_per_run: incidents=%.1f resolved=%.1f failed_drops=%.1f off_road_traces=%.1f\n",
		avg(total.Incidents, n), avg(total.Resolved, n), avg(total.FailedDrops, n), avg(totalOffRoad, n))
	fmt.Printf("routes: hand_drawn=%d fallback=%d hand_drawn_rate=%s\n",
		total.HandDrawn, total.Fallback, pct(total.HandDrawn, total.HandDrawn+total.Fallback))
	fmt.Printf("drop_accuracy=%s\n", pct(total.HandDrawn+total.Fallback, total.HandDrawn+total.Fallback+total.FailedDrops))
	fmt.Printf("timing: avg_first_incident=%s mean_time_to_resolve=%s\n", avgDuration(firsts), meanString(total))
	fmt.Printf("kinds: %s\n", joinCounts(kinds))
	fmt.Printf("targets: %s\n", joinCounts(targets))
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func pct(part, whole int) string {
	if whole <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(whole)*100)
}

func secString(d time.Duration) string {
	if d < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

func meanString(st sim.Stats) string {
	if st.Resolved == 0 {
		return "n/a"
	}
	return secString(st.MeanResolve())
}

func avgDuration(vals []time.Duration) string {
	if len(vals) == 0 {
		return "n/a"
	}
	var sum time.Duration
	for _, v := range vals {
		sum += v
	}
	return secString(sum / time.Duration(len(vals)))
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, " ")
}
