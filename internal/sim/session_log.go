package sim

import (
	"fmt"
	"strings"
	"time"
)

// SessionLogEntry is one recorded event during a session.
type SessionLogEntry struct {
	Tick     int
	At       time.Duration
	Incident string  // short incident label, or "--" for global events
	Category string  // incident, drag, route, vehicle, settings
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=0412 12.40s] 1f3a2b4c incident  started          thief -> castle
func (e SessionLogEntry) String() string {
	return fmt.Sprintf("[T=%04d %6.2fs] %-8s %-9s %-16s %s",
		e.Tick, e.At.Seconds(), e.Incident, e.Category, e.Key, e.Value)
}

// SessionLog collects structured events for the whole session. It is
// unbounded and machine-readable; DispatchFeed in the game package is the
// on-screen view.
type SessionLog struct {
	entries []SessionLogEntry
}

// NewSessionLog creates an empty log.
func NewSessionLog() *SessionLog {
	return &SessionLog{}
}

// Add records a new entry.
func (sl *SessionLog) Add(e SessionLogEntry) {
	if e.Incident == "" {
		e.Incident = "--"
	}
	sl.entries = append(sl.entries, e)
}

// Entries returns all recorded entries.
func (sl *SessionLog) Entries() []SessionLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SessionLog) Filter(category, key string) []SessionLogEntry {
	var out []SessionLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Count returns how many entries match the given category and key.
func (sl *SessionLog) Count(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SessionLog) LastOf(category, key string) (SessionLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SessionLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format returns the full log as a single string.
func (sl *SessionLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Report renders the session stats followed by the last n log lines.
func (sl *SessionLog) Report(st Stats, settings Settings, n int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- RugTown session report ---\n")
	fmt.Fprintf(&sb, "settings: every=%.0fs strictness=%.2f sound=%v\n",
		settings.EventEverySec, settings.Strictness, settings.Sound)
	fmt.Fprintf(&sb, "incidents=%d resolved=%d failed_drops=%d hand_drawn=%d fallback=%d\n",
		st.Incidents, st.Resolved, st.FailedDrops, st.HandDrawn, st.Fallback)
	if st.Resolved > 0 {
		fmt.Fprintf(&sb, "mean_time_to_resolve=%.2fs\n", st.MeanResolve().Seconds())
	}
	entries := sl.entries
	if n > 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	if len(entries) > 0 {
		sb.WriteString("log:\n")
	}
	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
