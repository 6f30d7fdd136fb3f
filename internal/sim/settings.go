package sim

import (
	"fmt"
	"strconv"
	"time"
)

// Settings are the player-facing knobs, read on every tick and interaction.
type Settings struct {
	EventEverySec float64 // mean gap between incidents, before jitter
	Strictness    float64 // 0 = lenient road adherence, 1 = strict
	Sound         bool
}

const (
	minEventEverySec = 1
	maxEventEverySec = 60
)

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{EventEverySec: 6, Strictness: 0.5, Sound: true}
}

// Clamp returns s with every field forced into its valid range.
func (s Settings) Clamp() Settings {
	s.EventEverySec = clampF(s.EventEverySec, minEventEverySec, maxEventEverySec)
	s.Strictness = clampF(s.Strictness, 0, 1)
	return s
}

// Interval is EventEverySec as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.EventEverySec * float64(time.Second))
}

// Environment variables read by SettingsFromEnv.
const (
	EnvEventEvery = "RUGTOWN_EVENT_EVERY"
	EnvStrictness = "RUGTOWN_STRICTNESS"
	EnvSound      = "RUGTOWN_SOUND"
)

// SettingsFromEnv overlays any set RUGTOWN_* variables on base. lookup is
// usually os.LookupEnv.
func SettingsFromEnv(base Settings, lookup func(string) (string, bool)) (Settings, error) {
	st := base
	if v, ok := lookup(EnvEventEvery); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvEventEvery, err)
		}
		st.EventEverySec = f
	}
	if v, ok := lookup(EnvStrictness); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvStrictness, err)
		}
		st.Strictness = f
	}
	if v, ok := lookup(EnvSound); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return base, fmt.Errorf("%s: %w", EnvSound, err)
		}
		st.Sound = b
	}
	return st.Clamp(), nil
}
