package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestSettings_Clamp(t *testing.T) {
	got := Settings{EventEverySec: 0, Strictness: 2}.Clamp()
	assert.Equal(t, 1.0, got.EventEverySec)
	assert.Equal(t, 1.0, got.Strictness)

	got = Settings{EventEverySec: 500, Strictness: -1}.Clamp()
	assert.Equal(t, 60.0, got.EventEverySec)
	assert.Equal(t, 0.0, got.Strictness)
}

func TestSettings_Interval(t *testing.T) {
	assert.Equal(t, 2500*time.Millisecond, Settings{EventEverySec: 2.5}.Interval())
}

func TestSettingsFromEnv(t *testing.T) {
	got, err := SettingsFromEnv(DefaultSettings(), envMap(map[string]string{
		EnvEventEvery: "12",
		EnvStrictness: "0.8",
		EnvSound:      "false",
	}))
	require.NoError(t, err)
	assert.Equal(t, Settings{EventEverySec: 12, Strictness: 0.8, Sound: false}, got)
}

func TestSettingsFromEnv_UnsetKeepsBase(t *testing.T) {
	got, err := SettingsFromEnv(DefaultSettings(), envMap(map[string]string{EnvSound: ""}))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestSettingsFromEnv_ClampsAndRejects(t *testing.T) {
	got, err := SettingsFromEnv(DefaultSettings(), envMap(map[string]string{EnvEventEvery: "0.1"}))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.EventEverySec)

	for _, key := range []string{EnvEventEvery, EnvStrictness, EnvSound} {
		_, err := SettingsFromEnv(DefaultSettings(), envMap(map[string]string{key: "lots"}))
		require.Error(t, err, key)
		assert.Contains(t, err.Error(), key)
	}
}
