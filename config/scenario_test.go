package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScenario = `
name: hallway
steps:
  - action: forward
    ticks: 40
    throttle: 1023
    trim: 600
  - action: none
    ticks: 10
  - action: left
    ticks: 5
    beginner: true
`

func TestParseScenario(t *testing.T) {
	s, err := ParseScenario([]byte(sampleScenario))
	require.NoError(t, err)

	assert.Equal(t, "hallway", s.Name)
	require.Len(t, s.Steps, 3)
	require.NotNil(t, s.Steps[0].Throttle)
	assert.Equal(t, 1023, *s.Steps[0].Throttle)
	assert.Nil(t, s.Steps[1].Throttle)
	assert.True(t, s.Steps[2].Beginner)
	assert.Equal(t, 55, s.TotalTicks())
}

func TestParseScenarioErrors(t *testing.T) {
	tests := map[string]string{
		"no steps":       "name: empty\n",
		"unknown action": "steps:\n  - action: sideways\n    ticks: 1\n",
		"zero ticks":     "steps:\n  - action: none\n    ticks: 0\n",
		"unknown field":  "steps:\n  - action: none\n    ticks: 1\n    speed: 3\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleScenario), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Len(t, s.Steps, 3)
}
