package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrush/VandyTom2018/motion"
	"go.uber.org/multierr"
)

func TestDefaultIsValid(t *testing.T) {
	def := Default()
	require.NoError(t, def.Validate())
	assert.Equal(t, 30*time.Millisecond, def.TickPeriod())
	assert.Equal(t, motion.DefaultParams(), def.MotionParams())

	in := def.InputSettings()
	assert.Equal(t, 20, in.LatchTicks)
	assert.Equal(t, 3, in.DebounceSamples)
	assert.Equal(t, 4095, in.ADCFullScale)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{"accel_step": 1, "latch_ticks": 40}`))
	require.NoError(t, err)

	want := Default()
	want.AccelStep = 1
	want.LatchTicks = 40
	assert.Equal(t, want, cfg)
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.AccelStep = 5
	cfg.DecelStep = 4
	cfg.MotorA = MotorConfig{Center: 64, Min: 0, Max: 127}
	cfg.MotorB = MotorConfig{Center: 100, Min: 128, Max: 255}
	cfg.TickPeriodMS = -1

	err := cfg.Validate()
	require.Error(t, err)
	errs := multierr.Errors(err)
	assert.Len(t, errs, 5)
	assert.Contains(t, err.Error(), "decel_step 4 must not be below accel_step 5")
	assert.Contains(t, err.Error(), "motor_a: range 0..127")
	assert.Contains(t, err.Error(), "motor_b: need min < center < max")
	assert.Contains(t, err.Error(), "governor_span 10 does not fit motor_b")
	assert.Contains(t, err.Error(), "tick_period_ms")
}

func TestValidateTrimMustStayInsideGovernorSpan(t *testing.T) {
	cfg := Default()
	cfg.TrimSensitivity = 10
	assert.ErrorContains(t, cfg.Validate(), "must exceed trim_sensitivity")
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	_, err := LoadConfig([]byte(`{"decel_step": 1}`))
	assert.ErrorContains(t, err, "invalid tuning")

	_, err = LoadConfig([]byte(`{`))
	assert.ErrorContains(t, err, "parse tuning")
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "chair.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tick_period_ms": 20}`), 0o644))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.TickPeriodMS)

	_, err = Load(filepath.Join(dir, "chair.yaml"))
	assert.ErrorContains(t, err, "expected .json")

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, make([]byte, maxFileSize+1), 0o644))
	_, err = Load(big)
	assert.ErrorContains(t, err, "larger than")
}
