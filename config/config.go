// Package config holds the drive tuning. The firmware is built with Default;
// the host tools can load overrides from JSON.
package config

import (
	"fmt"
	"time"

	"github.com/wardrush/VandyTom2018/input"
	"github.com/wardrush/VandyTom2018/motion"
	"go.uber.org/multierr"
)

// MotorConfig is one motor driver channel
type MotorConfig struct {
	Center int `json:"center"`
	Min    int `json:"min"`
	Max    int `json:"max"`
}

// Tuning is the complete set of drive parameters
type Tuning struct {
	AccelStep       int `json:"accel_step"`
	DecelStep       int `json:"decel_step"`
	TrimSensitivity int `json:"trim_sensitivity"`
	GovernorSpan    int `json:"governor_span"`
	LatchTicks      int `json:"latch_ticks"`

	MotorA MotorConfig `json:"motor_a"`
	MotorB MotorConfig `json:"motor_b"`

	TickPeriodMS    int   `json:"tick_period_ms"`
	InputMax        int   `json:"input_max"`
	ADCFullScale    int   `json:"adc_full_scale"`
	ADCOversample   uint8 `json:"adc_oversample"`
	DebounceSamples int   `json:"debounce_samples"`
	DriverBaud      int   `json:"driver_baud"`
	TelemetryEvery  int   `json:"telemetry_every"`
	HeartbeatTicks  int   `json:"heartbeat_ticks"`
}

// Default returns the tuning the firmware is built with
func Default() *Tuning {
	return &Tuning{
		AccelStep:       2,
		DecelStep:       4,
		TrimSensitivity: 8,
		GovernorSpan:    10,
		LatchTicks:      20,
		MotorA:          MotorConfig{Center: 64, Min: 1, Max: 127},
		MotorB:          MotorConfig{Center: 192, Min: 128, Max: 255},
		TickPeriodMS:    30,
		InputMax:        1023,
		ADCFullScale:    4095,
		ADCOversample:   4,
		DebounceSamples: 3,
		DriverBaud:      9600,
		TelemetryEvery:  5,
		HeartbeatTicks:  16,
	}
}

// applyDefaults fills in missing configuration values from Default
func applyDefaults(t *Tuning) {
	def := Default()

	if t.AccelStep == 0 {
		t.AccelStep = def.AccelStep
	}
	if t.DecelStep == 0 {
		t.DecelStep = def.DecelStep
	}
	if t.TrimSensitivity == 0 {
		t.TrimSensitivity = def.TrimSensitivity
	}
	if t.GovernorSpan == 0 {
		t.GovernorSpan = def.GovernorSpan
	}
	if t.LatchTicks == 0 {
		t.LatchTicks = def.LatchTicks
	}
	if t.MotorA == (MotorConfig{}) {
		t.MotorA = def.MotorA
	}
	if t.MotorB == (MotorConfig{}) {
		t.MotorB = def.MotorB
	}
	if t.TickPeriodMS == 0 {
		t.TickPeriodMS = def.TickPeriodMS
	}
	if t.InputMax == 0 {
		t.InputMax = def.InputMax
	}
	if t.ADCFullScale == 0 {
		t.ADCFullScale = def.ADCFullScale
	}
	if t.ADCOversample == 0 {
		t.ADCOversample = def.ADCOversample
	}
	if t.DebounceSamples == 0 {
		t.DebounceSamples = def.DebounceSamples
	}
	if t.DriverBaud == 0 {
		t.DriverBaud = def.DriverBaud
	}
	if t.TelemetryEvery == 0 {
		t.TelemetryEvery = def.TelemetryEvery
	}
	if t.HeartbeatTicks == 0 {
		t.HeartbeatTicks = def.HeartbeatTicks
	}
}

// Validate reports every inconsistent value at once
func (t *Tuning) Validate() error {
	var err error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(t.AccelStep > 0, "accel_step must be positive, got %d", t.AccelStep)
	check(t.DecelStep >= t.AccelStep, "decel_step %d must not be below accel_step %d", t.DecelStep, t.AccelStep)
	check(t.TrimSensitivity >= 0, "trim_sensitivity must not be negative, got %d", t.TrimSensitivity)
	check(t.GovernorSpan > t.TrimSensitivity, "governor_span %d must exceed trim_sensitivity %d", t.GovernorSpan, t.TrimSensitivity)
	check(t.LatchTicks >= 0, "latch_ticks must not be negative, got %d", t.LatchTicks)

	err = multierr.Append(err, validateMotor("motor_a", t.MotorA, 1, 127))
	err = multierr.Append(err, validateMotor("motor_b", t.MotorB, 128, 255))
	check(t.GovernorSpan <= t.MotorA.Center-t.MotorA.Min && t.GovernorSpan <= t.MotorA.Max-t.MotorA.Center,
		"governor_span %d does not fit motor_a", t.GovernorSpan)
	check(t.GovernorSpan <= t.MotorB.Center-t.MotorB.Min && t.GovernorSpan <= t.MotorB.Max-t.MotorB.Center,
		"governor_span %d does not fit motor_b", t.GovernorSpan)

	check(t.TickPeriodMS > 0, "tick_period_ms must be positive, got %d", t.TickPeriodMS)
	check(t.InputMax > 0, "input_max must be positive, got %d", t.InputMax)
	check(t.ADCFullScale > 0 && t.ADCFullScale <= 0xFFFF, "adc_full_scale out of range: %d", t.ADCFullScale)
	check(t.DebounceSamples > 0, "debounce_samples must be positive, got %d", t.DebounceSamples)
	check(t.DriverBaud > 0, "driver_baud must be positive, got %d", t.DriverBaud)
	check(t.TelemetryEvery >= 0, "telemetry_every must not be negative, got %d", t.TelemetryEvery)
	check(t.HeartbeatTicks > 0, "heartbeat_ticks must be positive, got %d", t.HeartbeatTicks)

	return err
}

func validateMotor(name string, m MotorConfig, lo, hi int) error {
	if !(m.Min < m.Center && m.Center < m.Max) {
		return fmt.Errorf("%s: need min < center < max, got %d/%d/%d", name, m.Min, m.Center, m.Max)
	}
	if m.Min < lo || m.Max > hi {
		return fmt.Errorf("%s: range %d..%d outside channel %d..%d", name, m.Min, m.Max, lo, hi)
	}
	return nil
}

// MotionParams converts the tuning into the drive core's parameters
func (t *Tuning) MotionParams() motion.Params {
	return motion.Params{
		A:               motion.Motor(t.MotorA),
		B:               motion.Motor(t.MotorB),
		AccelStep:       t.AccelStep,
		DecelStep:       t.DecelStep,
		TrimSensitivity: t.TrimSensitivity,
		GovernorSpan:    t.GovernorSpan,
		InputMax:        t.InputMax,
	}
}

// InputSettings converts the tuning into sampler settings
func (t *Tuning) InputSettings() input.Settings {
	return input.Settings{
		DebounceSamples: t.DebounceSamples,
		LatchTicks:      t.LatchTicks,
		Oversample:      t.ADCOversample,
		ADCFullScale:    t.ADCFullScale,
		InputMax:        t.InputMax,
	}
}

// TickPeriod is the control loop period
func (t *Tuning) TickPeriod() time.Duration {
	return time.Duration(t.TickPeriodMS) * time.Millisecond
}
