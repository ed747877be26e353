package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/motion"
)

// fakeGPIO models pulled-up inputs: a released line reads high.
type fakeGPIO struct {
	level  map[core.GPIOPin]bool
	broken map[core.GPIOPin]bool
}

func (f *fakeGPIO) ConfigureOutput(core.GPIOPin) error { return nil }

func (f *fakeGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	f.level[pin] = true
	return nil
}

func (f *fakeGPIO) SetPin(pin core.GPIOPin, v bool) error {
	f.level[pin] = v
	return nil
}

func (f *fakeGPIO) GetPin(pin core.GPIOPin) (bool, error) {
	if f.broken[pin] {
		return true, errors.New("read failed")
	}
	return f.level[pin], nil
}

func (f *fakeGPIO) press(pin core.GPIOPin, down bool) { f.level[pin] = !down }

type fakeADC struct {
	value  map[core.ADCChannelID]core.ADCValue
	broken map[core.ADCChannelID]bool
}

func (f *fakeADC) Init(core.ADCConfig) error                { return nil }
func (f *fakeADC) ConfigureChannel(core.ADCChannelID) error { return nil }

func (f *fakeADC) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	if f.broken[ch] {
		return 0, errors.New("adc failed")
	}
	return f.value[ch], nil
}

var testLines = Lines{
	EmergencyStop: 2, Forward: 3, Reverse: 4, Left: 5, Right: 6, Beginner: 7,
	Throttle: 0, Trim: 1,
}

func newTestSampler(t *testing.T, settings Settings) (*Sampler, *fakeGPIO, *fakeADC) {
	t.Helper()
	gpio := &fakeGPIO{level: map[core.GPIOPin]bool{}, broken: map[core.GPIOPin]bool{}}
	adc := &fakeADC{value: map[core.ADCChannelID]core.ADCValue{}, broken: map[core.ADCChannelID]bool{}}
	core.SetGPIODriver(gpio)
	core.SetADCDriver(adc)

	s, err := NewSampler(testLines, settings)
	require.NoError(t, err)
	return s, gpio, adc
}

var testSettings = Settings{
	DebounceSamples: 1,
	LatchTicks:      2,
	Oversample:      1,
	ADCFullScale:    4095,
	InputMax:        1023,
}

func TestSamplerReadsActiveLowButtons(t *testing.T) {
	s, gpio, adc := newTestSampler(t, testSettings)
	adc.value[testLines.Throttle] = 4095
	adc.value[testLines.Trim] = 2048

	smp, err := s.Sample()
	require.NoError(t, err)
	assert.Equal(t, motion.ActionNone, smp.Action)
	assert.Equal(t, 1023, smp.Throttle)
	assert.Equal(t, 511, smp.Trim)

	gpio.press(testLines.Reverse, true)
	gpio.press(testLines.Left, true)
	smp, err = s.Sample()
	require.NoError(t, err)
	assert.Equal(t, motion.ActionReverse, smp.Action)
	assert.True(t, smp.Buttons.Left)
}

func TestSamplerDebounces(t *testing.T) {
	settings := testSettings
	settings.DebounceSamples = 3
	s, gpio, _ := newTestSampler(t, settings)

	gpio.press(testLines.Forward, true)
	for i := 0; i < 2; i++ {
		smp, _ := s.Sample()
		assert.Equal(t, motion.ActionNone, smp.Action)
	}
	smp, _ := s.Sample()
	assert.Equal(t, motion.ActionForward, smp.Action)
}

func TestSamplerStopSkipsPressDebounce(t *testing.T) {
	settings := testSettings
	settings.DebounceSamples = 3
	s, gpio, _ := newTestSampler(t, settings)

	gpio.press(testLines.EmergencyStop, true)
	smp, _ := s.Sample()
	assert.Equal(t, motion.ActionEmergencyStop, smp.Action)

	gpio.press(testLines.EmergencyStop, false)
	for i := 0; i < 2; i++ {
		smp, _ = s.Sample()
		assert.Equal(t, motion.ActionEmergencyStop, smp.Action)
	}
	smp, _ = s.Sample()
	assert.Equal(t, motion.ActionNone, smp.Action)
}

func TestSamplerBeginnerLatch(t *testing.T) {
	s, gpio, _ := newTestSampler(t, testSettings)
	gpio.press(testLines.Beginner, true)

	gpio.press(testLines.Right, true)
	smp, _ := s.Sample()
	assert.Equal(t, motion.ActionPivotRight, smp.Action)
	assert.True(t, smp.Beginner)
	assert.False(t, smp.Latched)

	gpio.press(testLines.Right, false)
	for i := 0; i < 2; i++ {
		smp, _ = s.Sample()
		assert.Equal(t, motion.ActionNone, smp.Raw)
		assert.Equal(t, motion.ActionPivotRight, smp.Action)
		assert.True(t, smp.Latched)
	}
	smp, _ = s.Sample()
	assert.Equal(t, motion.ActionNone, smp.Action)
}

func TestSamplerFallsBackOnReadErrors(t *testing.T) {
	s, gpio, adc := newTestSampler(t, testSettings)
	adc.value[testLines.Throttle] = 4095
	adc.value[testLines.Trim] = 4095

	smp, err := s.Sample()
	require.NoError(t, err)
	require.Equal(t, 1023, smp.Trim)

	gpio.broken[testLines.EmergencyStop] = true
	adc.broken[testLines.Throttle] = true
	adc.broken[testLines.Trim] = true

	smp, err = s.Sample()
	assert.Error(t, err)
	assert.Equal(t, motion.ActionEmergencyStop, smp.Action)
	assert.Equal(t, 0, smp.Throttle)
	assert.Equal(t, 1023, smp.Trim)
}

func TestSamplerStartsWithCenteredTrim(t *testing.T) {
	s, _, adc := newTestSampler(t, testSettings)
	adc.broken[testLines.Trim] = true

	smp, err := s.Sample()
	assert.Error(t, err)
	assert.Equal(t, 511, smp.Trim)
}
