// Analog input support
// Oversampled reads with an optional range check
package core

import "errors"

// ErrADCRange is returned once a channel has read outside its valid window
// RangeCheckCount times in a row.
var ErrADCRange = errors.New("adc value out of range")

// AnalogIn represents a configured ADC input channel
type AnalogIn struct {
	Channel ADCChannelID

	// Sampling parameters
	SampleCount uint8 // Number of samples to oversample (0 behaves as 1)

	// Range checking
	MinValue        uint16 // Minimum acceptable averaged value
	MaxValue        uint16 // Maximum acceptable averaged value (0 disables)
	RangeCheckCount uint8  // Number of violations before the read fails
	InvalidCount    uint8  // Current violation count

	// Last good averaged value
	Value ADCValue
}

// NewAnalogIn configures ch on the registered ADC driver
func NewAnalogIn(ch ADCChannelID, sampleCount uint8) (*AnalogIn, error) {
	if err := MustADC().ConfigureChannel(ch); err != nil {
		return nil, err
	}
	return &AnalogIn{Channel: ch, SampleCount: sampleCount}, nil
}

// Read takes SampleCount raw samples and returns their average. A failed
// sample aborts the read. A value outside [MinValue, MaxValue] is still
// returned until RangeCheckCount consecutive violations accumulate.
func (a *AnalogIn) Read() (ADCValue, error) {
	n := uint32(a.SampleCount)
	if n == 0 {
		n = 1
	}

	var sum uint32
	for i := uint32(0); i < n; i++ {
		v, err := MustADC().ReadRaw(a.Channel)
		if err != nil {
			return a.Value, err
		}
		sum += uint32(v)
	}
	value := ADCValue(sum / n)

	if a.MaxValue != 0 && (uint16(value) < a.MinValue || uint16(value) > a.MaxValue) {
		a.InvalidCount++
		if a.RangeCheckCount != 0 && a.InvalidCount >= a.RangeCheckCount {
			return a.Value, ErrADCRange
		}
		return value, nil
	}

	a.InvalidCount = 0
	a.Value = value
	return value, nil
}
