//go:build rp2040

package main

import (
	"errors"
	"machine"

	"github.com/wardrush/VandyTom2018/core"
)

var errADCChannel = errors.New("unsupported ADC channel")

// RpAdcDriver implements core.ADCDriver on the RP2040's four external
// ADC inputs (GPIO26-29).
type RpAdcDriver struct {
	arefMilliVolt uint32
	channels      map[core.ADCChannelID]*machine.ADC
}

// NewRPAdcDriver constructs the driver but does not Init() it yet.
func NewRPAdcDriver() *RpAdcDriver {
	return &RpAdcDriver{
		arefMilliVolt: 3300,
		channels:      make(map[core.ADCChannelID]*machine.ADC),
	}
}

func (d *RpAdcDriver) Init(cfg core.ADCConfig) error {
	if cfg.Reference != 0 {
		d.arefMilliVolt = cfg.Reference
	}
	machine.InitADC()
	return nil
}

// ConfigureChannel muxes the channel's pin to the ADC
func (d *RpAdcDriver) ConfigureChannel(ch core.ADCChannelID) error {
	if _, ok := d.channels[ch]; ok {
		return nil
	}

	var adc machine.ADC
	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errADCChannel
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}
	d.channels[ch] = &adc
	return nil
}

// ReadRaw returns a right-aligned 12-bit reading (0-4095).
func (d *RpAdcDriver) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	adc, ok := d.channels[ch]
	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		adc = d.channels[ch]
	}

	// machine.ADC.Get scales to 16 bits
	return core.ADCValue(adc.Get() >> 4), nil
}
