// Digital output support
// A configured output pin with a default (safe) state
package core

// DigitalOut flags
const (
	DF_ON         = 1 << 0 // Current pin state (1=high, 0=low)
	DF_DEFAULT_ON = 1 << 3 // Default state for shutdown/power-loss
)

// DigitalOut represents a configured GPIO output pin
type DigitalOut struct {
	Pin   GPIOPin // Hardware pin
	Flags uint8   // State flags (DF_*)
}

// NewDigitalOut configures pin as an output and drives it to its default state
func NewDigitalOut(pin GPIOPin, defaultOn bool) (*DigitalOut, error) {
	d := &DigitalOut{Pin: pin}
	if defaultOn {
		d.Flags |= DF_DEFAULT_ON
	}
	if err := MustGPIO().ConfigureOutput(pin); err != nil {
		return nil, err
	}
	return d, d.Shutdown()
}

// Set drives the pin. Writes that would not change the pin are skipped.
func (d *DigitalOut) Set(on bool) error {
	if on == d.IsOn() {
		return nil
	}
	if err := MustGPIO().SetPin(d.Pin, on); err != nil {
		return err
	}
	if on {
		d.Flags |= DF_ON
	} else {
		d.Flags &^= DF_ON
	}
	return nil
}

// IsOn reports the last driven state
func (d *DigitalOut) IsOn() bool {
	return d.Flags&DF_ON != 0
}

// Shutdown returns the pin to its default state unconditionally
func (d *DigitalOut) Shutdown() error {
	on := d.Flags&DF_DEFAULT_ON != 0
	if err := MustGPIO().SetPin(d.Pin, on); err != nil {
		return err
	}
	if on {
		d.Flags |= DF_ON
	} else {
		d.Flags &^= DF_ON
	}
	return nil
}
