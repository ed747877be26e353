package input

import (
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/motion"
	"go.uber.org/multierr"
)

// Lines names the hardware wired to each control. Buttons and the beginner
// switch are active-low against the pin's pull-up.
type Lines struct {
	EmergencyStop core.GPIOPin
	Forward       core.GPIOPin
	Reverse       core.GPIOPin
	Left          core.GPIOPin
	Right         core.GPIOPin
	Beginner      core.GPIOPin

	Throttle core.ADCChannelID
	Trim     core.ADCChannelID
}

// Settings are the sampling parameters.
type Settings struct {
	DebounceSamples int
	LatchTicks      int
	Oversample      uint8 // ADC samples averaged per reading
	ADCFullScale    int
	InputMax        int
}

// Sample is everything the control loop needs from the operator for a tick.
type Sample struct {
	Buttons  Buttons
	Raw      motion.Action // prioritized, before the latch
	Action   motion.Action // reported to the state machine
	Beginner bool
	Latched  bool // Action is being held by beginner mode
	Throttle int  // [0, InputMax]
	Trim     int  // [0, InputMax]
}

const (
	lineEStop = iota
	lineForward
	lineReverse
	lineLeft
	lineRight
	lineBeginner
	lineCount
)

// Sampler reads the operator controls through the registered GPIO and ADC
// drivers.
type Sampler struct {
	pins     [lineCount]core.GPIOPin
	deb      [lineCount]Debouncer
	latch    *Latch
	throttle *core.AnalogIn
	trim     *core.AnalogIn
	settings Settings
	lastTrim int
}

// NewSampler configures every line and returns a sampler with all controls
// released and trim centered.
func NewSampler(lines Lines, settings Settings) (*Sampler, error) {
	s := &Sampler{
		pins: [lineCount]core.GPIOPin{
			lineEStop:    lines.EmergencyStop,
			lineForward:  lines.Forward,
			lineReverse:  lines.Reverse,
			lineLeft:     lines.Left,
			lineRight:    lines.Right,
			lineBeginner: lines.Beginner,
		},
		latch:    NewLatch(settings.LatchTicks),
		settings: settings,
		lastTrim: settings.InputMax / 2,
	}

	gpio := core.MustGPIO()
	var err error
	for i, pin := range s.pins {
		err = multierr.Append(err, gpio.ConfigureInputPullUp(pin))
		s.deb[i] = NewDebouncer(settings.DebounceSamples)
	}
	s.deb[lineEStop] = NewStopDebouncer(settings.DebounceSamples)
	if err != nil {
		return nil, err
	}

	if s.throttle, err = core.NewAnalogIn(lines.Throttle, settings.Oversample); err != nil {
		return nil, err
	}
	if s.trim, err = core.NewAnalogIn(lines.Trim, settings.Oversample); err != nil {
		return nil, err
	}
	return s, nil
}

// Sample reads all controls once. It always returns a usable sample; read
// failures fall back to safe values and are reported in err. A failed
// emergency-stop read counts as pressed, a failed throttle read as zero, and
// a failed trim read keeps the previous trim.
func (s *Sampler) Sample() (Sample, error) {
	gpio := core.MustGPIO()

	var err error
	var pressed [lineCount]bool
	for i, pin := range s.pins {
		level, rerr := gpio.GetPin(pin)
		raw := !level
		if rerr != nil {
			err = multierr.Append(err, rerr)
			raw = i == lineEStop
		}
		pressed[i] = s.deb[i].Update(raw)
	}

	out := Sample{
		Buttons: Buttons{
			EmergencyStop: pressed[lineEStop],
			Forward:       pressed[lineForward],
			Reverse:       pressed[lineReverse],
			Left:          pressed[lineLeft],
			Right:         pressed[lineRight],
		},
		Beginner: pressed[lineBeginner],
	}
	out.Raw = Prioritize(out.Buttons)
	out.Action = s.latch.Filter(out.Raw, out.Beginner)
	out.Latched = s.latch.Holding()

	if v, rerr := s.throttle.Read(); rerr != nil {
		err = multierr.Append(err, rerr)
	} else {
		out.Throttle = ScaleADC(int(v), s.settings.ADCFullScale, s.settings.InputMax)
	}

	if v, rerr := s.trim.Read(); rerr != nil {
		err = multierr.Append(err, rerr)
	} else {
		s.lastTrim = ScaleADC(int(v), s.settings.ADCFullScale, s.settings.InputMax)
	}
	out.Trim = s.lastTrim

	return out, err
}
