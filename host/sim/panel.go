// Package sim plays a scripted scenario through the real input sampler by
// standing in for the controller's GPIO and ADC hardware.
package sim

import (
	"github.com/wardrush/VandyTom2018/config"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/input"
	"github.com/wardrush/VandyTom2018/motion"
)

// Lines is the simulated wiring
var Lines = input.Lines{
	EmergencyStop: 2,
	Forward:       3,
	Reverse:       4,
	Left:          5,
	Right:         6,
	Beginner:      7,
	Throttle:      0,
	Trim:          1,
}

// Panel is a scripted operator panel. It implements core.GPIODriver and
// core.ADCDriver with pulled-up, active-low buttons.
type Panel struct {
	steps     []config.Step
	step      int
	left      int
	fullScale int
	inputMax  int

	level map[core.GPIOPin]bool
	adc   map[core.ADCChannelID]core.ADCValue

	current config.Step
}

// NewPanel creates a panel playing scenario. Throttle starts at full and
// trim centered until a step sets them.
func NewPanel(scenario *config.Scenario, tuning *config.Tuning) *Panel {
	p := &Panel{
		steps:     scenario.Steps,
		step:      -1,
		fullScale: tuning.ADCFullScale,
		inputMax:  tuning.InputMax,
		level:     make(map[core.GPIOPin]bool),
		adc:       make(map[core.ADCChannelID]core.ADCValue),
	}
	p.setAnalog(Lines.Throttle, tuning.InputMax)
	p.setAnalog(Lines.Trim, (tuning.InputMax+1)/2)
	return p
}

// Install registers the panel as the GPIO and ADC driver
func (p *Panel) Install() {
	core.SetGPIODriver(p)
	core.SetADCDriver(p)
}

// Advance applies the controls for the next tick. It returns false once the
// scenario is exhausted, leaving every control released.
func (p *Panel) Advance() bool {
	for p.left == 0 {
		p.step++
		if p.step >= len(p.steps) {
			p.apply(config.Step{Action: motion.ActionNone.String()})
			return false
		}
		p.left = p.steps[p.step].Ticks
		p.apply(p.steps[p.step])
	}
	p.left--
	return true
}

// Step returns the scenario step in effect
func (p *Panel) Step() (int, config.Step) {
	return p.step, p.current
}

func (p *Panel) apply(st config.Step) {
	p.current = st
	a, _ := motion.ParseAction(st.Action)
	p.press(Lines.EmergencyStop, a == motion.ActionEmergencyStop)
	p.press(Lines.Forward, a == motion.ActionForward)
	p.press(Lines.Reverse, a == motion.ActionReverse)
	p.press(Lines.Left, a == motion.ActionPivotLeft)
	p.press(Lines.Right, a == motion.ActionPivotRight)
	p.press(Lines.Beginner, st.Beginner)
	if st.Throttle != nil {
		p.setAnalog(Lines.Throttle, *st.Throttle)
	}
	if st.Trim != nil {
		p.setAnalog(Lines.Trim, *st.Trim)
	}
}

func (p *Panel) press(pin core.GPIOPin, down bool) {
	p.level[pin] = !down
}

// setAnalog stores the raw reading that scales back to v
func (p *Panel) setAnalog(ch core.ADCChannelID, v int) {
	if v < 0 {
		v = 0
	}
	if v > p.inputMax {
		v = p.inputMax
	}
	p.adc[ch] = core.ADCValue((v*p.fullScale + p.inputMax - 1) / p.inputMax)
}

func (p *Panel) ConfigureOutput(core.GPIOPin) error { return nil }

func (p *Panel) ConfigureInputPullUp(pin core.GPIOPin) error {
	if _, ok := p.level[pin]; !ok {
		p.level[pin] = true
	}
	return nil
}

func (p *Panel) SetPin(pin core.GPIOPin, v bool) error {
	p.level[pin] = v
	return nil
}

func (p *Panel) GetPin(pin core.GPIOPin) (bool, error) {
	return p.level[pin], nil
}

func (p *Panel) Init(core.ADCConfig) error                { return nil }
func (p *Panel) ConfigureChannel(core.ADCChannelID) error { return nil }

func (p *Panel) ReadRaw(ch core.ADCChannelID) (core.ADCValue, error) {
	return p.adc[ch], nil
}

// Inputs samples the panel through the real sampler, advancing the script
// one tick per sample
type Inputs struct {
	panel   *Panel
	sampler *input.Sampler
	done    bool
}

// NewInputs installs the panel and builds a sampler over it
func NewInputs(panel *Panel, tuning *config.Tuning) (*Inputs, error) {
	panel.Install()
	s, err := input.NewSampler(Lines, tuning.InputSettings())
	if err != nil {
		return nil, err
	}
	return &Inputs{panel: panel, sampler: s}, nil
}

// Sample implements drive.Inputs
func (in *Inputs) Sample() (input.Sample, error) {
	if !in.panel.Advance() {
		in.done = true
	}
	return in.sampler.Sample()
}

// Step returns the scenario step in effect
func (in *Inputs) Step() (int, config.Step) {
	return in.panel.Step()
}

// Done reports whether the scenario has run out
func (in *Inputs) Done() bool {
	return in.done
}
