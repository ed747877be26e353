// Package drive runs the control loop: one sample, state machine step,
// encode and transmit per tick.
package drive

import (
	"errors"
	"io"

	"github.com/wardrush/VandyTom2018/config"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/input"
	"github.com/wardrush/VandyTom2018/motion"
	"github.com/wardrush/VandyTom2018/protocol"
)

// Inputs yields the operator controls once per tick. *input.Sampler is the
// hardware implementation.
type Inputs interface {
	Sample() (input.Sample, error)
}

// Options wires a Loop to its collaborators. Telemetry and Indicator are
// optional.
type Options struct {
	Tuning    *config.Tuning
	Inputs    Inputs
	Motor     io.Writer
	Telemetry io.Writer
	Indicator Indicator
}

// Result describes one completed tick
type Result struct {
	Tick    uint32
	Sample  input.Sample
	Bias    int
	State   motion.State
	Packet  motion.Packet
	SendErr error
}

// Loop owns the persistent motion state. It is driven from a single
// goroutine or timer; nothing in it is safe for concurrent use.
type Loop struct {
	tuning  *config.Tuning
	params  motion.Params
	machine *motion.Machine
	encoder motion.Encoder
	inputs  Inputs
	link    *protocol.MotorLink
	status  *Status
	ind     Indicator

	telemetry *protocol.FrameEncoder
	teleOut   *protocol.ScratchOutput
	teleW     io.Writer

	state   motion.State
	tick    uint32
	started bool

	inputFailing bool
	InputErrors  uint32
	TeleErrors   uint32

	observer func(Result)
}

// New builds a loop with both motors at center
func New(opts Options) (*Loop, error) {
	if opts.Inputs == nil || opts.Motor == nil {
		return nil, errors.New("drive: inputs and motor writer are required")
	}
	tuning := opts.Tuning
	if tuning == nil {
		tuning = config.Default()
	}
	params := tuning.MotionParams()

	l := &Loop{
		tuning:  tuning,
		params:  params,
		machine: motion.NewMachine(params),
		encoder: motion.NewEncoder(params),
		inputs:  opts.Inputs,
		link:    protocol.NewMotorLink(opts.Motor),
		status:  NewStatus(tuning.HeartbeatTicks),
		ind:     opts.Indicator,
		state:   params.Centered(),
	}
	if opts.Telemetry != nil {
		l.teleOut = protocol.NewScratchOutput()
		l.telemetry = protocol.NewFrameEncoder(l.teleOut)
		l.teleW = opts.Telemetry
	}
	return l, nil
}

// SetObserver registers fn to be called after every tick
func (l *Loop) SetObserver(fn func(Result)) {
	l.observer = fn
}

// Start sends the centered packet and the boot telemetry message. It runs
// implicitly before the first tick if not called.
func (l *Loop) Start() error {
	if l.started {
		return nil
	}
	l.started = true

	pkt := l.encoder.Encode(l.state, motion.ActionNone, 0)
	err := l.link.Send(pkt.A, pkt.B)
	core.RecordTick(core.TickEvent{
		EventType: core.EvtBoot,
		A:         uint8(l.state.A), B: uint8(l.state.B),
		EmitA: pkt.A, EmitB: pkt.B,
	})
	if err != nil {
		core.DebugPrintln("[DRIVE] boot packet failed: " + err.Error())
	}

	if l.telemetry != nil {
		periodUS := core.TimerToUS(core.TimerFromMS(uint32(l.tuning.TickPeriodMS)))
		if terr := l.telemetry.SendBoot(periodUS); terr == nil {
			l.flushTelemetry()
		}
	}
	return err
}

// Tick runs one control cycle and transmits exactly one motor packet
func (l *Loop) Tick() Result {
	if !l.started {
		_ = l.Start()
	}
	l.tick++

	smp, err := l.inputs.Sample()
	if err != nil {
		l.InputErrors++
		if !l.inputFailing {
			core.DebugPrintln("[DRIVE] input read failed: " + err.Error())
		}
	} else if l.inputFailing {
		core.DebugPrintln("[DRIVE] inputs recovered")
	}
	l.inputFailing = err != nil

	bounds := motion.Govern(l.params, smp.Throttle)
	bias := motion.Trim(l.params, smp.Trim)

	l.state = l.machine.Step(l.state, smp.Action, bounds)
	pkt := l.encoder.Encode(l.state, smp.Action, bias)
	sendErr := l.link.Send(pkt.A, pkt.B)

	evt := core.TickEvent{
		EventType: core.EvtTick,
		Action:    uint8(smp.Action),
		Tick:      l.tick,
		A:         uint8(l.state.A), B: uint8(l.state.B),
		EmitA: pkt.A, EmitB: pkt.B,
	}
	switch {
	case sendErr != nil:
		evt.EventType = core.EvtSendFail
		core.DebugPrintln("[DRIVE] motor packet failed: " + sendErr.Error())
	case smp.Action == motion.ActionEmergencyStop:
		evt.EventType = core.EvtEStop
	}
	core.RecordTick(evt)

	moving := l.state != l.params.Centered()
	l.status.Update(l.ind, smp.Action, smp.Latched, moving)

	res := Result{
		Tick:    l.tick,
		Sample:  smp,
		Bias:    bias,
		State:   l.state,
		Packet:  pkt,
		SendErr: sendErr,
	}
	l.report(res)

	if l.observer != nil {
		l.observer(res)
	}
	return res
}

// report sends telemetry every TelemetryEvery ticks, and on every failed send
func (l *Loop) report(res Result) {
	if l.telemetry == nil || l.tuning.TelemetryEvery == 0 {
		return
	}
	if res.SendErr == nil && res.Tick%uint32(l.tuning.TelemetryEvery) != 0 {
		return
	}

	t := protocol.Telemetry{
		Tick:       res.Tick,
		Action:     uint8(res.Sample.Action),
		A:          uint8(res.State.A),
		B:          uint8(res.State.B),
		EmitA:      res.Packet.A,
		EmitB:      res.Packet.B,
		Throttle:   uint16(res.Sample.Throttle),
		Bias:       int8(res.Bias),
		SendErrors: l.link.Failed,
	}
	if res.Sample.Beginner {
		t.Flags |= protocol.TF_BEGINNER
	}
	if res.Sample.Latched {
		t.Flags |= protocol.TF_LATCHED
	}
	if res.SendErr != nil {
		t.Flags |= protocol.TF_SEND_FAIL
	}
	if err := l.telemetry.SendTelemetry(&t); err != nil {
		l.TeleErrors++
		return
	}
	l.flushTelemetry()
}

func (l *Loop) flushTelemetry() {
	if _, err := l.teleOut.WriteTo(l.teleW); err != nil {
		l.TeleErrors++
	}
}

// Timer returns a scheduler timer running one tick per period, first at
// the given time
func (l *Loop) Timer(first uint32) *core.Timer {
	period := core.TimerFromMS(uint32(l.tuning.TickPeriodMS))
	return core.Periodic(first, period, func() { l.Tick() })
}

// Shutdown centers both motors and sends the all-stop command
func (l *Loop) Shutdown() error {
	l.state = l.params.Centered()
	pkt := l.encoder.Encode(l.state, motion.ActionEmergencyStop, 0)
	err := l.link.Send(pkt.A, pkt.B)
	if stopErr := l.link.Stop(); err == nil {
		err = stopErr
	}
	if core.IsDebugEnabled() {
		core.DumpTickRing()
	}
	return err
}

// State returns the persisted motor commands
func (l *Loop) State() motion.State {
	return l.state
}

// Ticks returns the number of completed ticks
func (l *Loop) Ticks() uint32 {
	return l.tick
}

// Stats returns motor packets sent and failed
func (l *Loop) Stats() (sent, failed uint32) {
	return l.link.Sent, l.link.Failed
}
