package drive

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrush/VandyTom2018/config"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/input"
	"github.com/wardrush/VandyTom2018/motion"
	"github.com/wardrush/VandyTom2018/protocol"
)

// scriptedInputs returns the same sample until changed
type scriptedInputs struct {
	sample input.Sample
	err    error
	calls  int
}

func (s *scriptedInputs) Sample() (input.Sample, error) {
	s.calls++
	return s.sample, s.err
}

func (s *scriptedInputs) set(a motion.Action, throttle, trim int) {
	s.sample.Action = a
	s.sample.Raw = a
	s.sample.Throttle = throttle
	s.sample.Trim = trim
}

// recordingIndicator keeps every change it was asked to show
type recordingIndicator struct {
	beats  []bool
	colors []Color
}

func (r *recordingIndicator) SetHeartbeat(on bool) { r.beats = append(r.beats, on) }
func (r *recordingIndicator) SetColor(c Color)     { r.colors = append(r.colors, c) }

const zeroTrim = 512

func newTestLoop(t *testing.T, opts Options) (*Loop, *scriptedInputs, *bytes.Buffer) {
	t.Helper()
	in := &scriptedInputs{}
	in.set(motion.ActionNone, 1023, zeroTrim)
	motor := &bytes.Buffer{}
	opts.Inputs = in
	opts.Motor = motor
	l, err := New(opts)
	require.NoError(t, err)
	return l, in, motor
}

func TestNewRequiresInputsAndMotor(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestLoopSendsCenteredPacketAtBoot(t *testing.T) {
	l, _, motor := newTestLoop(t, Options{})

	require.NoError(t, l.Start())
	assert.Equal(t, []byte{64, 192}, motor.Bytes())

	// Start is idempotent
	require.NoError(t, l.Start())
	assert.Equal(t, 2, motor.Len())
}

func TestLoopTransmitsOncePerTick(t *testing.T) {
	l, in, motor := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, zeroTrim)

	r := l.Tick()
	assert.Equal(t, uint32(1), r.Tick)
	assert.Equal(t, motion.State{A: 66, B: 194}, r.State)
	assert.Equal(t, motion.Packet{A: 66, B: 194}, r.Packet)
	// Boot packet then the tick's packet
	assert.Equal(t, []byte{64, 192, 66, 194}, motor.Bytes())

	for i := 0; i < 9; i++ {
		l.Tick()
	}
	assert.Equal(t, 2*11, motor.Len())
	assert.Equal(t, 10, in.calls)
	sent, failed := l.Stats()
	assert.Equal(t, uint32(11), sent)
	assert.Zero(t, failed)
}

func TestLoopEmergencyStopCentersImmediately(t *testing.T) {
	l, in, _ := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, zeroTrim)
	for i := 0; i < 10; i++ {
		l.Tick()
	}
	require.NotEqual(t, motion.State{A: 64, B: 192}, l.State())

	in.set(motion.ActionEmergencyStop, 1023, zeroTrim)
	r := l.Tick()
	assert.Equal(t, motion.State{A: 64, B: 192}, r.State)
	assert.Equal(t, motion.Packet{A: 64, B: 192}, r.Packet)

	hist := core.TickHistory()
	require.NotEmpty(t, hist)
	assert.Equal(t, uint8(core.EvtEStop), hist[len(hist)-1].EventType)
}

func TestLoopAppliesTrimOnlyToEmittedBytes(t *testing.T) {
	l, in, _ := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, 1023)
	for i := 0; i < 10; i++ {
		l.Tick()
	}
	r := l.Tick()
	assert.Equal(t, 8, r.Bias)
	assert.Equal(t, byte(r.State.A), r.Packet.A)
	assert.Equal(t, byte(r.State.B-8), r.Packet.B)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("uart fault") }

func TestLoopCountsSendFailuresWithoutRetry(t *testing.T) {
	in := &scriptedInputs{}
	in.set(motion.ActionForward, 1023, zeroTrim)
	l, err := New(Options{Inputs: in, Motor: failingWriter{}})
	require.NoError(t, err)

	r := l.Tick()
	assert.Error(t, r.SendErr)
	// State still advances; the next tick sends a fresh packet.
	assert.Equal(t, motion.State{A: 66, B: 194}, r.State)
	_, failed := l.Stats()
	assert.Equal(t, uint32(2), failed)
}

func TestLoopInputErrorsFallBackToSample(t *testing.T) {
	l, in, _ := newTestLoop(t, Options{})
	in.err = errors.New("adc fault")
	in.set(motion.ActionNone, 0, zeroTrim)

	l.Tick()
	l.Tick()
	assert.Equal(t, uint32(2), l.InputErrors)
	assert.Equal(t, motion.State{A: 64, B: 192}, l.State())
}

func TestLoopTelemetryEveryNthTick(t *testing.T) {
	tuning := config.Default()
	tuning.TelemetryEvery = 5
	tele := &bytes.Buffer{}
	l, in, _ := newTestLoop(t, Options{Tuning: tuning, Telemetry: tele})
	in.set(motion.ActionReverse, 1023, zeroTrim)
	in.sample.Beginner = true

	for i := 0; i < 10; i++ {
		l.Tick()
	}

	r := protocol.NewFrameReader(tele)
	var ids []uint16
	var ticks []protocol.Telemetry
	for {
		f, err := r.Next()
		if err != nil {
			break
		}
		id, rest, err := protocol.DecodeMessage(f.Payload)
		require.NoError(t, err)
		ids = append(ids, id)
		if id == protocol.MsgTick {
			tel, err := protocol.DecodeTelemetry(rest)
			require.NoError(t, err)
			ticks = append(ticks, tel)
		}
	}
	assert.Equal(t, []uint16{protocol.MsgBoot, protocol.MsgTick, protocol.MsgTick}, ids)
	require.Len(t, ticks, 2)
	assert.Equal(t, uint32(5), ticks[0].Tick)
	assert.Equal(t, uint32(10), ticks[1].Tick)
	assert.Equal(t, uint8(motion.ActionReverse), ticks[1].Action)
	assert.Equal(t, uint8(protocol.TF_BEGINNER), ticks[1].Flags)
	assert.Equal(t, uint8(l.State().A), ticks[1].A)
}

func TestLoopDrivesIndicator(t *testing.T) {
	tuning := config.Default()
	tuning.HeartbeatTicks = 2
	ind := &recordingIndicator{}
	l, in, _ := newTestLoop(t, Options{Tuning: tuning, Indicator: ind})

	l.Tick()
	in.set(motion.ActionForward, 1023, zeroTrim)
	l.Tick()
	l.Tick()
	in.set(motion.ActionEmergencyStop, 1023, zeroTrim)
	l.Tick()

	assert.Equal(t, []bool{true, false}, ind.beats)
	assert.Equal(t, []Color{ColorIdle, ColorMoving, ColorEStop}, ind.colors)
}

func TestLoopTimerTicksOnSchedule(t *testing.T) {
	l, in, _ := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, zeroTrim)

	core.ResetTimers()
	core.SetTime(0)
	timer := l.Timer(0)
	core.ScheduleTimer(timer)
	defer core.CancelTimer(timer)

	period := core.TimerFromMS(30)
	for i := uint32(0); i < 4; i++ {
		core.SetTime(i * period)
		core.ProcessTimers()
	}
	// Halfway through a period nothing runs
	core.SetTime(3*period + period/2)
	core.ProcessTimers()
	assert.Equal(t, uint32(4), l.Ticks())
}

func TestLoopShutdownStopsMotors(t *testing.T) {
	l, in, motor := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, zeroTrim)
	l.Tick()
	motor.Reset()

	require.NoError(t, l.Shutdown())
	assert.Equal(t, []byte{64, 192, protocol.MotorAllStop}, motor.Bytes())
	assert.Equal(t, motion.State{A: 64, B: 192}, l.State())
}
