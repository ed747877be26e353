package protocol

import "errors"

// Message ids carried in telemetry frames
const (
	MsgTick uint16 = 1 // one control tick
	MsgBoot uint16 = 2 // firmware started, carries the tick period
)

var (
	// ErrShortTelemetry reports a payload missing fields
	ErrShortTelemetry = errors.New("telemetry payload truncated")
	// ErrUnknownMessage reports a payload with an unexpected message id
	ErrUnknownMessage = errors.New("unknown telemetry message")
)

// Telemetry flags
const (
	TF_BEGINNER  = 1 << 0 // beginner mode switch on
	TF_LATCHED   = 1 << 1 // action held by the latch
	TF_SEND_FAIL = 1 << 2 // motor packet write failed this tick
)

// Telemetry is the state of one control tick as reported to a host
type Telemetry struct {
	Tick       uint32
	Action     uint8 // requested action after the latch
	A, B       uint8 // persisted motor commands
	EmitA      uint8 // bytes put on the wire after trim
	EmitB      uint8
	Throttle   uint16
	Bias       int8 // trim bias applied to straight motion
	Flags      uint8
	SendErrors uint32 // motor packet write failures since boot
}

// Encode writes the tick message fields
func (t *Telemetry) Encode(output OutputBuffer) {
	EncodeVLQUint(output, t.Tick)
	EncodeVLQUint(output, uint32(t.Action))
	EncodeVLQUint(output, uint32(t.A))
	EncodeVLQUint(output, uint32(t.B))
	EncodeVLQUint(output, uint32(t.EmitA))
	EncodeVLQUint(output, uint32(t.EmitB))
	EncodeVLQUint(output, uint32(t.Throttle))
	EncodeVLQInt(output, int32(t.Bias))
	EncodeVLQUint(output, uint32(t.Flags))
	EncodeVLQUint(output, t.SendErrors)
}

// SendTelemetry encodes t as one tick frame
func (e *FrameEncoder) SendTelemetry(t *Telemetry) error {
	return e.SendMessage(MsgTick, t.Encode)
}

// SendBoot encodes the boot message announcing the tick period
func (e *FrameEncoder) SendBoot(periodUS uint32) error {
	return e.SendMessage(MsgBoot, func(output OutputBuffer) {
		EncodeVLQUint(output, periodUS)
		EncodeVLQBytes(output, []byte(Version))
	})
}

// Boot is the decoded boot message
type Boot struct {
	PeriodUS uint32
	Version  string
}

// DecodeMessage returns the message id of a frame payload and the rest of
// the payload
func DecodeMessage(payload []byte) (uint16, []byte, error) {
	id, err := DecodeVLQUint(&payload)
	if err != nil {
		return 0, nil, ErrShortTelemetry
	}
	return uint16(id), payload, nil
}

// DecodeTelemetry parses the fields of a tick message
func DecodeTelemetry(data []byte) (Telemetry, error) {
	var t Telemetry
	var vals [10]int32
	for i := range vals {
		v, err := DecodeVLQInt(&data)
		if err != nil {
			return Telemetry{}, ErrShortTelemetry
		}
		vals[i] = v
	}
	t.Tick = uint32(vals[0])
	t.Action = uint8(vals[1])
	t.A = uint8(vals[2])
	t.B = uint8(vals[3])
	t.EmitA = uint8(vals[4])
	t.EmitB = uint8(vals[5])
	t.Throttle = uint16(vals[6])
	t.Bias = int8(vals[7])
	t.Flags = uint8(vals[8])
	t.SendErrors = uint32(vals[9])
	return t, nil
}

// DecodeBoot parses the fields of a boot message
func DecodeBoot(data []byte) (Boot, error) {
	period, err := DecodeVLQUint(&data)
	if err != nil {
		return Boot{}, ErrShortTelemetry
	}
	version, err := DecodeVLQBytes(&data)
	if err != nil {
		return Boot{}, ErrShortTelemetry
	}
	return Boot{PeriodUS: period, Version: string(version)}, nil
}
