package protocol

import "errors"

const (
	MessageHeaderSize  = 2
	MessageTrailerSize = 3
	MessageLengthMin   = MessageHeaderSize + MessageTrailerSize
	MessageLengthMax   = 64
	MessagePositionLen = 0
	MessagePositionSeq = 1
	MessageTrailerCRC  = 3
	MessageTrailerSync = 1
	MessageValueSync   = 0x7E
	MessageDest        = 0x10
)

// ErrBadFrame reports a frame rejected for its length, sequence byte,
// trailing sync byte or CRC.
var ErrBadFrame = errors.New("bad telemetry frame")

// Frame is one validated frame
type Frame struct {
	Sequence uint8 // 0x10|n, n rolling 0..15
	Payload  []byte
}

// FrameEncoder writes telemetry frames: length, sequence, payload,
// CRC16 (big-endian) and the sync byte.
type FrameEncoder struct {
	output OutputBuffer
	seq    uint8
}

// NewFrameEncoder creates an encoder appending frames to output
func NewFrameEncoder(output OutputBuffer) *FrameEncoder {
	return &FrameEncoder{output: output}
}

// EncodeFrame encodes one frame whose payload is produced by frameData.
// A payload longer than a frame allows is discarded and reports ErrBadFrame.
func (e *FrameEncoder) EncodeFrame(frameData func(output OutputBuffer)) error {
	cursor := e.output.CurPosition()

	// Write header (length placeholder and sequence)
	seq := MessageDest | e.seq
	e.output.Output([]byte{0, seq})

	// Write frame contents
	frameData(e.output)

	// Update length field
	changed := len(e.output.DataSince(cursor))
	if changed+MessageTrailerSize > MessageLengthMax {
		e.output.Truncate(cursor)
		return ErrBadFrame
	}
	e.output.Update(cursor, uint8(changed+MessageTrailerSize))

	// Calculate and write CRC
	crc := CRC16(e.output.DataSince(cursor))
	e.output.Output([]byte{
		uint8((crc & 0xFF00) >> 8),
		uint8(crc & 0xFF),
		MessageValueSync,
	})

	e.seq = (e.seq + 1) & MessageSeqMask
	return nil
}

// SendMessage encodes a frame holding a message id followed by its fields
func (e *FrameEncoder) SendMessage(msgID uint16, args func(output OutputBuffer)) error {
	return e.EncodeFrame(func(output OutputBuffer) {
		EncodeVLQUint(output, uint32(msgID))
		if args != nil {
			args(output)
		}
	})
}

// FrameDecoder splits a byte stream into frames. After any invalid frame it
// discards input up to the next sync byte before trusting a length again.
type FrameDecoder struct {
	desynced bool
	nextSeq  uint8
	started  bool

	// Dropped counts frames rejected or skipped while resynchronizing
	Dropped uint32
	// Missed counts frames lost according to sequence gaps
	Missed uint32
}

// Receive consumes complete frames from input, calling handler for each
// valid one. Incomplete trailing data is left in input.
func (d *FrameDecoder) Receive(input InputBuffer, handler func(Frame)) {
	data := input.Data()

	for len(data) > 0 {
		if d.desynced {
			// Look for sync byte to resynchronize
			syncPos := -1
			for i, b := range data {
				if b == MessageValueSync {
					syncPos = i
					break
				}
			}
			if syncPos < 0 {
				data = nil
				break
			}
			data = data[syncPos+1:]
			d.desynced = false
			continue
		}

		// Skip leading sync bytes
		if data[0] == MessageValueSync {
			data = data[1:]
			continue
		}

		if len(data) < MessageLengthMin {
			break
		}

		msgLen := int(data[MessagePositionLen])
		seq := data[MessagePositionSeq]
		if msgLen < MessageLengthMin || msgLen > MessageLengthMax ||
			seq&^MessageSeqMask != MessageDest {
			d.reject()
			continue
		}

		// Wait for full message
		if len(data) < msgLen {
			break
		}

		if data[msgLen-MessageTrailerSync] != MessageValueSync {
			d.reject()
			continue
		}

		frameCRC := uint16(data[msgLen-MessageTrailerCRC])<<8 |
			uint16(data[msgLen-MessageTrailerCRC+1])
		if frameCRC != CRC16(data[:msgLen-MessageTrailerSize]) {
			d.reject()
			continue
		}

		payload := make([]byte, msgLen-MessageLengthMin)
		copy(payload, data[MessageHeaderSize:msgLen-MessageTrailerSize])
		data = data[msgLen:]

		n := seq & MessageSeqMask
		if d.started {
			d.Missed += uint32((n - d.nextSeq) & MessageSeqMask)
		}
		d.started = true
		d.nextSeq = (n + 1) & MessageSeqMask

		handler(Frame{Sequence: seq, Payload: payload})
	}

	// Remove consumed bytes from input
	consumed := input.Available() - len(data)
	if consumed > 0 {
		input.Pop(consumed)
	}
}

func (d *FrameDecoder) reject() {
	d.desynced = true
	d.Dropped++
}
