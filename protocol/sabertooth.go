package protocol

import (
	"errors"
	"io"
)

// Simplified serial mode of the motor driver: every byte is a complete
// command. 1..127 drive motor 1 with 64 as stop, 128..255 drive motor 2
// with 192 as stop, and 0 stops both.
const (
	MotorAllStop = 0
	MotorAStop   = 64
	MotorBStop   = 192
)

// ErrMotorByte reports a packet byte outside its motor's channel
var ErrMotorByte = errors.New("motor command outside channel range")

// MotorLink writes two-byte motor packets to the driver. Writes are
// fire-and-forget: a failure is counted and returned, never retried.
type MotorLink struct {
	w      io.Writer
	buf    [2]byte
	Sent   uint32
	Failed uint32
}

// NewMotorLink creates a link writing to w
func NewMotorLink(w io.Writer) *MotorLink {
	return &MotorLink{w: w}
}

// ValidMotorPacket reports whether a lies in motor A's channel and b in
// motor B's.
func ValidMotorPacket(a, b byte) bool {
	return a >= 1 && a <= 127 && b >= 128
}

// Send writes motor A's byte then motor B's byte in a single write
func (l *MotorLink) Send(a, b byte) error {
	if !ValidMotorPacket(a, b) {
		l.Failed++
		return ErrMotorByte
	}
	l.buf[0], l.buf[1] = a, b
	return l.write(l.buf[:])
}

// Stop writes the all-stop command
func (l *MotorLink) Stop() error {
	l.buf[0] = MotorAllStop
	return l.write(l.buf[:1])
}

func (l *MotorLink) write(p []byte) error {
	n, err := l.w.Write(p)
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	if err != nil {
		l.Failed++
		return err
	}
	l.Sent++
	return nil
}
