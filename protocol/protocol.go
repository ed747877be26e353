// Package protocol implements the chair's two wire formats: the two-byte
// motor driver packet and the framed telemetry link to a host.
package protocol

// Version is reported in the boot telemetry message
const Version = "0.1.0"

// Protocol constants
const (
	MessageMax     = 256 // Scratch output buffer size, room for several frames
	MessageMin     = 5   // Minimum message size (header + trailer)
	MessageHeader  = 2   // Message header size
	MessageTrailer = 3   // Message trailer size (CRC + sync)

	// Message sequence masks
	MessageSeqMask  = 0x0F
	MessageSeqShift = 4
)
