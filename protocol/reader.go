//go:build !tinygo

package protocol

import (
	"io"

	"github.com/pkg/errors"
)

// FrameReader yields validated frames from a byte stream such as the
// device's USB serial port.
type FrameReader struct {
	r       io.Reader
	input   *FifoBuffer
	decoder FrameDecoder
	pending []Frame
	chunk   [MessageLengthMax]byte
}

// NewFrameReader creates a reader over r
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{
		r:     r,
		input: NewFifoBuffer(512),
	}
}

// Next blocks until a frame is available or the underlying reader fails.
// Frames already buffered are returned before a read error is reported.
func (fr *FrameReader) Next() (Frame, error) {
	for len(fr.pending) == 0 {
		n, err := fr.r.Read(fr.chunk[:])
		if n > 0 {
			fr.input.Write(fr.chunk[:n])
			fr.decoder.Receive(fr.input, func(f Frame) {
				fr.pending = append(fr.pending, f)
			})
		}
		if err != nil && len(fr.pending) == 0 {
			if err == io.EOF {
				return Frame{}, err
			}
			return Frame{}, errors.Wrap(err, "read telemetry stream")
		}
	}
	f := fr.pending[0]
	fr.pending = fr.pending[1:]
	return f, nil
}

// Stats returns how many frames were rejected and how many were lost
// according to sequence numbers
func (fr *FrameReader) Stats() (dropped, missed uint32) {
	return fr.decoder.Dropped, fr.decoder.Missed
}
