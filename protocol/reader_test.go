package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameReader(t *testing.T) {
	data := encodeFrames(t, []byte{1}, []byte{2, 3})
	r := NewFrameReader(iotest.OneByteReader(bytes.NewReader(data)))

	f, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, f.Payload)

	f, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 3}, f.Payload)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestFrameReaderWrapsErrors(t *testing.T) {
	boom := errors.New("port closed")
	r := NewFrameReader(iotest.ErrReader(boom))

	_, err := r.Next()
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "read telemetry stream")
}

func TestFrameReaderStats(t *testing.T) {
	data := encodeFrames(t, []byte{1}, []byte{2}, []byte{3})
	stream := append(append([]byte{}, data[:6]...), data[12:]...)
	r := NewFrameReader(bytes.NewReader(stream))

	for i := 0; i < 2; i++ {
		_, err := r.Next()
		require.NoError(t, err)
	}
	dropped, missed := r.Stats()
	assert.Zero(t, dropped)
	assert.Equal(t, uint32(1), missed)
}
