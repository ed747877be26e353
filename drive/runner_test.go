package drive

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardrush/VandyTom2018/motion"
	"github.com/wardrush/VandyTom2018/protocol"
	"go.uber.org/zap/zaptest"
)

// advanceUntil moves the mock clock one period at a time until done fires
func advanceUntil(t *testing.T, mock *clock.Mock, period time.Duration, done <-chan error) error {
	t.Helper()
	for i := 0; i < 1000; i++ {
		select {
		case err := <-done:
			return err
		default:
			mock.Add(period)
		}
	}
	t.Fatal("runner did not finish")
	return nil
}

func TestRunnerRunsRequestedTicks(t *testing.T) {
	l, in, motor := newTestLoop(t, Options{})
	in.set(motion.ActionForward, 1023, zeroTrim)

	mock := clock.NewMock()
	r := NewRunner(l, mock, zaptest.NewLogger(t).Sugar())

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background(), 5) }()

	require.NoError(t, advanceUntil(t, mock, 30*time.Millisecond, done))
	assert.Equal(t, uint32(5), l.Ticks())

	// boot + 5 ticks + centered stop packet + all-stop byte
	out := motor.Bytes()
	require.Len(t, out, 2*7+1)
	assert.Equal(t, []byte{64, 192, 66, 194}, out[:4])
	assert.Equal(t, []byte{64, 192, protocol.MotorAllStop}, out[len(out)-3:])
}

func TestRunnerStopsOnCancel(t *testing.T) {
	l, _, motor := newTestLoop(t, Options{})
	ticked := make(chan struct{}, 1000)
	l.SetObserver(func(Result) { ticked <- struct{}{} })

	mock := clock.NewMock()
	r := NewRunner(l, mock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, 0) }()

	for seen := 0; seen < 3; {
		mock.Add(30 * time.Millisecond)
		for drained := false; !drained; {
			select {
			case <-ticked:
				seen++
			default:
				drained = true
			}
		}
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner ignored cancel")
	}
	out := motor.Bytes()
	assert.Equal(t, byte(protocol.MotorAllStop), out[len(out)-1])
}
