package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetClock(t *testing.T, now uint32) {
	t.Helper()
	ResetTimers()
	SetTime(now)
	currentTime = now
}

func TestTimerIsBefore(t *testing.T) {
	assert.True(t, TimerIsBefore(1, 2))
	assert.False(t, TimerIsBefore(2, 2))
	assert.False(t, TimerIsBefore(3, 2))
	// Across wraparound
	assert.True(t, TimerIsBefore(0xFFFFFFF0, 0x10))
	assert.False(t, TimerIsBefore(0x10, 0xFFFFFFF0))
}

func TestTimerDispatchOrder(t *testing.T) {
	resetClock(t, 0)

	var order []int
	mk := func(id int, wake uint32) *Timer {
		return &Timer{WakeTime: wake, Handler: func(*Timer) uint8 {
			order = append(order, id)
			return SF_DONE
		}}
	}
	ScheduleTimer(mk(3, 300))
	ScheduleTimer(mk(1, 100))
	ScheduleTimer(mk(2, 200))

	wake, ok := NextWake()
	require.True(t, ok)
	assert.Equal(t, uint32(100), wake)

	SetTime(250)
	ProcessTimers()
	assert.Equal(t, []int{1, 2}, order)

	SetTime(300)
	ProcessTimers()
	assert.Equal(t, []int{1, 2, 3}, order)

	_, ok = NextWake()
	assert.False(t, ok)
}

func TestCancelTimer(t *testing.T) {
	resetClock(t, 0)

	fired := false
	a := &Timer{WakeTime: 10, Handler: func(*Timer) uint8 { fired = true; return SF_DONE }}
	b := &Timer{WakeTime: 20, Handler: func(*Timer) uint8 { return SF_DONE }}
	ScheduleTimer(a)
	ScheduleTimer(b)

	CancelTimer(a)
	SetTime(30)
	ProcessTimers()
	assert.False(t, fired)
}

func TestPeriodicRunsOncePerPeriod(t *testing.T) {
	resetClock(t, 1000)
	period := TimerFromMS(30)

	n := 0
	ScheduleTimer(Periodic(1000, period, func() { n++ }))

	ProcessTimers()
	assert.Equal(t, 1, n)

	// Not yet due
	SetTime(1000 + period - 1)
	ProcessTimers()
	assert.Equal(t, 1, n)

	SetTime(1000 + period)
	ProcessTimers()
	assert.Equal(t, 2, n)
}

func TestPeriodicSkipsMissedPeriods(t *testing.T) {
	resetClock(t, 0)

	n := 0
	ScheduleTimer(Periodic(0, 100, func() { n++ }))
	ProcessTimers()
	require.Equal(t, 1, n)

	// A long stall runs the handler once, then realigns to now+period.
	SetTime(1050)
	ProcessTimers()
	assert.Equal(t, 2, n)

	wake, ok := NextWake()
	require.True(t, ok)
	assert.Equal(t, uint32(1150), wake)
}

func TestPeriodicAcrossWraparound(t *testing.T) {
	start := uint32(0xFFFFFF00)
	resetClock(t, start)

	n := 0
	ScheduleTimer(Periodic(start, 0x80, func() { n++ }))
	for i := uint32(0); i < 4; i++ {
		SetTime(start + i*0x80)
		ProcessTimers()
	}
	assert.Equal(t, 4, n)
}

func TestTimerConversions(t *testing.T) {
	assert.Equal(t, uint32(30000), TimerFromMS(30))
	assert.Equal(t, uint32(250), TimerFromUS(250))
	assert.Equal(t, uint32(30000), TimerToUS(TimerFromMS(30)))
}

func TestUptime(t *testing.T) {
	SetTime(500)
	TimerInit()
	SetTime(800)
	assert.Equal(t, uint32(300), GetUptime())
}
