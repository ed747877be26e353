package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wardrush/VandyTom2018/motion"
)

func TestLatchHoldsAfterRelease(t *testing.T) {
	l := NewLatch(20)

	assert.Equal(t, motion.ActionForward, l.Filter(motion.ActionForward, true))
	assert.False(t, l.Holding())

	for i := 0; i < 20; i++ {
		assert.Equal(t, motion.ActionForward, l.Filter(motion.ActionNone, true), "tick %d", i)
		assert.True(t, l.Holding())
	}
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, true))
	assert.False(t, l.Holding())
}

func TestLatchNewActionRestartsHold(t *testing.T) {
	l := NewLatch(3)

	l.Filter(motion.ActionForward, true)
	l.Filter(motion.ActionNone, true)
	l.Filter(motion.ActionNone, true)

	assert.Equal(t, motion.ActionPivotLeft, l.Filter(motion.ActionPivotLeft, true))
	for i := 0; i < 3; i++ {
		assert.Equal(t, motion.ActionPivotLeft, l.Filter(motion.ActionNone, true))
	}
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, true))
}

func TestLatchEmergencyStopPassesImmediately(t *testing.T) {
	l := NewLatch(20)

	l.Filter(motion.ActionForward, true)
	assert.Equal(t, motion.ActionEmergencyStop, l.Filter(motion.ActionEmergencyStop, true))
	// The stop clears the hold instead of resuming the old action.
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, true))
}

func TestLatchDisabledPassesThrough(t *testing.T) {
	l := NewLatch(20)

	l.Filter(motion.ActionReverse, true)
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, false))
	assert.False(t, l.Holding())
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, true))
}

func TestLatchZeroTicks(t *testing.T) {
	l := NewLatch(0)
	assert.Equal(t, motion.ActionForward, l.Filter(motion.ActionForward, true))
	assert.Equal(t, motion.ActionNone, l.Filter(motion.ActionNone, true))
}
