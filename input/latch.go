package input

import "github.com/wardrush/VandyTom2018/motion"

// Latch implements beginner mode: once an action is seen it keeps being
// reported for a fixed number of ticks after the control is released.
type Latch struct {
	ticks     int
	held      motion.Action
	remaining int
}

// NewLatch returns a latch that holds actions for ticks further ticks.
func NewLatch(ticks int) *Latch {
	if ticks < 0 {
		ticks = 0
	}
	return &Latch{ticks: ticks}
}

// Filter maps this tick's raw action to the reported one. With enabled false
// the raw action passes through and any hold is dropped.
func (l *Latch) Filter(raw motion.Action, enabled bool) motion.Action {
	switch {
	case !enabled || raw == motion.ActionEmergencyStop:
		l.Reset()
		return raw
	case raw != motion.ActionNone:
		l.held = raw
		l.remaining = l.ticks
		return raw
	case l.remaining > 0:
		l.remaining--
		return l.held
	}
	l.held = motion.ActionNone
	return motion.ActionNone
}

// Holding reports whether the last Filter call returned a held action.
func (l *Latch) Holding() bool {
	return l.held != motion.ActionNone && l.remaining < l.ticks
}

// Reset drops any held action.
func (l *Latch) Reset() {
	l.held = motion.ActionNone
	l.remaining = 0
}
