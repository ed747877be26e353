// Package input turns raw button and potentiometer readings into the single
// requested action, throttle and trim the control loop consumes each tick.
package input

import "github.com/wardrush/VandyTom2018/motion"

// Buttons is one debounced snapshot of the operator controls.
type Buttons struct {
	EmergencyStop bool
	Forward       bool
	Reverse       bool
	Left          bool
	Right         bool
}

// Prioritize reduces a snapshot to one action using the fixed precedence
// EmergencyStop > Forward > Reverse > PivotLeft > PivotRight > None.
func Prioritize(b Buttons) motion.Action {
	switch {
	case b.EmergencyStop:
		return motion.ActionEmergencyStop
	case b.Forward:
		return motion.ActionForward
	case b.Reverse:
		return motion.ActionReverse
	case b.Left:
		return motion.ActionPivotLeft
	case b.Right:
		return motion.ActionPivotRight
	}
	return motion.ActionNone
}
