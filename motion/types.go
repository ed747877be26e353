// Package motion implements the drive core: speed governor, trim
// compensation, the per-tick motion state machine and the command encoder.
//
// Everything in this package is a total function over bounded inputs. Values
// that could leave their valid range are clamped, never rejected.
package motion

import "github.com/samber/lo"

// Action is the single request the prioritizer yields each tick.
type Action uint8

const (
	ActionNone Action = iota
	ActionEmergencyStop
	ActionForward
	ActionReverse
	ActionPivotLeft
	ActionPivotRight
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionEmergencyStop: "estop",
	ActionForward:       "forward",
	ActionReverse:       "reverse",
	ActionPivotLeft:     "left",
	ActionPivotRight:    "right",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Straight reports whether the action drives both motors the same way.
func (a Action) Straight() bool {
	return a == ActionForward || a == ActionReverse
}

// ParseAction maps a name produced by Action.String back to the action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return ActionNone, false
}

// Direction is which side of center a motor command lies on.
type Direction uint8

const (
	DirectionReverse Direction = 0 // strictly below center
	DirectionForward Direction = 1 // at or above center
)

// sign returns +1 for forward and -1 for reverse.
func (d Direction) sign() int {
	if d == DirectionForward {
		return 1
	}
	return -1
}

// Motor describes one channel of the motor driver on the wire.
type Motor struct {
	Center int // dead stop
	Min    int // lowest valid command
	Max    int // highest valid command
}

// Channel layout of the driver's simplified serial mode.
var (
	MotorA = Motor{Center: 64, Min: 1, Max: 127}
	MotorB = Motor{Center: 192, Min: 128, Max: 255}
)

// Magnitude is the distance of v from center (rawSpeed).
func (m Motor) Magnitude(v int) int {
	if v < m.Center {
		return m.Center - v
	}
	return v - m.Center
}

// Direction reports which side of center v lies on.
func (m Motor) Direction(v int) Direction {
	if v < m.Center {
		return DirectionReverse
	}
	return DirectionForward
}

// Clamp limits v to the motor's absolute valid range.
func (m Motor) Clamp(v int) int {
	return lo.Clamp(v, m.Min, m.Max)
}

// Bounds are one motor's speed limits for the current tick.
type Bounds struct {
	Forward int // ceiling, at or above center
	Reverse int // floor, at or below center
}

// toward returns the bound in the given direction.
func (b Bounds) toward(sign int) int {
	if sign > 0 {
		return b.Forward
	}
	return b.Reverse
}

// SpeedBounds holds both motors' limits, recomputed every tick.
type SpeedBounds struct {
	A Bounds
	B Bounds
}

// State is the persistent pair of motor commands. It is owned by the control
// loop and threaded through Machine.Step once per tick.
type State struct {
	A int
	B int
}

// Params are the fixed tuning values the core consumes.
type Params struct {
	A, B Motor

	AccelStep       int // per-tick increment while ramping up
	DecelStep       int // per-tick increment while ramping down
	TrimSensitivity int // |bias| never exceeds this
	GovernorSpan    int // distance from center of the lowest-throttle bounds
	InputMax        int // throttle and trim scalars lie in [0, InputMax]
}

// DefaultParams returns the values the firmware is built with.
func DefaultParams() Params {
	return Params{
		A:               MotorA,
		B:               MotorB,
		AccelStep:       2,
		DecelStep:       4,
		TrimSensitivity: 8,
		GovernorSpan:    10,
		InputMax:        1023,
	}
}

// Centered returns the boot and emergency-stop state.
func (p Params) Centered() State {
	return State{A: p.A.Center, B: p.B.Center}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
