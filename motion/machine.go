package motion

// Machine advances the motor state by one tick for the requested action.
type Machine struct {
	p Params
}

// NewMachine returns a state machine using the given tuning.
func NewMachine(p Params) *Machine {
	return &Machine{p: p}
}

// Params returns the tuning the machine was built with.
func (m *Machine) Params() Params {
	return m.p
}

// Step returns the state after one tick of the given action. It is called
// exactly once per tick.
func (m *Machine) Step(s State, a Action, b SpeedBounds) State {
	switch a {
	case ActionEmergencyStop:
		return m.p.Centered()
	case ActionForward:
		return m.straight(s, b, 1)
	case ActionReverse:
		return m.straight(s, b, -1)
	case ActionPivotLeft:
		return m.pivot(s, b, pivotLeft)
	case ActionPivotRight:
		return m.pivot(s, b, pivotRight)
	default:
		return m.Decelerate(s)
	}
}

// Decelerate steps each motor toward its center by the decel increment,
// landing exactly on center rather than overshooting.
func (m *Machine) Decelerate(s State) State {
	return State{
		A: decelerate(m.p.A, s.A, m.p.DecelStep),
		B: decelerate(m.p.B, s.B, m.p.DecelStep),
	}
}

func decelerate(mo Motor, v, step int) int {
	switch {
	case v > mo.Center:
		v -= step
		if v < mo.Center {
			v = mo.Center
		}
	case v < mo.Center:
		v += step
		if v > mo.Center {
			v = mo.Center
		}
	}
	return v
}

// ramp moves v by delta and skips over the center value if it lands on it.
func (m *Machine) ramp(mo Motor, v, delta int) int {
	v += delta
	if v == mo.Center {
		if delta < 0 {
			v -= m.p.AccelStep
		} else {
			v += m.p.AccelStep
		}
	}
	return v
}

// limit clamps v so it does not pass bound when travelling in direction sign.
func limit(v, bound, sign int) int {
	if sign*(v-bound) > 0 {
		return bound
	}
	return v
}

// straight handles Forward (sign +1) and Reverse (sign -1). The two are exact
// mirrors; each motor is measured against its own center and bound.
func (m *Machine) straight(s State, b SpeedBounds, sign int) State {
	motors := [2]Motor{m.p.A, m.p.B}
	bounds := [2]int{b.A.toward(sign), b.B.toward(sign)}
	v := [2]int{s.A, s.B}

	// A motor beyond its bound (throttle lowered) eases back at the decel
	// rate instead of jumping to it.
	over := false
	for i := range v {
		if sign*(v[i]-bounds[i]) > 0 {
			v[i] = limit(v[i]-sign*m.p.DecelStep, bounds[i], -sign)
			over = true
		}
	}
	if over {
		return State{A: v[0], B: v[1]}
	}

	headA := sign * (bounds[0] - v[0])
	headB := sign * (bounds[1] - v[1])
	diff := abs(headA - headB)

	// The lagging motor is the one with more headroom left.
	lag := 0
	if headB > headA {
		lag = 1
	}

	switch {
	case diff == 0:
		for i := range v {
			step := m.p.AccelStep
			if sign*(v[i]-motors[i].Center) < 0 {
				// Still on the far side of center: cross it faster.
				step = m.p.DecelStep
			}
			v[i] = limit(m.ramp(motors[i], v[i], sign*step), bounds[i], sign)
		}
	case diff < m.p.AccelStep:
		v[lag] += sign * diff
	default:
		v[lag] = limit(m.ramp(motors[lag], v[lag], sign*m.p.AccelStep), bounds[lag], sign)
	}
	return State{A: v[0], B: v[1]}
}
