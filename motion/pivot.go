package motion

// pivotTurn gives the direction each motor heads for in a stationary pivot.
type pivotTurn [2]int

var (
	pivotLeft  = pivotTurn{-1, 1} // A backward, B forward
	pivotRight = pivotTurn{1, -1} // A forward, B backward
)

// lead names the motor with the larger magnitude.
type lead uint8

const (
	leadNone lead = iota
	leadA
	leadB
)

type pivotKey struct {
	sameMagnitude bool
	sameDirection bool
	lead          lead
}

type pivotRule uint8

const (
	// pivotSpin steps both motors toward their pivot bounds.
	pivotSpin pivotRule = iota + 1
	// pivotCurve slows the motor running against the turn, bending a straight
	// path before the spin can start.
	pivotCurve
	// pivotBalance steps the slower motor toward its pivot bound so the two
	// magnitudes meet. Left and right both move the slower motor toward its
	// pivot direction; stepping toward the forward ceiling on a left turn
	// settles into a curve that never reaches the spin. An opposed pair with
	// unequal magnitudes lands here too, which nudges the lagging motor into
	// the spin.
	pivotBalance
)

// pivotTable enumerates every reachable combination. A stopped pair counts as
// opposed so a spin can start from rest.
var pivotTable = map[pivotKey]pivotRule{
	{sameMagnitude: true, sameDirection: false, lead: leadNone}: pivotSpin,
	{sameMagnitude: true, sameDirection: true, lead: leadNone}:  pivotCurve,
	{sameMagnitude: false, sameDirection: true, lead: leadA}:    pivotBalance,
	{sameMagnitude: false, sameDirection: true, lead: leadB}:    pivotBalance,
	{sameMagnitude: false, sameDirection: false, lead: leadA}:   pivotBalance,
	{sameMagnitude: false, sameDirection: false, lead: leadB}:   pivotBalance,
}

func classifyPivot(p Params, s State) pivotKey {
	magA, magB := p.A.Magnitude(s.A), p.B.Magnitude(s.B)
	k := pivotKey{
		sameMagnitude: magA == magB,
		sameDirection: p.A.Direction(s.A) == p.B.Direction(s.B) && magA != 0,
	}
	switch {
	case magA > magB:
		k.lead = leadA
	case magB > magA:
		k.lead = leadB
	}
	return k
}

func (m *Machine) pivot(s State, b SpeedBounds, turn pivotTurn) State {
	motors := [2]Motor{m.p.A, m.p.B}
	bounds := [2]Bounds{b.A, b.B}
	v := [2]int{s.A, s.B}

	// Motors left outside their bounds by a throttle change ease back in
	// first; balancing against an out-of-range magnitude can stall.
	if relieve(bounds, &v, m.p.DecelStep) {
		return State{A: v[0], B: v[1]}
	}

	toward := func(i, step int) {
		v[i] = limit(m.ramp(motors[i], v[i], turn[i]*step), bounds[i].toward(turn[i]), turn[i])
	}

	switch pivotTable[classifyPivot(m.p, s)] {
	case pivotSpin:
		toward(0, m.p.AccelStep)
		toward(1, m.p.AccelStep)
	case pivotCurve:
		// Both motors share a direction; exactly one of them runs against
		// its pivot target and that one is slowed.
		dir := motors[0].Direction(v[0]).sign()
		i := 0
		if turn[0] == dir {
			i = 1
		}
		toward(i, m.p.DecelStep)
	case pivotBalance:
		i := 0
		if motors[1].Magnitude(v[1]) < motors[0].Magnitude(v[0]) {
			i = 1
		}
		toward(i, m.p.AccelStep)
	}
	return State{A: v[0], B: v[1]}
}

func relieve(bounds [2]Bounds, v *[2]int, step int) bool {
	moved := false
	for i := range v {
		switch {
		case v[i] > bounds[i].Forward:
			v[i] = limit(v[i]-step, bounds[i].Forward, -1)
			moved = true
		case v[i] < bounds[i].Reverse:
			v[i] = limit(v[i]+step, bounds[i].Reverse, 1)
			moved = true
		}
	}
	return moved
}
