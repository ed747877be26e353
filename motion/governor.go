package motion

import "github.com/samber/lo"

// mapRange linearly maps x from [inMin, inMax] onto [outMin, outMax] with
// truncating integer arithmetic. outMin may exceed outMax.
func mapRange(x, inMin, inMax, outMin, outMax int) int {
	if inMax == inMin {
		return outMin
	}
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// Govern derives this tick's speed bounds from the throttle scalar. At zero
// throttle each bound sits GovernorSpan from center; at InputMax it reaches the
// motor's absolute limit.
func Govern(p Params, throttle int) SpeedBounds {
	throttle = lo.Clamp(throttle, 0, p.InputMax)
	return SpeedBounds{
		A: governMotor(p.A, p.GovernorSpan, throttle, p.InputMax),
		B: governMotor(p.B, p.GovernorSpan, throttle, p.InputMax),
	}
}

func governMotor(m Motor, span, throttle, inputMax int) Bounds {
	return Bounds{
		Forward: mapRange(throttle, 0, inputMax, m.Center+span, m.Max),
		Reverse: mapRange(throttle, 0, inputMax, m.Center-span, m.Min),
	}
}

// Trim derives the signed trim bias from the trim scalar. The midpoint of the
// input range maps to (about) zero.
func Trim(p Params, trim int) int {
	trim = lo.Clamp(trim, 0, p.InputMax)
	bias := mapRange(trim, 0, p.InputMax, -p.TrimSensitivity, p.TrimSensitivity)
	return lo.Clamp(bias, -p.TrimSensitivity, p.TrimSensitivity)
}
