package motion

// Packet is the pair of command bytes sent to the driver each tick.
type Packet struct {
	A byte
	B byte
}

// Bytes returns the packet in wire order.
func (p Packet) Bytes() []byte {
	return []byte{p.A, p.B}
}

// Encoder turns persisted motor state into the emitted packet.
type Encoder struct {
	p Params
}

// NewEncoder returns an encoder using the given tuning.
func NewEncoder(p Params) Encoder {
	return Encoder{p: p}
}

// Encode clamps both commands into their absolute ranges and, for straight
// motion only, applies the trim bias to the emitted values. The state itself
// is never modified, so trim does not accumulate across ticks.
//
// Trim is skipped unless motor A's magnitude, and that of the motor being
// trimmed, exceed |bias|; a correction must never push a motor through center.
func (e Encoder) Encode(s State, a Action, bias int) Packet {
	va := e.p.A.Clamp(s.A)
	vb := e.p.B.Clamp(s.B)

	if a.Straight() && bias != 0 {
		mag := abs(bias)
		sign := 1
		if a == ActionReverse {
			sign = -1
		}
		if e.p.A.Magnitude(va) > mag {
			switch {
			case bias < 0:
				va += sign * bias
			case e.p.B.Magnitude(vb) > mag:
				vb -= sign * bias
			}
		}
	}

	return Packet{
		A: byte(e.p.A.Clamp(va)),
		B: byte(e.p.B.Clamp(vb)),
	}
}
