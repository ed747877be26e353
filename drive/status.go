package drive

import "github.com/wardrush/VandyTom2018/motion"

// Color is an RGB indicator color
type Color struct {
	R, G, B uint8
}

// Indicator colors
var (
	ColorIdle    = Color{G: 0x20}
	ColorMoving  = Color{B: 0x30}
	ColorLatched = Color{R: 0x30, G: 0x18}
	ColorEStop   = Color{R: 0x40}
)

// Indicator shows the loop's health. Targets drive an LED and a pixel with
// it; the simulator logs it.
type Indicator interface {
	SetHeartbeat(on bool)
	SetColor(c Color)
}

// Status derives the heartbeat and color from each tick
type Status struct {
	every int
	count int
	beat  bool
	color Color
	valid bool
}

// NewStatus toggles the heartbeat every heartbeatTicks ticks
func NewStatus(heartbeatTicks int) *Status {
	if heartbeatTicks < 1 {
		heartbeatTicks = 1
	}
	return &Status{every: heartbeatTicks}
}

// Update advances one tick and pushes any change to ind, which may be nil
func (s *Status) Update(ind Indicator, a motion.Action, latched, moving bool) {
	s.count++
	beatChanged := false
	if s.count >= s.every {
		s.count = 0
		s.beat = !s.beat
		beatChanged = true
	}

	var c Color
	switch {
	case a == motion.ActionEmergencyStop:
		c = ColorEStop
	case latched:
		c = ColorLatched
	case moving:
		c = ColorMoving
	default:
		c = ColorIdle
	}
	colorChanged := !s.valid || c != s.color
	s.color = c
	s.valid = true

	if ind == nil {
		return
	}
	if beatChanged {
		ind.SetHeartbeat(s.beat)
	}
	if colorChanged {
		ind.SetColor(c)
	}
}

// Heartbeat returns the current heartbeat level
func (s *Status) Heartbeat() bool {
	return s.beat
}

// Color returns the current indicator color
func (s *Status) Color() Color {
	return s.color
}
