package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wardrush/VandyTom2018/motion"
)

func TestPrioritize(t *testing.T) {
	tests := []struct {
		name string
		b    Buttons
		want motion.Action
	}{
		{"nothing", Buttons{}, motion.ActionNone},
		{"estop beats all", Buttons{EmergencyStop: true, Forward: true, Reverse: true, Left: true, Right: true}, motion.ActionEmergencyStop},
		{"forward beats reverse", Buttons{Forward: true, Reverse: true}, motion.ActionForward},
		{"reverse beats pivots", Buttons{Reverse: true, Left: true, Right: true}, motion.ActionReverse},
		{"left beats right", Buttons{Left: true, Right: true}, motion.ActionPivotLeft},
		{"right alone", Buttons{Right: true}, motion.ActionPivotRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Prioritize(tt.b))
		})
	}
}

func TestScaleADC(t *testing.T) {
	assert.Equal(t, 0, ScaleADC(0, 4095, 1023))
	assert.Equal(t, 1023, ScaleADC(4095, 4095, 1023))
	assert.Equal(t, 511, ScaleADC(2048, 4095, 1023))
	assert.Equal(t, 1023, ScaleADC(5000, 4095, 1023))
	assert.Equal(t, 0, ScaleADC(-3, 4095, 1023))
	assert.Equal(t, 0, ScaleADC(100, 0, 1023))
}
