//go:build !tinygo

package config

import (
	"github.com/pkg/errors"
	"github.com/wardrush/VandyTom2018/motion"
	"gopkg.in/yaml.v2"
)

// Step holds the operator controls steady for a number of ticks
type Step struct {
	Action   string `yaml:"action"`
	Ticks    int    `yaml:"ticks"`
	Throttle *int   `yaml:"throttle,omitempty"` // unset keeps the previous value
	Trim     *int   `yaml:"trim,omitempty"`
	Beginner bool   `yaml:"beginner"`
}

// Scenario is a scripted drive for the simulator
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// ParseScenario decodes and checks a YAML scenario
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.UnmarshalStrict(data, &s); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("scenario has no steps")
	}
	for i, st := range s.Steps {
		if _, ok := motion.ParseAction(st.Action); !ok {
			return nil, errors.Errorf("step %d: unknown action %q", i, st.Action)
		}
		if st.Ticks <= 0 {
			return nil, errors.Errorf("step %d: ticks must be positive, got %d", i, st.Ticks)
		}
	}
	return &s, nil
}

// LoadScenario reads a YAML scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := readCapped(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return s, nil
}

// TotalTicks is the length of the scenario
func (s *Scenario) TotalTicks() int {
	n := 0
	for _, st := range s.Steps {
		n += st.Ticks
	}
	return n
}
