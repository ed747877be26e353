//go:build !tinygo

package core

// State stands in for the saved interrupt mask on host builds
type State uintptr

// disableInterrupts is a no-op on host builds: the control loop and its tests
// run the scheduler from a single goroutine.
func disableInterrupts() State {
	return 0
}

// restoreInterrupts is a no-op on host builds
func restoreInterrupts(State) {}
