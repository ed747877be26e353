//go:build !tinygo

package core

// getSystemTicks returns the system tick counter on host builds, where time
// only moves when SetTime is called.
func getSystemTicks() uint32 {
	return systemTicks
}

func setSystemTicks(ticks uint32) {
	systemTicks = ticks
}
