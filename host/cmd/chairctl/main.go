// Package main is chairctl, the host tool for the drive controller: it
// simulates scripted drives through the real control loop and monitors the
// controller's telemetry.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chairctl:", err)
		os.Exit(1)
	}
}
