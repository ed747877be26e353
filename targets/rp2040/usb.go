//go:build rp2040

package main

import (
	"machine"
)

// InitUSB brings up the USB CDC port. On the RP2040 machine.Serial is USB,
// not a UART.
func InitUSB() {
	_ = machine.Serial.Configure(machine.UARTConfig{})
}

// usbTelemetry writes telemetry frames to the USB port. Failed writes are
// counted by the drive loop and never retried.
type usbTelemetry struct{}

func (usbTelemetry) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
