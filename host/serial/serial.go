// Package serial opens the host-side serial ports: the motor driver's TTL
// link (through a USB adapter) and the controller's USB telemetry port.
package serial

import (
	"io"
)

// Port represents a serial port interface. Tests substitute in-memory
// implementations.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate. USB CDC ports ignore it.
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DriverConfig returns the configuration for the motor driver link
func DriverConfig(device string, baud int) *Config {
	return &Config{
		Device:      device,
		Baud:        baud,
		ReadTimeout: 0,
	}
}

// TelemetryConfig returns the configuration for the controller's USB port
func TelemetryConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        115200,
		ReadTimeout: 100,
	}
}
