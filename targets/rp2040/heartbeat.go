//go:build rp2040

package main

import (
	"machine"

	rp2pio "github.com/tinygo-org/pio/rp2-pio"
)

// The heartbeat LED is driven by a PIO state machine that copies one bit
// per FIFO word onto the pin, so the drive loop never touches the pad.
func buildHeartbeatProgram() []uint16 {
	asm := rp2pio.AssemblerV0{SidesetBits: 0}
	return []uint16{
		// .wrap_target
		asm.Pull(false, true).Encode(),          // 0: pull block
		asm.Out(rp2pio.OutDestPins, 1).Encode(), // 1: out pins, 1
		// .wrap
	}
}

const heartbeatPIOOrigin = -1 // any free offset

// PIOHeartbeat owns one state machine and one LED pin
type PIOHeartbeat struct {
	pio *rp2pio.PIO
	sm  rp2pio.StateMachine
	pin machine.Pin
}

// NewPIOHeartbeat claims state machine smNum on PIO0
func NewPIOHeartbeat(smNum uint8) *PIOHeartbeat {
	return &PIOHeartbeat{
		pio: rp2pio.PIO0,
		sm:  rp2pio.PIO0.StateMachine(smNum),
	}
}

// Init loads the program and starts the state machine with the LED off
func (h *PIOHeartbeat) Init(pin machine.Pin) error {
	h.pin = pin
	h.sm.TryClaim()

	program := buildHeartbeatProgram()
	offset, err := h.pio.AddProgram(program, heartbeatPIOOrigin)
	if err != nil {
		return err
	}

	pin.Configure(machine.PinConfig{Mode: h.pio.PinMode()})

	cfg := rp2pio.DefaultStateMachineConfig()
	cfg.SetOutPins(pin, 1)
	cfg.SetOutShift(true, false, 32)
	cfg.SetWrap(offset+uint8(len(program))-1, offset)

	h.sm.Init(offset, cfg)
	h.sm.SetPindirsConsecutive(pin, 1, true)
	h.sm.SetPinsConsecutive(pin, 1, false)
	h.sm.SetEnabled(true)
	return nil
}

// Set queues the new LED level. A full FIFO drops the update; the next
// toggle catches up.
func (h *PIOHeartbeat) Set(on bool) {
	if h.sm.IsTxFIFOFull() {
		return
	}
	var word uint32
	if on {
		word = 1
	}
	h.sm.TxPut(word)
}
