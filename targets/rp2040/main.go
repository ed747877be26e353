//go:build rp2040

package main

import (
	"machine"

	"github.com/wardrush/VandyTom2018/config"
	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/drive"
	"github.com/wardrush/VandyTom2018/input"
)

// Board wiring. Buttons are active-low against the internal pull-ups.
var lines = input.Lines{
	EmergencyStop: 2,
	Forward:       3,
	Reverse:       4,
	Left:          5,
	Right:         6,
	Beginner:      7,
	Throttle:      0, // ADC0, GPIO26
	Trim:          1, // ADC1, GPIO27
}

const (
	motorTX      = machine.GPIO0 // UART0 to the Sabertooth S1 input
	motorRX      = machine.GPIO1
	debugTX      = machine.GPIO8 // UART1, debug console
	debugRX      = machine.GPIO9
	estopLamp    = core.GPIOPin(15)
	statusPixel  = machine.GPIO16
	heartbeatLED = machine.LED
)

var debugUART *machine.UART

func main() {
	// A watchdog left armed by a previous image would reset us mid-boot
	_ = machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})

	InitUSB()
	initDebugUART()
	core.TimerInit()
	UpdateSystemTime()

	tuning := config.Default()

	core.SetGPIODriver(NewRPGPIODriver())
	adc := NewRPAdcDriver()
	if err := adc.Init(core.ADCConfig{FullScale: uint16(tuning.ADCFullScale)}); err != nil {
		halt("adc init: " + err.Error())
	}
	core.SetADCDriver(adc)

	motor := machine.UART0
	if err := motor.Configure(machine.UARTConfig{
		BaudRate: uint32(tuning.DriverBaud),
		TX:       motorTX,
		RX:       motorRX,
	}); err != nil {
		halt("motor uart: " + err.Error())
	}

	sampler, err := input.NewSampler(lines, tuning.InputSettings())
	if err != nil {
		halt("inputs: " + err.Error())
	}

	hb := NewPIOHeartbeat(0)
	if err := hb.Init(heartbeatLED); err != nil {
		halt("heartbeat: " + err.Error())
	}
	ind, err := newBoardIndicator(hb, statusPixel, estopLamp)
	if err != nil {
		halt("indicator: " + err.Error())
	}

	loop, err := drive.New(drive.Options{
		Tuning:    tuning,
		Inputs:    sampler,
		Motor:     motor,
		Telemetry: usbTelemetry{},
		Indicator: ind,
	})
	if err != nil {
		halt("drive: " + err.Error())
	}
	if err := loop.Start(); err != nil {
		core.DebugPrintln("[MAIN] boot packet: " + err.Error())
	}

	period := core.TimerFromMS(uint32(tuning.TickPeriodMS))
	core.ScheduleTimer(loop.Timer(core.GetTime() + period))
	core.DebugPrintln("[MAIN] drive loop running")

	for {
		UpdateSystemTime()
		core.ProcessTimers()
	}
}

func initDebugUART() {
	debugUART = machine.UART1
	if err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       debugTX,
		RX:       debugRX,
	}); err != nil {
		return
	}
	core.SetDebugWriter(func(s string) {
		_, _ = debugUART.Write([]byte(s))
		_, _ = debugUART.Write([]byte("\r\n"))
	})
	core.SetDebugEnabled(true)
	core.InitAsyncDebug()
}

// halt parks the firmware with the motors commanded to stop. Nothing has
// been sent to the driver yet, so the all-stop byte is the only output.
func halt(reason string) {
	core.DebugPrintln("[MAIN] halt: " + reason)
	_ = machine.UART0.WriteByte(0)
	for {
		UpdateSystemTime()
	}
}
