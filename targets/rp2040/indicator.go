//go:build rp2040

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"github.com/wardrush/VandyTom2018/core"
	"github.com/wardrush/VandyTom2018/drive"
)

// boardIndicator implements drive.Indicator with the PIO heartbeat LED,
// one WS2812 status pixel and a dedicated e-stop lamp.
type boardIndicator struct {
	heartbeat *PIOHeartbeat
	pixel     ws2812.Device
	estop     *core.DigitalOut
	buf       [1]color.RGBA
}

func newBoardIndicator(hb *PIOHeartbeat, pixelPin machine.Pin, estopPin core.GPIOPin) (*boardIndicator, error) {
	pixelPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	lamp, err := core.NewDigitalOut(estopPin, false)
	if err != nil {
		return nil, err
	}
	return &boardIndicator{
		heartbeat: hb,
		pixel:     ws2812.NewWS2812(pixelPin),
		estop:     lamp,
	}, nil
}

func (b *boardIndicator) SetHeartbeat(on bool) {
	b.heartbeat.Set(on)
}

func (b *boardIndicator) SetColor(c drive.Color) {
	b.buf[0] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	_ = b.pixel.WriteColors(b.buf[:])
	_ = b.estop.Set(c == drive.ColorEStop)
}
