// Package board describes the Nucleo-L4R5ZI: where its LEDs, button and
// serial connectors are wired, and the serial plans firmware opens at boot.
package board

import (
	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/uart"
)

// Board lists the fixed wiring of a PCB. Operating parameters live in the
// serial plans.
type Board struct {
	Name   string
	LEDs   []LED
	Button gpio.ID
	Serial []SerialPlan
}

type LED struct {
	Name string
	Pin  gpio.ID
}

// SerialPlan binds a device to a pin pair and a frame format.
type SerialPlan struct {
	Name   string
	Device uart.DeviceID
	TX     gpio.ID
	RX     gpio.ID
	Config uart.Config
}

// NucleoL4R5ZI is the ST Nucleo-144 board with an STM32L4R5ZI.
var NucleoL4R5ZI = Board{
	Name: "nucleo-l4r5zi",
	LEDs: []LED{
		{Name: "LD1", Pin: gpio.P(gpio.PortC, 7)},  // green
		{Name: "LD2", Pin: gpio.P(gpio.PortB, 7)},  // blue
		{Name: "LD3", Pin: gpio.P(gpio.PortB, 14)}, // red
	},
	Button: gpio.P(gpio.PortC, 13),
	Serial: []SerialPlan{
		// ST-LINK virtual COM port
		{Name: "vcp", Device: uart.LPUART1, TX: gpio.P(gpio.PortG, 7), RX: gpio.P(gpio.PortG, 8), Config: uart.DefaultConfig()},
		// Arduino D1/D0
		{Name: "arduino", Device: uart.USART3, TX: gpio.P(gpio.PortD, 8), RX: gpio.P(gpio.PortD, 9), Config: uart.DefaultConfig()},
	},
}

// Plan returns the serial plan called name.
func (b Board) Plan(name string) (SerialPlan, bool) {
	for _, p := range b.Serial {
		if p.Name == name {
			return p, true
		}
	}
	return SerialPlan{}, false
}

// LED returns the pin of the LED called name.
func (b Board) LED(name string) (gpio.ID, bool) {
	for _, l := range b.LEDs {
		if l.Name == name {
			return l.Pin, true
		}
	}
	return gpio.ID{}, false
}

// OpenSerial opens the named plan on c.
func (b Board) OpenSerial(c *uart.Controller, name string) (uart.Disabled, error) {
	p, ok := b.Plan(name)
	if !ok {
		return uart.Disabled{}, &errcode.E{C: errcode.InvalidParams, Op: "board.OpenSerial", Msg: name}
	}
	return c.Open(p.Device, uart.TXRX(p.TX, p.RX), p.Config)
}

// OpenLED claims the LED pin as a low-speed push-pull output, switched off.
func (b Board) OpenLED(c *gpio.Controller, name string) (gpio.Output, error) {
	id, ok := b.LED(name)
	if !ok {
		return gpio.Output{}, &errcode.E{C: errcode.InvalidParams, Op: "board.OpenLED", Msg: name}
	}
	u, err := c.TakeID(id)
	if err != nil {
		return gpio.Output{}, err
	}
	out, err := u.IntoOutput()
	if err != nil {
		u.Release()
		return gpio.Output{}, err
	}
	out.SetOutputType(gpio.PushPull)
	out.SetSpeed(gpio.SpeedLow)
	out.SetPull(gpio.PullNone)
	out.Low()
	return out, nil
}

// OpenButton claims the user button as an input. The board has an external
// pull-down, so the internal pull stays off.
func (b Board) OpenButton(c *gpio.Controller) (gpio.Input, error) {
	u, err := c.TakeID(b.Button)
	if err != nil {
		return gpio.Input{}, err
	}
	in, err := u.IntoInput()
	if err != nil {
		u.Release()
		return gpio.Input{}, err
	}
	in.SetPull(gpio.PullNone)
	return in, nil
}
