package main

import (
	"time"

	"github.com/tarm/serial"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/board"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/uart"
)

// options are the command-line overrides applied on top of a board plan.
type options struct {
	Device  string
	Plan    string
	Baud    uint
	Bits    uint
	Parity  string
	Stop    string
	Timeout time.Duration
}

// frameConfig resolves the plan named by o and applies the overrides. The
// result is validated with the same rules the firmware applies, so the host
// never opens the port with a format the board cannot produce.
func frameConfig(o options) (uart.Config, error) {
	const op = "vcp.config"
	plan, ok := board.NucleoL4R5ZI.Plan(o.Plan)
	if !ok {
		return uart.Config{}, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "unknown plan " + o.Plan}
	}
	cfg := plan.Config
	if o.Baud != 0 {
		cfg.Baud = uint32(o.Baud)
	}
	switch o.Bits {
	case 0:
	case 7:
		cfg.WordLength = uart.WordLength7
	case 8:
		cfg.WordLength = uart.WordLength8
	case 9:
		cfg.WordLength = uart.WordLength9
	default:
		return uart.Config{}, &errcode.E{C: errcode.InvalidConfiguration, Op: op, Msg: "bits must be 7, 8 or 9"}
	}
	switch o.Parity {
	case "":
	case "none", "n":
		cfg.Parity = uart.ParityNone
	case "even", "e":
		cfg.Parity = uart.ParityEven
	case "odd", "o":
		cfg.Parity = uart.ParityOdd
	default:
		return uart.Config{}, &errcode.E{C: errcode.InvalidConfiguration, Op: op, Msg: "parity " + o.Parity}
	}
	switch o.Stop {
	case "":
	case "1":
		cfg.StopBits = uart.StopBits1
	case "0.5":
		cfg.StopBits = uart.StopBitsHalf
	case "1.5":
		cfg.StopBits = uart.StopBits1_5
	case "2":
		cfg.StopBits = uart.StopBits2
	default:
		return uart.Config{}, &errcode.E{C: errcode.InvalidConfiguration, Op: op, Msg: "stop bits " + o.Stop}
	}
	dev, _ := uart.Lookup(plan.Device)
	if _, err := cfg.Validate(dev, rcc.ResetClocks()); err != nil {
		return uart.Config{}, err
	}
	return cfg, nil
}

// portConfig maps a frame format onto the host serial driver.
func portConfig(name string, cfg uart.Config, timeout time.Duration) (*serial.Config, error) {
	const op = "vcp.port"
	pc := &serial.Config{Name: name, Baud: int(cfg.Baud), ReadTimeout: timeout}
	switch cfg.WordLength {
	case uart.WordLength7:
		pc.Size = 7
	case uart.WordLength8:
		pc.Size = 8
	default:
		return nil, &errcode.E{C: errcode.UnsupportedMode, Op: op, Msg: "host ports carry 7 or 8 data bits"}
	}
	switch cfg.Parity {
	case uart.ParityNone:
		pc.Parity = serial.ParityNone
	case uart.ParityEven:
		pc.Parity = serial.ParityEven
	case uart.ParityOdd:
		pc.Parity = serial.ParityOdd
	}
	switch cfg.StopBits {
	case uart.StopBits1:
		pc.StopBits = serial.Stop1
	case uart.StopBits1_5:
		pc.StopBits = serial.Stop1Half
	case uart.StopBits2:
		pc.StopBits = serial.Stop2
	default:
		return nil, &errcode.E{C: errcode.UnsupportedMode, Op: op, Msg: "host ports have no half stop bit"}
	}
	return pc, nil
}
