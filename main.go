package main

import (
	"time"

	"nucleo-hal/hal"
	"nucleo-hal/hal/board"
	"nucleo-hal/hal/semih"
	"nucleo-hal/x/fmtx"
)

func main() {
	// hal_hw_init may already have run from the C start-up code.
	sys, ok := hal.Installed()
	if !ok {
		sys = hal.Init(platformRegs())
	}
	fmtx.DefaultOutput = &semih.Writer{}
	fmtx.Printf("boot %s reload=%d\n", board.NucleoL4R5ZI.Name, sys.Reload)

	vcp, err := board.NucleoL4R5ZI.OpenSerial(sys.Serial, "vcp")
	if err != nil {
		fmtx.Printf("vcp: %v\n", err)
	} else {
		a, err := vcp.EnableAsync()
		if err != nil {
			fmtx.Printf("vcp enable: %v\n", err)
		} else {
			fmtx.Printf("vcp on %s tx=%s\n", a.Device().Name, a.TX())
		}
	}

	led, err := board.NucleoL4R5ZI.OpenLED(sys.Pins, "LD1")
	if err != nil {
		fmtx.Printf("led: %v\n", err)
		return
	}
	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	for range ticks(tick.C) {
		led.Toggle()
	}
}
