// Package hal brings the chip up and installs the process-wide pin and
// serial controllers.
package hal

import (
	"sync/atomic"

	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/internal/trace"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
	"nucleo-hal/hal/systick"
	"nucleo-hal/hal/uart"
)

// System is what Init configured.
type System struct {
	Regs   reg.File
	Pins   *gpio.Controller
	Serial *uart.Controller
	Clocks rcc.Clocks
	Reload uint32 // SysTick reload, ticks per 10 ms
}

var installed atomic.Pointer[System]

// Init turns on the GPIO port clocks, starts SysTick at 10 ms and installs
// the gpio and uart singletons over regs. The clock tree is assumed to be
// at its reset state.
//
// Bring-up happens once per process. C start-up may call hal_hw_init before
// the Go main runs; every later call returns the installed System, with its
// pin and device claims intact, and writes nothing.
func Init(regs reg.File) System {
	return InitClocks(regs, rcc.ResetClocks())
}

// InitClocks is Init for a clock tree already brought up by other code.
func InitClocks(regs reg.File, clocks rcc.Clocks) System {
	if sys := installed.Load(); sys != nil {
		return *sys
	}
	rcc.EnableGPIO(regs)
	reload := systick.Init(regs)
	pins := gpio.Configure(regs)
	serial := uart.Configure(pins, clocks)
	sys := &System{Regs: regs, Pins: pins, Serial: serial, Clocks: clocks, Reload: reload}
	if !installed.CompareAndSwap(nil, sys) {
		return *installed.Load()
	}
	if trace.Enabled() {
		trace.Printf("hal", "init sysclk=%d reload=%d", clocks.SYSCLK, reload)
	}
	return *sys
}

// Installed returns the System set up by Init, if bring-up has run.
func Installed() (System, bool) {
	if sys := installed.Load(); sys != nil {
		return *sys, true
	}
	return System{}, false
}

// Trace switches the [hal]/[uart] debug lines on or off.
func Trace(on bool) { trace.Enable(on) }
