package main

import (
	"nucleo-hal/hal"
	"nucleo-hal/hal/semih"
)

// Entry points called from C start-up code.

//export default_hndlr
func defaultHandler() {
	for {
	}
}

//export hal_hw_init
func halHWInit() {
	hal.Init(platformRegs())
}

//export hal_semih_write_debug
func halSemihWriteDebug(msg *byte) {
	semih.WriteDebug(msg)
}

//export hal_semih_write
func halSemihWrite(msg *byte) uint32 {
	return semih.Write0(msg)
}
