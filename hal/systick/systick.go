// Package systick starts the Cortex-M SysTick timer at a 10 ms period.
package systick

import "nucleo-hal/hal/reg"

const (
	CSR   reg.Addr = 0xE000_E010
	RVR   reg.Addr = 0xE000_E014
	CVR   reg.Addr = 0xE000_E018
	CALIB reg.Addr = 0xE000_E01C
)

// CSR bits.
const (
	Enable    = 1 << 0
	TickInt   = 1 << 1
	ClkSource = 1 << 2
)

const (
	tenmsMask  = 0x00FF_FFFF
	reloadMask = 0x00FF_FFFF
)

// TicksPer10ms returns the factory calibration value from CALIB.TENMS.
func TicksPer10ms(regs reg.File) uint32 {
	return regs.Load(CALIB) & tenmsMask
}

// Init loads the 10 ms reload, clears the current value and enables the
// counter with its interrupt. The clock-source bit is left as found.
func Init(regs reg.File) uint32 {
	reload := TicksPer10ms(regs)
	reg.SetBits(regs, CSR, TickInt)
	reg.Modify(regs, RVR, reloadMask, reload)
	regs.Store(CVR, 0)
	reg.SetBits(regs, CSR, Enable)
	return reload
}

// Running reports whether the counter is enabled.
func Running(regs reg.File) bool { return reg.HasBits(regs, CSR, Enable) }
