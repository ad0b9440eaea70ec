// Package rcc gates peripheral clocks and selects USART kernel clocks.
// Every write is a masked atomic update; neighbouring enable bits are never
// overwritten.
package rcc

import (
	"nucleo-hal/hal/reg"
)

// Base is the RCC register block address.
const Base reg.Addr = 0x4002_1000

const (
	OffsetAHB2ENR  = 0x4C
	OffsetAPB1ENR1 = 0x58
	OffsetAPB1ENR2 = 0x5C
	OffsetAPB2ENR  = 0x60
	OffsetCCIPR    = 0x88
)

// GPIOMask covers the GPIOA..GPIOI enable bits in AHB2ENR.
const GPIOMask = 0x1FF

// Gate is one peripheral clock-enable bit.
type Gate struct {
	Offset uint32
	Bit    uint8
}

func (g Gate) addr() reg.Addr { return Base.Off(g.Offset) }
func (g Gate) mask() uint32   { return 1 << g.Bit }

// Enable sets the gate bit.
func Enable(regs reg.File, g Gate) { reg.SetBits(regs, g.addr(), g.mask()) }

// Disable clears the gate bit.
func Disable(regs reg.File, g Gate) { reg.ClearBits(regs, g.addr(), g.mask()) }

// Enabled reports whether the gate bit is set.
func Enabled(regs reg.File, g Gate) bool { return reg.HasBits(regs, g.addr(), g.mask()) }

// EnableGPIO turns on the clocks of all nine GPIO ports.
func EnableGPIO(regs reg.File) {
	reg.SetBits(regs, Base.Off(OffsetAHB2ENR), GPIOMask)
}
