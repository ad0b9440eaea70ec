package rcc

import "nucleo-hal/hal/reg"

// Source is a USART kernel clock selection in CCIPR.
type Source uint8

const (
	SourcePCLK   Source = 0b00
	SourceSYSCLK Source = 0b01
	SourceHSI16  Source = 0b10
	SourceLSE    Source = 0b11
)

func (s Source) Valid() bool { return s <= SourceLSE }

func (s Source) String() string {
	switch s {
	case SourcePCLK:
		return "pclk"
	case SourceSYSCLK:
		return "sysclk"
	case SourceHSI16:
		return "hsi16"
	case SourceLSE:
		return "lse"
	}
	return "invalid"
}

// Selector is the 2-bit CCIPR field index of one device.
type Selector uint8

// SelectSource writes src into the device's CCIPR field.
func SelectSource(regs reg.File, sel Selector, src Source) {
	if !src.Valid() {
		panic("rcc: invalid clock source")
	}
	reg.WriteField(regs, Base.Off(OffsetCCIPR), 2, uint8(sel), uint32(src))
}

// SelectedSource reads the device's CCIPR field.
func SelectedSource(regs reg.File, sel Selector) Source {
	return Source(reg.ReadField(regs, Base.Off(OffsetCCIPR), 2, uint8(sel)))
}

const (
	HSI16Hz = 16_000_000
	LSEHz   = 32_768
	MSIHz   = 4_000_000
)

// Clocks records the bus frequencies the clock tree was brought up with.
type Clocks struct {
	SYSCLK uint32
	PCLK1  uint32
	PCLK2  uint32
}

// ResetClocks is the state after reset: MSI at 4 MHz, prescalers at 1.
func ResetClocks() Clocks {
	return Clocks{SYSCLK: MSIHz, PCLK1: MSIHz, PCLK2: MSIHz}
}

// Frequency returns the kernel clock a device sees for src. onAPB2 selects
// PCLK2 instead of PCLK1 for SourcePCLK.
func (c Clocks) Frequency(src Source, onAPB2 bool) uint32 {
	switch src {
	case SourcePCLK:
		if onAPB2 {
			return c.PCLK2
		}
		return c.PCLK1
	case SourceSYSCLK:
		return c.SYSCLK
	case SourceHSI16:
		return HSI16Hz
	case SourceLSE:
		return LSEHz
	}
	return 0
}
