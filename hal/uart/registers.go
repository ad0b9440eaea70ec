package uart

import "nucleo-hal/hal/reg"

// Register offsets relative to a device base.
const (
	OffsetCR1 = 0x00
	OffsetCR2 = 0x04
	OffsetCR3 = 0x08
	OffsetBRR = 0x0C
	OffsetISR = 0x1C
	OffsetRDR = 0x24
	OffsetTDR = 0x28
)

// CR1
const (
	UE     = 1 << 0
	RE     = 1 << 2
	TE     = 1 << 3
	PS     = 1 << 9
	PCE    = 1 << 10
	M0     = 1 << 12
	OVER8  = 1 << 15
	M1     = 1 << 28
	FIFOEN = 1 << 29
)

// CR2
const (
	LBCL      = 1 << 8
	CPHA      = 1 << 9
	CPOL      = 1 << 10
	CLKEN     = 1 << 11
	stopShift = 12
	stopMask  = 0b11 << stopShift
)

// CR3
const (
	RTSE = 1 << 8
	CTSE = 1 << 9
)

const (
	frameMask = M0 | M1 | PCE | PS | OVER8 | FIFOEN
	syncMask  = CLKEN | CPOL | CPHA | LBCL
)

// frameBits returns the CR1 bits for cfg's word length, parity,
// oversampling and FIFO mode.
func frameBits(cfg Config) uint32 {
	var v uint32
	switch cfg.WordLength {
	case WordLength7:
		v |= M1
	case WordLength9:
		v |= M0
	}
	switch cfg.Parity {
	case ParityEven:
		v |= PCE
	case ParityOdd:
		v |= PCE | PS
	}
	if cfg.Oversampling == Oversampling8 {
		v |= OVER8
	}
	if cfg.FIFO {
		v |= FIFOEN
	}
	return v
}

// program writes the frame format and divisor. UE is cleared first since
// the frame fields are only writable with the device disabled.
func program(regs reg.File, dev *Device, cfg Config, brr uint32) {
	reg.ClearBits(regs, dev.at(OffsetCR1), UE)
	reg.Modify(regs, dev.at(OffsetCR1), frameMask, frameBits(cfg))
	reg.Modify(regs, dev.at(OffsetCR2), stopMask, uint32(cfg.StopBits)<<stopShift)
	var flow uint32
	if cfg.HardwareFlowControl {
		flow = RTSE | CTSE
	}
	reg.Modify(regs, dev.at(OffsetCR3), RTSE|CTSE, flow)
	brrMask := uint32(maxBRR)
	if dev.LowPower {
		brrMask = maxLPBRR
	}
	reg.Modify(regs, dev.at(OffsetBRR), brrMask, brr)
}

func syncBits(sc SyncConfig) uint32 {
	v := uint32(CLKEN)
	if sc.Polarity == IdleHigh {
		v |= CPOL
	}
	if sc.Phase == SecondEdge {
		v |= CPHA
	}
	if sc.LastBitClockPulse {
		v |= LBCL
	}
	return v
}
