package gpio

import (
	"nucleo-hal/errcode"
	"nucleo-hal/hal/reg"
)

// configured carries the field editors shared by Input, Output, Analog and
// Alternate. Every edit is a masked CAS update of the bits owned by this pin;
// the other fifteen pins' fields in the same word are never written.
type configured struct{ h handle }

func (p configured) ID() ID { return p.h.live().id }

// Release frees the pin. The mode is left as configured.
func (p configured) Release() { p.h.release() }

func (p configured) at(off uint32) (reg.File, reg.Addr, uint8) {
	rec := p.h.live()
	return rec.c.regs, rec.base().Off(off), uint8(rec.id.Num)
}

// SetOutputType writes the pin's OTYPER bit.
func (p configured) SetOutputType(t OutputType) {
	if t > OpenDrain {
		panic("gpio: invalid output type")
	}
	regs, a, n := p.at(OffsetOTYPER)
	reg.WriteField(regs, a, 1, n, uint32(t))
}

func (p configured) OutputType() OutputType {
	regs, a, n := p.at(OffsetOTYPER)
	return OutputType(reg.ReadField(regs, a, 1, n))
}

// SetSpeed writes the pin's 2-bit OSPEEDR field.
func (p configured) SetSpeed(s Speed) {
	if s > SpeedVeryHigh {
		panic("gpio: invalid speed")
	}
	regs, a, n := p.at(OffsetOSPEEDR)
	reg.WriteField(regs, a, 2, n, uint32(s))
}

func (p configured) Speed() Speed {
	regs, a, n := p.at(OffsetOSPEEDR)
	return Speed(reg.ReadField(regs, a, 2, n))
}

// SetPull writes the pin's 2-bit PUPDR field.
func (p configured) SetPull(pull Pull) {
	if pull > PullDown {
		panic("gpio: invalid pull")
	}
	regs, a, n := p.at(OffsetPUPDR)
	reg.WriteField(regs, a, 2, n, uint32(pull))
}

func (p configured) Pull() Pull {
	regs, a, n := p.at(OffsetPUPDR)
	return Pull(reg.ReadField(regs, a, 2, n))
}

// High drives the pin high with one store to BSRR.
func (p configured) High() {
	regs, a, n := p.at(OffsetBSRR)
	regs.Store(a, 1<<n)
}

// Low drives the pin low with one store to BSRR.
func (p configured) Low() {
	regs, a, n := p.at(OffsetBSRR)
	regs.Store(a, 1<<(uint32(n)+16))
}

func (p configured) Set(high bool) {
	if high {
		p.High()
	} else {
		p.Low()
	}
}

// Toggle inverts the output latch. The ODR read only decides which BSRR
// half to write; the write itself is a single store.
func (p configured) Toggle() {
	regs, odr, n := p.at(OffsetODR)
	if regs.Load(odr)&(1<<n) != 0 {
		p.Low()
	} else {
		p.High()
	}
}

// Get reports the pin level from IDR.
func (p configured) Get() bool {
	regs, a, n := p.at(OffsetIDR)
	return regs.Load(a)&(1<<n) != 0
}

// Lock freezes the pin's mode, type, speed, pull and alternate function
// until the next reset by running the LCKR key sequence. Pins of the same
// port already locked stay locked. Once a port's key is set no further pins
// can be added; Lock then reports errcode.Locked unless this pin is among
// them.
//
// The key sequence spans five accesses; the caller must not let another
// context lock pins of the same port at the same time.
func (p configured) Lock() error {
	regs, a, n := p.at(OffsetLCKR)
	cur := regs.Load(a)
	bit := uint32(1) << n
	if cur&lckk != 0 {
		if cur&bit != 0 {
			return nil
		}
		return &errcode.E{C: errcode.Locked, Op: "gpio.Lock", Msg: p.ID().String()}
	}
	bits := cur&0xFFFF | bit
	regs.Store(a, lckk|bits)
	regs.Store(a, bits)
	regs.Store(a, lckk|bits)
	_ = regs.Load(a)
	if regs.Load(a)&lckk == 0 {
		return &errcode.E{C: errcode.Locked, Op: "gpio.Lock", Msg: "key sequence rejected"}
	}
	return nil
}

// Locked reports whether the pin's configuration is frozen.
func (p configured) Locked() bool { return p.h.live().locked() }
