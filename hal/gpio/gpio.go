// Package gpio provides exclusive, type-state pin handles for the STM32L4R5
// digital I/O ports.
//
// A pin is claimed with Take, which yields an Undefined handle. Mode changes
// consume a handle and return a handle of the destination type; the set of
// IntoX methods on each type is the legal-transition matrix, so an illegal
// transition does not compile. Field editors exist only on the four
// configured types.
//
// Go cannot make a value move-only. Each handle instead carries the
// generation of its pin record; consuming or releasing a handle advances the
// generation, and any later use of an older copy panics.
package gpio

import (
	"nucleo-hal/hal/reg"
	"nucleo-hal/x/conv"
)

// Port identifies one GPIO register block.
type Port uint8

const (
	PortA Port = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
	PortI
)

const (
	NumPorts    = 9
	PinsPerPort = 16
	NumPins     = NumPorts * PinsPerPort
)

var portBase = [NumPorts]reg.Addr{
	PortA: 0x4800_0000,
	PortB: 0x4800_0400,
	PortC: 0x4800_0800,
	PortD: 0x4800_0C00,
	PortE: 0x4800_1000,
	PortF: 0x4800_1400,
	PortG: 0x4800_1800,
	PortH: 0x4800_1C00,
	PortI: 0x4800_2000,
}

// Register offsets relative to a port base.
const (
	OffsetMODER   = 0x00
	OffsetOTYPER  = 0x04
	OffsetOSPEEDR = 0x08
	OffsetPUPDR   = 0x0C
	OffsetIDR     = 0x10
	OffsetODR     = 0x14
	OffsetBSRR    = 0x18
	OffsetLCKR    = 0x1C
	OffsetAFRL    = 0x20
	OffsetAFRH    = 0x24
	OffsetBRR     = 0x28
)

// lckk is the lock key bit in LCKR.
const lckk = 1 << 16

func (p Port) Valid() bool { return p < NumPorts }

// Base returns the register block address of p. It panics on an invalid port.
func (p Port) Base() reg.Addr {
	if !p.Valid() {
		panic("gpio: invalid port")
	}
	return portBase[p]
}

func (p Port) String() string {
	if !p.Valid() {
		return "GPIO?"
	}
	return "GPIO" + string(rune('A'+p))
}

// Num is a pin index within a port, 0..15.
type Num uint8

func (n Num) Valid() bool { return n < PinsPerPort }

// ID names one physical pin.
type ID struct {
	Port Port
	Num  Num
}

// P is shorthand for ID{port, num}.
func P(port Port, num Num) ID { return ID{Port: port, Num: num} }

func (id ID) Valid() bool { return id.Port.Valid() && id.Num.Valid() }

// index is the pin's bit in the ownership bitmap.
func (id ID) index() int { return int(id.Port)*PinsPerPort + int(id.Num) }

func idFromIndex(i int) ID { return ID{Port: Port(i / PinsPerPort), Num: Num(i % PinsPerPort)} }

// String renders the board name of the pin, e.g. "PA9".
func (id ID) String() string {
	if !id.Valid() {
		return "P??"
	}
	var buf [4]byte
	return "P" + string(rune('A'+id.Port)) + string(conv.Utoa(buf[:], uint64(id.Num)))
}

// OutputType selects the output driver.
type OutputType uint8

const (
	PushPull  OutputType = 0 // drives both levels
	OpenDrain OutputType = 1 // drives low only; high needs an external pull-up
)

// Speed selects the output slew rate.
type Speed uint8

const (
	SpeedLow Speed = iota
	SpeedMedium
	SpeedHigh
	SpeedVeryHigh
)

// Pull selects the internal pull resistor.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// AF is an alternate-function code, AF0..AF15.
type AF uint8

const (
	AF0 AF = iota
	AF1
	AF2
	AF3
	AF4
	AF5
	AF6
	AF7
	AF8
	AF9
	AF10
	AF11
	AF12
	AF13
	AF14
	AF15
)

func (af AF) Valid() bool { return af <= AF15 }

// afrSlot returns the AFR register offset and 4-bit field index for n.
// Pins 8..15 live in AFRH.
func afrSlot(n Num) (uint32, uint8) {
	if n < 8 {
		return OffsetAFRL, uint8(n)
	}
	return OffsetAFRH, uint8(n - 8)
}
