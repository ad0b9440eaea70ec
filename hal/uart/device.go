// Package uart composes serial-port handles for the STM32L4R5 USART and
// LPUART blocks.
//
// Open claims the transmit pin, the optional receive pin and the device,
// routes both pins to the device's alternate function and programs the
// frame format. The result is a Disabled handle; EnableAsync and EnableSync
// move it to the operating states. Every failure before the handle is
// returned undoes whatever was claimed.
package uart

import (
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
)

// DeviceID names one serial block.
type DeviceID uint8

const (
	USART1 DeviceID = iota
	USART2
	USART3
	UART4
	UART5
	LPUART1

	NumDevices = 6
)

func (id DeviceID) Valid() bool { return id < NumDevices }

func (id DeviceID) String() string {
	if !id.Valid() {
		return "uart?"
	}
	return devices[id].Name
}

// Features is the set of optional modes a device supports.
type Features uint8

const (
	FeatureSync Features = 1 << iota
	FeatureSmartCard
	FeatureIrDA
	FeatureRS485
	FeatureSingleWire
	FeatureFIFO
)

func (f Features) Has(x Features) bool { return f&x == x }

// DefaultMaxBaud is the ceiling compiled into every device record.
const DefaultMaxBaud = 115200

// PinRoute maps one pin to the alternate function that connects it to the
// device.
type PinRoute struct {
	Pin gpio.ID
	AF  gpio.AF
}

// Device is the compiled-in capability record of one serial block.
type Device struct {
	ID       DeviceID
	Name     string
	Base     reg.Addr
	MaxBaud  uint32
	Clock    rcc.Gate
	Selector rcc.Selector
	APB2     bool // PCLK is PCLK2 rather than PCLK1
	LowPower bool // LPUART: 256x BRR, no 8x oversampling, no half stop bits
	TX       []PinRoute
	RX       []PinRoute
	Features Features
}

func route(af gpio.AF, ids ...gpio.ID) []PinRoute {
	r := make([]PinRoute, len(ids))
	for i, id := range ids {
		r[i] = PinRoute{Pin: id, AF: af}
	}
	return r
}

const allFeatures = FeatureSync | FeatureSmartCard | FeatureIrDA | FeatureRS485 | FeatureSingleWire | FeatureFIFO

var devices = [NumDevices]Device{
	USART1: {
		Name: "USART1", Base: 0x4001_3800,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB2ENR, Bit: 14}, Selector: 0, APB2: true,
		TX:       route(gpio.AF7, gpio.P(gpio.PortA, 9), gpio.P(gpio.PortB, 6)),
		RX:       route(gpio.AF7, gpio.P(gpio.PortA, 10), gpio.P(gpio.PortB, 7)),
		Features: allFeatures,
	},
	USART2: {
		Name: "USART2", Base: 0x4000_4400,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB1ENR1, Bit: 17}, Selector: 1,
		TX:       route(gpio.AF7, gpio.P(gpio.PortA, 2), gpio.P(gpio.PortD, 5)),
		RX:       route(gpio.AF7, gpio.P(gpio.PortA, 3), gpio.P(gpio.PortD, 6)),
		Features: allFeatures,
	},
	USART3: {
		Name: "USART3", Base: 0x4000_4800,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB1ENR1, Bit: 18}, Selector: 2,
		TX:       route(gpio.AF7, gpio.P(gpio.PortB, 10), gpio.P(gpio.PortC, 4), gpio.P(gpio.PortC, 10), gpio.P(gpio.PortD, 8)),
		RX:       route(gpio.AF7, gpio.P(gpio.PortB, 11), gpio.P(gpio.PortC, 5), gpio.P(gpio.PortC, 11), gpio.P(gpio.PortD, 9)),
		Features: allFeatures,
	},
	UART4: {
		Name: "UART4", Base: 0x4000_4C00,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB1ENR1, Bit: 19}, Selector: 3,
		TX:       route(gpio.AF8, gpio.P(gpio.PortA, 0), gpio.P(gpio.PortC, 10)),
		RX:       route(gpio.AF8, gpio.P(gpio.PortA, 1), gpio.P(gpio.PortC, 11)),
		Features: FeatureIrDA | FeatureRS485 | FeatureSingleWire | FeatureFIFO,
	},
	UART5: {
		Name: "UART5", Base: 0x4000_5000,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB1ENR1, Bit: 20}, Selector: 4,
		TX:       route(gpio.AF8, gpio.P(gpio.PortC, 12)),
		RX:       route(gpio.AF8, gpio.P(gpio.PortD, 2)),
		Features: FeatureIrDA | FeatureRS485 | FeatureSingleWire | FeatureFIFO,
	},
	LPUART1: {
		Name: "LPUART1", Base: 0x4000_8000,
		Clock: rcc.Gate{Offset: rcc.OffsetAPB1ENR2, Bit: 0}, Selector: 5,
		LowPower: true,
		TX:       route(gpio.AF8, gpio.P(gpio.PortB, 11), gpio.P(gpio.PortC, 1), gpio.P(gpio.PortG, 7)),
		RX:       route(gpio.AF8, gpio.P(gpio.PortB, 10), gpio.P(gpio.PortC, 0), gpio.P(gpio.PortG, 8)),
		Features: FeatureRS485 | FeatureSingleWire | FeatureFIFO,
	},
}

func init() {
	for i := range devices {
		devices[i].ID = DeviceID(i)
		devices[i].MaxBaud = DefaultMaxBaud
	}
}

// Lookup returns the capability record for id.
func Lookup(id DeviceID) (*Device, bool) {
	if !id.Valid() {
		return nil, false
	}
	return &devices[id], true
}

// TXFunction returns the alternate function that routes pin to the
// device's transmit line.
func (d *Device) TXFunction(pin gpio.ID) (gpio.AF, bool) { return find(d.TX, pin) }

// RXFunction returns the alternate function that routes pin to the
// device's receive line.
func (d *Device) RXFunction(pin gpio.ID) (gpio.AF, bool) { return find(d.RX, pin) }

func find(routes []PinRoute, pin gpio.ID) (gpio.AF, bool) {
	for _, r := range routes {
		if r.Pin == pin {
			return r.AF, true
		}
	}
	return 0, false
}

func (d *Device) at(off uint32) reg.Addr { return d.Base.Off(off) }
