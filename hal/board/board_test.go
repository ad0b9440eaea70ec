package board

import (
	"errors"
	"testing"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
	"nucleo-hal/hal/uart"
)

func TestPlansAreRoutable(t *testing.T) {
	for _, p := range NucleoL4R5ZI.Serial {
		dev, ok := uart.Lookup(p.Device)
		if !ok {
			t.Fatalf("%s: unknown device", p.Name)
		}
		if _, ok := dev.TXFunction(p.TX); !ok {
			t.Fatalf("%s: %v is not a %s TX pin", p.Name, p.TX, dev.Name)
		}
		if _, ok := dev.RXFunction(p.RX); !ok {
			t.Fatalf("%s: %v is not a %s RX pin", p.Name, p.RX, dev.Name)
		}
		if _, err := p.Config.Validate(dev, rcc.ResetClocks()); err != nil {
			t.Fatalf("%s: %v", p.Name, err)
		}
	}
}

func TestOpenSerialAndLED(t *testing.T) {
	m := reg.NewMock()
	gpio.Loopback(m)
	pins := gpio.New(m)
	serial := uart.New(pins, rcc.ResetClocks())
	b := NucleoL4R5ZI

	d, err := b.OpenSerial(serial, "vcp")
	if err != nil {
		t.Fatalf("OpenSerial: %v", err)
	}
	if !serial.Held(uart.LPUART1) {
		t.Fatalf("LPUART1 not held")
	}
	if _, err := b.OpenSerial(serial, "nope"); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("unknown plan = %v", err)
	}
	d.Release()

	led, err := b.OpenLED(pins, "LD2")
	if err != nil {
		t.Fatal(err)
	}
	if led.Get() {
		t.Fatalf("LED starts on")
	}
	led.High()
	if !led.Get() {
		t.Fatalf("LED did not turn on")
	}
	if _, err := b.OpenLED(pins, "LD2"); !errors.Is(err, errcode.Conflict) {
		t.Fatalf("second OpenLED = %v", err)
	}
	led.Release()

	btn, err := b.OpenButton(pins)
	if err != nil {
		t.Fatal(err)
	}
	if btn.ID() != gpio.P(gpio.PortC, 13) {
		t.Fatalf("button on %v", btn.ID())
	}
	btn.Release()
}
