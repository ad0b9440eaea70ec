package hal

import (
	"errors"
	"testing"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
	"nucleo-hal/hal/systick"
	"nucleo-hal/hal/uart"
)

func TestInit(t *testing.T) {
	m := reg.NewMock()
	gpio.Loopback(m)
	m.Poke(systick.CALIB, 39_999)
	m.Poke(rcc.Base.Off(rcc.OffsetAHB2ENR), 1<<16)

	sys := Init(m)
	if got := m.Peek(rcc.Base.Off(rcc.OffsetAHB2ENR)); got != 1<<16|rcc.GPIOMask {
		t.Fatalf("AHB2ENR = %#x", got)
	}
	if sys.Reload != 39_999 || !systick.Running(m) {
		t.Fatalf("systick reload=%d running=%v", sys.Reload, systick.Running(m))
	}
	if gpio.Default() != sys.Pins || uart.Default() != sys.Serial {
		t.Fatalf("singletons not installed")
	}
	d, err := uart.Open(uart.LPUART1, uart.TXRX(gpio.P(gpio.PortG, 7), gpio.P(gpio.PortG, 8)), uart.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !sys.Pins.Held(gpio.P(gpio.PortG, 7)) {
		t.Fatalf("serial open did not claim through the shared pin controller")
	}
	d.Release()
}

func TestInitTwiceKeepsClaims(t *testing.T) {
	first := Init(reg.NewMock())
	a, err := gpio.Take(gpio.PortA, 5)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Release()
	d, err := uart.Open(uart.USART2, uart.TXOnly(gpio.P(gpio.PortA, 2)), uart.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer d.Release()

	m2 := reg.NewMock()
	again := Init(m2)
	if again.Pins != first.Pins || again.Serial != first.Serial || again.Regs != first.Regs {
		t.Fatalf("second Init replaced the installed system")
	}
	if m2.Writes() != 0 {
		t.Fatalf("second Init wrote %d registers", m2.Writes())
	}
	if _, err := gpio.Take(gpio.PortA, 5); !errors.Is(err, errcode.Conflict) {
		t.Fatalf("PA5 after re-init: %v, want conflict", err)
	}
	if _, err := uart.Open(uart.USART2, uart.TXOnly(gpio.P(gpio.PortD, 5)), uart.DefaultConfig()); !errors.Is(err, errcode.DeviceUnavailable) {
		t.Fatalf("USART2 after re-init: %v, want device_unavailable", err)
	}
	if sys, ok := Installed(); !ok || sys.Pins != first.Pins {
		t.Fatalf("Installed = %+v, %v", sys, ok)
	}
}
