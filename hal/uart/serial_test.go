package uart

import (
	"errors"
	"testing"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/hal/reg"
)

func expectPanic(t *testing.T, what string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", what)
		}
	}()
	fn()
}

func TestAsyncLifecycle(t *testing.T) {
	r := newRig(t)
	dev, _ := Lookup(USART1)
	cr1 := dev.at(OffsetCR1)

	d, err := r.c.Open(USART1, TXRX(pa9, pa10), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.EnableAsync()
	if err != nil {
		t.Fatal(err)
	}
	if got := r.m.Peek(cr1) & (UE | TE | RE); got != UE|TE|RE {
		t.Fatalf("CR1 enable bits = %#x", got)
	}
	expectPanic(t, "consumed Disabled", func() { _, _ = d.EnableAsync() })

	d2 := a.Disable()
	if r.m.Peek(cr1)&(UE|TE|RE) != 0 {
		t.Fatalf("Disable left enable bits set: %#x", r.m.Peek(cr1))
	}
	expectPanic(t, "consumed Async", func() { _ = a.Buffered() })

	a.Release() // stale: no effect
	if !r.c.Held(USART1) {
		t.Fatalf("stale release freed the device")
	}
	d2.Release()
	if r.c.Held(USART1) || r.pins.Held(pa9) || r.pins.Held(pa10) {
		t.Fatalf("release left resources claimed")
	}
	if rcc.Enabled(r.m, dev.Clock) {
		t.Fatalf("release left the clock on")
	}
	d2.Release()
}

func TestAsyncTXOnlyEnablesTransmitter(t *testing.T) {
	r := newRig(t)
	dev, _ := Lookup(USART2)
	d, err := r.c.Open(USART2, TXOnly(gpio.P(gpio.PortD, 5)), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.EnableAsync()
	if err != nil {
		t.Fatal(err)
	}
	if got := r.m.Peek(dev.at(OffsetCR1)) & (UE | TE | RE); got != UE|TE {
		t.Fatalf("CR1 enable bits = %#x, want TE|UE", got)
	}
	if _, ok := a.RX(); ok {
		t.Fatalf("TX-only port reports an RX pin")
	}
	a.Release()
}

func TestEnableSync(t *testing.T) {
	r := newRig(t)
	dev, _ := Lookup(USART1)
	d, err := r.c.Open(USART1, TXOnly(pa9), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	sc := SyncConfig{Polarity: IdleHigh, Phase: SecondEdge, LastBitClockPulse: true}
	s, err := d.EnableSync(sc)
	if err != nil {
		t.Fatal(err)
	}
	cr2 := dev.at(OffsetCR2)
	if got := r.m.Peek(cr2) & syncMask; got != CLKEN|CPOL|CPHA|LBCL {
		t.Fatalf("CR2 sync bits = %#x", got)
	}
	if s.SyncConfig() != sc {
		t.Fatalf("SyncConfig = %+v", s.SyncConfig())
	}
	back := s.Disable()
	if r.m.Peek(cr2)&syncMask != 0 {
		t.Fatalf("sync bits left set: %#x", r.m.Peek(cr2))
	}
	back.Release()
}

func TestEnableSyncUnsupported(t *testing.T) {
	r := newRig(t)
	d, err := r.c.Open(UART4, TXOnly(pa0), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	r.m.ResetCounters()
	_, err = d.EnableSync(SyncConfig{})
	if !errors.Is(err, errcode.UnsupportedMode) {
		t.Fatalf("UART4 EnableSync = %v", err)
	}
	if r.m.Writes() != 0 {
		t.Fatalf("refused EnableSync wrote %d registers", r.m.Writes())
	}
	// d is still the live handle.
	a, err := d.EnableAsync()
	if err != nil {
		t.Fatal(err)
	}
	a.Release()
	if r.c.Held(UART4) {
		t.Fatalf("UART4 still held")
	}
}

func TestTransferContractsReportNotImplemented(t *testing.T) {
	r := newRig(t)
	d, err := r.c.Open(USART1, TXRX(pa9, pa10), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	buf := make([]byte, 4)
	calls := map[string]func() error{
		"Transmit":            func() error { return d.Transmit(buf) },
		"Receive":             func() error { return d.Receive(buf) },
		"TransmitNonBlocking": func() error { return d.TransmitNonBlocking(buf) },
		"ReceiveNonBlocking":  func() error { return d.ReceiveNonBlocking(buf) },
		"TxComplete":          func() error { _, err := d.TxComplete(); return err },
		"RxComplete":          func() error { _, err := d.RxComplete(); return err },
		"SetTxFIFOThreshold":  func() error { return d.SetTxFIFOThreshold(ThresholdHalf) },
		"SetRxFIFOThreshold":  func() error { return d.SetRxFIFOThreshold(ThresholdFull) },
		"SendBreak":           func() error { return d.SendBreak() },
	}
	for name, call := range calls {
		err := call()
		if !errors.Is(err, errcode.NotImplemented) {
			t.Fatalf("%s = %v, want not_implemented", name, err)
		}
		if errcode.ClassOf(err) != errcode.ClassUnimplemented {
			t.Fatalf("%s class = %v", name, errcode.ClassOf(err))
		}
	}
	if err := d.SetTxFIFOThreshold(Threshold(9)); !errors.Is(err, errcode.InvalidParams) {
		t.Fatalf("bad threshold = %v", err)
	}

	a, err := d.EnableAsync()
	if err != nil {
		t.Fatal(err)
	}
	if n, err := a.Write([]byte("hi")); n != 0 || !errors.Is(err, errcode.NotImplemented) {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if n, err := a.Read(buf); n != 0 || !errors.Is(err, errcode.NotImplemented) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	if a.Buffered() != 0 {
		t.Fatalf("Buffered = %d", a.Buffered())
	}
	d2 := a.Disable()
	s, err := d2.EnableSync(SyncConfig{})
	if err != nil {
		t.Fatal(err)
	}
	syncCalls := []func() error{
		func() error { return s.TransmitSync(buf) },
		func() error { return s.ReceiveSync(buf) },
		func() error { return s.SetClockPolarity(IdleHigh) },
		func() error { return s.SetClockPhase(SecondEdge) },
		func() error { return s.SetLastBitClockPulse(true) },
	}
	for i, call := range syncCalls {
		if err := call(); !errors.Is(err, errcode.NotImplemented) {
			t.Fatalf("sync call %d = %v", i, err)
		}
	}
	s.Release()
}

func TestFIFOThresholdWithoutFeature(t *testing.T) {
	r := newRig(t)
	dev, _ := Lookup(UART5)
	saved := dev.Features
	dev.Features &^= FeatureFIFO
	defer func() { dev.Features = saved }()

	d, err := r.c.Open(UART5, TXOnly(gpio.P(gpio.PortC, 12)), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer d.Release()
	if err := d.SetRxFIFOThreshold(ThresholdHalf); !errors.Is(err, errcode.FeatureNotSupported) {
		t.Fatalf("got %v, want feature_not_supported", err)
	}
	cfg := DefaultConfig()
	cfg.FIFO = true
	if _, err := cfg.Validate(dev, rcc.ResetClocks()); !errors.Is(err, errcode.FeatureNotSupported) {
		t.Fatalf("Validate with FIFO = %v", err)
	}
}

func TestCapabilityTable(t *testing.T) {
	bases := map[reg.Addr]bool{}
	gates := map[rcc.Gate]bool{}
	for id := DeviceID(0); id < NumDevices; id++ {
		dev, ok := Lookup(id)
		if !ok || dev.ID != id {
			t.Fatalf("Lookup(%d) = %+v, %v", id, dev, ok)
		}
		if bases[dev.Base] || gates[dev.Clock] {
			t.Fatalf("%s shares a base or clock gate", dev.Name)
		}
		bases[dev.Base], gates[dev.Clock] = true, true
		if dev.MaxBaud != DefaultMaxBaud {
			t.Fatalf("%s max baud = %d", dev.Name, dev.MaxBaud)
		}
		if len(dev.TX) == 0 || len(dev.RX) == 0 {
			t.Fatalf("%s has no routes", dev.Name)
		}
		for _, r := range append(append([]PinRoute{}, dev.TX...), dev.RX...) {
			if !r.Pin.Valid() || !r.AF.Valid() {
				t.Fatalf("%s: bad route %+v", dev.Name, r)
			}
		}
		if id.String() != dev.Name {
			t.Fatalf("String = %q, want %q", id.String(), dev.Name)
		}
	}
	if _, ok := Lookup(NumDevices); ok {
		t.Fatalf("Lookup accepted an unknown device")
	}
	usart1, _ := Lookup(USART1)
	if af, ok := usart1.TXFunction(pa9); !ok || af != gpio.AF7 {
		t.Fatalf("USART1 PA9 = AF%d, %v", af, ok)
	}
	if _, ok := usart1.TXFunction(pa10); ok {
		t.Fatalf("PA10 is not a USART1 TX pin")
	}
}

func TestDefaultController(t *testing.T) {
	if defaultController.Load() == nil {
		expectPanic(t, "Default before Configure", func() { _ = Default() })
	}
	m := reg.NewMock()
	c := Configure(gpio.New(m), rcc.ResetClocks())
	d, err := Open(LPUART1, TXRX(pg7, pg8), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if !c.Held(LPUART1) {
		t.Fatalf("Open did not use the configured controller")
	}
	if again := Configure(gpio.New(reg.NewMock()), rcc.ResetClocks()); again != c {
		t.Fatalf("second Configure replaced the controller")
	}
	if _, err := Open(LPUART1, TXRX(pg7, pg8), DefaultConfig()); !errors.Is(err, errcode.DeviceUnavailable) {
		t.Fatalf("LPUART1 after second Configure: %v, want device_unavailable", err)
	}
	d.Release()
}

func TestSpecialModesRefused(t *testing.T) {
	tests := []struct {
		dev  DeviceID
		tx   gpio.ID
		name string
		call func(Disabled) error
		want errcode.Code
	}{
		{USART1, pa9, "smart card", func(d Disabled) error {
			_, err := d.EnableSmartCard(SmartCardConfig{NACK: true, GuardTime: 2})
			return err
		}, errcode.NotImplemented},
		{USART1, pa9, "irda", func(d Disabled) error { _, err := d.EnableIrDA(); return err }, errcode.NotImplemented},
		{UART4, pa0, "smart card", func(d Disabled) error {
			_, err := d.EnableSmartCard(SmartCardConfig{})
			return err
		}, errcode.UnsupportedMode},
		{LPUART1, pg7, "irda", func(d Disabled) error { _, err := d.EnableIrDA(); return err }, errcode.UnsupportedMode},
		{LPUART1, pg7, "rs485", func(d Disabled) error { _, err := d.EnableRS485(); return err }, errcode.NotImplemented},
		{UART4, pa0, "single wire", func(d Disabled) error { _, err := d.EnableSingleWire(); return err }, errcode.NotImplemented},
	}
	for _, tt := range tests {
		r := newRig(t)
		d, err := r.c.Open(tt.dev, TXOnly(tt.tx), DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		r.m.ResetCounters()
		if err := tt.call(d); !errors.Is(err, tt.want) {
			t.Fatalf("%s %s = %v, want %s", tt.dev, tt.name, err, tt.want)
		}
		if r.m.Writes() != 0 {
			t.Fatalf("%s %s wrote %d registers", tt.dev, tt.name, r.m.Writes())
		}
		d.Release() // d stays the live handle
		if r.c.Held(tt.dev) {
			t.Fatalf("%s still held", tt.dev)
		}
	}
}

func TestOpenReleaseAllocFreeWithTraceOff(t *testing.T) {
	r := newRig(t)
	pins, cfg := TXRX(pa9, pa10), DefaultConfig()
	allocs := testing.AllocsPerRun(50, func() {
		d, err := r.c.Open(USART1, pins, cfg)
		if err != nil {
			t.Fatal(err)
		}
		d.Release()
	})
	if allocs != 0 {
		t.Fatalf("Open/Release allocated %.0f times per run", allocs)
	}
}
