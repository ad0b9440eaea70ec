package uart

import (
	"nucleo-hal/errcode"

	"tinygo.org/x/drivers"
)

// The transfer paths are declared so that callers and drivers compile
// against the full contract. None of them has a hardware sequence yet; each
// reports errcode.NotImplemented rather than pretending to succeed.

var _ drivers.UART = Async{}

func (p port) notImplemented(op string) error {
	return &errcode.E{C: errcode.NotImplemented, Op: "uart." + op, Msg: p.device().Name}
}

// Transmit sends data, blocking until it is queued.
func (p port) Transmit(data []byte) error { return p.notImplemented("Transmit") }

// Receive fills buf, blocking until it is full.
func (p port) Receive(buf []byte) error { return p.notImplemented("Receive") }

func (p port) TransmitNonBlocking(data []byte) error {
	return p.notImplemented("TransmitNonBlocking")
}

func (p port) ReceiveNonBlocking(buf []byte) error {
	return p.notImplemented("ReceiveNonBlocking")
}

// TxComplete reports whether the last transmission has left the shift
// register.
func (p port) TxComplete() (bool, error) { return false, p.notImplemented("TxComplete") }

func (p port) RxComplete() (bool, error) { return false, p.notImplemented("RxComplete") }

func (p port) SetTxFIFOThreshold(t Threshold) error {
	if err := p.fifoCheck("SetTxFIFOThreshold", t); err != nil {
		return err
	}
	return p.notImplemented("SetTxFIFOThreshold")
}

func (p port) SetRxFIFOThreshold(t Threshold) error {
	if err := p.fifoCheck("SetRxFIFOThreshold", t); err != nil {
		return err
	}
	return p.notImplemented("SetRxFIFOThreshold")
}

func (p port) fifoCheck(op string, t Threshold) error {
	dev := p.device()
	if !dev.Features.Has(FeatureFIFO) {
		return &errcode.E{C: errcode.FeatureNotSupported, Op: "uart." + op, Msg: dev.Name}
	}
	if t > ThresholdFull {
		return &errcode.E{C: errcode.InvalidParams, Op: "uart." + op, Msg: dev.Name}
	}
	return nil
}

// SendBreak queues a break frame.
func (p port) SendBreak() error { return p.notImplemented("SendBreak") }

// Read satisfies drivers.UART.
func (a Async) Read(buf []byte) (int, error) { return 0, a.notImplemented("Read") }

// Write satisfies drivers.UART.
func (a Async) Write(data []byte) (int, error) { return 0, a.notImplemented("Write") }

// Buffered reports the number of received bytes waiting. Nothing is
// buffered while reception is unimplemented.
func (a Async) Buffered() int { a.l.live(); return 0 }

func (s Sync) TransmitSync(data []byte) error { return s.notImplemented("TransmitSync") }

func (s Sync) ReceiveSync(buf []byte) error { return s.notImplemented("ReceiveSync") }

func (s Sync) SetClockPolarity(pol ClockPolarity) error {
	return s.notImplemented("SetClockPolarity")
}

func (s Sync) SetClockPhase(ph ClockPhase) error { return s.notImplemented("SetClockPhase") }

func (s Sync) SetLastBitClockPulse(on bool) error {
	return s.notImplemented("SetLastBitClockPulse")
}
