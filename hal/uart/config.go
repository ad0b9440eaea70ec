package uart

import (
	"nucleo-hal/errcode"
	"nucleo-hal/hal/rcc"
	"nucleo-hal/x/mathx"
)

type WordLength uint8

const (
	WordLength8 WordLength = iota
	WordLength7
	WordLength9
)

type Parity uint8

const (
	ParityNone Parity = iota
	ParityEven
	ParityOdd
)

// StopBits values are the CR2 STOP codes.
type StopBits uint8

const (
	StopBits1    StopBits = 0b00
	StopBitsHalf StopBits = 0b01
	StopBits2    StopBits = 0b10
	StopBits1_5  StopBits = 0b11
)

type Oversampling uint8

const (
	Oversampling16 Oversampling = iota
	Oversampling8
)

type ClockPolarity uint8

const (
	IdleLow ClockPolarity = iota
	IdleHigh
)

type ClockPhase uint8

const (
	FirstEdge ClockPhase = iota
	SecondEdge
)

// Threshold is a FIFO or DMA fill level.
type Threshold uint8

const (
	ThresholdEighth Threshold = iota
	ThresholdQuarter
	ThresholdHalf
	ThresholdThreeQuarters
	ThresholdFull
)

type DMABurst uint8

const (
	BurstSingle DMABurst = iota
	Burst4
	Burst8
)

// DMAConfig tunes DMA transfers. It is validated and carried on the handle;
// the transfer paths that would use it are not implemented.
type DMAConfig struct {
	TXThreshold Threshold
	RXThreshold Threshold
	TXBurst     DMABurst
	RXBurst     DMABurst
}

// Config is the frame format and clocking of a serial device.
type Config struct {
	Baud                uint32
	WordLength          WordLength
	Parity              Parity
	StopBits            StopBits
	Oversampling        Oversampling
	ClockSource         rcc.Source
	HardwareFlowControl bool
	FIFO                bool
	DMA                 *DMAConfig
}

// DefaultConfig is 115200 8N1, 16x oversampling, clocked from PCLK.
func DefaultConfig() Config {
	return Config{
		Baud:         115200,
		WordLength:   WordLength8,
		Parity:       ParityNone,
		StopBits:     StopBits1,
		Oversampling: Oversampling16,
		ClockSource:  rcc.SourcePCLK,
	}
}

// SyncConfig selects the clock output used in synchronous mode.
type SyncConfig struct {
	Polarity          ClockPolarity
	Phase             ClockPhase
	LastBitClockPulse bool
}

func (s SyncConfig) valid() bool { return s.Polarity <= IdleHigh && s.Phase <= SecondEdge }

const (
	minBRR      = 16
	maxBRR      = 0xFFFF
	minLPBRR    = 0x300
	maxLPBRR    = 0xF_FFFF
	lpFreqRatio = 4096
)

// Validate checks cfg against dev and the clocks without touching any
// hardware. On success it returns the BRR value the device needs.
func (cfg Config) Validate(dev *Device, clk rcc.Clocks) (uint32, error) {
	const op = "uart.Validate"
	reject := func(c errcode.Code, msg string) (uint32, error) {
		return 0, &errcode.E{C: c, Op: op, Msg: dev.Name + ": " + msg}
	}
	if cfg.Baud == 0 {
		return reject(errcode.BaudNotSupported, "zero baud")
	}
	if cfg.Baud > dev.MaxBaud {
		return reject(errcode.BaudNotSupported, "above device maximum")
	}
	if cfg.WordLength > WordLength9 || cfg.Parity > ParityOdd || cfg.StopBits > StopBits1_5 ||
		cfg.Oversampling > Oversampling8 || !cfg.ClockSource.Valid() {
		return reject(errcode.InvalidConfiguration, "field out of range")
	}
	if dev.LowPower {
		if cfg.Oversampling != Oversampling16 {
			return reject(errcode.UnsupportedMode, "no 8x oversampling")
		}
		if cfg.StopBits == StopBitsHalf || cfg.StopBits == StopBits1_5 {
			return reject(errcode.UnsupportedMode, "fractional stop bits")
		}
	}
	if cfg.FIFO && !dev.Features.Has(FeatureFIFO) {
		return reject(errcode.FeatureNotSupported, "fifo")
	}
	if d := cfg.DMA; d != nil {
		if d.TXThreshold > ThresholdFull || d.RXThreshold > ThresholdFull || d.TXBurst > Burst8 || d.RXBurst > Burst8 {
			return reject(errcode.InvalidConfiguration, "dma field out of range")
		}
	}
	f := clk.Frequency(cfg.ClockSource, dev.APB2)
	if f == 0 {
		return reject(errcode.ClockError, "kernel clock "+cfg.ClockSource.String()+" not running")
	}
	brr, ok := divisor(dev, cfg, f)
	if !ok {
		return reject(errcode.BaudNotSupported, "unreachable from "+cfg.ClockSource.String())
	}
	return brr, nil
}

// divisor computes BRR for kernel clock f.
func divisor(dev *Device, cfg Config, f uint32) (uint32, bool) {
	if dev.LowPower {
		baud := uint64(cfg.Baud)
		if !mathx.Between(uint64(f), 3*baud, lpFreqRatio*baud) {
			return 0, false
		}
		brr := mathx.RoundDiv(uint64(f)*256, baud)
		return uint32(brr), mathx.Between(brr, minLPBRR, maxLPBRR)
	}
	if cfg.Oversampling == Oversampling8 {
		div := mathx.RoundDiv(2*uint64(f), uint64(cfg.Baud))
		if !mathx.Between(div, minBRR, maxBRR) {
			return 0, false
		}
		return uint32(div&^0xF | (div&0xF)>>1), true
	}
	div := mathx.RoundDiv(f, cfg.Baud)
	return div, mathx.Between(div, minBRR, maxBRR)
}
