package rcc

import (
	"testing"

	"nucleo-hal/hal/reg"
)

func TestEnableGPIOPreservesOtherBits(t *testing.T) {
	m := reg.NewMock()
	a := Base.Off(OffsetAHB2ENR)
	m.Poke(a, 0x0001_2000)
	EnableGPIO(m)
	if got := m.Peek(a); got != 0x0001_21FF {
		t.Fatalf("AHB2ENR = %#08x, want %#08x", got, 0x0001_21FF)
	}
	if m.Writes() != 1 {
		t.Fatalf("EnableGPIO made %d writes", m.Writes())
	}
}

func TestGateEnableDisable(t *testing.T) {
	m := reg.NewMock()
	g := Gate{Offset: OffsetAPB1ENR1, Bit: 17}
	a := Base.Off(OffsetAPB1ENR1)
	m.Poke(a, 0x0000_0041)

	Enable(m, g)
	if !Enabled(m, g) || m.Peek(a) != 0x0002_0041 {
		t.Fatalf("after Enable: %#08x", m.Peek(a))
	}
	Disable(m, g)
	if Enabled(m, g) || m.Peek(a) != 0x0000_0041 {
		t.Fatalf("after Disable: %#08x", m.Peek(a))
	}
}

func TestSelectSource(t *testing.T) {
	m := reg.NewMock()
	a := Base.Off(OffsetCCIPR)
	m.Poke(a, 0xFFFF_FFFF)
	SelectSource(m, 5, SourcePCLK)
	if got := m.Peek(a); got != 0xFFFF_F3FF {
		t.Fatalf("CCIPR = %#08x", got)
	}
	for src := SourcePCLK; src <= SourceLSE; src++ {
		SelectSource(m, 1, src)
		if SelectedSource(m, 1) != src {
			t.Fatalf("read back %v, want %v", SelectedSource(m, 1), src)
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatalf("invalid source accepted")
		}
	}()
	SelectSource(m, 0, Source(4))
}

func TestFrequency(t *testing.T) {
	c := Clocks{SYSCLK: 120_000_000, PCLK1: 60_000_000, PCLK2: 30_000_000}
	tests := []struct {
		src  Source
		apb2 bool
		want uint32
	}{
		{SourcePCLK, false, 60_000_000},
		{SourcePCLK, true, 30_000_000},
		{SourceSYSCLK, false, 120_000_000},
		{SourceHSI16, true, HSI16Hz},
		{SourceLSE, false, LSEHz},
		{Source(7), false, 0},
	}
	for _, tt := range tests {
		if got := c.Frequency(tt.src, tt.apb2); got != tt.want {
			t.Fatalf("Frequency(%v, %v) = %d, want %d", tt.src, tt.apb2, got, tt.want)
		}
	}
	if r := ResetClocks(); r.PCLK1 != MSIHz || r.SYSCLK != MSIHz {
		t.Fatalf("reset clocks = %+v", r)
	}
}
