package main

import (
	"errors"
	"testing"

	"github.com/eiannone/keyboard"
	"github.com/tarm/serial"

	"nucleo-hal/errcode"
	"nucleo-hal/hal/uart"
)

func TestFrameConfig(t *testing.T) {
	cfg, err := frameConfig(options{Plan: "vcp"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg != uart.DefaultConfig() {
		t.Fatalf("plain vcp plan = %+v", cfg)
	}
	cfg, err = frameConfig(options{Plan: "arduino", Baud: 9600, Bits: 7, Parity: "even", Stop: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Baud != 9600 || cfg.WordLength != uart.WordLength7 || cfg.Parity != uart.ParityEven || cfg.StopBits != uart.StopBits2 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}

	bad := []struct {
		o    options
		want errcode.Code
	}{
		{options{Plan: "spi"}, errcode.InvalidParams},
		{options{Plan: "vcp", Bits: 6}, errcode.InvalidConfiguration},
		{options{Plan: "vcp", Parity: "mark"}, errcode.InvalidConfiguration},
		{options{Plan: "vcp", Stop: "3"}, errcode.InvalidConfiguration},
		{options{Plan: "vcp", Baud: 921600}, errcode.BaudNotSupported},
		{options{Plan: "vcp", Stop: "1.5"}, errcode.UnsupportedMode}, // LPUART has no 1.5 stop bits
	}
	for _, tt := range bad {
		if _, err := frameConfig(tt.o); !errors.Is(err, tt.want) {
			t.Fatalf("%+v: got %v, want %s", tt.o, err, tt.want)
		}
	}
}

func TestPortConfig(t *testing.T) {
	cfg := uart.Config{Baud: 57600, WordLength: uart.WordLength7, Parity: uart.ParityOdd, StopBits: uart.StopBits1_5}
	pc, err := portConfig("/dev/ttyACM0", cfg, 0)
	if err != nil {
		t.Fatal(err)
	}
	if pc.Baud != 57600 || pc.Size != 7 || pc.Parity != serial.ParityOdd || pc.StopBits != serial.Stop1Half {
		t.Fatalf("port config = %+v", pc)
	}
	if _, err := portConfig("x", uart.Config{Baud: 9600, WordLength: uart.WordLength9}, 0); !errors.Is(err, errcode.UnsupportedMode) {
		t.Fatalf("9-bit frame = %v", err)
	}
	if _, err := portConfig("x", uart.Config{Baud: 9600, StopBits: uart.StopBitsHalf}, 0); !errors.Is(err, errcode.UnsupportedMode) {
		t.Fatalf("half stop bit = %v", err)
	}
}

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		ch   rune
		key  keyboard.Key
		want string
		quit bool
	}{
		{'a', 0, "a", false},
		{'é', 0, "é", false},
		{0, keyboard.KeyEnter, "\r", false},
		{0, keyboard.KeyArrowUp, "\x1b[A", false},
		{0, keyboard.KeyCtrlC, "\x03", false},
		{0, keyboard.KeyCtrlRsqBracket, "", true},
	}
	for _, tt := range tests {
		got, quit := keyBytes(tt.ch, tt.key)
		if string(got) != tt.want || quit != tt.quit {
			t.Fatalf("keyBytes(%q, %v) = %q, %v", tt.ch, tt.key, got, quit)
		}
	}
}
