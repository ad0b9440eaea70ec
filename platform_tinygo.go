//go:build tinygo

package main

import (
	"time"

	"nucleo-hal/hal/reg"
)

func platformRegs() reg.File { return reg.MMIO{} }

func ticks(c <-chan time.Time) <-chan time.Time { return c }
