//go:build !tinygo

package main

import (
	"time"

	"nucleo-hal/hal/gpio"
	"nucleo-hal/hal/reg"
)

// Host builds run against a simulated register file so the bring-up path
// can be exercised without a board.
var sim = func() *reg.Mock {
	m := reg.NewMock()
	gpio.Loopback(m)
	return m
}()

func platformRegs() reg.File { return sim }

// ticks stops the host simulation after a few blinks.
func ticks(c <-chan time.Time) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		for i := 0; i < 6; i++ {
			out <- <-c
		}
	}()
	return out
}
