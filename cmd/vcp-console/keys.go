package main

import (
	"io"

	"github.com/eiannone/keyboard"
)

// keyBytes translates one keypress into what a VT100 terminal would send.
// quit is set for Ctrl-], the escape key of the session.
func keyBytes(ch rune, key keyboard.Key) (out []byte, quit bool) {
	switch key {
	case keyboard.KeyCtrlRsqBracket:
		return nil, true
	case keyboard.KeyEnter:
		return []byte{'\r'}, false
	case keyboard.KeySpace:
		return []byte{' '}, false
	case keyboard.KeyArrowUp:
		return []byte("\x1b[A"), false
	case keyboard.KeyArrowDown:
		return []byte("\x1b[B"), false
	case keyboard.KeyArrowRight:
		return []byte("\x1b[C"), false
	case keyboard.KeyArrowLeft:
		return []byte("\x1b[D"), false
	case keyboard.KeyHome:
		return []byte("\x1b[H"), false
	case keyboard.KeyEnd:
		return []byte("\x1b[F"), false
	case keyboard.KeyDelete:
		return []byte("\x1b[3~"), false
	}
	if ch != 0 {
		return []byte(string(ch)), false
	}
	if key < 0x80 {
		// Control keys carry their ASCII code.
		return []byte{byte(key)}, false
	}
	return nil, false
}

// pumpKeys forwards keypresses to w until Ctrl-] or a read error.
func pumpKeys(w io.Writer) error {
	if err := keyboard.Open(); err != nil {
		return err
	}
	defer keyboard.Close()
	for {
		ch, key, err := keyboard.GetKey()
		if err != nil {
			return err
		}
		b, quit := keyBytes(ch, key)
		if quit {
			return nil
		}
		if len(b) == 0 {
			continue
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
}
