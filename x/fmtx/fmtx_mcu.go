//go:build tinygo

package fmtx

import (
	"io"

	"nucleo-hal/x/conv"
)

func Sprintf(format string, a ...any) string {
	var b builder
	b.format(format, a)
	return string(b.buf)
}

func Printf(format string, a ...any) (int, error) { return Fprintf(DefaultOutput, format, a...) }

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	var b builder
	b.format(format, a)
	return w.Write(b.buf)
}

func Errorf(format string, a ...any) error { return stringError(Sprintf(format, a...)) }

func Sprint(a ...any) string {
	var b builder
	b.list(a)
	return string(b.buf)
}

func Fprint(w io.Writer, a ...any) (int, error) {
	var b builder
	b.list(a)
	return w.Write(b.buf)
}

func Print(a ...any) (int, error) { return Fprint(DefaultOutput, a...) }

type stringError string

func (e stringError) Error() string { return string(e) }

// builder supports %s %q %d %x %X %v %t %% with an optional zero flag and
// width, enough for register dumps like %08x.
type builder struct {
	buf     []byte
	scratch [24]byte
}

func (b *builder) list(a []any) {
	for i, v := range a {
		if i > 0 {
			b.buf = append(b.buf, ' ')
		}
		b.value(v, 'v')
	}
}

func (b *builder) format(f string, args []any) {
	ai := 0
	for i := 0; i < len(f); i++ {
		c := f[i]
		if c != '%' {
			b.buf = append(b.buf, c)
			continue
		}
		i++
		if i < len(f) && f[i] == '%' {
			b.buf = append(b.buf, '%')
			continue
		}
		zero := i < len(f) && f[i] == '0'
		width, prec := 0, -1
		for i < len(f) && f[i] >= '0' && f[i] <= '9' {
			width = width*10 + int(f[i]-'0')
			i++
		}
		if i < len(f) && f[i] == '.' {
			prec = 0
			for i++; i < len(f) && f[i] >= '0' && f[i] <= '9'; i++ {
				prec = prec*10 + int(f[i]-'0')
			}
		}
		if i >= len(f) || ai >= len(args) {
			return
		}
		start := len(b.buf)
		verb := f[i]
		arg := args[ai]
		ai++
		if s, ok := arg.(string); ok && prec >= 0 && prec < len(s) && (verb == 's' || verb == 'v') {
			arg = s[:prec]
		}
		b.value(arg, verb)
		b.pad(start, width, zero)
	}
}

// pad right-aligns the text written since start to width.
func (b *builder) pad(start, width int, zero bool) {
	n := len(b.buf) - start
	if n >= width {
		return
	}
	fill := byte(' ')
	if zero {
		fill = '0'
	}
	for i := n; i < width; i++ {
		b.buf = append(b.buf, 0)
	}
	copy(b.buf[start+width-n:], b.buf[start:start+n])
	for i := start; i < start+width-n; i++ {
		b.buf[i] = fill
	}
}

func (b *builder) value(v any, verb byte) {
	switch x := v.(type) {
	case string:
		b.str(x, verb)
	case []byte:
		b.str(string(x), verb)
	case bool:
		if x {
			b.buf = append(b.buf, "true"...)
		} else {
			b.buf = append(b.buf, "false"...)
		}
	case error:
		b.str(x.Error(), verb)
	case interface{ String() string }:
		b.str(x.String(), verb)
	default:
		u, neg, ok := integer(v)
		if !ok {
			b.buf = append(b.buf, "<?>"...)
			return
		}
		switch verb {
		case 'x', 'X':
			b.hex(u, verb == 'X')
		default:
			if neg {
				b.buf = append(b.buf, '-')
			}
			b.buf = append(b.buf, conv.Utoa(b.scratch[:], u)...)
		}
	}
}

func (b *builder) str(s string, verb byte) {
	if verb != 'q' {
		b.buf = append(b.buf, s...)
		return
	}
	b.buf = append(b.buf, '"')
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"':
			b.buf = append(b.buf, '\\', s[i])
		case '\n':
			b.buf = append(b.buf, '\\', 'n')
		case '\r':
			b.buf = append(b.buf, '\\', 'r')
		case '\t':
			b.buf = append(b.buf, '\\', 't')
		default:
			b.buf = append(b.buf, s[i])
		}
	}
	b.buf = append(b.buf, '"')
}

func (b *builder) hex(u uint64, upper bool) {
	start := len(b.buf)
	b.buf = append(b.buf, conv.Hex(b.scratch[:], u, 0)...)
	if upper {
		for i := start; i < len(b.buf); i++ {
			if c := b.buf[i]; c >= 'a' && c <= 'f' {
				b.buf[i] = c - ('a' - 'A')
			}
		}
	}
}

// integer returns the magnitude and sign of any built-in integer type.
func integer(v any) (u uint64, neg bool, ok bool) {
	var s int64
	switch x := v.(type) {
	case int:
		s = int64(x)
	case int8:
		s = int64(x)
	case int16:
		s = int64(x)
	case int32:
		s = int64(x)
	case int64:
		s = x
	case uint:
		return uint64(x), false, true
	case uint8:
		return uint64(x), false, true
	case uint16:
		return uint64(x), false, true
	case uint32:
		return uint64(x), false, true
	case uint64:
		return x, false, true
	case uintptr:
		return uint64(x), false, true
	default:
		return 0, false, false
	}
	if s < 0 {
		return uint64(-s), true, true
	}
	return uint64(s), false, true
}
