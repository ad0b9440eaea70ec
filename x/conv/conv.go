// Package conv formats integers into caller-provided buffers without
// allocating, for code that runs before or without fmt.
package conv

// Utoa writes n in base 10 at the end of buf and returns the written tail.
// A uint64 needs at most 20 bytes; a short buf keeps the low digits.
func Utoa(buf []byte, n uint64) []byte {
	i := len(buf)
	if i == 0 {
		return buf
	}
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 || i == 0 {
			break
		}
	}
	return buf[i:]
}

const hexDigits = "0123456789abcdef"

// Hex writes n in lower-case base 16 at the end of buf, padded with zeros
// to at least width digits, and returns the written tail.
func Hex(buf []byte, n uint64, width int) []byte {
	i := len(buf)
	for i > 0 && (n != 0 || len(buf)-i < width || i == len(buf)) {
		i--
		buf[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return buf[i:]
}
