package reg

// Mask returns the bits of the index-th field of the given width:
// ((1<<width)-1) << (width*index).
func Mask(width, index uint8) uint32 {
	return fieldOnes(width) << (uint32(width) * uint32(index))
}

// Value places pattern in the index-th field of the given width. Bits of
// pattern beyond width are dropped.
func Value(pattern uint32, width, index uint8) uint32 {
	return (pattern & fieldOnes(width)) << (uint32(width) * uint32(index))
}

// Extract reads the index-th field of the given width out of v.
func Extract(v uint32, width, index uint8) uint32 {
	return (v >> (uint32(width) * uint32(index))) & fieldOnes(width)
}

// WriteField performs a masked RMW of one field in a.
func WriteField(f File, a Addr, width, index uint8, pattern uint32) {
	Modify(f, a, Mask(width, index), Value(pattern, width, index))
}

// ReadField loads a and extracts one field.
func ReadField(f File, a Addr, width, index uint8) uint32 {
	return Extract(f.Load(a), width, index)
}

func fieldOnes(width uint8) uint32 {
	if width >= 32 {
		return 0xFFFF_FFFF
	}
	return 1<<width - 1
}
