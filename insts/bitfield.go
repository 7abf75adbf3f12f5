package insts

// Field is a contiguous bit range inside an instruction word.
type Field struct {
	Pos   uint8 // lowest bit of the range
	Width uint8 // number of bits
}

// Bits returns the unsigned value of word[pos+width-1:pos].
func Bits(word uint32, pos, width uint) uint32 {
	if width >= 32 {
		return word >> pos
	}
	return (word >> pos) & (1<<width - 1)
}

// Bit returns bit pos of word.
func Bit(word uint32, pos uint) uint32 {
	return (word >> pos) & 1
}

// SignedBits returns word[pos+width-1:pos] sign-extended from width bits.
func SignedBits(word uint32, pos, width uint) int64 {
	return SignExtend(uint64(Bits(word, pos, width)), width)
}

// SignExtend interprets the low width bits of v as a two's complement value.
func SignExtend(v uint64, width uint) int64 {
	shift := 64 - width
	return int64(v<<shift) >> shift
}

// Concat joins split fields into one value. The first field supplies the
// most significant bits.
func Concat(word uint32, fields ...Field) uint32 {
	var v uint32
	for _, f := range fields {
		v = v<<f.Width | Bits(word, uint(f.Pos), uint(f.Width))
	}
	return v
}

// Ones returns a value with the low n bits set.
func Ones(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<n - 1
}

// RotateRight rotates the low width bits of v right by amount.
func RotateRight(v uint64, amount, width uint) uint64 {
	amount %= width
	mask := Ones(width)
	v &= mask
	if amount == 0 {
		return v
	}
	return (v>>amount | v<<(width-amount)) & mask
}

// Replicate repeats the low esize bits of v until width bits are filled.
func Replicate(v uint64, esize, width uint) uint64 {
	v &= Ones(esize)
	var out uint64
	for i := uint(0); i < width; i += esize {
		out |= v << i
	}
	return out
}

// highestSetBit returns the index of the highest set bit in the low width
// bits of v, or -1 when none is set.
func highestSetBit(v uint64, width uint) int {
	for i := int(width) - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

// Common register fields.
func rd(word uint32) uint8 { return uint8(word & 0x1F) }
func rn(word uint32) uint8 { return uint8((word >> 5) & 0x1F) }
func rm(word uint32) uint8 { return uint8((word >> 16) & 0x1F) }
func ra(word uint32) uint8 { return uint8((word >> 10) & 0x1F) }
