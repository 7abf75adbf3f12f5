package insts

import "math"

// DecodeBitMasks expands the (N, imms, immr) triple of a logical immediate
// into its datasize-bit value. ok is false for reserved patterns.
func DecodeBitMasks(n, imms, immr uint32, is64 bool) (value uint64, ok bool) {
	datasize := uint(32)
	if is64 {
		datasize = 64
	}

	length := highestSetBit(uint64(n<<6|(^imms&0x3F)), 7)
	if length < 1 {
		return 0, false
	}
	esize := uint(1) << uint(length)
	if esize > datasize {
		return 0, false
	}

	levels := uint32(Ones(uint(length)))
	s := imms & levels
	r := immr & levels
	if s == levels {
		return 0, false
	}

	welem := Ones(uint(s) + 1)
	elem := RotateRight(welem, uint(r), esize)
	return Replicate(elem, esize, datasize), true
}

// moveWidePreferred reports whether a bitmask immediate is also expressible
// by MOVZ or MOVN, in which case ORR is not shown as MOV.
func moveWidePreferred(sf, n, imms, immr uint32) bool {
	width := uint32(32)
	if sf == 1 {
		width = 64
		if n != 1 {
			return false
		}
	} else if n != 0 || imms&0x20 != 0 {
		return false
	}

	if imms < 16 {
		return (16-immr%16)%16 <= 15-imms
	}
	if imms >= width-15 {
		return immr%16 <= imms-(width-15)
	}
	return false
}

// VFPExpandImm expands the 8-bit floating point immediate encoding.
func VFPExpandImm(imm8 uint32) float32 {
	sign := (imm8 >> 7) & 1
	b6 := (imm8 >> 6) & 1
	exp := (b6^1)<<7 | (b6*0x1F)<<2 | (imm8>>4)&3
	frac := imm8 & 0xF
	return math.Float32frombits(sign<<31 | exp<<23 | frac<<19)
}

// expandSIMDImm64 expands the AdvSIMD 64-bit byte mask immediate, where
// each bit of imm8 selects an all-ones or all-zeros byte.
func expandSIMDImm64(imm8 uint32) uint64 {
	var v uint64
	for i := uint(0); i < 8; i++ {
		if imm8&(1<<i) != 0 {
			v |= 0xFF << (8 * i)
		}
	}
	return v
}
