package insts

import "strconv"

// RegClass identifies a register file and access width.
type RegClass uint8

// Register classes.
const (
	RegNone RegClass = iota
	RegW             // 32-bit general purpose, 31 is wzr
	RegX             // 64-bit general purpose, 31 is xzr
	RegWSP           // 32-bit stack pointer
	RegSP            // 64-bit stack pointer
	RegB             // 8-bit SIMD&FP scalar
	RegH             // 16-bit SIMD&FP scalar
	RegS             // 32-bit SIMD&FP scalar
	RegD             // 64-bit SIMD&FP scalar
	RegQ             // 128-bit SIMD&FP scalar
	RegV             // SIMD vector, with arrangement or element lane
)

// Arrangement is a vector arrangement specifier, or an element size when the
// register carries a lane index.
type Arrangement uint8

// Vector arrangements.
const (
	ArrNone Arrangement = iota
	Arr8B
	Arr16B
	Arr4H
	Arr8H
	Arr2S
	Arr4S
	Arr1D
	Arr2D
	ElemB
	ElemH
	ElemS
	ElemD
)

var arrangementNames = [...]string{
	ArrNone: "",
	Arr8B:   "8b",
	Arr16B:  "16b",
	Arr4H:   "4h",
	Arr8H:   "8h",
	Arr2S:   "2s",
	Arr4S:   "4s",
	Arr1D:   "1d",
	Arr2D:   "2d",
	ElemB:   "b",
	ElemH:   "h",
	ElemS:   "s",
	ElemD:   "d",
}

func (a Arrangement) String() string {
	if int(a) < len(arrangementNames) {
		return arrangementNames[a]
	}
	return "?"
}

// arrangementFor returns the vector arrangement for a size field and Q bit.
func arrangementFor(size uint32, q uint32) Arrangement {
	return Arr8B + Arrangement(size*2+q)
}

// elementFor returns the lane element kind for a size field.
func elementFor(size uint32) Arrangement {
	return ElemB + Arrangement(size)
}

// Reg names one architectural register as used by an operand.
type Reg struct {
	Class   RegClass
	Num     uint8
	Arr     Arrangement
	Lane    uint8
	HasLane bool
}

// IsValid reports whether r names a register.
func (r Reg) IsValid() bool {
	return r.Class != RegNone
}

var regPrefix = [...]string{
	RegNone: "",
	RegW:    "w",
	RegX:    "x",
	RegB:    "b",
	RegH:    "h",
	RegS:    "s",
	RegD:    "d",
	RegQ:    "q",
	RegV:    "v",
}

// String returns the assembler name of the register.
func (r Reg) String() string {
	switch r.Class {
	case RegNone:
		return ""
	case RegWSP:
		return "wsp"
	case RegSP:
		return "sp"
	case RegW:
		if r.Num == 31 {
			return "wzr"
		}
	case RegX:
		if r.Num == 31 {
			return "xzr"
		}
	case RegV:
		s := "v" + strconv.Itoa(int(r.Num))
		if r.Arr != ArrNone {
			s += "." + r.Arr.String()
		}
		if r.HasLane {
			s += "[" + strconv.Itoa(int(r.Lane)) + "]"
		}
		return s
	}
	return regPrefix[r.Class] + strconv.Itoa(int(r.Num))
}

// GPR returns a general purpose register where 31 means the zero register.
func GPR(num uint8, is64 bool) Reg {
	if is64 {
		return Reg{Class: RegX, Num: num & 0x1F}
	}
	return Reg{Class: RegW, Num: num & 0x1F}
}

// GPRSP returns a general purpose register where 31 means the stack pointer.
func GPRSP(num uint8, is64 bool) Reg {
	num &= 0x1F
	if num != 31 {
		return GPR(num, is64)
	}
	if is64 {
		return Reg{Class: RegSP, Num: 31}
	}
	return Reg{Class: RegWSP, Num: 31}
}

// FPReg returns a SIMD&FP scalar register of the given class.
func FPReg(class RegClass, num uint8) Reg {
	return Reg{Class: class, Num: num & 0x1F}
}

// VecReg returns a vector register with an arrangement.
func VecReg(num uint8, arr Arrangement) Reg {
	return Reg{Class: RegV, Num: num & 0x1F, Arr: arr}
}

// VecLane returns a vector element register such as v1.s[1].
func VecLane(num uint8, elem Arrangement, lane uint8) Reg {
	return Reg{Class: RegV, Num: num & 0x1F, Arr: elem, Lane: lane, HasLane: true}
}

// fpClassForType maps the FP ftype field to a scalar register class.
func fpClassForType(ftype uint32) (RegClass, bool) {
	switch ftype {
	case 0b00:
		return RegS, true
	case 0b01:
		return RegD, true
	case 0b11:
		return RegH, true
	}
	return RegNone, false
}
