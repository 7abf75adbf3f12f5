package insts

// OperandClass is the discriminant of an operand.
type OperandClass uint8

// Operand classes.
const (
	ClassNone OperandClass = iota
	ClassImm32
	ClassImm64
	ClassFImm32
	ClassStrImm
	ClassReg
	ClassMultiReg
	ClassSysReg
	ClassMemReg
	ClassMemPreIdx
	ClassMemPostIdx
	ClassMemOffset
	ClassMemExtended
	ClassLabel
	ClassCondition
	ClassName
	ClassImplSpecific
)

var operandClassNames = [...]string{
	ClassNone:         "NONE",
	ClassImm32:        "IMM32",
	ClassImm64:        "IMM64",
	ClassFImm32:       "FIMM32",
	ClassStrImm:       "STR_IMM",
	ClassReg:          "REG",
	ClassMultiReg:     "MULTI_REG",
	ClassSysReg:       "SYS_REG",
	ClassMemReg:       "MEM_REG",
	ClassMemPreIdx:    "MEM_PRE_IDX",
	ClassMemPostIdx:   "MEM_POST_IDX",
	ClassMemOffset:    "MEM_OFFSET",
	ClassMemExtended:  "MEM_EXTENDED",
	ClassLabel:        "LABEL",
	ClassCondition:    "CONDITION",
	ClassName:         "NAME",
	ClassImplSpecific: "IMPLEMENTATION_SPECIFIC",
}

func (c OperandClass) String() string {
	if int(c) < len(operandClassNames) {
		return operandClassNames[c]
	}
	return "ERROR"
}

// Operand is one argument of a decoded instruction. The concrete type
// determines which fields exist; the set of implementations is closed.
type Operand interface {
	Class() OperandClass
	isOperand()
}

// ShiftType is a shift or extend applied to a register or immediate.
type ShiftType uint8

// Shift and extend kinds.
const (
	ShiftNone ShiftType = iota
	ShiftLSL
	ShiftLSR
	ShiftASR
	ShiftROR
	ShiftMSL
	ExtendUXTB
	ExtendUXTH
	ExtendUXTW
	ExtendUXTX
	ExtendSXTB
	ExtendSXTH
	ExtendSXTW
	ExtendSXTX
)

var shiftNames = [...]string{
	ShiftNone:  "",
	ShiftLSL:   "lsl",
	ShiftLSR:   "lsr",
	ShiftASR:   "asr",
	ShiftROR:   "ror",
	ShiftMSL:   "msl",
	ExtendUXTB: "uxtb",
	ExtendUXTH: "uxth",
	ExtendUXTW: "uxtw",
	ExtendUXTX: "uxtx",
	ExtendSXTB: "sxtb",
	ExtendSXTH: "sxth",
	ExtendSXTW: "sxtw",
	ExtendSXTX: "sxtx",
}

func (s ShiftType) String() string {
	if int(s) < len(shiftNames) {
		return shiftNames[s]
	}
	return "?"
}

// IsExtend reports whether s is one of the register extend kinds.
func (s ShiftType) IsExtend() bool {
	return s >= ExtendUXTB
}

// Shift is a shift or extend with its amount. Explicit forces the amount to
// be printed even when it is zero.
type Shift struct {
	Type     ShiftType
	Amount   uint8
	Explicit bool
}

// decodeShift maps the two-bit shift field of shifted-register forms.
func decodeShift(field uint32) ShiftType {
	return ShiftLSL + ShiftType(field&3)
}

// decodeExtend maps the three-bit option field of extended-register forms.
func decodeExtend(option uint32) ShiftType {
	return ExtendUXTB + ShiftType(option&7)
}

// RegOperand is a register, optionally shifted or extended.
type RegOperand struct {
	Reg   Reg
	Shift Shift
}

// MultiRegOperand is an explicit list of up to four registers.
type MultiRegOperand struct {
	Regs  [4]Reg
	Count uint8
}

// SysRegOperand is a system register.
type SysRegOperand struct {
	Reg SysReg
}

// Imm32Operand is an immediate of at most 32 bits, optionally shifted.
type Imm32Operand struct {
	Value  uint32
	Signed bool
	Shift  Shift
}

// Imm64Operand is a 64-bit immediate.
type Imm64Operand struct {
	Value  uint64
	Signed bool
}

// FImm32Operand is a floating point immediate.
type FImm32Operand struct {
	Value float32
}

// StrImmOperand is an immediate with a symbolic spelling, such as a barrier
// option or a prefetch operation.
type StrImmOperand struct {
	Name  string
	Value uint32
}

// MemRegOperand is [base].
type MemRegOperand struct {
	Base Reg
}

// MemPreIdxOperand is [base, #offset]!.
type MemPreIdxOperand struct {
	Base   Reg
	Offset int64
}

// MemPostIdxOperand is [base], #offset or [base], index.
type MemPostIdxOperand struct {
	Base   Reg
	Offset int64
	Index  Reg
}

// MemOffsetOperand is [base, #offset].
type MemOffsetOperand struct {
	Base   Reg
	Offset int64
}

// MemExtendedOperand is [base, index{, extend {#amount}}].
type MemExtendedOperand struct {
	Base  Reg
	Index Reg
	Shift Shift
}

// LabelOperand is a PC-relative target. Page targets are relative to the
// 4KB page holding the instruction.
type LabelOperand struct {
	Offset int64
	Page   bool
}

// Target resolves the label against the instruction address.
func (l LabelOperand) Target(addr uint64) uint64 {
	if l.Page {
		addr &^= 0xFFF
	}
	return addr + uint64(l.Offset)
}

// CondOperand is a condition code.
type CondOperand struct {
	Cond Cond
}

// NameOperand is a bare symbolic name.
type NameOperand struct {
	Name string
}

// ImplSpecificOperand carries a raw payload for operand shapes that are
// implementation defined. The payload of a system register access is its
// 16-bit op0:op1:CRn:CRm:op2 encoding.
type ImplSpecificOperand struct {
	Payload uint32
}

func (RegOperand) Class() OperandClass          { return ClassReg }
func (MultiRegOperand) Class() OperandClass     { return ClassMultiReg }
func (SysRegOperand) Class() OperandClass       { return ClassSysReg }
func (Imm32Operand) Class() OperandClass        { return ClassImm32 }
func (Imm64Operand) Class() OperandClass        { return ClassImm64 }
func (FImm32Operand) Class() OperandClass       { return ClassFImm32 }
func (StrImmOperand) Class() OperandClass       { return ClassStrImm }
func (MemRegOperand) Class() OperandClass       { return ClassMemReg }
func (MemPreIdxOperand) Class() OperandClass    { return ClassMemPreIdx }
func (MemPostIdxOperand) Class() OperandClass   { return ClassMemPostIdx }
func (MemOffsetOperand) Class() OperandClass    { return ClassMemOffset }
func (MemExtendedOperand) Class() OperandClass  { return ClassMemExtended }
func (LabelOperand) Class() OperandClass        { return ClassLabel }
func (CondOperand) Class() OperandClass         { return ClassCondition }
func (NameOperand) Class() OperandClass         { return ClassName }
func (ImplSpecificOperand) Class() OperandClass { return ClassImplSpecific }

func (RegOperand) isOperand()          {}
func (MultiRegOperand) isOperand()     {}
func (SysRegOperand) isOperand()       {}
func (Imm32Operand) isOperand()        {}
func (Imm64Operand) isOperand()        {}
func (FImm32Operand) isOperand()       {}
func (StrImmOperand) isOperand()       {}
func (MemRegOperand) isOperand()       {}
func (MemPreIdxOperand) isOperand()    {}
func (MemPostIdxOperand) isOperand()   {}
func (MemOffsetOperand) isOperand()    {}
func (MemExtendedOperand) isOperand()  {}
func (LabelOperand) isOperand()        {}
func (CondOperand) isOperand()         {}
func (NameOperand) isOperand()         {}
func (ImplSpecificOperand) isOperand() {}

// MaxOperands bounds the operand count of any single instruction.
const MaxOperands = 5

// Operands is a bounded operand list that carries its own length.
type Operands struct {
	list [MaxOperands]Operand
	n    uint8
}

// Len returns the number of operands.
func (o Operands) Len() int {
	return int(o.n)
}

// At returns operand i. It returns nil when i is out of range.
func (o Operands) At(i int) Operand {
	if i < 0 || i >= int(o.n) {
		return nil
	}
	return o.list[i]
}

// Class returns the class of operand i, or ClassNone past the end.
func (o Operands) Class(i int) OperandClass {
	if op := o.At(i); op != nil {
		return op.Class()
	}
	return ClassNone
}

// Slice returns a copy of the operands as a slice.
func (o Operands) Slice() []Operand {
	out := make([]Operand, o.n)
	copy(out, o.list[:o.n])
	return out
}

// Add appends operands. Exceeding MaxOperands is a decoder bug.
func (o *Operands) Add(ops ...Operand) {
	for _, op := range ops {
		if int(o.n) == MaxOperands {
			panic("insts: operand list overflow")
		}
		o.list[o.n] = op
		o.n++
	}
}

// Reset empties the list.
func (o *Operands) Reset() {
	*o = Operands{}
}

// Small constructors used by the operand builders.

func regOp(r Reg) RegOperand { return RegOperand{Reg: r} }

func shiftedReg(r Reg, t ShiftType, amount uint8) RegOperand {
	return RegOperand{Reg: r, Shift: Shift{Type: t, Amount: amount}}
}

func imm(v uint32) Imm32Operand { return Imm32Operand{Value: v} }

func imm64(v uint64) Imm64Operand { return Imm64Operand{Value: v} }

func label(offset int64) LabelOperand { return LabelOperand{Offset: offset} }

func cond(c uint32) CondOperand { return CondOperand{Cond: Cond(c & 0xF)} }

// memImm picks the plain register form when there is no offset.
func memImm(base Reg, offset int64) Operand {
	if offset == 0 {
		return MemRegOperand{Base: base}
	}
	return MemOffsetOperand{Base: base, Offset: offset}
}
