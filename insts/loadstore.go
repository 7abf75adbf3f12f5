package insts

// lsForm is one size:V:opc row of the single-register load/store table.
type lsForm struct {
	op    Op
	class RegClass // RegNone for prefetch
	scale uint
}

// loadStoreForm looks up the operation, register class and offset scale of
// the single register load/store forms.
func loadStoreForm(size, v, opc uint32) (lsForm, error) {
	if v == 1 {
		switch {
		case opc&2 == 0:
			op := OpSTR
			if opc == 1 {
				op = OpLDR
			}
			return lsForm{op, RegB + RegClass(size), uint(size)}, nil
		case size == 0:
			op := OpSTR
			if opc == 0b11 {
				op = OpLDR
			}
			return lsForm{op, RegQ, 4}, nil
		}
		return lsForm{}, ErrUnallocated
	}

	scale := uint(size)
	switch size<<2 | opc {
	case 0b00_00:
		return lsForm{OpSTRB, RegW, scale}, nil
	case 0b00_01:
		return lsForm{OpLDRB, RegW, scale}, nil
	case 0b00_10:
		return lsForm{OpLDRSB, RegX, scale}, nil
	case 0b00_11:
		return lsForm{OpLDRSB, RegW, scale}, nil
	case 0b01_00:
		return lsForm{OpSTRH, RegW, scale}, nil
	case 0b01_01:
		return lsForm{OpLDRH, RegW, scale}, nil
	case 0b01_10:
		return lsForm{OpLDRSH, RegX, scale}, nil
	case 0b01_11:
		return lsForm{OpLDRSH, RegW, scale}, nil
	case 0b10_00:
		return lsForm{OpSTR, RegW, scale}, nil
	case 0b10_01:
		return lsForm{OpLDR, RegW, scale}, nil
	case 0b10_10:
		return lsForm{OpLDRSW, RegX, scale}, nil
	case 0b11_00:
		return lsForm{OpSTR, RegX, scale}, nil
	case 0b11_01:
		return lsForm{OpLDR, RegX, scale}, nil
	case 0b11_10:
		return lsForm{OpPRFM, RegNone, scale}, nil
	}
	return lsForm{}, ErrUnallocated
}

var unscaledOps = map[Op]Op{
	OpSTRB:  OpSTURB,
	OpLDRB:  OpLDURB,
	OpLDRSB: OpLDURSB,
	OpSTRH:  OpSTURH,
	OpLDRH:  OpLDURH,
	OpLDRSH: OpLDURSH,
	OpSTR:   OpSTUR,
	OpLDR:   OpLDUR,
	OpLDRSW: OpLDURSW,
	OpPRFM:  OpPRFUM,
}

var unprivilegedOps = map[Op]Op{
	OpSTRB:  OpSTTRB,
	OpLDRB:  OpLDTRB,
	OpLDRSB: OpLDTRSB,
	OpSTRH:  OpSTTRH,
	OpLDRH:  OpLDTRH,
	OpLDRSH: OpLDTRSH,
	OpSTR:   OpSTTR,
	OpLDR:   OpLDTR,
	OpLDRSW: OpLDTRSW,
}

var (
	prefetchTypes   = [4]string{"pld", "pli", "pst", ""}
	prefetchTargets = [4]string{"l1", "l2", "l3", ""}
	prefetchPolicy  = [2]string{"keep", "strm"}
)

// prefetchOp names the prfop field, or falls back to its number.
func prefetchOp(t uint8) Operand {
	typ := prefetchTypes[(t>>3)&3]
	target := prefetchTargets[(t>>1)&3]
	if typ == "" || target == "" {
		return imm(uint32(t))
	}
	return StrImmOperand{Name: typ + target + prefetchPolicy[t&1], Value: uint32(t)}
}

// transferOperand returns the register or prefetch operation transferred.
func (f lsForm) transferOperand(t uint8) Operand {
	switch f.class {
	case RegNone:
		return prefetchOp(t)
	case RegW, RegX:
		return regOp(GPR(t, f.class == RegX))
	}
	return regOp(FPReg(f.class, t))
}

func loadStoreFields(word uint32) (size, v, opc uint32) {
	return Bits(word, 30, 2), Bit(word, 26), Bits(word, 22, 2)
}

func baseReg(word uint32) Reg {
	return GPRSP(rn(word), true)
}

// decodeLoadStoreUImm decodes loads and stores with a scaled unsigned
// 12-bit offset.
// Format: size | 111 | V | 01 | opc | imm12 | Rn | Rt
func decodeLoadStoreUImm(word uint32, inst *Instruction) error {
	form, err := loadStoreForm(loadStoreFields(word))
	if err != nil {
		return err
	}

	offset := int64(Bits(word, 10, 12)) << form.scale
	inst.Op = form.op
	inst.add(form.transferOperand(rd(word)), memImm(baseReg(word), offset))
	return nil
}

// decodeLoadStoreImm9 decodes the unscaled, post-indexed, unprivileged and
// pre-indexed forms with a signed 9-bit offset.
// Format: size | 111 | V | 00 | opc | 0 | imm9 | idx | Rn | Rt
func decodeLoadStoreImm9(word uint32, inst *Instruction) error {
	size, v, opc := loadStoreFields(word)
	form, err := loadStoreForm(size, v, opc)
	if err != nil {
		return err
	}

	offset := SignedBits(word, 12, 9)
	base := baseReg(word)
	var mem Operand

	switch Bits(word, 10, 2) {
	case 0b00:
		inst.Op = unscaledOps[form.op]
		mem = memImm(base, offset)
	case 0b01:
		if form.class == RegNone {
			return ErrUnallocated
		}
		inst.Op = form.op
		mem = MemPostIdxOperand{Base: base, Offset: offset}
	case 0b10:
		op, ok := unprivilegedOps[form.op]
		if !ok || v == 1 {
			return ErrUnallocated
		}
		inst.Op = op
		mem = memImm(base, offset)
	case 0b11:
		if form.class == RegNone {
			return ErrUnallocated
		}
		inst.Op = form.op
		mem = MemPreIdxOperand{Base: base, Offset: offset}
	}

	inst.add(form.transferOperand(rd(word)), mem)
	return nil
}

// decodeLoadStoreRegOffset decodes loads and stores with a register offset.
// Format: size | 111 | V | 00 | opc | 1 | Rm | option | S | 10 | Rn | Rt
func decodeLoadStoreRegOffset(word uint32, inst *Instruction) error {
	form, err := loadStoreForm(loadStoreFields(word))
	if err != nil {
		return err
	}

	option := Bits(word, 13, 3)
	if option&0b010 == 0 {
		return ErrReserved
	}
	scaled := Bit(word, 12) == 1

	var amount uint8
	if scaled {
		amount = uint8(form.scale)
	}

	var shift Shift
	if option == 0b011 {
		if scaled {
			shift = Shift{Type: ShiftLSL, Amount: amount, Explicit: true}
		}
	} else {
		shift = Shift{Type: decodeExtend(option), Amount: amount, Explicit: scaled}
	}

	inst.Op = form.op
	inst.add(form.transferOperand(rd(word)), MemExtendedOperand{
		Base:  baseReg(word),
		Index: GPR(rm(word), option&1 == 1),
		Shift: shift,
	})
	return nil
}

// decodeLoadLiteral decodes PC-relative literal loads.
// Format: opc | 011 | V | 00 | imm19 | Rt
func decodeLoadLiteral(word uint32, inst *Instruction) error {
	opc := Bits(word, 30, 2)
	t := rd(word)
	target := label(SignedBits(word, 5, 19) * 4)

	if Bit(word, 26) == 1 {
		classes := [3]RegClass{RegS, RegD, RegQ}
		if opc == 0b11 {
			return ErrUnallocated
		}
		inst.Op = OpLDR
		inst.add(regOp(FPReg(classes[opc], t)), target)
		return nil
	}

	switch opc {
	case 0b00:
		inst.Op = OpLDR
		inst.add(regOp(GPR(t, false)), target)
	case 0b01:
		inst.Op = OpLDR
		inst.add(regOp(GPR(t, true)), target)
	case 0b10:
		inst.Op = OpLDRSW
		inst.add(regOp(GPR(t, true)), target)
	case 0b11:
		inst.Op = OpPRFM
		inst.add(prefetchOp(t), target)
	}
	return nil
}

// decodeLoadStorePair decodes LDP, STP, LDPSW, LDNP and STNP in all
// addressing modes.
// Format: opc | 101 | V | 0 | idx | L | imm7 | Rt2 | Rn | Rt
func decodeLoadStorePair(word uint32, inst *Instruction) error {
	opc := Bits(word, 30, 2)
	v := Bit(word, 26)
	idx := Bits(word, 23, 2)
	load := Bit(word, 22) == 1

	var class RegClass
	var scale uint
	signed := false

	if v == 1 {
		switch opc {
		case 0b00:
			class, scale = RegS, 2
		case 0b01:
			class, scale = RegD, 3
		case 0b10:
			class, scale = RegQ, 4
		default:
			return ErrUnallocated
		}
	} else {
		switch opc {
		case 0b00:
			class, scale = RegW, 2
		case 0b01:
			if !load || idx == 0b00 {
				return ErrUnallocated
			}
			class, scale, signed = RegX, 2, true
		case 0b10:
			class, scale = RegX, 3
		default:
			return ErrUnallocated
		}
	}

	switch {
	case signed:
		inst.Op = OpLDPSW
	case idx == 0b00 && load:
		inst.Op = OpLDNP
	case idx == 0b00:
		inst.Op = OpSTNP
	case load:
		inst.Op = OpLDP
	default:
		inst.Op = OpSTP
	}

	reg := func(num uint8) Operand {
		if class == RegW || class == RegX {
			return regOp(GPR(num, class == RegX))
		}
		return regOp(FPReg(class, num))
	}

	offset := SignedBits(word, 15, 7) << scale
	base := baseReg(word)

	var mem Operand
	switch idx {
	case 0b01:
		mem = MemPostIdxOperand{Base: base, Offset: offset}
	case 0b11:
		mem = MemPreIdxOperand{Base: base, Offset: offset}
	default:
		mem = memImm(base, offset)
	}

	inst.add(reg(rd(word)), reg(ra(word)), mem)
	return nil
}

// exclusiveOps is indexed by o2:L:o0, then by size.
var exclusiveOps = [8][4]Op{
	0b000: {OpSTXRB, OpSTXRH, OpSTXR, OpSTXR},
	0b001: {OpSTLXRB, OpSTLXRH, OpSTLXR, OpSTLXR},
	0b010: {OpLDXRB, OpLDXRH, OpLDXR, OpLDXR},
	0b011: {OpLDAXRB, OpLDAXRH, OpLDAXR, OpLDAXR},
	0b101: {OpSTLRB, OpSTLRH, OpSTLR, OpSTLR},
	0b111: {OpLDARB, OpLDARH, OpLDAR, OpLDAR},
}

// decodeLoadStoreExclusive decodes the exclusive and acquire/release
// single register forms.
// Format: size | 001000 | o2 | L | o1 | Rs | o0 | Rt2 | Rn | Rt
func decodeLoadStoreExclusive(word uint32, inst *Instruction) error {
	size := Bits(word, 30, 2)
	o2 := Bit(word, 23)
	load := Bit(word, 22)
	o0 := Bit(word, 15)

	if Bit(word, 21) == 1 {
		return ErrUnallocated
	}
	op := exclusiveOps[o2<<2|load<<1|o0][size]
	if op == OpUnknown {
		return ErrUnallocated
	}

	inst.Op = op
	if o2 == 0 && load == 0 {
		inst.add(regOp(GPR(rm(word), false)))
	}
	inst.add(regOp(GPR(rd(word), size == 0b11)), MemRegOperand{Base: baseReg(word)})
	return nil
}

type structForm struct {
	regs  uint8
	selem uint8
}

// structForms is keyed by the opcode field of the multiple structure forms.
var structForms = map[uint32]structForm{
	0b0000: {4, 4},
	0b0010: {4, 1},
	0b0100: {3, 3},
	0b0110: {3, 1},
	0b0111: {1, 1},
	0b1000: {2, 2},
	0b1010: {2, 1},
}

var structOps = [2][5]Op{
	{0, OpST1, OpST2, OpST3, OpST4},
	{0, OpLD1, OpLD2, OpLD3, OpLD4},
}

// decodeSIMDLoadStoreMulti decodes LD1-LD4 and ST1-ST4 (multiple
// structures), with and without post-index.
// Format: 0 | Q | 0011000 | post | L | 0 | Rm | opcode | size | Rn | Rt
func decodeSIMDLoadStoreMulti(word uint32, inst *Instruction) error {
	q := Bit(word, 30)
	size := Bits(word, 10, 2)

	form, ok := structForms[Bits(word, 12, 4)]
	if !ok {
		return ErrUnallocated
	}
	if size == 0b11 && q == 0 && form.selem > 1 {
		return ErrReserved
	}

	inst.Op = structOps[Bit(word, 22)][form.selem]

	arr := arrangementFor(size, q)
	list := MultiRegOperand{Count: form.regs}
	t := rd(word)
	for i := uint8(0); i < form.regs; i++ {
		list.Regs[i] = VecReg((t+i)%32, arr)
	}

	base := baseReg(word)
	if Bit(word, 23) == 0 {
		inst.add(list, MemRegOperand{Base: base})
		return nil
	}

	m := rm(word)
	if m == 31 {
		bytes := int64(8)
		if q == 1 {
			bytes = 16
		}
		inst.add(list, MemPostIdxOperand{Base: base, Offset: int64(form.regs) * bytes})
		return nil
	}
	inst.add(list, MemPostIdxOperand{Base: base, Index: GPR(m, true)})
	return nil
}
