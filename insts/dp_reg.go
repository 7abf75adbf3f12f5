package insts

// shiftOperand builds Rm with an optional shift, dropping LSL #0.
func shiftOperand(r Reg, t ShiftType, amount uint32) RegOperand {
	if t == ShiftLSL && amount == 0 {
		return regOp(r)
	}
	return shiftedReg(r, t, uint8(amount))
}

var logicalShiftedOps = [8]Op{OpAND, OpBIC, OpORR, OpORN, OpEOR, OpEON, OpANDS, OpBICS}

// decodeLogicalShifted decodes logical (shifted register) instructions.
// Format: sf | opc | 01010 | shift | N | Rm | imm6 | Rn | Rd
func decodeLogicalShifted(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	imm6 := Bits(word, 10, 6)
	if !is64 && imm6 >= 32 {
		return ErrReserved
	}

	shiftType := decodeShift(Bits(word, 22, 2))
	op := logicalShiftedOps[Bits(word, 29, 2)<<1|Bit(word, 21)]
	d, n := rd(word), rn(word)

	dst := regOp(GPR(d, is64))
	src := regOp(GPR(n, is64))
	operand := shiftOperand(GPR(rm(word), is64), shiftType, imm6)

	switch {
	case op == OpORR && n == 31 && imm6 == 0 && shiftType == ShiftLSL:
		inst.Op = OpMOV
		inst.add(dst, operand)
		return nil
	case op == OpORN && n == 31:
		inst.Op = OpMVN
		inst.add(dst, operand)
		return nil
	case op == OpANDS && d == 31:
		inst.Op = OpTST
		inst.add(src, operand)
		return nil
	}

	inst.Op = op
	inst.add(dst, src, operand)
	return nil
}

func addSubOp(sub, setFlags bool) Op {
	switch {
	case !sub && !setFlags:
		return OpADD
	case !sub && setFlags:
		return OpADDS
	case sub && !setFlags:
		return OpSUB
	}
	return OpSUBS
}

// decodeAddSubShifted decodes add/subtract (shifted register).
// Format: sf | op | S | 01011 | shift | 0 | Rm | imm6 | Rn | Rd
func decodeAddSubShifted(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	sub := Bit(word, 30) == 1
	setFlags := Bit(word, 29) == 1
	shift := Bits(word, 22, 2)
	imm6 := Bits(word, 10, 6)

	if shift == 0b11 || (!is64 && imm6 >= 32) {
		return ErrReserved
	}

	d, n := rd(word), rn(word)
	dst := regOp(GPR(d, is64))
	src := regOp(GPR(n, is64))
	operand := shiftOperand(GPR(rm(word), is64), decodeShift(shift), imm6)

	switch {
	case setFlags && d == 31:
		inst.Op = OpCMN
		if sub {
			inst.Op = OpCMP
		}
		inst.add(src, operand)
		return nil
	case sub && n == 31:
		inst.Op = OpNEG
		if setFlags {
			inst.Op = OpNEGS
		}
		inst.add(dst, operand)
		return nil
	}

	inst.Op = addSubOp(sub, setFlags)
	inst.add(dst, src, operand)
	return nil
}

// decodeAddSubExtended decodes add/subtract (extended register).
// Format: sf | op | S | 01011 | opt | 1 | Rm | option | imm3 | Rn | Rd
func decodeAddSubExtended(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	sub := Bit(word, 30) == 1
	setFlags := Bit(word, 29) == 1
	option := Bits(word, 13, 3)
	imm3 := Bits(word, 10, 3)

	if Bits(word, 22, 2) != 0 || imm3 > 4 {
		return ErrReserved
	}

	d, n := rd(word), rn(word)

	var dst RegOperand
	if setFlags {
		dst = regOp(GPR(d, is64))
	} else {
		dst = regOp(GPRSP(d, is64))
	}
	src := regOp(GPRSP(n, is64))

	index := GPR(rm(word), is64 && option&3 == 3)

	// UXTW in 32-bit forms and UXTX in 64-bit forms are shown as LSL when
	// the stack pointer is involved.
	lslOption := uint32(0b010)
	if is64 {
		lslOption = 0b011
	}
	usesSP := n == 31 || (!setFlags && d == 31)

	var operand RegOperand
	if usesSP && option == lslOption {
		operand = shiftOperand(index, ShiftLSL, imm3)
	} else {
		operand = shiftedReg(index, decodeExtend(option), uint8(imm3))
	}

	if setFlags && d == 31 {
		inst.Op = OpCMN
		if sub {
			inst.Op = OpCMP
		}
		inst.add(src, operand)
		return nil
	}

	inst.Op = addSubOp(sub, setFlags)
	inst.add(dst, src, operand)
	return nil
}

// decodeAddSubCarry decodes ADC, ADCS, SBC and SBCS.
// Format: sf | op | S | 11010000 | Rm | 000000 | Rn | Rd
func decodeAddSubCarry(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	sub := Bit(word, 30) == 1
	setFlags := Bit(word, 29) == 1
	n := rn(word)

	dst := regOp(GPR(rd(word), is64))
	m := regOp(GPR(rm(word), is64))

	if sub && n == 31 {
		inst.Op = OpNGC
		if setFlags {
			inst.Op = OpNGCS
		}
		inst.add(dst, m)
		return nil
	}

	switch {
	case !sub && !setFlags:
		inst.Op = OpADC
	case !sub && setFlags:
		inst.Op = OpADCS
	case sub && !setFlags:
		inst.Op = OpSBC
	default:
		inst.Op = OpSBCS
	}
	inst.add(dst, regOp(GPR(n, is64)), m)
	return nil
}

// decodeCondCompare decodes CCMN and CCMP in register and immediate forms.
// Format: sf | op | 1 | 11010010 | Rm/imm5 | cond | i | 0 | Rn | 0 | nzcv
func decodeCondCompare(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1

	inst.Op = OpCCMN
	if Bit(word, 30) == 1 {
		inst.Op = OpCCMP
	}

	var second Operand
	if Bit(word, 11) == 1 {
		second = imm(Bits(word, 16, 5))
	} else {
		second = regOp(GPR(rm(word), is64))
	}

	inst.add(regOp(GPR(rn(word), is64)), second, imm(Bits(word, 0, 4)), cond(Bits(word, 12, 4)))
	return nil
}

// decodeCondSelect decodes CSEL, CSINC, CSINV and CSNEG with the CSET,
// CSETM, CINC, CINV and CNEG aliases.
// Format: sf | op | 0 | 11010100 | Rm | cond | 0 | o2 | Rn | Rd
func decodeCondSelect(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	c := Cond(Bits(word, 12, 4))
	d, n, m := rd(word), rn(word), rm(word)

	dst := regOp(GPR(d, is64))
	src := regOp(GPR(n, is64))
	// The aliases are not available for the AL and NV conditions.
	aliasable := c < CondAL && n == m
	inverted := CondOperand{Cond: c.Invert()}

	switch Bit(word, 30)<<1 | Bit(word, 10) {
	case 0b00:
		inst.Op = OpCSEL
	case 0b01:
		if aliasable && n == 31 {
			inst.Op = OpCSET
			inst.add(dst, inverted)
			return nil
		}
		if aliasable {
			inst.Op = OpCINC
			inst.add(dst, src, inverted)
			return nil
		}
		inst.Op = OpCSINC
	case 0b10:
		if aliasable && n == 31 {
			inst.Op = OpCSETM
			inst.add(dst, inverted)
			return nil
		}
		if aliasable {
			inst.Op = OpCINV
			inst.add(dst, src, inverted)
			return nil
		}
		inst.Op = OpCSINV
	case 0b11:
		if aliasable {
			inst.Op = OpCNEG
			inst.add(dst, src, inverted)
			return nil
		}
		inst.Op = OpCSNEG
	}

	inst.add(dst, src, regOp(GPR(m, is64)), CondOperand{Cond: c})
	return nil
}

// decodeDP1Src decodes the one-source data processing group.
// Format: sf | 1 | 0 | 11010110 | 00000 | opcode | Rn | Rd
func decodeDP1Src(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1

	switch Bits(word, 10, 6) {
	case 0b000000:
		inst.Op = OpRBIT
	case 0b000001:
		inst.Op = OpREV16
	case 0b000010:
		inst.Op = OpREV
		if is64 {
			inst.Op = OpREV32
		}
	case 0b000011:
		if !is64 {
			return ErrUnallocated
		}
		inst.Op = OpREV
	case 0b000100:
		inst.Op = OpCLZ
	case 0b000101:
		inst.Op = OpCLS
	default:
		return ErrUnallocated
	}

	inst.add(regOp(GPR(rd(word), is64)), regOp(GPR(rn(word), is64)))
	return nil
}

// decodeDP2Src decodes UDIV, SDIV and the variable shifts, which are shown
// by their preferred LSL, LSR, ASR and ROR names.
// Format: sf | 0 | 0 | 11010110 | Rm | opcode | Rn | Rd
func decodeDP2Src(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1

	switch Bits(word, 10, 6) {
	case 0b000010:
		inst.Op = OpUDIV
	case 0b000011:
		inst.Op = OpSDIV
	case 0b001000:
		inst.Op = OpLSL
	case 0b001001:
		inst.Op = OpLSR
	case 0b001010:
		inst.Op = OpASR
	case 0b001011:
		inst.Op = OpROR
	default:
		return ErrUnallocated
	}

	inst.add(
		regOp(GPR(rd(word), is64)),
		regOp(GPR(rn(word), is64)),
		regOp(GPR(rm(word), is64)),
	)
	return nil
}

type dp3Form struct {
	op, alias Op
	long      bool // 32-bit sources, 64-bit destination
	noAcc     bool // no accumulator operand
}

// dp3Forms is keyed by op31:o0.
var dp3Forms = map[uint32]dp3Form{
	0b000_0: {op: OpMADD, alias: OpMUL},
	0b000_1: {op: OpMSUB, alias: OpMNEG},
	0b001_0: {op: OpSMADDL, alias: OpSMULL, long: true},
	0b001_1: {op: OpSMSUBL, alias: OpSMNEGL, long: true},
	0b010_0: {op: OpSMULH, noAcc: true},
	0b101_0: {op: OpUMADDL, alias: OpUMULL, long: true},
	0b101_1: {op: OpUMSUBL, alias: OpUMNEGL, long: true},
	0b110_0: {op: OpUMULH, noAcc: true},
}

// decodeDP3Src decodes the multiply-accumulate group.
// Format: sf | op54 | 11011 | op31 | Rm | o0 | Ra | Rn | Rd
func decodeDP3Src(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	op31 := Bits(word, 21, 3)

	if Bits(word, 29, 2) != 0 {
		return ErrReserved
	}
	form, ok := dp3Forms[op31<<1|Bit(word, 15)]
	if !ok || (!is64 && op31 != 0) {
		return ErrUnallocated
	}

	srcIs64 := is64 && !form.long
	dst := regOp(GPR(rd(word), is64))
	n := regOp(GPR(rn(word), srcIs64))
	m := regOp(GPR(rm(word), srcIs64))
	a := ra(word)

	switch {
	case form.noAcc:
		inst.Op = form.op
		inst.add(dst, n, m)
	case a == 31:
		inst.Op = form.alias
		inst.add(dst, n, m)
	default:
		inst.Op = form.op
		inst.add(dst, n, m, regOp(GPR(a, is64)))
	}
	return nil
}
