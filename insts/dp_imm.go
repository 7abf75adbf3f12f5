package insts

// decodeUDF decodes the permanently undefined instruction.
// Format: 0000000000000000 | imm16
func decodeUDF(word uint32, inst *Instruction) error {
	inst.Op = OpUDF
	inst.add(imm(Bits(word, 0, 16)))
	return nil
}

// decodePCRel decodes ADR and ADRP.
// Format: op | immlo | 10000 | immhi | Rd
func decodePCRel(word uint32, inst *Instruction) error {
	offset := SignExtend(uint64(Concat(word, Field{5, 19}, Field{29, 2})), 21)
	dst := regOp(GPR(rd(word), true))

	if Bit(word, 31) == 1 {
		inst.Op = OpADRP
		inst.add(dst, LabelOperand{Offset: offset << 12, Page: true})
		return nil
	}

	inst.Op = OpADR
	inst.add(dst, label(offset))
	return nil
}

// decodeAddSubImm decodes Add/Sub immediate instructions.
// Format: sf | op | S | 100010 | sh | imm12 | Rn | Rd
func decodeAddSubImm(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	sub := Bit(word, 30) == 1
	setFlags := Bit(word, 29) == 1
	imm12 := Bits(word, 10, 12)
	d, n := rd(word), rn(word)

	immOp := imm(imm12)
	if Bit(word, 22) == 1 {
		immOp.Shift = Shift{Type: ShiftLSL, Amount: 12}
	}

	src := regOp(GPRSP(n, is64))

	switch {
	case setFlags && d == 31:
		inst.Op = OpCMN
		if sub {
			inst.Op = OpCMP
		}
		inst.add(src, immOp)
		return nil
	case !sub && !setFlags && imm12 == 0 && Bit(word, 22) == 0 && (d == 31 || n == 31):
		inst.Op = OpMOV
		inst.add(regOp(GPRSP(d, is64)), src)
		return nil
	}

	var dst RegOperand
	if setFlags {
		dst = regOp(GPR(d, is64))
	} else {
		dst = regOp(GPRSP(d, is64))
	}

	switch {
	case !sub && !setFlags:
		inst.Op = OpADD
	case !sub && setFlags:
		inst.Op = OpADDS
	case sub && !setFlags:
		inst.Op = OpSUB
	default:
		inst.Op = OpSUBS
	}
	inst.add(dst, src, immOp)
	return nil
}

// decodeLogicalImm decodes AND, ORR, EOR and ANDS with a bitmask immediate.
// Format: sf | opc | 100100 | N | immr | imms | Rn | Rd
func decodeLogicalImm(word uint32, inst *Instruction) error {
	sf := Bit(word, 31)
	opc := Bits(word, 29, 2)
	n := Bit(word, 22)
	immr := Bits(word, 16, 6)
	imms := Bits(word, 10, 6)
	is64 := sf == 1

	if !is64 && n == 1 {
		return ErrReserved
	}
	value, ok := DecodeBitMasks(n, imms, immr, is64)
	if !ok {
		return ErrReserved
	}

	var immOp Operand
	if is64 {
		immOp = imm64(value)
	} else {
		immOp = imm(uint32(value))
	}

	d, src := rd(word), rn(word)
	srcOp := regOp(GPR(src, is64))

	switch opc {
	case 0b00:
		inst.Op = OpAND
	case 0b01:
		if src == 31 && !moveWidePreferred(sf, n, imms, immr) {
			inst.Op = OpMOV
			inst.add(regOp(GPRSP(d, is64)), immOp)
			return nil
		}
		inst.Op = OpORR
	case 0b10:
		inst.Op = OpEOR
	case 0b11:
		if d == 31 {
			inst.Op = OpTST
			inst.add(srcOp, immOp)
			return nil
		}
		inst.Op = OpANDS
		inst.add(regOp(GPR(d, is64)), srcOp, immOp)
		return nil
	}

	inst.add(regOp(GPRSP(d, is64)), srcOp, immOp)
	return nil
}

// decodeMoveWide decodes MOVN, MOVZ and MOVK.
// Format: sf | opc | 100101 | hw | imm16 | Rd
func decodeMoveWide(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	opc := Bits(word, 29, 2)
	hw := Bits(word, 21, 2)
	imm16 := Bits(word, 5, 16)

	if opc == 0b01 || (!is64 && hw >= 2) {
		return ErrReserved
	}

	dst := regOp(GPR(rd(word), is64))
	shift := uint(hw * 16)

	shifted := imm(imm16)
	if hw != 0 {
		shifted.Shift = Shift{Type: ShiftLSL, Amount: uint8(shift)}
	}

	switch opc {
	case 0b00:
		if !(imm16 == 0 && hw != 0) && !(!is64 && imm16 == 0xFFFF) {
			inst.Op = OpMOV
			if is64 {
				inst.add(dst, Imm64Operand{Value: ^(uint64(imm16) << shift), Signed: true})
			} else {
				inst.add(dst, Imm32Operand{Value: ^(imm16 << shift), Signed: true})
			}
			return nil
		}
		inst.Op = OpMOVN
	case 0b10:
		if !(imm16 == 0 && hw != 0) {
			inst.Op = OpMOV
			if is64 {
				inst.add(dst, imm64(uint64(imm16)<<shift))
			} else {
				inst.add(dst, imm(imm16<<shift))
			}
			return nil
		}
		inst.Op = OpMOVZ
	case 0b11:
		inst.Op = OpMOVK
	}

	inst.add(dst, shifted)
	return nil
}

// decodeBitfield decodes SBFM, BFM and UBFM and their preferred aliases.
// Format: sf | opc | 100110 | N | immr | imms | Rn | Rd
func decodeBitfield(word uint32, inst *Instruction) error {
	sf := Bit(word, 31)
	opc := Bits(word, 29, 2)
	n := Bit(word, 22)
	immr := Bits(word, 16, 6)
	imms := Bits(word, 10, 6)
	is64 := sf == 1

	if opc == 0b11 || n != sf {
		return ErrReserved
	}
	if !is64 && (immr >= 32 || imms >= 32) {
		return ErrReserved
	}

	size := uint32(32)
	if is64 {
		size = 64
	}
	dst := regOp(GPR(rd(word), is64))
	src := regOp(GPR(rn(word), is64))
	wsrc := regOp(GPR(rn(word), false))

	// lsb/width forms shared by the insert and extract aliases.
	insertLSB := imm((size - immr) % size)
	insertWidth := imm(imms + 1)
	extractLSB := imm(immr)
	extractWidth := imm(imms - immr + 1)

	switch opc {
	case 0b00: // SBFM
		switch {
		case imms == size-1:
			inst.Op = OpASR
			inst.add(dst, src, imm(immr))
		case imms < immr:
			inst.Op = OpSBFIZ
			inst.add(dst, src, insertLSB, insertWidth)
		case immr == 0 && imms == 7:
			inst.Op = OpSXTB
			inst.add(dst, wsrc)
		case immr == 0 && imms == 15:
			inst.Op = OpSXTH
			inst.add(dst, wsrc)
		case immr == 0 && imms == 31:
			inst.Op = OpSXTW
			inst.add(dst, wsrc)
		default:
			inst.Op = OpSBFX
			inst.add(dst, src, extractLSB, extractWidth)
		}

	case 0b01: // BFM
		if imms < immr {
			inst.Op = OpBFI
			inst.add(dst, src, insertLSB, insertWidth)
		} else {
			inst.Op = OpBFXIL
			inst.add(dst, src, extractLSB, extractWidth)
		}

	case 0b10: // UBFM
		switch {
		case imms != size-1 && imms+1 == immr:
			inst.Op = OpLSL
			inst.add(dst, src, imm(size-1-imms))
		case imms == size-1:
			inst.Op = OpLSR
			inst.add(dst, src, imm(immr))
		case imms < immr:
			inst.Op = OpUBFIZ
			inst.add(dst, src, insertLSB, insertWidth)
		case !is64 && immr == 0 && imms == 7:
			inst.Op = OpUXTB
			inst.add(dst, src)
		case !is64 && immr == 0 && imms == 15:
			inst.Op = OpUXTH
			inst.add(dst, src)
		default:
			inst.Op = OpUBFX
			inst.add(dst, src, extractLSB, extractWidth)
		}
	}

	return nil
}

// decodeExtract decodes EXTR and its ROR alias.
// Format: sf | 00 | 100111 | N | 0 | Rm | imms | Rn | Rd
func decodeExtract(word uint32, inst *Instruction) error {
	sf := Bit(word, 31)
	imms := Bits(word, 10, 6)
	is64 := sf == 1

	if Bit(word, 22) != sf || (!is64 && imms >= 32) {
		return ErrReserved
	}

	dst := regOp(GPR(rd(word), is64))
	n, m := rn(word), rm(word)

	if n == m {
		inst.Op = OpROR
		inst.add(dst, regOp(GPR(n, is64)), imm(imms))
		return nil
	}

	inst.Op = OpEXTR
	inst.add(dst, regOp(GPR(n, is64)), regOp(GPR(m, is64)), imm(imms))
	return nil
}
