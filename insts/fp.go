package insts

// fpReg returns the scalar register selected by the ftype field.
func fpReg(ftype uint32, num uint8) (RegOperand, error) {
	class, ok := fpClassForType(ftype)
	if !ok {
		return RegOperand{}, ErrReserved
	}
	return regOp(FPReg(class, num)), nil
}

// decodeFPImm decodes FMOV (scalar, immediate).
// Format: 00011110 | ftype | 1 | imm8 | 100 | imm5 | Rd
func decodeFPImm(word uint32, inst *Instruction) error {
	dst, err := fpReg(Bits(word, 22, 2), rd(word))
	if err != nil {
		return err
	}

	inst.Op = OpFMOV
	inst.add(dst, FImm32Operand{Value: VFPExpandImm(Bits(word, 13, 8))})
	return nil
}

// decodeFP1Src decodes the one-source scalar group: FMOV, FABS, FNEG, FSQRT
// and FCVT.
// Format: 00011110 | ftype | 1 | opcode | 10000 | Rn | Rd
func decodeFP1Src(word uint32, inst *Instruction) error {
	ftype := Bits(word, 22, 2)
	opcode := Bits(word, 15, 6)

	src, err := fpReg(ftype, rn(word))
	if err != nil {
		return err
	}

	dstType := ftype
	switch opcode {
	case 0b000000:
		inst.Op = OpFMOV
	case 0b000001:
		inst.Op = OpFABS
	case 0b000010:
		inst.Op = OpFNEG
	case 0b000011:
		inst.Op = OpFSQRT
	case 0b000100, 0b000101, 0b000111:
		dstType = opcode & 3
		if dstType == ftype {
			return ErrUnallocated
		}
		inst.Op = OpFCVT
	default:
		return ErrUnallocated
	}

	dst, err := fpReg(dstType, rd(word))
	if err != nil {
		return err
	}
	inst.add(dst, src)
	return nil
}

var fp2Ops = [9]Op{
	OpFMUL, OpFDIV, OpFADD, OpFSUB, OpFMAX, OpFMIN, OpFMAXNM, OpFMINNM, OpFNMUL,
}

// decodeFP2Src decodes the two-source scalar arithmetic group.
// Format: 00011110 | ftype | 1 | Rm | opcode | 10 | Rn | Rd
func decodeFP2Src(word uint32, inst *Instruction) error {
	ftype := Bits(word, 22, 2)
	opcode := Bits(word, 12, 4)
	if int(opcode) >= len(fp2Ops) {
		return ErrUnallocated
	}

	dst, err := fpReg(ftype, rd(word))
	if err != nil {
		return err
	}
	n, _ := fpReg(ftype, rn(word))
	m, _ := fpReg(ftype, rm(word))

	inst.Op = fp2Ops[opcode]
	inst.add(dst, n, m)
	return nil
}

// decodeFPCompare decodes FCMP and FCMPE against a register or zero.
// Format: 00011110 | ftype | 1 | Rm | 001000 | Rn | opc | 000
func decodeFPCompare(word uint32, inst *Instruction) error {
	ftype := Bits(word, 22, 2)

	n, err := fpReg(ftype, rn(word))
	if err != nil {
		return err
	}

	inst.Op = OpFCMP
	if Bit(word, 4) == 1 {
		inst.Op = OpFCMPE
	}

	// Rm is ignored by the compare with zero.
	if Bit(word, 3) == 1 {
		inst.add(n, FImm32Operand{Value: 0})
		return nil
	}

	m, _ := fpReg(ftype, rm(word))
	inst.add(n, m)
	return nil
}

// decodeFPCondSelect decodes FCSEL.
// Format: 00011110 | ftype | 1 | Rm | cond | 11 | Rn | Rd
func decodeFPCondSelect(word uint32, inst *Instruction) error {
	ftype := Bits(word, 22, 2)

	dst, err := fpReg(ftype, rd(word))
	if err != nil {
		return err
	}
	n, _ := fpReg(ftype, rn(word))
	m, _ := fpReg(ftype, rm(word))

	inst.Op = OpFCSEL
	inst.add(dst, n, m, cond(Bits(word, 12, 4)))
	return nil
}

// decodeFPIntConvert decodes conversions and moves between general purpose
// and floating point registers.
// Format: sf | 0 | 0 | 11110 | ftype | 1 | rmode | opcode | 000000 | Rn | Rd
func decodeFPIntConvert(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	ftype := Bits(word, 22, 2)
	rmode := Bits(word, 19, 2)
	opcode := Bits(word, 16, 3)
	d, n := rd(word), rn(word)

	// FMOV to or from the upper half of a 128-bit vector register.
	if rmode == 0b01 && (opcode == 0b110 || opcode == 0b111) {
		if !is64 || ftype != 0b10 {
			return ErrUnallocated
		}
		inst.Op = OpFMOV
		if opcode == 0b110 {
			inst.add(regOp(GPR(d, true)), regOp(VecLane(n, ElemD, 1)))
		} else {
			inst.add(regOp(VecLane(d, ElemD, 1)), regOp(GPR(n, true)))
		}
		return nil
	}

	class, ok := fpClassForType(ftype)
	if !ok {
		return ErrUnallocated
	}

	switch rmode<<3 | opcode {
	case 0b00_010, 0b00_011:
		inst.Op = OpSCVTF
		if opcode == 0b011 {
			inst.Op = OpUCVTF
		}
		inst.add(regOp(FPReg(class, d)), regOp(GPR(n, is64)))
	case 0b11_000, 0b11_001:
		inst.Op = OpFCVTZS
		if opcode == 0b001 {
			inst.Op = OpFCVTZU
		}
		inst.add(regOp(GPR(d, is64)), regOp(FPReg(class, n)))
	case 0b00_110, 0b00_111:
		// The register widths must agree, except for half precision.
		if class != RegH && is64 != (class == RegD) {
			return ErrUnallocated
		}
		inst.Op = OpFMOV
		if opcode == 0b110 {
			inst.add(regOp(GPR(d, is64)), regOp(FPReg(class, n)))
		} else {
			inst.add(regOp(FPReg(class, d)), regOp(GPR(n, is64)))
		}
	default:
		return ErrUnallocated
	}
	return nil
}
