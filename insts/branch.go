package insts

// decodeBranchImm decodes B and BL instructions.
// Format: op | 00101 | imm26
func decodeBranchImm(word uint32, inst *Instruction) error {
	offset := SignedBits(word, 0, 26) * 4

	if Bit(word, 31) == 0 {
		inst.Op = OpB
	} else {
		inst.Op = OpBL
	}
	inst.add(label(offset))
	return nil
}

// decodeCompareBranch decodes CBZ and CBNZ.
// Format: sf | 011010 | op | imm19 | Rt
func decodeCompareBranch(word uint32, inst *Instruction) error {
	is64 := Bit(word, 31) == 1
	offset := SignedBits(word, 5, 19) * 4

	if Bit(word, 24) == 0 {
		inst.Op = OpCBZ
	} else {
		inst.Op = OpCBNZ
	}
	inst.add(regOp(GPR(rd(word), is64)), label(offset))
	return nil
}

// decodeTestBranch decodes TBZ and TBNZ. The tested bit number is split
// between b5 (bit 31) and b40 (bits [23:19]).
// Format: b5 | 011011 | op | b40 | imm14 | Rt
func decodeTestBranch(word uint32, inst *Instruction) error {
	bitPos := Concat(word, Field{31, 1}, Field{19, 5})
	offset := SignedBits(word, 5, 14) * 4

	if Bit(word, 24) == 0 {
		inst.Op = OpTBZ
	} else {
		inst.Op = OpTBNZ
	}
	inst.add(regOp(GPR(rd(word), Bit(word, 31) == 1)), imm(bitPos), label(offset))
	return nil
}

// decodeCondBranch decodes conditional branch instructions.
// Format: 0101010 0 | imm19 | 0 | cond
func decodeCondBranch(word uint32, inst *Instruction) error {
	offset := SignedBits(word, 5, 19) * 4

	inst.Op = OpBCond
	inst.add(cond(Bits(word, 0, 4)), label(offset))
	return nil
}

// decodeBranchReg decodes BR, BLR, RET, ERET and DRPS.
// Format: 1101011 | opc | op2 | op3 | Rn | op4
func decodeBranchReg(word uint32, inst *Instruction) error {
	opc := Bits(word, 21, 4)
	op2 := Bits(word, 16, 5)
	op3 := Bits(word, 10, 6)
	op4 := Bits(word, 0, 5)
	n := rn(word)

	if op2 != 0b11111 || op3 != 0 || op4 != 0 {
		return ErrUnallocated
	}

	switch opc {
	case 0b0000:
		inst.Op = OpBR
	case 0b0001:
		inst.Op = OpBLR
	case 0b0010:
		inst.Op = OpRET
		if n == 30 {
			return nil
		}
	case 0b0100, 0b0101:
		if n != 31 {
			return ErrReserved
		}
		inst.Op = OpERET
		if opc == 0b0101 {
			inst.Op = OpDRPS
		}
		return nil
	default:
		return ErrUnallocated
	}

	inst.add(regOp(GPR(n, true)))
	return nil
}

// exceptionOps maps opc<<2 | LL of the exception generation group.
var exceptionOps = map[uint32]Op{
	0b000<<2 | 0b01: OpSVC,
	0b000<<2 | 0b10: OpHVC,
	0b000<<2 | 0b11: OpSMC,
	0b001<<2 | 0b00: OpBRK,
	0b010<<2 | 0b00: OpHLT,
	0b101<<2 | 0b01: OpDCPS1,
	0b101<<2 | 0b10: OpDCPS2,
	0b101<<2 | 0b11: OpDCPS3,
}

// decodeException decodes SVC, HVC, SMC, BRK, HLT and DCPSn.
// Format: 11010100 | opc | imm16 | op2 | LL
func decodeException(word uint32, inst *Instruction) error {
	if Bits(word, 2, 3) != 0 {
		return ErrUnallocated
	}

	op, ok := exceptionOps[Bits(word, 21, 3)<<2|Bits(word, 0, 2)]
	if !ok {
		return ErrUnallocated
	}

	inst.Op = op
	imm16 := Bits(word, 5, 16)
	switch op {
	case OpDCPS1, OpDCPS2, OpDCPS3:
		if imm16 == 0 {
			return nil
		}
	}
	inst.add(imm(imm16))
	return nil
}
