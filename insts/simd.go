package insts

// simdLogical is the three-same opcode shared by the bitwise operations,
// which use size to select the operation.
const simdLogical = 0b00011

var (
	simdLogicalOps = [2][4]Op{{OpAND, OpBIC, OpORR, OpORN}, {OpEOR, OpBSL, OpBIT, OpBIF}}
	simdArithOps   = [2]Op{OpADD, OpSUB}
	// keyed by opcode, indexed by U
	simdCompareOps = map[uint32][2]Op{
		0b10001: {OpCMTST, OpCMEQ},
		0b00110: {OpCMGT, OpCMHI},
		0b00111: {OpCMGE, OpCMHS},
	}
)

// decodeSIMDThreeSame decodes the vector three-same group: the bitwise
// operations, ADD, SUB, MUL and the integer compares.
// Format: 0 | Q | U | 01110 | size | 1 | Rm | opcode | 1 | Rn | Rd
func decodeSIMDThreeSame(word uint32, inst *Instruction) error {
	q := Bit(word, 30)
	u := Bit(word, 29)
	size := Bits(word, 22, 2)
	opcode := Bits(word, 11, 5)
	d, n, m := rd(word), rn(word), rm(word)

	if opcode == simdLogical {
		arr := arrangementFor(0, q)
		op := simdLogicalOps[u][size]
		if op == OpORR && n == m {
			inst.Op = OpMOV
			inst.add(regOp(VecReg(d, arr)), regOp(VecReg(n, arr)))
			return nil
		}
		inst.Op = op
		inst.add(regOp(VecReg(d, arr)), regOp(VecReg(n, arr)), regOp(VecReg(m, arr)))
		return nil
	}

	if size == 0b11 && q == 0 {
		return ErrReserved
	}

	switch {
	case opcode == 0b10000:
		inst.Op = simdArithOps[u]
	case opcode == 0b10011 && u == 0:
		if size == 0b11 {
			return ErrReserved
		}
		inst.Op = OpMUL
	default:
		ops, ok := simdCompareOps[opcode]
		if !ok {
			return ErrUnallocated
		}
		inst.Op = ops[u]
	}

	arr := arrangementFor(size, q)
	inst.add(regOp(VecReg(d, arr)), regOp(VecReg(n, arr)), regOp(VecReg(m, arr)))
	return nil
}

// decodeSIMDCopy decodes DUP, INS, SMOV and UMOV, showing INS and most
// UMOV forms by their MOV alias.
// Format: 0 | Q | op | 01110000 | imm5 | 0 | imm4 | 1 | Rn | Rd
func decodeSIMDCopy(word uint32, inst *Instruction) error {
	q := Bit(word, 30)
	imm5 := Bits(word, 16, 5)
	imm4 := Bits(word, 11, 4)
	d, n := rd(word), rn(word)

	if imm5&0xF == 0 {
		return ErrReserved
	}
	size := uint32(0)
	for imm5&(1<<size) == 0 {
		size++
	}
	index := uint8(imm5 >> (size + 1))
	elem := elementFor(size)

	if Bit(word, 29) == 1 {
		if q == 0 {
			return ErrUnallocated
		}
		inst.Op = OpMOV
		inst.add(regOp(VecLane(d, elem, index)), regOp(VecLane(n, elem, uint8(imm4>>size))))
		return nil
	}

	switch imm4 {
	case 0b0000:
		if size == 3 && q == 0 {
			return ErrReserved
		}
		inst.Op = OpDUP
		inst.add(regOp(VecReg(d, arrangementFor(size, q))), regOp(VecLane(n, elem, index)))
	case 0b0001:
		if size == 3 && q == 0 {
			return ErrReserved
		}
		inst.Op = OpDUP
		inst.add(regOp(VecReg(d, arrangementFor(size, q))), regOp(GPR(n, size == 3)))
	case 0b0011:
		if q == 0 {
			return ErrUnallocated
		}
		inst.Op = OpMOV
		inst.add(regOp(VecLane(d, elem, index)), regOp(GPR(n, size == 3)))
	case 0b0101:
		if size >= 2+q {
			return ErrReserved
		}
		inst.Op = OpSMOV
		inst.add(regOp(GPR(d, q == 1)), regOp(VecLane(n, elem, index)))
	case 0b0111:
		if (q == 0 && size == 3) || (q == 1 && size != 3) {
			return ErrReserved
		}
		inst.Op = OpUMOV
		if size >= 2 {
			inst.Op = OpMOV
		}
		inst.add(regOp(GPR(d, q == 1)), regOp(VecLane(n, elem, index)))
	default:
		return ErrUnallocated
	}
	return nil
}

// decodeSIMDModImm decodes MOVI, MVNI, ORR, BIC and FMOV (vector,
// immediate).
// Format: 0 | Q | op | 0111100000 | abc | cmode | o2 | 1 | defgh | Rd
func decodeSIMDModImm(word uint32, inst *Instruction) error {
	q := Bit(word, 30)
	op := Bit(word, 29)
	cmode := Bits(word, 12, 4)
	imm8 := Concat(word, Field{16, 3}, Field{5, 5})
	d := rd(word)

	if Bit(word, 11) == 1 {
		return ErrUnallocated
	}

	shifted := func(arr Arrangement, t ShiftType, amount uint32) {
		v := imm(imm8)
		if t != ShiftLSL || amount != 0 {
			v.Shift = Shift{Type: t, Amount: uint8(amount)}
		}
		inst.add(regOp(VecReg(d, arr)), v)
	}

	switch {
	case cmode&0b1001 == 0b0000:
		inst.Op = [2]Op{OpMOVI, OpMVNI}[op]
		shifted(arrangementFor(2, q), ShiftLSL, 8*Bits(cmode, 1, 2))
	case cmode&0b1001 == 0b0001:
		inst.Op = [2]Op{OpORR, OpBIC}[op]
		shifted(arrangementFor(2, q), ShiftLSL, 8*Bits(cmode, 1, 2))
	case cmode&0b1101 == 0b1000:
		inst.Op = [2]Op{OpMOVI, OpMVNI}[op]
		shifted(arrangementFor(1, q), ShiftLSL, 8*Bit(cmode, 1))
	case cmode&0b1101 == 0b1001:
		inst.Op = [2]Op{OpORR, OpBIC}[op]
		shifted(arrangementFor(1, q), ShiftLSL, 8*Bit(cmode, 1))
	case cmode&0b1110 == 0b1100:
		inst.Op = [2]Op{OpMOVI, OpMVNI}[op]
		shifted(arrangementFor(2, q), ShiftMSL, 8<<Bit(cmode, 0))
	case cmode == 0b1110 && op == 0:
		inst.Op = OpMOVI
		shifted(arrangementFor(0, q), ShiftLSL, 0)
	case cmode == 0b1110:
		inst.Op = OpMOVI
		if q == 0 {
			inst.add(regOp(FPReg(RegD, d)), imm64(expandSIMDImm64(imm8)))
		} else {
			inst.add(regOp(VecReg(d, Arr2D)), imm64(expandSIMDImm64(imm8)))
		}
	default: // 1111
		arr := arrangementFor(2, q)
		if op == 1 {
			if q == 0 {
				return ErrReserved
			}
			arr = Arr2D
		}
		inst.Op = OpFMOV
		inst.add(regOp(VecReg(d, arr)), FImm32Operand{Value: VFPExpandImm(imm8)})
	}
	return nil
}
