package insts

import "strconv"

// hintOps maps the CRm:op2 hint number to named hints.
var hintOps = map[uint32]Op{
	0:  OpNOP,
	1:  OpYIELD,
	2:  OpWFE,
	3:  OpWFI,
	4:  OpSEV,
	5:  OpSEVL,
	6:  OpDGH,
	16: OpESB,
	17: OpPSB,
	18: OpTSB,
	20: OpCSDB,
}

var btiTargets = [4]string{"", "c", "j", "jc"}

// decodeHint decodes the hint space.
// Format: 11010101000000110010 | CRm | op2 | 11111
func decodeHint(word uint32, inst *Instruction) error {
	num := Bits(word, 5, 7)

	if op, ok := hintOps[num]; ok {
		inst.Op = op
		if op == OpPSB || op == OpTSB {
			inst.add(NameOperand{Name: "csync"})
		}
		return nil
	}

	if num&^0b110 == 32 {
		inst.Op = OpBTI
		if target := btiTargets[(num>>1)&3]; target != "" {
			inst.add(NameOperand{Name: target})
		}
		return nil
	}

	inst.Op = OpHINT
	inst.add(imm(num))
	return nil
}

var barrierOptions = [16]string{
	1: "oshld", 2: "oshst", 3: "osh",
	5: "nshld", 6: "nshst", 7: "nsh",
	9: "ishld", 10: "ishst", 11: "ish",
	13: "ld", 14: "st", 15: "sy",
}

func barrierOption(crm uint32) Operand {
	if name := barrierOptions[crm&0xF]; name != "" {
		return StrImmOperand{Name: name, Value: crm}
	}
	return imm(crm)
}

// decodeBarrier decodes CLREX, DSB, DMB, ISB and SB.
// Format: 11010101000000110011 | CRm | op2 | 11111
func decodeBarrier(word uint32, inst *Instruction) error {
	crm := Bits(word, 8, 4)

	switch Bits(word, 5, 3) {
	case 0b010:
		inst.Op = OpCLREX
		if crm != 15 {
			inst.add(imm(crm))
		}
	case 0b100:
		switch crm {
		case 0b0000:
			inst.Op = OpSSBB
		case 0b0100:
			inst.Op = OpPSSBB
		default:
			inst.Op = OpDSB
			inst.add(barrierOption(crm))
		}
	case 0b101:
		inst.Op = OpDMB
		inst.add(barrierOption(crm))
	case 0b110:
		inst.Op = OpISB
		if crm != 15 {
			inst.add(imm(crm))
		}
	case 0b111:
		if crm != 0 {
			return ErrReserved
		}
		inst.Op = OpSB
	default:
		return ErrUnallocated
	}

	return nil
}

// decodePState decodes MSR (immediate).
// Format: 1101010100000 | op1 | 0100 | CRm | op2 | 11111
func decodePState(word uint32, inst *Instruction) error {
	field, ok := pstateFields[Bits(word, 16, 3)<<3|Bits(word, 5, 3)]
	if !ok {
		return ErrUnallocated
	}

	inst.Op = OpMSR
	inst.add(NameOperand{Name: field}, imm(Bits(word, 8, 4)))
	return nil
}

type sysAlias struct {
	op      Op
	name    string
	needsRt bool
}

// sysAliases maps op1:CRn:CRm:op2 of SYS to the DC and IC aliases.
var sysAliases = map[uint32]sysAlias{
	sysKey(0, 7, 1, 0):  {OpIC, "ialluis", false},
	sysKey(0, 7, 5, 0):  {OpIC, "iallu", false},
	sysKey(3, 7, 5, 1):  {OpIC, "ivau", true},
	sysKey(0, 7, 6, 1):  {OpDC, "ivac", true},
	sysKey(0, 7, 6, 2):  {OpDC, "isw", true},
	sysKey(0, 7, 10, 2): {OpDC, "csw", true},
	sysKey(0, 7, 14, 2): {OpDC, "cisw", true},
	sysKey(3, 7, 4, 1):  {OpDC, "zva", true},
	sysKey(3, 7, 10, 1): {OpDC, "cvac", true},
	sysKey(3, 7, 11, 1): {OpDC, "cvau", true},
	sysKey(3, 7, 12, 1): {OpDC, "cvap", true},
	sysKey(3, 7, 14, 1): {OpDC, "civac", true},
}

func sysKey(op1, crn, crm, op2 uint32) uint32 {
	return op1<<11 | crn<<7 | crm<<3 | op2
}

func crName(v uint32) NameOperand {
	return NameOperand{Name: "c" + strconv.Itoa(int(v))}
}

// decodeSystem decodes SYS and SYSL, with the DC and IC aliases.
// Format: 1101010100 | L | 01 | op1 | CRn | CRm | op2 | Rt
func decodeSystem(word uint32, inst *Instruction) error {
	op1 := Bits(word, 16, 3)
	crn := Bits(word, 12, 4)
	crm := Bits(word, 8, 4)
	op2 := Bits(word, 5, 3)
	t := rd(word)
	xt := regOp(GPR(t, true))

	if Bit(word, 21) == 1 {
		inst.Op = OpSYSL
		inst.add(xt, imm(op1), crName(crn), crName(crm), imm(op2))
		return nil
	}

	if alias, ok := sysAliases[sysKey(op1, crn, crm, op2)]; ok && (alias.needsRt || t == 31) {
		inst.Op = alias.op
		inst.add(NameOperand{Name: alias.name})
		if alias.needsRt {
			inst.add(xt)
		}
		return nil
	}

	inst.Op = OpSYS
	inst.add(imm(op1), crName(crn), crName(crm), imm(op2))
	if t != 31 {
		inst.add(xt)
	}
	return nil
}

// decodeSysRegMove decodes MSR (register) and MRS.
// Format: 1101010100 | L | 1 | o0 | op1 | CRn | CRm | op2 | Rt
func decodeSysRegMove(word uint32, inst *Instruction) error {
	reg := sysRegFromWord(word)
	xt := regOp(GPR(rd(word), true))

	var sys Operand = SysRegOperand{Reg: reg}
	if reg.ImplementationDefined() {
		sys = ImplSpecificOperand{Payload: reg.Encoding()}
	}

	if Bit(word, 21) == 1 {
		inst.Op = OpMRS
		inst.add(xt, sys)
	} else {
		inst.Op = OpMSR
		inst.add(sys, xt)
	}
	return nil
}
