// Package insts decodes AArch64 instruction words into typed instructions.
//
// A word is classified against a table of fixed-bit patterns into an
// encoding group, and the group's builder extracts the operation and an
// ordered list of typed operands. Decoding is a pure function of the word:
// a Decoder holds no mutable state and may be shared between goroutines.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x9100A820, 0x1000) // add x0, x1, #0x2a
//	if err != nil {
//		// unallocated or reserved encoding
//	}
//	fmt.Println(inst.Op, inst.Operands.Len())
package insts

import "errors"

// Decode errors. Both mean the word is not a valid instruction.
var (
	// ErrUnallocated is returned when no encoding group matches the word.
	ErrUnallocated = errors.New("unallocated encoding")
	// ErrReserved is returned when a group matched but a sub-field holds a
	// reserved combination.
	ErrReserved = errors.New("reserved encoding")
)

// Encoding identifies the encoding group an instruction was decoded from.
type Encoding uint16

// Encoding groups.
const (
	EncodingNone              Encoding = iota
	EncUDF                             // Reserved, permanently undefined
	EncPCRel                           // PC-relative addressing
	EncAddSubImm                       // Add/subtract (immediate)
	EncLogicalImm                      // Logical (immediate)
	EncMoveWide                        // Move wide (immediate)
	EncBitfield                        // Bitfield
	EncExtract                         // Extract
	EncBranchImm                       // Unconditional branch (immediate)
	EncCompareBranch                   // Compare and branch (immediate)
	EncTestBranch                      // Test and branch (immediate)
	EncCondBranch                      // Conditional branch (immediate)
	EncException                       // Exception generation
	EncHint                            // Hints
	EncBarrier                         // Barriers
	EncPState                          // PSTATE
	EncSystem                          // System instructions
	EncSysRegMove                      // System register move
	EncBranchReg                       // Unconditional branch (register)
	EncLogicalShifted                  // Logical (shifted register)
	EncAddSubShifted                   // Add/subtract (shifted register)
	EncAddSubExtended                  // Add/subtract (extended register)
	EncAddSubCarry                     // Add/subtract (with carry)
	EncCondCompare                     // Conditional compare
	EncCondSelect                      // Conditional select
	EncDP1Src                          // Data-processing (1 source)
	EncDP2Src                          // Data-processing (2 source)
	EncDP3Src                          // Data-processing (3 source)
	EncLoadLiteral                     // Load register (literal)
	EncLoadStorePair                   // Load/store register pair
	EncLoadStoreUImm                   // Load/store register (unsigned immediate)
	EncLoadStoreImm9                   // Load/store register (9-bit immediate)
	EncLoadStoreRegOffset              // Load/store register (register offset)
	EncLoadStoreExclusive              // Load/store exclusive and ordered
	EncSIMDLoadStoreMulti              // AdvSIMD load/store multiple structures
	EncSIMDLoadStoreMultiPost          // AdvSIMD load/store multiple structures (post-indexed)
	EncFPImm                           // Floating-point immediate
	EncFP1Src                          // Floating-point data-processing (1 source)
	EncFP2Src                          // Floating-point data-processing (2 source)
	EncFPCompare                       // Floating-point compare
	EncFPCondSelect                    // Floating-point conditional select
	EncFPIntConvert                    // Conversion between floating-point and integer
	EncSIMDThreeSame                   // AdvSIMD three same
	EncSIMDCopy                        // AdvSIMD copy
	EncSIMDModImm                      // AdvSIMD modified immediate

	encodingCount
)

var encodingNames = [encodingCount]string{
	EncodingNone:              "none",
	EncUDF:                    "udf",
	EncPCRel:                  "pc_rel",
	EncAddSubImm:              "add_sub_imm",
	EncLogicalImm:             "logical_imm",
	EncMoveWide:               "move_wide",
	EncBitfield:               "bitfield",
	EncExtract:                "extract",
	EncBranchImm:              "branch_imm",
	EncCompareBranch:          "compare_branch",
	EncTestBranch:             "test_branch",
	EncCondBranch:             "cond_branch",
	EncException:              "exception",
	EncHint:                   "hint",
	EncBarrier:                "barrier",
	EncPState:                 "pstate",
	EncSystem:                 "system",
	EncSysRegMove:             "sysreg_move",
	EncBranchReg:              "branch_reg",
	EncLogicalShifted:         "logical_shifted",
	EncAddSubShifted:          "add_sub_shifted",
	EncAddSubExtended:         "add_sub_extended",
	EncAddSubCarry:            "add_sub_carry",
	EncCondCompare:            "cond_compare",
	EncCondSelect:             "cond_select",
	EncDP1Src:                 "dp_1src",
	EncDP2Src:                 "dp_2src",
	EncDP3Src:                 "dp_3src",
	EncLoadLiteral:            "load_literal",
	EncLoadStorePair:          "load_store_pair",
	EncLoadStoreUImm:          "load_store_uimm",
	EncLoadStoreImm9:          "load_store_imm9",
	EncLoadStoreRegOffset:     "load_store_reg_offset",
	EncLoadStoreExclusive:     "load_store_exclusive",
	EncSIMDLoadStoreMulti:     "simd_ldst_multi",
	EncSIMDLoadStoreMultiPost: "simd_ldst_multi_post",
	EncFPImm:                  "fp_imm",
	EncFP1Src:                 "fp_1src",
	EncFP2Src:                 "fp_2src",
	EncFPCompare:              "fp_compare",
	EncFPCondSelect:           "fp_cond_select",
	EncFPIntConvert:           "fp_int_convert",
	EncSIMDThreeSame:          "simd_three_same",
	EncSIMDCopy:               "simd_copy",
	EncSIMDModImm:             "simd_mod_imm",
}

func (e Encoding) String() string {
	if e < encodingCount {
		return encodingNames[e]
	}
	return "invalid"
}

// Cond represents an ARM64 condition code.
type Cond uint8

// ARM64 condition codes.
const (
	CondEQ Cond = 0b0000 // Equal (Z == 1)
	CondNE Cond = 0b0001 // Not Equal (Z == 0)
	CondCS Cond = 0b0010 // Carry Set / Unsigned higher or same (C == 1)
	CondCC Cond = 0b0011 // Carry Clear / Unsigned lower (C == 0)
	CondMI Cond = 0b0100 // Minus / Negative (N == 1)
	CondPL Cond = 0b0101 // Plus / Positive or zero (N == 0)
	CondVS Cond = 0b0110 // Overflow (V == 1)
	CondVC Cond = 0b0111 // No overflow (V == 0)
	CondHI Cond = 0b1000 // Unsigned higher (C == 1 && Z == 0)
	CondLS Cond = 0b1001 // Unsigned lower or same (C == 0 || Z == 1)
	CondGE Cond = 0b1010 // Signed greater than or equal (N == V)
	CondLT Cond = 0b1011 // Signed less than (N != V)
	CondGT Cond = 0b1100 // Signed greater than (Z == 0 && N == V)
	CondLE Cond = 0b1101 // Signed less than or equal (Z == 1 || N != V)
	CondAL Cond = 0b1110 // Always (unconditional)
	CondNV Cond = 0b1111 // Always (unconditional, reserved)
)

var condNames = [16]string{
	"eq", "ne", "cs", "cc", "mi", "pl", "vs", "vc",
	"hi", "ls", "ge", "lt", "gt", "le", "al", "nv",
}

func (c Cond) String() string {
	return condNames[c&0xF]
}

// Invert returns the opposite condition.
func (c Cond) Invert() Cond {
	return c ^ 1
}

// Instruction represents a decoded ARM64 instruction.
type Instruction struct {
	Word     uint32   // Original instruction word
	Encoding Encoding // Matched encoding group
	Op       Op       // Operation
	Operands Operands // Ordered operands
}

// IsValid reports whether the instruction holds a successful decode.
func (i *Instruction) IsValid() bool {
	return i.Encoding != EncodingNone && i.Op.IsValid()
}

func (i *Instruction) add(ops ...Operand) {
	i.Operands.Add(ops...)
}
