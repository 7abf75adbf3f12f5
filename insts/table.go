package insts

// rules is the encoding group table. Order inside the table only breaks
// ties between rules with the same number of fixed bits; otherwise the rule
// with more fixed bits is tried first.
var rules = []Rule{
	// Reserved
	{0xFFFF0000, 0x00000000, EncUDF, decodeUDF},

	// Data processing (immediate)
	{0x1F000000, 0x10000000, EncPCRel, decodePCRel},
	{0x1F800000, 0x11000000, EncAddSubImm, decodeAddSubImm},
	{0x1F800000, 0x12000000, EncLogicalImm, decodeLogicalImm},
	{0x1F800000, 0x12800000, EncMoveWide, decodeMoveWide},
	{0x1F800000, 0x13000000, EncBitfield, decodeBitfield},
	{0x7FA00000, 0x13800000, EncExtract, decodeExtract},

	// Branches, exception generation and system instructions
	{0x7C000000, 0x14000000, EncBranchImm, decodeBranchImm},
	{0x7E000000, 0x34000000, EncCompareBranch, decodeCompareBranch},
	{0x7E000000, 0x36000000, EncTestBranch, decodeTestBranch},
	{0xFF000010, 0x54000000, EncCondBranch, decodeCondBranch},
	{0xFF000000, 0xD4000000, EncException, decodeException},
	{0xFFFFF01F, 0xD503201F, EncHint, decodeHint},
	{0xFFFFF01F, 0xD503301F, EncBarrier, decodeBarrier},
	{0xFFF8F01F, 0xD500401F, EncPState, decodePState},
	{0xFFD80000, 0xD5080000, EncSystem, decodeSystem},
	{0xFFD00000, 0xD5100000, EncSysRegMove, decodeSysRegMove},
	{0xFE000000, 0xD6000000, EncBranchReg, decodeBranchReg},

	// Data processing (register)
	{0x1F000000, 0x0A000000, EncLogicalShifted, decodeLogicalShifted},
	{0x1F200000, 0x0B000000, EncAddSubShifted, decodeAddSubShifted},
	{0x1F200000, 0x0B200000, EncAddSubExtended, decodeAddSubExtended},
	{0x1FE0FC00, 0x1A000000, EncAddSubCarry, decodeAddSubCarry},
	{0x3FE00410, 0x3A400000, EncCondCompare, decodeCondCompare},
	{0x3FE00800, 0x1A800000, EncCondSelect, decodeCondSelect},
	{0x7FFF0000, 0x5AC00000, EncDP1Src, decodeDP1Src},
	{0x7FE00000, 0x1AC00000, EncDP2Src, decodeDP2Src},
	{0x1F000000, 0x1B000000, EncDP3Src, decodeDP3Src},

	// Loads and stores
	{0x3B000000, 0x18000000, EncLoadLiteral, decodeLoadLiteral},
	{0x3A000000, 0x28000000, EncLoadStorePair, decodeLoadStorePair},
	{0x3B000000, 0x39000000, EncLoadStoreUImm, decodeLoadStoreUImm},
	{0x3B200000, 0x38000000, EncLoadStoreImm9, decodeLoadStoreImm9},
	{0x3B200C00, 0x38200800, EncLoadStoreRegOffset, decodeLoadStoreRegOffset},
	{0x3F000000, 0x08000000, EncLoadStoreExclusive, decodeLoadStoreExclusive},
	{0xBFBF0000, 0x0C000000, EncSIMDLoadStoreMulti, decodeSIMDLoadStoreMulti},
	{0xBFA00000, 0x0C800000, EncSIMDLoadStoreMultiPost, decodeSIMDLoadStoreMulti},

	// Scalar floating point
	{0xFF201FE0, 0x1E201000, EncFPImm, decodeFPImm},
	{0xFF207C00, 0x1E204000, EncFP1Src, decodeFP1Src},
	{0xFF200C00, 0x1E200800, EncFP2Src, decodeFP2Src},
	{0xFF20FC07, 0x1E202000, EncFPCompare, decodeFPCompare},
	{0xFF200C00, 0x1E200C00, EncFPCondSelect, decodeFPCondSelect},
	{0x7F20FC00, 0x1E200000, EncFPIntConvert, decodeFPIntConvert},

	// Advanced SIMD
	{0x9F200400, 0x0E200400, EncSIMDThreeSame, decodeSIMDThreeSame},
	{0x9FE08400, 0x0E000400, EncSIMDCopy, decodeSIMDCopy},
	{0x9FF80400, 0x0F000400, EncSIMDModImm, decodeSIMDModImm},
}
