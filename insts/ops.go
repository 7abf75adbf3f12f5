package insts

// Op identifies a decoded operation at the mnemonic level.
type Op uint16

// Operations.
const (
	OpUnknown Op = iota

	// Data processing
	OpADD
	OpADDS
	OpSUB
	OpSUBS
	OpCMP
	OpCMN
	OpMOV
	OpMOVZ
	OpMOVN
	OpMOVK
	OpAND
	OpANDS
	OpORR
	OpORN
	OpEOR
	OpEON
	OpBIC
	OpBICS
	OpTST
	OpMVN
	OpNEG
	OpNEGS
	OpADC
	OpADCS
	OpSBC
	OpSBCS
	OpNGC
	OpNGCS
	OpADR
	OpADRP

	// Bitfield and shifts
	OpSBFM
	OpBFM
	OpUBFM
	OpASR
	OpLSL
	OpLSR
	OpROR
	OpSBFIZ
	OpSBFX
	OpUBFIZ
	OpUBFX
	OpBFI
	OpBFXIL
	OpSXTB
	OpSXTH
	OpSXTW
	OpUXTB
	OpUXTH
	OpEXTR

	// Conditional
	OpCCMN
	OpCCMP
	OpCSEL
	OpCSINC
	OpCSINV
	OpCSNEG
	OpCSET
	OpCSETM
	OpCINC
	OpCINV
	OpCNEG

	// Multiply, divide and bit manipulation
	OpUDIV
	OpSDIV
	OpLSLV
	OpLSRV
	OpASRV
	OpRORV
	OpRBIT
	OpREV16
	OpREV32
	OpREV
	OpCLZ
	OpCLS
	OpMADD
	OpMSUB
	OpMUL
	OpMNEG
	OpSMADDL
	OpSMSUBL
	OpSMULL
	OpSMNEGL
	OpSMULH
	OpUMADDL
	OpUMSUBL
	OpUMULL
	OpUMNEGL
	OpUMULH

	// Branches
	OpB
	OpBL
	OpBCond
	OpBR
	OpBLR
	OpRET
	OpERET
	OpDRPS
	OpCBZ
	OpCBNZ
	OpTBZ
	OpTBNZ

	// Exceptions and system
	OpSVC
	OpHVC
	OpSMC
	OpBRK
	OpHLT
	OpDCPS1
	OpDCPS2
	OpDCPS3
	OpUDF
	OpNOP
	OpYIELD
	OpWFE
	OpWFI
	OpSEV
	OpSEVL
	OpDGH
	OpESB
	OpPSB
	OpTSB
	OpCSDB
	OpBTI
	OpHINT
	OpCLREX
	OpDSB
	OpDMB
	OpISB
	OpSB
	OpSSBB
	OpPSSBB
	OpMSR
	OpMRS
	OpSYS
	OpSYSL
	OpDC
	OpIC

	// Loads and stores
	OpLDR
	OpLDRB
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpLDRSW
	OpSTR
	OpSTRB
	OpSTRH
	OpLDUR
	OpLDURB
	OpLDURH
	OpLDURSB
	OpLDURSH
	OpLDURSW
	OpSTUR
	OpSTURB
	OpSTURH
	OpLDTR
	OpLDTRB
	OpLDTRH
	OpLDTRSB
	OpLDTRSH
	OpLDTRSW
	OpSTTR
	OpSTTRB
	OpSTTRH
	OpPRFM
	OpPRFUM
	OpLDP
	OpSTP
	OpLDPSW
	OpLDNP
	OpSTNP

	// Exclusive and ordered
	OpLDXR
	OpLDXRB
	OpLDXRH
	OpSTXR
	OpSTXRB
	OpSTXRH
	OpLDAXR
	OpLDAXRB
	OpLDAXRH
	OpSTLXR
	OpSTLXRB
	OpSTLXRH
	OpLDAR
	OpLDARB
	OpLDARH
	OpSTLR
	OpSTLRB
	OpSTLRH

	// SIMD structure loads and stores
	OpLD1
	OpLD2
	OpLD3
	OpLD4
	OpST1
	OpST2
	OpST3
	OpST4

	// Floating point
	OpFMOV
	OpFADD
	OpFSUB
	OpFMUL
	OpFDIV
	OpFMAX
	OpFMIN
	OpFMAXNM
	OpFMINNM
	OpFNMUL
	OpFCMP
	OpFCMPE
	OpFCSEL
	OpFABS
	OpFNEG
	OpFSQRT
	OpFCVT
	OpSCVTF
	OpUCVTF
	OpFCVTZS
	OpFCVTZU

	// SIMD
	OpBSL
	OpBIT
	OpBIF
	OpCMTST
	OpCMEQ
	OpCMGT
	OpCMHI
	OpCMGE
	OpCMHS
	OpDUP
	OpINS
	OpUMOV
	OpSMOV
	OpMOVI
	OpMVNI

	opCount
)

var opMnemonics = [opCount]string{
	OpUnknown: "unknown",
	OpADD:     "add",
	OpADDS:    "adds",
	OpSUB:     "sub",
	OpSUBS:    "subs",
	OpCMP:     "cmp",
	OpCMN:     "cmn",
	OpMOV:     "mov",
	OpMOVZ:    "movz",
	OpMOVN:    "movn",
	OpMOVK:    "movk",
	OpAND:     "and",
	OpANDS:    "ands",
	OpORR:     "orr",
	OpORN:     "orn",
	OpEOR:     "eor",
	OpEON:     "eon",
	OpBIC:     "bic",
	OpBICS:    "bics",
	OpTST:     "tst",
	OpMVN:     "mvn",
	OpNEG:     "neg",
	OpNEGS:    "negs",
	OpADC:     "adc",
	OpADCS:    "adcs",
	OpSBC:     "sbc",
	OpSBCS:    "sbcs",
	OpNGC:     "ngc",
	OpNGCS:    "ngcs",
	OpADR:     "adr",
	OpADRP:    "adrp",
	OpSBFM:    "sbfm",
	OpBFM:     "bfm",
	OpUBFM:    "ubfm",
	OpASR:     "asr",
	OpLSL:     "lsl",
	OpLSR:     "lsr",
	OpROR:     "ror",
	OpSBFIZ:   "sbfiz",
	OpSBFX:    "sbfx",
	OpUBFIZ:   "ubfiz",
	OpUBFX:    "ubfx",
	OpBFI:     "bfi",
	OpBFXIL:   "bfxil",
	OpSXTB:    "sxtb",
	OpSXTH:    "sxth",
	OpSXTW:    "sxtw",
	OpUXTB:    "uxtb",
	OpUXTH:    "uxth",
	OpEXTR:    "extr",
	OpCCMN:    "ccmn",
	OpCCMP:    "ccmp",
	OpCSEL:    "csel",
	OpCSINC:   "csinc",
	OpCSINV:   "csinv",
	OpCSNEG:   "csneg",
	OpCSET:    "cset",
	OpCSETM:   "csetm",
	OpCINC:    "cinc",
	OpCINV:    "cinv",
	OpCNEG:    "cneg",
	OpUDIV:    "udiv",
	OpSDIV:    "sdiv",
	OpLSLV:    "lslv",
	OpLSRV:    "lsrv",
	OpASRV:    "asrv",
	OpRORV:    "rorv",
	OpRBIT:    "rbit",
	OpREV16:   "rev16",
	OpREV32:   "rev32",
	OpREV:     "rev",
	OpCLZ:     "clz",
	OpCLS:     "cls",
	OpMADD:    "madd",
	OpMSUB:    "msub",
	OpMUL:     "mul",
	OpMNEG:    "mneg",
	OpSMADDL:  "smaddl",
	OpSMSUBL:  "smsubl",
	OpSMULL:   "smull",
	OpSMNEGL:  "smnegl",
	OpSMULH:   "smulh",
	OpUMADDL:  "umaddl",
	OpUMSUBL:  "umsubl",
	OpUMULL:   "umull",
	OpUMNEGL:  "umnegl",
	OpUMULH:   "umulh",
	OpB:       "b",
	OpBL:      "bl",
	OpBCond:   "b",
	OpBR:      "br",
	OpBLR:     "blr",
	OpRET:     "ret",
	OpERET:    "eret",
	OpDRPS:    "drps",
	OpCBZ:     "cbz",
	OpCBNZ:    "cbnz",
	OpTBZ:     "tbz",
	OpTBNZ:    "tbnz",
	OpSVC:     "svc",
	OpHVC:     "hvc",
	OpSMC:     "smc",
	OpBRK:     "brk",
	OpHLT:     "hlt",
	OpDCPS1:   "dcps1",
	OpDCPS2:   "dcps2",
	OpDCPS3:   "dcps3",
	OpUDF:     "udf",
	OpNOP:     "nop",
	OpYIELD:   "yield",
	OpWFE:     "wfe",
	OpWFI:     "wfi",
	OpSEV:     "sev",
	OpSEVL:    "sevl",
	OpDGH:     "dgh",
	OpESB:     "esb",
	OpPSB:     "psb",
	OpTSB:     "tsb",
	OpCSDB:    "csdb",
	OpBTI:     "bti",
	OpHINT:    "hint",
	OpCLREX:   "clrex",
	OpDSB:     "dsb",
	OpDMB:     "dmb",
	OpISB:     "isb",
	OpSB:      "sb",
	OpSSBB:    "ssbb",
	OpPSSBB:   "pssbb",
	OpMSR:     "msr",
	OpMRS:     "mrs",
	OpSYS:     "sys",
	OpSYSL:    "sysl",
	OpDC:      "dc",
	OpIC:      "ic",
	OpLDR:     "ldr",
	OpLDRB:    "ldrb",
	OpLDRH:    "ldrh",
	OpLDRSB:   "ldrsb",
	OpLDRSH:   "ldrsh",
	OpLDRSW:   "ldrsw",
	OpSTR:     "str",
	OpSTRB:    "strb",
	OpSTRH:    "strh",
	OpLDUR:    "ldur",
	OpLDURB:   "ldurb",
	OpLDURH:   "ldurh",
	OpLDURSB:  "ldursb",
	OpLDURSH:  "ldursh",
	OpLDURSW:  "ldursw",
	OpSTUR:    "stur",
	OpSTURB:   "sturb",
	OpSTURH:   "sturh",
	OpLDTR:    "ldtr",
	OpLDTRB:   "ldtrb",
	OpLDTRH:   "ldtrh",
	OpLDTRSB:  "ldtrsb",
	OpLDTRSH:  "ldtrsh",
	OpLDTRSW:  "ldtrsw",
	OpSTTR:    "sttr",
	OpSTTRB:   "sttrb",
	OpSTTRH:   "sttrh",
	OpPRFM:    "prfm",
	OpPRFUM:   "prfum",
	OpLDP:     "ldp",
	OpSTP:     "stp",
	OpLDPSW:   "ldpsw",
	OpLDNP:    "ldnp",
	OpSTNP:    "stnp",
	OpLDXR:    "ldxr",
	OpLDXRB:   "ldxrb",
	OpLDXRH:   "ldxrh",
	OpSTXR:    "stxr",
	OpSTXRB:   "stxrb",
	OpSTXRH:   "stxrh",
	OpLDAXR:   "ldaxr",
	OpLDAXRB:  "ldaxrb",
	OpLDAXRH:  "ldaxrh",
	OpSTLXR:   "stlxr",
	OpSTLXRB:  "stlxrb",
	OpSTLXRH:  "stlxrh",
	OpLDAR:    "ldar",
	OpLDARB:   "ldarb",
	OpLDARH:   "ldarh",
	OpSTLR:    "stlr",
	OpSTLRB:   "stlrb",
	OpSTLRH:   "stlrh",
	OpLD1:     "ld1",
	OpLD2:     "ld2",
	OpLD3:     "ld3",
	OpLD4:     "ld4",
	OpST1:     "st1",
	OpST2:     "st2",
	OpST3:     "st3",
	OpST4:     "st4",
	OpFMOV:    "fmov",
	OpFADD:    "fadd",
	OpFSUB:    "fsub",
	OpFMUL:    "fmul",
	OpFDIV:    "fdiv",
	OpFMAX:    "fmax",
	OpFMIN:    "fmin",
	OpFMAXNM:  "fmaxnm",
	OpFMINNM:  "fminnm",
	OpFNMUL:   "fnmul",
	OpFCMP:    "fcmp",
	OpFCMPE:   "fcmpe",
	OpFCSEL:   "fcsel",
	OpFABS:    "fabs",
	OpFNEG:    "fneg",
	OpFSQRT:   "fsqrt",
	OpFCVT:    "fcvt",
	OpSCVTF:   "scvtf",
	OpUCVTF:   "ucvtf",
	OpFCVTZS:  "fcvtzs",
	OpFCVTZU:  "fcvtzu",
	OpBSL:     "bsl",
	OpBIT:     "bit",
	OpBIF:     "bif",
	OpCMTST:   "cmtst",
	OpCMEQ:    "cmeq",
	OpCMGT:    "cmgt",
	OpCMHI:    "cmhi",
	OpCMGE:    "cmge",
	OpCMHS:    "cmhs",
	OpDUP:     "dup",
	OpINS:     "ins",
	OpUMOV:    "umov",
	OpSMOV:    "smov",
	OpMOVI:    "movi",
	OpMVNI:    "mvni",
}

// Mnemonic returns the lowercase assembler mnemonic of the operation.
// Conditional branches return "b"; the renderer appends the condition.
func (op Op) Mnemonic() string {
	if op < opCount {
		return opMnemonics[op]
	}
	return "unknown"
}

func (op Op) String() string {
	return op.Mnemonic()
}

// IsValid reports whether op names a decoded operation.
func (op Op) IsValid() bool {
	return op > OpUnknown && op < opCount
}
