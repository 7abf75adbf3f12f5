package insts

import "fmt"

// SysReg is a system register selected by its op0, op1, CRn, CRm and op2
// fields.
type SysReg struct {
	Op0, Op1, CRn, CRm, Op2 uint8
}

// sysRegFromWord extracts the system register fields of MRS/MSR.
func sysRegFromWord(word uint32) SysReg {
	return SysReg{
		Op0: uint8(2 + Bit(word, 19)),
		Op1: uint8(Bits(word, 16, 3)),
		CRn: uint8(Bits(word, 12, 4)),
		CRm: uint8(Bits(word, 8, 4)),
		Op2: uint8(Bits(word, 5, 3)),
	}
}

// SysRegFromEncoding unpacks the 16-bit op0:op1:CRn:CRm:op2 encoding.
func SysRegFromEncoding(enc uint32) SysReg {
	return SysReg{
		Op0: uint8(Bits(enc, 14, 2)),
		Op1: uint8(Bits(enc, 11, 3)),
		CRn: uint8(Bits(enc, 7, 4)),
		CRm: uint8(Bits(enc, 3, 4)),
		Op2: uint8(Bits(enc, 0, 3)),
	}
}

// Encoding packs the register into its 16-bit op0:op1:CRn:CRm:op2 form.
func (s SysReg) Encoding() uint32 {
	return uint32(s.Op0&3)<<14 | uint32(s.Op1&7)<<11 | uint32(s.CRn&0xF)<<7 |
		uint32(s.CRm&0xF)<<3 | uint32(s.Op2&7)
}

// ImplementationDefined reports whether the register lies in the
// IMPLEMENTATION DEFINED space (op0 == 3, CRn 11 or 15).
func (s SysReg) ImplementationDefined() bool {
	return s.Op0 == 3 && (s.CRn == 11 || s.CRn == 15)
}

// GenericName returns the s<op0>_<op1>_c<n>_c<m>_<op2> spelling.
func (s SysReg) GenericName() string {
	return fmt.Sprintf("s%d_%d_c%d_c%d_%d", s.Op0, s.Op1, s.CRn, s.CRm, s.Op2)
}

// String returns the architectural name, or the generic spelling when the
// register is not in the name table.
func (s SysReg) String() string {
	if name, ok := sysRegNames[s.Encoding()]; ok {
		return name
	}
	return s.GenericName()
}

func sr(op0, op1, crn, crm, op2 uint8) uint32 {
	return SysReg{op0, op1, crn, crm, op2}.Encoding()
}

var sysRegNames = map[uint32]string{
	sr(3, 0, 0, 0, 0):   "midr_el1",
	sr(3, 0, 0, 0, 5):   "mpidr_el1",
	sr(3, 0, 0, 0, 6):   "revidr_el1",
	sr(3, 0, 0, 4, 0):   "id_aa64pfr0_el1",
	sr(3, 0, 0, 4, 1):   "id_aa64pfr1_el1",
	sr(3, 0, 0, 6, 0):   "id_aa64isar0_el1",
	sr(3, 0, 0, 6, 1):   "id_aa64isar1_el1",
	sr(3, 0, 0, 7, 0):   "id_aa64mmfr0_el1",
	sr(3, 0, 0, 7, 1):   "id_aa64mmfr1_el1",
	sr(3, 0, 1, 0, 0):   "sctlr_el1",
	sr(3, 0, 1, 0, 1):   "actlr_el1",
	sr(3, 0, 1, 0, 2):   "cpacr_el1",
	sr(3, 0, 2, 0, 0):   "ttbr0_el1",
	sr(3, 0, 2, 0, 1):   "ttbr1_el1",
	sr(3, 0, 2, 0, 2):   "tcr_el1",
	sr(3, 0, 4, 0, 0):   "spsr_el1",
	sr(3, 0, 4, 0, 1):   "elr_el1",
	sr(3, 0, 4, 1, 0):   "sp_el0",
	sr(3, 0, 4, 2, 0):   "spsel",
	sr(3, 0, 4, 2, 2):   "currentel",
	sr(3, 0, 4, 2, 3):   "pan",
	sr(3, 0, 4, 2, 4):   "uao",
	sr(3, 0, 4, 6, 0):   "icc_pmr_el1",
	sr(3, 0, 5, 1, 0):   "afsr0_el1",
	sr(3, 0, 5, 2, 0):   "esr_el1",
	sr(3, 0, 6, 0, 0):   "far_el1",
	sr(3, 0, 7, 4, 0):   "par_el1",
	sr(3, 0, 10, 2, 0):  "mair_el1",
	sr(3, 0, 10, 3, 0):  "amair_el1",
	sr(3, 0, 12, 0, 0):  "vbar_el1",
	sr(3, 0, 12, 1, 0):  "isr_el1",
	sr(3, 0, 13, 0, 1):  "contextidr_el1",
	sr(3, 0, 13, 0, 4):  "tpidr_el1",
	sr(3, 0, 14, 1, 0):  "cntkctl_el1",
	sr(3, 1, 0, 0, 0):   "ccsidr_el1",
	sr(3, 1, 0, 0, 1):   "clidr_el1",
	sr(3, 2, 0, 0, 0):   "csselr_el1",
	sr(3, 3, 0, 0, 1):   "ctr_el0",
	sr(3, 3, 0, 0, 7):   "dczid_el0",
	sr(3, 3, 4, 2, 0):   "nzcv",
	sr(3, 3, 4, 2, 1):   "daif",
	sr(3, 3, 4, 2, 5):   "dit",
	sr(3, 3, 4, 2, 6):   "ssbs",
	sr(3, 3, 4, 4, 0):   "fpcr",
	sr(3, 3, 4, 4, 1):   "fpsr",
	sr(3, 3, 4, 5, 0):   "dspsr_el0",
	sr(3, 3, 4, 5, 1):   "dlr_el0",
	sr(3, 3, 9, 12, 0):  "pmcr_el0",
	sr(3, 3, 9, 13, 0):  "pmccntr_el0",
	sr(3, 3, 13, 0, 2):  "tpidr_el0",
	sr(3, 3, 13, 0, 3):  "tpidrro_el0",
	sr(3, 3, 14, 0, 0):  "cntfrq_el0",
	sr(3, 3, 14, 0, 1):  "cntpct_el0",
	sr(3, 3, 14, 0, 2):  "cntvct_el0",
	sr(3, 3, 14, 2, 0):  "cntp_tval_el0",
	sr(3, 3, 14, 2, 1):  "cntp_ctl_el0",
	sr(3, 3, 14, 2, 2):  "cntp_cval_el0",
	sr(3, 3, 14, 3, 0):  "cntv_tval_el0",
	sr(3, 3, 14, 3, 1):  "cntv_ctl_el0",
	sr(3, 3, 14, 3, 2):  "cntv_cval_el0",
	sr(3, 4, 0, 0, 0):   "vpidr_el2",
	sr(3, 4, 0, 0, 5):   "vmpidr_el2",
	sr(3, 4, 1, 0, 0):   "sctlr_el2",
	sr(3, 4, 1, 0, 1):   "actlr_el2",
	sr(3, 4, 1, 1, 0):   "hcr_el2",
	sr(3, 4, 1, 1, 1):   "mdcr_el2",
	sr(3, 4, 1, 1, 2):   "cptr_el2",
	sr(3, 4, 1, 1, 3):   "hstr_el2",
	sr(3, 4, 2, 0, 0):   "ttbr0_el2",
	sr(3, 4, 2, 0, 2):   "tcr_el2",
	sr(3, 4, 2, 1, 0):   "vttbr_el2",
	sr(3, 4, 2, 1, 2):   "vtcr_el2",
	sr(3, 4, 4, 0, 0):   "spsr_el2",
	sr(3, 4, 4, 0, 1):   "elr_el2",
	sr(3, 4, 4, 1, 0):   "sp_el1",
	sr(3, 4, 5, 2, 0):   "esr_el2",
	sr(3, 4, 6, 0, 0):   "far_el2",
	sr(3, 4, 6, 0, 4):   "hpfar_el2",
	sr(3, 4, 10, 2, 0):  "mair_el2",
	sr(3, 4, 12, 0, 0):  "vbar_el2",
	sr(3, 4, 13, 0, 2):  "tpidr_el2",
	sr(3, 4, 14, 0, 3):  "cntvoff_el2",
	sr(3, 4, 14, 1, 0):  "cnthctl_el2",
	sr(3, 6, 1, 0, 0):   "sctlr_el3",
	sr(3, 6, 1, 0, 1):   "actlr_el3",
	sr(3, 6, 1, 1, 0):   "scr_el3",
	sr(3, 6, 1, 1, 2):   "cptr_el3",
	sr(3, 6, 1, 3, 1):   "mdcr_el3",
	sr(3, 6, 2, 0, 0):   "ttbr0_el3",
	sr(3, 6, 2, 0, 2):   "tcr_el3",
	sr(3, 6, 4, 0, 0):   "spsr_el3",
	sr(3, 6, 4, 0, 1):   "elr_el3",
	sr(3, 6, 4, 1, 0):   "sp_el2",
	sr(3, 6, 5, 2, 0):   "esr_el3",
	sr(3, 6, 6, 0, 0):   "far_el3",
	sr(3, 6, 10, 2, 0):  "mair_el3",
	sr(3, 6, 12, 0, 0):  "vbar_el3",
	sr(3, 6, 13, 0, 2):  "tpidr_el3",
	sr(3, 7, 14, 2, 0):  "cntps_tval_el1",
	sr(3, 7, 14, 2, 1):  "cntps_ctl_el1",
	sr(3, 7, 14, 2, 2):  "cntps_cval_el1",
	sr(2, 0, 0, 2, 2):   "mdscr_el1",
	sr(2, 0, 1, 0, 4):   "oslar_el1",
	sr(2, 3, 0, 4, 0):   "dbgdtr_el0",
	sr(2, 3, 0, 5, 0):   "dbgdtrrx_el0",
	sr(2, 4, 0, 7, 0):   "dbgvcr32_el2",
	sr(3, 0, 12, 12, 0): "icc_iar1_el1",
	sr(3, 0, 12, 12, 1): "icc_eoir1_el1",
	sr(3, 0, 12, 12, 7): "icc_igrpen1_el1",
}

// pstateFields names the PSTATE fields writable by MSR (immediate), keyed by
// op1<<3 | op2.
var pstateFields = map[uint32]string{
	0<<3 | 3: "uao",
	0<<3 | 4: "pan",
	0<<3 | 5: "spsel",
	3<<3 | 1: "ssbs",
	3<<3 | 2: "dit",
	3<<3 | 4: "tco",
	3<<3 | 6: "daifset",
	3<<3 | 7: "daifclr",
}
