package mcu

// CSR addresses. Only these eight are modeled; any other address raises
// Illegal Instruction, following the original implementation's
// fixed-size csr array mapped through a small translation function.
const (
	csrMstatus  = 0x300
	csrMie      = 0x304
	csrMtvec    = 0x305
	csrMscratch = 0x340
	csrMepc     = 0x341
	csrMcause   = 0x342
	csrMtval    = 0x343
	csrMip      = 0x344
)

// Exported aliases of the modeled CSR addresses, for callers outside this
// package (the monitor) that need to read CPU state through GetCSR
// without duplicating the address table.
const (
	CSRMstatus  = csrMstatus
	CSRMie      = csrMie
	CSRMtvec    = csrMtvec
	CSRMscratch = csrMscratch
	CSRMepc     = csrMepc
	CSRMcause   = csrMcause
	CSRMtval    = csrMtval
	CSRMip      = csrMip
)

// mstatusMIE and mstatusMPIE are the two mstatus bits this model tracks.
const (
	mstatusMIE  = 1 << 3
	mstatusMPIE = 1 << 7
)

// CPU holds the integer register file, program counter, the eight
// modeled CSRs and the WFI latch.
type CPU struct {
	x    [32]uint32
	PC   uint32
	csr  [8]uint32
	WFI  bool
}

// NewCPU returns a CPU reset to its power-on state.
func NewCPU() *CPU {
	return &CPU{}
}

// GetX returns register i; x0 always reads as zero.
func (c *CPU) GetX(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return c.x[i]
}

// SetX writes register i; writes to x0 are silently discarded.
func (c *CPU) SetX(i uint32, v uint32) {
	if i == 0 {
		return
	}
	c.x[i] = v
}

func csrIndex(addr uint32) (int, bool) {
	switch addr {
	case csrMstatus:
		return 0, true
	case csrMie:
		return 1, true
	case csrMtvec:
		return 2, true
	case csrMscratch:
		return 3, true
	case csrMepc:
		return 4, true
	case csrMcause:
		return 5, true
	case csrMtval:
		return 6, true
	case csrMip:
		return 7, true
	default:
		return 0, false
	}
}

// GetCSR reads a modeled CSR, raising Illegal Instruction for unmapped
// addresses.
func (c *CPU) GetCSR(addr uint32) (uint32, error) {
	idx, ok := csrIndex(addr)
	if !ok {
		return 0, exceptionTrap(IllegalInstruction)
	}
	return c.csr[idx], nil
}

// SetCSR writes a modeled CSR, raising Illegal Instruction for unmapped
// addresses. The CSR is left unchanged when the address is unmapped.
func (c *CPU) SetCSR(addr uint32, v uint32) error {
	idx, ok := csrIndex(addr)
	if !ok {
		return exceptionTrap(IllegalInstruction)
	}
	c.csr[idx] = v
	return nil
}

// GetPendingInterrupt inspects mie AND mip and returns the highest-priority
// enabled, pending machine-mode interrupt, following the total order
// ExternalM > SoftM > TimerM (the supervisor variants are never set in
// this model). When the result is MSoftInterrupt the corresponding mip
// bit is cleared here, since machine software interrupts are
// edge-triggered; timer and external bits are cleared elsewhere in the
// trap/claim path.
func (c *CPU) GetPendingInterrupt() (InterruptKind, bool) {
	mie := c.csr[1]
	mip := c.csr[7]

	enabled := func(kind InterruptKind) bool {
		bit := uint32(1) << uint32(kind)
		return mie&bit != 0 && mip&bit != 0
	}

	switch {
	case enabled(MExternalInterrupt):
		return MExternalInterrupt, true
	case enabled(MSoftInterrupt):
		c.csr[7] = mip &^ (1 << uint32(MSoftInterrupt))
		return MSoftInterrupt, true
	case enabled(MTimerInterrupt):
		return MTimerInterrupt, true
	default:
		return 0, false
	}
}

// MIE reports whether mstatus.MIE (bit 3) is set.
func (c *CPU) MIE() bool {
	return c.csr[0]&mstatusMIE != 0
}

// enterTrap moves mstatus.MIE into mstatus.MPIE and clears MIE.
func (c *CPU) enterTrap() {
	mstatus := c.csr[0]
	mie := mstatus & mstatusMIE
	mstatus = mstatus &^ mstatusMIE
	mstatus = mstatus &^ mstatusMPIE
	if mie != 0 {
		mstatus |= mstatusMPIE
	}
	c.csr[0] = mstatus
}

// mret restores mstatus.MIE from MPIE and sets MPIE back to 1.
func (c *CPU) mret() {
	mstatus := c.csr[0]
	mpie := mstatus & mstatusMPIE
	mstatus = mstatus &^ mstatusMIE
	if mpie != 0 {
		mstatus |= mstatusMIE
	}
	mstatus |= mstatusMPIE
	c.csr[0] = mstatus
}
