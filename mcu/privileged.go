package mcu

// Privileged words are the two fixed-encoding M-mode instructions MRET
// and WFI; everything else in the SYSTEM opcode space (ECALL, EBREAK,
// the CSR instructions) is decoded as part of RV32I's System sub-family.
const (
	wordMRET = 0x30200073
	wordWFI  = 0x10500073
)

func decodePrivileged(word uint32) (Instruction, bool) {
	switch word {
	case wordMRET:
		return Instruction{Mnemonic: MRET}, true
	case wordWFI:
		return Instruction{Mnemonic: WFI}, true
	default:
		return Instruction{}, false
	}
}

// execMRET restores mstatus.MIE from MPIE, sets MPIE back to 1, jumps to
// mepc, and resets the interrupt controller to drain any stale pending
// interrupts belonging to the handler that just completed.
func execMRET(m *MCU) (uint32, error) {
	m.CPU.mret()
	mepc, _ := m.CPU.GetCSR(csrMepc)
	m.CPU.PC = mepc
	m.IntCtrl.Reset(m.CPU)
	return 1, nil
}

// execWFI sets the WFI latch; the tick loop observes it on the next tick
// and stalls fetch/decode/execute until an interrupt is taken.
func execWFI(m *MCU) (uint32, error) {
	m.CPU.WFI = true
	return 1, nil
}
