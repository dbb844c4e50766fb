package mcu

func decodeRV32I(word uint32) (Instruction, bool, error) {
	switch opcodeOf(word) {
	case opLUI:
		f := decodeU(word)
		return Instruction{Mnemonic: LUI, Rd: f.Rd, Imm: f.Imm}, true, nil
	case opAUIPC:
		f := decodeU(word)
		return Instruction{Mnemonic: AUIPC, Rd: f.Rd, Imm: f.Imm}, true, nil
	case opJAL:
		f := decodeJ(word)
		return Instruction{Mnemonic: JAL, Rd: f.Rd, Imm: f.Imm}, true, nil
	case opJALR:
		f := decodeI(word)
		if f.Funct3 != 0 {
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
		return Instruction{Mnemonic: JALR, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case opBranch:
		f := decodeB(word)
		m, ok := branchMnemonic(f.Funct3)
		if !ok {
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
		return Instruction{Mnemonic: m, Rs1: f.Rs1, Rs2: f.Rs2, Imm: f.Imm}, true, nil
	case opLoad:
		f := decodeI(word)
		m, ok := loadMnemonic(f.Funct3)
		if !ok {
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
		return Instruction{Mnemonic: m, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case opStore:
		f := decodeS(word)
		m, ok := storeMnemonic(f.Funct3)
		if !ok {
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
		return Instruction{Mnemonic: m, Rs1: f.Rs1, Rs2: f.Rs2, Imm: f.Imm}, true, nil
	case opImm:
		return decodeOpImm(word)
	case opOp:
		return decodeOp(word)
	case opMiscMem:
		f := decodeI(word)
		switch f.Funct3 {
		case 0:
			return Instruction{Mnemonic: FENCE}, true, nil
		case 1:
			return Instruction{Mnemonic: FENCEI}, true, nil
		default:
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
	case opSystem:
		return decodeSystem(word)
	default:
		return Instruction{}, false, exceptionTrap(IllegalInstruction)
	}
}

func branchMnemonic(funct3 uint32) (Mnemonic, bool) {
	switch funct3 {
	case 0:
		return BEQ, true
	case 1:
		return BNE, true
	case 4:
		return BLT, true
	case 5:
		return BGE, true
	case 6:
		return BLTU, true
	case 7:
		return BGEU, true
	default:
		return 0, false
	}
}

func loadMnemonic(funct3 uint32) (Mnemonic, bool) {
	switch funct3 {
	case 0:
		return LB, true
	case 1:
		return LH, true
	case 2:
		return LW, true
	case 4:
		return LBU, true
	case 5:
		return LHU, true
	default:
		return 0, false
	}
}

func storeMnemonic(funct3 uint32) (Mnemonic, bool) {
	switch funct3 {
	case 0:
		return SB, true
	case 1:
		return SH, true
	case 2:
		return SW, true
	default:
		return 0, false
	}
}

func decodeOpImm(word uint32) (Instruction, bool, error) {
	f := decodeI(word)
	switch f.Funct3 {
	case 0:
		return Instruction{Mnemonic: ADDI, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 2:
		return Instruction{Mnemonic: SLTI, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 3:
		return Instruction{Mnemonic: SLTIU, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 4:
		return Instruction{Mnemonic: XORI, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 6:
		return Instruction{Mnemonic: ORI, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 7:
		return Instruction{Mnemonic: ANDI, Rd: f.Rd, Rs1: f.Rs1, Imm: f.Imm}, true, nil
	case 1:
		hi := (uint32(f.Imm) >> 5) & 0x7F
		if hi != 0 {
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
		return Instruction{Mnemonic: SLLI, Rd: f.Rd, Rs1: f.Rs1, Shamt: uint32(f.Imm) & 0x1F}, true, nil
	case 5:
		hi := (uint32(f.Imm) >> 5) & 0x7F
		shamt := uint32(f.Imm) & 0x1F
		switch hi {
		case 0x00:
			return Instruction{Mnemonic: SRLI, Rd: f.Rd, Rs1: f.Rs1, Shamt: shamt}, true, nil
		case 0x20:
			return Instruction{Mnemonic: SRAI, Rd: f.Rd, Rs1: f.Rs1, Shamt: shamt}, true, nil
		default:
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
	default:
		return Instruction{}, false, exceptionTrap(IllegalInstruction)
	}
}

func decodeOp(word uint32) (Instruction, bool, error) {
	f := decodeR(word)
	illegal := func() (Instruction, bool, error) {
		return Instruction{}, false, exceptionTrap(IllegalInstruction)
	}
	switch f.Funct3 {
	case 0:
		switch f.Funct7 {
		case 0x00:
			return Instruction{Mnemonic: ADD, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
		case 0x20:
			return Instruction{Mnemonic: SUB, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
		default:
			return illegal()
		}
	case 1:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: SLL, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	case 2:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: SLT, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	case 3:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: SLTU, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	case 4:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: XOR, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	case 5:
		switch f.Funct7 {
		case 0x00:
			return Instruction{Mnemonic: SRL, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
		case 0x20:
			return Instruction{Mnemonic: SRA, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
		default:
			return illegal()
		}
	case 6:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: OR, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	case 7:
		if f.Funct7 != 0 {
			return illegal()
		}
		return Instruction{Mnemonic: AND, Rd: f.Rd, Rs1: f.Rs1, Rs2: f.Rs2}, true, nil
	default:
		return illegal()
	}
}

func decodeSystem(word uint32) (Instruction, bool, error) {
	f := decodeI(word)
	csrAddr := (word >> 20) & 0xFFF
	switch f.Funct3 {
	case 0:
		switch csrAddr {
		case 0x000:
			return Instruction{Mnemonic: ECALL}, true, nil
		case 0x001:
			return Instruction{Mnemonic: EBREAK}, true, nil
		default:
			return Instruction{}, false, exceptionTrap(IllegalInstruction)
		}
	case 1:
		return Instruction{Mnemonic: CSRRW, Rd: f.Rd, Rs1: f.Rs1, CSR: csrAddr}, true, nil
	case 2:
		return Instruction{Mnemonic: CSRRS, Rd: f.Rd, Rs1: f.Rs1, CSR: csrAddr}, true, nil
	case 3:
		return Instruction{Mnemonic: CSRRC, Rd: f.Rd, Rs1: f.Rs1, CSR: csrAddr}, true, nil
	case 5:
		return Instruction{Mnemonic: CSRRWI, Rd: f.Rd, Imm: int32(f.Rs1), CSR: csrAddr}, true, nil
	case 6:
		return Instruction{Mnemonic: CSRRSI, Rd: f.Rd, Imm: int32(f.Rs1), CSR: csrAddr}, true, nil
	case 7:
		return Instruction{Mnemonic: CSRRCI, Rd: f.Rd, Imm: int32(f.Rs1), CSR: csrAddr}, true, nil
	default:
		return Instruction{}, false, exceptionTrap(IllegalInstruction)
	}
}

// encodeRV32I reconstructs the 32-bit word for every non-privileged
// mnemonic by rebuilding the owning format's fields and calling its
// encode method.
func encodeRV32I(inst Instruction) uint32 {
	switch inst.Mnemonic {
	case LUI:
		return UFormat{Opcode: opLUI, Rd: inst.Rd, Imm: inst.Imm}.encode()
	case AUIPC:
		return UFormat{Opcode: opAUIPC, Rd: inst.Rd, Imm: inst.Imm}.encode()
	case JAL:
		return JFormat{Opcode: opJAL, Rd: inst.Rd, Imm: inst.Imm}.encode()
	case JALR:
		return IFormat{Opcode: opJALR, Rd: inst.Rd, Rs1: inst.Rs1, Imm: inst.Imm}.encode()
	case BEQ, BNE, BLT, BGE, BLTU, BGEU:
		funct3 := map[Mnemonic]uint32{BEQ: 0, BNE: 1, BLT: 4, BGE: 5, BLTU: 6, BGEU: 7}[inst.Mnemonic]
		return BFormat{Opcode: opBranch, Funct3: funct3, Rs1: inst.Rs1, Rs2: inst.Rs2, Imm: inst.Imm}.encode()
	case LB, LH, LW, LBU, LHU:
		funct3 := map[Mnemonic]uint32{LB: 0, LH: 1, LW: 2, LBU: 4, LHU: 5}[inst.Mnemonic]
		return IFormat{Opcode: opLoad, Funct3: funct3, Rd: inst.Rd, Rs1: inst.Rs1, Imm: inst.Imm}.encode()
	case SB, SH, SW:
		funct3 := map[Mnemonic]uint32{SB: 0, SH: 1, SW: 2}[inst.Mnemonic]
		return SFormat{Opcode: opStore, Funct3: funct3, Rs1: inst.Rs1, Rs2: inst.Rs2, Imm: inst.Imm}.encode()
	case ADDI, SLTI, SLTIU, XORI, ORI, ANDI:
		funct3 := map[Mnemonic]uint32{ADDI: 0, SLTI: 2, SLTIU: 3, XORI: 4, ORI: 6, ANDI: 7}[inst.Mnemonic]
		return IFormat{Opcode: opImm, Funct3: funct3, Rd: inst.Rd, Rs1: inst.Rs1, Imm: inst.Imm}.encode()
	case SLLI:
		return IFormat{Opcode: opImm, Funct3: 1, Rd: inst.Rd, Rs1: inst.Rs1, Imm: int32(inst.Shamt)}.encode()
	case SRLI:
		return IFormat{Opcode: opImm, Funct3: 5, Rd: inst.Rd, Rs1: inst.Rs1, Imm: int32(inst.Shamt)}.encode()
	case SRAI:
		return IFormat{Opcode: opImm, Funct3: 5, Rd: inst.Rd, Rs1: inst.Rs1, Imm: int32(inst.Shamt | 0x20<<5)}.encode()
	case ADD, SLL, SLT, SLTU, XOR, SRL, OR, AND, SUB, SRA:
		type rinfo struct {
			funct3, funct7 uint32
		}
		info := map[Mnemonic]rinfo{
			ADD: {0, 0x00}, SUB: {0, 0x20}, SLL: {1, 0}, SLT: {2, 0}, SLTU: {3, 0},
			XOR: {4, 0}, SRL: {5, 0x00}, SRA: {5, 0x20}, OR: {6, 0}, AND: {7, 0},
		}[inst.Mnemonic]
		return RFormat{Opcode: opOp, Funct3: info.funct3, Rd: inst.Rd, Rs1: inst.Rs1, Rs2: inst.Rs2, Funct7: info.funct7}.encode()
	case FENCE:
		return IFormat{Opcode: opMiscMem, Funct3: 0}.encode()
	case FENCEI:
		return IFormat{Opcode: opMiscMem, Funct3: 1}.encode()
	case ECALL:
		return IFormat{Opcode: opSystem, Funct3: 0, Imm: 0x000}.encode()
	case EBREAK:
		return IFormat{Opcode: opSystem, Funct3: 0, Imm: 0x001}.encode()
	case CSRRW, CSRRS, CSRRC:
		funct3 := map[Mnemonic]uint32{CSRRW: 1, CSRRS: 2, CSRRC: 3}[inst.Mnemonic]
		return IFormat{Opcode: opSystem, Funct3: funct3, Rd: inst.Rd, Rs1: inst.Rs1, Imm: int32(inst.CSR)}.encode()
	case CSRRWI, CSRRSI, CSRRCI:
		funct3 := map[Mnemonic]uint32{CSRRWI: 5, CSRRSI: 6, CSRRCI: 7}[inst.Mnemonic]
		return IFormat{Opcode: opSystem, Funct3: funct3, Rd: inst.Rd, Rs1: uint32(inst.Imm), Imm: int32(inst.CSR)}.encode()
	default:
		return 0
	}
}
