package mcu

// Instruction formats decompose a 32-bit RISC-V word into its fixed bit
// fields. Decode never fails; encode is the inverse on the bits the
// format owns and leaves all other bits zero.

const (
	opcodeMask = 0x7F
	regMask    = 0x1F
	funct3Mask = 0x7
	funct7Mask = 0x7F
)

func opcodeOf(word uint32) uint32 { return word & opcodeMask }
func rdOf(word uint32) uint32     { return (word >> 7) & regMask }
func funct3Of(word uint32) uint32 { return (word >> 12) & funct3Mask }
func rs1Of(word uint32) uint32    { return (word >> 15) & regMask }
func rs2Of(word uint32) uint32    { return (word >> 20) & regMask }
func funct7Of(word uint32) uint32 { return (word >> 25) & funct7Mask }

// signExtend sign-extends the low `bits` bits of v to a full 32-bit value.
func signExtend(v uint32, bits uint) uint32 {
	shift := 32 - bits
	return uint32(int32(v<<shift) >> shift)
}

// RFormat is the register-register format: opcode, rd, funct3, rs1, rs2, funct7.
type RFormat struct {
	Opcode, Rd, Funct3, Rs1, Rs2, Funct7 uint32
}

func decodeR(word uint32) RFormat {
	return RFormat{
		Opcode: opcodeOf(word),
		Rd:     rdOf(word),
		Funct3: funct3Of(word),
		Rs1:    rs1Of(word),
		Rs2:    rs2Of(word),
		Funct7: funct7Of(word),
	}
}

func (f RFormat) encode() uint32 {
	return f.Opcode | f.Rd<<7 | f.Funct3<<12 | f.Rs1<<15 | f.Rs2<<20 | f.Funct7<<25
}

// IFormat is the immediate format: opcode, rd, funct3, rs1, 12-bit sign-extended imm.
type IFormat struct {
	Opcode, Rd, Funct3, Rs1 uint32
	Imm                     int32
}

func decodeI(word uint32) IFormat {
	imm := signExtend(word>>20, 12)
	return IFormat{
		Opcode: opcodeOf(word),
		Rd:     rdOf(word),
		Funct3: funct3Of(word),
		Rs1:    rs1Of(word),
		Imm:    int32(imm),
	}
}

func (f IFormat) encode() uint32 {
	return f.Opcode | f.Rd<<7 | f.Funct3<<12 | f.Rs1<<15 | (uint32(f.Imm)&0xFFF)<<20
}

// SFormat is the store format: opcode, funct3, rs1, rs2, 12-bit sign-extended imm.
type SFormat struct {
	Opcode, Funct3, Rs1, Rs2 uint32
	Imm                      int32
}

func decodeS(word uint32) SFormat {
	imm := (word>>7)&0x1F | (word>>25)<<5
	return SFormat{
		Opcode: opcodeOf(word),
		Funct3: funct3Of(word),
		Rs1:    rs1Of(word),
		Rs2:    rs2Of(word),
		Imm:    int32(signExtend(imm, 12)),
	}
}

func (f SFormat) encode() uint32 {
	imm := uint32(f.Imm) & 0xFFF
	return f.Opcode | (imm&0x1F)<<7 | f.Funct3<<12 | f.Rs1<<15 | f.Rs2<<20 | (imm>>5)<<25
}

// BFormat is the branch format: opcode, funct3, rs1, rs2, 13-bit sign-extended
// imm (bit 0 is always zero, not stored).
type BFormat struct {
	Opcode, Funct3, Rs1, Rs2 uint32
	Imm                      int32
}

func decodeB(word uint32) BFormat {
	imm := ((word >> 8) & 0xF << 1) | ((word >> 25) & 0x3F << 5) | ((word >> 7) & 0x1 << 11) | ((word >> 31) & 0x1 << 12)
	return BFormat{
		Opcode: opcodeOf(word),
		Funct3: funct3Of(word),
		Rs1:    rs1Of(word),
		Rs2:    rs2Of(word),
		Imm:    int32(signExtend(imm, 13)),
	}
}

func (f BFormat) encode() uint32 {
	imm := uint32(f.Imm)
	b11 := (imm >> 11) & 0x1
	b12 := (imm >> 12) & 0x1
	b1_4 := (imm >> 1) & 0xF
	b5_10 := (imm >> 5) & 0x3F
	return f.Opcode | b11<<7 | b1_4<<8 | f.Funct3<<12 | f.Rs1<<15 | f.Rs2<<20 | b5_10<<25 | b12<<31
}

// UFormat is the upper-immediate format: opcode, rd, 20-bit imm occupying bits 31..12.
type UFormat struct {
	Opcode, Rd uint32
	Imm        int32
}

func decodeU(word uint32) UFormat {
	return UFormat{
		Opcode: opcodeOf(word),
		Rd:     rdOf(word),
		Imm:    int32(word & 0xFFFFF000),
	}
}

func (f UFormat) encode() uint32 {
	return f.Opcode | f.Rd<<7 | (uint32(f.Imm) & 0xFFFFF000)
}

// JFormat is the jump format: opcode, rd, 21-bit sign-extended imm (bit 0 is
// always zero, not stored).
type JFormat struct {
	Opcode, Rd uint32
	Imm        int32
}

func decodeJ(word uint32) JFormat {
	imm := ((word >> 21) & 0x3FF << 1) | ((word >> 20) & 0x1 << 11) | ((word >> 12) & 0xFF << 12) | ((word >> 31) & 0x1 << 20)
	return JFormat{
		Opcode: opcodeOf(word),
		Rd:     rdOf(word),
		Imm:    int32(signExtend(imm, 21)),
	}
}

func (f JFormat) encode() uint32 {
	imm := uint32(f.Imm)
	b20 := (imm >> 20) & 0x1
	b10_1 := (imm >> 1) & 0x3FF
	b11 := (imm >> 11) & 0x1
	b19_12 := (imm >> 12) & 0xFF
	return f.Opcode | f.Rd<<7 | b19_12<<12 | b11<<20 | b10_1<<21 | b20<<31
}
