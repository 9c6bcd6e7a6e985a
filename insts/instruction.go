package insts

// Instruction is a raw RV32I machine word with positional field accessors.
type Instruction uint32

// Opcode returns bits [6:0].
func (i Instruction) Opcode() Opcode {
	return Opcode(i & 0x7F)
}

// Rd returns the destination register index, bits [11:7].
func (i Instruction) Rd() uint8 {
	return uint8((i >> 7) & 0x1F)
}

// Funct3 returns bits [14:12].
func (i Instruction) Funct3() uint8 {
	return uint8((i >> 12) & 0x7)
}

// Rs1 returns the first source register index, bits [19:15].
func (i Instruction) Rs1() uint8 {
	return uint8((i >> 15) & 0x1F)
}

// Rs2 returns the second source register index, bits [24:20].
func (i Instruction) Rs2() uint8 {
	return uint8((i >> 20) & 0x1F)
}

// Funct7 returns bits [31:25].
func (i Instruction) Funct7() uint8 {
	return uint8((i >> 25) & 0x7F)
}

// Bit30 reports whether bit 30 is set. It separates SUB from ADD and SRA
// from SRL.
func (i Instruction) Bit30() bool {
	return (i>>30)&0x1 == 1
}

// Imm returns the sign-extended immediate for the given format.
func (i Instruction) Imm(src ImmSrc) uint32 {
	w := uint32(i)

	switch src {
	case ImmI:
		// imm[11:0] = inst[31:20]
		return uint32(int32(w) >> 20)
	case ImmS:
		// imm[11:5] = inst[31:25], imm[4:0] = inst[11:7]
		return uint32(int32(w&0xFE000000)>>20) | (w>>7)&0x1F
	case ImmB:
		// imm[12|10:5] = inst[31|30:25], imm[4:1|11] = inst[11:8|7]
		imm := uint32(int32(w&0x80000000) >> 19) // imm[31:12]
		imm |= (w << 4) & 0x800                  // imm[11]
		imm |= (w >> 20) & 0x7E0                 // imm[10:5]
		imm |= (w >> 7) & 0x1E                   // imm[4:1]
		return imm
	case ImmU:
		return w & 0xFFFFF000
	case ImmJ:
		// imm[20|10:1|11|19:12] = inst[31|30:21|20|19:12]
		imm := uint32(int32(w&0x80000000) >> 11) // imm[31:20]
		imm |= w & 0xFF000                       // imm[19:12]
		imm |= (w >> 9) & 0x800                  // imm[11]
		imm |= (w >> 20) & 0x7FE                 // imm[10:1]
		return imm
	default:
		return 0
	}
}
