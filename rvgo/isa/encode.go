package isa

// Encoders build instruction words from their fields. They are the inverse of the
// field accessors and immediate decoders, and are used to hand-assemble programs.

func EncodeR(opcode, rd, funct3, rs1, rs2, funct7 uint32) Word {
	return Word(funct7&0x7F<<25 | rs2&0x1F<<20 | rs1&0x1F<<15 | funct3&0x7<<12 | rd&0x1F<<7 | opcode&0x7F)
}

func EncodeI(opcode, rd, funct3, rs1 uint32, imm int32) Word {
	return Word(uint32(imm)&0xFFF<<20 | rs1&0x1F<<15 | funct3&0x7<<12 | rd&0x1F<<7 | opcode&0x7F)
}

func EncodeS(opcode, funct3, rs1, rs2 uint32, imm int32) Word {
	u := uint32(imm)
	return Word((u>>5)&0x7F<<25 | rs2&0x1F<<20 | rs1&0x1F<<15 | funct3&0x7<<12 | u&0x1F<<7 | opcode&0x7F)
}

func EncodeB(opcode, funct3, rs1, rs2 uint32, imm int32) Word {
	u := uint32(imm)
	return Word((u>>12)&0x1<<31 | (u>>5)&0x3F<<25 | rs2&0x1F<<20 | rs1&0x1F<<15 |
		funct3&0x7<<12 | (u>>1)&0xF<<8 | (u>>11)&0x1<<7 | opcode&0x7F)
}

// EncodeU takes the immediate in place: only bits [31:12] are kept.
func EncodeU(opcode, rd uint32, imm int32) Word {
	return Word(uint32(imm)&0xFFFFF000 | rd&0x1F<<7 | opcode&0x7F)
}

func EncodeJ(opcode, rd uint32, imm int32) Word {
	u := uint32(imm)
	return Word((u>>20)&0x1<<31 | (u>>1)&0x3FF<<21 | (u>>11)&0x1<<20 | (u>>12)&0xFF<<12 |
		rd&0x1F<<7 | opcode&0x7F)
}
