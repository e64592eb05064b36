package decode

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/alu"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
)

var branchMnemonics = map[uint32]string{
	branchEq:  "beq",
	branchNe:  "bne",
	branchLt:  "blt",
	branchGe:  "bge",
	branchLtu: "bltu",
	branchGeu: "bgeu",
}

var loadMnemonics = map[mem.AccessType]string{
	mem.AccessByte:             "lb",
	mem.AccessHalfword:         "lh",
	mem.AccessWord:             "lw",
	mem.AccessByteUnsigned:     "lbu",
	mem.AccessHalfwordUnsigned: "lhu",
}

var storeMnemonics = map[mem.AccessType]string{
	mem.AccessByte:     "sb",
	mem.AccessHalfword: "sh",
	mem.AccessWord:     "sw",
}

// Disassemble renders an instruction word in assembler syntax.
func Disassemble(w isa.Word) (string, error) {
	c, err := Decode(w)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func (c Control) String() string {
	switch c.Opcode {
	case isa.OpcodeR:
		return fmt.Sprintf("%s x%d, x%d, x%d", c.ALUSel, c.Rd, c.Rs1, c.Rs2)
	case isa.OpcodeI:
		switch c.ALUSel {
		case alu.OpSll, alu.OpSrl, alu.OpSra:
			return fmt.Sprintf("%si x%d, x%d, %d", c.ALUSel, c.Rd, c.Rs1, c.Imm&alu.ShiftMask)
		case alu.OpSltu:
			return fmt.Sprintf("sltiu x%d, x%d, %d", c.Rd, c.Rs1, c.Imm)
		default:
			return fmt.Sprintf("%si x%d, x%d, %d", c.ALUSel, c.Rd, c.Rs1, c.Imm)
		}
	case isa.OpcodeILoad:
		return fmt.Sprintf("%s x%d, %d(x%d)", loadMnemonics[c.MemSel], c.Rd, c.Imm, c.Rs1)
	case isa.OpcodeS:
		return fmt.Sprintf("%s x%d, %d(x%d)", storeMnemonics[c.MemSel], c.Rs2, c.Imm, c.Rs1)
	case isa.OpcodeB:
		funct3, _ := c.Instr.Funct3()
		return fmt.Sprintf("%s x%d, x%d, %d", branchMnemonics[funct3], c.Rs1, c.Rs2, c.Imm)
	case isa.OpcodeLui:
		return fmt.Sprintf("lui x%d, 0x%x", c.Rd, uint32(c.Imm)>>12)
	case isa.OpcodeAuiPc:
		return fmt.Sprintf("auipc x%d, 0x%x", c.Rd, uint32(c.Imm)>>12)
	case isa.OpcodeJal:
		return fmt.Sprintf("jal x%d, %d", c.Rd, c.Imm)
	case isa.OpcodeJalr:
		return fmt.Sprintf("jalr x%d, %d(x%d)", c.Rd, c.Imm, c.Rs1)
	case isa.OpcodeFence:
		return "fence"
	case isa.OpcodeE:
		if c.Syscall == SyscallEbreak {
			return "ebreak"
		}
		return "ecall"
	default:
		return fmt.Sprintf("unknown %s", c.Instr)
	}
}
