package isa

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// Opcode is the instruction format class, derived from bits [6:0] of a word.
type Opcode uint8

const (
	OpcodeR Opcode = iota
	OpcodeI
	OpcodeILoad
	OpcodeS
	OpcodeB
	OpcodeLui
	OpcodeAuiPc
	OpcodeJal
	OpcodeJalr
	OpcodeFence
	OpcodeE
)

var opcodeNames = [...]string{
	OpcodeR:     "R",
	OpcodeI:     "I",
	OpcodeILoad: "I-load",
	OpcodeS:     "S",
	OpcodeB:     "B",
	OpcodeLui:   "U-lui",
	OpcodeAuiPc: "U-auipc",
	OpcodeJal:   "J-jal",
	OpcodeJalr:  "I-jalr",
	OpcodeFence: "fence",
	OpcodeE:     "E",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Opcode(%d)", uint8(op))
}

// ClassifyOpcode maps the low 7 bits of an instruction word to its format.
func ClassifyOpcode(raw uint32) (Opcode, error) {
	switch raw & 0x7F {
	case riscv.OpcodeR:
		return OpcodeR, nil
	case riscv.OpcodeI:
		return OpcodeI, nil
	case riscv.OpcodeLoad:
		return OpcodeILoad, nil
	case riscv.OpcodeStore:
		return OpcodeS, nil
	case riscv.OpcodeB:
		return OpcodeB, nil
	case riscv.OpcodeLui:
		return OpcodeLui, nil
	case riscv.OpcodeAuiPc:
		return OpcodeAuiPc, nil
	case riscv.OpcodeJal:
		return OpcodeJal, nil
	case riscv.OpcodeJalr:
		return OpcodeJalr, nil
	case riscv.OpcodeFence:
		return OpcodeFence, nil
	case riscv.OpcodeE:
		return OpcodeE, nil
	default:
		return 0, fmt.Errorf("%w: unrecognized opcode 0b%07b", riscv.ErrInvalidArgument, raw&0x7F)
	}
}

// ImmType returns the immediate layout used by the format.
// R-type, fence and environment instructions carry no immediate operand.
func (op Opcode) ImmType() ImmType {
	switch op {
	case OpcodeI, OpcodeILoad, OpcodeJalr:
		return ImmI
	case OpcodeS:
		return ImmS
	case OpcodeB:
		return ImmB
	case OpcodeLui, OpcodeAuiPc:
		return ImmU
	case OpcodeJal:
		return ImmJ
	default:
		return ImmNone
	}
}

type field uint8

const (
	fieldFunct3 field = 1 << iota
	fieldFunct7
	fieldRs1
	fieldRs2
	fieldRd
	fieldCsr
)

var fieldNames = map[field]string{
	fieldFunct3: "funct3",
	fieldFunct7: "funct7",
	fieldRs1:    "rs1",
	fieldRs2:    "rs2",
	fieldRd:     "rd",
	fieldCsr:    "csr",
}

// formatFields lists which fields each format defines.
var formatFields = [...]field{
	OpcodeR:     fieldFunct3 | fieldFunct7 | fieldRs1 | fieldRs2 | fieldRd,
	OpcodeI:     fieldFunct3 | fieldRs1 | fieldRd,
	OpcodeILoad: fieldFunct3 | fieldRs1 | fieldRd,
	OpcodeS:     fieldFunct3 | fieldRs1 | fieldRs2,
	OpcodeB:     fieldFunct3 | fieldRs1 | fieldRs2,
	OpcodeLui:   fieldRd,
	OpcodeAuiPc: fieldRd,
	OpcodeJal:   fieldRd,
	OpcodeJalr:  fieldFunct3 | fieldRs1 | fieldRd,
	OpcodeFence: fieldFunct3 | fieldRs1 | fieldRd,
	OpcodeE:     fieldFunct3 | fieldRs1 | fieldRd | fieldCsr,
}

func (op Opcode) has(f field) (bool, error) {
	if int(op) >= len(formatFields) {
		return false, fmt.Errorf("%w: field table has no entry for %s", riscv.ErrInternal, op)
	}
	return formatFields[op]&f != 0, nil
}
