package decode

import (
	"github.com/rv32emu/rv32emu/rvgo/alu"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
)

// ASel selects the ALU's first operand.
type ASel uint8

const (
	ASelNone ASel = iota
	ASelReg
	ASelPC
)

// BSel selects the ALU's second operand.
type BSel uint8

const (
	BSelNone BSel = iota
	BSelReg
	BSelImm
)

// MemOp is the memory stage operation.
type MemOp uint8

const (
	MemNone MemOp = iota
	MemRead
	MemWrite
)

// WbSel selects the value written back to rd.
type WbSel uint8

const (
	WbNone WbSel = iota
	WbALU
	WbMem
	WbPCPlus4
)

// PCSel selects where the next instruction is fetched from.
type PCSel uint8

const (
	PCPlus4 PCSel = iota
	PCALU
)

// Syscall distinguishes the environment instructions.
type Syscall uint8

const (
	SyscallNone Syscall = iota
	SyscallEcall
	SyscallEbreak
)

// NoRegister marks a register index the format does not use.
const NoRegister = ^uint32(0)

// Control is the full set of signals produced by decoding one instruction.
// Every field is set on every decode; fields meaningless to the format hold their None value.
type Control struct {
	Instr  isa.Word
	Opcode isa.Opcode

	Rs1, Rs2, Rd uint32

	ImmSel isa.ImmType
	Imm    int32

	ASel   ASel
	BSel   BSel
	ALUSel alu.Op

	MemOp  MemOp
	MemSel mem.AccessType

	WbSel          WbSel
	PCSel          PCSel
	RegWriteEn     bool
	BranchUnsigned bool
	Syscall        Syscall
}

// none returns a control with every selector at its None value.
func none(w isa.Word, op isa.Opcode) Control {
	return Control{
		Instr:  w,
		Opcode: op,
		Rs1:    NoRegister,
		Rs2:    NoRegister,
		Rd:     NoRegister,
		ImmSel: isa.ImmNone,
		ASel:   ASelNone,
		BSel:   BSelNone,
		ALUSel: alu.OpNone,
		MemOp:  MemNone,
		MemSel: mem.AccessNone,
		WbSel:  WbNone,
		PCSel:  PCPlus4,
	}
}

// Halt reports whether the instruction stops the run loop.
func (c Control) Halt() bool {
	return c.Syscall == SyscallEbreak
}
