package riscv

import "errors"

const (
	OpcodeR     = 0x33 // 011_0011: register arithmetic and logic
	OpcodeI     = 0x13 // 001_0011: immediate arithmetic and logic
	OpcodeLoad  = 0x03 // 000_0011: memory loading
	OpcodeStore = 0x23 // 010_0011: memory storing
	OpcodeB     = 0x63 // 110_0011: branching
	OpcodeLui   = 0x37 // 011_0111
	OpcodeAuiPc = 0x17 // 001_0111
	OpcodeJal   = 0x6F // 110_1111
	OpcodeJalr  = 0x67 // 110_0111
	OpcodeFence = 0x0F // 000_1111
	OpcodeE     = 0x73 // 111_0011: ecall / ebreak

	Funct7Base = 0x00 // 000_0000: ADD, SRL
	Funct7Alt  = 0x20 // 010_0000: SUB, SRA

	// csr field values selecting the environment call kind
	ImmEcall  = 0
	ImmEbreak = 1

	RegisterCount = 32

	// DRAMSize must be word-aligned, so no word access can straddle the end of memory.
	DRAMSize      = 1024 * 1000 // 1000 KiB
	DRAMStartAddr = 0x0
	DRAMEndAddr   = DRAMStartAddr + DRAMSize // 0x000fa000
	ConsoleAddr   = 0x0fff0000
)

// Error kinds. Stage errors wrap one of these, so callers match with errors.Is.
var (
	// ErrInvalidArgument marks a malformed or unsupported instruction encoding.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound marks a field lookup on a format that does not define that field.
	ErrNotFound = errors.New("not found")
	// ErrOutOfRange marks a memory address or register index beyond bounds.
	ErrOutOfRange = errors.New("out of range")
	// ErrFailedPrecondition marks a misaligned memory access.
	ErrFailedPrecondition = errors.New("failed precondition")
	// ErrInternal marks an exhaustive dispatch reaching an unreachable case.
	ErrInternal = errors.New("internal error")
)
