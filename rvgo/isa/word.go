package isa

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// Word is a raw 32-bit instruction or data value.
// Field accessors only succeed for formats that define the field.
type Word uint32

// Signed reinterprets the word as a two's-complement integer.
func (w Word) Signed() int32 { return int32(w) }

// Unsigned returns the raw bit pattern.
func (w Word) Unsigned() uint32 { return uint32(w) }

func (w Word) String() string {
	return fmt.Sprintf("%08x", uint32(w))
}

// Opcode classifies the word by its low 7 bits.
func (w Word) Opcode() (Opcode, error) {
	return ClassifyOpcode(uint32(w))
}

func (w Word) bits(shift, mask uint32) uint32 {
	return (uint32(w) >> shift) & mask
}

func (w Word) lookup(f field, shift, mask uint32) (uint32, error) {
	op, err := w.Opcode()
	if err != nil {
		return 0, err
	}
	ok, err := op.has(f)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s instruction has no %s field", riscv.ErrNotFound, op, fieldNames[f])
	}
	return w.bits(shift, mask), nil
}

func (w Word) Funct3() (uint32, error) { return w.lookup(fieldFunct3, 12, 0x7) }
func (w Word) Funct7() (uint32, error) { return w.lookup(fieldFunct7, 25, 0x7F) }
func (w Word) Rd() (uint32, error)     { return w.lookup(fieldRd, 7, 0x1F) }
func (w Word) Rs1() (uint32, error)    { return w.lookup(fieldRs1, 15, 0x1F) }
func (w Word) Rs2() (uint32, error)    { return w.lookup(fieldRs2, 20, 0x1F) }
func (w Word) Csr() (uint32, error)    { return w.lookup(fieldCsr, 20, 0xFFF) }

// Byte returns byte index (0 = least significant) of the word.
func (w Word) Byte(index int) (uint8, error) {
	if index < 0 || index >= 4 {
		return 0, fmt.Errorf("%w: byte index %d not in [0, 4)", riscv.ErrInvalidArgument, index)
	}
	return uint8(w >> (8 * index)), nil
}

// HalfWord returns halfword index (0 = least significant) of the word.
func (w Word) HalfWord(index int) (uint16, error) {
	if index < 0 || index >= 2 {
		return 0, fmt.Errorf("%w: halfword index %d not in [0, 2)", riscv.ErrInvalidArgument, index)
	}
	return uint16(w >> (16 * index)), nil
}
