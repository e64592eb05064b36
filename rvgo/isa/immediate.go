package isa

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// ImmType selects the immediate encoding layout.
type ImmType uint8

const (
	ImmNone ImmType = iota
	ImmI
	ImmS
	ImmB
	ImmU
	ImmJ
)

func (t ImmType) String() string {
	switch t {
	case ImmNone:
		return "none"
	case ImmI:
		return "I"
	case ImmS:
		return "S"
	case ImmB:
		return "B"
	case ImmU:
		return "U"
	case ImmJ:
		return "J"
	default:
		return fmt.Sprintf("ImmType(%d)", uint8(t))
	}
}

// signExtend fills every bit above the sign bit with ones when the sign bit is set.
func signExtend(v uint32, bit uint32) uint32 {
	if v&(1<<bit) != 0 {
		return v | (^uint32(0) << (bit + 1))
	}
	return v
}

func parseImmTypeI(instr uint32) uint32 {
	return signExtend(instr>>20, 11)
}

func parseImmTypeS(instr uint32) uint32 {
	return signExtend((instr>>25)<<5|(instr>>7)&0x1F, 11)
}

func parseImmTypeB(instr uint32) uint32 {
	return signExtend(
		(instr>>8)&0xF<<1|
			(instr>>25)&0x3F<<5|
			(instr>>7)&0x1<<11|
			(instr>>31)<<12,
		12,
	)
}

// U-type immediates stay in place: they are the upper 20 bits of the value.
func parseImmTypeU(instr uint32) uint32 {
	return instr & 0xFFFFF000
}

func parseImmTypeJ(instr uint32) uint32 {
	return signExtend(
		(instr>>21)&0x3FF<<1|
			(instr>>20)&0x1<<11|
			(instr>>12)&0xFF<<12|
			(instr>>31)<<20,
		20,
	)
}

// DecodeImmediate reassembles the sign-extended immediate of the given layout.
func DecodeImmediate(t ImmType, w Word) (int32, error) {
	instr := uint32(w)
	switch t {
	case ImmI:
		return int32(parseImmTypeI(instr)), nil
	case ImmS:
		return int32(parseImmTypeS(instr)), nil
	case ImmB:
		return int32(parseImmTypeB(instr)), nil
	case ImmU:
		return int32(parseImmTypeU(instr)), nil
	case ImmJ:
		return int32(parseImmTypeJ(instr)), nil
	case ImmNone:
		return 0, fmt.Errorf("%w: instruction format has no immediate", riscv.ErrInvalidArgument)
	default:
		return 0, fmt.Errorf("%w: unknown immediate type %s", riscv.ErrInternal, t)
	}
}
