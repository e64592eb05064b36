package alu

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// Op selects the ALU operation.
type Op uint8

const (
	OpNone Op = iota
	OpPassB
	OpAdd
	OpSub
	OpOr
	OpAnd
	OpXor
	OpSll // shift left logical
	OpSrl // shift right logical
	OpSra // shift right arithmetic
	OpSlt
	OpSltu
)

var opNames = [...]string{
	OpNone:  "none",
	OpPassB: "passb",
	OpAdd:   "add",
	OpSub:   "sub",
	OpOr:    "or",
	OpAnd:   "and",
	OpXor:   "xor",
	OpSll:   "sll",
	OpSrl:   "srl",
	OpSra:   "sra",
	OpSlt:   "slt",
	OpSltu:  "sltu",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// ShiftMask keeps the low 5 bits of a shift amount: RV32I only defines shifts of 0-31.
const ShiftMask = 0x1F

// ALU computes one operation per call and remembers whether the last add/sub overflowed.
// Overflow is advisory: RV32I wraps and never traps.
type ALU struct {
	overflow bool
}

func (a *ALU) Overflow() bool {
	return a.overflow
}

func (a *ALU) Apply(op Op, x, y uint32) (uint32, error) {
	out, overflow, err := apply(op, x, y)
	if err != nil {
		return 0, err
	}
	a.overflow = overflow
	return out, nil
}

// Apply runs op without overflow tracking.
func Apply(op Op, x, y uint32) (uint32, error) {
	out, _, err := apply(op, x, y)
	return out, err
}

func apply(op Op, x, y uint32) (out uint32, overflow bool, err error) {
	switch op {
	case OpNone:
		return 0, false, nil
	case OpPassB:
		return y, false, nil
	case OpAdd:
		out = x + y
		// signed overflow: operands share a sign that the result does not
		return out, (x^out)&(y^out)&(1<<31) != 0, nil
	case OpSub:
		out = x - y
		return out, (x^y)&(x^out)&(1<<31) != 0, nil
	case OpOr:
		return x | y, false, nil
	case OpAnd:
		return x & y, false, nil
	case OpXor:
		return x ^ y, false, nil
	case OpSll:
		return x << (y & ShiftMask), false, nil
	case OpSrl:
		return x >> (y & ShiftMask), false, nil
	case OpSra:
		return uint32(int32(x) >> (y & ShiftMask)), false, nil
	case OpSlt:
		if int32(x) < int32(y) {
			return 1, false, nil
		}
		return 0, false, nil
	case OpSltu:
		if x < y {
			return 1, false, nil
		}
		return 0, false, nil
	default:
		return 0, false, fmt.Errorf("%w: invalid ALU operation %s", riscv.ErrInternal, op)
	}
}
