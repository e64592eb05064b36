package cpu

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// RegisterFile holds the 32 general-purpose registers.
// Writes to x0 are dropped, so x0 always reads as zero.
type RegisterFile [riscv.RegisterCount]uint32

func (r *RegisterFile) Read(index uint32) (uint32, error) {
	if index >= riscv.RegisterCount {
		return 0, fmt.Errorf("%w: cannot access register at index %d > 31", riscv.ErrOutOfRange, index)
	}
	return r[index], nil
}

func (r *RegisterFile) Write(index uint32, v uint32) error {
	if index >= riscv.RegisterCount {
		return fmt.Errorf("%w: cannot access register at index %d > 31", riscv.ErrOutOfRange, index)
	}
	if index == 0 {
		return nil
	}
	r[index] = v
	return nil
}
