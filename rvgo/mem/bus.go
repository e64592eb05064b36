package mem

import (
	"io"

	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// Console is a write-only character device. Each write emits the low byte of the value.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Write(v uint32) error {
	_, err := c.out.Write([]byte{uint8(v)})
	return err
}

// Read always yields zero: the console has no readable state.
func (c *Console) Read() (uint32, error) {
	return 0, nil
}

// Bus routes accesses to the console address to the console, and everything else to DRAM.
type Bus struct {
	dram    *DRAM
	console *Console
}

func NewBus(dram *DRAM, console *Console) *Bus {
	return &Bus{dram: dram, console: console}
}

func (b *Bus) DRAM() *DRAM {
	return b.dram
}

func (b *Bus) SetAccessType(t AccessType) {
	b.dram.SetAccessType(t)
}

func (b *Bus) Read(addr uint32) (uint32, error) {
	if addr == riscv.ConsoleAddr {
		return b.console.Read()
	}
	return b.dram.Read(addr - riscv.DRAMStartAddr)
}

func (b *Bus) Write(addr uint32, v uint32) error {
	if addr == riscv.ConsoleAddr {
		return b.console.Write(v)
	}
	return b.dram.Write(addr-riscv.DRAMStartAddr, v)
}
