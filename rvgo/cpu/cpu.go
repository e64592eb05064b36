package cpu

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/rv32emu/rv32emu/rvgo/alu"
	"github.com/rv32emu/rv32emu/rvgo/decode"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
)

// CPU owns the register file and program counter, and retires one instruction per Step
// through the fetch, decode, execute, memory and writeback stages.
type CPU struct {
	bus  *mem.Bus
	alu  alu.ALU
	regs RegisterFile
	log  log.Logger

	pc      uint32
	pcSel   decode.PCSel
	powerOn bool
	step    uint64

	// per-cycle latches, overwritten every Step
	instr  isa.Word
	ctrl   decode.Control
	rs1    uint32
	rs2    uint32
	opA    uint32
	opB    uint32
	aluOut uint32
	memOut uint32
}

// New returns a powered-on CPU whose first fetch is at base.
func New(bus *mem.Bus, base uint32, l log.Logger) *CPU {
	return &CPU{
		bus:     bus,
		log:     l,
		pc:      base - 4,
		pcSel:   decode.PCPlus4,
		powerOn: true,
	}
}

// Boot runs until an ebreak halts the CPU, or a stage fails.
func (c *CPU) Boot() error {
	for c.powerOn {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step runs a single instruction. A halted CPU does nothing.
func (c *CPU) Step() error {
	if !c.powerOn {
		return nil
	}
	if err := c.fetch(); err != nil {
		return fmt.Errorf("fetch at pc %08x: %w", c.pc, err)
	}
	if err := c.decode(); err != nil {
		return fmt.Errorf("decode %s at pc %08x: %w", c.instr, c.pc, err)
	}
	if err := c.execute(); err != nil {
		return fmt.Errorf("execute %q at pc %08x: %w", c.ctrl, c.pc, err)
	}
	if err := c.memory(); err != nil {
		return fmt.Errorf("memory %q at pc %08x: %w", c.ctrl, c.pc, err)
	}
	if err := c.writeback(); err != nil {
		return fmt.Errorf("writeback %q at pc %08x: %w", c.ctrl, c.pc, err)
	}
	c.step++
	c.pcSel = c.ctrl.PCSel
	c.log.Trace("retired", "step", c.step, "pc", isa.Word(c.pc), "insn", c.ctrl)
	if !c.powerOn {
		c.log.Info("halted", "step", c.step, "pc", isa.Word(c.pc))
	}
	return nil
}

func (c *CPU) fetch() error {
	switch c.pcSel {
	case decode.PCALU:
		// jalr targets have their lowest bit cleared; branch and jal targets are already even
		c.pc = c.aluOut &^ 1
	default:
		c.pc += 4
	}
	c.bus.SetAccessType(mem.AccessWord)
	instr, err := c.bus.Read(c.pc)
	if err != nil {
		return err
	}
	c.instr = isa.Word(instr)
	return nil
}

func (c *CPU) decode() error {
	ctrl, err := decode.Decode(c.instr)
	if err != nil {
		return err
	}
	c.ctrl = ctrl
	switch ctrl.Syscall {
	case decode.SyscallEbreak:
		// the rest of this cycle still completes
		c.powerOn = false
	case decode.SyscallEcall:
		c.log.Debug("ignoring ecall", "pc", isa.Word(c.pc))
	}

	c.rs1, c.rs2 = 0, 0
	if ctrl.Rs1 != decode.NoRegister {
		if c.rs1, err = c.regs.Read(ctrl.Rs1); err != nil {
			return err
		}
	}
	if ctrl.Rs2 != decode.NoRegister {
		if c.rs2, err = c.regs.Read(ctrl.Rs2); err != nil {
			return err
		}
	}

	switch ctrl.ASel {
	case decode.ASelReg:
		c.opA = c.rs1
	case decode.ASelPC:
		c.opA = c.pc
	default:
		c.opA = 0
	}
	switch ctrl.BSel {
	case decode.BSelReg:
		c.opB = c.rs2
	case decode.BSelImm:
		c.opB = uint32(ctrl.Imm)
	default:
		c.opB = 0
	}
	return nil
}

func (c *CPU) execute() error {
	// the comparator always runs; only branches consume its result
	c.ctrl = c.ctrl.SetBranchComp(alu.Compare(c.ctrl.BranchUnsigned, c.rs1, c.rs2))
	out, err := c.alu.Apply(c.ctrl.ALUSel, c.opA, c.opB)
	if err != nil {
		return err
	}
	c.aluOut = out
	return nil
}

func (c *CPU) memory() error {
	c.memOut = 0
	switch c.ctrl.MemOp {
	case decode.MemRead:
		c.bus.SetAccessType(c.ctrl.MemSel)
		v, err := c.bus.Read(c.aluOut)
		if err != nil {
			return err
		}
		c.memOut = v
	case decode.MemWrite:
		c.bus.SetAccessType(c.ctrl.MemSel)
		return c.bus.Write(c.aluOut, c.rs2)
	}
	return nil
}

func (c *CPU) writeback() error {
	if !c.ctrl.RegWriteEn {
		return nil
	}
	var v uint32
	switch c.ctrl.WbSel {
	case decode.WbALU:
		v = c.aluOut
	case decode.WbMem:
		v = c.memOut
	case decode.WbPCPlus4:
		v = c.pc + 4
	default:
		return fmt.Errorf("register write enabled without a writeback source")
	}
	return c.regs.Write(c.ctrl.Rd, v)
}

// Halted reports whether an ebreak has powered the CPU off.
func (c *CPU) Halted() bool {
	return !c.powerOn
}

// PC is the address of the last fetched instruction.
func (c *CPU) PC() uint32 {
	return c.pc
}

func (c *CPU) Steps() uint64 {
	return c.step
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() RegisterFile {
	return c.regs
}

// Control returns the control signals of the last retired instruction.
func (c *CPU) Control() decode.Control {
	return c.ctrl
}

// Overflow reports the advisory overflow flag of the last ALU operation.
func (c *CPU) Overflow() bool {
	return c.alu.Overflow()
}

func (c *CPU) State() *State {
	return &State{
		PC:        c.pc,
		PCSel:     c.pcSel,
		ALUOut:    c.aluOut,
		Registers: c.regs,
		Step:      c.step,
		Exited:    !c.powerOn,
		MemRoot:   c.bus.DRAM().Hash(),
	}
}
