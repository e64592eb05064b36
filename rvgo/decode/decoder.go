package decode

import (
	"fmt"

	"github.com/rv32emu/rv32emu/rvgo/alu"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// branch conditions, by funct3
const (
	branchEq   = 0b000
	branchNe   = 0b001
	branchLt   = 0b100
	branchGe   = 0b101
	branchLtu  = 0b110
	branchGeu  = 0b111
	funct3Jalr = 0b000
	funct3Env  = 0b000
)

// Decode turns an instruction word into a fresh set of control signals.
func Decode(w isa.Word) (Control, error) {
	op, err := w.Opcode()
	if err != nil {
		return Control{}, err
	}
	c := none(w, op)
	switch op {
	case isa.OpcodeR:
		err = c.decodeR()
	case isa.OpcodeI:
		err = c.decodeI()
	case isa.OpcodeILoad:
		err = c.decodeLoad()
	case isa.OpcodeS:
		err = c.decodeStore()
	case isa.OpcodeB:
		err = c.decodeBranch()
	case isa.OpcodeLui:
		err = c.decodeLui()
	case isa.OpcodeAuiPc:
		err = c.decodeAuiPc()
	case isa.OpcodeJal:
		err = c.decodeJal()
	case isa.OpcodeJalr:
		err = c.decodeJalr()
	case isa.OpcodeFence:
		// no ordering to enforce: one instruction retires at a time
	case isa.OpcodeE:
		err = c.decodeEnv()
	default:
		err = fmt.Errorf("%w: decoder has no routine for %s", riscv.ErrInternal, op)
	}
	if err != nil {
		return Control{}, fmt.Errorf("decode %s (%s-type): %w", w, op, err)
	}
	return c, nil
}

func (c *Control) setRs1() error {
	rs1, err := c.Instr.Rs1()
	c.Rs1 = rs1
	return err
}

func (c *Control) setRs2() error {
	rs2, err := c.Instr.Rs2()
	c.Rs2 = rs2
	return err
}

// setRd also derives the write enable: writes to x0 are suppressed.
func (c *Control) setRd() error {
	rd, err := c.Instr.Rd()
	if err != nil {
		return err
	}
	c.Rd = rd
	c.RegWriteEn = rd != 0
	return nil
}

func (c *Control) setImm(t isa.ImmType) error {
	imm, err := isa.DecodeImmediate(t, c.Instr)
	if err != nil {
		return err
	}
	c.ImmSel = t
	c.Imm = imm
	return nil
}

func (c *Control) decodeR() error {
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRs2(); err != nil {
		return err
	}
	if err := c.setRd(); err != nil {
		return err
	}
	c.ASel = ASelReg
	c.BSel = BSelReg
	c.WbSel = WbALU

	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	funct7, err := c.Instr.Funct7()
	if err != nil {
		return err
	}
	c.ALUSel, err = aluOp(funct3, funct7, true)
	return err
}

func (c *Control) decodeI() error {
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmI); err != nil {
		return err
	}
	c.ASel = ASelReg
	c.BSel = BSelImm
	c.WbSel = WbALU

	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	// shifts encode their funct7 in the top 7 bits of the immediate
	c.ALUSel, err = aluOp(funct3, uint32(c.Imm)>>5&0x7F, false)
	return err
}

// aluOp maps funct3 (and funct7 where it disambiguates) to an ALU operation.
// Only R-type instructions have an add/sub distinction; immediates have no subi.
func aluOp(funct3, funct7 uint32, reg bool) (alu.Op, error) {
	checkBase := func(op alu.Op) (alu.Op, error) {
		if reg && funct7 != riscv.Funct7Base {
			return alu.OpNone, fmt.Errorf("%w: funct7 0x%02x with funct3 %03b", riscv.ErrInvalidArgument, funct7, funct3)
		}
		return op, nil
	}
	switch funct3 {
	case 0b000:
		if !reg {
			return alu.OpAdd, nil
		}
		switch funct7 {
		case riscv.Funct7Base:
			return alu.OpAdd, nil
		case riscv.Funct7Alt:
			return alu.OpSub, nil
		}
		return alu.OpNone, fmt.Errorf("%w: funct7 0x%02x for add/sub", riscv.ErrInvalidArgument, funct7)
	case 0b001:
		if funct7 != riscv.Funct7Base {
			return alu.OpNone, fmt.Errorf("%w: funct7 0x%02x for sll", riscv.ErrInvalidArgument, funct7)
		}
		return alu.OpSll, nil
	case 0b010:
		return checkBase(alu.OpSlt)
	case 0b011:
		return checkBase(alu.OpSltu)
	case 0b100:
		return checkBase(alu.OpXor)
	case 0b101:
		switch funct7 {
		case riscv.Funct7Base:
			return alu.OpSrl, nil
		case riscv.Funct7Alt:
			return alu.OpSra, nil
		}
		return alu.OpNone, fmt.Errorf("%w: funct7 0x%02x for srl/sra", riscv.ErrInvalidArgument, funct7)
	case 0b110:
		return checkBase(alu.OpOr)
	case 0b111:
		return checkBase(alu.OpAnd)
	default:
		return alu.OpNone, fmt.Errorf("%w: funct3 %03b", riscv.ErrInvalidArgument, funct3)
	}
}

func (c *Control) decodeLoad() error {
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmI); err != nil {
		return err
	}
	c.ASel = ASelReg
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd
	c.MemOp = MemRead
	c.WbSel = WbMem

	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	switch t := mem.AccessType(funct3); t {
	case mem.AccessByte, mem.AccessHalfword, mem.AccessWord, mem.AccessByteUnsigned, mem.AccessHalfwordUnsigned:
		c.MemSel = t
		return nil
	default:
		return fmt.Errorf("%w: load funct3 %03b", riscv.ErrInvalidArgument, funct3)
	}
}

func (c *Control) decodeStore() error {
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRs2(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmS); err != nil {
		return err
	}
	c.ASel = ASelReg
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd
	c.MemOp = MemWrite

	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	switch t := mem.AccessType(funct3); t {
	case mem.AccessByte, mem.AccessHalfword, mem.AccessWord:
		c.MemSel = t
		return nil
	default:
		return fmt.Errorf("%w: store funct3 %03b", riscv.ErrInvalidArgument, funct3)
	}
}

func (c *Control) decodeBranch() error {
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRs2(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmB); err != nil {
		return err
	}
	c.ASel = ASelPC
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd

	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	switch funct3 {
	case branchEq, branchNe, branchLt, branchGe:
		c.BranchUnsigned = false
	case branchLtu, branchGeu:
		c.BranchUnsigned = true
	default:
		return fmt.Errorf("%w: branch funct3 %03b", riscv.ErrInvalidArgument, funct3)
	}
	return nil
}

func (c *Control) decodeLui() error {
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmU); err != nil {
		return err
	}
	c.BSel = BSelImm
	c.ALUSel = alu.OpPassB
	c.WbSel = WbALU
	return nil
}

func (c *Control) decodeAuiPc() error {
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmU); err != nil {
		return err
	}
	c.ASel = ASelPC
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd
	c.WbSel = WbALU
	return nil
}

func (c *Control) decodeJal() error {
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmJ); err != nil {
		return err
	}
	c.ASel = ASelPC
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd
	c.WbSel = WbPCPlus4
	c.PCSel = PCALU
	return nil
}

func (c *Control) decodeJalr() error {
	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	if funct3 != funct3Jalr {
		return fmt.Errorf("%w: jalr funct3 %03b", riscv.ErrInvalidArgument, funct3)
	}
	if err := c.setRs1(); err != nil {
		return err
	}
	if err := c.setRd(); err != nil {
		return err
	}
	if err := c.setImm(isa.ImmI); err != nil {
		return err
	}
	c.ASel = ASelReg
	c.BSel = BSelImm
	c.ALUSel = alu.OpAdd
	c.WbSel = WbPCPlus4
	c.PCSel = PCALU
	return nil
}

// decodeEnv recognizes ecall and ebreak. CSR instructions share the opcode but are not supported.
func (c *Control) decodeEnv() error {
	funct3, err := c.Instr.Funct3()
	if err != nil {
		return err
	}
	if funct3 != funct3Env {
		return fmt.Errorf("%w: CSR instructions are not supported (funct3 %03b)", riscv.ErrInvalidArgument, funct3)
	}
	csr, err := c.Instr.Csr()
	if err != nil {
		return err
	}
	switch csr {
	case riscv.ImmEcall:
		c.Syscall = SyscallEcall
	case riscv.ImmEbreak:
		c.Syscall = SyscallEbreak
	default:
		return fmt.Errorf("%w: environment call 0x%03x", riscv.ErrInvalidArgument, csr)
	}
	return nil
}

// SetBranchComp applies the comparator outcome to a decoded branch.
// The PC select becomes PCALU when the funct3 condition holds. Controls of any other
// format are returned unchanged.
func (c Control) SetBranchComp(r alu.Comparison) Control {
	if c.Opcode != isa.OpcodeB {
		return c
	}
	funct3, err := c.Instr.Funct3()
	if err != nil {
		return c
	}
	var take bool
	switch funct3 {
	case branchEq:
		take = r.Equal
	case branchNe:
		take = !r.Equal
	case branchLt, branchLtu:
		take = r.LessThan
	case branchGe, branchGeu:
		take = r.Equal || !r.LessThan
	}
	if take {
		c.PCSel = PCALU
	}
	return c
}
