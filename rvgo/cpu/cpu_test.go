package cpu

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"

	"github.com/rv32emu/rv32emu/rvgo/decode"
	"github.com/rv32emu/rv32emu/rvgo/isa"
	"github.com/rv32emu/rv32emu/rvgo/mem"
	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

const (
	ebreak isa.Word = 0x00100073
	ecall  isa.Word = 0x00000073
)

func addi(rd, rs1 uint32, imm int32) isa.Word {
	return isa.EncodeI(riscv.OpcodeI, rd, 0b000, rs1, imm)
}

func program(words ...isa.Word) []byte {
	out := make([]byte, 0, len(words)*4)
	for _, w := range words {
		out = binary.LittleEndian.AppendUint32(out, uint32(w))
	}
	return out
}

// newTestCPU flashes the program at base and returns a CPU ready to fetch from it.
func newTestCPU(t *testing.T, base uint32, console *strings.Builder, words ...isa.Word) *CPU {
	t.Helper()
	dram := mem.NewDRAM()
	_, err := dram.Flash(bytes.NewReader(program(words...)), base)
	require.NoError(t, err)
	if console == nil {
		console = new(strings.Builder)
	}
	return New(mem.NewBus(dram, mem.NewConsole(console)), base, log.New())
}

func TestCountdownLoop(t *testing.T) {
	c := newTestCPU(t, 0, nil,
		0x00A00093, // addi x1, x0, 10
		0xFFF08093, // addi x1, x1, -1
		0xFE009EE3, // bne x1, x0, -4
		ebreak,
	)
	require.NoError(t, c.Boot())
	require.True(t, c.Halted())
	regs := c.Registers()
	require.Equal(t, uint32(0), regs[1])
	// one load, ten decrement/branch pairs and the ebreak
	require.Equal(t, uint64(1+10*2+1), c.Steps())
	require.Equal(t, uint32(12), c.PC())
}

func TestResetFetchesFromBase(t *testing.T) {
	c := newTestCPU(t, 0x400, nil, addi(5, 0, 7), ebreak)
	require.Equal(t, uint32(0x3FC), c.PC())
	require.NoError(t, c.Step())
	require.Equal(t, uint32(0x400), c.PC())
	require.Equal(t, uint32(7), c.Registers()[5])
}

func TestStepAfterHaltIsNoop(t *testing.T) {
	c := newTestCPU(t, 0, nil, ebreak)
	require.NoError(t, c.Boot())
	require.NoError(t, c.Step())
	require.Equal(t, uint64(1), c.Steps())
}

func TestZeroRegisterStaysZero(t *testing.T) {
	c := newTestCPU(t, 0, nil,
		addi(0, 0, 5),
		isa.EncodeU(riscv.OpcodeLui, 0, 0x7000),
		isa.EncodeJ(riscv.OpcodeJal, 0, 4),
		ebreak,
	)
	require.NoError(t, c.Boot())
	require.Equal(t, uint32(0), c.Registers()[0])
}

func TestEcallIsIgnored(t *testing.T) {
	c := newTestCPU(t, 0, nil, ecall, addi(1, 0, 1), ebreak)
	require.NoError(t, c.Boot())
	require.Equal(t, uint32(1), c.Registers()[1])
}

func TestLoadStore(t *testing.T) {
	c := newTestCPU(t, 0, nil,
		addi(1, 0, 0x100),
		addi(2, 0, -2),                                 // 0xFFFFFFFE
		isa.EncodeS(riscv.OpcodeStore, 0b010, 1, 2, 4), // sw x2, 4(x1)
		isa.EncodeI(riscv.OpcodeLoad, 3, 0b000, 1, 4),  // lb x3, 4(x1)
		isa.EncodeI(riscv.OpcodeLoad, 4, 0b100, 1, 4),  // lbu x4, 4(x1)
		isa.EncodeI(riscv.OpcodeLoad, 5, 0b101, 1, 6),  // lhu x5, 6(x1)
		isa.EncodeS(riscv.OpcodeStore, 0b000, 1, 1, 8), // sb x1, 8(x1)
		isa.EncodeI(riscv.OpcodeLoad, 6, 0b010, 1, 8),  // lw x6, 8(x1)
		ebreak,
	)
	require.NoError(t, c.Boot())
	regs := c.Registers()
	require.Equal(t, uint32(0xFFFFFFFE), regs[3])
	require.Equal(t, uint32(0xFE), regs[4])
	require.Equal(t, uint32(0xFFFF), regs[5])
	require.Equal(t, uint32(0), regs[6], "sb 0x100 stores only the low byte")
}

func TestJumps(t *testing.T) {
	c := newTestCPU(t, 0, nil,
		isa.EncodeJ(riscv.OpcodeJal, 1, 8),        // 0: jal x1, 8
		addi(5, 0, 99),                            // 4: skipped
		addi(2, 0, 0x11),                          // 8
		isa.EncodeI(riscv.OpcodeJalr, 3, 0, 2, 4), // c: jalr x3, 4(x2) -> 0x15, low bit cleared
		addi(5, 0, 98),                            // 10: skipped
		ebreak,                                    // 14
	)
	require.NoError(t, c.Boot())
	regs := c.Registers()
	require.Equal(t, uint32(4), regs[1])
	require.Equal(t, uint32(0x10), regs[3])
	require.Equal(t, uint32(0), regs[5])
	require.Equal(t, uint32(0x14), c.PC())
}

func TestUpperImmediates(t *testing.T) {
	c := newTestCPU(t, 0x100, nil,
		isa.EncodeU(riscv.OpcodeLui, 1, 0x12345000),
		isa.EncodeU(riscv.OpcodeAuiPc, 2, 0x1000),
		ebreak,
	)
	require.NoError(t, c.Boot())
	regs := c.Registers()
	require.Equal(t, uint32(0x12345000), regs[1])
	require.Equal(t, uint32(0x1104), regs[2])
}

func TestConsoleOutput(t *testing.T) {
	var out strings.Builder
	words := []isa.Word{isa.EncodeU(riscv.OpcodeLui, 1, riscv.ConsoleAddr)}
	for _, ch := range "ok\n" {
		words = append(words,
			addi(2, 0, int32(ch)),
			isa.EncodeS(riscv.OpcodeStore, 0b000, 1, 2, 0), // sb x2, 0(x1)
		)
	}
	words = append(words, ebreak)
	c := newTestCPU(t, 0, &out, words...)
	require.NoError(t, c.Boot())
	require.Equal(t, "ok\n", out.String())
}

func TestFaultsHalt(t *testing.T) {
	t.Run("unknown opcode", func(t *testing.T) {
		c := newTestCPU(t, 0, nil, 0x0000007F)
		require.ErrorIs(t, c.Boot(), riscv.ErrInvalidArgument)
	})

	t.Run("misaligned load", func(t *testing.T) {
		c := newTestCPU(t, 0, nil, isa.EncodeI(riscv.OpcodeLoad, 1, 0b010, 0, 2), ebreak)
		err := c.Boot()
		require.ErrorIs(t, err, riscv.ErrFailedPrecondition)
		require.ErrorContains(t, err, "memory")
	})

	t.Run("out of range store", func(t *testing.T) {
		c := newTestCPU(t, 0, nil,
			isa.EncodeU(riscv.OpcodeLui, 1, 0x00200000),
			isa.EncodeS(riscv.OpcodeStore, 0b010, 1, 0, 0),
			ebreak,
		)
		require.ErrorIs(t, c.Boot(), riscv.ErrOutOfRange)
	})

	t.Run("fetch past memory", func(t *testing.T) {
		c := newTestCPU(t, 0, nil, isa.EncodeU(riscv.OpcodeLui, 1, 0x00200000), isa.EncodeI(riscv.OpcodeJalr, 0, 0, 1, 0))
		err := c.Boot()
		require.ErrorIs(t, err, riscv.ErrOutOfRange)
		require.ErrorContains(t, err, "fetch")
	})
}

func TestStateWitness(t *testing.T) {
	c := newTestCPU(t, 0, nil, addi(1, 0, 10), ebreak)
	before := c.State().EncodeWitness()
	require.Len(t, before, StateWitnessSize)

	require.NoError(t, c.Boot())
	s := c.State()
	require.True(t, s.Exited)
	require.Equal(t, uint64(2), s.Step)
	require.Equal(t, uint32(10), s.Registers[1])
	require.Equal(t, decode.PCPlus4, s.PCSel)

	after := s.EncodeWitness()
	require.Len(t, after, StateWitnessSize)
	require.NotEqual(t, before.StateHash(), after.StateHash())
	require.Equal(t, after.StateHash(), c.State().EncodeWitness().StateHash())
}

func TestRegisterFile(t *testing.T) {
	var r RegisterFile
	require.NoError(t, r.Write(0, 5))
	v, err := r.Read(0)
	require.NoError(t, err)
	require.Equal(t, uint32(0), v)

	require.NoError(t, r.Write(31, 5))
	v, err = r.Read(31)
	require.NoError(t, err)
	require.Equal(t, uint32(5), v)

	_, err = r.Read(32)
	require.ErrorIs(t, err, riscv.ErrOutOfRange)
	require.ErrorIs(t, r.Write(decode.NoRegister, 1), riscv.ErrOutOfRange)
}
