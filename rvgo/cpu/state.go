package cpu

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rv32emu/rv32emu/rvgo/decode"
	"github.com/rv32emu/rv32emu/rvgo/riscv"
)

// State is a read-only snapshot of the architectural state, for diagnostics and snapshots.
type State struct {
	// PC is the address of the last fetched instruction.
	PC uint32 `json:"pc"`
	// PCSel and ALUOut decide the next fetch address.
	PCSel  decode.PCSel `json:"pcSel"`
	ALUOut uint32       `json:"aluOut"`

	Registers [riscv.RegisterCount]uint32 `json:"registers"`

	Step   uint64 `json:"step"`
	Exited bool   `json:"exited"`

	// MemRoot is the keccak256 hash of the memory contents.
	MemRoot common.Hash `json:"memRoot"`
}

// StateWitness is the fixed-size binary encoding of a State.
type StateWitness []byte

const StateWitnessSize = 32 + 4 + 1 + 4 + 8 + 1 + riscv.RegisterCount*4

func (s *State) EncodeWitness() StateWitness {
	out := make([]byte, 0, StateWitnessSize)
	out = append(out, s.MemRoot[:]...)
	out = binary.BigEndian.AppendUint32(out, s.PC)
	out = append(out, byte(s.PCSel))
	out = binary.BigEndian.AppendUint32(out, s.ALUOut)
	out = binary.BigEndian.AppendUint64(out, s.Step)
	if s.Exited {
		out = append(out, 1)
	} else {
		out = append(out, 0)
	}
	for _, r := range s.Registers {
		out = binary.BigEndian.AppendUint32(out, r)
	}
	return out
}

func (sw StateWitness) StateHash() common.Hash {
	return crypto.Keccak256Hash(sw)
}
