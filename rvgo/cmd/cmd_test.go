package cmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum-optimism/optimism/op-service/jsonutil"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/rv32emu/rv32emu/rvgo/cpu"
)

// countdown: addi x1, x0, 10; addi x1, x1, -1; bne x1, x0, -4; ebreak
var countdown = []uint32{0x00A00093, 0xFFF08093, 0xFE009EE3, 0x00100073}

func writeImage(t *testing.T, words ...uint32) string {
	t.Helper()
	var buf []byte
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	path := filepath.Join(t.TempDir(), "prog.bin")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := cli.NewApp()
	app.Name = "rv32emu"
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Commands = []*cli.Command{RunCommand, WitnessCommand, DisasmCommand}
	err := app.Run(append([]string{"rv32emu"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestRun(t *testing.T) {
	t.Run("countdown snapshot", func(t *testing.T) {
		image := writeImage(t, countdown...)
		snapshot := filepath.Join(t.TempDir(), "state.json")
		_, logs, err := runApp(t, "run", "--image", image, "--snapshot", snapshot)
		require.NoError(t, err)
		require.Contains(t, logs, "execution finished")

		state, err := jsonutil.LoadJSON[cpu.State](snapshot)
		require.NoError(t, err)
		require.True(t, state.Exited)
		require.Equal(t, uint64(22), state.Step)
		require.Equal(t, uint32(12), state.PC)
		require.Equal(t, uint32(0), state.Registers[1])
	})

	t.Run("base address", func(t *testing.T) {
		image := writeImage(t, 0x00700293, 0x00100073) // addi x5, x0, 7; ebreak
		snapshot := filepath.Join(t.TempDir(), "state.json")
		_, _, err := runApp(t, "run", "--image", image, "--base", "0x800", "--snapshot", snapshot)
		require.NoError(t, err)
		state, err := jsonutil.LoadJSON[cpu.State](snapshot)
		require.NoError(t, err)
		require.Equal(t, uint32(0x804), state.PC)
		require.Equal(t, uint32(7), state.Registers[5])
	})

	t.Run("step limit", func(t *testing.T) {
		image := writeImage(t, 0x0000006F) // jal x0, 0
		snapshot := filepath.Join(t.TempDir(), "state.json")
		_, logs, err := runApp(t, "run", "--image", image, "--max-steps", "50", "--snapshot", snapshot)
		require.NoError(t, err)
		require.Contains(t, logs, "step limit reached")
		state, err := jsonutil.LoadJSON[cpu.State](snapshot)
		require.NoError(t, err)
		require.False(t, state.Exited)
		require.Equal(t, uint64(50), state.Step)
	})

	t.Run("console", func(t *testing.T) {
		image := writeImage(t,
			0x0FFF00B7, // lui x1, 0x0fff0
			0x04800113, // addi x2, x0, 'H'
			0x00208023, // sb x2, 0(x1)
			0x06900113, // addi x2, x0, 'i'
			0x00208023, // sb x2, 0(x1)
			0x00100073, // ebreak
		)
		out, _, err := runApp(t, "run", "--image", image)
		require.NoError(t, err)
		require.Equal(t, "Hi", out)

		out, logs, err := runApp(t, "run", "--image", image, "--console-log")
		require.NoError(t, err)
		require.Empty(t, out)
		require.Contains(t, logs, "text=H")
	})

	t.Run("fault", func(t *testing.T) {
		image := writeImage(t, 0x0000007F)
		_, logs, err := runApp(t, "run", "--image", image)
		require.ErrorContains(t, err, "failed at step 0")
		require.Contains(t, logs, "registers")
	})

	t.Run("program required", func(t *testing.T) {
		_, _, err := runApp(t, "run")
		require.ErrorContains(t, err, "is required")
	})

	t.Run("image and elf exclusive", func(t *testing.T) {
		image := writeImage(t, countdown...)
		_, _, err := runApp(t, "run", "--image", image, "--elf", image)
		require.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("bad log level", func(t *testing.T) {
		image := writeImage(t, countdown...)
		_, _, err := runApp(t, "run", "--image", image, "--log.level", "loud")
		require.ErrorContains(t, err, "unknown log level")
	})
}

func TestWitness(t *testing.T) {
	image := writeImage(t, countdown...)
	dir := t.TempDir()
	snapshot := filepath.Join(dir, "state.json")
	_, _, err := runApp(t, "run", "--image", image, "--snapshot", snapshot)
	require.NoError(t, err)

	state, err := jsonutil.LoadJSON[cpu.State](snapshot)
	require.NoError(t, err)
	want := state.EncodeWitness().StateHash()

	output := filepath.Join(dir, "witness.json")
	out, _, err := runApp(t, "witness", "--input", snapshot, "--output", output)
	require.NoError(t, err)
	require.Equal(t, want.Hex()+"\n", out)

	wo, err := jsonutil.LoadJSON[WitnessOutput](output)
	require.NoError(t, err)
	require.Equal(t, want, wo.StateHash)
	require.Len(t, wo.Witness, cpu.StateWitnessSize)

	_, _, err = runApp(t, "witness", "--input", filepath.Join(dir, "missing.json"))
	require.ErrorContains(t, err, "invalid input state")
}

func TestDisasm(t *testing.T) {
	image := writeImage(t, append(countdown, 0x0000007F)...)
	out, _, err := runApp(t, "disasm", "--image", image, "--base", "0x100")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	require.Equal(t, "00000100: 00a00093  addi x1, x0, 10", lines[0])
	require.Equal(t, "00000104: fff08093  addi x1, x1, -1", lines[1])
	require.Equal(t, "00000108: fe009ee3  bne x1, x0, -4", lines[2])
	require.Equal(t, "0000010c: 00100073  ebreak", lines[3])
	require.True(t, strings.HasPrefix(lines[4], "00000110: 0000007f  <"))

	out, _, err = runApp(t, "disasm", "--image", image, "--count", "2")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestLoggingWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := &LoggingWriter{Name: "console", Log: Logger(&buf, log.LevelInfo)}
	n, err := lw.Write([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 5, n)
	_, err = lw.Write([]byte{0x00, 0xff})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "text=hello")
	require.Contains(t, buf.String(), "data=0x00ff")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("TRACE")
	require.NoError(t, err)
	require.Equal(t, log.LevelTrace, lvl)
	_, err = ParseLevel("verbose")
	require.Error(t, err)
}
