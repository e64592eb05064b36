package cmd

import (
	"fmt"
	"io"
	"strings"

	"log/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/log"

	"github.com/rv32emu/rv32emu/rvgo/cpu"
)

func Logger(w io.Writer, lvl slog.Level) log.Logger {
	return log.NewLogger(log.LogfmtHandlerWithLevel(w, lvl))
}

var logLevels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func ParseLevel(s string) (slog.Level, error) {
	lvl, ok := logLevels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

// LoggingWriter wraps a logger in an io.Writer,
// for the console of the emulated program to write to.
type LoggingWriter struct {
	Name string
	Log  log.Logger
}

func logAsText(b string) bool {
	for _, c := range b {
		if (c < 0x20 || c >= 0x7F) && (c != '\n' && c != '\t') {
			return false
		}
	}
	return true
}

func (lw *LoggingWriter) Write(b []byte) (int, error) {
	t := string(b)
	if logAsText(t) {
		lw.Log.Info(lw.Name, "text", t)
	} else {
		lw.Log.Info(lw.Name, "data", hexutil.Bytes(b))
	}
	return len(b), nil
}

// HexU32 to lazy-format integer attributes for logging
type HexU32 uint32

func (v HexU32) String() string {
	return fmt.Sprintf("%08x", uint32(v))
}

func (v HexU32) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// logRegisters dumps the register file, four registers per record.
func logRegisters(l log.Logger, regs cpu.RegisterFile) {
	for i := 0; i < len(regs); i += 4 {
		l.Info("registers",
			fmt.Sprintf("x%d", i), HexU32(regs[i]),
			fmt.Sprintf("x%d", i+1), HexU32(regs[i+1]),
			fmt.Sprintf("x%d", i+2), HexU32(regs[i+2]),
			fmt.Sprintf("x%d", i+3), HexU32(regs[i+3]),
		)
	}
}
