// Package logging builds the file-backed zap logger. The TUI owns the
// terminal, so nothing may write to stdout or stderr while the program
// runs; everything goes to a log file under the state directory.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const filename = "journal.log"

// New returns a JSON logger writing to <stateDir>/journal.log. If the file
// cannot be opened the returned logger is a no-op; a journaling client must
// never fail to start over logging.
func New(stateDir string, debug bool) *zap.Logger {
	if stateDir == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return zap.NewNop()
	}
	f, err := os.OpenFile(filepath.Join(stateDir, filename), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zap.NewNop()
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(f),
		level,
	)
	return zap.New(core)
}
