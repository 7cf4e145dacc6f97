package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Debug is set once InitLogger enables debug output.
var Debug = false

// InitLogger points the global zerolog logger at <dataDir>/council.log.
// The TUI owns the terminal, so nothing is written to stdout. When console
// is non-nil, records are also written to it in human-readable form.
func InitLogger(dataDir string, debug bool, console io.Writer) (io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.InfoLevel
	if debug || CheckDebug() {
		level = zerolog.DebugLevel
		Debug = true
	}
	zerolog.SetGlobalLevel(level)

	logPath := filepath.Join(dataDir, "council.log")
	// 0600 - may contain prompts and model output
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		log.Logger = zerolog.New(io.Discard)
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	var w io.Writer = f
	if console != nil {
		w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen})
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()

	log.Debug().Str("path", logPath).Msg("debug logging started")
	return f, nil
}
