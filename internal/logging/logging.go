// Package logging wires the CLI's structured logger. It mirrors the
// original tool's RUST_LOG convention with PORTSWEEP_LOG, and otherwise
// follows the console-writer setup used across the example pack.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Init builds the console logger for one CLI invocation. verbose (the
// --verbose flag) and the PORTSWEEP_LOG=debug environment variable both
// select debug level; otherwise the logger stays at info.
func Init(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose || strings.EqualFold(os.Getenv("PORTSWEEP_LOG"), "debug") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
	return zerolog.New(writer).With().Timestamp().Logger()
}
