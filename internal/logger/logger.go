// Package logger is a process-wide levelled logger. Calls before Init are
// dropped, so library code can log unconditionally and tests stay quiet.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

var std *log.Logger

// Params configures the console logger.
type Params struct {
	Debug bool
	// Out defaults to os.Stderr.
	Out io.Writer
}

// Init installs the console logger.
func Init(params Params) {
	out := params.Out
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	if params.Debug {
		level = log.DebugLevel
	}
	std = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// Debug writes a message at DEBUG level.
func Debug(message string, keyvals ...any) {
	if std == nil {
		return
	}
	std.Debug(message, keyvals...)
}

// Info writes a message at INFO level.
func Info(message string, keyvals ...any) {
	if std == nil {
		return
	}
	std.Info(message, keyvals...)
}

// Warn writes a message at WARN level.
func Warn(message string, keyvals ...any) {
	if std == nil {
		return
	}
	std.Warn(message, keyvals...)
}

// Error writes a message at ERROR level.
func Error(message string, keyvals ...any) {
	if std == nil {
		return
	}
	std.Error(message, keyvals...)
}
