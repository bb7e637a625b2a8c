// Package logging provides the zap-backed loggers used across scanlog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.SugaredLogger.
type Logger = *zap.SugaredLogger

var (
	defaultLogger Logger
	loggerOnce    sync.Once

	mu       sync.Mutex
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	output   io.Writer = os.Stderr
)

// SetLogLevel sets the level of every logger with ["debug", "info", "warn", "error"].
func SetLogLevel(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logLevel.SetLevel(zapcore.DebugLevel)
	case "", "info":
		logLevel.SetLevel(zapcore.InfoLevel)
	case "warn":
		logLevel.SetLevel(zapcore.WarnLevel)
	case "error":
		logLevel.SetLevel(zapcore.ErrorLevel)
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}

// SetOutput redirects loggers created afterwards. Stdout is reserved for
// command output and the MCP stdio transport, so the default is stderr.
// A nil writer restores the default.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// New creates a named logger.
func New(name string) Logger {
	return newLogger(name)
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return zap.NewNop().Sugar()
}

// DefaultLogger returns the process-wide logger.
func DefaultLogger() Logger {
	loggerOnce.Do(func() {
		defaultLogger = newLogger("scanlog")
	})
	return defaultLogger
}

func newLogger(name string) Logger {
	mu.Lock()
	w := output
	mu.Unlock()

	return zap.New(
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(humanEncoderConfig()),
			zapcore.AddSync(w),
			logLevel,
		),
		zap.AddStacktrace(zap.ErrorLevel),
	).Named(name).Sugar()
}

func humanEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
