// Package debug provides the logging setup shared by every package.
//
// Loggers are zap loggers. A package-level default logger exists for code
// that has no logger injected; it writes to stderr until SetDefault replaces
// it.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/justyntemme/reapergo/pkg/config"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts the level names used in configuration files.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off":
		return LogLevelOff, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelOff:
		// Above every level zap emits.
		return zapcore.FatalLevel + 1
	default:
		return zapcore.InfoLevel
	}
}

var (
	defaultLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	defaultLogger atomic.Pointer[zap.Logger]
)

func init() {
	defaultLogger.Store(newLogger(os.Stderr, "", defaultLevel, false))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func newLogger(output io.Writer, prefix string, level zapcore.LevelEnabler, json bool) *zap.Logger {
	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(encoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(encoderConfig())
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(output), level)
	l := zap.New(core, zap.AddCaller())
	if prefix != "" {
		l = l.Named(prefix)
	}
	return l
}

// New creates a console logger writing to output.
func New(output io.Writer, prefix string, level LogLevel) *zap.Logger {
	return newLogger(output, prefix, level.zapLevel(), false)
}

// NewFileLogger creates a logger that appends to a file. The returned
// function closes the file; call it once the logger is no longer used.
func NewFileLogger(filename, prefix string, level LogLevel, json bool) (*zap.Logger, func(), error) {
	return newFileLogger(filename, prefix, level.zapLevel(), json)
}

func newFileLogger(filename, prefix string, level zapcore.LevelEnabler, json bool) (*zap.Logger, func(), error) {
	// Create log directory if it doesn't exist
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	sink, closeSink, err := zap.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return newLogger(sink, prefix, level, json), closeSink, nil
}

// FromConfig builds a logger from configuration. prefix names the logger.
// Its level is the shared level adjusted by SetLevel, initialised from cfg.
// The returned function releases the log file, if any.
func FromConfig(cfg config.LoggingConfig, prefix string) (*zap.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}
	defaultLevel.SetLevel(level.zapLevel())
	json := cfg.Format == "json"
	if cfg.File != "" {
		return newFileLogger(cfg.File, prefix, defaultLevel, json)
	}
	return newLogger(os.Stderr, prefix, defaultLevel, json), func() {}, nil
}

// Global logger functions

// Default returns the default logger instance.
func Default() *zap.Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the default logger. A nil logger disables logging.
func SetDefault(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	defaultLogger.Store(l)
}

// SetLevel changes the minimum level of the initial default logger and of
// every logger built by FromConfig, while they run.
func SetLevel(level LogLevel) {
	defaultLevel.SetLevel(level.zapLevel())
}

// Debug logs a debug message using the default logger.
func Debug(msg string, fields ...zap.Field) {
	Default().Debug(msg, fields...)
}

// Info logs an informational message using the default logger.
func Info(msg string, fields ...zap.Field) {
	Default().Info(msg, fields...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, fields ...zap.Field) {
	Default().Warn(msg, fields...)
}

// Error logs an error message using the default logger.
func Error(msg string, fields ...zap.Field) {
	Default().Error(msg, fields...)
}
