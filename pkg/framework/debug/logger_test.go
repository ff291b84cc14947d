package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/justyntemme/reapergo/pkg/config"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "TEST", LogLevelInfo)

		logger.Info("Hello World", zap.String("who", "tester"))

		output := buf.String()
		if !strings.Contains(output, "INFO") {
			t.Error("Missing log level")
		}
		if !strings.Contains(output, "TEST") {
			t.Error("Missing prefix")
		}
		if !strings.Contains(output, "Hello World") {
			t.Error("Missing message")
		}
		if !strings.Contains(output, "tester") {
			t.Error("Missing field")
		}
	})

	t.Run("LogLevels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", LogLevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("Debug message should not be logged")
		}
		if strings.Contains(output, "info message") {
			t.Error("Info message should not be logged")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("Warn message should be logged")
		}
		if !strings.Contains(output, "error message") {
			t.Error("Error message should be logged")
		}
	})

	t.Run("Off", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", LogLevelOff)

		logger.Error("should not appear")

		if buf.Len() > 0 {
			t.Error("Disabled logger should not write")
		}
	})

	t.Run("FileInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", LogLevelInfo)

		logger.Info("test")

		if !strings.Contains(buf.String(), ".go:") {
			t.Errorf("Missing file info in output: %s", buf.String())
		}
	})
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %s, want %s", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "INFO", "warn", "warning", "error", "off", ""} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestFromConfig(t *testing.T) {
	defer SetLevel(LogLevelInfo)
	path := filepath.Join(t.TempDir(), "logs", "plugin.log")
	logger, closeLog, err := FromConfig(config.LoggingConfig{Level: "debug", Format: "json", File: path}, "plugin")
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}

	logger.Debug("written to file", zap.Int("tracks", 3))
	_ = logger.Sync()
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"tracks":3`) {
		t.Errorf("Expected JSON field in log file, got: %s", data)
	}

	if _, _, err := FromConfig(config.LoggingConfig{Level: "loud"}, ""); err == nil {
		t.Error("Expected error for invalid level")
	}
}

func TestSetLevelAdjustsConfiguredLogger(t *testing.T) {
	defer SetLevel(LogLevelInfo)
	path := filepath.Join(t.TempDir(), "plugin.log")
	logger, closeLog, err := FromConfig(config.LoggingConfig{Level: "info", Format: "console", File: path}, "")
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	defer closeLog()

	logger.Debug("hidden at info")
	SetLevel(LogLevelDebug)
	logger.Debug("shown at debug")
	SetLevel(LogLevelOff)
	logger.Error("hidden when off")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	output := string(data)
	if strings.Contains(output, "hidden at info") {
		t.Error("Debug message logged at info level")
	}
	if !strings.Contains(output, "shown at debug") {
		t.Error("SetLevel did not reach the configured logger")
	}
	if strings.Contains(output, "hidden when off") {
		t.Error("Message logged while off")
	}
}

func TestNewFileLoggerCloseReleasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "host.log")
	logger, closeLog, err := NewFileLogger(path, "HOST", LogLevelWarn, false)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	logger.Info("below level")
	logger.Warn("above level")
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if strings.Contains(string(data), "below level") {
		t.Error("Info message should not be logged")
	}
	if !strings.Contains(string(data), "above level") {
		t.Error("Warn message missing from file")
	}
	if err := os.Remove(path); err != nil {
		t.Errorf("Log file still held after close: %v", err)
	}
}
