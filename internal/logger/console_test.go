package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelFiltering(t *testing.T) {
	tests := []struct {
		name         string
		logLevel     string
		messageLevel string
		shouldAppear bool
	}{
		{name: "trace sees trace", logLevel: "trace", messageLevel: "trace", shouldAppear: true},
		{name: "debug blocks trace", logLevel: "debug", messageLevel: "trace", shouldAppear: false},
		{name: "debug sees debug", logLevel: "debug", messageLevel: "debug", shouldAppear: true},
		{name: "info blocks debug", logLevel: "info", messageLevel: "debug", shouldAppear: false},
		{name: "info sees warn", logLevel: "info", messageLevel: "warn", shouldAppear: true},
		{name: "warn blocks info", logLevel: "warn", messageLevel: "info", shouldAppear: false},
		{name: "warn sees error", logLevel: "warn", messageLevel: "error", shouldAppear: true},
		{name: "error blocks warn", logLevel: "error", messageLevel: "warn", shouldAppear: false},
		{name: "error sees error", logLevel: "error", messageLevel: "error", shouldAppear: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.logLevel)
			msg := tt.messageLevel + " msg"

			switch tt.messageLevel {
			case "trace":
				logger.LogTrace(msg)
			case "debug":
				logger.LogDebug(msg)
			case "info":
				logger.LogInfo(msg)
			case "warn":
				logger.LogWarn(msg)
			case "error":
				logger.LogError(msg)
			}

			assert.Equal(t, tt.shouldAppear, strings.Contains(buf.String(), msg))
		})
	}
}

func TestPlainFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	logger.Debugf("parsed %q", "x^2")

	// A buffer is never a terminal, so no escape codes.
	assert.Equal(t, "[DEBUG] parsed \"x^2\"\n", buf.String())
}

func TestDefaultLevel(t *testing.T) {
	for _, level := range []string{"", "loud", "  "} {
		logger := NewConsoleLogger(&bytes.Buffer{}, level)
		assert.Equal(t, DefaultLevel, logger.Level())
	}
	assert.Equal(t, "info", NewConsoleLogger(nil, " INFO ").Level())
}

func TestNilWriterDiscards(t *testing.T) {
	logger := NewConsoleLogger(nil, "trace")
	assert.NotPanics(t, func() {
		logger.LogError("dropped")
		logger.Tracef("dropped %d", 1)
	})
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("Trace"))
	assert.True(t, IsValidLevel("warn"))
	assert.False(t, IsValidLevel("verbose"))
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}
